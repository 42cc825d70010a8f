package db

// Product 商品表, 同时作为顾问提示词的上下文数据库
type Product struct {
	BaseField
	Name        string `db:"name" json:"name" info:"名称"`
	Category    string `db:"category" json:"category" info:"分类"`
	Brand       string `db:"brand" json:"brand" info:"品牌"`
	Price       int64  `db:"price" json:"price" info:"价格(VND)"`
	Stock       int64  `db:"stock" json:"stock" info:"库存"`
	Description string `db:"description" json:"description" info:"描述"`
	Specs       string `db:"specs" json:"specs" info:"配置参数"`
	Drawbacks   string `db:"drawbacks" json:"drawbacks" info:"已知缺点"`
	Warranty    string `db:"warranty" json:"warranty" info:"保修"`
}

func (Product) TableName() string {
	return `products`
}
