package initialize

import (
	"time"

	"gitee.com/taoJie_1/mall-advisor/global"
	"gitee.com/taoJie_1/mall-advisor/task"
)

// loadData 加载业务所需数据
func (i *Initializer) loadData(taskManager *task.Manager) {
	if _, err := taskManager.ImportProducts(global.Config.ProductSeedPath); err != nil {
		global.Log.Errorln("启动时导入商品失败:", err)
	}
	// 启动后补建一次索引, 不阻塞启动
	taskManager.DebounceProductReindex(5 * time.Second)
}
