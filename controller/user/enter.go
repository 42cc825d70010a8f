package user

type ApiGroup struct {
	ChatApi ChatApi
	BaseApi BaseApi
}
