package controller

import "gitee.com/taoJie_1/mall-advisor/controller/user"

var Api = new(ApiGroup)

type ApiGroup struct {
	UserApiGroup user.ApiGroup
}
