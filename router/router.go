package router

import (
	"net/http"

	"gitee.com/taoJie_1/mall-advisor/controller"
	"gitee.com/taoJie_1/mall-advisor/middleware"
	"gitee.com/taoJie_1/mall-advisor/model/common"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

func Start(ginServer *gin.Engine) {
	ginServer.Use(middleware.CorsHandle()) //全局中间件

	ginServer.GET("/healthz", func(ctx *gin.Context) {
		ctx.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	ginServer.GET("/metrics", gin.WrapH(promhttp.Handler()))

	ginServer.NoRoute(func(ctx *gin.Context) {
		common.FailNotFound(ctx)
	})

	v1 := ginServer.Group("api/v1")
	{
		v1.POST("/chat", controller.Api.UserApiGroup.ChatApi.HandleChat)
		v1.GET("/consult/script", controller.Api.UserApiGroup.ChatApi.Script)
		v1.DELETE("/session/:id", controller.Api.UserApiGroup.ChatApi.ResetSession)
	}

	admin := v1.Group("admin")
	{
		admin.POST("/reindex", controller.Api.UserApiGroup.BaseApi.Reindex)
		admin.POST("/mcp/reload", controller.Api.UserApiGroup.BaseApi.Reload)
	}
}
