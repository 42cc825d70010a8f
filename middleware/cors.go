package middleware

import (
	"net/http"
	"slices"
	"time"

	"gitee.com/taoJie_1/mall-advisor/global"
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
)

// CorsHandle 跨域配置, 未配置来源或包含 * 时允许全部
func CorsHandle() gin.HandlerFunc {
	return cors.New(corsConfig(global.Config.Cors))
}

func corsConfig(origins []string) cors.Config {
	c := cors.DefaultConfig()
	if len(origins) == 0 || slices.Contains(origins, "*") {
		c.AllowAllOrigins = true
	} else {
		c.AllowOrigins = origins
	}
	c.AllowMethods = []string{http.MethodGet, http.MethodPost, http.MethodDelete, http.MethodOptions}
	c.AllowHeaders = []string{"Origin", "Content-Type", "Authorization"}
	c.MaxAge = 12 * time.Hour
	return c
}
