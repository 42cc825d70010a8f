package user

import (
	"time"

	"gitee.com/taoJie_1/mall-advisor/global"
	"gitee.com/taoJie_1/mall-advisor/model/common"
	"gitee.com/taoJie_1/mall-advisor/task"
	"github.com/gin-gonic/gin"
)

type BaseApi struct{}

// Reindex 商品数据变更后的webhook, 防抖后重建向量索引
func (m *BaseApi) Reindex(ctx *gin.Context) {
	task.NewManager(global.EmbeddingService).DebounceProductReindex(3 * time.Second)
	common.SuccessOk(ctx, "商品索引任务已调度")
}

// Reload MCP能力刷新webhook
func (m *BaseApi) Reload(ctx *gin.Context) {
	taskManager := task.NewManager(nil)

	go func() {
		if err := taskManager.McpCapabilitiesReloader(); err != nil {
			global.Log.Errorf("通过API触发MCP能力刷新失败: %v", err)
		}
	}()

	common.SuccessOk(ctx, "MCP能力刷新任务已启动")
}
