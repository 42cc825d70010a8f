package user

import (
	"errors"

	"gitee.com/taoJie_1/mall-advisor/global"
	"gitee.com/taoJie_1/mall-advisor/model/common"
	"gitee.com/taoJie_1/mall-advisor/service"
	"gitee.com/taoJie_1/mall-advisor/service/user"
	"github.com/gin-gonic/gin"
)

type ChatApi struct{}

// HandleChat 处理一条顾客消息并同步返回回复
func (d *ChatApi) HandleChat(ctx *gin.Context) {
	var req common.ChatRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		common.Fail(ctx, "参数无效")
		return
	}

	group := service.Service.UserServiceGroup
	if err := group.Validator.ValidatorChatRequest(&req); err != nil {
		common.Fail(ctx, err.Error())
		return
	}

	reply, err := group.ChatService.Chat(ctx.Request.Context(), &req)
	if err != nil {
		if !errors.Is(err, user.ErrEmptyMessage) {
			global.Log.Errorf("[HandleChat] 处理消息失败: %v", err)
		}
		common.Fail(ctx, "消息处理失败")
		return
	}

	common.Success(ctx, reply)
}

// Script 返回咨询脚本, 供前端展示进度
func (d *ChatApi) Script(ctx *gin.Context) {
	common.Success(ctx, service.Service.UserServiceGroup.ChatService.Script())
}

// ResetSession 清除会话状态
func (d *ChatApi) ResetSession(ctx *gin.Context) {
	id := ctx.Param("id")
	if id == "" || len(id) > 64 {
		common.Fail(ctx, "会话ID无效")
		return
	}

	if err := service.Service.UserServiceGroup.ChatService.Reset(ctx.Request.Context(), id); err != nil {
		global.Log.Errorf("[ResetSession] 清除会话 %s 失败: %v", id, err)
		common.Fail(ctx, "清除会话失败")
		return
	}
	common.SuccessOk(ctx, "会话已清除")
}
