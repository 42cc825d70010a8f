package user

import (
	"errors"
	"strings"
	"unicode/utf8"

	"gitee.com/taoJie_1/mall-advisor/model/common"
)

type IValidator interface {
	ValidatorChatRequest(data *common.ChatRequest) error
}

type Validator struct {
	// 0 表示不限制
	MaxPromptLength uint
}

func (v *Validator) ValidatorChatRequest(data *common.ChatRequest) error {
	if data == nil || strings.TrimSpace(data.Message) == "" {
		return errors.New("参数错误[gftsd]")
	}
	if v.MaxPromptLength > 0 && uint(utf8.RuneCountInString(strings.TrimSpace(data.Message))) > v.MaxPromptLength {
		return errors.New("消息过长[gftse]")
	}
	if len(data.SessionID) > 64 {
		return errors.New("会话ID无效[gftsf]")
	}
	return nil
}
