package utils

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/google/jsonschema-go/jsonschema"
)

var ErrEmptyJSON = errors.New("JSON内容为空")

// DecodeWithSchema 校验LLM返回的JSON对象并解码到 target。
// 内容必须是合法的JSON对象且满足 schema, 否则返回错误, 不做任何修补。
func DecodeWithSchema(raw string, schema *jsonschema.Resolved, target any) error {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return ErrEmptyJSON
	}

	var instance map[string]any
	if err := json.Unmarshal([]byte(raw), &instance); err != nil {
		return fmt.Errorf("JSON解析失败[fk2m]: %w", err)
	}
	if instance == nil {
		return fmt.Errorf("JSON内容不是对象[fk2n]: %s", Truncate(raw, 64))
	}

	if schema != nil {
		if err := schema.Validate(instance); err != nil {
			return fmt.Errorf("JSON不符合约定的结构[fk2o]: %w", err)
		}
	}

	if err := json.Unmarshal([]byte(raw), target); err != nil {
		return fmt.Errorf("JSON解码失败[fk2p]: %w", err)
	}
	return nil
}

// MustResolve 用于包级schema变量的初始化
func MustResolve(s *jsonschema.Schema) *jsonschema.Resolved {
	rs, err := s.Resolve(nil)
	if err != nil {
		panic(fmt.Sprintf("schema解析失败: %v", err))
	}
	return rs
}
