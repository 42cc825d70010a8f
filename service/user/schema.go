package user

import (
	"gitee.com/taoJie_1/mall-advisor/model/enum"
	"gitee.com/taoJie_1/mall-advisor/utils"
	"github.com/google/jsonschema-go/jsonschema"
)

func nullable(types ...string) *jsonschema.Schema {
	return &jsonschema.Schema{Types: append(types, "null")}
}

func intentEnum() []any {
	values := make([]any, len(enum.Intents))
	for i, v := range enum.Intents {
		values[i] = string(v)
	}
	return values
}

func sortByEnum() []any {
	values := make([]any, 0, len(enum.SortBys)+1)
	for _, v := range enum.SortBys {
		values = append(values, string(v))
	}
	return append(values, nil)
}

// intentSchema 意图分类输出的结构约束
var intentSchema = utils.MustResolve(&jsonschema.Schema{
	Type:     "object",
	Required: []string{"intent"},
	Properties: map[string]*jsonschema.Schema{
		"intent": {Type: "string", Enum: intentEnum()},
		"query": {
			Types: []string{"object", "null"},
			Properties: map[string]*jsonschema.Schema{
				"keyword":  nullable("string"),
				"category": nullable("string"),
				"products_to_compare": {
					Types: []string{"array", "null"},
					Items: &jsonschema.Schema{Type: "string"},
				},
				"quantity":     nullable("number"),
				"price_max":    nullable("number"),
				"price_min":    nullable("number"),
				"sort_by":      {Types: []string{"string", "null"}, Enum: sortByEnum()},
				"device_model": nullable("string"),
			},
		},
	},
})

// slotSchema 字段提取输出的结构约束, 缺省字段等同于 null
var slotSchema = utils.MustResolve(&jsonschema.Schema{
	Type: "object",
	Properties: map[string]*jsonschema.Schema{
		string(enum.SlotCategory): nullable("string"),
		string(enum.SlotBudget):   nullable("number", "string"),
		string(enum.SlotBrand):    nullable("string"),
		string(enum.SlotPurpose):  nullable("string"),
		string(enum.SlotPriority): nullable("string"),
		string(enum.SlotPhone):    nullable("string", "number"),
	},
})
