package utils

import (
	"math"
	"regexp"
	"strconv"
	"strings"
	"unicode"
	"unicode/utf8"
)

// 数字 + 可选的越南语金额单位
var vndAmountRE = regexp.MustCompile(`(\d+(?:[.,]\d+)*)\s*(triệu|trieu|tỷ|tỉ|ty|nghìn|nghin|ngàn|ngan|củ|cu|tr|k|m)?`)

var vndUnits = map[string]float64{
	"triệu": 1e6, "trieu": 1e6, "tr": 1e6, "củ": 1e6, "cu": 1e6, "m": 1e6,
	"nghìn": 1e3, "nghin": 1e3, "ngàn": 1e3, "ngan": 1e3, "k": 1e3,
	"tỷ": 1e9, "tỉ": 1e9, "ty": 1e9,
}

// ParseVndAmount 将 "20 triệu"、"1,5tr"、"500k"、"20.000.000đ" 这类金额转换为整数VND。
// 出现多个数字(如区间 "15-20 triệu")、没有单位的小数字等含糊写法返回 false。
func ParseVndAmount(text string) (int64, bool) {
	s := strings.ToLower(strings.TrimSpace(text))
	if s == "" {
		return 0, false
	}

	matches := vndAmountRE.FindAllStringSubmatchIndex(s, -1)
	if len(matches) != 1 {
		return 0, false
	}
	m := matches[0]
	numStr := s[m[2]:m[3]]

	unit := ""
	if m[4] >= 0 {
		unit = s[m[4]:m[5]]
		// 单位只是某个单词的前缀, 例如 "20 máy"
		if r, _ := utf8.DecodeRuneInString(s[m[5]:]); unicode.IsLetter(r) {
			unit = ""
		}
	}

	value, ok := parseGroupedNumber(numStr, unit != "")
	if !ok {
		return 0, false
	}

	if unit == "" {
		// 没有单位时, 过小的数字无法判断量级
		if value < 1000 {
			return 0, false
		}
		return int64(value), true
	}

	amount := math.Round(value * vndUnits[unit])
	if amount <= 0 || amount > math.MaxInt64 {
		return 0, false
	}
	return int64(amount), true
}

// parseGroupedNumber 解析带千分位或小数分隔符的数字。
// 分隔符后全为3位数字时视为千分位; 允许小数时只接受一个分隔符。
func parseGroupedNumber(str string, allowDecimal bool) (float64, bool) {
	groups := strings.FieldsFunc(str, func(r rune) bool { return r == '.' || r == ',' })
	if len(groups) == 0 {
		return 0, false
	}

	thousands := len(groups) > 1
	for _, g := range groups[1:] {
		if len(g) != 3 {
			thousands = false
			break
		}
	}

	switch {
	case len(groups) == 1 || thousands:
		n, err := strconv.ParseInt(strings.Join(groups, ""), 10, 64)
		if err != nil {
			return 0, false
		}
		return float64(n), true
	case allowDecimal && len(groups) == 2:
		f, err := strconv.ParseFloat(groups[0]+"."+groups[1], 64)
		if err != nil {
			return 0, false
		}
		return f, true
	}
	return 0, false
}
