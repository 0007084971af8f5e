package tracing

import (
	"strings"
)

const (
	// DefaultMaxLength 默认最大属性长度
	DefaultMaxLength = 200
	// MaxSQLLength SQL语句最大长度
	MaxSQLLength = 500
	// MaxRedisLength Redis键最大长度
	MaxRedisLength = 100
	// MaxTextLength 简历和岗位描述正文最大长度
	MaxTextLength = 150
)

// piiKeywords 属性名包含这些关键字时，值需要掩码
var piiKeywords = []string{
	"email", "phone", "password", "name", "姓名", "电话", "邮箱",
	"address", "地址", "linkedin", "secret", "token", "api_key",
}

// SafeAttributeValue 属性名看起来是个人信息时掩码，否则按长度截断
func SafeAttributeValue(name, value string, maxLength int) string {
	lower := strings.ToLower(name)
	for _, kw := range piiKeywords {
		if strings.Contains(lower, kw) {
			return MaskPII(value)
		}
	}
	return TruncateString(value, maxLength)
}

// MaskPII 掩码个人信息：短值保留首尾各一个字符，长值保留首尾各两个字符。
// "张三" -> "张*"，"13812345678" -> "13*******78"
func MaskPII(value string) string {
	runes := []rune(value)
	n := len(runes)
	switch {
	case n == 0:
		return ""
	case n == 1:
		return "*"
	case n == 2:
		return string(runes[:1]) + "*"
	case n <= 4:
		return string(runes[:1]) + strings.Repeat("*", n-2) + string(runes[n-1:])
	default:
		return string(runes[:2]) + strings.Repeat("*", n-4) + string(runes[n-2:])
	}
}

// TruncateString 超长时保留首尾，中间以 "..." 连接
func TruncateString(s string, maxLength int) string {
	runes := []rune(s)
	if len(runes) <= maxLength {
		return s
	}
	if maxLength <= 3 {
		return string(runes[:maxLength])
	}
	half := max((maxLength-3)/2, 1)
	return string(runes[:half]) + "..." + string(runes[len(runes)-half:])
}

// SafeSQL 截断SQL语句
func SafeSQL(sql string) string {
	return TruncateString(sql, MaxSQLLength)
}

// SafeRedisKey 截断Redis键
func SafeRedisKey(key string) string {
	return TruncateString(key, MaxRedisLength)
}

// SafeText 截断简历或岗位描述正文
func SafeText(content string) string {
	return TruncateString(content, MaxTextLength)
}
