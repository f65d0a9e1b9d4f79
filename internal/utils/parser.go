package utils

import (
	"regexp"
	"strings"
)

// 元数据里常见的分隔符并不统一（逗号、管道、斜杠混用），
// 统一在这里规范化，打分核心不再接触原始字符串。
var reListSep = regexp.MustCompile(`[,|/]`)

// reTokenJunk 匹配规范化后仍残留的标点（保留字母、数字、下划线）
var reTokenJunk = regexp.MustCompile(`[^a-z0-9_\p{L}]+`)

// SplitList 把一个分隔符混用的元数据字符串解析为有序的干净列表
func SplitList(raw string) []string {
	if raw == "" {
		return nil
	}

	parts := reListSep.Split(raw, -1)
	result := make([]string, 0, len(parts))
	for _, part := range parts {
		if trimmed := strings.TrimSpace(part); trimmed != "" {
			result = append(result, trimmed)
		}
	}
	return result
}

// NameToken 把人名或类型名压成单个特征词
// 多词名字保留为一个词项（"John Carpenter" → "john_carpenter"），
// 这样向量空间把全名当作一个特征，而不是按空格拆开。
func NameToken(name string) string {
	token := strings.ToLower(strings.TrimSpace(name))
	if token == "" {
		return ""
	}

	// 空白折叠为下划线
	token = strings.Join(strings.Fields(token), "_")

	// 去掉点号、撇号等残留标点
	token = reTokenJunk.ReplaceAllString(token, "")

	return token
}

// NameTokens 批量转换，丢弃清洗后为空的条目
func NameTokens(names []string) []string {
	tokens := make([]string, 0, len(names))
	for _, name := range names {
		if token := NameToken(name); token != "" {
			tokens = append(tokens, token)
		}
	}
	return tokens
}
