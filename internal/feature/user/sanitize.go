package user

import (
	"strings"

	"github.com/microcosm-cc/bluemonday"
)

// strict policy：空白名单，标签全部剥掉，保留文本
var stripAll = bluemonday.StrictPolicy()

// 引号不是标签，撤销 bluemonday 对它们的实体转义
var quoteUnescaper = strings.NewReplacer("&#39;", "'", "&#34;", `"`)

// Sanitize 去掉所有标签并去首尾空白，不会失败
func Sanitize(s string) string {
	out := stripAll.Sanitize(escapeDangling(strings.TrimSpace(s)))
	return strings.TrimSpace(quoteUnescaper.Replace(out))
}

// escapeDangling 最后一个 '>' 之后的 '<' 不可能构成标签，按文本转义，避免后面的文字被吞掉
func escapeDangling(s string) string {
	i := strings.LastIndexByte(s, '>') + 1
	if !strings.Contains(s[i:], "<") {
		return s
	}
	return s[:i] + strings.ReplaceAll(s[i:], "<", "&lt;")
}
