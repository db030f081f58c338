package util

import (
	"regexp"
	"strings"
)

var slugInvalidRegex = regexp.MustCompile(`[^a-z0-9]+`)

// Slugify 将标题转换为 URL 友好的 slug，空白与符号折叠为连字符
func Slugify(s string) string {
	s = strings.ToLower(strings.TrimSpace(s))
	s = slugInvalidRegex.ReplaceAllString(s, "-")
	return strings.Trim(s, "-")
}
