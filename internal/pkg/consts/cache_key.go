package consts

// 响应缓存签名前缀，失效按前缀粗粒度清除
const (
	PostListKey       = "post:list:"
	PostDetailKey     = "post:detail:"
	CategoryListKey   = "category:list:"
	CategoryDetailKey = "category:detail:"
)

const (
	AnalyticsFlushLock = "analytics:flush:lock"
)
