package consts

const (
	PostStatusDraft     int8 = 0
	PostStatusPublished int8 = 1
)

// 交互事件类型
const (
	InteractionView    = "view"
	InteractionLike    = "like"
	InteractionComment = "comment"
	InteractionShare   = "share"
)

// 交互事件分类，view 为被动，其余为主动
const (
	InteractionCategoryPassive = "passive"
	InteractionCategoryActive  = "active"
)

// 分享平台
var SharePlatforms = map[string]struct{}{
	"facebook": {},
	"twitter":  {},
	"linkedin": {},
	"whatsapp": {},
	"other":    {},
}
