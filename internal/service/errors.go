package service

import (
	"errors"
)

const (
	BadRequest          = 400
	Unauthorized        = 401
	NotFound            = 404
	TooManyRequests     = 429
	InternalServerError = 500
)

var (
	ErrParamInvalid        = errors.New("参数错误")
	ErrPostNotFound        = errors.New("帖子不存在")
	ErrCategoryNotFound    = errors.New("分类不存在")
	ErrPostCommentNotFound = errors.New("评论不存在")
	ErrSlugExist           = errors.New("slug 已存在")
	ErrActionDuplicate     = errors.New("重复操作")
	ErrLikeNotFound        = errors.New("尚未点赞")
	ErrActionAnomalous     = errors.New("操作过于频繁")
	ErrInteractionInvalid  = errors.New("交互参数不合法")
	ErrUnknownMetric       = errors.New("未知指标")
	ErrPlatformInvalid     = errors.New("不支持的分享平台")
	UnauthorizedError      = errors.New("权限不足")
	UnExpectedError        = errors.New("系统异常，请稍后重试")
)

var ErrorMap = map[error]int{
	ErrParamInvalid:        BadRequest,
	ErrPostNotFound:        NotFound,
	ErrCategoryNotFound:    NotFound,
	ErrPostCommentNotFound: NotFound,
	ErrSlugExist:           BadRequest,
	ErrActionDuplicate:     BadRequest,
	ErrLikeNotFound:        BadRequest,
	ErrActionAnomalous:     TooManyRequests,
	ErrInteractionInvalid:  BadRequest,
	ErrUnknownMetric:       BadRequest,
	ErrPlatformInvalid:     BadRequest,
	UnauthorizedError:      Unauthorized,
	UnExpectedError:        InternalServerError,
}
