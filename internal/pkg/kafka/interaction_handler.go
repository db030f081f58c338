package kafka

import (
	"Quill/internal/pkg/consts"
	"Quill/internal/pkg/counter"
	"Quill/internal/service"
	"context"
	"errors"
	log "log/slog"

	"github.com/IBM/sarama"
	"github.com/goccy/go-json"
)

// 埋点侧额外上报的消息类型，不落交互日志
const messageTypeImpression = "impression"

// InteractionMessage 前端埋点经采集网关投递的交互事件
type InteractionMessage struct {
	Type      string `json:"type"`
	PostID    uint64 `json:"post_id"`
	UserID    uint64 `json:"user_id"`
	IPAddress string `json:"ip_address"`
}

type InteractionHandler struct {
	interactionSvc service.InteractionService
	buffer         *counter.Buffer
}

func NewInteractionHandler(interactionSvc service.InteractionService, buffer *counter.Buffer) *InteractionHandler {
	return &InteractionHandler{
		interactionSvc: interactionSvc,
		buffer:         buffer,
	}
}

func (s *InteractionHandler) Setup(sarama.ConsumerGroupSession) error {
	log.Info("interaction consumer setup")
	return nil
}

func (s *InteractionHandler) Cleanup(sarama.ConsumerGroupSession) error {
	log.Info("interaction consumer cleanup")
	return nil
}

func (s *InteractionHandler) ConsumeClaim(session sarama.ConsumerGroupSession, claim sarama.ConsumerGroupClaim) error {
	log.Info("topic-interaction consume claim")
	err := pullMessageBatch(session, claim, s.logic)
	if err != nil {
		log.Error("topic-interaction process batch error", "err", err)
		return err
	}
	return nil
}

// logic 业务性拒绝（异常流量、帖子不存在）直接丢弃消息，
// 只有存储类错误才返回并触发重试
func (s *InteractionHandler) logic(ctx context.Context, msg *sarama.ConsumerMessage) error {
	var event InteractionMessage
	if err := json.Unmarshal(msg.Value, &event); err != nil {
		log.ErrorContext(ctx, "unmarshal interaction message error", "err", err)
		return nil
	}
	if event.PostID == 0 {
		log.WarnContext(ctx, "drop interaction message without post_id")
		return nil
	}

	switch event.Type {
	case messageTypeImpression:
		s.buffer.Increment(counter.Key{Kind: counter.KindPost, ID: event.PostID}, counter.MetricImpressions, 1)
		return nil
	case consts.InteractionView:
		err := s.interactionSvc.RecordPostView(ctx, event.PostID, service.Identity{
			UserID: event.UserID,
			IP:     event.IPAddress,
		})
		if errors.Is(err, service.ErrActionAnomalous) || errors.Is(err, service.ErrPostNotFound) {
			log.WarnContext(ctx, "drop rejected view event", "post_id", event.PostID, "err", err)
			return nil
		}
		return err
	default:
		log.WarnContext(ctx, "drop interaction message with unknown type", "type", event.Type)
		return nil
	}
}
