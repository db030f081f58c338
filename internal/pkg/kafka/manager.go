package kafka

import (
	"Quill/internal/api/config"
	"Quill/internal/pkg/counter"
	"Quill/internal/service"
	"context"
	log "log/slog"

	"github.com/IBM/sarama"
)

// ConsumerManager 管理所有 Kafka 消费者
type ConsumerManager struct {
	interactionConsumer sarama.ConsumerGroup
	interactionHandler  sarama.ConsumerGroupHandler
}

func NewConsumerManager(
	cfg *config.Config,
	interactionSvc service.InteractionService,
	buffer *counter.Buffer,
) (*ConsumerManager, error) {
	saramaCfg := newSaramaConfig(cfg.Kafka)

	interactionConsumer, err := sarama.NewConsumerGroup(cfg.Kafka.Brokers, cfg.KafkaInteractionConsumer.GroupID, saramaCfg)
	if err != nil {
		return nil, err
	}

	return &ConsumerManager{
		interactionConsumer: interactionConsumer,
		interactionHandler:  NewInteractionHandler(interactionSvc, buffer),
	}, nil
}

// Start 启动所有消费者，阻塞到 ctx 取消
func (m *ConsumerManager) Start(ctx context.Context, cfg *config.Config) error {
	go func() {
		topic := cfg.KafkaInteractionConsumer.Topic
		log.Info("Interaction consumer started", "topic", topic)
		for {
			if err := m.interactionConsumer.Consume(ctx, []string{topic}, m.interactionHandler); err != nil {
				log.Error("Error from consumer", "err", err)
			}
			if ctx.Err() != nil {
				return
			}
		}
	}()

	<-ctx.Done()
	log.Info("Kafka Manager shutting down...")

	if err := m.interactionConsumer.Close(); err != nil {
		log.Error("Failed to close interaction consumer", "err", err)
	}
	return nil
}
