package service

import (
	"context"
	"encoding/json"

	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"

	"rag-chatbot-be/internal/dto"
	"rag-chatbot-be/internal/pkg/logger"
	"rag-chatbot-be/pkg/events"
	natspub "rag-chatbot-be/pkg/nats"
)

type IConsumerService interface {
	Consume(ctx context.Context) error
}

// consumerService drains the in-process document event topic and mirrors
// each event to NATS when a publisher is configured. NATS failures are
// logged, never propagated: the local index is already consistent.
type consumerService struct {
	pubSub    *gochannel.GoChannel
	topicName string
	natsPub   *natspub.Publisher
	logger    logger.ILogger
}

func NewConsumerService(
	pubSub *gochannel.GoChannel,
	topicName string,
	natsPub *natspub.Publisher,
	l logger.ILogger,
) IConsumerService {
	return &consumerService{
		pubSub:    pubSub,
		topicName: topicName,
		natsPub:   natsPub,
		logger:    l,
	}
}

func (cs *consumerService) Consume(ctx context.Context) error {
	messages, err := cs.pubSub.Subscribe(ctx, cs.topicName)
	if err != nil {
		return err
	}

	go func() {
		for msg := range messages {
			cs.processMessage(ctx, msg)
		}
	}()

	return nil
}

func (cs *consumerService) processMessage(ctx context.Context, msg *message.Message) {
	switch msg.Metadata.Get(EventTypeMetadataKey) {
	case EventDocumentDeleted:
		cs.processDeleted(ctx, msg)
	default:
		cs.processIndexed(ctx, msg)
	}
}

func (cs *consumerService) processIndexed(ctx context.Context, msg *message.Message) {
	var payload dto.DocumentIndexedMessage
	if err := json.Unmarshal(msg.Payload, &payload); err != nil {
		cs.logger.Error("consumer_service", "failed to unmarshal message", map[string]interface{}{
			"error": err.Error(),
		})
		msg.Ack() // Ack invalid messages to prevent infinite retry
		return
	}

	cs.logger.Info("consumer_service", "document indexed", map[string]interface{}{
		"parent_id":   payload.ParentId,
		"filename":    payload.Filename,
		"chunk_count": payload.ChunkCount,
	})

	cs.mirror(ctx, payload.ParentId, events.NewDocumentIndexed(payload.ParentId, payload.Filename, payload.ChunkCount))
	msg.Ack()
}

func (cs *consumerService) processDeleted(ctx context.Context, msg *message.Message) {
	var payload dto.DocumentDeletedMessage
	if err := json.Unmarshal(msg.Payload, &payload); err != nil {
		cs.logger.Error("consumer_service", "failed to unmarshal message", map[string]interface{}{
			"error": err.Error(),
		})
		msg.Ack()
		return
	}

	cs.logger.Info("consumer_service", "document deleted", map[string]interface{}{
		"parent_id":      payload.ParentId,
		"chunks_deleted": payload.ChunksDeleted,
	})

	cs.mirror(ctx, payload.ParentId, events.NewDocumentDeleted(payload.ParentId, payload.ChunksDeleted))
	msg.Ack()
}

func (cs *consumerService) mirror(ctx context.Context, parentId string, event events.Event) {
	if cs.natsPub == nil {
		return
	}
	if err := cs.natsPub.Publish(ctx, event); err != nil {
		cs.logger.Warn("consumer_service", "failed to mirror event to NATS", map[string]interface{}{
			"parent_id": parentId,
			"error":     err.Error(),
		})
	}
}
