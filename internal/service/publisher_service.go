package service

import (
	"context"
	"encoding/json"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"

	"rag-chatbot-be/internal/dto"
	"rag-chatbot-be/internal/pkg/logger"
)

// DocumentEventsTopic carries index lifecycle notifications between the
// document service and the consumer that mirrors them to NATS.
const DocumentEventsTopic = "document_events"

// EventTypeMetadataKey tags each bus message with its lifecycle event type.
const EventTypeMetadataKey = "event_type"

const (
	EventDocumentIndexed = "DOCUMENT_INDEXED"
	EventDocumentDeleted = "DOCUMENT_DELETED"
)

type IPublisherService interface {
	PublishDocumentIndexed(ctx context.Context, msg dto.DocumentIndexedMessage) error
	PublishDocumentDeleted(ctx context.Context, msg dto.DocumentDeletedMessage) error
}

type publisherService struct {
	pubSub    *gochannel.GoChannel
	topicName string
	logger    logger.ILogger
}

func NewPublisherService(pubSub *gochannel.GoChannel, topicName string, l logger.ILogger) IPublisherService {
	return &publisherService{
		pubSub:    pubSub,
		topicName: topicName,
		logger:    l,
	}
}

func (s *publisherService) PublishDocumentIndexed(ctx context.Context, payload dto.DocumentIndexedMessage) error {
	if err := s.publish(EventDocumentIndexed, payload); err != nil {
		return err
	}

	s.logger.Debug("publisher_service", "published document indexed event", map[string]interface{}{
		"parent_id":   payload.ParentId,
		"chunk_count": payload.ChunkCount,
	})
	return nil
}

func (s *publisherService) PublishDocumentDeleted(ctx context.Context, payload dto.DocumentDeletedMessage) error {
	if err := s.publish(EventDocumentDeleted, payload); err != nil {
		return err
	}

	s.logger.Debug("publisher_service", "published document deleted event", map[string]interface{}{
		"parent_id":      payload.ParentId,
		"chunks_deleted": payload.ChunksDeleted,
	})
	return nil
}

func (s *publisherService) publish(eventType string, payload interface{}) error {
	data, err := json.Marshal(payload)
	if err != nil {
		return err
	}

	msg := message.NewMessage(watermill.NewUUID(), data)
	msg.Metadata.Set(EventTypeMetadataKey, eventType)
	return s.pubSub.Publish(s.topicName, msg)
}
