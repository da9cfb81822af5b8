package sos

import (
	"context"
	"encoding/json"
	"fmt"

	"cloud.google.com/go/pubsub/v2"
	"github.com/rs/zerolog"
)

// DispatchMessage is the payload queued for the worker.
type DispatchMessage struct {
	JobType string `json:"job_type"`
	EventID string `json:"event_id"`
}

// JobTypeDispatch identifies SOS dispatch jobs on the wire.
const JobTypeDispatch = "sos_dispatch"

// PubSubPublisher publishes dispatch jobs to a Pub/Sub topic.
type PubSubPublisher struct {
	client    *pubsub.Client
	publisher *pubsub.Publisher
	logger    zerolog.Logger
}

// PubSubPublisherConfig holds configuration for the publisher.
type PubSubPublisherConfig struct {
	ProjectID string
	TopicName string
	Logger    zerolog.Logger
}

// NewPubSubPublisher creates a publisher for SOS dispatch jobs.
func NewPubSubPublisher(ctx context.Context, cfg PubSubPublisherConfig) (*PubSubPublisher, error) {
	client, err := pubsub.NewClient(ctx, cfg.ProjectID)
	if err != nil {
		return nil, fmt.Errorf("creating pubsub client: %w", err)
	}

	return &PubSubPublisher{
		client:    client,
		publisher: client.Publisher(cfg.TopicName),
		logger:    cfg.Logger,
	}, nil
}

// PublishSOS queues a dispatch job for the event.
func (p *PubSubPublisher) PublishSOS(ctx context.Context, event *Event) error {
	data, err := json.Marshal(DispatchMessage{
		JobType: JobTypeDispatch,
		EventID: event.ID,
	})
	if err != nil {
		return fmt.Errorf("marshal dispatch message: %w", err)
	}

	result := p.publisher.Publish(ctx, &pubsub.Message{Data: data})
	id, err := result.Get(ctx)
	if err != nil {
		return fmt.Errorf("publish dispatch message: %w", err)
	}

	p.logger.Debug().
		Str("event_id", event.ID).
		Str("message_id", id).
		Msg("sos dispatch queued")
	return nil
}

// Close flushes and closes the underlying client.
func (p *PubSubPublisher) Close() error {
	p.publisher.Stop()
	return p.client.Close()
}

// Ensure PubSubPublisher implements Publisher interface.
var _ Publisher = (*PubSubPublisher)(nil)
