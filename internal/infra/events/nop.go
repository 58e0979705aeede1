package events

import "context"

// NopPublisher используется, когда Kafka выключена
type NopPublisher struct{}

func (NopPublisher) Publish(context.Context, Event) error { return nil }

func (NopPublisher) Close() error { return nil }
