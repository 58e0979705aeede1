package events

import "errors"

var (
	// ErrEncodeEvent возвращается, если событие не сериализуется
	ErrEncodeEvent = errors.New("events: failed to encode event")

	// ErrPublish возвращается при ошибке записи в Kafka
	ErrPublish = errors.New("events: failed to publish event")
)
