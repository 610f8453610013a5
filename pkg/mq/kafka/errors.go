package kafka

import "errors"

var (
	ErrInvalidConfig = errors.New("kafka: invalid config")
	ErrConnection    = errors.New("kafka: producer connection failed")
	ErrMarshalFailed = errors.New("kafka: marshal failed")
	ErrSendFailed    = errors.New("kafka: send failed")
)
