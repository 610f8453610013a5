package redis

import "errors"

var (
	ErrConnectionFailed = errors.New("redis: connection failed")
	ErrPingFailed       = errors.New("redis: ping failed")
	ErrMarshalFailed    = errors.New("redis: marshal failed")
	ErrPushFailed       = errors.New("redis: push failed")
)
