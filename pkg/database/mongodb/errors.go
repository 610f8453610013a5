package mongodb

import "errors"

var (
	ErrConnectionFailed = errors.New("mongodb: connection failed")
	ErrPingFailed       = errors.New("mongodb: ping failed")
	ErrInsertFailed     = errors.New("mongodb: insert failed")
)
