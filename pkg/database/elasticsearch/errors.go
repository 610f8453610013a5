package elasticsearch

import "errors"

var (
	ErrConnectionFailed  = errors.New("elasticsearch: connection failed")
	ErrMarshalFailed     = errors.New("elasticsearch: marshal failed")
	ErrBulkRequestFailed = errors.New("elasticsearch: bulk request failed")
	ErrBulkItemFailed    = errors.New("elasticsearch: bulk item rejected")
	ErrDecodeFailed      = errors.New("elasticsearch: decode response failed")
)
