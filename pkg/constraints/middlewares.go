package constraints

const (
	HeaderRequestID     = "X-Request-ID"
	ContextKeyRequestID = "request_id"
	ContextKeyLogger    = "logger"
)
