package log

const (
	// Request
	FieldRequestID = "request_id"
	FieldMethod    = "method"
	FieldPath      = "path"
	FieldStatus    = "status"
	FieldLatency   = "latency_ms"
	FieldClientIP  = "client_ip"

	// Connection
	FieldConnID = "conn_id"
	FieldStack  = "stack"

	// Chat
	FieldRoom     = "room"
	FieldUsername = "username"
	FieldMsgType  = "msg_type"

	// Heartbeat
	FieldMissed = "missed"
	FieldState  = "state"

	// Service
	FieldService = "service"
)
