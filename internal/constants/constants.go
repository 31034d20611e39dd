package constants

import "time"

const (
	RequestTimeout    = 30 * time.Second
	ReadHeaderTimeout = 5 * time.Second
)

const (
	ShutdownTimeout = 5 * time.Second
)

const (
	MaxIngestBodyBytes = 16 << 10
	ReceiptLength      = 12
	QueryIDLength      = 10
)
