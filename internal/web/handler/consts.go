package handler

const (
	// APIRootPath is the root path of the management API route group.
	APIRootPath = "/api"

	// ErrNilACDFatalLogMsg is used if app or cfg or db var pointer is nil.
	ErrNilACDFatalLogMsg = "app, cfg or db is nil"
)
