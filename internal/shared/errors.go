package shared

import "fmt"

var (
	ErrNotImplemented = fmt.Errorf("not implemented")

	// Configuration errors
	ErrMissingConfig = fmt.Errorf("configuration not found")
	ErrInvalidConfig = fmt.Errorf("invalid configuration")

	// Catalog errors
	ErrNotFound         = fmt.Errorf("record not found")
	ErrInvalidPath      = fmt.Errorf("path not found on the target system")
	ErrUnsupportedMedia = fmt.Errorf("unsupported media type")
	ErrNoMetadata       = fmt.Errorf("no readable tag metadata")

	// API and service errors
	ErrAPIRequest         = fmt.Errorf("API request failed")
	ErrServiceUnavailable = fmt.Errorf("service unavailable")
	ErrUnknownCollection  = fmt.Errorf("unknown collection")

	// Input validation errors
	ErrInvalidInput    = fmt.Errorf("invalid input")
	ErrMissingArgument = fmt.Errorf("missing required argument")
	ErrInvalidArgument = fmt.Errorf("invalid argument")
)
