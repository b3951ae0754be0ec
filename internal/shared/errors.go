package shared

import "fmt"

var (
	ErrNotImplemented = fmt.Errorf("not implemented")

	// Configuration errors
	ErrMissingConfig = fmt.Errorf("configuration not found")
	ErrInvalidConfig = fmt.Errorf("invalid configuration")
	ErrMissingAPIKey = fmt.Errorf("missing catalog API key")

	// Account and session errors
	ErrNotAuthenticated = fmt.Errorf("not authenticated")
	ErrUnauthorized     = fmt.Errorf("unauthorized")
	ErrConflict         = fmt.Errorf("conflict")
	ErrRateLimited      = fmt.Errorf("rate limited")

	// Collection errors
	ErrDuplicateAlbum = fmt.Errorf("album already in list")
	ErrRecordNotFound = fmt.Errorf("record not found")
	ErrAlbumNotFound  = fmt.Errorf("album not found")

	// Remote service errors
	ErrRemoteUnavailable = fmt.Errorf("remote service unavailable")
	ErrAPIRequest        = fmt.Errorf("API request failed")

	// Input validation errors
	ErrInvalidInput    = fmt.Errorf("invalid input")
	ErrMissingArgument = fmt.Errorf("missing required argument")
	ErrInvalidArgument = fmt.Errorf("invalid argument")
)
