package domain

import "errors"

// Sentinel errors used throughout the application.
// Typed errors in the shopify package wrap the transport/protocol ones so
// callers can classify failures with errors.Is.
var (
	ErrMissingShopName    = errors.New("SHOP_NAME is required")
	ErrMissingAccessToken = errors.New("SHOPIFY_ADMIN_API_KEY is required")
	ErrInsufficientArgs   = errors.New("please provide source publication ID and one or more destination publication IDs")
	ErrEmptyPublicationID = errors.New("publication ID must not be empty")
	ErrMissingDatabaseURL = errors.New("DATABASE_URL is required to read the run journal")

	ErrGraphQL    = errors.New("graphql errors occurred")
	ErrTransport  = errors.New("admin api transport failure")
	ErrUserErrors = errors.New("mutation returned user errors")

	ErrNotFound  = errors.New("not found")
	ErrQueueFull = errors.New("work queue is at capacity")
)
