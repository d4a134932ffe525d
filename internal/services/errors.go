// internal/services/errors.go
package services

import "errors"

var (
	ErrProductNotFound  = errors.New("product not found")
	ErrSessionNotFound  = errors.New("session not found")
	ErrCatalogNotLoaded = errors.New("catalog not loaded")
	ErrInvalidQuery     = errors.New("invalid catalog query")
	ErrUnknownGroup     = errors.New("unknown facet group")
	ErrDuplicateSKU     = errors.New("sku already exists")
	ErrFeedUnavailable  = errors.New("feed publishing is not configured")
)
