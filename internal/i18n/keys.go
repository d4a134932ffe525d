// internal/i18n/keys.go
package i18n

// Translation keys constants
const (
	// Common
	KeySuccess = "success"
	KeyError   = "error"

	// Authentication
	KeyAuthRequired      = "auth.required"
	KeyAuthInvalidToken  = "auth.invalid_token"
	KeyAuthTokenExpired  = "auth.token_expired"
	KeyAdminAccessDenied = "admin.access_denied"

	// Catalog
	KeyCatalogNotLoaded    = "catalog.not_loaded"
	KeyCatalogInvalidQuery = "catalog.invalid_query"
	KeyCatalogReloaded     = "catalog.reloaded"
	KeyCatalogFeedDisabled = "catalog.feed_disabled"
	KeyCatalogFeedFailed   = "catalog.feed_failed"
	KeyCatalogExportFailed = "catalog.export_failed"

	// Sessions
	KeySessionInvalidAction = "session.invalid_action"
	KeySessionUnknownGroup  = "session.unknown_group"
	KeySessionDeleted       = "session.deleted"

	// Products
	KeyProductCreated      = "product.created"
	KeyProductUpdated      = "product.updated"
	KeyProductDeleted      = "product.deleted"
	KeyProductDuplicateSKU = "product.duplicate_sku"
	KeyProductImportFailed = "product.import_failed"
	KeyProductInvalidID    = "product.invalid_id"

	// Validation
	KeyValidationInvalid = "validation.invalid"

	// Rate limiting
	KeyRateLimitExceeded = "rate_limit.exceeded"
)
