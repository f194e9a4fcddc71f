package errors

// Error code constants.
// Format: CATEGORY_SPECIFIC_DETAIL
// API consumers map these codes to their own messages.

const (
	// ==================== Auth (AUTH_) ====================
	AuthUnauthorized  = "AUTH_UNAUTHORIZED"
	AuthTokenExpired  = "AUTH_TOKEN_EXPIRED"
	AuthTokenInvalid  = "AUTH_TOKEN_INVALID"
	AuthzForbidden    = "AUTHZ_FORBIDDEN"
	AuthzRoleNotFound = "AUTHZ_ROLE_NOT_FOUND"

	// ==================== Validation (VALIDATION_) ====================
	ValidationInvalidInput = "VALIDATION_INVALID_INPUT"
	ValidationInvalidID    = "VALIDATION_INVALID_ID"
	ValidationRequired     = "VALIDATION_REQUIRED"

	// ==================== Generic resources (RESOURCE_) ====================
	ResourceNotFound      = "RESOURCE_NOT_FOUND"
	ResourceAlreadyExists = "RESOURCE_ALREADY_EXISTS"
	ResourceConflict      = "RESOURCE_CONFLICT"

	// ==================== Rentals (RENTAL_) ====================
	RentalNotFound            = "RENTAL_NOT_FOUND"
	RentalHandleExists        = "RENTAL_HANDLE_EXISTS"
	RentalOptionNotFound      = "RENTAL_OPTION_NOT_FOUND"
	RentalOptionExists        = "RENTAL_OPTION_EXISTS"
	RentalOptionInUse         = "RENTAL_OPTION_IN_USE"
	RentalVariantOrderInvalid = "RENTAL_VARIANT_ORDER_INVALID"
	RentalSalesChannelsOff    = "RENTAL_SALES_CHANNELS_DISABLED"

	// ==================== Variants (VARIANT_) ====================
	VariantNotFound          = "VARIANT_NOT_FOUND"
	VariantOptionMismatch    = "VARIANT_OPTION_MISMATCH"
	VariantDuplicateExists   = "VARIANT_DUPLICATE_EXISTS"
	VariantOptionValueAbsent = "VARIANT_OPTION_VALUE_NOT_FOUND"
	VariantPriceScopeInvalid = "VARIANT_PRICE_SCOPE_INVALID"

	// ==================== Lookups ====================
	CollectionNotFound     = "COLLECTION_NOT_FOUND"
	CollectionHandleExists = "COLLECTION_HANDLE_EXISTS"
	TypeNotFound           = "TYPE_NOT_FOUND"
	TagNotFound            = "TAG_NOT_FOUND"
	RegionNotFound         = "REGION_NOT_FOUND"
	SalesChannelNotFound   = "SALES_CHANNEL_NOT_FOUND"

	// ==================== Uploads (UPLOAD_) ====================
	UploadInvalidFileType = "UPLOAD_INVALID_FILE_TYPE"
	UploadFileTooLarge    = "UPLOAD_FILE_TOO_LARGE"
	UploadFailed          = "UPLOAD_FAILED"

	// ==================== Internal (INTERNAL_) ====================
	InternalServerError   = "INTERNAL_SERVER_ERROR"
	InternalDatabaseError = "INTERNAL_DATABASE_ERROR"
)
