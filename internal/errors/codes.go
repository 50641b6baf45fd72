// Package errors provides structured error handling for scentmatch.
//
// Error codes follow the pattern ERR_XXX_DESCRIPTION where:
//   - 1XX: Configuration errors
//   - 2XX: Catalog and IO errors
//   - 3XX: Network errors
//   - 4XX: Validation errors
//   - 5XX: Internal errors
package errors

import "strings"

// Category defines error categories for classification.
type Category string

const (
	// CategoryConfig indicates configuration-related errors.
	CategoryConfig Category = "CONFIG"
	// CategoryIO indicates catalog, file, and disk I/O errors.
	CategoryIO Category = "IO"
	// CategoryNetwork indicates network-related errors.
	CategoryNetwork Category = "NETWORK"
	// CategoryValidation indicates input validation errors.
	CategoryValidation Category = "VALIDATION"
	// CategoryInternal indicates unexpected internal errors.
	CategoryInternal Category = "INTERNAL"
)

// Severity defines error severity levels.
type Severity string

const (
	// SeverityFatal indicates unrecoverable error, must abort.
	SeverityFatal Severity = "FATAL"
	// SeverityError indicates operation failed but can continue.
	SeverityError Severity = "ERROR"
	// SeverityWarning indicates degraded operation, continuing.
	SeverityWarning Severity = "WARNING"
)

// Error codes organized by category.
const (
	// Config errors (100-199)
	ErrCodeConfigNotFound = "ERR_101_CONFIG_NOT_FOUND"
	ErrCodeConfigInvalid  = "ERR_102_CONFIG_INVALID"

	// Catalog/IO errors (200-299)
	ErrCodeCatalogNotFound   = "ERR_201_CATALOG_NOT_FOUND"
	ErrCodeCatalogUnreadable = "ERR_202_CATALOG_UNREADABLE"
	ErrCodeFieldParse        = "ERR_203_FIELD_PARSE"
	ErrCodeHistoryStorage    = "ERR_204_HISTORY_STORAGE"

	// Network errors (300-399)
	ErrCodeNetworkTimeout     = "ERR_301_NETWORK_TIMEOUT"
	ErrCodeWeatherUnavailable = "ERR_302_WEATHER_UNAVAILABLE"
	ErrCodeModelDownload      = "ERR_303_MODEL_DOWNLOAD"

	// Validation errors (400-499)
	ErrCodeInvalidInput      = "ERR_401_INVALID_INPUT"
	ErrCodeDimensionMismatch = "ERR_402_DIMENSION_MISMATCH"

	// Internal errors (500-599)
	ErrCodeInternal    = "ERR_501_INTERNAL"
	ErrCodeModelInit   = "ERR_502_MODEL_INIT"
	ErrCodeEmbedFailed = "ERR_503_EMBED_FAILED"
)

// categoryFromCode derives the category from the code's number range.
func categoryFromCode(code string) Category {
	switch {
	case strings.HasPrefix(code, "ERR_1"):
		return CategoryConfig
	case strings.HasPrefix(code, "ERR_2"):
		return CategoryIO
	case strings.HasPrefix(code, "ERR_3"):
		return CategoryNetwork
	case strings.HasPrefix(code, "ERR_4"):
		return CategoryValidation
	default:
		return CategoryInternal
	}
}

// fatalCodes are errors that abort the operation that produced them.
// Catalog and model initialization failures poison the whole corpus build,
// so they are fatal; the build itself stays retryable on a later request.
var fatalCodes = map[string]struct{}{
	ErrCodeCatalogNotFound:   {},
	ErrCodeCatalogUnreadable: {},
	ErrCodeModelInit:         {},
}

// severityFromCode derives severity from the code.
func severityFromCode(code string) Severity {
	if _, ok := fatalCodes[code]; ok {
		return SeverityFatal
	}
	if code == ErrCodeFieldParse {
		return SeverityWarning
	}
	return SeverityError
}

// retryableCodes are errors where retrying the same operation can succeed.
var retryableCodes = map[string]struct{}{
	ErrCodeNetworkTimeout:     {},
	ErrCodeWeatherUnavailable: {},
	ErrCodeModelDownload:      {},
	ErrCodeCatalogNotFound:    {},
	ErrCodeCatalogUnreadable:  {},
	ErrCodeModelInit:          {},
}

// isRetryableCode reports whether the code marks a retryable failure.
func isRetryableCode(code string) bool {
	_, ok := retryableCodes[code]
	return ok
}
