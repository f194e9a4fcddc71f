package errors

import (
	"errors"
	"net/http"
	"strings"

	"github.com/lib/pq"
	"gorm.io/gorm"
)

// ErrorInfo is the parsed representation of a low-level error.
type ErrorInfo struct {
	Status  int
	Code    string
	Message string
}

// ParseError converts database and driver errors into a response-safe shape.
// Sensitive detail stays out of the message; the code tells the client what
// class of failure occurred.
func ParseError(err error, context string) ErrorInfo {
	if err == nil {
		return ErrorInfo{Status: http.StatusInternalServerError, Code: InternalServerError, Message: "an internal error occurred"}
	}

	if errors.Is(err, gorm.ErrRecordNotFound) {
		return ErrorInfo{
			Status:  http.StatusNotFound,
			Code:    ResourceNotFound,
			Message: notFoundMessage(context),
		}
	}

	// Postgres errors carry SQLSTATE codes.
	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		switch pqErr.Code {
		case "23505": // unique_violation
			return duplicateKeyInfo(string(pqErr.Constraint))
		case "23503": // foreign_key_violation
			return ErrorInfo{
				Status:  http.StatusNotFound,
				Code:    ResourceNotFound,
				Message: "a referenced record does not exist",
			}
		case "23502": // not_null_violation
			return ErrorInfo{
				Status:  http.StatusBadRequest,
				Code:    ValidationRequired,
				Message: "a required field is missing",
			}
		case "23514": // check_violation
			return ErrorInfo{
				Status:  http.StatusBadRequest,
				Code:    ValidationInvalidInput,
				Message: "a field value is out of range",
			}
		}
	}

	// Drivers without typed errors (sqlite in tests) still surface the
	// constraint in the message.
	errLower := strings.ToLower(err.Error())
	if strings.Contains(errLower, "duplicate key") ||
		strings.Contains(errLower, "unique constraint") {
		return duplicateKeyInfo(errLower)
	}

	return ErrorInfo{
		Status:  http.StatusInternalServerError,
		Code:    InternalDatabaseError,
		Message: "an internal error occurred, please retry later",
	}
}

func duplicateKeyInfo(detail string) ErrorInfo {
	detail = strings.ToLower(detail)

	if strings.Contains(detail, "handle") {
		code := RentalHandleExists
		if strings.Contains(detail, "collection") {
			code = CollectionHandleExists
		}
		return ErrorInfo{
			Status:  http.StatusConflict,
			Code:    code,
			Message: "a record with that handle already exists",
		}
	}
	for _, field := range []string{"sku", "barcode", "ean", "upc"} {
		if strings.Contains(detail, field) {
			return ErrorInfo{
				Status:  http.StatusConflict,
				Code:    ResourceAlreadyExists,
				Message: "a variant with that " + field + " already exists",
			}
		}
	}

	return ErrorInfo{
		Status:  http.StatusConflict,
		Code:    ResourceAlreadyExists,
		Message: "a record with those values already exists",
	}
}

func notFoundMessage(context string) string {
	contextLower := strings.ToLower(context)

	switch {
	case strings.Contains(contextLower, "variant"):
		return "variant not found"
	case strings.Contains(contextLower, "rental"):
		return "rental not found"
	case strings.Contains(contextLower, "collection"):
		return "collection not found"
	case strings.Contains(contextLower, "type"):
		return "rental type not found"
	case strings.Contains(contextLower, "tag"):
		return "rental tag not found"
	case strings.Contains(contextLower, "region"):
		return "region not found"
	}
	return "requested record not found"
}
