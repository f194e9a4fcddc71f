package errors

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// ErrorResponse is the standard error body for every endpoint.
type ErrorResponse struct {
	Error   string `json:"error"`   // error code for client-side mapping
	Message string `json:"message"` // human-readable description
}

// RespondWithError writes a standard error body.
func RespondWithError(c *gin.Context, statusCode int, errorCode string, message string) {
	c.JSON(statusCode, ErrorResponse{
		Error:   errorCode,
		Message: message,
	})
}

func Unauthorized(c *gin.Context, message string) {
	if message == "" {
		message = "authentication required"
	}
	RespondWithError(c, http.StatusUnauthorized, AuthUnauthorized, message)
}

func Forbidden(c *gin.Context, message string) {
	if message == "" {
		message = "access denied"
	}
	RespondWithError(c, http.StatusForbidden, AuthzForbidden, message)
}

func BadRequest(c *gin.Context, errorCode string, message string) {
	RespondWithError(c, http.StatusBadRequest, errorCode, message)
}

func NotFound(c *gin.Context, errorCode string, message string) {
	RespondWithError(c, http.StatusNotFound, errorCode, message)
}

func Conflict(c *gin.Context, errorCode string, message string) {
	RespondWithError(c, http.StatusConflict, errorCode, message)
}

func InternalError(c *gin.Context, message string) {
	if message == "" {
		message = "an internal error occurred, please retry later"
	}
	RespondWithError(c, http.StatusInternalServerError, InternalServerError, message)
}

// HandleServiceError maps a service-layer error to an HTTP response.
// Domain kinds map to 404 / 400 / 409; everything else is parsed for known
// database failure shapes and otherwise reported as 500.
func HandleServiceError(c *gin.Context, err error, context string) {
	if e, ok := asDomainError(err); ok {
		switch e.Kind {
		case KindNotFound:
			NotFound(c, e.Code, e.Message)
		case KindInvalidData:
			BadRequest(c, e.Code, e.Message)
		case KindDuplicate:
			Conflict(c, e.Code, e.Message)
		default:
			InternalError(c, e.Message)
		}
		return
	}

	info := ParseError(err, context)
	RespondWithError(c, info.Status, info.Code, info.Message)
}

func asDomainError(err error) (*Error, bool) {
	for err != nil {
		if e, ok := err.(*Error); ok {
			return e, true
		}
		u, ok := err.(interface{ Unwrap() error })
		if !ok {
			return nil, false
		}
		err = u.Unwrap()
	}
	return nil, false
}
