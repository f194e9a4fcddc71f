package errors

import "fmt"

// Kind classifies a domain error so the HTTP layer can map it to a status
// without inspecting messages.
type Kind int

const (
	KindUnknown Kind = iota
	KindNotFound
	KindInvalidData
	KindDuplicate
)

// Error is the typed error services return for business-rule failures.
type Error struct {
	Kind    Kind
	Code    string // one of the constants in codes.go
	Message string
}

func (e *Error) Error() string {
	return e.Message
}

// Is makes sentinel comparison with errors.Is work for identical code values,
// so services can export `var ErrX = apperrors.NewNotFound(...)` sentinels.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	return e.Code == t.Code && e.Kind == t.Kind
}

func NewNotFound(code, format string, args ...interface{}) *Error {
	return &Error{Kind: KindNotFound, Code: code, Message: fmt.Sprintf(format, args...)}
}

func NewInvalidData(code, format string, args ...interface{}) *Error {
	return &Error{Kind: KindInvalidData, Code: code, Message: fmt.Sprintf(format, args...)}
}

func NewDuplicate(code, format string, args ...interface{}) *Error {
	return &Error{Kind: KindDuplicate, Code: code, Message: fmt.Sprintf(format, args...)}
}

// IsNotFound reports whether err is a domain not-found error.
func IsNotFound(err error) bool {
	return kindOf(err) == KindNotFound
}

// IsInvalidData reports whether err is a domain invalid-data error.
func IsInvalidData(err error) bool {
	return kindOf(err) == KindInvalidData
}

// IsDuplicate reports whether err is a domain duplicate error.
func IsDuplicate(err error) bool {
	return kindOf(err) == KindDuplicate
}

func kindOf(err error) Kind {
	for err != nil {
		if e, ok := err.(*Error); ok {
			return e.Kind
		}
		u, ok := err.(interface{ Unwrap() error })
		if !ok {
			return KindUnknown
		}
		err = u.Unwrap()
	}
	return KindUnknown
}
