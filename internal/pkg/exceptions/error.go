package exceptions

import (
	"delivery-slot-service/internal/pkg/constvars"
	"errors"
	"fmt"
	"runtime"
)

type CustomError struct {
	StatusCode    int       `json:"status_code"`
	Success       bool      `json:"success"`
	ClientMessage string    `json:"message"`
	ErrorCode     string    `json:"error_code,omitempty"`
	Retryable     bool      `json:"retryable,omitempty"`
	DevMessage    string    `json:"dev_message,omitempty"`
	Location      *Location `json:"location,omitempty"`
	Err           error     `json:"-"`
}

type Location struct {
	File         string `json:"file"`
	Line         int    `json:"line"`
	FunctionName string `json:"function_name"`
}

func (e *CustomError) Error() string {
	if e.Location == nil {
		return e.DevMessage
	}
	return fmt.Sprintf("%s (%s:%d %s)", e.DevMessage, e.Location.File, e.Location.Line, e.Location.FunctionName)
}

func (e *CustomError) Unwrap() error {
	return e.Err
}

// WithCode tags the error with a machine readable code that callers can branch on.
func (e *CustomError) WithCode(code string, retryable bool) *CustomError {
	e.ErrorCode = code
	e.Retryable = retryable
	return e
}

func WrapWithoutError(statusCode int, clientMessage, devMessage string) *CustomError {
	location := getLocation(2)
	return &CustomError{
		StatusCode:    statusCode,
		ClientMessage: clientMessage,
		DevMessage:    devMessage,
		Location:      &location,
	}
}

func WrapWithError(err error, statusCode int, clientMessage, devMessage string) *CustomError {
	location := getLocation(2)
	return newCustomError(err, statusCode, clientMessage, devMessage, location)
}

// BuildNewCustomError is used by the constructor vars in types.go, so the
// recorded location skips the constructor closure and points at its caller.
func BuildNewCustomError(err error, statusCode int, clientMessage, devMessage string) *CustomError {
	location := getLocation(3)
	return newCustomError(err, statusCode, clientMessage, devMessage, location)
}

func newCustomError(err error, statusCode int, clientMessage, devMessage string, location Location) *CustomError {
	if err != nil {
		devMessage = fmt.Sprintf("%s: %s", devMessage, err.Error())
	}
	return &CustomError{
		StatusCode:    statusCode,
		ClientMessage: clientMessage,
		DevMessage:    devMessage,
		Location:      &location,
		Err:           err,
	}
}

// HasCode reports whether any CustomError in err's chain carries code.
func HasCode(err error, code string) bool {
	var customErr *CustomError
	for err != nil {
		if !errors.As(err, &customErr) {
			return false
		}
		if customErr.ErrorCode == code {
			return true
		}
		err = customErr.Err
	}
	return false
}

func IsRetryable(err error) bool {
	var customErr *CustomError
	if errors.As(err, &customErr) {
		return customErr.Retryable
	}
	return false
}

func getLocation(skip int) Location {
	pc, file, line, ok := runtime.Caller(skip)
	if !ok {
		return Location{
			File:         constvars.ResponseUnknown,
			Line:         0,
			FunctionName: constvars.ResponseUnknown,
		}
	}
	function := runtime.FuncForPC(pc).Name()
	return Location{
		File:         file,
		Line:         line,
		FunctionName: function,
	}
}
