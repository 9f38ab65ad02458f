package errors

import "net/http"

// ToHTTPStatus maps an error code to an HTTP status code.
func ToHTTPStatus(code string) int {
	switch code {
	case ErrInvalidArgument:
		return http.StatusBadRequest
	case ErrNotFound:
		return http.StatusNotFound
	case ErrConflict:
		return http.StatusConflict
	case ErrTimeout:
		return http.StatusGatewayTimeout
	default:
		return http.StatusInternalServerError
	}
}

// HTTPStatusOf maps an error to an HTTP status code, 500 for plain errors.
func HTTPStatusOf(err error) int {
	if err == nil {
		return http.StatusOK
	}
	return ToHTTPStatus(CodeOf(err))
}
