package gotrue

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
)

// APIError is a structured error response from the GoTrue server.
type APIError struct {
	Status    int    `json:"code"`
	ErrorCode string `json:"error_code"`
	Message   string `json:"msg"`
}

func (e *APIError) Error() string {
	if e.ErrorCode != "" {
		return fmt.Sprintf("gotrue: %s (status=%d, code=%s)", e.Message, e.Status, e.ErrorCode)
	}
	return fmt.Sprintf("gotrue: %s (status=%d)", e.Message, e.Status)
}

// IsAlreadyExists reports whether err means the auth record already exists.
// The structured error_code is checked first; the message-substring fallback
// covers older server versions that only return a text message.
func IsAlreadyExists(err error) bool {
	var apiErr *APIError
	if !errors.As(err, &apiErr) {
		return false
	}
	switch apiErr.ErrorCode {
	case "email_exists", "user_already_exists", "phone_exists":
		return true
	}
	msg := strings.ToLower(apiErr.Message)
	return strings.Contains(msg, "already") || strings.Contains(msg, "exists")
}

// IsNotFound reports whether err means the auth record does not exist.
func IsNotFound(err error) bool {
	var apiErr *APIError
	if !errors.As(err, &apiErr) {
		return false
	}
	return apiErr.Status == http.StatusNotFound || apiErr.ErrorCode == "user_not_found"
}

// parseAPIError builds an APIError from a non-2xx response body. GoTrue has
// shipped several error shapes over the years; all of them are tried.
func parseAPIError(status int, body []byte) *APIError {
	apiErr := &APIError{Status: status}

	var payload struct {
		Code             interface{} `json:"code"`
		ErrorCode        string      `json:"error_code"`
		Msg              string      `json:"msg"`
		Message          string      `json:"message"`
		Error            string      `json:"error"`
		ErrorDescription string      `json:"error_description"`
	}
	if err := json.Unmarshal(body, &payload); err == nil {
		apiErr.ErrorCode = payload.ErrorCode
		for _, msg := range []string{payload.Msg, payload.Message, payload.ErrorDescription, payload.Error} {
			if strings.TrimSpace(msg) != "" {
				apiErr.Message = msg
				break
			}
		}
	}
	if apiErr.Message == "" {
		apiErr.Message = strings.TrimSpace(string(body))
	}
	if apiErr.Message == "" {
		apiErr.Message = http.StatusText(status)
	}
	return apiErr
}
