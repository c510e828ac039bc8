package sfmcdomain

import (
	"fmt"
	"strings"
)

// ErrorResponse covers the two error shapes Marketing Cloud returns: the
// OAuth style from the auth endpoint and the REST style from the API.
type ErrorResponse struct {
	Error            string `json:"error,omitempty"`
	ErrorDescription string `json:"error_description,omitempty"`
	ErrorURI         string `json:"error_uri,omitempty"`

	Message   string `json:"message,omitempty"`
	ErrorCode int    `json:"errorcode,omitempty"`
	Docs      string `json:"documentation,omitempty"`
}

func (e *ErrorResponse) String() string {
	switch {
	case e == nil:
		return ""
	case e.Error != "" && e.ErrorDescription != "":
		return fmt.Sprintf("%s: %s", e.Error, e.ErrorDescription)
	case e.Error != "":
		return e.Error
	case e.Message != "" && e.ErrorCode != 0:
		return fmt.Sprintf("%s (errorcode %d)", e.Message, e.ErrorCode)
	}
	return e.Message
}

// IsInvalidToken reports whether the error says the bearer token was rejected.
// Marketing Cloud sometimes answers 400 instead of 401 for expired tokens.
func (e *ErrorResponse) IsInvalidToken() bool {
	if e == nil {
		return false
	}
	return e.Error == "invalid_token" || strings.Contains(strings.ToLower(e.Message), "not authorized")
}
