package auth

import "strings"

// Name is the component name Apple returns on first authorization only.
type Name struct {
	FirstName string `json:"firstName,omitempty"`
	LastName  string `json:"lastName,omitempty"`
}

// Credential is the payload of a completed Sign in with Apple authorization.
// Email and Name are only present the first time a user authorizes the app.
type Credential struct {
	ID             string `json:"id"`
	Email          string `json:"email,omitempty"`
	Name           *Name  `json:"name,omitempty"`
	IsPrivateEmail bool   `json:"isPrivateEmail,omitempty"`
}

// ErrorCode classifies a failed Apple authorization.
type ErrorCode string

const (
	ErrCodeCanceled        ErrorCode = "cancelled"
	ErrCodeInvalidResponse ErrorCode = "invalid-response"
	ErrCodeUnavailable     ErrorCode = "unavailable"
	ErrCodeOther           ErrorCode = "other"
)

var errorMessages = map[ErrorCode]string{
	ErrCodeCanceled:        "Sign in was cancelled",
	ErrCodeInvalidResponse: "Invalid response from Apple",
	ErrCodeUnavailable:     "Apple Sign In is not available",
}

// Message maps a code to its user-facing sign-in failure text.
func (c ErrorCode) Message() string {
	if msg, ok := errorMessages[c]; ok {
		return msg
	}
	return "An unexpected error occurred during sign in"
}

// Validate reports whether the credential carries the required user id.
func (c Credential) Validate() bool {
	return strings.TrimSpace(c.ID) != ""
}

const fallbackDisplayName = "Travel Enthusiast"

// DisplayName derives a presentable name from whatever fields Apple supplied.
// Preference order: full name, first name, last name, the email local part,
// then a generic fallback.
func (c Credential) DisplayName() string {
	if c.Name != nil {
		first := strings.TrimSpace(c.Name.FirstName)
		last := strings.TrimSpace(c.Name.LastName)
		switch {
		case first != "" && last != "":
			return first + " " + last
		case first != "":
			return first
		case last != "":
			return last
		}
	}
	if c.Email != "" {
		if at := strings.Index(c.Email, "@"); at > 0 {
			return c.Email[:at]
		}
	}
	return fallbackDisplayName
}
