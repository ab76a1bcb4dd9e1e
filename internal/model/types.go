// Package model defines the entities held by the vault stores and the
// assistant transcript.
package model

// User is the signed-in traveler, produced by the Apple credential exchange.
// Exactly one user may be signed in at a time.
type User struct {
	ID             string `json:"id"`
	Name           string `json:"name"`
	Email          string `json:"email,omitempty"`
	IsPrivateEmail bool   `json:"isPrivateEmail,omitempty"`
}

// LoyaltyProgram is a membership record for one airline or hotel program.
// KTNs are app-global; KnownTravelerNumber here is informational only.
type LoyaltyProgram struct {
	ID                  string `json:"id"`
	AirlineID           string `json:"airlineId"`
	AirlineName         string `json:"airlineName"`
	AirlineLogo         string `json:"airlineLogo,omitempty"`
	MemberNumber        string `json:"memberNumber"`
	KnownTravelerNumber string `json:"knownTravelerNumber,omitempty"`
}

func (p LoyaltyProgram) RecordID() string { return p.ID }

// KTN is a Known Traveler Number with a user-chosen nickname.
type KTN struct {
	ID       string `json:"id"`
	Number   string `json:"number"`
	Nickname string `json:"nickname"`
}

func (k KTN) RecordID() string { return k.ID }

// Settings holds app-wide preferences.
type Settings struct {
	DarkMode bool `json:"isDarkMode"`
}

type Role string

const (
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
)

// MessageStatus tracks the per-message delivery lifecycle:
// sending -> sent -> delivered, or sending -> error.
type MessageStatus string

const (
	StatusSending   MessageStatus = "sending"
	StatusSent      MessageStatus = "sent"
	StatusDelivered MessageStatus = "delivered"
	StatusError     MessageStatus = "error"
)

// Message is one transcript entry. Timestamp is epoch milliseconds.
type Message struct {
	ID           string        `json:"id"`
	Role         Role          `json:"role"`
	Content      string        `json:"content"`
	Timestamp    int64         `json:"timestamp"`
	Status       MessageStatus `json:"status,omitempty"`
	Error        string        `json:"error,omitempty"`
	IsBookmarked bool          `json:"isBookmarked,omitempty"`
	Category     string        `json:"category,omitempty"`
}

// ChatSession is a lightweight transcript marker. Archived sessions keep
// only their marker; message payloads are not retained across sessions.
type ChatSession struct {
	ID        string `json:"id"`
	Title     string `json:"title"`
	CreatedAt int64  `json:"createdAt"`
	UpdatedAt int64  `json:"updatedAt"`
}

// QuickAction is a suggested follow-up prompt derived from the last user
// message. Ephemeral; never persisted.
type QuickAction struct {
	ID       string `json:"id"`
	Icon     string `json:"icon"`
	Title    string `json:"title"`
	Subtitle string `json:"subtitle"`
	Action   string `json:"action"`
	Color    string `json:"color"`
}
