package warden

import "fmt"

// Credentials represents the username/password pair needed to log in.
// The client never stores them; they live only for the duration of a call.
type Credentials struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// UserProfile is the account record behind a valid token. Email and FullName
// are nil when the account has none on file.
type UserProfile struct {
	Username string
	Email    *string
	FullName *string
	Disabled bool
}

// Item is one entry from the authenticated user's item list.
type Item struct {
	ItemID string `json:"item_id"`
	Owner  string `json:"owner"`
}

// RegisterRequest is the payload for creating an account. Email and FullName
// stay pointers without omitempty so an absent optional is sent as an explicit
// JSON null, which the backend reads as "not provided".
type RegisterRequest struct {
	Username string  `json:"username"`
	Password string  `json:"password"`
	Email    *string `json:"email"`
	FullName *string `json:"full_name"`
}

// parseUserProfile builds a UserProfile from a normalized response object.
// Every field except username is optional; a missing or non-string username
// means the backend broke its contract and the parse fails.
func parseUserProfile(m map[string]any) (*UserProfile, error) {
	username, ok := m["username"].(string)
	if !ok || username == "" {
		return nil, fmt.Errorf("profile object missing username")
	}

	p := &UserProfile{Username: username}
	if email, ok := m["email"].(string); ok {
		p.Email = &email
	}
	if fullName, ok := m["full_name"].(string); ok {
		p.FullName = &fullName
	}
	if disabled, ok := m["disabled"].(bool); ok {
		p.Disabled = disabled
	}
	return p, nil
}
