/*
Package user contains the core data structures for traveler accounts.

The realtime subsystem only reads user records; account creation, password
handling and profile editing live in the account service.
*/
package user

// Role defines the account role of a traveler.
type Role string

const (
	RoleUser      Role = "user"
	RoleModerator Role = "moderator"
	RoleAdmin     Role = "admin"
)

// User represents a traveler account as stored by the platform.
// Accounts are keyed by email address.
type User struct {
	Email     string
	Username  string
	FullName  string
	AvatarURL string
	Role      Role
}

// Profile is the wire shape of a traveler shared with other clients.
// Field names match what the frontend expects.
type Profile struct {
	UserID    string `json:"userID"`
	Username  string `json:"username"`
	AvatarURL string `json:"foto_url"`
}

// Profile converts the full account record into its wire shape.
func (u User) Profile() Profile {
	return Profile{
		UserID:    u.Email,
		Username:  u.Username,
		AvatarURL: u.AvatarURL,
	}
}
