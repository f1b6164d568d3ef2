package domain

// Identity is the slice of the user the client keeps for the lifetime of a
// session: enough to render a header bar and drive role checks.
type Identity struct {
	ID       int64  `json:"id"`
	Username string `json:"username"`
	Role     Role   `json:"role"`
}

// LoginResult is the payload the authentication endpoint returns on success.
type LoginResult struct {
	ID       int64  `json:"id"`
	Username string `json:"username"`
	Role     Role   `json:"role"`
	Token    string `json:"token"`
}

// Identity extracts the persistent part of a login result.
func (r LoginResult) Identity() Identity {
	return Identity{ID: r.ID, Username: r.Username, Role: r.Role}
}

// Credentials is a username/password login form.
type Credentials struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// RegisterPayload creates a new account by username.
type RegisterPayload struct {
	Username string `json:"username"`
	Password string `json:"password"`
	Role     Role   `json:"role,omitempty"`
}

// EmailRegisterPayload creates a new account keyed by email address.
type EmailRegisterPayload struct {
	Email    string `json:"email"`
	Username string `json:"username"`
	Password string `json:"password"`
}

// User is the full account record as the admin back office sees it.
type User struct {
	ID         int64  `json:"id"`
	Username   string `json:"username"`
	Role       Role   `json:"role"`
	Status     int    `json:"status"` // 1 enabled, 0 disabled
	CreateTime string `json:"createTime,omitempty"`
}
