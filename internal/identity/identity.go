// Package identity defines the user model and the provider contract the
// session controller consumes. Concrete providers live in subpackages.
package identity

// Role partitions users for the admin console and route guards.
type Role string

const (
	RoleUser  Role = "user"
	RoleAdmin Role = "admin"
)

// Status marks whether an account may authenticate.
type Status string

const (
	StatusActive   Status = "active"
	StatusInactive Status = "inactive"
)

// User is the profile record owned by the identity provider. The controller
// holds a read-only cached copy while authenticated.
type User struct {
	ID     string `json:"id"`
	Name   string `json:"name"`
	Email  string `json:"email"`
	Role   Role   `json:"role"`
	Status Status `json:"status"`
}

// Profile carries the fields required to register a new account.
type Profile struct {
	Name     string
	Email    string
	Password string
	Role     Role
}

// Login is the result of a successful credential exchange.
type Login struct {
	User         *User
	AccessToken  string
	RefreshToken string
}
