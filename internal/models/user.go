package models

// Role distinguishes the two sides of the marketplace.
type Role string

const (
	RoleFreelancer Role = "freelancer"
	RoleClient     Role = "client"
)

// User represents a user in the system
type User struct {
	ID           int64    `json:"id"`
	Email        string   `json:"email"`
	Username     string   `json:"username"`
	Role         Role     `json:"role"`
	Skills       []string `json:"skills"`
	PasswordHash string   `json:"-"` // Not serialized
	CreatedAt    string   `json:"created_at"`
}
