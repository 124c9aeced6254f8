package user

import "time"

// Role represents an account's marketplace role.
type Role string

const (
	RoleClient     Role = "CLIENT"
	RoleFreelancer Role = "FREELANCER"
	RoleManager    Role = "MANAGER"
	RoleAdmin      Role = "ADMIN"
)

// User represents a marketplace account. Balance and LifetimeEarned are only
// ever credited by settlement; withdrawals are out of scope for this service.
type User struct {
	ID              int64     `json:"id"`
	Username        string    `json:"username"`
	Email           string    `json:"email"`
	Role            Role      `json:"role"`
	Balance         float64   `json:"balance"`
	LifetimeEarned  float64   `json:"lifetime_earned"`
	CompletedOrders int       `json:"completed_orders"`
	ManagerID       *int64    `json:"manager_id,omitempty"` // manager overseeing this account
	CreatedAt       time.Time `json:"created_at"`
}
