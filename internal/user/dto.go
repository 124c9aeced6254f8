package user

// UserResponse represents the response for an account
type UserResponse struct {
	ID              int64  `json:"id"`
	Username        string `json:"username"`
	Email           string `json:"email"`
	Role            Role   `json:"role"`
	CompletedOrders int    `json:"completed_orders"`
	ManagerID       *int64 `json:"manager_id,omitempty"`
	CreatedAt       string `json:"created_at"`
}

// BalanceResponse represents an account's balance
type BalanceResponse struct {
	UserID         int64   `json:"user_id"`
	Balance        float64 `json:"balance"`
	LifetimeEarned float64 `json:"lifetime_earned"`
}

// ToResponse converts a User model to a UserResponse DTO
func (u *User) ToResponse() *UserResponse {
	return &UserResponse{
		ID:              u.ID,
		Username:        u.Username,
		Email:           u.Email,
		Role:            u.Role,
		CompletedOrders: u.CompletedOrders,
		ManagerID:       u.ManagerID,
		CreatedAt:       u.CreatedAt.Format("2006-01-02T15:04:05Z"),
	}
}
