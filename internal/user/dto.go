package user

// RegisterRequest represents the request body for creating an account
type RegisterRequest struct {
	Username string  `json:"username" validate:"required,min=3,max=50"`
	Name     *string `json:"name,omitempty" validate:"omitempty,max=100"`
	Password string  `json:"password" validate:"required,min=8,max=72"`
}

// LoginRequest represents the request body for starting a session
type LoginRequest struct {
	Username string `json:"username" validate:"required"`
	Password string `json:"password" validate:"required"`
}

// UserResponse represents the response for a single user
type UserResponse struct {
	ID        int64   `json:"id"`
	Username  string  `json:"username"`
	Name      *string `json:"name,omitempty"`
	AvatarURL *string `json:"avatar,omitempty"`
	CreatedAt string  `json:"createdAt"`
}

// ToResponse converts a User model to a UserResponse DTO
func (u *User) ToResponse() *UserResponse {
	return &UserResponse{
		ID:        u.ID,
		Username:  u.Username,
		Name:      u.Name,
		AvatarURL: u.AvatarURL,
		CreatedAt: u.CreatedAt.UTC().Format("2006-01-02T15:04:05Z"),
	}
}
