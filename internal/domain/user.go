package domain

import "time"

// User roles. Role is the sole authorization axis.
const (
	RoleUser    = "user"
	RoleCreator = "creator"
	RoleAdmin   = "admin"
)

// User represents a registered actor
type User struct {
	ID        string    `gorm:"column:id;type:varchar(36);primaryKey" json:"id"`
	Username  string    `gorm:"column:username;type:varchar(50);uniqueIndex" json:"username"`
	Email     string    `gorm:"column:email;type:varchar(255);uniqueIndex" json:"email"`
	Password  string    `gorm:"column:password;type:varchar(255)" json:"-"`
	Role      string    `gorm:"column:role;type:varchar(16);default:'user'" json:"role"`
	Status    string    `gorm:"column:status;type:varchar(16);default:'active'" json:"status"`
	CreatedAt time.Time `gorm:"column:created_at;autoCreateTime" json:"created_at"`
	UpdatedAt time.Time `gorm:"column:updated_at;autoUpdateTime" json:"updated_at"`
}

// TableName returns the table name
func (User) TableName() string { return "users" }

// RegisterRequest is the payload for POST /auth/register
type RegisterRequest struct {
	Username string `json:"username" binding:"required,min=3,max=50"`
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required,min=8"`
}

// LoginRequest is the payload for POST /auth/login
type LoginRequest struct {
	Username string `json:"username" binding:"required"`
	Password string `json:"password" binding:"required"`
}

// RefreshRequest is the payload for POST /auth/refresh
type RefreshRequest struct {
	RefreshToken string `json:"refresh_token" binding:"required"`
}
