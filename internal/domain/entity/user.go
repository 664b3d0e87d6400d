package entity

import "time"

// Estados de User.
const (
	UserStatusActive   = "active"
	UserStatusInactive = "inactive"
)

// User representa un usuario del sistema.
type User struct {
	ID           string
	Email        string
	PasswordHash string // bcrypt
	Name         string
	RoleID       string
	Status       string // active, inactive
	CreatedAt    time.Time
	UpdatedAt    time.Time
	SoftDelete
}

// CanLogin informa si el usuario puede autenticarse.
func (u *User) CanLogin() bool {
	return u.Status == UserStatusActive && !u.IsDeleted()
}
