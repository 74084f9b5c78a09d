package models

type Role int

const (
	RoleUser  Role = 0
	RoleAdmin Role = 1
)

func (r Role) Valid() bool {
	return r == RoleUser || r == RoleAdmin
}

// User never serializes its password hash.
type User struct {
	ID           int    `json:"id"`
	Username     string `json:"username"`
	PasswordHash string `json:"-"`
	Email        string `json:"email"`
	Role         Role   `json:"role"`
}
