package users

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

// Role restricts what an account may do in the reporting surfaces.
type Role string

const (
	RoleAdmin      Role = "admin"
	RoleLeader     Role = "leader"
	RoleProgrammer Role = "programmer"
)

// ErrInvalidRole indicates a role outside the accepted set. The check runs
// before persistence so no row is written for a bad role.
var ErrInvalidRole = errors.New("users: invalid role")

// NewRole validates raw input and returns a Role.
func NewRole(rawInput string) (Role, error) {
	candidate := Role(strings.ToLower(strings.TrimSpace(rawInput)))
	switch candidate {
	case RoleAdmin, RoleLeader, RoleProgrammer:
		return candidate, nil
	default:
		return "", fmt.Errorf("%w: %q (accepted: admin, leader, programmer)", ErrInvalidRole, rawInput)
	}
}

// Account models a local credential login.
type Account struct {
	ID           uint      `gorm:"column:id;primaryKey;autoIncrement"`
	EmployeeID   *string   `gorm:"column:employee_id;size:32;uniqueIndex"`
	FullName     string    `gorm:"column:full_name;size:190"`
	Email        *string   `gorm:"column:email;size:320;uniqueIndex"`
	Username     string    `gorm:"column:username;size:190;uniqueIndex;not null"`
	PasswordHash string    `gorm:"column:password_hash;size:190;not null"`
	Role         Role      `gorm:"column:role;size:32;not null"`
	CreatedAt    time.Time `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt    time.Time `gorm:"column:updated_at;autoUpdateTime"`
}

// TableName provides the explicit table binding for GORM.
func (Account) TableName() string {
	return "user_accounts"
}
