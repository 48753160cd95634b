package model

import (
	"time"

	"github.com/google/uuid"
)

// Roles
const (
	RoleAdmin   = "admin"
	RoleManager = "manager"
	RoleStaff   = "staff"
)

// User is an operator of the system
type User struct {
	ID         uuid.UUID  `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	Username   string     `gorm:"type:varchar(255);uniqueIndex;not null" json:"username"`
	Password   string     `gorm:"type:varchar(255);not null" json:"-"`
	FullName   string     `gorm:"type:varchar(255);not null" json:"fullName"`
	Role       string     `gorm:"type:varchar(50);not null" json:"role"`
	LocationID *uuid.UUID `gorm:"type:uuid" json:"locationId"`
	CreatedAt  time.Time  `gorm:"autoCreateTime" json:"createdAt"`
	UpdatedAt  time.Time  `gorm:"autoUpdateTime" json:"updatedAt"`
}
