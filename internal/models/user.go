package models

import "time"

// User is an account row. Version backs optimistic concurrency control:
// it increments on every successful update, and a write whose version no
// longer matches the stored value is rejected as a lock conflict.
type User struct {
	ID                 uint64            `gorm:"primaryKey;autoIncrement" json:"id"`
	Email              string            `gorm:"size:200;not null;uniqueIndex" json:"email"`
	Password           string            `gorm:"size:129;not null" json:"-"`
	Name               string            `gorm:"size:120" json:"name"`
	Role               string            `gorm:"size:50;not null" json:"role"`
	AccountExpired     bool              `gorm:"not null" json:"-"`
	AccountLocked      bool              `gorm:"not null" json:"-"`
	CredentialsExpired bool              `gorm:"not null" json:"-"`
	Disabled           bool              `gorm:"not null" json:"-"`
	Version            int               `gorm:"not null;default:0" json:"-"`
	Projects           []ExternalProject `gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE" json:"-"`
	CreatedAt          time.Time         `json:"-"`
	UpdatedAt          time.Time         `json:"-"`
}

func (User) TableName() string { return "tb_user" }
