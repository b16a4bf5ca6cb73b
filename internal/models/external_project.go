package models

import "time"

// ExternalProject links an account to a project in an external system.
// ProjectID is unique across all users; rows are removed with their owner.
type ExternalProject struct {
	ID        uint64    `gorm:"primaryKey;autoIncrement" json:"-"`
	ProjectID string    `gorm:"column:project_id;size:200;not null;uniqueIndex" json:"projectId"`
	UserID    uint64    `gorm:"not null;index" json:"userId"`
	Name      string    `gorm:"size:120;not null" json:"name"`
	Version   int       `gorm:"not null;default:0" json:"-"`
	CreatedAt time.Time `json:"-"`
	UpdatedAt time.Time `json:"-"`
}

func (ExternalProject) TableName() string { return "tb_user_external_project" }
