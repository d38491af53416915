package models

import (
	"time"

	"gorm.io/gorm"
)

type ContactStatus string

const (
	ContactStatusNew        ContactStatus = "new"
	ContactStatusInProgress ContactStatus = "in-progress"
	ContactStatusResolved   ContactStatus = "resolved"
	ContactStatusClosed     ContactStatus = "closed"
)

// Valid reports whether the status is a known value.
func (s ContactStatus) Valid() bool {
	switch s {
	case ContactStatusNew, ContactStatusInProgress, ContactStatusResolved, ContactStatusClosed:
		return true
	}
	return false
}

// Contact is an inbound message from the public contact form. ResolvedByID is
// stamped only on the transition into resolved.
type Contact struct {
	ID           uint64         `gorm:"primarykey" json:"id"`
	Reference    string         `gorm:"type:varchar(50);uniqueIndex;not null" json:"reference"`
	Name         string         `gorm:"type:varchar(255);not null" json:"name"`
	Email        string         `gorm:"type:varchar(255);not null" json:"email"`
	Subject      string         `gorm:"type:varchar(255)" json:"subject"`
	Message      string         `gorm:"type:text;not null" json:"message"`
	Status       ContactStatus  `gorm:"type:varchar(20);not null;default:'new'" json:"status"`
	ResolvedByID *uint64        `json:"resolved_by_id"`
	CreatedAt    time.Time      `json:"created_at"`
	UpdatedAt    time.Time      `json:"updated_at"`
	DeletedAt    gorm.DeletedAt `gorm:"index" json:"-"`

	// Relations
	ResolvedBy *User `gorm:"foreignKey:ResolvedByID" json:"resolved_by,omitempty"`
}
