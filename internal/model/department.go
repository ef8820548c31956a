package model

import "time"

// Department is an organizational unit users and deliveries belong to.
type Department struct {
	ID          uint      `json:"id" gorm:"primaryKey"`
	Name        string    `json:"name" gorm:"size:150;uniqueIndex;not null"`
	Description string    `json:"description" gorm:"type:text"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`

	// Populated by list queries only.
	MemberCount int64 `json:"member_count" gorm:"-:migration;->"`
}
