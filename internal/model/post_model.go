package model

import "time"

type PostModel struct {
	ID        string    `gorm:"type:uuid;primary_key" json:"id"`
	OwnerID   string    `gorm:"type:uuid;not null;index:idx_posts_owner_created" json:"owner_id"`
	Slug      string    `gorm:"type:varchar(300);not null;uniqueIndex" json:"slug"`
	Title     string    `gorm:"type:varchar(255);not null" json:"title"`
	Content   string    `gorm:"type:text;not null" json:"content"`
	CreatedAt time.Time `gorm:"index:idx_posts_owner_created" json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (PostModel) TableName() string { return "posts" }

// SlugReservationModel records every slug ever issued. Rows are never
// deleted, so a slug stays reserved even after its post is removed and
// old links keep pointing at a unique identifier.
type SlugReservationModel struct {
	Slug      string    `gorm:"type:varchar(300);primary_key" json:"slug"`
	CreatedAt time.Time `json:"created_at"`
}

func (SlugReservationModel) TableName() string { return "slug_reservations" }
