package entity

import "time"

type Post struct {
	ID        string    `json:"id"`
	OwnerID   string    `json:"owner_id"`
	Slug      string    `json:"slug"`
	Title     string    `json:"title"`
	Content   string    `json:"content"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// PostPage is one page of the public listing, newest first.
type PostPage struct {
	Posts    []*Post `json:"posts"`
	Total    int64   `json:"total"`
	Page     int     `json:"page"`
	PageSize int     `json:"page_size"`
}
