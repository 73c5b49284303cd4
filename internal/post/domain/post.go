package domain

import "time"

type ID string

// Post is a user-authored blog entry. AuthorID is fixed at creation and
// never transferable.
type Post struct {
	ID        ID
	Title     string
	Content   string
	AuthorID  string
	CreatedAt time.Time
}

// Summary is what listings and the live feed carry.
type Summary struct {
	ID        ID
	Title     string
	AuthorID  string
	CreatedAt time.Time
}
