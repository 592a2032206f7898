package domain

import "time"

// Board is a recommendation-board post. It exists here only so the
// protected mutation routes have something to authorize against: the owner
// check on write/modify/delete produces the 403 path.
type Board struct {
	ID        string
	Title     string
	Content   string
	AuthorID  string
	CreatedAt time.Time
	UpdatedAt time.Time
}
