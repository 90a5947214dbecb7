package domain

import "time"

// Comment is an append-only message in a ticket's communication thread.
// Comments are never edited or deleted.
type Comment struct {
	ID          string
	TicketID    string
	Author      string
	AuthorEmail *string
	IsAdmin     bool
	Body        string
	CreatedAt   time.Time
}

// AdminAuthorName is the display author for admin-posted comments.
const AdminAuthorName = "Admin"
