package model

import "time"

// Book represents a book record in the `books` table.  Every book
// belongs to exactly one owner: the user who created it.  The owner
// reference is set once at creation and is never reassigned by any
// update path.
//
// Fields:
//  ID        – primary key identifier (UUID string).
//  Title     – book title, required.
//  Author    – book author, required.
//  OwnerID   – user ID of the creator.
//  CreatedAt – timestamp when the book was created.
//  UpdatedAt – timestamp of last update.
type Book struct {
	ID        string    `json:"id"`
	Title     string    `json:"title"`
	Author    string    `json:"author"`
	OwnerID   string    `json:"owner"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
