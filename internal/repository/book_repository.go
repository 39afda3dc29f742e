package repository

import (
	"context"
	"database/sql"
	"strings"

	"github.com/google/uuid"

	"github.com/akhmetov/bookstore-api/internal/model"
)

type BookRepo struct{ DB *sql.DB }

func NewBookRepo(db *sql.DB) *BookRepo { return &BookRepo{DB: db} }

const bookColumns = "id,title,author,owner_id,created_at,updated_at"

// Create inserts a book row and fills in the generated id and
// timestamps on the passed record.  The owner must already be set by
// the caller; it is taken from the authenticated user, never from
// client input.
func (r *BookRepo) Create(ctx context.Context, b *model.Book) error {
	b.ID = uuid.NewString()
	_, err := r.DB.ExecContext(ctx,
		"INSERT INTO books (id, title, author, owner_id) VALUES (?,?,?,?)",
		b.ID, b.Title, b.Author, b.OwnerID)
	if err != nil {
		return err
	}
	created, err := r.GetByID(ctx, b.ID)
	if err != nil {
		return err
	}
	*b = created
	return nil
}

// GetByID fetches a single book by id.
func (r *BookRepo) GetByID(ctx context.Context, id string) (model.Book, error) {
	var b model.Book
	err := r.DB.QueryRowContext(ctx,
		"SELECT "+bookColumns+" FROM books WHERE id=? LIMIT 1",
		id).Scan(&b.ID, &b.Title, &b.Author, &b.OwnerID, &b.CreatedAt, &b.UpdatedAt)
	if err == sql.ErrNoRows {
		return model.Book{}, ErrBookNotFound
	}
	return b, err
}

// ListAll returns every book in the store.  Only admin callers reach
// this path; regular users go through ListByOwner.
func (r *BookRepo) ListAll(ctx context.Context) ([]model.Book, error) {
	rows, err := r.DB.QueryContext(ctx,
		"SELECT "+bookColumns+" FROM books ORDER BY created_at")
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanBooks(rows)
}

// ListByOwner returns the books owned by a single user.
func (r *BookRepo) ListByOwner(ctx context.Context, ownerID string) ([]model.Book, error) {
	rows, err := r.DB.QueryContext(ctx,
		"SELECT "+bookColumns+" FROM books WHERE owner_id=? ORDER BY created_at", ownerID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanBooks(rows)
}

// UpdateFields applies a partial update: only non-nil fields are
// written, everything else keeps its stored value.  The owner column is
// never part of the SET clause.  A no-op call (all fields nil) returns
// without touching the database.
func (r *BookRepo) UpdateFields(ctx context.Context, id string, title, author *string) error {
	sets := make([]string, 0, 3)
	args := make([]any, 0, 3)
	if title != nil {
		sets = append(sets, "title=?")
		args = append(args, *title)
	}
	if author != nil {
		sets = append(sets, "author=?")
		args = append(args, *author)
	}
	if len(sets) == 0 {
		return nil
	}
	sets = append(sets, "updated_at=CURRENT_TIMESTAMP")
	args = append(args, id)
	_, err := r.DB.ExecContext(ctx,
		"UPDATE books SET "+strings.Join(sets, ", ")+" WHERE id=?", args...)
	return err
}

// Replace overwrites all mutable fields of a book.  The owner column is
// deliberately absent from the statement.
func (r *BookRepo) Replace(ctx context.Context, id, title, author string) error {
	_, err := r.DB.ExecContext(ctx,
		"UPDATE books SET title=?, author=?, updated_at=CURRENT_TIMESTAMP WHERE id=?",
		title, author, id)
	return err
}

// Delete permanently removes a book row.  There is no soft delete.
func (r *BookRepo) Delete(ctx context.Context, id string) error {
	res, err := r.DB.ExecContext(ctx, "DELETE FROM books WHERE id=?", id)
	if err != nil {
		return err
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return ErrBookNotFound
	}
	return nil
}

func scanBooks(rows *sql.Rows) ([]model.Book, error) {
	items := make([]model.Book, 0)
	for rows.Next() {
		var b model.Book
		if err := rows.Scan(&b.ID, &b.Title, &b.Author, &b.OwnerID, &b.CreatedAt, &b.UpdatedAt); err != nil {
			return nil, err
		}
		items = append(items, b)
	}
	return items, rows.Err()
}
