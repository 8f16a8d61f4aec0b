package bookrepo

import (
	"context"
	"database/sql"
	"fmt"

	"bookstore/model"
)

type Repo interface {
	Create(ctx context.Context, b *model.Book) error
	ByID(ctx context.Context, id int64) (*model.Book, error)
	Update(ctx context.Context, b *model.Book) error
	Delete(ctx context.Context, id int64) error

	// ListPaged trusts sortBy/direction; callers whitelist them first.
	ListPaged(ctx context.Context, offset, limit int, sortBy, direction string) ([]model.Book, error)
	Count(ctx context.Context) (int64, error)

	SearchTitle(ctx context.Context, title string) ([]model.Book, error)
	SearchAuthor(ctx context.Context, author string) ([]model.Book, error)
	SearchGenre(ctx context.Context, genre string) ([]model.Book, error)
}

type repo struct{ db *sql.DB }

func New(db *sql.DB) Repo { return &repo{db: db} }

func (r *repo) Create(ctx context.Context, b *model.Book) error {
	const q = `
INSERT INTO books (title, author, genre, price, stock)
VALUES ($1,$2,$3,$4,$5)
RETURNING id`
	return r.db.QueryRowContext(ctx, q, b.Title, b.Author, b.Genre, b.Price, b.Stock).Scan(&b.ID)
}

func (r *repo) ByID(ctx context.Context, id int64) (*model.Book, error) {
	const q = `
SELECT id, title, author, genre, price, stock
FROM books
WHERE id = $1`
	var b model.Book
	if err := r.db.QueryRowContext(ctx, q, id).Scan(&b.ID, &b.Title, &b.Author, &b.Genre, &b.Price, &b.Stock); err != nil {
		return nil, err
	}
	return &b, nil
}

func (r *repo) Update(ctx context.Context, b *model.Book) error {
	const q = `
UPDATE books
SET title = $2, author = $3, genre = $4, price = $5, stock = $6
WHERE id = $1`
	res, err := r.db.ExecContext(ctx, q, b.ID, b.Title, b.Author, b.Genre, b.Price, b.Stock)
	if err != nil {
		return err
	}
	aff, _ := res.RowsAffected()
	if aff == 0 {
		return sql.ErrNoRows
	}
	return nil
}

func (r *repo) Delete(ctx context.Context, id int64) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM books WHERE id = $1`, id)
	if err != nil {
		return err
	}
	aff, _ := res.RowsAffected()
	if aff == 0 {
		return sql.ErrNoRows
	}
	return nil
}

func (r *repo) ListPaged(ctx context.Context, offset, limit int, sortBy, direction string) ([]model.Book, error) {
	q := fmt.Sprintf(`
SELECT id, title, author, genre, price, stock
FROM books
ORDER BY %s %s, id ASC
LIMIT $1 OFFSET $2`, sortBy, direction)
	rows, err := r.db.QueryContext(ctx, q, limit, offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanBooks(rows)
}

func (r *repo) Count(ctx context.Context) (int64, error) {
	var n int64
	err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM books`).Scan(&n)
	return n, err
}

func (r *repo) SearchTitle(ctx context.Context, title string) ([]model.Book, error) {
	const q = `
SELECT id, title, author, genre, price, stock
FROM books
WHERE title ILIKE '%' || $1 || '%'
ORDER BY id`
	rows, err := r.db.QueryContext(ctx, q, title)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanBooks(rows)
}

func (r *repo) SearchAuthor(ctx context.Context, author string) ([]model.Book, error) {
	const q = `
SELECT id, title, author, genre, price, stock
FROM books
WHERE author ILIKE '%' || $1 || '%'
ORDER BY id`
	rows, err := r.db.QueryContext(ctx, q, author)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanBooks(rows)
}

func (r *repo) SearchGenre(ctx context.Context, genre string) ([]model.Book, error) {
	const q = `
SELECT id, title, author, genre, price, stock
FROM books
WHERE lower(genre) = lower($1)
ORDER BY id`
	rows, err := r.db.QueryContext(ctx, q, genre)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanBooks(rows)
}

func scanBooks(rows *sql.Rows) ([]model.Book, error) {
	var out []model.Book
	for rows.Next() {
		var b model.Book
		if err := rows.Scan(&b.ID, &b.Title, &b.Author, &b.Genre, &b.Price, &b.Stock); err != nil {
			return nil, err
		}
		out = append(out, b)
	}
	return out, rows.Err()
}
