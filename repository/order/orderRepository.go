package orderrepo

import (
	"context"
	"database/sql"
	"errors"

	"bookstore/model"
)

// ErrInsufficientStock is returned when a conditional decrement touches no row
// because the remaining stock is below the requested quantity.
var ErrInsufficientStock = errors.New("insufficient stock")

type Repo interface {
	// Placement & cancellation run inside a caller-owned transaction.
	BookLine(ctx context.Context, tx *sql.Tx, bookID int64) (title string, price float64, err error)
	DecrementStock(ctx context.Context, tx *sql.Tx, bookID int64, qty int) error
	RestoreStock(ctx context.Context, tx *sql.Tx, bookID int64, qty int) error
	InsertOrder(ctx context.Context, tx *sql.Tx, o *model.Order) error
	InsertItem(ctx context.Context, tx *sql.Tx, it *model.OrderItem) error

	OwnerAndStatusForUpdate(ctx context.Context, tx *sql.Tx, orderID int64) (owner string, status model.OrderStatus, err error)
	ItemsForOrder(ctx context.Context, tx *sql.Tx, orderID int64) ([]model.OrderItem, error)
	SetStatusTx(ctx context.Context, tx *sql.Tx, orderID int64, status model.OrderStatus) error

	SetStatus(ctx context.Context, orderID int64, status model.OrderStatus) error
	SetPaymentStatus(ctx context.Context, orderID int64, status model.PaymentStatus) error

	ByID(ctx context.Context, orderID int64) (*model.Order, error)
	ListByEmail(ctx context.Context, email string) ([]model.Order, error)
}

type repo struct{ db *sql.DB }

func New(db *sql.DB) Repo { return &repo{db: db} }

func (r *repo) BookLine(ctx context.Context, tx *sql.Tx, bookID int64) (string, float64, error) {
	const q = `
SELECT title, price
FROM books
WHERE id = $1`
	var title string
	var price float64
	err := tx.QueryRowContext(ctx, q, bookID).Scan(&title, &price)
	return title, price, err
}

func (r *repo) DecrementStock(ctx context.Context, tx *sql.Tx, bookID int64, qty int) error {
	// Guard: only decrement if enough stock remains.
	const q = `
UPDATE books
SET stock = stock - $2
WHERE id = $1
AND stock >= $2`
	res, err := tx.ExecContext(ctx, q, bookID, qty)
	if err != nil {
		return err
	}
	aff, _ := res.RowsAffected()
	if aff == 0 {
		return ErrInsufficientStock
	}
	return nil
}

func (r *repo) RestoreStock(ctx context.Context, tx *sql.Tx, bookID int64, qty int) error {
	// The book may have been deleted since the order was placed; zero rows is fine.
	const q = `
UPDATE books
SET stock = stock + $2
WHERE id = $1`
	_, err := tx.ExecContext(ctx, q, bookID, qty)
	return err
}

func (r *repo) InsertOrder(ctx context.Context, tx *sql.Tx, o *model.Order) error {
	const q = `
INSERT INTO orders (user_email, total_amount, order_date, payment_status, order_status)
VALUES ($1,$2,$3,$4,$5)
RETURNING id`
	return tx.QueryRowContext(ctx, q,
		o.UserEmail, o.TotalAmount, o.OrderDate, o.PaymentStatus, o.OrderStatus,
	).Scan(&o.ID)
}

func (r *repo) InsertItem(ctx context.Context, tx *sql.Tx, it *model.OrderItem) error {
	const q = `
INSERT INTO order_items (order_id, book_id, quantity, price)
VALUES ($1,$2,$3,$4)
RETURNING id`
	return tx.QueryRowContext(ctx, q, it.OrderID, it.BookID, it.Quantity, it.Price).Scan(&it.ID)
}

func (r *repo) OwnerAndStatusForUpdate(ctx context.Context, tx *sql.Tx, orderID int64) (string, model.OrderStatus, error) {
	const q = `
SELECT user_email, order_status
FROM orders
WHERE id = $1
FOR UPDATE`
	var owner string
	var status model.OrderStatus
	err := tx.QueryRowContext(ctx, q, orderID).Scan(&owner, &status)
	return owner, status, err
}

func (r *repo) ItemsForOrder(ctx context.Context, tx *sql.Tx, orderID int64) ([]model.OrderItem, error) {
	const q = `
SELECT id, order_id, book_id, quantity, price
FROM order_items
WHERE order_id = $1
ORDER BY id`
	rows, err := tx.QueryContext(ctx, q, orderID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanItems(rows)
}

func (r *repo) SetStatusTx(ctx context.Context, tx *sql.Tx, orderID int64, status model.OrderStatus) error {
	_, err := tx.ExecContext(ctx, `UPDATE orders SET order_status = $2 WHERE id = $1`, orderID, status)
	return err
}

func (r *repo) SetStatus(ctx context.Context, orderID int64, status model.OrderStatus) error {
	res, err := r.db.ExecContext(ctx, `UPDATE orders SET order_status = $2 WHERE id = $1`, orderID, status)
	if err != nil {
		return err
	}
	aff, _ := res.RowsAffected()
	if aff == 0 {
		return sql.ErrNoRows
	}
	return nil
}

func (r *repo) SetPaymentStatus(ctx context.Context, orderID int64, status model.PaymentStatus) error {
	res, err := r.db.ExecContext(ctx, `UPDATE orders SET payment_status = $2 WHERE id = $1`, orderID, status)
	if err != nil {
		return err
	}
	aff, _ := res.RowsAffected()
	if aff == 0 {
		return sql.ErrNoRows
	}
	return nil
}

func (r *repo) ByID(ctx context.Context, orderID int64) (*model.Order, error) {
	const q = `
SELECT id, user_email, total_amount, order_date, payment_status, order_status
FROM orders
WHERE id = $1`
	o := &model.Order{}
	err := r.db.QueryRowContext(ctx, q, orderID).Scan(
		&o.ID, &o.UserEmail, &o.TotalAmount, &o.OrderDate, &o.PaymentStatus, &o.OrderStatus,
	)
	if err != nil {
		return nil, err
	}

	const qi = `
SELECT id, order_id, book_id, quantity, price
FROM order_items
WHERE order_id = $1
ORDER BY id`
	rows, err := r.db.QueryContext(ctx, qi, orderID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	o.Items, err = scanItems(rows)
	if err != nil {
		return nil, err
	}
	return o, nil
}

func (r *repo) ListByEmail(ctx context.Context, email string) ([]model.Order, error) {
	const q = `
SELECT o.id, o.user_email, o.total_amount, o.order_date, o.payment_status, o.order_status,
       i.id, i.order_id, i.book_id, i.quantity, i.price
FROM orders o
JOIN order_items i ON i.order_id = o.id
WHERE lower(o.user_email) = lower($1)
ORDER BY o.order_date DESC, o.id DESC, i.id ASC`
	rows, err := r.db.QueryContext(ctx, q, email)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []model.Order
	var cur *model.Order
	for rows.Next() {
		var o model.Order
		var it model.OrderItem
		if err := rows.Scan(
			&o.ID, &o.UserEmail, &o.TotalAmount, &o.OrderDate, &o.PaymentStatus, &o.OrderStatus,
			&it.ID, &it.OrderID, &it.BookID, &it.Quantity, &it.Price,
		); err != nil {
			return nil, err
		}
		if cur == nil || cur.ID != o.ID {
			out = append(out, o)
			cur = &out[len(out)-1]
		}
		cur.Items = append(cur.Items, it)
	}
	return out, rows.Err()
}

func scanItems(rows *sql.Rows) ([]model.OrderItem, error) {
	var out []model.OrderItem
	for rows.Next() {
		var it model.OrderItem
		if err := rows.Scan(&it.ID, &it.OrderID, &it.BookID, &it.Quantity, &it.Price); err != nil {
			return nil, err
		}
		out = append(out, it)
	}
	return out, rows.Err()
}
