package ordersvc

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"bookstore/model"
	orderrepo "bookstore/repository/order"
)

// errors used by controllers

type ErrCode string

const (
	ErrEmptyOrder     ErrCode = "EMPTY_ORDER"
	ErrBadLine        ErrCode = "BAD_LINE"
	ErrBookNotFound   ErrCode = "BOOK_NOT_FOUND"
	ErrNoStock        ErrCode = "NO_STOCK"
	ErrNotFound       ErrCode = "ORDER_NOT_FOUND"
	ErrNotOwner       ErrCode = "NOT_OWNER"
	ErrNotCancellable ErrCode = "NOT_CANCELLABLE"
	ErrBadStatus      ErrCode = "BAD_STATUS"
	ErrForbidden      ErrCode = "FORBIDDEN"
)

type codedError struct {
	code ErrCode
	msg  string
}

func (e codedError) Error() string {
	if e.msg != "" {
		return e.msg
	}
	return string(e.code)
}
func (e codedError) Code() ErrCode { return e.code }

func wrap(c ErrCode, msg string) error { return codedError{code: c, msg: msg} }

// Code extracts error code
func Code(err error) ErrCode {
	var ce interface{ Code() ErrCode }
	if errors.As(err, &ce) {
		return ce.Code()
	}
	return ""
}

// Line is one requested (book, quantity) pair of a new order.
type Line struct {
	BookID   int64
	Quantity int
}

type Service interface {
	// Place creates the order and its items and decrements stock in one
	// transaction; any failing line aborts the whole order.
	Place(ctx context.Context, email string, lines []Line) (*model.Order, error)

	MyOrders(ctx context.Context, email string) ([]model.Order, error)

	// UpdateStatus / UpdatePayment overwrite unconditionally; only enum
	// membership is checked. Admin-gated at the route level.
	UpdateStatus(ctx context.Context, orderID int64, raw string) (*model.Order, error)
	UpdatePayment(ctx context.Context, orderID int64, raw string) (*model.Order, error)

	// Cancel is owner-only and blocked once the order shipped or was delivered.
	// Each line's stock decrement is reversed in the same transaction.
	Cancel(ctx context.Context, orderID int64, email string) (*model.Order, error)

	// InvoiceOrder loads an order for invoice rendering; owner or admin only.
	InvoiceOrder(ctx context.Context, orderID int64, email string, admin bool) (*model.Order, error)
}

type service struct {
	db *sql.DB
	r  orderrepo.Repo
}

func New(db *sql.DB, r orderrepo.Repo) Service {
	return &service{db: db, r: r}
}

func (s *service) Place(ctx context.Context, email string, lines []Line) (o *model.Order, err error) {
	if len(lines) == 0 {
		return nil, wrap(ErrEmptyOrder, "order must contain at least one item")
	}
	for _, l := range lines {
		if l.BookID <= 0 || l.Quantity <= 0 {
			return nil, wrap(ErrBadLine, "book id and quantity must be positive")
		}
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, err
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	o = &model.Order{
		UserEmail:     strings.ToLower(email),
		OrderDate:     time.Now().UTC(),
		PaymentStatus: model.PaymentPending,
		OrderStatus:   model.OrderPlaced,
	}

	var title string
	var price float64
	for _, l := range lines {
		title, price, err = s.r.BookLine(ctx, tx, l.BookID)
		if err != nil {
			if errors.Is(err, sql.ErrNoRows) {
				err = wrap(ErrBookNotFound, fmt.Sprintf("book not found with id: %d", l.BookID))
			}
			return nil, err
		}
		if err = s.r.DecrementStock(ctx, tx, l.BookID, l.Quantity); err != nil {
			if errors.Is(err, orderrepo.ErrInsufficientStock) {
				err = wrap(ErrNoStock, "not enough stock for book: "+title)
			}
			return nil, err
		}
		o.TotalAmount += price * float64(l.Quantity)
		o.Items = append(o.Items, model.OrderItem{
			BookID:   l.BookID,
			Quantity: l.Quantity,
			Price:    price,
		})
	}

	if err = s.r.InsertOrder(ctx, tx, o); err != nil {
		return nil, err
	}
	for i := range o.Items {
		o.Items[i].OrderID = o.ID
		if err = s.r.InsertItem(ctx, tx, &o.Items[i]); err != nil {
			return nil, err
		}
	}

	if err = tx.Commit(); err != nil {
		return nil, err
	}
	return o, nil
}

func (s *service) MyOrders(ctx context.Context, email string) ([]model.Order, error) {
	return s.r.ListByEmail(ctx, email)
}

func (s *service) UpdateStatus(ctx context.Context, orderID int64, raw string) (*model.Order, error) {
	status, ok := model.ParseOrderStatus(raw)
	if !ok {
		return nil, wrap(ErrBadStatus, "unknown order status: "+raw)
	}
	if err := s.r.SetStatus(ctx, orderID, status); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, wrap(ErrNotFound, fmt.Sprintf("order not found with id: %d", orderID))
		}
		return nil, err
	}
	return s.r.ByID(ctx, orderID)
}

func (s *service) UpdatePayment(ctx context.Context, orderID int64, raw string) (*model.Order, error) {
	status, ok := model.ParsePaymentStatus(raw)
	if !ok {
		return nil, wrap(ErrBadStatus, "unknown payment status: "+raw)
	}
	if err := s.r.SetPaymentStatus(ctx, orderID, status); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, wrap(ErrNotFound, fmt.Sprintf("order not found with id: %d", orderID))
		}
		return nil, err
	}
	return s.r.ByID(ctx, orderID)
}

func (s *service) Cancel(ctx context.Context, orderID int64, email string) (o *model.Order, err error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, err
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	owner, status, err := s.r.OwnerAndStatusForUpdate(ctx, tx, orderID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			err = wrap(ErrNotFound, fmt.Sprintf("order not found with id: %d", orderID))
		}
		return nil, err
	}
	if !strings.EqualFold(owner, email) {
		err = wrap(ErrNotOwner, "only the order owner can cancel")
		return nil, err
	}
	switch status {
	case model.OrderShipped, model.OrderDelivered:
		err = wrap(ErrNotCancellable, "cannot cancel shipped or delivered order")
		return nil, err
	case model.OrderCancelled:
		// Already cancelled; do not restore stock twice.
		if err = tx.Commit(); err != nil {
			return nil, err
		}
		return s.r.ByID(ctx, orderID)
	}

	items, err := s.r.ItemsForOrder(ctx, tx, orderID)
	if err != nil {
		return nil, err
	}
	for _, it := range items {
		if err = s.r.RestoreStock(ctx, tx, it.BookID, it.Quantity); err != nil {
			return nil, err
		}
	}
	if err = s.r.SetStatusTx(ctx, tx, orderID, model.OrderCancelled); err != nil {
		return nil, err
	}
	if err = tx.Commit(); err != nil {
		return nil, err
	}
	return s.r.ByID(ctx, orderID)
}

func (s *service) InvoiceOrder(ctx context.Context, orderID int64, email string, admin bool) (*model.Order, error) {
	o, err := s.r.ByID(ctx, orderID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, wrap(ErrNotFound, fmt.Sprintf("order not found with id: %d", orderID))
		}
		return nil, err
	}
	if !admin && !strings.EqualFold(o.UserEmail, email) {
		return nil, wrap(ErrForbidden, "you cannot download this invoice")
	}
	return o, nil
}
