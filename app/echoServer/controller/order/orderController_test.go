package order

import (
	"context"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"bookstore/model"
	ordersvc "bookstore/service/order"

	"github.com/go-playground/validator/v10"
	"github.com/golang-jwt/jwt/v5"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/require"
)

type mockSvc struct {
	placeFn         func(email string, lines []ordersvc.Line) (*model.Order, error)
	myOrdersFn      func(email string) ([]model.Order, error)
	updateStatusFn  func(orderID int64, raw string) (*model.Order, error)
	updatePaymentFn func(orderID int64, raw string) (*model.Order, error)
	cancelFn        func(orderID int64, email string) (*model.Order, error)
	invoiceFn       func(orderID int64, email string, admin bool) (*model.Order, error)
}

var _ ordersvc.Service = (*mockSvc)(nil)

func (m *mockSvc) Place(_ context.Context, email string, lines []ordersvc.Line) (*model.Order, error) {
	return m.placeFn(email, lines)
}
func (m *mockSvc) MyOrders(_ context.Context, email string) ([]model.Order, error) {
	return m.myOrdersFn(email)
}
func (m *mockSvc) UpdateStatus(_ context.Context, orderID int64, raw string) (*model.Order, error) {
	return m.updateStatusFn(orderID, raw)
}
func (m *mockSvc) UpdatePayment(_ context.Context, orderID int64, raw string) (*model.Order, error) {
	return m.updatePaymentFn(orderID, raw)
}
func (m *mockSvc) Cancel(_ context.Context, orderID int64, email string) (*model.Order, error) {
	return m.cancelFn(orderID, email)
}
func (m *mockSvc) InvoiceOrder(_ context.Context, orderID int64, email string, admin bool) (*model.Order, error) {
	return m.invoiceFn(orderID, email, admin)
}

// svcErr mimics the service's coded errors from outside the package.
type svcErr struct {
	code ordersvc.ErrCode
	msg  string
}

func (e svcErr) Error() string          { return e.msg }
func (e svcErr) Code() ordersvc.ErrCode { return e.code }

func timeFixed() time.Time {
	return time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
}

func newController(svc ordersvc.Service) *Controller {
	return &Controller{Svc: svc, V: validator.New(), Log: slog.Default()}
}

func authedContext(e *echo.Echo, req *http.Request, rec *httptest.ResponseRecorder, email, role string) echo.Context {
	c := e.NewContext(req, rec)
	c.Set("user", &jwt.Token{Claims: jwt.MapClaims{
		"sub":   float64(1),
		"email": email,
		"role":  role,
	}})
	return c
}

func TestPlace_EmptyItemsIsBadRequest(t *testing.T) {
	e := echo.New()
	h := newController(&mockSvc{
		placeFn: func(email string, lines []ordersvc.Line) (*model.Order, error) {
			t.Fatal("service must not be called for an empty order")
			return nil, nil
		},
	})

	req := httptest.NewRequest(http.MethodPost, "/orders", strings.NewReader(`{"items":[]}`))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	c := authedContext(e, req, rec, "user@example.com", "CUSTOMER")

	err := h.Place(c)
	require.Error(t, err)
	he, ok := err.(*echo.HTTPError)
	require.True(t, ok)
	require.Equal(t, http.StatusBadRequest, he.Code)
}

func TestPlace_Success(t *testing.T) {
	e := echo.New()
	h := newController(&mockSvc{
		placeFn: func(email string, lines []ordersvc.Line) (*model.Order, error) {
			require.Equal(t, "user@example.com", email)
			require.Equal(t, []ordersvc.Line{{BookID: 1, Quantity: 3}}, lines)
			return &model.Order{ID: 77}, nil
		},
	})

	body := `{"items":[{"book_id":1,"quantity":3}]}`
	req := httptest.NewRequest(http.MethodPost, "/orders", strings.NewReader(body))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	c := authedContext(e, req, rec, "user@example.com", "CUSTOMER")

	require.NoError(t, h.Place(c))
	require.Equal(t, http.StatusCreated, rec.Code)
	require.Contains(t, rec.Body.String(), `"order_id":77`)
}

func TestPlace_NoStockMapsTo400(t *testing.T) {
	e := echo.New()
	h := newController(&mockSvc{
		placeFn: func(email string, lines []ordersvc.Line) (*model.Order, error) {
			return nil, svcErr{code: ordersvc.ErrNoStock, msg: "not enough stock for book: Dune"}
		},
	})

	body := `{"items":[{"book_id":1,"quantity":9}]}`
	req := httptest.NewRequest(http.MethodPost, "/orders", strings.NewReader(body))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	c := authedContext(e, req, rec, "user@example.com", "CUSTOMER")

	err := h.Place(c)
	he, ok := err.(*echo.HTTPError)
	require.True(t, ok)
	require.Equal(t, http.StatusBadRequest, he.Code)
	require.Contains(t, he.Message, "Dune")
}

func TestCancel_ForbiddenMapping(t *testing.T) {
	e := echo.New()
	h := newController(&mockSvc{
		cancelFn: func(orderID int64, email string) (*model.Order, error) {
			return nil, svcErr{code: ordersvc.ErrNotCancellable, msg: "cannot cancel shipped or delivered order"}
		},
	})

	req := httptest.NewRequest(http.MethodPut, "/orders/9/cancel", nil)
	rec := httptest.NewRecorder()
	c := authedContext(e, req, rec, "user@example.com", "CUSTOMER")
	c.SetParamNames("id")
	c.SetParamValues("9")

	err := h.Cancel(c)
	he, ok := err.(*echo.HTTPError)
	require.True(t, ok)
	require.Equal(t, http.StatusForbidden, he.Code)
}

func TestUpdateStatus_BadValueMapsTo400(t *testing.T) {
	e := echo.New()
	h := newController(&mockSvc{
		updateStatusFn: func(orderID int64, raw string) (*model.Order, error) {
			return nil, svcErr{code: ordersvc.ErrBadStatus, msg: "unknown order status: " + raw}
		},
	})

	req := httptest.NewRequest(http.MethodPut, "/orders/9/status?status=TELEPORTED", nil)
	rec := httptest.NewRecorder()
	c := authedContext(e, req, rec, "admin@example.com", "ADMIN")
	c.SetParamNames("id")
	c.SetParamValues("9")

	err := h.UpdateStatus(c)
	he, ok := err.(*echo.HTTPError)
	require.True(t, ok)
	require.Equal(t, http.StatusBadRequest, he.Code)
}

func TestInvoice_DownloadHeaders(t *testing.T) {
	e := echo.New()
	h := newController(&mockSvc{
		invoiceFn: func(orderID int64, email string, admin bool) (*model.Order, error) {
			return &model.Order{
				ID:        orderID,
				UserEmail: email,
				OrderDate: timeFixed(),
				Items:     []model.OrderItem{{BookID: 1, Quantity: 1, Price: 10}},
			}, nil
		},
	})

	req := httptest.NewRequest(http.MethodGet, "/orders/77/invoice", nil)
	rec := httptest.NewRecorder()
	c := authedContext(e, req, rec, "user@example.com", "CUSTOMER")
	c.SetParamNames("id")
	c.SetParamValues("77")

	require.NoError(t, h.Invoice(c))
	require.Equal(t, http.StatusOK, rec.Code)
	require.Equal(t, "application/pdf", rec.Header().Get(echo.HeaderContentType))
	require.Equal(t, "attachment; filename=invoice_77.pdf", rec.Header().Get(echo.HeaderContentDisposition))
	require.True(t, strings.HasPrefix(rec.Body.String(), "%PDF-"))
}

func TestMy_EmptyListIsJSONArray(t *testing.T) {
	e := echo.New()
	h := newController(&mockSvc{
		myOrdersFn: func(email string) ([]model.Order, error) { return nil, nil },
	})

	req := httptest.NewRequest(http.MethodGet, "/orders/my", nil)
	rec := httptest.NewRecorder()
	c := authedContext(e, req, rec, "user@example.com", "CUSTOMER")

	require.NoError(t, h.My(c))
	require.Equal(t, http.StatusOK, rec.Code)
	require.Equal(t, "[]\n", rec.Body.String())
}
