package order

import (
	"log/slog"
	"net/http"
	"strconv"

	"bookstore/app/echoServer/jwtx"
	"bookstore/model"
	invoicesvc "bookstore/service/invoice"
	ordersvc "bookstore/service/order"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
)

type Controller struct {
	Svc ordersvc.Service
	V   *validator.Validate
	Log *slog.Logger
}

func parseID(c echo.Context) (int64, error) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id <= 0 {
		return 0, echo.NewHTTPError(http.StatusBadRequest, "invalid id")
	}
	return id, nil
}

func (h *Controller) fail(op string, err error) error {
	switch ordersvc.Code(err) {
	case ordersvc.ErrBookNotFound, ordersvc.ErrNotFound:
		return echo.NewHTTPError(http.StatusNotFound, err.Error())
	case ordersvc.ErrEmptyOrder, ordersvc.ErrBadLine, ordersvc.ErrNoStock, ordersvc.ErrBadStatus:
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	case ordersvc.ErrNotOwner, ordersvc.ErrNotCancellable, ordersvc.ErrForbidden:
		return echo.NewHTTPError(http.StatusForbidden, err.Error())
	default:
		h.Log.Error(op, "err", err)
		return echo.NewHTTPError(http.StatusInternalServerError, "internal error")
	}
}

// POST /orders
// @Summary  Place an order
// @Tags     orders
// @Accept   json
// @Produce  json
// @Param    payload  body  PlaceOrderReq  true  "Order lines"
// @Success  201  {object}  map[string]any
// @Failure  400  {object}  echoServer.ErrorBody "empty order or insufficient stock"
// @Failure  404  {object}  echoServer.ErrorBody "unknown book"
// @Security BearerAuth
// @Router   /orders [post]
func (h *Controller) Place(c echo.Context) error {
	email, err := jwtx.EmailFromContext(c)
	if err != nil {
		return echo.NewHTTPError(http.StatusUnauthorized, "unauthenticated")
	}

	var req PlaceOrderReq
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid body")
	}
	if err := h.V.Struct(req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "validation error")
	}

	lines := make([]ordersvc.Line, 0, len(req.Items))
	for _, it := range req.Items {
		lines = append(lines, ordersvc.Line{BookID: it.BookID, Quantity: it.Quantity})
	}

	o, err := h.Svc.Place(c.Request().Context(), email, lines)
	if err != nil {
		return h.fail("order place", err)
	}
	return c.JSON(http.StatusCreated, echo.Map{
		"order_id": o.ID,
		"message":  "order placed successfully",
	})
}

// GET /orders/my
// @Summary  List the caller's orders
// @Tags     orders
// @Produce  json
// @Success  200  {array}  model.Order
// @Security BearerAuth
// @Router   /orders/my [get]
func (h *Controller) My(c echo.Context) error {
	email, err := jwtx.EmailFromContext(c)
	if err != nil {
		return echo.NewHTTPError(http.StatusUnauthorized, "unauthenticated")
	}
	rows, err := h.Svc.MyOrders(c.Request().Context(), email)
	if err != nil {
		return h.fail("order list", err)
	}
	if rows == nil {
		rows = []model.Order{}
	}
	return c.JSON(http.StatusOK, rows)
}

// PUT /orders/:id/status  (admin)
func (h *Controller) UpdateStatus(c echo.Context) error {
	id, err := parseID(c)
	if err != nil {
		return err
	}
	o, err := h.Svc.UpdateStatus(c.Request().Context(), id, c.QueryParam("status"))
	if err != nil {
		return h.fail("order status update", err)
	}
	return c.JSON(http.StatusOK, o)
}

// PUT /orders/:id/payment  (admin)
func (h *Controller) UpdatePayment(c echo.Context) error {
	id, err := parseID(c)
	if err != nil {
		return err
	}
	o, err := h.Svc.UpdatePayment(c.Request().Context(), id, c.QueryParam("paymentStatus"))
	if err != nil {
		return h.fail("order payment update", err)
	}
	return c.JSON(http.StatusOK, o)
}

// PUT /orders/:id/cancel  (owner only)
func (h *Controller) Cancel(c echo.Context) error {
	id, err := parseID(c)
	if err != nil {
		return err
	}
	email, err := jwtx.EmailFromContext(c)
	if err != nil {
		return echo.NewHTTPError(http.StatusUnauthorized, "unauthenticated")
	}
	o, err := h.Svc.Cancel(c.Request().Context(), id, email)
	if err != nil {
		return h.fail("order cancel", err)
	}
	return c.JSON(http.StatusOK, o)
}

// GET /orders/:id/invoice  (owner or admin)
func (h *Controller) Invoice(c echo.Context) error {
	id, err := parseID(c)
	if err != nil {
		return err
	}
	email, err := jwtx.EmailFromContext(c)
	if err != nil {
		return echo.NewHTTPError(http.StatusUnauthorized, "unauthenticated")
	}

	o, err := h.Svc.InvoiceOrder(c.Request().Context(), id, email, jwtx.IsAdmin(c))
	if err != nil {
		return h.fail("order invoice", err)
	}

	pdf, err := invoicesvc.Render(o)
	if err != nil {
		h.Log.Error("invoice render", "err", err, "order_id", id)
		return echo.NewHTTPError(http.StatusInternalServerError, "internal error")
	}

	c.Response().Header().Set(echo.HeaderContentDisposition,
		`attachment; filename=`+invoicesvc.Filename(id))
	return c.Blob(http.StatusOK, "application/pdf", pdf)
}
