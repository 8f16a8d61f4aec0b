package book

import (
	"log/slog"
	"net/http"
	"strconv"

	"bookstore/model"
	booksvc "bookstore/service/book"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
)

type Controller struct {
	Svc booksvc.Service
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
	switch booksvc.Code(err) {
	case booksvc.ErrNotFound:
		return echo.NewHTTPError(http.StatusNotFound, err.Error())
	case booksvc.ErrBadInput, booksvc.ErrBadSort:
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	default:
		h.Log.Error(op, "err", err)
		return echo.NewHTTPError(http.StatusInternalServerError, "internal error")
	}
}

// POST /books  (admin)
// @Summary  Create book
// @Tags     books
// @Accept   json
// @Produce  json
// @Param    payload  body  BookReq  true  "Book payload"
// @Success  201  {object}  model.Book
// @Router   /books [post]
func (h *Controller) Create(c echo.Context) error {
	var req BookReq
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid body")
	}
	if err := h.V.Struct(req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "validation error")
	}
	b := &model.Book{Title: req.Title, Author: req.Author, Genre: req.Genre, Price: req.Price, Stock: req.Stock}
	if err := h.Svc.Create(c.Request().Context(), b); err != nil {
		return h.fail("book create", err)
	}
	return c.JSON(http.StatusCreated, b)
}

// GET /books
// @Summary  List books, paginated and sorted
// @Tags     books
// @Produce  json
// @Param    page       query  int     false  "page (0-based)"
// @Param    size       query  int     false  "page size"
// @Param    sortBy     query  string  false  "sort field"
// @Param    direction  query  string  false  "asc or desc"
// @Success  200  {object}  booksvc.Page
// @Router   /books [get]
func (h *Controller) List(c echo.Context) error {
	page, _ := strconv.Atoi(c.QueryParam("page"))
	size, err := strconv.Atoi(c.QueryParam("size"))
	if err != nil {
		size = booksvc.DefaultSize
	}
	sortBy := c.QueryParam("sortBy")
	if sortBy == "" {
		sortBy = "id"
	}
	direction := c.QueryParam("direction")
	if direction == "" {
		direction = "asc"
	}

	p, err := h.Svc.List(c.Request().Context(), page, size, sortBy, direction)
	if err != nil {
		return h.fail("book list", err)
	}
	return c.JSON(http.StatusOK, p)
}

// GET /books/:id
func (h *Controller) Detail(c echo.Context) error {
	id, err := parseID(c)
	if err != nil {
		return err
	}
	b, err := h.Svc.Detail(c.Request().Context(), id)
	if err != nil {
		return h.fail("book detail", err)
	}
	return c.JSON(http.StatusOK, b)
}

// PUT /books/:id  (admin)
func (h *Controller) Update(c echo.Context) error {
	id, err := parseID(c)
	if err != nil {
		return err
	}
	var req BookReq
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid body")
	}
	if err := h.V.Struct(req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "validation error")
	}
	b := &model.Book{ID: id, Title: req.Title, Author: req.Author, Genre: req.Genre, Price: req.Price, Stock: req.Stock}
	out, err := h.Svc.Update(c.Request().Context(), b)
	if err != nil {
		return h.fail("book update", err)
	}
	return c.JSON(http.StatusOK, out)
}

// DELETE /books/:id  (admin)
func (h *Controller) Delete(c echo.Context) error {
	id, err := parseID(c)
	if err != nil {
		return err
	}
	if err := h.Svc.Delete(c.Request().Context(), id); err != nil {
		return h.fail("book delete", err)
	}
	return c.JSON(http.StatusOK, echo.Map{"message": "book deleted successfully"})
}

// GET /books/search/title
func (h *Controller) SearchTitle(c echo.Context) error {
	rows, err := h.Svc.SearchTitle(c.Request().Context(), c.QueryParam("title"))
	if err != nil {
		return h.fail("book search title", err)
	}
	return c.JSON(http.StatusOK, nonNil(rows))
}

// GET /books/search/author
func (h *Controller) SearchAuthor(c echo.Context) error {
	rows, err := h.Svc.SearchAuthor(c.Request().Context(), c.QueryParam("author"))
	if err != nil {
		return h.fail("book search author", err)
	}
	return c.JSON(http.StatusOK, nonNil(rows))
}

// GET /books/search/genre
func (h *Controller) SearchGenre(c echo.Context) error {
	rows, err := h.Svc.SearchGenre(c.Request().Context(), c.QueryParam("genre"))
	if err != nil {
		return h.fail("book search genre", err)
	}
	return c.JSON(http.StatusOK, nonNil(rows))
}

// nonNil keeps empty search results serializing as [] instead of null.
func nonNil(rows []model.Book) []model.Book {
	if rows == nil {
		return []model.Book{}
	}
	return rows
}
