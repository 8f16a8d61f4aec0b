package booksvc

import (
	"context"
	"database/sql"
	"errors"
	"strings"

	"bookstore/model"
	bookrepo "bookstore/repository/book"
)

type ErrCode string

const (
	ErrNotFound ErrCode = "BOOK_NOT_FOUND"
	ErrBadInput ErrCode = "BAD_INPUT"
	ErrBadSort  ErrCode = "BAD_SORT"
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

func Code(err error) ErrCode {
	var ce interface{ Code() ErrCode }
	if errors.As(err, &ce) {
		return ce.Code()
	}
	return ""
}

const (
	DefaultPage = 0
	DefaultSize = 5
)

// sortColumns whitelists ORDER BY identifiers; everything else is a 400.
var sortColumns = map[string]string{
	"id":     "id",
	"title":  "title",
	"author": "author",
	"genre":  "genre",
	"price":  "price",
	"stock":  "stock",
}

type Page struct {
	Content       []model.Book `json:"content"`
	Page          int          `json:"page"`
	Size          int          `json:"size"`
	TotalElements int64        `json:"total_elements"`
	TotalPages    int          `json:"total_pages"`
}

type Service interface {
	Create(ctx context.Context, b *model.Book) error
	Detail(ctx context.Context, id int64) (*model.Book, error)
	Update(ctx context.Context, b *model.Book) (*model.Book, error)
	Delete(ctx context.Context, id int64) error
	List(ctx context.Context, page, size int, sortBy, direction string) (*Page, error)
	SearchTitle(ctx context.Context, title string) ([]model.Book, error)
	SearchAuthor(ctx context.Context, author string) ([]model.Book, error)
	SearchGenre(ctx context.Context, genre string) ([]model.Book, error)
}

type service struct{ r bookrepo.Repo }

func New(r bookrepo.Repo) Service { return &service{r: r} }

func validate(b *model.Book) error {
	if b.Title == "" || b.Author == "" || b.Genre == "" {
		return wrap(ErrBadInput, "title, author and genre are required")
	}
	if b.Price < 0 {
		return wrap(ErrBadInput, "price must not be negative")
	}
	if b.Stock < 0 {
		return wrap(ErrBadInput, "stock must not be negative")
	}
	return nil
}

func (s *service) Create(ctx context.Context, b *model.Book) error {
	if err := validate(b); err != nil {
		return err
	}
	return s.r.Create(ctx, b)
}

func (s *service) Detail(ctx context.Context, id int64) (*model.Book, error) {
	b, err := s.r.ByID(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, wrap(ErrNotFound, "book not found")
		}
		return nil, err
	}
	return b, nil
}

func (s *service) Update(ctx context.Context, b *model.Book) (*model.Book, error) {
	if err := validate(b); err != nil {
		return nil, err
	}
	if err := s.r.Update(ctx, b); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, wrap(ErrNotFound, "book not found")
		}
		return nil, err
	}
	return b, nil
}

func (s *service) Delete(ctx context.Context, id int64) error {
	if err := s.r.Delete(ctx, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return wrap(ErrNotFound, "book not found")
		}
		return err
	}
	return nil
}

func (s *service) List(ctx context.Context, page, size int, sortBy, direction string) (*Page, error) {
	if page < 0 {
		page = DefaultPage
	}
	if size <= 0 {
		size = DefaultSize
	}

	col, ok := sortColumns[strings.ToLower(sortBy)]
	if !ok {
		return nil, wrap(ErrBadSort, "unknown sort field: "+sortBy)
	}
	dir := "ASC"
	if strings.EqualFold(direction, "desc") {
		dir = "DESC"
	}

	total, err := s.r.Count(ctx)
	if err != nil {
		return nil, err
	}
	rows, err := s.r.ListPaged(ctx, page*size, size, col, dir)
	if err != nil {
		return nil, err
	}

	pages := int(total) / size
	if int(total)%size != 0 {
		pages++
	}
	return &Page{
		Content:       rows,
		Page:          page,
		Size:          size,
		TotalElements: total,
		TotalPages:    pages,
	}, nil
}

func (s *service) SearchTitle(ctx context.Context, title string) ([]model.Book, error) {
	return s.r.SearchTitle(ctx, title)
}

func (s *service) SearchAuthor(ctx context.Context, author string) ([]model.Book, error) {
	return s.r.SearchAuthor(ctx, author)
}

func (s *service) SearchGenre(ctx context.Context, genre string) ([]model.Book, error) {
	return s.r.SearchGenre(ctx, genre)
}
