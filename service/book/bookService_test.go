// service/book/book_service_test.go
package booksvc_test

import (
	"context"
	"database/sql"
	"testing"

	"bookstore/model"
	booksvc "bookstore/service/book"
)

type repoMock struct {
	createFn       func(ctx context.Context, b *model.Book) error
	byIDFn         func(ctx context.Context, id int64) (*model.Book, error)
	updateFn       func(ctx context.Context, b *model.Book) error
	deleteFn       func(ctx context.Context, id int64) error
	listPagedFn    func(ctx context.Context, offset, limit int, sortBy, direction string) ([]model.Book, error)
	countFn        func(ctx context.Context) (int64, error)
	searchTitleFn  func(ctx context.Context, title string) ([]model.Book, error)
	searchAuthorFn func(ctx context.Context, author string) ([]model.Book, error)
	searchGenreFn  func(ctx context.Context, genre string) ([]model.Book, error)
}

func (m *repoMock) Create(ctx context.Context, b *model.Book) error { return m.createFn(ctx, b) }
func (m *repoMock) ByID(ctx context.Context, id int64) (*model.Book, error) {
	return m.byIDFn(ctx, id)
}
func (m *repoMock) Update(ctx context.Context, b *model.Book) error { return m.updateFn(ctx, b) }
func (m *repoMock) Delete(ctx context.Context, id int64) error      { return m.deleteFn(ctx, id) }
func (m *repoMock) ListPaged(ctx context.Context, offset, limit int, sortBy, direction string) ([]model.Book, error) {
	return m.listPagedFn(ctx, offset, limit, sortBy, direction)
}
func (m *repoMock) Count(ctx context.Context) (int64, error) { return m.countFn(ctx) }
func (m *repoMock) SearchTitle(ctx context.Context, title string) ([]model.Book, error) {
	return m.searchTitleFn(ctx, title)
}
func (m *repoMock) SearchAuthor(ctx context.Context, author string) ([]model.Book, error) {
	return m.searchAuthorFn(ctx, author)
}
func (m *repoMock) SearchGenre(ctx context.Context, genre string) ([]model.Book, error) {
	return m.searchGenreFn(ctx, genre)
}

func TestCreate_Validation(t *testing.T) {
	s := booksvc.New(&repoMock{})
	cases := []model.Book{
		{Title: "", Author: "a", Genre: "g", Price: 10},
		{Title: "t", Author: "", Genre: "g", Price: 10},
		{Title: "t", Author: "a", Genre: "", Price: 10},
		{Title: "t", Author: "a", Genre: "g", Price: -1},
		{Title: "t", Author: "a", Genre: "g", Price: 10, Stock: -1},
	}
	for i := range cases {
		if err := s.Create(context.Background(), &cases[i]); booksvc.Code(err) != booksvc.ErrBadInput {
			t.Fatalf("case %d: expected bad input, got %v", i, err)
		}
	}
}

func TestCreate_Success(t *testing.T) {
	m := &repoMock{
		createFn: func(ctx context.Context, b *model.Book) error {
			b.ID = 42
			return nil
		},
	}
	s := booksvc.New(m)
	b := &model.Book{Title: "Clean Code", Author: "Martin", Genre: "Prog", Price: 18, Stock: 5}
	if err := s.Create(context.Background(), b); err != nil || b.ID != 42 {
		t.Fatalf("got id=%v err=%v; want 42 nil", b.ID, err)
	}
}

func TestDetail_NotFound(t *testing.T) {
	m := &repoMock{
		byIDFn: func(ctx context.Context, id int64) (*model.Book, error) {
			return nil, sql.ErrNoRows
		},
	}
	s := booksvc.New(m)
	_, err := s.Detail(context.Background(), 99)
	if booksvc.Code(err) != booksvc.ErrNotFound {
		t.Fatalf("expected not found, got %v", err)
	}
}

func TestList_BadSortField(t *testing.T) {
	s := booksvc.New(&repoMock{})
	_, err := s.List(context.Background(), 0, 5, "password_hash", "asc")
	if booksvc.Code(err) != booksvc.ErrBadSort {
		t.Fatalf("expected bad sort, got %v", err)
	}
}

func TestList_DefaultsAndPaging(t *testing.T) {
	var gotOffset, gotLimit int
	var gotSort, gotDir string
	m := &repoMock{
		countFn: func(ctx context.Context) (int64, error) { return 12, nil },
		listPagedFn: func(ctx context.Context, offset, limit int, sortBy, direction string) ([]model.Book, error) {
			gotOffset, gotLimit, gotSort, gotDir = offset, limit, sortBy, direction
			return []model.Book{{ID: 1}}, nil
		},
	}
	s := booksvc.New(m)

	p, err := s.List(context.Background(), 2, 5, "Title", "DESC")
	if err != nil {
		t.Fatalf("List error: %v", err)
	}
	if gotOffset != 10 || gotLimit != 5 || gotSort != "title" || gotDir != "DESC" {
		t.Fatalf("repo got offset=%d limit=%d sort=%s dir=%s", gotOffset, gotLimit, gotSort, gotDir)
	}
	if p.TotalElements != 12 || p.TotalPages != 3 || p.Page != 2 || p.Size != 5 {
		t.Fatalf("page envelope: %+v", p)
	}

	// Negative page and zero size fall back to defaults.
	if _, err := s.List(context.Background(), -1, 0, "id", "asc"); err != nil {
		t.Fatalf("List with defaults: %v", err)
	}
	if gotOffset != 0 || gotLimit != booksvc.DefaultSize {
		t.Fatalf("defaults not applied: offset=%d limit=%d", gotOffset, gotLimit)
	}
}

func TestUpdate_NotFound(t *testing.T) {
	m := &repoMock{
		updateFn: func(ctx context.Context, b *model.Book) error { return sql.ErrNoRows },
	}
	s := booksvc.New(m)
	_, err := s.Update(context.Background(), &model.Book{ID: 1, Title: "t", Author: "a", Genre: "g", Price: 1})
	if booksvc.Code(err) != booksvc.ErrNotFound {
		t.Fatalf("expected not found, got %v", err)
	}
}

func TestSearch_PassThroughs(t *testing.T) {
	m := &repoMock{
		searchTitleFn:  func(ctx context.Context, title string) ([]model.Book, error) { return nil, nil },
		searchAuthorFn: func(ctx context.Context, author string) ([]model.Book, error) { return nil, nil },
		searchGenreFn:  func(ctx context.Context, genre string) ([]model.Book, error) { return nil, nil },
	}
	s := booksvc.New(m)

	if _, err := s.SearchTitle(context.Background(), "go"); err != nil {
		t.Fatalf("SearchTitle error: %v", err)
	}
	if _, err := s.SearchAuthor(context.Background(), "martin"); err != nil {
		t.Fatalf("SearchAuthor error: %v", err)
	}
	if _, err := s.SearchGenre(context.Background(), "fiction"); err != nil {
		t.Fatalf("SearchGenre error: %v", err)
	}
}
