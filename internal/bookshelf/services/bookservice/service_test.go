package bookservice

import (
	"context"
	"errors"
	"math"
	"sort"
	"testing"
	"time"

	"github.com/Leopold1975/bookshelf/internal/bookshelf/domain/models"
	repo "github.com/Leopold1975/bookshelf/internal/bookshelf/repository/bookrepo"
	"github.com/Leopold1975/bookshelf/pkg/logger"
	"github.com/stretchr/testify/require"
)

type memRepo struct {
	books  map[int]models.Book
	owners map[int]bool
	nextID int
}

func newRepo(owners ...int) *memRepo {
	m := &memRepo{books: map[int]models.Book{}, owners: map[int]bool{}}
	for _, o := range owners {
		m.owners[o] = true
	}

	return m
}

func (m *memRepo) CreateBook(_ context.Context, b models.Book) (models.Book, error) {
	if !m.owners[b.UserID] {
		return models.Book{}, repo.ErrUnknownOwner
	}

	m.nextID++
	b.ID = m.nextID
	m.books[b.ID] = b

	return b, nil
}

func (m *memRepo) UpdateBook(_ context.Context, b models.Book) (models.Book, error) {
	old, ok := m.books[b.ID]
	if !ok {
		return models.Book{}, repo.ErrNotFound
	}

	b.UserID = old.UserID
	m.books[b.ID] = b

	return b, nil
}

func (m *memRepo) DeleteBook(_ context.Context, id int) error {
	if _, ok := m.books[id]; !ok {
		return repo.ErrNotFound
	}

	delete(m.books, id)

	return nil
}

func (m *memRepo) GetBook(_ context.Context, id int) (models.Book, error) {
	b, ok := m.books[id]
	if !ok {
		return models.Book{}, repo.ErrNotFound
	}

	return b, nil
}

func (m *memRepo) ListBooks(_ context.Context) ([]models.Book, error) {
	books := make([]models.Book, 0, len(m.books))
	for _, b := range m.books {
		books = append(books, b)
	}

	sort.Slice(books, func(i, j int) bool { return books[i].ID < books[j].ID })

	return books, nil
}

func TestParseDate(t *testing.T) {
	tests := []struct {
		in      string
		want    time.Time
		wantErr bool
	}{
		{in: "2020-01-01", want: time.Date(2020, 1, 1, 0, 0, 0, 0, time.UTC)},
		{in: "2020-01-01T10:30:00Z", want: time.Date(2020, 1, 1, 10, 30, 0, 0, time.UTC)},
		{in: "2020-01-01T12:00:00+02:00", want: time.Date(2020, 1, 1, 10, 0, 0, 0, time.UTC)},
		{in: "2020-01-01T10:30:00.5Z", want: time.Date(2020, 1, 1, 10, 30, 0, 500000000, time.UTC)},
		{in: "", wantErr: true},
		{in: "01/02/2020", wantErr: true},
		{in: "2020-13-01", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseDate(tt.in)
			if tt.wantErr {
				require.ErrorIs(t, err, ErrInvalidDate)

				return
			}

			require.NoError(t, err)
			require.True(t, tt.want.Equal(got), "want %v got %v", tt.want, got)
		})
	}
}

func TestCreateAndGet(t *testing.T) {
	bs := New(newRepo(5), logger.Nop())
	ctx := context.Background()

	created, err := bs.CreateBook(ctx, BookRequest{
		Title:           "T",
		Author:          "A",
		PublicationDate: "2020-01-01",
		Genres:          []string{"SciFi"},
	}, 5)
	require.NoError(t, err)
	require.Equal(t, 5, created.UserID)

	got, err := bs.GetBook(ctx, created.ID)
	require.NoError(t, err)
	require.Equal(t, "T", got.Title)
	require.Equal(t, "A", got.Author)
	require.Equal(t, []string{"SciFi"}, got.Genres)
	require.Equal(t, 5, got.UserID)
}

func TestCreateErrors(t *testing.T) {
	bs := New(newRepo(5), logger.Nop())
	ctx := context.Background()

	_, err := bs.CreateBook(ctx, BookRequest{PublicationDate: "yesterday"}, 5)
	require.ErrorIs(t, err, ErrInvalidDate)

	_, err = bs.CreateBook(ctx, BookRequest{PublicationDate: "2020-01-01"}, 6)
	require.ErrorIs(t, err, ErrUnknownOwner)
}

func TestUpdateIsFullReplace(t *testing.T) {
	r := newRepo(1)
	bs := New(r, logger.Nop())
	ctx := context.Background()

	created, err := bs.CreateBook(ctx, BookRequest{
		Title:           "T",
		Author:          "A",
		PublicationDate: "2020-01-01",
		Genres:          []string{"SciFi", "Drama"},
	}, 1)
	require.NoError(t, err)

	updated, err := bs.UpdateBook(ctx, created.ID, BookRequest{Title: "T2", PublicationDate: "2021-02-03"})
	require.NoError(t, err)
	require.Equal(t, "T2", updated.Title)
	require.Empty(t, updated.Author)
	require.NotNil(t, updated.Genres)
	require.Empty(t, updated.Genres)
	require.Equal(t, 1, updated.UserID)
	require.Equal(t, 2021, updated.PublicationDate.Year())

	_, err = bs.UpdateBook(ctx, 404, BookRequest{PublicationDate: "2021-02-03"})
	require.ErrorIs(t, err, ErrNotFound)

	_, err = bs.UpdateBook(ctx, created.ID, BookRequest{PublicationDate: "bad"})
	require.ErrorIs(t, err, ErrInvalidDate)
}

func TestDeleteAndList(t *testing.T) {
	bs := New(newRepo(1), logger.Nop())
	ctx := context.Background()

	books, err := bs.ListBooks(ctx)
	require.NoError(t, err)
	require.Empty(t, books)

	for _, title := range []string{"one", "two"} {
		_, err := bs.CreateBook(ctx, BookRequest{Title: title, PublicationDate: "2020-01-01"}, 1)
		require.NoError(t, err)
	}

	require.NoError(t, bs.DeleteBook(ctx, 1))
	require.ErrorIs(t, bs.DeleteBook(ctx, 1), ErrNotFound)

	_, err = bs.GetBook(ctx, 1)
	require.ErrorIs(t, err, ErrNotFound)

	books, err = bs.ListBooks(ctx)
	require.NoError(t, err)
	require.Len(t, books, 1)
	require.Equal(t, "two", books[0].Title)
}

type brokenRepo struct{ *memRepo }

var errEncode = errors.New("cannot encode id into int4")

func (brokenRepo) UpdateBook(context.Context, models.Book) (models.Book, error) {
	return models.Book{}, errEncode
}

func (brokenRepo) DeleteBook(context.Context, int) error { return errEncode }

func (brokenRepo) GetBook(context.Context, int) (models.Book, error) {
	return models.Book{}, errEncode
}

func TestOutOfRangeIDsAreNotFound(t *testing.T) {
	bs := New(brokenRepo{newRepo()}, logger.Nop())
	ctx := context.Background()

	for _, id := range []int{0, -1, math.MaxInt32 + 1} {
		_, err := bs.GetBook(ctx, id)
		require.ErrorIs(t, err, ErrNotFound, "id %d", id)

		_, err = bs.UpdateBook(ctx, id, BookRequest{PublicationDate: "2020-01-01"})
		require.ErrorIs(t, err, ErrNotFound, "id %d", id)

		require.ErrorIs(t, bs.DeleteBook(ctx, id), ErrNotFound, "id %d", id)
	}

	_, err := bs.GetBook(ctx, 1)
	require.ErrorIs(t, err, errEncode)
}
