package bookservice

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/Leopold1975/bookshelf/internal/bookshelf/domain/models"
	repo "github.com/Leopold1975/bookshelf/internal/bookshelf/repository/bookrepo"
	"github.com/Leopold1975/bookshelf/pkg/logger"
)

var (
	ErrNotFound     = errors.New("book not found")
	ErrInvalidDate  = errors.New("invalid publication date")
	ErrUnknownOwner = errors.New("book owner does not exist")
)

// Accepted publicationDate layouts, tried in order.
var dateLayouts = []string{time.RFC3339Nano, time.DateOnly}

type BookService struct {
	bookRepo Repository
	lg       logger.Logger
}

type Repository interface {
	CreateBook(context.Context, models.Book) (models.Book, error)
	UpdateBook(context.Context, models.Book) (models.Book, error)
	DeleteBook(context.Context, int) error
	GetBook(context.Context, int) (models.Book, error)
	ListBooks(context.Context) ([]models.Book, error)
}

func New(bookRepo Repository, lg logger.Logger) *BookService {
	return &BookService{
		bookRepo: bookRepo,
		lg:       lg,
	}
}

func (bs *BookService) ListBooks(ctx context.Context) ([]models.Book, error) {
	books, err := bs.bookRepo.ListBooks(ctx)
	if err != nil {
		return nil, fmt.Errorf("list books error: %w", err)
	}

	return books, nil
}

func (bs *BookService) GetBook(ctx context.Context, id int) (models.Book, error) {
	if !models.ValidID(id) {
		return models.Book{}, ErrNotFound
	}

	b, err := bs.bookRepo.GetBook(ctx, id)
	if err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return models.Book{}, ErrNotFound
		}

		return models.Book{}, fmt.Errorf("get book error: %w", err)
	}

	return b, nil
}

// CreateBook stores a book owned by ownerID, the acting admin.
func (bs *BookService) CreateBook(ctx context.Context, req BookRequest, ownerID int) (models.Book, error) {
	b, err := fromRequest(req)
	if err != nil {
		return models.Book{}, err
	}

	b.UserID = ownerID

	b, err = bs.bookRepo.CreateBook(ctx, b)
	if err != nil {
		if errors.Is(err, repo.ErrUnknownOwner) {
			return models.Book{}, ErrUnknownOwner
		}

		return models.Book{}, fmt.Errorf("create book error: %w", err)
	}

	bs.lg.Debugf("book %d created by user %d", b.ID, ownerID)

	return b, nil
}

func (bs *BookService) UpdateBook(ctx context.Context, id int, req BookRequest) (models.Book, error) {
	if !models.ValidID(id) {
		return models.Book{}, ErrNotFound
	}

	b, err := fromRequest(req)
	if err != nil {
		return models.Book{}, err
	}

	b.ID = id

	b, err = bs.bookRepo.UpdateBook(ctx, b)
	if err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return models.Book{}, ErrNotFound
		}

		return models.Book{}, fmt.Errorf("update book error: %w", err)
	}

	return b, nil
}

func (bs *BookService) DeleteBook(ctx context.Context, id int) error {
	if !models.ValidID(id) {
		return ErrNotFound
	}

	if err := bs.bookRepo.DeleteBook(ctx, id); err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return ErrNotFound
		}

		return fmt.Errorf("delete book error: %w", err)
	}

	bs.lg.Debugf("book %d deleted", id)

	return nil
}

func ParseDate(s string) (time.Time, error) {
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t.UTC(), nil
		}
	}

	return time.Time{}, fmt.Errorf("%w: %q", ErrInvalidDate, s)
}

func fromRequest(req BookRequest) (models.Book, error) {
	date, err := ParseDate(req.PublicationDate)
	if err != nil {
		return models.Book{}, err
	}

	genres := req.Genres
	if genres == nil {
		genres = []string{}
	}

	return models.Book{ //nolint:exhaustruct
		Title:           req.Title,
		Author:          req.Author,
		PublicationDate: date,
		Genres:          genres,
	}, nil
}
