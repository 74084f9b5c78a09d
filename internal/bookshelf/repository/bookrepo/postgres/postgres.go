package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/Leopold1975/bookshelf/internal/bookshelf/domain/models"
	repo "github.com/Leopold1975/bookshelf/internal/bookshelf/repository/bookrepo"
	"github.com/Leopold1975/bookshelf/internal/pkg/pgtools"
	"github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

const returningBook = "RETURNING id, title, author, publication_date, genres, user_id"

var bookColumns = []string{"id", "title", "author", "publication_date", "genres", "user_id"}

type BooksPostgresRepo struct {
	db   *pgxpool.Pool
	psql squirrel.StatementBuilderType
}

func New(db *pgxpool.Pool) BooksPostgresRepo {
	return BooksPostgresRepo{
		db:   db,
		psql: squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar),
	}
}

func (br BooksPostgresRepo) CreateBook(ctx context.Context, //nolint:nonamedreturns
	book models.Book,
) (created models.Book, err error) {
	tx, err := br.db.Begin(ctx)
	if err != nil {
		return models.Book{}, fmt.Errorf("cannot begin transaction error: %w", err)
	}

	defer func() {
		err = pgtools.CommitOrRollback(ctx, tx, err, "create")
	}()

	query, args, err := br.psql.Insert("books").
		Columns("title", "author", "publication_date", "genres", "user_id").
		Values(book.Title, book.Author, book.PublicationDate, genresOrEmpty(book.Genres), book.UserID).
		Suffix(returningBook).ToSql()
	if err != nil {
		return models.Book{}, fmt.Errorf("to sql error: %w", err)
	}

	if err = scanBook(tx.QueryRow(ctx, query, args...), &created); err != nil {
		if pgtools.IsForeignKeyViolation(err) {
			return models.Book{}, repo.ErrUnknownOwner
		}

		return models.Book{}, fmt.Errorf("scan error: %w", err)
	}

	return created, nil
}

// UpdateBook overwrites every mutable column; the owner is never changed.
func (br BooksPostgresRepo) UpdateBook(ctx context.Context, //nolint:nonamedreturns
	book models.Book,
) (updated models.Book, err error) {
	tx, err := br.db.Begin(ctx)
	if err != nil {
		return models.Book{}, fmt.Errorf("cannot begin transaction error: %w", err)
	}

	defer func() {
		err = pgtools.CommitOrRollback(ctx, tx, err, "update")
	}()

	query, args, err := br.psql.Update("books").
		Set("title", book.Title).
		Set("author", book.Author).
		Set("publication_date", book.PublicationDate).
		Set("genres", genresOrEmpty(book.Genres)).
		Where(squirrel.Eq{"id": book.ID}).
		Suffix(returningBook).ToSql()
	if err != nil {
		return models.Book{}, fmt.Errorf("to sql error: %w", err)
	}

	if err = scanBook(tx.QueryRow(ctx, query, args...), &updated); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return models.Book{}, repo.ErrNotFound
		}

		return models.Book{}, fmt.Errorf("scan error: %w", err)
	}

	return updated, nil
}

func (br BooksPostgresRepo) DeleteBook(ctx context.Context, bookID int) (err error) { //nolint:nonamedreturns
	tx, err := br.db.Begin(ctx)
	if err != nil {
		return fmt.Errorf("cannot begin transaction error: %w", err)
	}

	defer func() {
		err = pgtools.CommitOrRollback(ctx, tx, err, "delete")
	}()

	query, args, err := br.psql.Delete("books").
		Where(squirrel.Eq{"id": bookID}).ToSql()
	if err != nil {
		return fmt.Errorf("to sql error: %w", err)
	}

	ct, err := tx.Exec(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("exec error: %w", err)
	}

	if ct.RowsAffected() == 0 {
		return repo.ErrNotFound
	}

	return nil
}

func (br BooksPostgresRepo) GetBook(ctx context.Context, bookID int) (b models.Book, err error) { //nolint:nonamedreturns
	tx, err := br.db.Begin(ctx)
	if err != nil {
		return models.Book{}, fmt.Errorf("cannot begin transaction error: %w", err)
	}

	defer func() {
		err = pgtools.CommitOrRollback(ctx, tx, err, "get")
	}()

	query, args, err := br.psql.Select(bookColumns...).
		From("books").
		Where(squirrel.Eq{"id": bookID}).ToSql()
	if err != nil {
		return models.Book{}, fmt.Errorf("to sql error: %w", err)
	}

	if err = scanBook(tx.QueryRow(ctx, query, args...), &b); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return models.Book{}, repo.ErrNotFound
		}

		return models.Book{}, fmt.Errorf("scan error: %w", err)
	}

	return b, nil
}

func (br BooksPostgresRepo) ListBooks(ctx context.Context) (books []models.Book, err error) { //nolint:nonamedreturns
	tx, err := br.db.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("cannot begin transaction error: %w", err)
	}

	defer func() {
		err = pgtools.CommitOrRollback(ctx, tx, err, "list")
	}()

	query, args, err := br.psql.Select(bookColumns...).
		From("books").
		OrderBy("id ASC").ToSql()
	if err != nil {
		return nil, fmt.Errorf("to sql error: %w", err)
	}

	rows, err := tx.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query error: %w", err)
	}
	defer rows.Close()

	books = make([]models.Book, 0, 10) //nolint:gomnd

	for rows.Next() {
		var b models.Book

		if err = scanBook(rows, &b); err != nil {
			return nil, fmt.Errorf("scan error %w", err)
		}

		books = append(books, b)
	}

	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("rows error: %w", err)
	}

	return books, nil
}

func scanBook(row pgx.Row, b *models.Book) error {
	if err := row.Scan(&b.ID, &b.Title, &b.Author, &b.PublicationDate, &b.Genres, &b.UserID); err != nil {
		return err //nolint:wrapcheck
	}

	b.Genres = genresOrEmpty(b.Genres)

	return nil
}

func genresOrEmpty(genres []string) []string {
	if genres == nil {
		return []string{}
	}

	return genres
}
