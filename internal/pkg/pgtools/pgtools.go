package pgtools

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/Leopold1975/bookshelf/internal/pkg/config"
	"github.com/Leopold1975/bookshelf/migrations"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	_ "github.com/jackc/pgx/v5/stdlib" // driver for migrations
	"github.com/pressly/goose/v3"
)

const (
	migrationsDir = "."

	codeUniqueViolation     = "23505"
	codeForeignKeyViolation = "23503"
)

func ConnString(cfg config.PostgresDB) string {
	connString := dsn(cfg)

	if cfg.MaxConns != "" {
		connString += "&pool_max_conns=" + cfg.MaxConns
	}

	return connString
}

func Connect(ctx context.Context, connString string) (*pgxpool.Pool, error) {
	errCh := make(chan error, 1)
	db := new(pgxpool.Pool)

	go func() {
		defer close(errCh)

		dbc, err := pgxpool.New(ctx, connString)
		if err != nil {
			errCh <- fmt.Errorf("cannot create db pool error: %w", err)

			return
		}

		defaultDelay := time.Second

		for {
			if err := dbc.Ping(ctx); err != nil {
				if ctx.Err() != nil {
					dbc.Close()
					errCh <- fmt.Errorf("context error: %w", ctx.Err())

					return
				}

				time.Sleep(defaultDelay)
				defaultDelay += time.Second

				if defaultDelay > time.Second*10 {
					dbc.Close()
					errCh <- fmt.Errorf("cannot ping db error: %w", err)

					return
				}

				continue
			}

			break
		}

		db = dbc
	}()
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("context error: %w", ctx.Err())
	case err := <-errCh:
		if err != nil {
			return nil, err
		}

		return db, nil
	}
}

// ApplyMigration migrates up to cfg.Version, or to the latest version when it
// is zero. With cfg.Reload set every migration is rolled back first.
func ApplyMigration(cfg config.PostgresDB) error {
	dbM, err := openMigrationDB(cfg)
	if err != nil {
		return err
	}
	defer dbM.Close()

	if cfg.Reload {
		if err := goose.DownTo(dbM, migrationsDir, 0); err != nil {
			return fmt.Errorf("goose down error: %w", err)
		}
	}

	if cfg.Version == 0 {
		if err := goose.Up(dbM, migrationsDir); err != nil {
			return fmt.Errorf("goose up error: %w", err)
		}

		return nil
	}

	if err := goose.UpTo(dbM, migrationsDir, int64(cfg.Version)); err != nil {
		return fmt.Errorf("goose up error: %w", err)
	}

	return nil
}

func RollbackMigration(cfg config.PostgresDB) error {
	dbM, err := openMigrationDB(cfg)
	if err != nil {
		return err
	}
	defer dbM.Close()

	if err := goose.Down(dbM, migrationsDir); err != nil {
		return fmt.Errorf("goose down error: %w", err)
	}

	return nil
}

func MigrationVersion(cfg config.PostgresDB) (int64, error) {
	dbM, err := openMigrationDB(cfg)
	if err != nil {
		return 0, err
	}
	defer dbM.Close()

	v, err := goose.GetDBVersion(dbM)
	if err != nil {
		return 0, fmt.Errorf("goose version error: %w", err)
	}

	return v, nil
}

func CommitOrRollback(ctx context.Context, tx pgx.Tx, err error, where string) error {
	if err == nil {
		if errT := tx.Commit(ctx); errT != nil {
			err = fmt.Errorf("commit error: %w", errT)
		}
	} else {
		if errT := tx.Rollback(ctx); errT != nil {
			err = fmt.Errorf("%s error: %w rollback error: %w", where, err, errT)
		} else {
			err = fmt.Errorf("%s error: %w", where, err)
		}
	}

	return err
}

func IsUniqueViolation(err error) bool {
	return hasCode(err, codeUniqueViolation)
}

func IsForeignKeyViolation(err error) bool {
	return hasCode(err, codeForeignKeyViolation)
}

func hasCode(err error, code string) bool {
	target := new(pgconn.PgError)
	if errors.As(err, &target) {
		return target.Code == code
	}

	return false
}

func dsn(cfg config.PostgresDB) string {
	return "postgres://" + cfg.Username + ":" + cfg.Password + "@" +
		cfg.Addr + "/" + cfg.DB + "?sslmode=" + cfg.SSLmode
}

func openMigrationDB(cfg config.PostgresDB) (*sql.DB, error) {
	goose.SetBaseFS(migrations.FS)

	if err := goose.SetDialect("postgres"); err != nil {
		return nil, fmt.Errorf("goose set dialect error: %w", err)
	}

	dbM, err := goose.OpenDBWithDriver("pgx", dsn(cfg))
	if err != nil {
		return nil, fmt.Errorf("goose open pgx db error: %w", err)
	}

	return dbM, nil
}
