//go:build integration

package tests

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net"
	"net/http"
	"testing"
	"time"

	"github.com/Leopold1975/bookshelf/internal/bookshelf/api/server"
	"github.com/Leopold1975/bookshelf/internal/bookshelf/app"
	"github.com/Leopold1975/bookshelf/internal/bookshelf/domain/models"
	"github.com/Leopold1975/bookshelf/internal/bookshelf/repository/bookrepo"
	br "github.com/Leopold1975/bookshelf/internal/bookshelf/repository/bookrepo/postgres"
	"github.com/Leopold1975/bookshelf/internal/bookshelf/repository/seedlock/redis"
	"github.com/Leopold1975/bookshelf/internal/bookshelf/repository/userrepo"
	ur "github.com/Leopold1975/bookshelf/internal/bookshelf/repository/userrepo/postgres"
	"github.com/Leopold1975/bookshelf/internal/pkg/config"
	"github.com/Leopold1975/bookshelf/internal/pkg/pgtools"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/suite"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"
	"golang.org/x/crypto/bcrypt"
)

const (
	adminUsername = "admin"
	adminPassword = "admin"
)

type BookshelfSuite struct {
	suite.Suite
	pg      *postgres.PostgresContainer
	rdb     testcontainers.Container
	cfg     config.Config
	cancel  context.CancelFunc
	done    chan struct{}
	baseURL string
}

func TestBookshelfSuite(t *testing.T) {
	suite.Run(t, new(BookshelfSuite))
}

func (bs *BookshelfSuite) SetupSuite() {
	ctx := context.Background()

	pg, err := postgres.Run(ctx,
		"postgres:16-alpine",
		postgres.WithDatabase("bookshelf"),
		postgres.WithUsername("bookshelf"),
		postgres.WithPassword("bookshelf"),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(60*time.Second)),
	)
	bs.Require().NoError(err, "cannot start postgres container")
	bs.pg = pg

	connStr, err := pg.ConnectionString(ctx, "sslmode=disable")
	bs.Require().NoError(err)

	pgCfg, err := pgconn.ParseConfig(connStr)
	bs.Require().NoError(err)

	rdb, err := testcontainers.GenericContainer(ctx, testcontainers.GenericContainerRequest{
		ContainerRequest: testcontainers.ContainerRequest{
			Image:        "redis:7-alpine",
			ExposedPorts: []string{"6379/tcp"},
			WaitingFor:   wait.ForLog("Ready to accept connections"),
		},
		Started: true,
	})
	bs.Require().NoError(err, "cannot start redis container")
	bs.rdb = rdb

	redisAddr, err := rdb.Endpoint(ctx, "")
	bs.Require().NoError(err)

	addr := freeAddr(bs.T())

	bs.cfg = config.Config{
		Server: config.Server{
			Addr:         addr,
			ReadTimeout:  5 * time.Second,
			IdleTimeout:  30 * time.Second,
			WriteTimeout: 10 * time.Second,
		},
		Logger: config.Logger{Level: "error", Output: []string{"stdout"}, ErrOutput: []string{"stderr"}},
		PostgresDB: config.PostgresDB{
			Addr:     fmt.Sprintf("%s:%d", pgCfg.Host, pgCfg.Port),
			Username: "bookshelf",
			Password: "bookshelf",
			DB:       "bookshelf",
			SSLmode:  "disable",
			MaxConns: "5",
		},
		Auth:  config.Auth{TTL: time.Hour, Secret: "integration-secret", BcryptCost: bcrypt.MinCost},
		Redis: config.Redis{Addr: redisAddr, LockTTL: 10 * time.Second},
		Seed:  config.Seed{Username: adminUsername, Password: adminPassword, Email: "admin@super"},
	}

	appCtx, cancel := context.WithCancel(context.Background())

	a, err := app.New(appCtx, bs.cfg)
	if err != nil {
		cancel()
		bs.T().Fatalf("cannot get app error: %v", err)
	}

	bs.cancel = cancel
	bs.done = make(chan struct{})
	bs.baseURL = "http://" + addr

	go func() {
		defer close(bs.done)
		a.Run(appCtx)
	}()

	bs.waitReady()
}

func (bs *BookshelfSuite) TearDownSuite() {
	if bs.cancel != nil {
		bs.cancel()
		<-bs.done
	}

	ctx := context.Background()

	if bs.rdb != nil {
		if err := bs.rdb.Terminate(ctx); err != nil {
			bs.T().Logf("cannot terminate redis container: %v", err)
		}
	}

	if bs.pg != nil {
		if err := bs.pg.Terminate(ctx); err != nil {
			bs.T().Logf("cannot terminate postgres container: %v", err)
		}
	}
}

func freeAddr(t *testing.T) string {
	t.Helper()

	l, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		t.Fatalf("cannot find free port: %v", err)
	}
	defer l.Close()

	return l.Addr().String()
}

func (bs *BookshelfSuite) waitReady() {
	deadline := time.Now().Add(10 * time.Second)

	for time.Now().Before(deadline) {
		resp, err := http.Get(bs.baseURL + "/books")
		if err == nil {
			resp.Body.Close()

			return
		}

		time.Sleep(100 * time.Millisecond)
	}

	bs.T().Fatal("server did not start")
}

func (bs *BookshelfSuite) call(method, path, token string, body interface{}) (int, []byte) {
	var rd io.Reader

	if body != nil {
		bts, err := json.Marshal(body)
		bs.Require().NoError(err)

		rd = bytes.NewReader(bts)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, method, bs.baseURL+path, rd)
	bs.Require().NoError(err)

	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := http.DefaultClient.Do(req)
	bs.Require().NoError(err)
	defer resp.Body.Close()

	b, err := io.ReadAll(resp.Body)
	bs.Require().NoError(err)

	return resp.StatusCode, b
}

func (bs *BookshelfSuite) login(username, password string) string {
	code, body := bs.call(http.MethodPost, "/users/login", "", map[string]string{
		"username": username, "password": password,
	})
	bs.Require().Equal(http.StatusOK, code, string(body))

	var resp server.LoginResponse
	bs.Require().NoError(json.Unmarshal(body, &resp))

	return resp.Token
}

func (bs *BookshelfSuite) TestSeedingIsIdempotent() {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	created, err := app.Seed(ctx, bs.cfg)
	bs.Require().NoError(err)
	bs.Require().False(created)

	created, err = app.Seed(ctx, bs.cfg)
	bs.Require().NoError(err)
	bs.Require().False(created)

	token := bs.login(adminUsername, adminPassword)
	code, body := bs.call(http.MethodGet, "/users/me", token, nil)
	bs.Require().Equal(http.StatusOK, code)

	var u models.User
	bs.Require().NoError(json.Unmarshal(body, &u))
	bs.Require().Equal(models.RoleAdmin, u.Role)
}

func (bs *BookshelfSuite) TestSeedLockIsExclusive() {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	first, err := redis.New(ctx, bs.cfg.Redis)
	bs.Require().NoError(err)
	defer first.Close()

	second, err := redis.New(ctx, bs.cfg.Redis)
	bs.Require().NoError(err)
	defer second.Close()

	ok, err := first.Acquire(ctx, "exclusive")
	bs.Require().NoError(err)
	bs.Require().True(ok)

	ok, err = second.Acquire(ctx, "exclusive")
	bs.Require().NoError(err)
	bs.Require().False(ok)

	bs.Require().NoError(second.Release(ctx, "exclusive"))

	ok, err = second.Acquire(ctx, "exclusive")
	bs.Require().NoError(err)
	bs.Require().False(ok, "release by a non-owner must not free the lock")

	bs.Require().NoError(first.Release(ctx, "exclusive"))

	ok, err = second.Acquire(ctx, "exclusive")
	bs.Require().NoError(err)
	bs.Require().True(ok)
	bs.Require().NoError(second.Release(ctx, "exclusive"))
}

func (bs *BookshelfSuite) TestUserFlow() {
	code, body := bs.call(http.MethodPost, "/users/register", "", map[string]string{
		"username": "flow_user", "password": "qwerty", "email": "flow@example.com",
	})
	bs.Require().Equal(http.StatusCreated, code, string(body))
	bs.Require().NotContains(string(body), "qwerty")

	var registered models.User
	bs.Require().NoError(json.Unmarshal(body, &registered))
	bs.Require().Equal(models.RoleUser, registered.Role)

	code, _ = bs.call(http.MethodPost, "/users/register", "", map[string]string{
		"username": "flow_user", "password": "other",
	})
	bs.Require().Equal(http.StatusConflict, code)

	codeWrong, bodyWrong := bs.call(http.MethodPost, "/users/login", "", map[string]string{
		"username": "flow_user", "password": "nope",
	})
	codeUnknown, bodyUnknown := bs.call(http.MethodPost, "/users/login", "", map[string]string{
		"username": "nobody_here", "password": "qwerty",
	})
	bs.Require().Equal(http.StatusUnauthorized, codeWrong)
	bs.Require().Equal(http.StatusUnauthorized, codeUnknown)
	bs.Require().Equal(bodyWrong, bodyUnknown)

	userToken := bs.login("flow_user", "qwerty")
	adminToken := bs.login(adminUsername, adminPassword)

	code, _ = bs.call(http.MethodPut, fmt.Sprintf("/users/%d/role", registered.ID), userToken, map[string]int{"role": 1})
	bs.Require().Equal(http.StatusForbidden, code)

	code, _ = bs.call(http.MethodPut, "/users/999999/role", adminToken, map[string]int{"role": 1})
	bs.Require().Equal(http.StatusNotFound, code)

	code, body = bs.call(http.MethodPut, fmt.Sprintf("/users/%d/role", registered.ID), adminToken, map[string]int{"role": 1})
	bs.Require().Equal(http.StatusOK, code, string(body))

	// Claims are fixed at login, so the promotion applies to the next token.
	code, _ = bs.call(http.MethodPost, "/books", userToken, map[string]string{"title": "x", "publicationDate": "2020-01-01"})
	bs.Require().Equal(http.StatusForbidden, code)

	promoted := bs.login("flow_user", "qwerty")
	code, _ = bs.call(http.MethodPost, "/books", promoted, map[string]string{"title": "x", "publicationDate": "2020-01-01"})
	bs.Require().Equal(http.StatusCreated, code)
}

func (bs *BookshelfSuite) TestBookLifecycle() {
	adminToken := bs.login(adminUsername, adminPassword)

	code, body := bs.call(http.MethodGet, "/users/me", adminToken, nil)
	bs.Require().Equal(http.StatusOK, code)

	var admin models.User
	bs.Require().NoError(json.Unmarshal(body, &admin))

	code, _ = bs.call(http.MethodPost, "/books", "", map[string]string{"title": "T", "publicationDate": "2020-01-01"})
	bs.Require().Equal(http.StatusUnauthorized, code)

	code, body = bs.call(http.MethodPost, "/books", adminToken, map[string]interface{}{
		"title": "T", "author": "A", "publicationDate": "2020-01-01", "genres": []string{"SciFi"},
	})
	bs.Require().Equal(http.StatusCreated, code, string(body))

	var created models.Book
	bs.Require().NoError(json.Unmarshal(body, &created))
	bs.Require().Equal(admin.ID, created.UserID)

	path := fmt.Sprintf("/books/%d", created.ID)

	code, body = bs.call(http.MethodGet, path, "", nil)
	bs.Require().Equal(http.StatusOK, code)

	var got models.Book
	bs.Require().NoError(json.Unmarshal(body, &got))
	bs.Require().Equal("T", got.Title)
	bs.Require().Equal("A", got.Author)
	bs.Require().Equal([]string{"SciFi"}, got.Genres)
	bs.Require().True(got.PublicationDate.Equal(time.Date(2020, 1, 1, 0, 0, 0, 0, time.UTC)))

	code, body = bs.call(http.MethodPut, path, adminToken, map[string]interface{}{
		"title": "T2", "publicationDate": "2021-02-03T04:05:06Z",
	})
	bs.Require().Equal(http.StatusOK, code, string(body))
	bs.Require().NoError(json.Unmarshal(body, &got))
	bs.Require().Equal("T2", got.Title)
	bs.Require().Empty(got.Author)
	bs.Require().Empty(got.Genres)
	bs.Require().Equal(admin.ID, got.UserID)

	code, body = bs.call(http.MethodDelete, path, adminToken, nil)
	bs.Require().Equal(http.StatusNoContent, code)
	bs.Require().Empty(body)

	code, _ = bs.call(http.MethodGet, path, "", nil)
	bs.Require().Equal(http.StatusNotFound, code)

	code, _ = bs.call(http.MethodDelete, path, adminToken, nil)
	bs.Require().Equal(http.StatusNotFound, code)

	code, _ = bs.call(http.MethodGet, "/books/not-a-number", "", nil)
	bs.Require().Equal(http.StatusNotFound, code)

	code, _ = bs.call(http.MethodDelete, "/books/not-a-number", "", nil)
	bs.Require().Equal(http.StatusUnauthorized, code)

	for _, method := range []string{http.MethodGet, http.MethodDelete} {
		code, _ = bs.call(method, "/books/3000000000", adminToken, nil)
		bs.Require().Equal(http.StatusNotFound, code, method)
	}

	code, _ = bs.call(http.MethodPut, "/users/3000000000/role", adminToken, map[string]int{"role": 1})
	bs.Require().Equal(http.StatusNotFound, code)
}

func (bs *BookshelfSuite) TestRepositoryConstraints() {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	db, err := pgtools.Connect(ctx, pgtools.ConnString(bs.cfg.PostgresDB))
	bs.Require().NoError(err)
	defer db.Close()

	users := ur.New(db)
	books := br.New(db)

	_, err = users.CreateUser(ctx, models.User{Username: adminUsername, PasswordHash: "x"})
	bs.Require().ErrorIs(err, userrepo.ErrAlreadyExists)

	_, err = books.CreateBook(ctx, models.Book{Title: "orphan", PublicationDate: time.Now(), UserID: 999999})
	bs.Require().ErrorIs(err, bookrepo.ErrUnknownOwner)

	_, err = books.UpdateBook(ctx, models.Book{ID: 999999, PublicationDate: time.Now()})
	bs.Require().ErrorIs(err, bookrepo.ErrNotFound)

	v, err := pgtools.MigrationVersion(bs.cfg.PostgresDB)
	bs.Require().NoError(err)
	bs.Require().EqualValues(2, v)
}
