package server

import (
	"context"
	_ "embed"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/Leopold1975/bookshelf/internal/bookshelf/api/oapi"
	"github.com/Leopold1975/bookshelf/internal/bookshelf/domain/models"
	"github.com/Leopold1975/bookshelf/internal/bookshelf/services/authservice"
	"github.com/Leopold1975/bookshelf/internal/bookshelf/services/bookservice"
	"github.com/Leopold1975/bookshelf/internal/bookshelf/services/userservice"
	"github.com/Leopold1975/bookshelf/internal/pkg/config"
	"github.com/Leopold1975/bookshelf/internal/pkg/jwtauth"
	"github.com/Leopold1975/bookshelf/pkg/logger"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
)

//go:embed docs/index.html
var docsPage []byte

type Server struct {
	serv        *http.Server
	authService AuthService
	userService UserService
	bookService BookService
	lg          logger.Logger
}

type AuthService interface {
	Register(context.Context, authservice.RegisterRequest) (models.User, error)
	Login(context.Context, string, string) (string, error)
	Authenticate(string) (jwtauth.Claims, error)
}

type UserService interface {
	GetUser(context.Context, int) (models.User, error)
	UpdateRole(context.Context, int, models.Role) (models.User, error)
}

type BookService interface {
	ListBooks(context.Context) ([]models.Book, error)
	GetBook(context.Context, int) (models.Book, error)
	CreateBook(context.Context, bookservice.BookRequest, int) (models.Book, error)
	UpdateBook(context.Context, int, bookservice.BookRequest) (models.Book, error)
	DeleteBook(context.Context, int) error
}

func New(cfg config.Server, as AuthService, us UserService, bs BookService, lg logger.Logger) *Server {
	s := &Server{
		authService: as,
		userService: us,
		bookService: bs,
		lg:          lg,
	}

	s.serv = &http.Server{ //nolint:exhaustruct
		Addr:         cfg.Addr,
		Handler:      s.Handler(),
		ReadTimeout:  cfg.ReadTimeout,
		WriteTimeout: cfg.WriteTimeout,
		IdleTimeout:  cfg.IdleTimeout,
	}

	return s
}

// Handler builds the routed handler. Generated wrappers apply Middlewares
// in slice order, so the last entry runs first.
func (s *Server) Handler() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID, middleware.RealIP, loggingMiddleware(s.lg), middleware.Recoverer)
	r.NotFound(func(w http.ResponseWriter, _ *http.Request) {
		handleError(w, "route not found", http.StatusNotFound)
	})

	return oapi.HandlerWithOptions(s, oapi.ChiServerOptions{ //nolint:exhaustruct
		BaseRouter:       r,
		Middlewares:      []oapi.MiddlewareFunc{authorizeAdmin(), authenticate(s.authService)},
		ErrorHandlerFunc: s.paramErrorHandler,
	})
}

func (s *Server) Start(ctx context.Context) error {
	errCh := make(chan error, 1)

	go func() {
		if err := s.serv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}

		close(errCh)
	}()

	select {
	case <-ctx.Done():
		ctxS, cancel := context.WithTimeout(context.Background(), time.Second*5) //nolint:gomnd
		defer cancel()

		if err := s.Shutdown(ctxS); err != nil { //nolint:contextcheck
			return fmt.Errorf("context error: %w server error %w", ctx.Err(), err)
		}

		if !errors.Is(ctx.Err(), context.Canceled) {
			return fmt.Errorf("context cancelled error: %w", ctx.Err())
		}

		return nil
	case err := <-errCh:
		if err != nil {
			return fmt.Errorf("listen and serve error: %w", err)
		}

		return nil
	}
}

func (s *Server) Shutdown(ctx context.Context) error {
	if err := s.serv.Shutdown(ctx); err != nil {
		return fmt.Errorf("shutdown server error: %w", err)
	}

	return nil
}

// Register a new user
// (POST /users/register).
func (s *Server) PostUsersRegister(w http.ResponseWriter, r *http.Request) {
	var b oapi.PostUsersRegisterJSONBody

	if err := json.NewDecoder(r.Body).Decode(&b); err != nil {
		handleError(w, fmt.Sprintf("decode error: %s", err), http.StatusBadRequest)

		return
	}

	var req authservice.RegisterRequest

	if b.Username != nil {
		req.Username = *b.Username
	}

	if b.Password != nil {
		req.Password = *b.Password
	}

	if b.Email != nil {
		req.Email = *b.Email
	}

	u, err := s.authService.Register(r.Context(), req)
	if err != nil {
		switch {
		case errors.Is(err, authservice.ErrMissingFields):
			handleError(w, err.Error(), http.StatusBadRequest)
		case errors.Is(err, authservice.ErrAlreadyExists):
			handleError(w, err.Error(), http.StatusConflict)
		default:
			s.internalError(w, fmt.Errorf("register error: %w", err))
		}

		return
	}

	s.writeJSON(w, http.StatusCreated, u)
}

// Login a user
// (POST /users/login).
func (s *Server) PostUsersLogin(w http.ResponseWriter, r *http.Request) {
	var b oapi.PostUsersLoginJSONBody

	if err := json.NewDecoder(r.Body).Decode(&b); err != nil {
		handleError(w, fmt.Sprintf("decode error: %s", err), http.StatusBadRequest)

		return
	}

	var username, password string

	if b.Username != nil {
		username = *b.Username
	}

	if b.Password != nil {
		password = *b.Password
	}

	token, err := s.authService.Login(r.Context(), username, password)
	if err != nil {
		if errors.Is(err, authservice.ErrInvalidCredentials) {
			handleError(w, msgInvalidCredentials, http.StatusUnauthorized)

			return
		}

		s.internalError(w, fmt.Errorf("login error: %w", err))

		return
	}

	s.writeJSON(w, http.StatusOK, LoginResponse{Token: token})
}

// Get current user information
// (GET /users/me).
func (s *Server) GetUsersMe(w http.ResponseWriter, r *http.Request) {
	claims, ok := jwtauth.FromContext(r.Context())
	if !ok {
		handleError(w, msgAuthRequired, http.StatusUnauthorized)

		return
	}

	u, err := s.userService.GetUser(r.Context(), claims.ID)
	if err != nil {
		if errors.Is(err, userservice.ErrNotFound) {
			handleError(w, msgUserNotFound, http.StatusNotFound)

			return
		}

		s.internalError(w, fmt.Errorf("get user error: %w", err))

		return
	}

	s.writeJSON(w, http.StatusOK, u)
}

// Change the role of a user
// (PUT /users/{id}/role).
func (s *Server) PutUsersIdRole(w http.ResponseWriter, r *http.Request, id int) { //nolint:revive,stylecheck
	var b oapi.PutUsersIdRoleJSONBody

	if err := json.NewDecoder(r.Body).Decode(&b); err != nil {
		handleError(w, fmt.Sprintf("decode error: %s", err), http.StatusBadRequest)

		return
	}

	if b.Role == nil {
		handleError(w, userservice.ErrInvalidRole.Error(), http.StatusBadRequest)

		return
	}

	u, err := s.userService.UpdateRole(r.Context(), id, models.Role(*b.Role))
	if err != nil {
		switch {
		case errors.Is(err, userservice.ErrInvalidRole):
			handleError(w, err.Error(), http.StatusBadRequest)
		case errors.Is(err, userservice.ErrNotFound):
			handleError(w, msgUserNotFound, http.StatusNotFound)
		default:
			s.internalError(w, fmt.Errorf("update role error: %w", err))
		}

		return
	}

	s.writeJSON(w, http.StatusOK, u)
}

// Get all books
// (GET /books).
func (s *Server) GetBooks(w http.ResponseWriter, r *http.Request) {
	books, err := s.bookService.ListBooks(r.Context())
	if err != nil {
		s.internalError(w, fmt.Errorf("list books error: %w", err))

		return
	}

	if books == nil {
		books = []models.Book{}
	}

	s.writeJSON(w, http.StatusOK, books)
}

// Get a book by ID
// (GET /books/{id}).
func (s *Server) GetBooksId(w http.ResponseWriter, r *http.Request, id int) { //nolint:revive,stylecheck
	b, err := s.bookService.GetBook(r.Context(), id)
	if err != nil {
		if errors.Is(err, bookservice.ErrNotFound) {
			handleError(w, msgBookNotFound, http.StatusNotFound)

			return
		}

		s.internalError(w, fmt.Errorf("get book error: %w", err))

		return
	}

	s.writeJSON(w, http.StatusOK, b)
}

// Create a new book
// (POST /books).
func (s *Server) PostBooks(w http.ResponseWriter, r *http.Request) {
	claims, ok := jwtauth.FromContext(r.Context())
	if !ok {
		handleError(w, msgAuthRequired, http.StatusUnauthorized)

		return
	}

	req, ok := decodeBook(w, r)
	if !ok {
		return
	}

	b, err := s.bookService.CreateBook(r.Context(), req, claims.ID)
	if err != nil {
		switch {
		case errors.Is(err, bookservice.ErrInvalidDate), errors.Is(err, bookservice.ErrUnknownOwner):
			handleError(w, err.Error(), http.StatusBadRequest)
		default:
			s.internalError(w, fmt.Errorf("create book error: %w", err))
		}

		return
	}

	s.writeJSON(w, http.StatusCreated, b)
}

// Update a book
// (PUT /books/{id}).
func (s *Server) PutBooksId(w http.ResponseWriter, r *http.Request, id int) { //nolint:revive,stylecheck
	req, ok := decodeBook(w, r)
	if !ok {
		return
	}

	b, err := s.bookService.UpdateBook(r.Context(), id, req)
	if err != nil {
		switch {
		case errors.Is(err, bookservice.ErrInvalidDate):
			handleError(w, err.Error(), http.StatusBadRequest)
		case errors.Is(err, bookservice.ErrNotFound):
			handleError(w, msgBookNotFound, http.StatusNotFound)
		default:
			s.internalError(w, fmt.Errorf("update book error: %w", err))
		}

		return
	}

	s.writeJSON(w, http.StatusOK, b)
}

// Delete a book
// (DELETE /books/{id}).
func (s *Server) DeleteBooksId(w http.ResponseWriter, r *http.Request, id int) { //nolint:revive,stylecheck
	if err := s.bookService.DeleteBook(r.Context(), id); err != nil {
		if errors.Is(err, bookservice.ErrNotFound) {
			handleError(w, msgBookNotFound, http.StatusNotFound)

			return
		}

		s.internalError(w, fmt.Errorf("delete book error: %w", err))

		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) GetDocs(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.Write(docsPage) //nolint:errcheck
}

func (s *Server) GetDocsOpenapiYaml(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "application/yaml")
	w.Write(oapi.Spec) //nolint:errcheck
}

func (s *Server) writeJSON(w http.ResponseWriter, code int, v interface{}) {
	bts, err := json.Marshal(v)
	if err != nil {
		s.internalError(w, fmt.Errorf("encode error: %w", err))

		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	w.Write(bts) //nolint:errcheck
}

// internalError hides err from the client and logs it instead.
func (s *Server) internalError(w http.ResponseWriter, err error) {
	s.lg.Errorf("internal error: %s", err.Error())
	handleError(w, msgInternal, http.StatusInternalServerError)
}

func decodeBook(w http.ResponseWriter, r *http.Request) (bookservice.BookRequest, bool) {
	var b oapi.BookInput

	if err := json.NewDecoder(r.Body).Decode(&b); err != nil {
		handleError(w, fmt.Sprintf("decode error: %s", err), http.StatusBadRequest)

		return bookservice.BookRequest{}, false
	}

	var req bookservice.BookRequest

	if b.Title != nil {
		req.Title = *b.Title
	}

	if b.Author != nil {
		req.Author = *b.Author
	}

	if b.PublicationDate != nil {
		req.PublicationDate = *b.PublicationDate
	}

	if b.Genres != nil {
		req.Genres = *b.Genres
	}

	return req, true
}

// paramErrorHandler answers malformed path ids with 404. Every non-GET route
// with an id is admin-only, so those go through the same auth chain first.
func (s *Server) paramErrorHandler(w http.ResponseWriter, r *http.Request, err error) {
	var paramErr *oapi.InvalidParamFormatError
	if !errors.As(err, &paramErr) {
		handleError(w, err.Error(), http.StatusBadRequest)

		return
	}

	notFound := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if strings.HasPrefix(r.URL.Path, "/users") {
			handleError(w, msgUserNotFound, http.StatusNotFound)

			return
		}

		handleError(w, msgBookNotFound, http.StatusNotFound)
	})

	if r.Method == http.MethodGet {
		notFound(w, r)

		return
	}

	ctx := context.WithValue(r.Context(), oapi.BearerAuthScopes, []string{adminScope}) //nolint:staticcheck

	authenticate(s.authService)(authorizeAdmin()(notFound)).ServeHTTP(w, r.WithContext(ctx))
}
