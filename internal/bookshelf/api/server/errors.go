package server

import (
	"encoding/json"
	"net/http"
)

const (
	msgAuthRequired       = "Please authenticate."
	msgInvalidToken       = "Invalid token"
	msgAccessDenied       = "Access denied"
	msgInvalidCredentials = "Invalid credentials"
	msgBookNotFound       = "Book not found"
	msgUserNotFound       = "User not found"
	msgInternal           = "internal server error"
)

type Error struct {
	Err string `json:"error"`
}

func (se Error) ToJSON() []byte {
	b, err := json.Marshal(se)
	if err != nil {
		se.Err = err.Error()

		b, err := json.Marshal(se)
		if err != nil {
			return []byte(`{"error": "marshal error"}`)
		}

		return b
	}

	return b
}

func handleError(w http.ResponseWriter, msg string, code int) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)

	e := Error{msg}

	w.Write(e.ToJSON()) //nolint:errcheck
}
