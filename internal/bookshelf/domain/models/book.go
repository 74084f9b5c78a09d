package models

import (
	"time"
)

type Book struct {
	ID              int       `json:"id"`
	Title           string    `json:"title"`
	Author          string    `json:"author"`
	PublicationDate time.Time `json:"publicationDate"`
	Genres          []string  `json:"genres"`
	UserID          int       `json:"userId"`
}
