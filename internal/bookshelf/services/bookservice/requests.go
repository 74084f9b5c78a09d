package bookservice

// BookRequest carries every mutable field of a book. Update is a full
// replace: zero values blank the stored field.
type BookRequest struct {
	Title           string
	Author          string
	PublicationDate string
	Genres          []string
}
