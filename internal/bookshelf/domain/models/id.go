package models

import "math"

// ValidID reports whether id fits a SERIAL primary key.
func ValidID(id int) bool {
	return id > 0 && id <= math.MaxInt32
}
