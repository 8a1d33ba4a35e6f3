package entity

import "time"

// APILog is one outbound call audit entry. Deliberately metadata only:
// request and response bodies stay out of the database so no document content
// or signing credential ever crosses a persistence boundary.
type APILog struct {
	ID         int64
	Backend    string
	Endpoint   string
	Method     string
	StatusCode int
	Duration   int64 // milliseconds
	CreatedAt  time.Time
}
