package handler

import (
	"net/http"
	"time"

	"github.com/google/uuid"
)

const dateLayout = "2006-01-02"

func pathID(r *http.Request) (uuid.UUID, *AppError) {
	id, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		return uuid.Nil, ErrResourceNotFound
	}
	return id, nil
}

// queryDate parses an optional yyyy-mm-dd query parameter; absent means the
// zero time (unbounded).
func queryDate(r *http.Request, key string) (time.Time, *FieldError) {
	raw := r.URL.Query().Get(key)
	if raw == "" {
		return time.Time{}, nil
	}
	t, err := time.Parse(dateLayout, raw)
	if err != nil {
		return time.Time{}, &FieldError{Field: key, Message: "must be yyyy-mm-dd"}
	}
	return t, nil
}

func parseDatePtr(raw *string) (*time.Time, *FieldError) {
	if raw == nil || *raw == "" {
		return nil, nil
	}
	t, err := time.Parse(dateLayout, *raw)
	if err != nil {
		return nil, &FieldError{Field: "date", Message: "must be yyyy-mm-dd"}
	}
	return &t, nil
}
