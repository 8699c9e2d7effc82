package echoapi

import (
	"time"

	"github.com/trezcool/mahudhurio/core"
)

const dateLayout = "2006-01-02"

// parseDate accepts the YYYY-MM-DD wire format, falling back to RFC3339.
func parseDate(val, field string) (time.Time, error) {
	if val == "" {
		return time.Time{}, core.NewValidationError(nil, core.FieldError{Field: field, Error: "is required"})
	}
	t, err := time.Parse(dateLayout, val)
	if err != nil {
		if t, err = time.Parse(time.RFC3339, val); err != nil {
			return time.Time{}, core.NewValidationError(nil, core.FieldError{Field: field, Error: "invalid date; expected YYYY-MM-DD"})
		}
	}
	return t, nil
}
