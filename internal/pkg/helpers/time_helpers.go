package helpers

import (
	"time"
)

// DateLayout is the wire format of calendar dates
const DateLayout = "2006-01-02"

// FormatDate renders a DATE column value as YYYY-MM-DD
func FormatDate(t time.Time) string {
	return t.Format(DateLayout)
}
