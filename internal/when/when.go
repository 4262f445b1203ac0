// Package when parses the date/time strings accepted on the command line.
package when

import (
	"fmt"
	"strings"
	"time"
)

var layouts = []string{
	"2006-01-02 15:04:05",
	"2006-01-02 15:04",
	"2006/01/02 15:04:05",
	"2006/01/02 15:04",
	"2006-01-02",
	"2006/01/02",
}

// ParseLocal parses s in the local time zone. Accepted forms are
// YYYY-MM-DD with an optional HH:MM[:SS], using - or / as the date
// separator.
func ParseLocal(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, fmt.Errorf("empty date string")
	}
	for _, layout := range layouts {
		if t, err := time.ParseInLocation(layout, s, time.Local); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("could not parse date/time %q, try 'YYYY-MM-DD HH:MM[:SS]'", s)
}

// EpochMS converts t to epoch milliseconds.
func EpochMS(t time.Time) int64 {
	return t.UnixMilli()
}
