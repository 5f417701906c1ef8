package model

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

// Duration is a track length with clock-style parsing and formatting.
//
// Accepted input forms:
//   - "1:23"      (minutes:seconds)
//   - "1:23:45"   (hours:minutes:seconds)
//   - "1-23" / "1/23" (separator variants seen in scraped listings)
//   - plain seconds as an integer string
//
// The zero value means "no duration".
type Duration time.Duration

// ParseDuration parses a textual track duration.
func ParseDuration(s string) (Duration, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, fmt.Errorf("empty duration")
	}
	s = strings.ReplaceAll(s, "-", ":")
	s = strings.ReplaceAll(s, "/", ":")

	parts := strings.Split(s, ":")
	if len(parts) > 3 {
		return 0, fmt.Errorf("invalid duration: %q", s)
	}
	if len(parts) == 2 {
		parts = append([]string{"0"}, parts...)
	}
	if len(parts) == 1 {
		secs, err := strconv.Atoi(parts[0])
		if err != nil || secs < 0 {
			return 0, fmt.Errorf("invalid duration: %q", s)
		}
		return Duration(time.Duration(secs) * time.Second), nil
	}

	var total time.Duration
	for i, part := range parts {
		part = strings.TrimSpace(part)
		if part == "" {
			part = "0"
		}
		n, err := strconv.Atoi(part)
		if err != nil || n < 0 {
			return 0, fmt.Errorf("invalid duration: %q", s)
		}
		switch i {
		case 0:
			total += time.Duration(n) * time.Hour
		case 1:
			if n > 59 {
				return 0, fmt.Errorf("invalid duration: %q", s)
			}
			total += time.Duration(n) * time.Minute
		case 2:
			if n > 59 {
				return 0, fmt.Errorf("invalid duration: %q", s)
			}
			total += time.Duration(n) * time.Second
		}
	}
	return Duration(total), nil
}

// String formats as "MM:SS" under one hour and "H:MM:SS" otherwise.
// The zero value formats as an empty string.
func (d Duration) String() string {
	if d == 0 {
		return ""
	}
	total := int(time.Duration(d) / time.Second)
	h := total / 3600
	m := total % 3600 / 60
	s := total % 60
	if h > 0 {
		return fmt.Sprintf("%d:%02d:%02d", h, m, s)
	}
	return fmt.Sprintf("%02d:%02d", m, s)
}

// Seconds returns the total length in whole seconds.
func (d Duration) Seconds() int {
	return int(time.Duration(d) / time.Second)
}
