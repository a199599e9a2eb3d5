package models

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

// Season identifies an NBA season in the league's "2025-26" notation.
type Season string

// SeasonStartMonth is the calendar month a new season begins. Games in
// October through December belong to the season that started that year;
// January through June belong to the season started the prior year.
const SeasonStartMonth = time.October

// SeasonForDate derives the season a game date belongs to.
func SeasonForDate(date time.Time) Season {
	start := date.Year()
	if date.Month() < SeasonStartMonth {
		start--
	}
	return seasonForStartYear(start)
}

func seasonForStartYear(start int) Season {
	suffix := strconv.Itoa(start + 1)
	return Season(fmt.Sprintf("%d-%s", start, suffix[len(suffix)-2:]))
}

// StartYear returns the calendar year the season began, or an error for
// a malformed label.
func (s Season) StartYear() (int, error) {
	base, _, found := strings.Cut(string(s), "-")
	if !found {
		return 0, fmt.Errorf("malformed season %q", s)
	}
	year, err := strconv.Atoi(base)
	if err != nil {
		return 0, fmt.Errorf("malformed season %q: %w", s, err)
	}
	return year, nil
}

// Prev returns the immediately preceding season.
func (s Season) Prev() (Season, error) {
	year, err := s.StartYear()
	if err != nil {
		return "", err
	}
	return seasonForStartYear(year - 1), nil
}

// Key returns the season label in filesystem-safe form ("2025_26"),
// used to name the per-season tier document.
func (s Season) Key() string {
	return strings.ReplaceAll(string(s), "-", "_")
}

// StartDate returns the nominal first day of the season (October 1st).
func (s Season) StartDate() (time.Time, error) {
	year, err := s.StartYear()
	if err != nil {
		return time.Time{}, err
	}
	return time.Date(year, SeasonStartMonth, 1, 0, 0, 0, 0, time.UTC), nil
}
