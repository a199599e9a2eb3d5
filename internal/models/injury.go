package models

import "strings"

// InjuryEntry is a single line of a day's injury report.
type InjuryEntry struct {
	Team   string `json:"team"`
	Player string `json:"player"`
	Status string `json:"status"`
	Note   string `json:"note,omitempty"`
}

// confirmedOutStatuses are the provider status strings that count as a
// confirmed absence. Probable/questionable/day-to-day do not move the model.
var confirmedOutStatuses = map[string]struct{}{
	"out":              {},
	"out for season":   {},
	"out indefinitely": {},
}

// IsConfirmedOut reports whether the entry's status marks the player as
// definitely not playing. Matching is case-insensitive.
func (e *InjuryEntry) IsConfirmedOut() bool {
	_, ok := confirmedOutStatuses[strings.ToLower(strings.TrimSpace(e.Status))]
	return ok
}
