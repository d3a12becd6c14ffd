package domain

import (
	"fmt"
	"slices"
	"strings"
	"time"
)

// TripRequest is the accumulated user input describing a desired trip.
// Interests is a set; order reflects insertion and carries no meaning.
type TripRequest struct {
	Destination     string   `json:"destination"`
	StartDate       string   `json:"start_date"`
	EndDate         string   `json:"end_date"`
	BudgetPerPerson int      `json:"budget_per_person"`
	GroupSize       int      `json:"group_size"`
	Interests       []string `json:"interests"`
}

// DefaultTripRequest returns a request populated with the documented defaults.
func DefaultTripRequest() *TripRequest {
	return &TripRequest{
		BudgetPerPerson: DefaultBudgetPerPerson,
		GroupSize:       DefaultGroupSize,
		Interests:       []string{},
	}
}

// Clone returns a deep copy of the request.
func (r *TripRequest) Clone() *TripRequest {
	if r == nil {
		return nil
	}
	c := *r
	c.Interests = make([]string, len(r.Interests))
	copy(c.Interests, r.Interests)
	return &c
}

// HasInterest reports whether tag is part of the interests set.
func (r *TripRequest) HasInterest(tag string) bool {
	return slices.Contains(r.Interests, tag)
}

// Equal compares two requests treating Interests as a set.
func (r *TripRequest) Equal(o *TripRequest) bool {
	if r == nil || o == nil {
		return r == o
	}
	if r.Destination != o.Destination ||
		r.StartDate != o.StartDate ||
		r.EndDate != o.EndDate ||
		r.BudgetPerPerson != o.BudgetPerPerson ||
		r.GroupSize != o.GroupSize ||
		len(r.Interests) != len(o.Interests) {
		return false
	}
	for _, tag := range r.Interests {
		if !o.HasInterest(tag) {
			return false
		}
	}
	return true
}

// Days returns the number of days spanned by the dates, inclusive.
// It returns 0 when either date is missing, malformed or out of order.
func (r *TripRequest) Days() int {
	start, err := ParseDate(r.StartDate)
	if err != nil || start.IsZero() {
		return 0
	}
	end, err := ParseDate(r.EndDate)
	if err != nil || end.IsZero() || end.Before(start) {
		return 0
	}
	return int(end.Sub(start).Hours()/24) + 1
}

// ClampBudget bounds a budget to [MinBudgetPerPerson, MaxBudgetPerPerson].
// Step alignment is a concern of the input surface, not of storage.
func ClampBudget(v int) int {
	return clamp(v, MinBudgetPerPerson, MaxBudgetPerPerson)
}

// ClampGroupSize bounds a group size to [MinGroupSize, MaxGroupSize].
func ClampGroupSize(v int) int {
	return clamp(v, MinGroupSize, MaxGroupSize)
}

func clamp(v, lo, hi int) int {
	return max(lo, min(v, hi))
}

// ParseDate parses a calendar date in DateLayout. The empty string yields the zero time.
func ParseDate(v string) (time.Time, error) {
	v = strings.TrimSpace(v)
	if v == "" {
		return time.Time{}, nil
	}
	t, err := time.Parse(DateLayout, v)
	if err != nil {
		return time.Time{}, fmt.Errorf("%w: date %q (expected %s)", ErrInvalidValue, v, DateLayout)
	}
	return t, nil
}
