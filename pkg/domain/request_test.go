package domain_test

import (
	"errors"
	"testing"

	"github.com/aretw0/wayfarer/pkg/domain"
	"github.com/stretchr/testify/assert"
)

func TestClampBudget(t *testing.T) {
	tests := []struct {
		in, want int
	}{
		{5000, 10000},
		{999999, 200000},
		{52000, 52000},
		{10000, 10000},
		{200000, 200000},
		{-1, 10000},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, domain.ClampBudget(tt.in), "ClampBudget(%d)", tt.in)
	}
}

func TestClampGroupSize(t *testing.T) {
	assert.Equal(t, 1, domain.ClampGroupSize(0))
	assert.Equal(t, 20, domain.ClampGroupSize(25))
	assert.Equal(t, 7, domain.ClampGroupSize(7))
}

func TestDefaultTripRequest(t *testing.T) {
	r := domain.DefaultTripRequest()
	assert.Equal(t, "", r.Destination)
	assert.Equal(t, "", r.StartDate)
	assert.Equal(t, "", r.EndDate)
	assert.Equal(t, 50000, r.BudgetPerPerson)
	assert.Equal(t, 2, r.GroupSize)
	assert.Empty(t, r.Interests)
}

func TestTripRequest_CloneIsIndependent(t *testing.T) {
	r := domain.DefaultTripRequest()
	r.Interests = append(r.Interests, "food")

	c := r.Clone()
	c.Interests[0] = "nightlife"
	c.Destination = "Mumbai"

	assert.Equal(t, []string{"food"}, r.Interests)
	assert.Equal(t, "", r.Destination)
}

func TestTripRequest_Days(t *testing.T) {
	r := domain.DefaultTripRequest()
	assert.Equal(t, 0, r.Days(), "no dates")

	r.StartDate, r.EndDate = "2026-03-01", "2026-03-04"
	assert.Equal(t, 4, r.Days())

	r.StartDate, r.EndDate = "2026-03-04", "2026-03-01"
	assert.Equal(t, 0, r.Days(), "end before start is permitted but spans nothing")
}

func TestParseDate(t *testing.T) {
	d, err := domain.ParseDate("2026-10-17")
	assert.NoError(t, err)
	assert.Equal(t, 17, d.Day())

	d, err = domain.ParseDate("")
	assert.NoError(t, err)
	assert.True(t, d.IsZero())

	_, err = domain.ParseDate("17/10/2026")
	assert.True(t, errors.Is(err, domain.ErrInvalidValue))
}

func TestEvent_Validate(t *testing.T) {
	tests := []struct {
		name  string
		event domain.Event
		want  error
	}{
		{"start", domain.Start(), nil},
		{"set destination", domain.SetText(domain.FieldDestination, ""), nil},
		{"set budget", domain.SetNumber(domain.FieldBudget, 1), nil},
		{"bad date", domain.SetText(domain.FieldStartDate, "tomorrow"), domain.ErrInvalidValue},
		{"unknown field", domain.Event{Kind: domain.EventSetField, Field: "pets"}, domain.ErrUnknownField},
		{"empty tag", domain.ToggleInterest(" "), domain.ErrInvalidValue},
		{"unknown kind", domain.Event{Kind: "jump"}, domain.ErrUnknownEvent},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.event.Validate()
			if tt.want == nil {
				assert.NoError(t, err)
				return
			}
			assert.ErrorIs(t, err, tt.want)
		})
	}
}

func TestParseStep(t *testing.T) {
	s, err := domain.ParseStep("budget")
	assert.NoError(t, err)
	assert.Equal(t, domain.StepBudget, s)

	s, err = domain.ParseStep("4")
	assert.NoError(t, err)
	assert.Equal(t, domain.StepInterests, s)

	_, err = domain.ParseStep("5")
	assert.ErrorIs(t, err, domain.ErrInvalidValue)
}
