package domain

// Bounds and defaults for the numeric fields of a TripRequest.
const (
	MinBudgetPerPerson     = 10000
	MaxBudgetPerPerson     = 200000
	BudgetStep             = 5000
	DefaultBudgetPerPerson = 50000

	MinGroupSize     = 1
	MaxGroupSize     = 20
	DefaultGroupSize = 2
)

// DateLayout is the calendar date format used for StartDate and EndDate.
const DateLayout = "2006-01-02"
