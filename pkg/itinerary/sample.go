package itinerary

import (
	"context"
	"fmt"
	"strings"

	"github.com/aretw0/wayfarer/pkg/catalog"
	"github.com/aretw0/wayfarer/pkg/domain"
	"github.com/aretw0/wayfarer/pkg/ports"
)

const (
	// DefaultDays is used when the request has no usable date range.
	DefaultDays = 3
	// MaxDays caps generated plans.
	MaxDays = 14
)

var slots = []string{"09:00", "11:00", "14:00", "18:00"}

// activityTitles are the per-interest activity templates; %s is the destination.
var activityTitles = map[string][]string{
	"adventure": {"Guided trek around %s", "Water sports near %s", "Zip-lining outside %s"},
	"culture":   {"Heritage walk in %s", "Museum visit in %s", "Local temple tour in %s"},
	"food":      {"Street food crawl in %s", "Cooking class in %s", "Dinner at a landmark restaurant in %s"},
	"shopping":  {"Market bazaar in %s", "Handicraft stores in %s", "Mall afternoon in %s"},
	"nightlife": {"Rooftop bar in %s", "Live music in %s", "Night market in %s"},
	"nature":    {"Sunrise viewpoint in %s", "Botanical garden in %s", "Lakeside walk in %s"},
}

var fallbackInterests = []string{"culture", "food"}

// SampleProvider builds a plausible itinerary from the request alone.
type SampleProvider struct {
	catalog *catalog.Catalog
}

var _ ports.ItineraryProvider = (*SampleProvider)(nil)

// NewSampleProvider creates a provider. A nil catalog uses the built-in one for labels.
func NewSampleProvider(c *catalog.Catalog) *SampleProvider {
	if c == nil {
		c = catalog.Default()
	}
	return &SampleProvider{catalog: c}
}

// Generate implements ports.ItineraryProvider.
func (p *SampleProvider) Generate(ctx context.Context, req domain.TripRequest) (*domain.Itinerary, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	days := req.Days()
	if days <= 0 {
		days = DefaultDays
	}
	days = min(days, MaxDays)

	travelers := max(req.GroupSize, domain.MinGroupSize)
	destination := strings.TrimSpace(req.Destination)
	if destination == "" {
		destination = "your destination"
	}

	themes := req.Interests
	if len(themes) == 0 {
		themes = fallbackInterests
	}

	total := req.BudgetPerPerson * travelers
	perDay := splitEven(total, days)

	start, _ := domain.ParseDate(req.StartDate)

	it := &domain.Itinerary{
		Destination: destination,
		Travelers:   travelers,
		Days:        make([]domain.DayPlan, 0, days),
	}

	for d := range days {
		theme := themes[d%len(themes)]
		plan := domain.DayPlan{
			Day:   d + 1,
			Title: fmt.Sprintf("Day %d: %s", d+1, p.catalog.Label(theme)),
		}
		if !start.IsZero() {
			plan.Date = start.AddDate(0, 0, d).Format(domain.DateLayout)
		}

		costs := splitEven(perDay[d], len(slots))
		for i, slot := range slots {
			tag := themes[(d+i)%len(themes)]
			plan.Activities = append(plan.Activities, domain.Activity{
				Time:     slot,
				Title:    activityTitle(tag, destination, d+i),
				Interest: tag,
				Cost:     costs[i],
			})
			plan.TotalCost += costs[i]
		}

		it.Days = append(it.Days, plan)
		it.TotalCost += plan.TotalCost
	}

	return it, nil
}

func activityTitle(tag, destination string, n int) string {
	titles, ok := activityTitles[tag]
	if !ok {
		return fmt.Sprintf("Explore %s: %s", tag, destination)
	}
	return fmt.Sprintf(titles[n%len(titles)], destination)
}

// splitEven divides total into n parts, giving the remainder to the last one.
func splitEven(total, n int) []int {
	parts := make([]int, n)
	if n == 0 {
		return parts
	}
	each := total / n
	for i := range parts {
		parts[i] = each
	}
	parts[n-1] += total - each*n
	return parts
}

// Generate is a convenience that only accepts a state whose request has been submitted.
func Generate(ctx context.Context, p ports.ItineraryProvider, s *domain.State) (*domain.Itinerary, error) {
	if s == nil || s.Screen != domain.ScreenReviewing || s.Submitted == nil {
		return nil, domain.ErrNotSubmitted
	}
	return p.Generate(ctx, *s.Submitted.Clone())
}
