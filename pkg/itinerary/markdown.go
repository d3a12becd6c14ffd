package itinerary

import (
	"fmt"
	"strings"

	"github.com/aretw0/wayfarer/internal/runtime"
	"github.com/aretw0/wayfarer/pkg/domain"
)

// Markdown renders an itinerary for text frontends.
func Markdown(it *domain.Itinerary) string {
	if it == nil {
		return ""
	}

	var b strings.Builder
	fmt.Fprintf(&b, "# %d days in %s\n\n", len(it.Days), it.Destination)
	fmt.Fprintf(&b, "%d traveler(s), total %s\n", it.Travelers, runtime.FormatRupees(it.TotalCost))

	for _, day := range it.Days {
		b.WriteString("\n## ")
		b.WriteString(day.Title)
		if day.Date != "" {
			fmt.Fprintf(&b, " (%s)", day.Date)
		}
		b.WriteString("\n\n")
		for _, a := range day.Activities {
			fmt.Fprintf(&b, "- %s %s, %s\n", a.Time, a.Title, runtime.FormatRupees(a.Cost))
		}
	}
	return b.String()
}
