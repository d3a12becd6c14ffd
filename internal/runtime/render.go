package runtime

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/aretw0/wayfarer/pkg/catalog"
	"github.com/aretw0/wayfarer/pkg/domain"
)

// Forward affordance labels.
const (
	ForwardNext     = "Next"
	ForwardGenerate = "Generate Itinerary"
)

// Render builds the read-only presentation of a state. It never mutates s.
// A nil catalog renders with the built-in one.
func Render(s *domain.State, c *catalog.Catalog) domain.View {
	if s == nil {
		s = domain.NewState("")
	}
	if c == nil {
		c = catalog.Default()
	}

	view := domain.View{
		SessionID: s.SessionID,
		Screen:    s.Screen,
		Allowed:   Allowed(s.Screen),
	}

	if req := s.Request(); req != nil {
		view.Request = req.Clone()
		if d, ok := c.Match(req.Destination); ok {
			view.Highlight = d.Name
		}
	}

	if s.Screen == domain.ScreenCollecting {
		step := s.Step
		view.Step = &step
		view.StepName = step.String()
		view.StepTitle = step.Title()
		view.Progress = Progress(step)
		view.Forward = Forward(step)
		view.Options = options(step, view.Request, c)
	}

	view.Markdown = renderMarkdown(view, c)
	return view
}

// Progress is the percentage shown on the progress bar for a collecting step.
func Progress(step domain.Step) int {
	if !step.Valid() {
		return 0
	}
	return (int(step) + 1) * 100 / domain.StepCount
}

// Forward returns the label of the single forward affordance for a step.
func Forward(step domain.Step) string {
	if step >= domain.LastStep {
		return ForwardGenerate
	}
	return ForwardNext
}

func options(step domain.Step, req *domain.TripRequest, c *catalog.Catalog) []domain.Option {
	switch step {
	case domain.StepDestination:
		opts := make([]domain.Option, 0, len(c.Destinations))
		for _, d := range c.Destinations {
			selected := false
			if req != nil {
				if m, ok := c.Match(req.Destination); ok && m.Name == d.Name {
					selected = true
				}
			}
			opts = append(opts, domain.Option{ID: d.Name, Label: d.Name, Selected: selected})
		}
		return opts
	case domain.StepInterests:
		opts := make([]domain.Option, 0, len(c.Interests))
		for _, i := range c.Interests {
			opts = append(opts, domain.Option{
				ID:       i.ID,
				Label:    i.Label,
				Selected: req != nil && req.HasInterest(i.ID),
			})
		}
		return opts
	}
	return nil
}

func renderMarkdown(v domain.View, c *catalog.Catalog) string {
	var b strings.Builder
	switch v.Screen {
	case domain.ScreenLanding:
		b.WriteString("# Plan your next trip\n\n")
		b.WriteString("Tell us where, when and how you like to travel, and we will draft a day-by-day itinerary.\n")

	case domain.ScreenCollecting:
		fmt.Fprintf(&b, "## %s\n\n", v.StepTitle)
		fmt.Fprintf(&b, "Step %d of %d (%d%%)\n\n", int(*v.Step)+1, domain.StepCount, v.Progress)
		writeStepBody(&b, *v.Step, v, c)
		fmt.Fprintf(&b, "\n**%s** to continue.\n", v.Forward)

	case domain.ScreenReviewing:
		b.WriteString("# Your trip\n\n")
		writeSummary(&b, v.Request, v.Highlight, c)
	}
	return b.String()
}

func writeStepBody(b *strings.Builder, step domain.Step, v domain.View, c *catalog.Catalog) {
	req := v.Request
	if req == nil {
		req = domain.DefaultTripRequest()
	}
	switch step {
	case domain.StepDestination:
		fmt.Fprintf(b, "Destination: %s\n", orDash(req.Destination))
		if v.Highlight != "" {
			if d, ok := c.Match(v.Highlight); ok && d.Description != "" {
				fmt.Fprintf(b, "\n> **%s**: %s\n", d.Name, d.Description)
			}
		}
		writeOptions(b, "Popular", v.Options)
	case domain.StepDates:
		fmt.Fprintf(b, "- Start: %s\n- End: %s\n", orDash(req.StartDate), orDash(req.EndDate))
	case domain.StepBudget:
		fmt.Fprintf(b, "%s per person (%s to %s)\n",
			FormatRupees(req.BudgetPerPerson),
			FormatRupees(domain.MinBudgetPerPerson), FormatRupees(domain.MaxBudgetPerPerson))
	case domain.StepGroup:
		fmt.Fprintf(b, "%s (%d to %d)\n", travelers(req.GroupSize), domain.MinGroupSize, domain.MaxGroupSize)
	case domain.StepInterests:
		writeOptions(b, "Pick any", v.Options)
	}
}

func writeOptions(b *strings.Builder, heading string, opts []domain.Option) {
	if len(opts) == 0 {
		return
	}
	fmt.Fprintf(b, "\n%s:\n\n", heading)
	for _, o := range opts {
		mark := " "
		if o.Selected {
			mark = "x"
		}
		fmt.Fprintf(b, "- [%s] %s (`%s`)\n", mark, o.Label, o.ID)
	}
}

func writeSummary(b *strings.Builder, req *domain.TripRequest, highlight string, c *catalog.Catalog) {
	if req == nil {
		return
	}
	dest := orDash(req.Destination)
	if highlight != "" {
		dest = "**" + highlight + "**"
	}
	fmt.Fprintf(b, "- Destination: %s\n", dest)
	fmt.Fprintf(b, "- Dates: %s to %s\n", orDash(req.StartDate), orDash(req.EndDate))
	fmt.Fprintf(b, "- Budget: %s per person\n", FormatRupees(req.BudgetPerPerson))
	fmt.Fprintf(b, "- Group: %s\n", travelers(req.GroupSize))

	labels := make([]string, 0, len(req.Interests))
	for _, id := range req.Interests {
		labels = append(labels, c.Label(id))
	}
	fmt.Fprintf(b, "- Interests: %s\n", orDash(strings.Join(labels, ", ")))
}

// FormatRupees renders an amount grouped in thousands, e.g. ₹50,000.
func FormatRupees(amount int) string {
	sign := ""
	if amount < 0 {
		sign = "-"
		amount = -amount
	}
	digits := strconv.Itoa(amount)
	var out []byte
	for i := range len(digits) {
		if i > 0 && (len(digits)-i)%3 == 0 {
			out = append(out, ',')
		}
		out = append(out, digits[i])
	}
	return sign + "₹" + string(out)
}

func travelers(n int) string {
	if n == 1 {
		return "1 traveler"
	}
	return fmt.Sprintf("%d travelers", n)
}

func orDash(s string) string {
	if strings.TrimSpace(s) == "" {
		return "-"
	}
	return s
}
