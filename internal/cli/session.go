package cli

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/aretw0/wayfarer/internal/presentation/tui"
	"github.com/aretw0/wayfarer/internal/runtime"
	"github.com/aretw0/wayfarer/pkg/domain"
)

// DescribeSession writes a short human summary of a stored session.
func DescribeSession(w io.Writer, view domain.View, state *domain.State) {
	fmt.Fprintf(w, "Session:  %s\n", state.SessionID)
	fmt.Fprintf(w, "Node:     %s\n", runtime.StateNodeID(state))
	if state.Screen == domain.ScreenCollecting {
		fmt.Fprintf(w, "Progress: %s\n", tui.ProgressBar(view.Progress, 20))
	}
	fmt.Fprintf(w, "Revision: %d\n", state.Revision)
	if !state.UpdatedAt.IsZero() {
		fmt.Fprintf(w, "Updated:  %s\n", state.UpdatedAt.Format(time.RFC3339))
	}

	req := state.Request()
	if req == nil {
		return
	}
	fmt.Fprintf(w, "Trip:     %s, %s to %s, %d traveler(s), %s per person\n",
		orDash(req.Destination), orDash(req.StartDate), orDash(req.EndDate),
		req.GroupSize, runtime.FormatRupees(req.BudgetPerPerson))
	if len(req.Interests) > 0 {
		fmt.Fprintf(w, "Likes:    %s\n", strings.Join(req.Interests, ", "))
	}
}

func orDash(s string) string {
	if s == "" {
		return "-"
	}
	return s
}
