package domain

import (
	"encoding/json"
	"strings"
	"testing"
)

func TestDiff(t *testing.T) {
	collecting := ScreenCollecting
	reviewing := ScreenReviewing
	stepBudget := StepBudget

	draft := DefaultTripRequest()
	draft.Destination = "Goa"

	tests := []struct {
		name         string
		old          *State
		new          *State
		wantNil      bool
		wantScreen   *Screen
		wantStep     *Step
		wantDraft    bool
		wantCleared  bool
		wantFrozen   bool
		wantUnfrozen bool
	}{
		{
			name:       "Initial Load (Old is Nil)",
			old:        nil,
			new:        &State{SessionID: "sess-1", Screen: ScreenCollecting, Draft: draft.Clone()},
			wantScreen: &collecting,
			wantStep:   new(Step),
			wantDraft:  true,
		},
		{
			name:    "No Changes",
			old:     &State{SessionID: "sess-1", Screen: ScreenCollecting, Draft: draft.Clone(), Revision: 3},
			new:     &State{SessionID: "sess-1", Screen: ScreenCollecting, Draft: draft.Clone(), Revision: 3},
			wantNil: true,
		},
		{
			name:     "Cursor Moves",
			old:      &State{SessionID: "sess-1", Screen: ScreenCollecting, Step: StepDates, Draft: draft.Clone()},
			new:      &State{SessionID: "sess-1", Screen: ScreenCollecting, Step: StepBudget, Draft: draft.Clone()},
			wantStep: &stepBudget,
		},
		{
			name:        "Submission Freezes Draft",
			old:         &State{SessionID: "sess-1", Screen: ScreenCollecting, Step: StepInterests, Draft: draft.Clone()},
			new:         &State{SessionID: "sess-1", Screen: ScreenReviewing, Submitted: draft.Clone()},
			wantScreen:  &reviewing,
			wantStep:    new(Step),
			wantCleared: true,
			wantFrozen:  true,
		},
		{
			name:         "Edit Drops Frozen Request",
			old:          &State{SessionID: "sess-1", Screen: ScreenReviewing, Submitted: draft.Clone()},
			new:          &State{SessionID: "sess-1", Screen: ScreenCollecting, Draft: draft.Clone()},
			wantScreen:   &collecting,
			wantDraft:    true,
			wantUnfrozen: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Diff(tt.old, tt.new)
			if tt.wantNil {
				if got != nil {
					t.Errorf("Diff() = %+v, want nil", got)
				}
				return
			}
			if got == nil {
				t.Fatal("Diff() = nil, want a diff")
			}
			if got.SessionID != tt.new.SessionID {
				t.Errorf("Diff().SessionID = %v, want %v", got.SessionID, tt.new.SessionID)
			}
			if !equalPtr(got.Screen, tt.wantScreen) {
				t.Errorf("Diff().Screen = %v, want %v", got.Screen, tt.wantScreen)
			}
			if !equalPtr(got.Step, tt.wantStep) {
				t.Errorf("Diff().Step = %v, want %v", got.Step, tt.wantStep)
			}
			if (got.Draft != nil) != tt.wantDraft {
				t.Errorf("Diff().Draft = %v, want present=%v", got.Draft, tt.wantDraft)
			}
			if got.DraftCleared != tt.wantCleared {
				t.Errorf("Diff().DraftCleared = %v, want %v", got.DraftCleared, tt.wantCleared)
			}
			if (got.Submitted != nil) != tt.wantFrozen {
				t.Errorf("Diff().Submitted = %v, want present=%v", got.Submitted, tt.wantFrozen)
			}
			if got.SubmittedCleared != tt.wantUnfrozen {
				t.Errorf("Diff().SubmittedCleared = %v, want %v", got.SubmittedCleared, tt.wantUnfrozen)
			}
		})
	}
}

func TestDiff_InterestOrderIsNotAChange(t *testing.T) {
	a := DefaultTripRequest()
	a.Interests = []string{"food", "culture"}
	b := DefaultTripRequest()
	b.Interests = []string{"culture", "food"}

	old := &State{SessionID: "s", Screen: ScreenCollecting, Draft: a}
	cur := &State{SessionID: "s", Screen: ScreenCollecting, Draft: b}

	if d := Diff(old, cur); d != nil {
		t.Errorf("expected no diff for reordered interests, got %+v", d)
	}
}

func TestDiffJSONSerialization(t *testing.T) {
	t.Run("Unchanged Draft Omitted", func(t *testing.T) {
		old := &State{Screen: ScreenCollecting, Step: StepDates, Draft: DefaultTripRequest()}
		cur := &State{Screen: ScreenCollecting, Step: StepBudget, Draft: DefaultTripRequest()}
		diff := Diff(old, cur)
		if diff == nil {
			t.Fatal("Expected diff, got nil")
		}

		bytes, _ := json.Marshal(diff)
		if strings.Contains(string(bytes), `"draft"`) {
			t.Errorf("JSON should not contain 'draft' when unchanged, got: %s", string(bytes))
		}
	})

	t.Run("Discard Flagged", func(t *testing.T) {
		old := &State{Screen: ScreenCollecting, Draft: DefaultTripRequest()}
		cur := &State{Screen: ScreenLanding}
		diff := Diff(old, cur)
		if diff == nil {
			t.Fatal("Expected diff, got nil")
		}

		bytes, _ := json.Marshal(diff)
		if !strings.Contains(string(bytes), `"draft_cleared":true`) {
			t.Errorf("JSON should flag the discarded draft, got: %s", string(bytes))
		}
	})
}

func equalPtr[T comparable](a, b *T) bool {
	if a == nil && b == nil {
		return true
	}
	if a == nil || b == nil {
		return false
	}
	return *a == *b
}
