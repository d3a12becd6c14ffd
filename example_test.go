package wayfarer_test

import (
	"context"
	"fmt"
	"log"

	"github.com/aretw0/wayfarer"
	"github.com/aretw0/wayfarer/pkg/domain"
)

// ExampleNew walks the wizard from Landing to Reviewing with the default catalog.
func ExampleNew() {
	eng, err := wayfarer.New()
	if err != nil {
		log.Fatal(err)
	}

	ctx := context.Background()
	state := eng.Start("example")

	events := []domain.Event{
		domain.Start(),
		domain.SetText(domain.FieldDestination, "Goa"),
		domain.Advance(), domain.Advance(), domain.Advance(), domain.Advance(),
		domain.ToggleInterest("food"),
		domain.Advance(),
	}
	for _, ev := range events {
		var outcome domain.Outcome
		state, outcome, err = eng.Dispatch(ctx, state, ev)
		if err != nil {
			log.Fatal(err)
		}
		fmt.Printf("%s -> %s\n", ev, outcome)
	}

	view := eng.Render(state)
	fmt.Println(view.Screen, view.Highlight, view.Request.Interests)

	// Output:
	// start -> started
	// set_field(destination="Goa") -> updated
	// advance -> advanced
	// advance -> advanced
	// advance -> advanced
	// advance -> advanced
	// toggle_interest(food) -> toggled
	// advance -> submitted
	// reviewing Goa [food]
}
