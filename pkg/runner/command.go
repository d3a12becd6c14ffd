package runner

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/aretw0/wayfarer/pkg/domain"
)

// ErrUnknownCommand is returned for input that is neither a command nor a JSON event.
var ErrUnknownCommand = errors.New("unknown command")

// CommandKind tells the Runner what to do with a parsed line.
type CommandKind int

const (
	// CommandEvent dispatches Command.Event to the engine.
	CommandEvent CommandKind = iota
	// CommandShow re-renders the current view.
	CommandShow
	// CommandItinerary prints the itinerary of a submitted request.
	CommandItinerary
	// CommandHelp prints the command reference.
	CommandHelp
	// CommandQuit ends the loop. The session stays in the store.
	CommandQuit
)

// Command is one parsed line of input.
type Command struct {
	Kind  CommandKind
	Event domain.Event
}

// Help is the command reference printed by the help command.
const Help = `Commands:
  start                  begin planning
  next                   continue (generates the itinerary on the last step)
  back                   previous step
  set <field> <value>    destination, start, end, budget, group
  clear <field>          empty destination, start or end
  toggle <tag>           add or remove an interest
  edit                   change a submitted request
  restart                discard everything and start over
  show                   print the current screen
  itinerary              print the generated plan
  quit                   leave (the session is kept)`

// ParseCommand turns a sanitized line into a Command.
// Lines starting with '{' are decoded as a JSON domain.Event, so JSON frontends
// can send the same payloads the HTTP API accepts.
func ParseCommand(line string) (Command, error) {
	line = strings.TrimSpace(line)
	if line == "" {
		return Command{Kind: CommandShow}, nil
	}
	if strings.HasPrefix(line, "{") {
		return parseJSONEvent(line)
	}

	verb, rest, _ := strings.Cut(line, " ")
	rest = strings.TrimSpace(rest)

	switch strings.ToLower(verb) {
	case "start", "begin":
		return event(domain.Start()), nil
	case "next", "n", "forward", "generate":
		return event(domain.Advance()), nil
	case "back", "b", "prev":
		return event(domain.Retreat()), nil
	case "edit":
		return event(domain.Edit()), nil
	case "restart", "reset":
		return event(domain.Restart()), nil
	case "toggle", "t":
		if rest == "" {
			return Command{}, fmt.Errorf("%w: usage: toggle <tag>", domain.ErrInvalidValue)
		}
		return event(domain.ToggleInterest(strings.ToLower(rest))), nil
	case "set":
		return parseSet(rest)
	case "clear", "unset":
		return parseClear(rest)
	case "show", "view", "s":
		return Command{Kind: CommandShow}, nil
	case "itinerary", "plan":
		return Command{Kind: CommandItinerary}, nil
	case "help", "?", "h":
		return Command{Kind: CommandHelp}, nil
	case "quit", "exit", "q":
		return Command{Kind: CommandQuit}, nil
	}
	return Command{}, fmt.Errorf("%w: %q (type 'help')", ErrUnknownCommand, verb)
}

func event(ev domain.Event) Command {
	return Command{Kind: CommandEvent, Event: ev}
}

func parseSet(args string) (Command, error) {
	name, value, _ := strings.Cut(args, " ")
	value = strings.TrimSpace(value)
	if name == "" || value == "" {
		return Command{}, fmt.Errorf("%w: usage: set <field> <value>", domain.ErrInvalidValue)
	}

	field, err := domain.ParseField(name)
	if err != nil {
		return Command{}, err
	}

	if field.Numeric() {
		n, err := parseAmount(value)
		if err != nil {
			return Command{}, fmt.Errorf("%w: %s must be a whole number, got %q", domain.ErrInvalidValue, field, value)
		}
		return event(domain.SetNumber(field, n)), nil
	}

	ev := domain.SetText(field, value)
	if err := ev.Validate(); err != nil {
		return Command{}, err
	}
	return event(ev), nil
}

func parseClear(name string) (Command, error) {
	if name == "" {
		return Command{}, fmt.Errorf("%w: usage: clear <field>", domain.ErrInvalidValue)
	}
	field, err := domain.ParseField(name)
	if err != nil {
		return Command{}, err
	}
	if field.Numeric() {
		return Command{}, fmt.Errorf("%w: %s cannot be cleared, set a number instead", domain.ErrInvalidValue, field)
	}
	return event(domain.SetText(field, "")), nil
}

// parseAmount accepts "75000", "75,000", "75_000" and "₹75,000".
func parseAmount(v string) (int, error) {
	v = strings.TrimPrefix(v, "₹")
	v = strings.NewReplacer(",", "", "_", "").Replace(v)
	return strconv.Atoi(v)
}

func parseJSONEvent(line string) (Command, error) {
	dec := json.NewDecoder(bytes.NewReader([]byte(line)))
	dec.DisallowUnknownFields()

	var ev domain.Event
	if err := dec.Decode(&ev); err != nil {
		return Command{}, fmt.Errorf("%w: malformed event: %v", domain.ErrInvalidValue, err)
	}
	if err := ev.Validate(); err != nil {
		return Command{}, err
	}
	return event(ev), nil
}
