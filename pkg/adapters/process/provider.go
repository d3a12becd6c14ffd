package process

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os/exec"
	"strconv"
	"strings"
	"time"

	"github.com/aretw0/wayfarer/pkg/domain"
	"github.com/aretw0/wayfarer/pkg/ports"
)

// DefaultTimeout bounds a single planner run.
const DefaultTimeout = 30 * time.Second

// ErrPlannerFailed wraps every failure of the external planner.
var ErrPlannerFailed = errors.New("itinerary planner failed")

// Provider is an ItineraryProvider that runs one trusted local command.
// The command is fixed at construction; nothing from the trip request reaches its argv.
// The request is passed through environment variables and the command must print
// an itinerary as JSON on stdout.
type Provider struct {
	command string
	args    []string
	dir     string
	timeout time.Duration
}

var _ ports.ItineraryProvider = (*Provider)(nil)

// Option configures the provider.
type Option func(*Provider)

// WithBaseDir sets the working directory for the planner process.
func WithBaseDir(dir string) Option {
	return func(p *Provider) {
		p.dir = dir
	}
}

// WithTimeout bounds each run. Zero disables the bound.
func WithTimeout(d time.Duration) Option {
	return func(p *Provider) {
		p.timeout = d
	}
}

// NewProvider creates a provider for the given command line.
func NewProvider(command string, args []string, opts ...Option) *Provider {
	p := &Provider{
		command: command,
		args:    args,
		timeout: DefaultTimeout,
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Generate implements ports.ItineraryProvider.
func (p *Provider) Generate(ctx context.Context, req domain.TripRequest) (*domain.Itinerary, error) {
	if p.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, p.timeout)
		defer cancel()
	}

	env, err := requestEnv(req)
	if err != nil {
		return nil, err
	}

	cmd := exec.CommandContext(ctx, p.command, p.args...)
	cmd.Dir = p.dir
	cmd.Env = append(cmd.Environ(), env...)
	// Children that inherit stdout would otherwise keep Run blocked past the deadline.
	cmd.WaitDelay = time.Second

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		return nil, fmt.Errorf("%w: %v. Stderr: %s", ErrPlannerFailed, err, strings.TrimSpace(stderr.String()))
	}

	var it domain.Itinerary
	if err := json.Unmarshal(bytes.TrimSpace(stdout.Bytes()), &it); err != nil {
		return nil, fmt.Errorf("%w: output is not an itinerary: %v", ErrPlannerFailed, err)
	}
	if it.Destination == "" {
		it.Destination = req.Destination
	}
	if it.Travelers == 0 {
		it.Travelers = req.GroupSize
	}
	return &it, nil
}

// requestEnv flattens the request into WAYFARER_TRIP_* variables, plus the whole request as JSON.
func requestEnv(req domain.TripRequest) ([]string, error) {
	raw, err := json.Marshal(req)
	if err != nil {
		return nil, fmt.Errorf("failed to encode request: %w", err)
	}
	return []string{
		"WAYFARER_TRIP_REQUEST=" + string(raw),
		"WAYFARER_TRIP_DESTINATION=" + req.Destination,
		"WAYFARER_TRIP_START_DATE=" + req.StartDate,
		"WAYFARER_TRIP_END_DATE=" + req.EndDate,
		"WAYFARER_TRIP_BUDGET_PER_PERSON=" + strconv.Itoa(req.BudgetPerPerson),
		"WAYFARER_TRIP_GROUP_SIZE=" + strconv.Itoa(req.GroupSize),
		"WAYFARER_TRIP_INTERESTS=" + strings.Join(req.Interests, ","),
	}, nil
}
