package source

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"os/exec"
	"strings"
	"time"

	"github.com/okian/securescore/internal/domain/record"
)

// Default command source configuration constants.
const (
	defaultBinary    = "az"
	defaultScoreName = "ascScore"
	defaultTimeout   = 60 * time.Second
)

// Runner executes a command and returns its standard output.
type Runner func(ctx context.Context, name string, args ...string) ([]byte, error)

// CommandSource asks the Azure CLI for the secure score of a subscription.
// Authentication is whatever session the CLI already holds.
type CommandSource struct {
	binary         string
	subscriptionID string
	scoreName      string
	timeout        time.Duration
	clock          Clock
	run            Runner
}

// NewCommandSource creates a source for the given subscription.
func NewCommandSource(subscriptionID string, opts ...CommandOption) (*CommandSource, error) {
	if err := ValidateSubscriptionID(subscriptionID); err != nil {
		return nil, err
	}
	s := &CommandSource{
		binary:         defaultBinary,
		subscriptionID: subscriptionID,
		scoreName:      defaultScoreName,
		timeout:        defaultTimeout,
		clock:          LocalClock,
		run:            execRunner,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s, nil
}

// Args returns the CLI arguments used by Fetch.
func (s *CommandSource) Args() []string {
	return []string{
		"security", "secure-scores", "show",
		"--name", s.scoreName,
		"--subscription", s.subscriptionID,
		"--output", "json",
	}
}

// Fetch runs the CLI and converts its answer into a record.
func (s *CommandSource) Fetch(ctx context.Context) (record.Fields, error) {
	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	out, err := s.run(ctx, s.binary, s.Args()...)
	if err != nil {
		return record.Fields{}, fmt.Errorf("%w: %s: %w", ErrSource, s.binary, err)
	}
	reading, err := s.parse(out)
	if err != nil {
		return record.Fields{}, err
	}
	rec, err := reading.Record(s.clock())
	if err != nil {
		return record.Fields{}, err
	}
	return rec.Fields(), nil
}

// secureScore is the subset of the secure score resource we read. The CLI
// flattens "properties" into the top level; the REST shape keeps it.
type secureScore struct {
	ID         string       `json:"id"`
	Name       string       `json:"name"`
	Score      *scoreValues `json:"score"`
	Properties *struct {
		Score *scoreValues `json:"score"`
	} `json:"properties"`
}

type scoreValues struct {
	Current *float64 `json:"current"`
	Max     *float64 `json:"max"`
}

func (s *CommandSource) parse(out []byte) (Reading, error) {
	var resp secureScore
	if err := json.Unmarshal(out, &resp); err != nil {
		return Reading{}, fmt.Errorf("%w: decode secure score: %w", ErrSource, err)
	}
	values := resp.Score
	if values == nil && resp.Properties != nil {
		values = resp.Properties.Score
	}
	if values == nil || values.Current == nil || values.Max == nil {
		return Reading{}, fmt.Errorf("%w: secure score has no current/max values", ErrSource)
	}

	name := resp.Name
	if name == "" {
		name = s.scoreName
	}
	sub := subscriptionFromID(resp.ID)
	if sub == "" {
		sub = s.subscriptionID
	}
	return Reading{Current: *values.Current, Max: *values.Max, Name: name, SubscriptionID: sub}, nil
}

// subscriptionFromID extracts the subscription segment of an ARM resource id.
func subscriptionFromID(id string) string {
	parts := strings.Split(strings.Trim(id, "/"), "/")
	for i := 0; i+1 < len(parts); i++ {
		if strings.EqualFold(parts[i], "subscriptions") {
			return parts[i+1]
		}
	}
	return ""
}

func execRunner(ctx context.Context, name string, args ...string) ([]byte, error) {
	cmd := exec.CommandContext(ctx, name, args...)
	var stderr bytes.Buffer
	cmd.Stderr = &stderr
	out, err := cmd.Output()
	if err != nil {
		if msg := strings.TrimSpace(stderr.String()); msg != "" {
			return nil, fmt.Errorf("%w: %s", err, msg)
		}
		return nil, err
	}
	return out, nil
}
