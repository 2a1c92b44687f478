package sim

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/dshills/keyhint/internal/input/key"
)

const waitPrefix = "wait:"

// Script is a KeySource that replays a fixed key sequence and returns.
type Script struct {
	steps []string
}

// NewScript creates a script from binding strings and "wait:<duration>"
// entries.
func NewScript(steps []string) *Script {
	return &Script{steps: steps}
}

// Run implements platform.KeySource.
func (s *Script) Run(ctx context.Context, handle func(key.Event) bool) error {
	for i, step := range s.steps {
		if err := ctx.Err(); err != nil {
			return err
		}
		if d, ok := strings.CutPrefix(step, waitPrefix); ok {
			dur, err := time.ParseDuration(d)
			if err != nil {
				return fmt.Errorf("script step %d: %w", i, err)
			}
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-time.After(dur):
			}
			continue
		}
		k, mods, err := key.Parse(fmt.Sprintf("keys[%d]", i), step)
		if err != nil {
			return err
		}
		handle(key.NewEvent(k, mods))
	}
	return nil
}
