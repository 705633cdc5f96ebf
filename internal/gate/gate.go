// Package gate implements the shared-passphrase check that fronts the
// application and selected mutations. It keeps honest users from editing by
// accident; it is not an access control mechanism.
package gate

import (
	"context"
	"errors"
	"time"
)

const DefaultPassphrase = "Loki1loki"

var (
	ErrInvalidPassphrase = errors.New("invalid password")
	// ErrCancelled is returned by a Prompter when the user backs out.
	ErrCancelled = errors.New("cancelled")
)

// Prompter asks the user for the passphrase. Retry is true after a failed attempt.
type Prompter interface {
	Passphrase(ctx context.Context, title, description string, retry bool) (string, error)
}

type Gate struct {
	Passphrase   string
	ScreenDelay  time.Duration
	ConfirmDelay time.Duration
	// MaxAttempts bounds Confirm retries; zero means three.
	MaxAttempts int
}

func New(passphrase string) Gate {
	if passphrase == "" {
		passphrase = DefaultPassphrase
	}
	return Gate{
		Passphrase:   passphrase,
		ScreenDelay:  800 * time.Millisecond,
		ConfirmDelay: 500 * time.Millisecond,
		MaxAttempts:  3,
	}
}

func sleep(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}

func (g Gate) compare(ctx context.Context, input string, delay time.Duration) error {
	if err := sleep(ctx, delay); err != nil {
		return err
	}
	if input != g.Passphrase {
		return ErrInvalidPassphrase
	}
	return nil
}

// Check is the entry screen: input must equal the passphrase exactly.
func (g Gate) Check(ctx context.Context, input string) error {
	return g.compare(ctx, input, g.ScreenDelay)
}

// Confirm prompts for the passphrase and runs action once it matches.
// The action never runs after a cancelled or exhausted prompt.
func (g Gate) Confirm(ctx context.Context, p Prompter, title, description string, action func(context.Context) error) error {
	attempts := g.MaxAttempts
	if attempts <= 0 {
		attempts = 3
	}
	var err error
	for i := 0; i < attempts; i++ {
		var input string
		input, err = p.Passphrase(ctx, title, description, i > 0)
		if err != nil {
			return err
		}
		err = g.compare(ctx, input, g.ConfirmDelay)
		if err == nil {
			return action(ctx)
		}
		if !errors.Is(err, ErrInvalidPassphrase) {
			return err
		}
	}
	return err
}

// Static answers every prompt with the same value. It backs non-interactive
// callers that supply the passphrase up front.
type Static string

func (s Static) Passphrase(context.Context, string, string, bool) (string, error) {
	return string(s), nil
}
