package gate_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"dropline/internal/gate"
)

func quickGate() gate.Gate {
	g := gate.New("")
	g.ScreenDelay = 0
	g.ConfirmDelay = 0
	return g
}

func TestCheck(t *testing.T) {
	g := quickGate()
	ctx := context.Background()
	if err := g.Check(ctx, "Loki1loki"); err != nil {
		t.Fatalf("expected success, got %v", err)
	}
	for _, in := range []string{"loki1loki", "Loki1loki ", ""} {
		if err := g.Check(ctx, in); !errors.Is(err, gate.ErrInvalidPassphrase) {
			t.Fatalf("%q: expected ErrInvalidPassphrase, got %v", in, err)
		}
	}
}

func TestCheckHonoursContext(t *testing.T) {
	g := gate.New("secret")
	g.ScreenDelay = time.Minute
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if err := g.Check(ctx, "secret"); !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context.Canceled, got %v", err)
	}
}

type scripted struct {
	answers []string
	retries []bool
	err     error
}

func (s *scripted) Passphrase(_ context.Context, _, _ string, retry bool) (string, error) {
	s.retries = append(s.retries, retry)
	if s.err != nil {
		return "", s.err
	}
	a := s.answers[0]
	s.answers = s.answers[1:]
	return a, nil
}

func TestConfirm(t *testing.T) {
	ctx := context.Background()
	g := quickGate()

	ran := 0
	action := func(context.Context) error { ran++; return nil }

	p := &scripted{answers: []string{"wrong", "Loki1loki"}}
	if err := g.Confirm(ctx, p, "Delete Episode", "Enter password to delete", action); err != nil {
		t.Fatalf("confirm: %v", err)
	}
	if ran != 1 || len(p.retries) != 2 || p.retries[0] || !p.retries[1] {
		t.Fatalf("ran=%d retries=%v", ran, p.retries)
	}

	p = &scripted{answers: []string{"a", "b", "c"}}
	if err := g.Confirm(ctx, p, "", "", action); !errors.Is(err, gate.ErrInvalidPassphrase) {
		t.Fatalf("expected ErrInvalidPassphrase, got %v", err)
	}
	if ran != 1 {
		t.Fatalf("action ran after failed confirmation")
	}

	p = &scripted{err: gate.ErrCancelled}
	if err := g.Confirm(ctx, p, "", "", action); !errors.Is(err, gate.ErrCancelled) {
		t.Fatalf("expected ErrCancelled, got %v", err)
	}

	boom := errors.New("boom")
	if err := g.Confirm(ctx, gate.Static("Loki1loki"), "", "", func(context.Context) error { return boom }); !errors.Is(err, boom) {
		t.Fatalf("action error should propagate, got %v", err)
	}
}
