package contract

import (
	"context"
	"errors"
	"fmt"
	"testing"
)

func TestParseModeTokens(t *testing.T) {
	t.Parallel()

	cases := map[string]Mode{
		"summarize": ModeSummarize,
		"factcheck": ModeFactCheck,
		"code":      ModeGenerateCode,
		"":          ModeInvalid,
		"Summarize": ModeInvalid,
		" code":     ModeInvalid,
		"translate": ModeInvalid,
	}
	for in, want := range cases {
		if got := ParseMode(in); got != want {
			t.Fatalf("ParseMode(%q) = %v, want %v", in, got, want)
		}
	}
}

func TestModeStringRoundTrip(t *testing.T) {
	t.Parallel()

	for _, m := range Modes() {
		if got := ParseMode(m.String()); got != m {
			t.Fatalf("ParseMode(%q) = %v, want %v", m.String(), got, m)
		}
	}
	if ModeInvalid.String() != "invalid" {
		t.Fatalf("unexpected invalid string: %s", ModeInvalid.String())
	}
}

func TestKindOf(t *testing.T) {
	t.Parallel()

	if KindOf(nil) != ErrorKindNone {
		t.Fatal("nil error must have no kind")
	}
	if got := KindOf(fmt.Errorf("%w: quota", ErrSearch)); got != ErrorKindSearch {
		t.Fatalf("unexpected kind: %s", got)
	}
	if got := KindOf(fmt.Errorf("%w: empty text", ErrGeneration)); got != ErrorKindGeneration {
		t.Fatalf("unexpected kind: %s", got)
	}
	if got := KindOf(fmt.Errorf("graph: %w", context.Canceled)); got != ErrorKindCanceled {
		t.Fatalf("unexpected kind: %s", got)
	}
	if got := KindOf(context.DeadlineExceeded); got != ErrorKindCanceled {
		t.Fatalf("unexpected kind: %s", got)
	}
	if got := KindOf(errors.New("boom")); got != ErrorKindInternal {
		t.Fatalf("unexpected kind: %s", got)
	}
}

func TestFailureMessage(t *testing.T) {
	t.Parallel()

	if got := FailureMessage(ModeFactCheck); got != "Error occurred during fact-checking." {
		t.Fatalf("fact-check failure text = %q", got)
	}
	for _, m := range Modes() {
		if FailureMessage(m) == InvalidModeMessage {
			t.Fatalf("mode %s has no failure text", m)
		}
	}
	if got := FailureMessage(ModeInvalid); got != InvalidModeMessage {
		t.Fatalf("invalid mode text = %q", got)
	}
}
