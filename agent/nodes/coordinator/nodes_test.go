package coordinatornode

import (
	"errors"
	"fmt"
	"testing"
	"time"

	contractx "github.com/tanpawarit/research-assistant/agent/contract"
)

func TestPolicy(t *testing.T) {
	t.Parallel()

	cases := []struct {
		name     string
		mode     contractx.Mode
		output   string
		err      error
		want     string
		wantFail bool
		wantKind contractx.ErrorKind
	}{
		{"success verbatim", contractx.ModeSummarize, "  three sentences ", nil, "  three sentences ", false, contractx.ErrorKindNone},
		{"false verdict is not a failure", contractx.ModeFactCheck, "False. It is not.", nil, "False. It is not.", false, contractx.ErrorKindNone},
		{"fact-check search failure", contractx.ModeFactCheck, "", fmt.Errorf("%w: timeout", contractx.ErrSearch), "Error occurred during fact-checking.", true, contractx.ErrorKindSearch},
		{"fact-check generation failure", contractx.ModeFactCheck, "", contractx.ErrGeneration, "Error occurred during fact-checking.", true, contractx.ErrorKindGeneration},
		{"summarize failure", contractx.ModeSummarize, "", contractx.ErrGeneration, "Error occurred during summarization.", true, contractx.ErrorKindGeneration},
		{"code failure", contractx.ModeGenerateCode, "", errors.New("boom"), "Error occurred during code generation.", true, contractx.ErrorKindInternal},
		{"invalid mode", contractx.ModeInvalid, "", nil, contractx.InvalidModeMessage, false, contractx.ErrorKindNone},
	}

	for _, tc := range cases {
		got := Policy(tc.mode, tc.output, tc.err)
		if got.Output != tc.want || got.Failed != tc.wantFail || got.ErrorKind != tc.wantKind {
			t.Fatalf("%s: Policy() = %+v", tc.name, got)
		}
		if got.Mode != tc.mode.String() {
			t.Fatalf("%s: mode = %q", tc.name, got.Mode)
		}
	}
}

func TestValidateRequestKeepsInput(t *testing.T) {
	t.Parallel()

	now := time.Date(2024, 1, 2, 3, 4, 5, 0, time.FixedZone("x", 3600))
	st, err := ValidateRequest(GraphInput{User: " alice ", Query: " q ", Mode: contractx.ModeInvalid, RawMode: "Translate"}, func() time.Time { return now })
	if err != nil {
		t.Fatalf("ValidateRequest() error = %v", err)
	}
	if st.User != " alice " || st.Query != " q " {
		t.Fatalf("input altered: %+v", st)
	}
	if st.RawMode != "Translate" {
		t.Fatalf("raw mode lost: %q", st.RawMode)
	}
	if st.Now.Location() != time.UTC || !st.Now.Equal(now) {
		t.Fatalf("unexpected now: %v", st.Now)
	}
}

func TestNodesRejectNilState(t *testing.T) {
	t.Parallel()

	if _, err := ApplyPolicy(nil); !errors.Is(err, ErrNilState) {
		t.Fatalf("ApplyPolicy(nil) error = %v", err)
	}
	if _, err := Finalize(nil); !errors.Is(err, ErrNilState) {
		t.Fatalf("Finalize(nil) error = %v", err)
	}
}
