package contract

import "time"

type ModelID string

const (
	ModelText ModelID = "text"
	ModelCode ModelID = "code"
)

type Mode int

const (
	ModeInvalid Mode = iota
	ModeSummarize
	ModeFactCheck
	ModeGenerateCode
)

var modeTokens = map[string]Mode{
	"summarize": ModeSummarize,
	"factcheck": ModeFactCheck,
	"code":      ModeGenerateCode,
}

// ParseMode maps one of the literal tokens "summarize", "factcheck" or "code"
// to its Mode. Any other input, including case variants, is ModeInvalid.
func ParseMode(s string) Mode {
	if m, ok := modeTokens[s]; ok {
		return m
	}
	return ModeInvalid
}

func (m Mode) String() string {
	switch m {
	case ModeSummarize:
		return "summarize"
	case ModeFactCheck:
		return "factcheck"
	case ModeGenerateCode:
		return "code"
	default:
		return "invalid"
	}
}

// Modes lists the selectable modes in display order.
func Modes() []Mode {
	return []Mode{ModeSummarize, ModeFactCheck, ModeGenerateCode}
}

type ErrorKind string

const (
	ErrorKindNone       ErrorKind = ""
	ErrorKindSearch     ErrorKind = "search"
	ErrorKindGeneration ErrorKind = "generation"
	ErrorKindInternal   ErrorKind = "internal"
	ErrorKindCanceled   ErrorKind = "canceled"
)

// Result is what the coordinator hands back for every run. Output is always
// user-visible text; Failed tells an adapter failure apart from a normal answer.
type Result struct {
	Mode      string    `json:"mode"`
	Output    string    `json:"output"`
	Failed    bool      `json:"failed"`
	ErrorKind ErrorKind `json:"error_kind,omitempty"`
}

type Record struct {
	ID        string    `json:"id"`
	Query     string    `json:"query"`
	Output    string    `json:"output"`
	Mode      string    `json:"mode,omitempty"`
	Failed    bool      `json:"failed,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}

// InvalidModeMessage is returned for any mode token outside Modes().
const InvalidModeMessage = "Invalid mode. Choose 'summarize', 'factcheck', or 'code'."

var failureMessages = map[Mode]string{
	ModeSummarize:    "Error occurred during summarization.",
	ModeFactCheck:    "Error occurred during fact-checking.",
	ModeGenerateCode: "Error occurred during code generation.",
}

// FailureMessage is the user-visible text that replaces an agent's output
// when its search or generation call fails.
func FailureMessage(m Mode) string {
	if msg, ok := failureMessages[m]; ok {
		return msg
	}
	return InvalidModeMessage
}
