package strategy

import (
	"log/slog"
	"os"
	"strings"
	"sync/atomic"

	"github.com/erraggy/apiparser/apierrors"
)

// Mode selects a strategy.
type Mode string

const (
	// ModeAMF always uses the multi-format engine
	ModeAMF Mode = "AMF"
	// ModeRAML always uses the legacy RAML engine
	ModeRAML Mode = "RAML"
	// ModeAuto picks the engine from the vendor and falls back on crashes
	ModeAuto Mode = "AUTO"
)

// OverrideEnv is the environment variable read at start-up to force a
// strategy for every parse.
const OverrideEnv = "APIPARSER_PARSER_TYPE"

// String implements fmt.Stringer.
func (m Mode) String() string { return string(m) }

// ParseMode parses a mode name, ignoring case. An empty name is ModeAuto.
func ParseMode(s string) (Mode, error) {
	switch m := Mode(strings.ToUpper(strings.TrimSpace(s))); m {
	case "":
		return ModeAuto, nil
	case ModeAMF, ModeRAML, ModeAuto:
		return m, nil
	default:
		return "", &apierrors.ConfigError{Option: "mode", Value: s, Message: "must be AMF, RAML or AUTO"}
	}
}

// override holds the forced Mode, or "" when there is none.
var override atomic.Value

func init() {
	override.Store(Mode(""))
	if v, ok := os.LookupEnv(OverrideEnv); ok {
		SetOverride(v)
	}
}

// SetOverride forces every subsequently created strategy to use the given
// mode. Only the exact values "AMF" and "RAML" force a strategy; the empty
// string clears the override and any other value is logged and treated as
// no override. It reports whether an override is now in effect.
func SetOverride(value string) bool {
	switch m := Mode(value); m {
	case ModeAMF, ModeRAML:
		override.Store(m)
		return true
	case "":
	default:
		slog.Warn("ignoring invalid parser override", "variable", OverrideEnv, "value", value, "valid", "AMF, RAML")
	}
	override.Store(Mode(""))
	return false
}

// Override returns the forced mode, if any.
func Override() (Mode, bool) {
	m, _ := override.Load().(Mode)
	return m, m != ""
}
