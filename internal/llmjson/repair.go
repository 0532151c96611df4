// Package llmjson recovers prep-session arrays from malformed LLM output.
//
// Models asked for a JSON array occasionally return it truncated mid-object
// or with mismatched brackets. Each repair strategy is a pure function on the
// raw string, tried in a fixed order from least to most lossy; the first one
// that yields a parseable array wins and later strategies are never run.
package llmjson

import (
	"encoding/json"
	"errors"
	"regexp"
	"strings"
	"unicode/utf8"
)

// SessionDraft is one prep session as emitted by the model, before it is
// mapped onto a database row.
type SessionDraft struct {
	Title           string   `json:"title"`
	Description     string   `json:"description"`
	DayOfWeek       string   `json:"day_of_week"`
	DurationMinutes int      `json:"duration_minutes"`
	Tasks           []string `json:"tasks"`
	Equipment       []string `json:"equipment"`
	StorageTips     string   `json:"storage_tips"`
	Notes           string   `json:"notes"`
	DisplayOrder    int      `json:"display_order"`
}

// rawLimit caps how much of the offending payload an ExhaustedError carries.
const rawLimit = 50000

// ExhaustedError is returned when every repair strategy has failed. Raw holds
// the payload (truncated to rawLimit) for server-side diagnosis; it must
// never be relayed to the end user.
type ExhaustedError struct {
	Raw string
}

func (e *ExhaustedError) Error() string {
	return "llmjson: all repair strategies exhausted"
}

var (
	// A trailing string field followed by a stray ] where } was intended,
	// e.g. `"notes": "chill overnight"\n]`.
	strayBracketRe = regexp.MustCompile(`("(?:notes|storage_tips|description)"\s*:\s*"(?:[^"\\]|\\.)*")\s*\n\s*\]`)

	// End of a complete session object; display_order is the last key the
	// prompt asks for, so this marks a safe truncation boundary.
	sessionEndRe = regexp.MustCompile(`"display_order"\s*:\s*\d+\s*\}`)
)

// Repair parses raw as a JSON array of session drafts, applying the fallback
// strategies when the direct parse fails.
func Repair(raw string) ([]SessionDraft, error) {
	sessions, perr := parseSessions(raw)
	if perr == nil {
		return sessions, nil
	}

	if sessions, ok := repairStrayBracket(raw); ok {
		return sessions, nil
	}
	if sessions, ok := repairAtBoundaries(raw); ok {
		return sessions, nil
	}
	if sessions, ok := repairBeforeOffset(raw, errorOffset(perr)); ok {
		return sessions, nil
	}
	if sessions, ok := repairAtLastSession(raw); ok {
		return sessions, nil
	}

	if len(raw) > rawLimit {
		cut := rawLimit
		for cut > 0 && !utf8.RuneStart(raw[cut]) {
			cut--
		}
		raw = raw[:cut]
	}
	return nil, &ExhaustedError{Raw: raw}
}

func parseSessions(s string) ([]SessionDraft, error) {
	var sessions []SessionDraft
	if err := json.Unmarshal([]byte(s), &sessions); err != nil {
		return nil, err
	}
	return sessions, nil
}

// repairStrayBracket fixes the known bracket-mismatch failure mode: the model
// closes an object with ] instead of }. The substituted string gets exactly
// one parse attempt; if the stray bracket was also doubling as the array
// closer the array stays unterminated here and the later, lossier strategies
// deal with it.
func repairStrayBracket(raw string) ([]SessionDraft, bool) {
	fixed := strayBracketRe.ReplaceAllString(raw, "$1\n}")
	if fixed == raw {
		return nil, false
	}
	sessions, err := parseSessions(fixed)
	if err != nil {
		return nil, false
	}
	return sessions, true
}

// repairAtBoundaries truncates at every complete-session boundary in turn and
// keeps the result from the last boundary that parses, i.e. the longest
// recoverable prefix.
func repairAtBoundaries(raw string) ([]SessionDraft, bool) {
	var best []SessionDraft
	found := false
	for _, loc := range sessionEndRe.FindAllStringIndex(raw, -1) {
		candidate := raw[:loc[1]] + "\n]"
		if sessions, err := parseSessions(candidate); err == nil {
			best = sessions
			found = true
		}
	}
	return best, found
}

// repairBeforeOffset uses the byte offset from the original parse error:
// everything after the last `},` before the offset is discarded.
func repairBeforeOffset(raw string, offset int64) ([]SessionDraft, bool) {
	if offset <= 0 || offset > int64(len(raw)) {
		return nil, false
	}
	cut := strings.LastIndex(raw[:offset], "},")
	if cut < 0 {
		return nil, false
	}
	candidate := raw[:cut+1] + "\n]"
	sessions, err := parseSessions(candidate)
	if err != nil {
		return nil, false
	}
	return sessions, true
}

// repairAtLastSession truncates immediately after the last complete session
// object anywhere in the string. Most lossy, tried last.
func repairAtLastSession(raw string) ([]SessionDraft, bool) {
	locs := sessionEndRe.FindAllStringIndex(raw, -1)
	if len(locs) == 0 {
		return nil, false
	}
	last := locs[len(locs)-1]
	candidate := raw[:last[1]] + "\n]"
	sessions, err := parseSessions(candidate)
	if err != nil {
		return nil, false
	}
	return sessions, true
}

func errorOffset(err error) int64 {
	var syntaxErr *json.SyntaxError
	if errors.As(err, &syntaxErr) {
		return syntaxErr.Offset
	}
	var typeErr *json.UnmarshalTypeError
	if errors.As(err, &typeErr) {
		return typeErr.Offset
	}
	return 0
}

// StripFences removes a markdown code fence around a JSON payload, a habit
// some models keep even when told not to.
func StripFences(s string) string {
	s = strings.TrimSpace(s)
	if !strings.HasPrefix(s, "```") {
		return s
	}
	s = strings.TrimPrefix(s, "```json")
	s = strings.TrimPrefix(s, "```")
	s = strings.TrimSuffix(strings.TrimSpace(s), "```")
	return strings.TrimSpace(s)
}
