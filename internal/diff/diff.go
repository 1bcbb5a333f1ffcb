// Package diff implements the line and word diff engine behind the diff
// tool: an LCS table, a backtracking pass that tags every token as added,
// removed or unchanged, and independent 1-based numbering for both sides.
package diff

import (
	"errors"
	"fmt"
	"strings"
	"unicode"
)

// Mode selects how input text is tokenized.
type Mode string

const (
	// ModeLine splits on newline; a trailing newline yields a trailing
	// empty token.
	ModeLine Mode = "line"
	// ModeWord splits into alternating runs of non-whitespace and
	// whitespace, so joining the tokens reproduces the input exactly.
	ModeWord Mode = "word"
)

// ErrInvalidMode is returned by Compare for an unknown tokenization mode.
var ErrInvalidMode = errors.New("invalid diff mode")

// Kind tags a single entry of the edit script.
type Kind string

const (
	Unchanged Kind = "unchanged"
	Added     Kind = "added"
	Removed   Kind = "removed"
)

// Entry is one token of the edit script. OldLine is set (1-based) on
// unchanged and removed entries, NewLine on unchanged and added entries;
// zero means the entry does not exist on that side.
type Entry struct {
	Kind    Kind   `json:"kind"`
	Text    string `json:"text"`
	OldLine int    `json:"old_line,omitempty"`
	NewLine int    `json:"new_line,omitempty"`
}

// Stats holds per-kind entry counts for one comparison.
type Stats struct {
	Added     int `json:"added"`
	Removed   int `json:"removed"`
	Unchanged int `json:"unchanged"`
}

// Result is the ordered edit script plus its aggregate counts. Dropping
// the added entries and joining the rest reproduces the original input;
// dropping the removed entries reproduces the modified input.
type Result struct {
	Mode    Mode    `json:"mode"`
	Entries []Entry `json:"entries"`
	Stats   Stats   `json:"stats"`
}

// Compare tokenizes both inputs, aligns them and returns the edit script.
// When both inputs are empty it returns an empty script rather than a
// single trivial "unchanged empty token" entry.
func Compare(original, modified string, mode Mode) (*Result, error) {
	switch mode {
	case ModeLine, ModeWord:
	default:
		return nil, fmt.Errorf("%w: %q", ErrInvalidMode, mode)
	}

	if original == "" && modified == "" {
		return &Result{Mode: mode, Entries: []Entry{}}, nil
	}

	a := Tokenize(original, mode)
	b := Tokenize(modified, mode)

	entries := backtrack(lcsTable(a, b), a, b)
	number(entries)

	return &Result{Mode: mode, Entries: entries, Stats: Aggregate(entries)}, nil
}

// Tokenize splits text according to mode. Line mode follows the split
// contract exactly: no trimming, no \r\n normalization, and the empty
// string yields a single empty token.
func Tokenize(text string, mode Mode) []string {
	if mode == ModeWord {
		return splitRuns(text)
	}
	return strings.Split(text, "\n")
}

// Join is the inverse of Tokenize for a full token sequence.
func Join(tokens []string, mode Mode) string {
	if mode == ModeWord {
		return strings.Join(tokens, "")
	}
	return strings.Join(tokens, "\n")
}

// splitRuns partitions s into maximal runs of whitespace and
// non-whitespace. The partition is lossless; the empty string has no runs.
func splitRuns(s string) []string {
	var tokens []string
	start := 0
	inSpace := false
	for i, r := range s {
		isSpace := unicode.IsSpace(r)
		if i == 0 {
			inSpace = isSpace
			continue
		}
		if isSpace != inSpace {
			tokens = append(tokens, s[start:i])
			start = i
			inSpace = isSpace
		}
	}
	if s != "" {
		tokens = append(tokens, s[start:])
	}
	return tokens
}

// lcsTable builds the (len(a)+1) x (len(b)+1) LCS length table. Row 0 and
// column 0 stay zero; ties between the two shorter prefixes are left to
// the backtracker.
func lcsTable(a, b []string) [][]int {
	m := len(a)
	n := len(b)
	table := make([][]int, m+1)
	for i := range table {
		table[i] = make([]int, n+1)
	}

	for i := 1; i <= m; i++ {
		for j := 1; j <= n; j++ {
			if a[i-1] == b[j-1] {
				table[i][j] = table[i-1][j-1] + 1
			} else if table[i-1][j] >= table[i][j-1] {
				table[i][j] = table[i-1][j]
			} else {
				table[i][j] = table[i][j-1]
			}
		}
	}
	return table
}

// backtrack walks the table from (len(a), len(b)) to the origin and emits
// the edit script in order. On equal table values it takes the horizontal
// move, so a right-side token is reported as added in preference to the
// left-side token being reported as removed; reference output depends on
// this tie-break.
func backtrack(table [][]int, a, b []string) []Entry {
	var entries []Entry

	i := len(a)
	j := len(b)

	for i > 0 || j > 0 {
		switch {
		case i > 0 && j > 0 && a[i-1] == b[j-1]:
			entries = append(entries, Entry{Kind: Unchanged, Text: a[i-1]})
			i--
			j--
		case j > 0 && (i == 0 || table[i][j-1] >= table[i-1][j]):
			entries = append(entries, Entry{Kind: Added, Text: b[j-1]})
			j--
		default:
			entries = append(entries, Entry{Kind: Removed, Text: a[i-1]})
			i--
		}
	}

	// The walk runs end-to-start; reverse into script order.
	for left, right := 0, len(entries)-1; left < right; left, right = left+1, right-1 {
		entries[left], entries[right] = entries[right], entries[left]
	}
	return entries
}

// number assigns the per-side counters in a single left-to-right pass.
func number(entries []Entry) {
	oldLine := 0
	newLine := 0
	for k := range entries {
		switch entries[k].Kind {
		case Unchanged:
			oldLine++
			newLine++
			entries[k].OldLine = oldLine
			entries[k].NewLine = newLine
		case Removed:
			oldLine++
			entries[k].OldLine = oldLine
		case Added:
			newLine++
			entries[k].NewLine = newLine
		}
	}
}

// Aggregate folds the edit script into per-kind counts.
func Aggregate(entries []Entry) Stats {
	var s Stats
	for _, e := range entries {
		switch e.Kind {
		case Added:
			s.Added++
		case Removed:
			s.Removed++
		case Unchanged:
			s.Unchanged++
		}
	}
	return s
}

// Unified renders a result in a plain +/-/space prefixed text form.
func Unified(r *Result) string {
	var sb strings.Builder
	for _, e := range r.Entries {
		switch e.Kind {
		case Added:
			sb.WriteByte('+')
		case Removed:
			sb.WriteByte('-')
		default:
			sb.WriteByte(' ')
		}
		sb.WriteString(e.Text)
		sb.WriteByte('\n')
	}
	return sb.String()
}
