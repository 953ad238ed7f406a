// Package vocab turns vocabulary cards into validated pairs and a CSV document.
package vocab

import (
	"regexp"
	"unicode/utf8"

	"golang.org/x/text/unicode/norm"
)

// Header is the fixed first row of every table.
var Header = [2]string{"Spanish", "English"}

// Length limits; a field must be strictly shorter.
const (
	MaxSourceLen = 40
	MaxTargetLen = 100
)

// noisePattern matches UI chrome that shares the card text styling.
var noisePattern = regexp.MustCompile(`(?i)^(practice now|\d+\s?words?)$`)

// Pair is one vocabulary entry.
type Pair struct {
	Source string `json:"source" yaml:"source"`
	Target string `json:"target" yaml:"target"`
}

// Table is the ordered list of accepted pairs. Duplicates are kept.
type Table struct {
	Pairs []Pair
}

// Rows returns the header followed by one two-field row per pair.
func (t Table) Rows() [][]string {
	rows := make([][]string, 0, len(t.Pairs)+1)
	rows = append(rows, []string{Header[0], Header[1]})
	for _, p := range t.Pairs {
		rows = append(rows, []string{p.Source, p.Target})
	}
	return rows
}

// Len returns the number of pairs, excluding the header.
func (t Table) Len() int { return len(t.Pairs) }

// Reason explains why a pair was rejected.
type Reason int

const (
	Accepted Reason = iota
	RejectEmpty
	RejectNoise
	RejectTooLong
)

func (r Reason) String() string {
	switch r {
	case Accepted:
		return "accepted"
	case RejectEmpty:
		return "empty"
	case RejectNoise:
		return "noise"
	case RejectTooLong:
		return "too_long"
	default:
		return "unknown"
	}
}

// Accept applies the pair heuristics. Inputs are expected to be trimmed.
func Accept(source, target string) Reason {
	srcLen, tgtLen := textLen(source), textLen(target)
	switch {
	case srcLen == 0 || tgtLen == 0:
		return RejectEmpty
	case IsNoise(source):
		return RejectNoise
	case tgtLen >= MaxTargetLen || srcLen >= MaxSourceLen:
		return RejectTooLong
	}
	return Accepted
}

// IsNoise reports whether s is UI text such as "Practice now" or "12 words".
func IsNoise(s string) bool {
	return noisePattern.MatchString(s)
}

// textLen counts characters after NFC composition, so a decomposed "é"
// counts once.
func textLen(s string) int {
	return utf8.RuneCountInString(norm.NFC.String(s))
}
