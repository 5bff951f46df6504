// Package compound reads line-delimited chemical-structure exports
package compound

import (
	"fmt"
	"strconv"
	"strings"
	"unicode"
	"unicode/utf8"

	perr "chemload/internal/platform/errors"
)

// Layout tells which side of the first whitespace holds the identifier
type Layout string

const (
	// LayoutStructureID is "<structure> <identifier>" with a free-text identifier
	LayoutStructureID Layout = "structure-id"
	// LayoutIDStructure is "<numeric id> <structure>"
	LayoutIDStructure Layout = "id-structure"
)

// ParseLayout maps a name onto a Layout, empty means LayoutStructureID
func ParseLayout(s string) (Layout, error) {
	switch Layout(strings.ToLower(strings.TrimSpace(s))) {
	case "", LayoutStructureID:
		return LayoutStructureID, nil
	case LayoutIDStructure:
		return LayoutIDStructure, nil
	}
	return "", perr.InvalidArgf("compound: unknown layout %q", s)
}

// NumericID reports whether identifiers in this layout are integers
func (l Layout) NumericID() bool { return l == LayoutIDStructure }

// Record is one parsed line
type Record struct {
	Identifier string
	Structure  string
	Line       int // 1-based line in the decompressed source

	num int64
}

// Key is the value bound to the id column: int64 for numeric layouts, else the identifier text
func (r Record) Key(l Layout) any {
	if l.NumericID() {
		return r.num
	}
	return r.Identifier
}

const maxErrText = 120

// ParseError reports a malformed line
type ParseError struct {
	Line   int
	Text   string
	Reason string
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("line %d: %s: %q", e.Line, e.Reason, truncate(e.Text, maxErrText))
}

// Unwrap exposes the parse code to perr.CodeOf
func (e *ParseError) Unwrap() error { return perr.New(perr.ErrorCodeParse, e.Reason) }

// ParseLine splits one non-blank line per layout
// the split is at the first whitespace rune; the right side is kept verbatim
func ParseLine(l Layout, lineNo int, line string) (Record, error) {
	i := strings.IndexFunc(line, unicode.IsSpace)
	if i < 0 {
		return Record{}, &ParseError{Line: lineNo, Text: line, Reason: "no whitespace separator"}
	}
	_, w := utf8.DecodeRuneInString(line[i:])
	left, right := line[:i], line[i+w:]

	switch l {
	case LayoutIDStructure:
		if left == "" {
			return Record{}, &ParseError{Line: lineNo, Text: line, Reason: "empty identifier"}
		}
		if right == "" {
			return Record{}, &ParseError{Line: lineNo, Text: line, Reason: "empty structure"}
		}
		n, err := strconv.ParseInt(left, 10, 64)
		if err != nil {
			return Record{}, &ParseError{Line: lineNo, Text: line, Reason: "non-numeric identifier"}
		}
		return Record{Identifier: left, Structure: right, Line: lineNo, num: n}, nil
	default:
		if left == "" {
			return Record{}, &ParseError{Line: lineNo, Text: line, Reason: "empty structure"}
		}
		if right == "" {
			return Record{}, &ParseError{Line: lineNo, Text: line, Reason: "empty identifier"}
		}
		return Record{Identifier: right, Structure: left, Line: lineNo}, nil
	}
}

// truncate cuts s to at most max bytes, backing up to a UTF-8 boundary
func truncate(s string, max int) string {
	if max <= 0 || len(s) <= max {
		return s
	}
	i := max
	for i > 0 && !utf8.RuneStart(s[i]) {
		i--
	}
	if i <= 0 {
		i = max
	}
	return s[:i] + "..."
}
