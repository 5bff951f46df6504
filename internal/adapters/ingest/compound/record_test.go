package compound

import (
	"errors"
	"strings"
	"testing"

	perr "chemload/internal/platform/errors"
)

func TestParseLine_StructureID(t *testing.T) {
	t.Parallel()

	cases := []struct {
		line      string
		structure string
		id        string
	}{
		{"CCO 1", "CCO", "1"},
		{"c1ccccc1 benzene ring", "c1ccccc1", "benzene ring"},
		{"CCO\tABC-12", "CCO", "ABC-12"},
		{"CCO  x", "CCO", " x"},
		{"[Na+].[Cl-] 42 ", "[Na+].[Cl-]", "42 "},
	}
	for _, c := range cases {
		rec, err := ParseLine(LayoutStructureID, 7, c.line)
		if err != nil {
			t.Fatalf("ParseLine(%q) error: %v", c.line, err)
		}
		if rec.Structure != c.structure || rec.Identifier != c.id || rec.Line != 7 {
			t.Fatalf("ParseLine(%q) = %+v, want structure=%q id=%q", c.line, rec, c.structure, c.id)
		}
		if rec.Key(LayoutStructureID) != c.id {
			t.Fatalf("Key = %#v, want %q", rec.Key(LayoutStructureID), c.id)
		}
	}
}

func TestParseLine_IDStructure(t *testing.T) {
	t.Parallel()

	rec, err := ParseLine(LayoutIDStructure, 3, "12345 CC(=O)O")
	if err != nil {
		t.Fatalf("ParseLine error: %v", err)
	}
	if rec.Identifier != "12345" || rec.Structure != "CC(=O)O" {
		t.Fatalf("rec = %+v", rec)
	}
	if k, ok := rec.Key(LayoutIDStructure).(int64); !ok || k != 12345 {
		t.Fatalf("Key = %#v, want int64 12345", rec.Key(LayoutIDStructure))
	}
}

func TestParseLine_Errors(t *testing.T) {
	t.Parallel()

	cases := []struct {
		layout Layout
		line   string
		reason string
	}{
		{LayoutStructureID, "BADLINE", "no whitespace separator"},
		{LayoutStructureID, " CCO", "empty structure"},
		{LayoutStructureID, "CCO ", "empty identifier"},
		{LayoutIDStructure, "CCO 1", "non-numeric identifier"},
		{LayoutIDStructure, "12 ", "empty structure"},
		{LayoutIDStructure, " CCO", "empty identifier"},
		{LayoutIDStructure, "12", "no whitespace separator"},
	}
	for _, c := range cases {
		_, err := ParseLine(c.layout, 2, c.line)
		var pe *ParseError
		if !errors.As(err, &pe) {
			t.Fatalf("ParseLine(%s, %q) err = %v, want *ParseError", c.layout, c.line, err)
		}
		if pe.Line != 2 || pe.Text != c.line || pe.Reason != c.reason {
			t.Fatalf("ParseLine(%s, %q) = %+v, want reason %q", c.layout, c.line, pe, c.reason)
		}
		if !perr.IsCode(err, perr.ErrorCodeParse) {
			t.Fatalf("code = %v, want parse", perr.CodeOf(err))
		}
	}
}

func TestParseError_MessageTruncatesOnRuneBoundary(t *testing.T) {
	t.Parallel()

	long := strings.Repeat("é", 100) // 200 bytes
	pe := &ParseError{Line: 9, Text: long, Reason: "no whitespace separator"}
	msg := pe.Error()
	if !strings.HasPrefix(msg, "line 9: no whitespace separator: ") {
		t.Fatalf("msg = %q", msg)
	}
	if !strings.Contains(msg, "...") || strings.Contains(msg, "\\x") {
		t.Fatalf("expected clean truncation, got %q", msg)
	}
}

func TestParseLayout(t *testing.T) {
	t.Parallel()

	for in, want := range map[string]Layout{"": LayoutStructureID, "Structure-ID": LayoutStructureID, " id-structure ": LayoutIDStructure} {
		got, err := ParseLayout(in)
		if err != nil || got != want {
			t.Fatalf("ParseLayout(%q) = %q, %v", in, got, err)
		}
	}
	if _, err := ParseLayout("sdf"); !perr.IsCode(err, perr.ErrorCodeInvalidArgument) {
		t.Fatalf("expected invalid argument, got %v", err)
	}
	if !LayoutIDStructure.NumericID() || LayoutStructureID.NumericID() {
		t.Fatalf("NumericID mismatch")
	}
}
