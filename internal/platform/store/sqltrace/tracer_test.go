package sqltrace

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"math"
	"testing"

	"github.com/rs/zerolog"
)

func TestCompact(t *testing.T) {
	t.Parallel()

	cases := []struct {
		in   string
		want string
	}{
		{"select 1", "select 1"},
		{"  select   1  ", " select 1 "},
		{"INSERT\tINTO\nCOMPOUNDS\r\t(id, structure)  VALUES  (?, ?)", "INSERT INTO COMPOUNDS (id, structure) VALUES (?, ?)"},
		{"\n\nA\n\tB  C\r\nD", " A B C D"},
		{"", ""},
	}
	for i, c := range cases {
		if got := Compact(c.in); got != c.want {
			t.Fatalf("case %d: Compact(%q) = %q, want %q", i, c.in, got, c.want)
		}
	}
}

func TestIsSlow(t *testing.T) {
	t.Parallel()

	cases := []struct {
		us   int64
		ms   int
		want bool
	}{
		{999, 1, false},
		{1000, 1, true},
		{0, 0, true},
		{5_000_000, -1, false},
	}
	for _, c := range cases {
		if got := IsSlow(c.us, c.ms); got != c.want {
			t.Fatalf("IsSlow(%d, %d) = %v, want %v", c.us, c.ms, got, c.want)
		}
	}
}

func TestTracer_EmitsInfoAndWarn_WithFields(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	tr := Tracer(zerolog.New(&buf), "sqlite")

	type logLine struct {
		Level     string  `json:"level"`
		ElapsedMS float64 `json:"elapsed_ms"`
		Slow      bool    `json:"slow"`
		SQL       string  `json:"sql"`
		Args      any     `json:"args"`
		Error     string  `json:"error"`
		Message   string  `json:"message"`
		Component string  `json:"component,omitempty"`
	}

	ev := QueryEvent{
		SQL:       "INSERT INTO  T \n (id, structure) VALUES (?, ?)",
		Args:      []any{"1", "CCO"},
		ElapsedUS: 12345,
		Err:       errors.New("boom"),
	}
	tr.OnQuery(context.Background(), ev)

	var line logLine
	if err := json.Unmarshal(bytes.TrimSpace(buf.Bytes()), &line); err != nil {
		t.Fatalf("unmarshal info log: %v\nraw=%s", err, buf.String())
	}
	if line.Level != "info" {
		t.Fatalf("expected level=info, got %q", line.Level)
	}
	wantMs := float64(ev.ElapsedUS) / 1000.0
	if math.Abs(line.ElapsedMS-wantMs) > 0.0005 {
		t.Fatalf("elapsed_ms mismatch: got %v want %v", line.ElapsedMS, wantMs)
	}
	if line.SQL != "INSERT INTO T (id, structure) VALUES (?, ?)" {
		t.Fatalf("sql not compacted: %q", line.SQL)
	}
	if arr, ok := line.Args.([]any); !ok || len(arr) != 2 || arr[1].(string) != "CCO" {
		t.Fatalf("args unexpected: %#v", line.Args)
	}
	if line.Error != "boom" || line.Message != "sql query" || line.Component != "sqlite" {
		t.Fatalf("fields mismatch: %+v", line)
	}

	buf.Reset()
	ev.Slow = true
	tr.OnQuery(context.Background(), ev)
	if err := json.Unmarshal(bytes.TrimSpace(buf.Bytes()), &line); err != nil {
		t.Fatalf("unmarshal warn log: %v\nraw=%s", err, buf.String())
	}
	if line.Level != "warn" || !line.Slow {
		t.Fatalf("expected slow warn line, got %+v", line)
	}
}

func TestTracer_DefaultComponent(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	Tracer(zerolog.New(&buf), "").OnQuery(context.Background(), QueryEvent{SQL: "select 1"})
	if !bytes.Contains(buf.Bytes(), []byte(`"component":"sql"`)) {
		t.Fatalf("default component missing: %s", buf.String())
	}
}
