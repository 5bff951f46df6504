package validate

import (
	"testing"

	perr "chemload/internal/platform/errors"
)

type opts struct {
	Table  string `env:"TABLE" validate:"omitempty,sql_ident"`
	Layout string `env:"LAYOUT,default" validate:"oneof=structure-id id-structure"`
	Every  int    `env:"PROGRESS_EVERY" validate:"min=1"`
	Max    int    `validate:"max=10"`
}

func valid() opts { return opts{Table: "COMPOUNDS", Layout: "structure-id", Every: 1000} }

func TestStruct_OK(t *testing.T) {
	t.Parallel()
	if err := Struct(valid()); err != nil {
		t.Fatalf("Struct: %v", err)
	}
	o := valid()
	o.Table = ""
	if err := Struct(o); err != nil {
		t.Fatalf("empty table is optional: %v", err)
	}
}

func TestStruct_FieldsAndMessages(t *testing.T) {
	t.Parallel()

	cases := []struct {
		name      string
		mut       func(*opts)
		wantField string
		wantMsg   string
	}{
		{"short min", func(o *opts) { o.Every = 0 }, "PROGRESS_EVERY", "PROGRESS_EVERY must be at least 1"},
		{"short max", func(o *opts) { o.Max = 11 }, "Max", "Max must be at most 10"},
		{"ident", func(o *opts) { o.Table = "t; drop" }, "TABLE", "TABLE must be a plain SQL identifier"},
		{"oneof", func(o *opts) { o.Layout = "csv" }, "LAYOUT", "LAYOUT must be one of [structure-id id-structure]"},
	}
	for _, tc := range cases {
		o := valid()
		tc.mut(&o)
		err := Struct(o)
		if !perr.IsCode(err, perr.ErrorCodeValidation) {
			t.Fatalf("%s: err = %v", tc.name, err)
		}
		e, _ := perr.As(err)
		if e.Field() != tc.wantField || e.Message() != tc.wantMsg {
			t.Fatalf("%s: field=%q msg=%q", tc.name, e.Field(), e.Message())
		}
	}
}

func TestStruct_InvalidTarget(t *testing.T) {
	t.Parallel()
	if err := Struct(nil); !perr.IsCode(err, perr.ErrorCodeValidation) {
		t.Fatalf("err = %v", err)
	}
}

func TestFieldAndMessage_Passthrough(t *testing.T) {
	t.Parallel()
	if f, m := FieldAndMessage(nil); f != "" || m != "" {
		t.Fatalf("nil = %q %q", f, m)
	}
	if _, m := FieldAndMessage(perr.InvalidArgf("plain")); m != "plain" {
		t.Fatalf("plain = %q", m)
	}
}
