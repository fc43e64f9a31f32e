package config

import (
	"errors"
	"reflect"
	"strings"
	"testing"
)

func TestParseBool_TruthyTokens(t *testing.T) {
	truthy := []string{"true", "TRUE", "True", "1", "yes", "YES", "on", "ON", "  true  ", "\ton\n"}
	for _, v := range truthy {
		got := parseBool(Map{"X": v}, "X", false)
		if !got {
			t.Errorf("parseBool(%q) = false, want true", v)
		}
	}
}

func TestParseBool_FalsyTokens(t *testing.T) {
	falsy := []string{"false", "FALSE", "0", " false "}
	for _, v := range falsy {
		got := parseBool(Map{"X": v}, "X", true)
		if got {
			t.Errorf("parseBool(%q) = true, want false", v)
		}
	}
}

func TestParseBool_FallsBackToDefault(t *testing.T) {
	// Unrecognized non-empty tokens fall back to the default, never error.
	for _, v := range []string{"maybe", "2", "enabled", "tru"} {
		if got := parseBool(Map{"X": v}, "X", true); !got {
			t.Errorf("parseBool(%q, default true) = false", v)
		}
		if got := parseBool(Map{"X": v}, "X", false); got {
			t.Errorf("parseBool(%q, default false) = true", v)
		}
	}

	// Unset uses the default too.
	if got := parseBool(Map{}, "X", true); !got {
		t.Error("parseBool(unset, default true) = false")
	}
}

func TestParseInt_RoundTrip(t *testing.T) {
	for _, tc := range []struct {
		in   string
		want int
	}{
		{"0", 0},
		{"1", 1},
		{"25", 25},
		{"65535", 65535},
		{"10485760", 10485760},
	} {
		got, err := parseInt(Map{"X": tc.in}, "X", -1)
		if err != nil {
			t.Errorf("parseInt(%q) error: %v", tc.in, err)
			continue
		}
		if got != tc.want {
			t.Errorf("parseInt(%q) = %d, want %d", tc.in, got, tc.want)
		}
	}
}

func TestParseInt_UnsetAndEmptyUseDefault(t *testing.T) {
	if got, err := parseInt(Map{}, "X", 42); err != nil || got != 42 {
		t.Errorf("parseInt(unset) = %d, %v, want 42, nil", got, err)
	}
	if got, err := parseInt(Map{"X": ""}, "X", 42); err != nil || got != 42 {
		t.Errorf("parseInt(empty) = %d, %v, want 42, nil", got, err)
	}
}

func TestParseInt_FailsFast(t *testing.T) {
	for _, tc := range []struct {
		in      string
		wantMsg string
	}{
		{"-1", "non-negative finite number"},
		{"abc", "non-negative finite number"},
		{"NaN", "non-negative finite number"},
		{"Inf", "non-negative finite number"},
		{"1e30", "non-negative finite number"},
		{"9223372036854775808", "non-negative finite number"},
		{"1.5", "must be an integer"},
		{"0.01", "must be an integer"},
	} {
		_, err := parseInt(Map{"X": tc.in}, "X", 0)
		if err == nil {
			t.Errorf("parseInt(%q) = nil error, want failure", tc.in)
			continue
		}
		if !strings.Contains(err.Error(), tc.wantMsg) {
			t.Errorf("parseInt(%q) error %q does not mention %q", tc.in, err, tc.wantMsg)
		}
		if !errors.Is(err, &Error{Kind: KindInvalidFormat}) {
			t.Errorf("parseInt(%q) error is not KindInvalidFormat", tc.in)
		}
	}
}

func TestParseString_Verbatim(t *testing.T) {
	// No trimming: surrounding whitespace is preserved.
	if got := parseString(Map{"X": "  spaced  "}, "X", "d"); got != "  spaced  " {
		t.Errorf("parseString preserved %q, want verbatim", got)
	}
	if got := parseString(Map{}, "X", "d"); got != "d" {
		t.Errorf("parseString(unset) = %q, want default", got)
	}
	if got := parseString(Map{"X": ""}, "X", "d"); got != "d" {
		t.Errorf("parseString(empty) = %q, want default", got)
	}
}

func TestParseList_LowercaseTrimFilter(t *testing.T) {
	got, err := parseList(Map{"X": "EXAMPLE.com, ,x.org"}, "X", nil, foldLower)
	if err != nil {
		t.Fatalf("parseList error: %v", err)
	}
	want := []string{"example.com", "x.org"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("parseList = %v, want %v", got, want)
	}

	// Idempotent under re-parsing its own output.
	again, err := parseList(Map{"X": strings.Join(got, ",")}, "X", nil, foldLower)
	if err != nil {
		t.Fatalf("re-parse error: %v", err)
	}
	if !reflect.DeepEqual(again, got) {
		t.Errorf("re-parse = %v, want %v", again, got)
	}
}

func TestParseList_Uppercase(t *testing.T) {
	got, err := parseList(Map{"X": " vrfy , expn "}, "X", nil, foldUpper)
	if err != nil {
		t.Fatalf("parseList error: %v", err)
	}
	want := []string{"VRFY", "EXPN"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("parseList = %v, want %v", got, want)
	}
}

func TestParseList_EmptySource(t *testing.T) {
	// Mandatory list (nil default) fails.
	if _, err := parseList(Map{"X": " , ,"}, "X", nil, foldLower); err == nil {
		t.Error("mandatory empty list did not fail")
	} else if !errors.Is(err, &Error{Kind: KindMissingRequired}) {
		t.Errorf("error is not KindMissingRequired: %v", err)
	}

	// Optional list falls back to the default.
	def := []string{"VRFY"}
	got, err := parseList(Map{}, "X", def, foldUpper)
	if err != nil {
		t.Fatalf("optional list error: %v", err)
	}
	if !reflect.DeepEqual(got, def) {
		t.Errorf("optional list = %v, want default %v", got, def)
	}
}
