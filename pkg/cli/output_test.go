package cli

import (
	"bytes"
	"strings"
	"testing"
)

type sample struct {
	ID   string `json:"id" yaml:"id"`
	Colo string `json:"colo" yaml:"colo"`
}

func TestParseOutputFormat(t *testing.T) {
	tests := []struct {
		raw     string
		want    OutputFormat
		wantErr bool
	}{
		{"", FormatText, false},
		{"text", FormatText, false},
		{"json", FormatJSON, false},
		{"yaml", FormatYAML, false},
		{"csv", "", true},
	}
	for _, tt := range tests {
		got, err := ParseOutputFormat(tt.raw)
		if (err != nil) != tt.wantErr || got != tt.want {
			t.Errorf("ParseOutputFormat(%q) = %q, %v", tt.raw, got, err)
		}
	}
}

func TestFormatters(t *testing.T) {
	data := []sample{{ID: "weur", Colo: "FRA"}}

	tests := []struct {
		format OutputFormat
		want   string
	}{
		{FormatJSON, "[\n  {\n    \"id\": \"weur\",\n    \"colo\": \"FRA\"\n  }\n]\n"},
		{FormatYAML, "- id: weur\n  colo: FRA\n"},
		{FormatText, "[{weur FRA}]\n"},
	}

	for _, tt := range tests {
		t.Run(string(tt.format), func(t *testing.T) {
			var buf bytes.Buffer
			if err := NewFormatter(tt.format).FormatTo(&buf, data); err != nil {
				t.Fatalf("FormatTo() error: %v", err)
			}
			if buf.String() != tt.want {
				t.Errorf("output = %q, want %q", buf.String(), tt.want)
			}
		})
	}
}

func TestYAMLFormatter_Map(t *testing.T) {
	var buf bytes.Buffer
	if err := NewFormatter(FormatYAML).FormatTo(&buf, map[string]int{"b": 2, "a": 1}); err != nil {
		t.Fatal(err)
	}
	if !strings.HasPrefix(buf.String(), "a: 1\n") {
		t.Errorf("yaml map keys should be sorted: %q", buf.String())
	}
}
