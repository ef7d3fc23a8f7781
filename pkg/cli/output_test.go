package cli

import (
	"bytes"
	"fmt"
	"strings"
	"testing"
)

type sample struct {
	Name  string `json:"name" yaml:"name"`
	Count int    `json:"count" yaml:"count"`
}

type table struct{}

func (table) Header() []string { return []string{"id", "mode"} }
func (table) Rows() [][]string { return [][]string{{"a", "realtime"}, {"b", "reforecast"}} }

func TestNewFormatter(t *testing.T) {
	tests := []struct {
		format OutputFormat
		want   string
	}{
		{FormatText, "*cli.TextFormatter"},
		{FormatJSON, "*cli.JSONFormatter"},
		{FormatYAML, "*cli.YAMLFormatter"},
		{FormatCSV, "*cli.CSVFormatter"},
		{"unknown", "*cli.TextFormatter"},
	}
	for _, tt := range tests {
		got := fmt.Sprintf("%T", NewFormatter(tt.format))
		if got != tt.want {
			t.Errorf("NewFormatter(%q) = %s, want %s", tt.format, got, tt.want)
		}
	}
}

func TestFormatters(t *testing.T) {
	data := sample{Name: "hrrr", Count: 2}
	tests := []struct {
		format OutputFormat
		want   []string
	}{
		{FormatText, []string{"{hrrr 2}"}},
		{FormatJSON, []string{`"name": "hrrr"`, `"count": 2`}},
		{FormatYAML, []string{"name: hrrr", "count: 2"}},
	}

	for _, tt := range tests {
		t.Run(string(tt.format), func(t *testing.T) {
			var buf bytes.Buffer
			if err := NewFormatter(tt.format).FormatTo(&buf, data); err != nil {
				t.Fatalf("FormatTo() error = %v", err)
			}
			for _, want := range tt.want {
				if !strings.Contains(buf.String(), want) {
					t.Errorf("output %q should contain %q", buf.String(), want)
				}
			}
		})
	}
}

func TestCSVFormatter(t *testing.T) {
	var buf bytes.Buffer
	if err := NewFormatter(FormatCSV).FormatTo(&buf, table{}); err != nil {
		t.Fatalf("FormatTo() error = %v", err)
	}
	want := "id,mode\na,realtime\nb,reforecast\n"
	if buf.String() != want {
		t.Errorf("output = %q, want %q", buf.String(), want)
	}

	if err := NewFormatter(FormatCSV).FormatTo(&buf, sample{}); err == nil {
		t.Error("CSV output of a non-tabular value should fail")
	}
}

func TestParseOutputFormat(t *testing.T) {
	for _, s := range []string{"text", "json", "yaml", "csv"} {
		if _, err := ParseOutputFormat(s); err != nil {
			t.Errorf("ParseOutputFormat(%q) error = %v", s, err)
		}
	}
	if _, err := ParseOutputFormat("xml"); err == nil {
		t.Error("ParseOutputFormat(xml) should fail")
	}
}
