package format

import (
	"bytes"
	"strings"
	"testing"
)

type sample struct {
	Name   string `json:"name" yaml:"name"`
	Amount int64  `json:"grant" yaml:"grant"`
}

func TestFormatters(t *testing.T) {
	tests := []struct {
		name      string
		formatter Formatter
		want      string
	}{
		{name: "json", formatter: JSONFormatter{}, want: "{\"name\":\"fix\",\"grant\":600}\n"},
		{name: "yaml", formatter: YAMLFormatter{}, want: "name: fix\ngrant: 600\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			if err := tt.formatter.Write(&buf, sample{Name: "fix", Amount: 600}); err != nil {
				t.Fatalf("write: %v", err)
			}
			if buf.String() != tt.want {
				t.Fatalf("expected %q, got %q", tt.want, buf.String())
			}
		})
	}
}

func TestYAMLFormatterNestedIndent(t *testing.T) {
	var buf bytes.Buffer
	payload := map[string][]sample{"assign": {{Name: "a", Amount: 1}}}
	if err := (YAMLFormatter{}).Write(&buf, payload); err != nil {
		t.Fatalf("write: %v", err)
	}
	if !strings.Contains(buf.String(), "assign:\n  - name: a\n    grant: 1\n") {
		t.Fatalf("unexpected yaml: %q", buf.String())
	}
}
