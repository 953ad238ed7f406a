package output

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"
	"testing"

	"gopkg.in/yaml.v3"

	"github.com/jmylchreest/vocabharvest/internal/vocab"
)

var testTable = vocab.Table{Pairs: []vocab.Pair{
	{Source: "Hola", Target: "Hello"},
	{Source: `Él dijo "hola"`, Target: `He said "hi"`},
}}

// --- NewWriter Factory Tests ---

func TestNewWriter_Types(t *testing.T) {
	tests := []struct {
		format Format
		want   string
	}{
		{FormatCSV, "*output.CSVWriter"},
		{FormatJSON, "*output.JSONWriter"},
		{FormatJSONL, "*output.JSONLWriter"},
		{FormatYAML, "*output.YAMLWriter"},
	}
	for _, tt := range tests {
		w, err := NewWriter(&bytes.Buffer{}, tt.format)
		if err != nil {
			t.Fatalf("NewWriter(%s) error = %v", tt.format, err)
		}
		if got := fmt.Sprintf("%T", w); got != tt.want {
			t.Errorf("NewWriter(%s) = %s, want %s", tt.format, got, tt.want)
		}
	}
}

func TestNewWriter_UnsupportedFormat(t *testing.T) {
	_, err := NewWriter(&bytes.Buffer{}, Format("xml"))
	if err == nil {
		t.Fatal("expected error for unsupported format")
	}
	if !strings.Contains(err.Error(), "unsupported") {
		t.Errorf("expected error containing 'unsupported', got %v", err)
	}
}

func TestParseFormat(t *testing.T) {
	tests := []struct {
		in      string
		want    Format
		wantErr bool
	}{
		{"csv", FormatCSV, false},
		{" JSON ", FormatJSON, false},
		{"jsonl", FormatJSONL, false},
		{"Yaml", FormatYAML, false},
		{"xml", "", true},
		{"", "", true},
	}
	for _, tt := range tests {
		got, err := ParseFormat(tt.in)
		if (err != nil) != tt.wantErr || got != tt.want {
			t.Errorf("ParseFormat(%q) = %q, %v", tt.in, got, err)
		}
	}
}

// --- CSV ---

func TestWriteTable_CSV(t *testing.T) {
	buf := &bytes.Buffer{}
	if err := WriteTable(buf, FormatCSV, testTable); err != nil {
		t.Fatalf("WriteTable() error = %v", err)
	}

	want := "\"Spanish\",\"English\"\n\"Hola\",\"Hello\"\n\"Él dijo \"\"hola\"\"\",\"He said \"\"hi\"\"\""
	if buf.String() != want {
		t.Errorf("csv output:\n%s\nwant:\n%s", buf.String(), want)
	}
}

func TestWriteTable_CSVEmpty(t *testing.T) {
	buf := &bytes.Buffer{}
	if err := WriteTable(buf, FormatCSV, vocab.Table{}); err != nil {
		t.Fatalf("WriteTable() error = %v", err)
	}
	if buf.String() != `"Spanish","English"` {
		t.Errorf("empty table = %q, want header only", buf.String())
	}
}

// --- JSON ---

func TestWriteTable_JSON(t *testing.T) {
	buf := &bytes.Buffer{}
	if err := WriteTable(buf, FormatJSON, testTable); err != nil {
		t.Fatalf("WriteTable() error = %v", err)
	}

	var got []vocab.Pair
	if err := json.Unmarshal(buf.Bytes(), &got); err != nil {
		t.Fatalf("failed to unmarshal output: %v", err)
	}
	if len(got) != 2 || got[1] != testTable.Pairs[1] {
		t.Errorf("unexpected result: %+v", got)
	}
	if strings.Contains(buf.String(), "Spanish") {
		t.Error("json output should not carry the csv header")
	}
	if !strings.Contains(buf.String(), `"source": "Hola"`) {
		t.Errorf("expected pretty source field, got %s", buf.String())
	}
}

func TestJSONWriter_SinglePairStillArray(t *testing.T) {
	buf := &bytes.Buffer{}
	w := NewJSONWriter(buf, false, "")
	if err := w.Write(vocab.Pair{Source: "a", Target: "b"}); err != nil {
		t.Fatalf("Write() error = %v", err)
	}
	if err := w.Close(); err != nil {
		t.Fatalf("Close() error = %v", err)
	}
	if got := buf.String(); got != `[{"source":"a","target":"b"}]`+"\n" {
		t.Errorf("output = %q", got)
	}
}

func TestJSONWriter_CustomIndent(t *testing.T) {
	buf := &bytes.Buffer{}
	if err := WriteTable(buf, FormatJSON, testTable, WithIndent("\t")); err != nil {
		t.Fatalf("WriteTable() error = %v", err)
	}
	if !strings.Contains(buf.String(), "\t") {
		t.Errorf("expected tab indentation in output")
	}
}

func TestJSONWriter_Compact(t *testing.T) {
	buf := &bytes.Buffer{}
	if err := WriteTable(buf, FormatJSON, testTable, WithPretty(false)); err != nil {
		t.Fatalf("WriteTable() error = %v", err)
	}
	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	if len(lines) != 1 {
		t.Errorf("expected single line in compact output, got %d lines", len(lines))
	}
}

func TestJSONWriter_Empty(t *testing.T) {
	buf := &bytes.Buffer{}
	if err := WriteTable(buf, FormatJSON, vocab.Table{}); err != nil {
		t.Fatalf("WriteTable() error = %v", err)
	}
	if got := strings.TrimSpace(buf.String()); got != "[]" {
		t.Errorf("empty output = %q, want []", got)
	}
}

// --- JSONL ---

func TestWriteTable_JSONL(t *testing.T) {
	buf := &bytes.Buffer{}
	if err := WriteTable(buf, FormatJSONL, testTable); err != nil {
		t.Fatalf("WriteTable() error = %v", err)
	}

	lines := strings.Split(strings.TrimSuffix(buf.String(), "\n"), "\n")
	if len(lines) != 2 {
		t.Fatalf("expected 2 lines, got %d", len(lines))
	}
	for i, line := range lines {
		var p vocab.Pair
		if err := json.Unmarshal([]byte(line), &p); err != nil {
			t.Fatalf("line %d: %v", i, err)
		}
		if p != testTable.Pairs[i] {
			t.Errorf("line %d = %+v", i, p)
		}
	}
}

func TestJSONLWriter_Empty(t *testing.T) {
	buf := &bytes.Buffer{}
	if err := WriteTable(buf, FormatJSONL, vocab.Table{}); err != nil {
		t.Fatalf("WriteTable() error = %v", err)
	}
	if buf.Len() != 0 {
		t.Errorf("expected no output, got %q", buf.String())
	}
}

// --- YAML ---

func TestWriteTable_YAML(t *testing.T) {
	buf := &bytes.Buffer{}
	if err := WriteTable(buf, FormatYAML, testTable); err != nil {
		t.Fatalf("WriteTable() error = %v", err)
	}

	var got []vocab.Pair
	if err := yaml.Unmarshal(buf.Bytes(), &got); err != nil {
		t.Fatalf("failed to unmarshal output: %v", err)
	}
	if len(got) != 2 || got[0] != testTable.Pairs[0] || got[1] != testTable.Pairs[1] {
		t.Errorf("unexpected result: %+v", got)
	}
	if !strings.HasPrefix(buf.String(), "- source: Hola") {
		t.Errorf("unexpected yaml:\n%s", buf.String())
	}
}

func TestYAMLWriter_Empty(t *testing.T) {
	buf := &bytes.Buffer{}
	if err := WriteTable(buf, FormatYAML, vocab.Table{}); err != nil {
		t.Fatalf("WriteTable() error = %v", err)
	}
	if got := strings.TrimSpace(buf.String()); got != "[]" {
		t.Errorf("empty output = %q, want []", got)
	}
}

// --- Options ---

func TestWithPretty(t *testing.T) {
	cfg := &writerConfig{}
	WithPretty(true)(cfg)
	if !cfg.pretty {
		t.Error("expected pretty to be true")
	}
	WithPretty(false)(cfg)
	if cfg.pretty {
		t.Error("expected pretty to be false")
	}
}

func TestWithIndent_Custom(t *testing.T) {
	cfg := &writerConfig{}
	WithIndent("    ")(cfg)
	if cfg.indent != "    " {
		t.Errorf("expected 4-space indent, got %q", cfg.indent)
	}
}
