package printer

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

// Printer handles various output formats
type Printer struct {
	out        io.Writer
	outputType OutputType
	tableOpts  []Option
}

// New creates a new printer with the specified output type
func New(outputType OutputType) *Printer {
	return &Printer{
		out:        os.Stdout,
		outputType: outputType,
	}
}

// ParseOutputType validates an --output flag value.
func ParseOutputType(s string) (OutputType, error) {
	switch t := OutputType(strings.ToLower(s)); t {
	case "", OutputTypeTable:
		return OutputTypeTable, nil
	case OutputTypeWide, OutputTypeJSON, OutputTypeYAML:
		return t, nil
	}
	return "", fmt.Errorf("unknown output format %q (table, wide, json, yaml)", s)
}

// SetOutput sets the output writer
func (p *Printer) SetOutput(out io.Writer) {
	p.out = out
}

// SetTableOptions configures the table printer used for table output.
func (p *Printer) SetTableOptions(opts ...Option) {
	p.tableOpts = opts
}

// Out returns the output writer.
func (p *Printer) Out() io.Writer {
	return p.out
}

// Print writes data as JSON or YAML, or calls table for the table formats.
// table receives true for wide output.
func (p *Printer) Print(data any, table func(tp *TablePrinter, wide bool)) error {
	switch p.outputType {
	case OutputTypeJSON:
		return p.PrintJSON(data)
	case OutputTypeYAML:
		return p.PrintYAML(data)
	}
	tp := NewTablePrinter(p.out, p.tableOpts...)
	table(tp, p.outputType == OutputTypeWide)
	return tp.Render()
}

// PrintJSON prints data in JSON format
func (p *Printer) PrintJSON(data any) error {
	encoder := json.NewEncoder(p.out)
	encoder.SetIndent("", "  ")
	return encoder.Encode(data)
}

// PrintYAML prints data in YAML format. Data is routed through its JSON
// form so field names and custom marshalers match PrintJSON.
func (p *Printer) PrintYAML(data any) error {
	raw, err := json.Marshal(data)
	if err != nil {
		return err
	}
	var generic any
	dec := json.NewDecoder(bytes.NewReader(raw))
	dec.UseNumber()
	if err := dec.Decode(&generic); err != nil {
		return err
	}

	encoder := yaml.NewEncoder(p.out)
	encoder.SetIndent(2)
	if err := encoder.Encode(toYAMLValue(generic)); err != nil {
		return err
	}
	return encoder.Close()
}

// toYAMLValue turns json.Number into int64 or float64 so YAML prints bare
// numbers instead of quoted strings.
func toYAMLValue(v any) any {
	switch t := v.(type) {
	case map[string]any:
		for k, inner := range t {
			t[k] = toYAMLValue(inner)
		}
		return t
	case []any:
		for i, inner := range t {
			t[i] = toYAMLValue(inner)
		}
		return t
	case json.Number:
		if n, err := t.Int64(); err == nil {
			return n
		}
		if f, err := t.Float64(); err == nil {
			return f
		}
		return t.String()
	}
	return v
}

// PrintSuccess prints a success message with kubectl-style formatting
func PrintSuccess(w io.Writer, message string) {
	_, _ = fmt.Fprintf(w, "✓ %s\n", message)
}

// PrintWarning prints a warning message
func PrintWarning(w io.Writer, message string) {
	_, _ = fmt.Fprintf(w, "Warning: %s\n", message)
}
