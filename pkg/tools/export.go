package tools

import (
	"bytes"
	"encoding/csv"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/newsroom-labs/domaingraph/pkg/common"
)

// ExportFormat names a glossary export encoding.
type ExportFormat string

const (
	ExportJSON     ExportFormat = "json"
	ExportMarkdown ExportFormat = "markdown"
	ExportCSV      ExportFormat = "csv"
)

// ExportGlossary renders a glossary in the requested format for
// downstream editorial use.
func ExportGlossary(domain string, terms []GlossaryTerm, format ExportFormat) ([]byte, error) {
	switch format {
	case ExportJSON:
		return json.MarshalIndent(map[string]any{
			"domain": domain,
			"terms":  terms,
		}, "", "  ")

	case ExportMarkdown:
		var b strings.Builder
		fmt.Fprintf(&b, "# %s glossary\n\n", domain)
		for _, term := range terms {
			fmt.Fprintf(&b, "## %s\n\n", term.Term)
			fmt.Fprintf(&b, "Score: %.4f\n\n", term.Score)
			if term.Definition != "" {
				fmt.Fprintf(&b, "%s\n\n", term.Definition)
			}
		}
		return []byte(b.String()), nil

	case ExportCSV:
		var buf bytes.Buffer
		w := csv.NewWriter(&buf)
		if err := w.Write([]string{"term", "score", "definition"}); err != nil {
			return nil, err
		}
		for _, term := range terms {
			record := []string{term.Term, fmt.Sprintf("%.6f", term.Score), term.Definition}
			if err := w.Write(record); err != nil {
				return nil, err
			}
		}
		w.Flush()
		if err := w.Error(); err != nil {
			return nil, err
		}
		return buf.Bytes(), nil

	default:
		return nil, fmt.Errorf("%w: unsupported export format %q", common.ErrInvalidParameter, format)
	}
}
