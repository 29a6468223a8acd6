// internal/report/report.go
package report

import (
	"encoding/json"
	"fmt"
	"io"
	"sort"
	"strconv"
)

// Row is one (module, step, subject) completeness observation, the unit the
// presentation layer consumes for tables or heat maps.
type Row struct {
	Module       string  `json:"module"`
	Step         string  `json:"step"`
	Subject      string  `json:"subject,omitempty"`
	Present      bool    `json:"present"`
	Completeness float64 `json:"completeness"`
}

// Less defines a stable order for rows (for -sort).
func Less(a, b Row) bool {
	if a.Module != b.Module {
		return a.Module < b.Module
	}
	if a.Subject != b.Subject {
		return a.Subject < b.Subject
	}
	return a.Step < b.Step
}

func Sort(rows []Row) {
	sort.Slice(rows, func(i, j int) bool { return Less(rows[i], rows[j]) })
}

const headerLine = "module\tstep\tsubject\tpresent\tcompleteness\n"

func formatRowTSV(r Row) string {
	return fmt.Sprintf("%s\t%s\t%s\t%t\t%s",
		r.Module, r.Step, r.Subject, r.Present,
		strconv.FormatFloat(r.Completeness, 'f', 4, 64),
	)
}

// StreamText writes rows as TSV as they arrive.
func StreamText(w io.Writer, in <-chan Row, header bool) error {
	if header {
		if _, err := io.WriteString(w, headerLine); err != nil {
			return err
		}
	}
	for r := range in {
		if _, err := fmt.Fprintln(w, formatRowTSV(r)); err != nil {
			return err
		}
	}
	return nil
}

// WriteText writes an already-collected slice as TSV.
func WriteText(w io.Writer, rows []Row, header bool) error {
	if header {
		if _, err := io.WriteString(w, headerLine); err != nil {
			return err
		}
	}
	for _, r := range rows {
		if _, err := fmt.Fprintln(w, formatRowTSV(r)); err != nil {
			return err
		}
	}
	return nil
}

// WriteJSON writes rows as one indented JSON array.
func WriteJSON(w io.Writer, rows []Row) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(rows)
}

// StreamJSONL writes rows as JSON Lines as they arrive.
func StreamJSONL(w io.Writer, in <-chan Row) error {
	enc := json.NewEncoder(w)
	for r := range in {
		if err := enc.Encode(r); err != nil {
			return err
		}
	}
	return nil
}
