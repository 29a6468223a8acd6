// internal/writers/rows.go
package writers

import (
	"fmt"
	"io"

	"kpath/internal/report"
)

// StartRowWriter spins up a writer goroutine for report rows and returns the
// input channel plus a one-shot error channel resolved when the input closes.
// text and jsonl stream row-by-row unless sorting forces buffering; json
// always buffers into a single array.
func StartRowWriter(out io.Writer, format string, sortRows, header bool, bufSize int) (chan<- report.Row, <-chan error) {
	if bufSize <= 0 {
		bufSize = 64
	}
	in := make(chan report.Row, bufSize)
	errCh := make(chan error, 1)

	go func() {
		var err error
		switch format {
		case "json":
			var buf []report.Row
			for r := range in {
				buf = append(buf, r)
			}
			if sortRows {
				report.Sort(buf)
			}
			err = report.WriteJSON(out, buf)

		case "jsonl":
			if sortRows {
				var buf []report.Row
				for r := range in {
					buf = append(buf, r)
				}
				report.Sort(buf)
				ch := make(chan report.Row, len(buf))
				for _, r := range buf {
					ch <- r
				}
				close(ch)
				err = report.StreamJSONL(out, ch)
			} else {
				err = report.StreamJSONL(out, in)
			}

		case "text":
			if sortRows {
				var buf []report.Row
				for r := range in {
					buf = append(buf, r)
				}
				report.Sort(buf)
				err = report.WriteText(out, buf, header)
			} else {
				err = report.StreamText(out, in, header)
			}

		default:
			err = fmt.Errorf("unsupported output %q", format)
		}
		// Drain so producers never block after a writer error.
		for range in {
		}
		errCh <- err
	}()

	return in, errCh
}
