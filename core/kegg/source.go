// core/kegg/source.go
package kegg

import (
	"context"
	"fmt"
	"io"
)

// Source supplies raw flat-file record text keyed by accession. The core
// never performs network calls itself; callers plug in a REST client, a
// directory of cached records, or a test fixture.
type Source interface {
	Get(ctx context.Context, accession string) (io.ReadCloser, error)
}

// RetrievalError wraps a Source failure for one accession. Assembly degrades
// by omitting the sub-record; the omission is reported, never swallowed, so
// completeness scores over partial data are not misread as authoritative.
type RetrievalError struct {
	Accession string
	Err       error
}

func (e *RetrievalError) Error() string {
	return fmt.Sprintf("retrieve %s: %v", e.Accession, e.Err)
}

func (e *RetrievalError) Unwrap() error { return e.Err }

// ParseError reports a malformed line in a flat-file record. It aborts the
// record it occurs in; sibling records in the same stream are unaffected.
type ParseError struct {
	Accession string // record being parsed, if known yet
	Line      int    // 1-based line number within the stream
	Text      string // offending line
	Msg       string
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("record %s line %d: %s (in %q)", e.Accession, e.Line, e.Msg, e.Text)
}
