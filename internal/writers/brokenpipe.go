package writers

import (
	"errors"
	"io"
	"syscall"
)

// IsBrokenPipe reports whether err came from writing to a closed pipe, e.g.
// when report output is piped into `head`. Treated as a clean shutdown.
func IsBrokenPipe(err error) bool {
	return err != nil && (errors.Is(err, syscall.EPIPE) || errors.Is(err, io.ErrClosedPipe))
}
