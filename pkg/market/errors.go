package market

import (
	"errors"
	"fmt"
	"strings"
)

// ErrNoDataAvailable is returned when every provider of a fallback chain was
// exhausted without a usable result.
var ErrNoDataAvailable = errors.New("market: no data available")

// NoDataError carries the per-provider outcomes of an exhausted chain.
type NoDataError struct {
	Op     string
	Symbol string
	Report Report
}

func (e *NoDataError) Error() string {
	var b strings.Builder
	b.WriteString(ErrNoDataAvailable.Error())
	if e.Op != "" {
		fmt.Fprintf(&b, " op=%s", e.Op)
	}
	if e.Symbol != "" {
		fmt.Fprintf(&b, " symbol=%s", e.Symbol)
	}
	if len(e.Report) > 0 {
		fmt.Fprintf(&b, " (%s)", e.Report)
	}
	return b.String()
}

// Is lets errors.Is(err, ErrNoDataAvailable) match.
func (e *NoDataError) Is(target error) bool {
	return target == ErrNoDataAvailable
}
