package cli

import (
	"context"
	"fmt"
	"io"

	"github.com/kochabonline/mcstatus/address"
	"github.com/kochabonline/mcstatus/errors"
	"github.com/kochabonline/mcstatus/status"
)

// Exit codes of Check.
const (
	ExitOK      = 0
	ExitFailure = 1
	ExitInvalid = 2
)

// Check validates addr, looks it up once and renders the outcome.
// Invalid input is reported inline without any lookup.
func Check(ctx context.Context, w io.Writer, lookuper status.Lookuper, addr string) int {
	parsed, err := address.Parse(addr)
	if err != nil {
		fmt.Fprintf(w, "✗ %s\n", address.ReasonOf(err).Message())
		return ExitInvalid
	}

	resp, err := lookuper.Lookup(ctx, parsed.Raw)
	if err != nil {
		fmt.Fprintf(w, "error: %s\n", errors.FromError(err).Message)
		return ExitFailure
	}
	if resp == nil {
		fmt.Fprintln(w, noDataText)
		return ExitOK
	}

	RenderView(w, parsed.Raw, status.NewView(resp))
	return ExitOK
}
