// Package cli renders lookups in a terminal.
package cli

import (
	"fmt"
	"io"
	"strings"

	"github.com/kochabonline/mcstatus/session"
	"github.com/kochabonline/mcstatus/status"
)

const noDataText = "No data found for this server."

// RenderView writes the result card of addr.
func RenderView(w io.Writer, addr string, v status.View) {
	var b strings.Builder
	fmt.Fprintf(&b, "Results for: %s\n", addr)
	fmt.Fprintf(&b, "  Server IP / Host: %s\n", v.Host)
	if v.Motd != "" {
		fmt.Fprintf(&b, "                    %s\n", v.Motd)
	}
	fmt.Fprintf(&b, "  Player Count:     %s\n", v.Players)
	fmt.Fprintf(&b, "  Version:          %s\n", v.Version)
	fmt.Fprintf(&b, "  Status:           %s\n", v.Status)
	if v.HasIcon {
		b.WriteString("  Icon:             yes\n")
	} else {
		fmt.Fprintf(&b, "  Icon:             %s\n", v.IconText())
	}
	_, _ = io.WriteString(w, b.String())
}

// RenderState writes one line, or a card for results, describing s.
// The empty state renders nothing.
func RenderState(w io.Writer, s session.State) {
	switch s.Kind {
	case session.KindInvalid:
		fmt.Fprintf(w, "✗ %s\n", s.Message)
	case session.KindValid:
		fmt.Fprintf(w, "✓ %s\n", s.Address())
	case session.KindLoading:
		fmt.Fprintf(w, "Loading %s...\n", s.Address())
	case session.KindError:
		fmt.Fprintf(w, "error (%s): %s\n", s.ErrorKind, s.Message)
	case session.KindNoData:
		fmt.Fprintln(w, noDataText)
	case session.KindResult:
		RenderView(w, s.Address(), status.NewView(s.Data))
	}
}
