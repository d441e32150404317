package cli

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"strings"
	"sync"

	"github.com/kochabonline/mcstatus/session"
	"github.com/kochabonline/mcstatus/status"
)

const (
	cmdClear = ":clear"
	cmdQuit  = ":quit"
	prompt   = "> "
)

// Repl reads one address per line, validates it live and looks it up.
type Repl struct {
	in      io.Reader
	out     io.Writer
	mu      sync.Mutex
	session *session.Session
}

func NewRepl(in io.Reader, out io.Writer, lookuper status.Lookuper, opts ...session.Option) *Repl {
	r := &Repl{in: in, out: out}
	opts = append(opts, session.WithObserver(r.render))
	r.session = session.New(lookuper, opts...)
	return r
}

func (r *Repl) render(s session.State) {
	r.mu.Lock()
	defer r.mu.Unlock()
	RenderState(r.out, s)
}

func (r *Repl) write(format string, args ...any) {
	r.mu.Lock()
	defer r.mu.Unlock()
	fmt.Fprintf(r.out, format, args...)
}

// Run processes input until :quit, EOF or ctx is done. In-flight lookups
// are awaited on EOF and cancelled otherwise.
func (r *Repl) Run(ctx context.Context) error {
	lines := make(chan string)
	errCh := make(chan error, 1)
	done := make(chan struct{})
	defer close(done)

	go func() {
		defer close(lines)
		scanner := bufio.NewScanner(r.in)
		for scanner.Scan() {
			select {
			case lines <- scanner.Text():
			case <-done:
				return
			}
		}
		errCh <- scanner.Err()
	}()

	r.write("%s", prompt)
	for {
		select {
		case <-ctx.Done():
			r.session.Close()
			return ctx.Err()
		case line, ok := <-lines:
			if !ok {
				r.session.Wait()
				return <-errCh
			}
			switch strings.TrimSpace(line) {
			case cmdQuit:
				r.session.Close()
				return nil
			case cmdClear:
				r.session.Clear()
				r.write("cleared\n")
			default:
				r.session.SetInput(line)
				r.session.Submit()
			}
			r.write("%s", prompt)
		}
	}
}
