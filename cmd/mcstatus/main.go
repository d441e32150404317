// Command mcstatus validates game-server addresses and looks up their status.
package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/pflag"

	"github.com/kochabonline/mcstatus/cli"
	"github.com/kochabonline/mcstatus/config"
	"github.com/kochabonline/mcstatus/log"
	"github.com/kochabonline/mcstatus/session"
)

const usage = `Usage: mcstatus <command> [flags]

Commands:
  serve            run the HTTP API
  check <address>  validate and look up one address
  repl             interactive lookup session (:clear, :quit)
`

func main() {
	os.Exit(run(os.Args[1:], os.Stdin, os.Stdout, os.Stderr))
}

func run(args []string, stdin io.Reader, stdout, stderr io.Writer) int {
	if len(args) == 0 {
		fmt.Fprint(stderr, usage)
		return cli.ExitInvalid
	}

	fs := pflag.NewFlagSet("mcstatus "+args[0], pflag.ContinueOnError)
	fs.SetOutput(stderr)
	file := fs.StringP("config", "c", "", "config file (default ./config.yaml when present)")
	fs.String("log-level", "", "log level: debug, info, warn, error")
	fs.String("addr", "", "listen address of the HTTP API")
	watch := fs.Bool("watch", false, "reload the log level when the config file changes")

	switch args[0] {
	case "serve", "check", "repl":
	case "-h", "--help", "help":
		fmt.Fprint(stdout, usage)
		return cli.ExitOK
	default:
		fmt.Fprintf(stderr, "unknown command %q\n\n%s", args[0], usage)
		return cli.ExitInvalid
	}

	if err := fs.Parse(args[1:]); err != nil {
		return cli.ExitInvalid
	}

	cfg, c, err := config.Load(*file, func(c *config.Config) {
		// 未设置的flag不能覆盖配置文件和默认值
		for key, name := range map[string]string{"log.level": "log-level", "server.addr": "addr"} {
			if f := fs.Lookup(name); f != nil && f.Changed {
				_ = c.BindPFlag(key, f)
			}
		}
	})
	if err != nil {
		fmt.Fprintf(stderr, "load config: %v\n", err)
		return cli.ExitFailure
	}

	logger, err := log.NewFromConfig(cfg.Log)
	if err != nil {
		fmt.Fprintf(stderr, "init logger: %v\n", err)
		return cli.ExitFailure
	}
	log.SetGlobalLogger(logger)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	switch args[0] {
	case "serve":
		if *watch {
			watchLogLevel(c)
		}
		if err := serve(ctx, cfg); err != nil {
			log.Error().Err(err).Msg("server stopped")
			return cli.ExitFailure
		}
		return cli.ExitOK

	case "check":
		if fs.NArg() != 1 {
			fmt.Fprint(stderr, "check needs exactly one address\n")
			return cli.ExitInvalid
		}
		svc, closeFn, err := newService(ctx, cfg, nil)
		if err != nil {
			fmt.Fprintf(stderr, "%v\n", err)
			return cli.ExitFailure
		}
		defer closeFn()
		return cli.Check(ctx, stdout, svc, fs.Arg(0))

	default:
		svc, closeFn, err := newService(ctx, cfg, nil)
		if err != nil {
			fmt.Fprintf(stderr, "%v\n", err)
			return cli.ExitFailure
		}
		defer closeFn()
		if err := cli.NewRepl(stdin, stdout, svc, session.WithTimeout(cfg.Lookup.Timeout)).Run(ctx); err != nil && ctx.Err() == nil {
			fmt.Fprintf(stderr, "%v\n", err)
			return cli.ExitFailure
		}
		return cli.ExitOK
	}
}
