// Command mjoyctl sends operator commands to a running mjoy daemon and prints
// its status views.
package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/spf13/pflag"

	"github.com/okian/mjoy/internal/ctl"
)

const defaultTimeout = 5 * time.Second

func main() {
	if err := run(context.Background(), os.Args[1:], os.Stdout); err != nil {
		fmt.Fprintf(os.Stderr, "mjoyctl: %v\n", err)
		os.Exit(1)
	}
}

func run(ctx context.Context, args []string, stdout io.Writer) error {
	var (
		addr    string
		setup   bool
		start   bool
		teams   int
		show    string
		timeout time.Duration
	)

	flagSet := pflag.NewFlagSet("mjoyctl", pflag.ContinueOnError)
	flagSet.SetOutput(stdout)
	flagSet.StringVar(&addr, "addr", "http://localhost:5001", "base URL of the mjoy daemon")
	flagSet.BoolVar(&setup, "setup", false, "restart controller binding")
	flagSet.IntVar(&teams, "teams", 0, "resize the roster to N teams (1-4) and enter team select")
	flagSet.BoolVar(&start, "start", false, "start the game")
	flagSet.StringVar(&show, "show", "", "print a view: "+strings.Join(ctl.Views, ", "))
	flagSet.DurationVar(&timeout, "timeout", defaultTimeout, "request timeout")
	flagSet.Usage = func() {
		fmt.Fprintln(stdout, "Usage: mjoyctl [--addr URL] [--setup] [--teams N] [--start] [--show VIEW]")
		flagSet.PrintDefaults()
	}

	if err := flagSet.Parse(args); err != nil {
		if errors.Is(err, pflag.ErrHelp) {
			return nil
		}
		return err
	}
	if flagSet.NArg() > 0 {
		return fmt.Errorf("unexpected arguments: %s", strings.Join(flagSet.Args(), " "))
	}
	if !setup && !start && teams == 0 && show == "" {
		flagSet.Usage()
		return errors.New("nothing to do")
	}

	client := ctl.New(addr, timeout)

	// Commands are sent in session order: setup, teams, start.
	if setup {
		if err := send(stdout, "setup", func() ([]byte, error) { return client.Setup(ctx) }); err != nil {
			return err
		}
	}
	if teams != 0 {
		if err := send(stdout, "teams", func() ([]byte, error) { return client.Teams(ctx, teams) }); err != nil {
			return err
		}
	}
	if start {
		if err := send(stdout, "start", func() ([]byte, error) { return client.Start(ctx) }); err != nil {
			return err
		}
	}
	if show != "" {
		out, err := client.Show(ctx, show)
		if err != nil {
			return err
		}
		fmt.Fprintln(stdout, string(out))
	}
	return nil
}

func send(stdout io.Writer, name string, call func() ([]byte, error)) error {
	if _, err := call(); err != nil {
		return err
	}
	fmt.Fprintf(stdout, "%s: accepted\n", name)
	return nil
}
