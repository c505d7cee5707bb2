// Command crisp runs crisp source files, or an interactive session when no
// files are given and stdin is a terminal.
package main

import (
	"flag"
	"fmt"
	"io"
	"os"

	"github.com/mattn/go-isatty"

	"github.com/deosjr/crisp/config"
	"github.com/deosjr/crisp/lisp"
	"github.com/deosjr/crisp/log"
	"github.com/deosjr/crisp/repl"
)

func main() {
	os.Exit(run(os.Args[1:]))
}

func run(args []string) int {
	fs := flag.NewFlagSet("crisp", flag.ContinueOnError)
	configPath := fs.String("config", config.DefaultFile, "configuration file")
	debug := fs.Bool("debug", false, "log at debug level")
	traceGC := fs.Bool("trace-gc", false, "log every object the collector frees")
	gcEvery := fs.Int("gc-every", -1, "collect after every N evaluations in the REPL, 0 to disable")
	fs.Usage = func() {
		fmt.Fprintf(fs.Output(), "usage: crisp [flags] [file%s...]\n", config.SourceFileExt)
		fs.PrintDefaults()
	}
	if err := fs.Parse(args); err != nil {
		return 2
	}

	cfg, err := config.Load(*configPath)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 1
	}
	if *debug {
		cfg.Log.Level = "debug"
	}
	if *traceGC {
		cfg.GC.Trace = true
	}
	if *gcEvery >= 0 {
		cfg.GC.Every = *gcEvery
	}
	level, err := log.ParseLevel(cfg.Log.Level)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 1
	}
	log.SetLevel(level)
	lg := log.Default()

	in := lisp.New(
		lisp.WithLogger(lg),
		lisp.WithTracing(cfg.GC.Trace),
	)
	lg.Debugf("interpreter %s ready", in.ID())

	if files := fs.Args(); len(files) > 0 {
		for _, file := range files {
			if err := in.LoadFile(file); err != nil {
				fmt.Fprintln(os.Stderr, err)
				return 1
			}
		}
		return 0
	}

	if isatty.IsTerminal(os.Stdin.Fd()) || isatty.IsCygwinTerminal(os.Stdin.Fd()) {
		if err := repl.New(in, cfg, os.Stdout, lg).Run(); err != nil {
			fmt.Fprintln(os.Stderr, err)
			return 1
		}
		return 0
	}

	src, err := io.ReadAll(os.Stdin)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 1
	}
	if err := in.Load(string(src)); err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 1
	}
	return 0
}
