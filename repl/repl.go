// Package repl is the interactive read-eval-print loop around an
// interpreter.
package repl

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/dustin/go-humanize"
	"github.com/mattn/go-isatty"
	"github.com/peterh/liner"

	"github.com/deosjr/crisp/config"
	"github.com/deosjr/crisp/lisp"
	"github.com/deosjr/crisp/log"
)

const helpText = `Enter expressions to evaluate them. Unfinished input continues on the next line.
  :gc    collect garbage and print statistics
  :env   list the bindings of the root environment
  :help  show this help
  :quit  leave (Ctrl+D works too)
`

func red(s string) string  { return "\x1b[31m" + s + "\x1b[0m" }
func blue(s string) string { return "\x1b[94m" + s + "\x1b[0m" }

// REPL evaluates input in one persistent interpreter and collects garbage
// between evaluations.
type REPL struct {
	in    *lisp.Interpreter
	cfg   config.Config
	out   io.Writer
	log   *log.Logger
	color bool
	evals int
}

// New returns a REPL writing results to out. Colour follows cfg.REPL.Color,
// with auto meaning colour only when out is a terminal.
func New(in *lisp.Interpreter, cfg config.Config, out io.Writer, lg *log.Logger) *REPL {
	return &REPL{
		in:    in,
		cfg:   cfg,
		out:   out,
		log:   lg.With("repl"),
		color: useColor(cfg.REPL.Color, out),
	}
}

func useColor(mode string, out io.Writer) bool {
	switch mode {
	case "always":
		return true
	case "never":
		return false
	}
	f, ok := out.(*os.File)
	if !ok {
		return false
	}
	return isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
}

// Run reads from the terminal until :quit or end of input.
func (r *REPL) Run() error {
	ln := liner.NewLiner()
	defer ln.Close()
	ln.SetCtrlCAborts(true)

	histPath := r.historyPath()
	if histPath != "" {
		if f, err := os.Open(histPath); err == nil {
			if _, err := ln.ReadHistory(f); err != nil {
				r.log.Debugf("history %s: %v", histPath, err)
			}
			f.Close()
		}
	}

	fmt.Fprintf(r.out, "crisp %s, %s for help\n", r.in.ID().String()[:8], config.HelpCommand)
	for {
		src, ok := r.read(ln)
		if !ok {
			fmt.Fprintln(r.out)
			break
		}
		if strings.TrimSpace(src) == "" {
			continue
		}
		ln.AppendHistory(strings.ReplaceAll(src, "\n", " "))
		if quit := r.Execute(src); quit {
			break
		}
	}

	if histPath == "" {
		return nil
	}
	f, err := os.Create(histPath)
	if err != nil {
		return fmt.Errorf("history: %w", err)
	}
	defer f.Close()
	if _, err := ln.WriteHistory(f); err != nil {
		return fmt.Errorf("history: %w", err)
	}
	return nil
}

func (r *REPL) historyPath() string {
	name := r.cfg.REPL.History
	if name == "" || filepath.IsAbs(name) {
		return name
	}
	home, err := os.UserHomeDir()
	if err != nil {
		r.log.Debugf("no home directory, history disabled: %v", err)
		return ""
	}
	return filepath.Join(home, name)
}

// read accumulates lines until the reader accepts the buffer or reports an
// error more input cannot fix. It returns false at end of input.
func (r *REPL) read(ln *liner.State) (string, bool) {
	var b strings.Builder
	for {
		prompt := r.cfg.REPL.Prompt
		if b.Len() > 0 {
			prompt = r.cfg.REPL.Continue
		}
		line, err := ln.Prompt(prompt)
		if errors.Is(err, io.EOF) {
			return "", false
		}
		if err != nil {
			// Ctrl+C abandons the current input.
			return "", true
		}
		if b.Len() > 0 {
			b.WriteByte('\n')
		}
		b.WriteString(line)
		src := b.String()
		if strings.HasPrefix(strings.TrimSpace(src), ":") || !r.incomplete(src) {
			return src, true
		}
	}
}

func (r *REPL) incomplete(src string) bool {
	_, err := r.in.ReadAll(src)
	return lisp.IsIncomplete(err)
}

// Execute runs one complete chunk of input: a meta command or any number
// of expressions. It reports whether the user asked to quit.
func (r *REPL) Execute(src string) (quit bool) {
	if line := strings.TrimSpace(src); strings.HasPrefix(line, ":") {
		return r.command(line)
	}
	forms, err := r.in.ReadAll(src)
	if err != nil {
		r.printError(err)
		return false
	}
	for _, form := range forms {
		v, err := r.in.EvalExpr(form, r.in.Root())
		if err != nil {
			r.printError(err)
			break
		}
		r.printValue(v)
	}
	r.evals++
	if every := r.cfg.GC.Every; every > 0 && r.evals%every == 0 {
		r.in.Collect()
	}
	return false
}

func (r *REPL) command(line string) (quit bool) {
	fields := strings.Fields(line)
	switch strings.ToLower(fields[0]) {
	case config.QuitCommand, ":exit":
		return true
	case config.HelpCommand:
		fmt.Fprint(r.out, helpText)
	case config.GCCommand:
		stats := r.in.Collect()
		fmt.Fprintf(r.out, "gc cycle %s: freed %s, %s live\n",
			humanize.Comma(int64(stats.Cycles)),
			humanize.Comma(int64(stats.Freed)),
			humanize.Comma(int64(stats.Live)))
	case config.EnvCommand:
		root := r.in.Root()
		for _, name := range root.Names() {
			v, _ := root.Lookup(r.in.Intern(name))
			fmt.Fprintf(r.out, "%s: %s\n", name, v.Describe())
		}
	default:
		fmt.Fprintf(r.out, "unknown command %s, type %s for help\n", fields[0], config.HelpCommand)
	}
	return false
}

func (r *REPL) printValue(v *lisp.Value) {
	s := v.String()
	if r.color {
		s = blue(s)
	}
	fmt.Fprintln(r.out, s)
}

func (r *REPL) printError(err error) {
	s := err.Error()
	if r.color {
		s = red(s)
	}
	fmt.Fprintln(r.out, s)
}
