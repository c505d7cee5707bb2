package lisp

import (
	_ "embed"
	"fmt"
	"os"
)

//go:embed prelude.lisp
var prelude string

// Load reads src and evaluates every form in it in the root environment,
// stopping at the first error.
func (in *Interpreter) Load(src string) error {
	forms, err := in.ReadAll(src)
	if err != nil {
		return err
	}
	for _, form := range forms {
		if _, err := in.EvalExpr(form, in.root); err != nil {
			return err
		}
	}
	return nil
}

// LoadFile loads the contents of filename. Errors are prefixed with the
// filename.
func (in *Interpreter) LoadFile(filename string) error {
	b, err := os.ReadFile(filename)
	if err != nil {
		return err
	}
	if err := in.Load(string(b)); err != nil {
		return fmt.Errorf("%s: %w", filename, err)
	}
	in.log.Debugf("loaded %s", filename)
	return nil
}
