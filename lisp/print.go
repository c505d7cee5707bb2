package lisp

import (
	"math"
	"strconv"
	"strings"
)

// String renders v in the syntax the parser reads: proper lists as (a b c),
// improper lists as (a b . c).
func (v *Value) String() string {
	var b strings.Builder
	v.write(&b)
	return b.String()
}

func (v *Value) write(b *strings.Builder) {
	switch v.kind {
	case KindNil:
		b.WriteString("()")
	case KindBool:
		if v.boolean {
			b.WriteString("#t")
		} else {
			b.WriteString("#f")
		}
	case KindNumber:
		b.WriteString(formatNumber(v.number))
	case KindString:
		b.WriteString(quoteString(*v.name))
	case KindAtom:
		b.WriteString(*v.name)
	case KindFunction:
		b.WriteString("<builtin>")
	case KindLambda:
		b.WriteString("<lambda>")
	case KindCons:
		b.WriteByte('(')
		c := v
		for {
			c.car.write(b)
			c = c.cdr
			if c.kind == KindNil {
				break
			}
			if c.kind != KindCons {
				b.WriteString(" . ")
				c.write(b)
				break
			}
			b.WriteByte(' ')
		}
		b.WriteByte(')')
	}
}

// nonFinite spells the doubles FormatFloat cannot write readably. The
// scanner reads these spellings back as numbers.
var nonFinite = map[string]float64{
	"+inf.0": math.Inf(1),
	"-inf.0": math.Inf(-1),
	"+nan.0": math.NaN(),
}

func formatNumber(n float64) string {
	switch {
	case math.IsInf(n, 1):
		return "+inf.0"
	case math.IsInf(n, -1):
		return "-inf.0"
	case math.IsNaN(n):
		return "+nan.0"
	}
	return strconv.FormatFloat(n, 'f', -1, 64)
}

func parseNumber(text string) (float64, error) {
	if n, ok := nonFinite[text]; ok {
		return n, nil
	}
	return strconv.ParseFloat(text, 64)
}

var stringEscapes = strings.NewReplacer(`\`, `\\`, `"`, `\"`, "\n", `\n`, "\t", `\t`)

func quoteString(s string) string {
	return `"` + stringEscapes.Replace(s) + `"`
}
