package lisp

import (
	"os"
)

// ReadFile slurps filename and reads every datum in it.
func (in *Interpreter) ReadFile(filename string) ([]*Value, error) {
	b, err := os.ReadFile(filename)
	if err != nil {
		return nil, err
	}
	return in.ReadAll(string(b))
}

// ReadAll reads every datum in src.
func (in *Interpreter) ReadAll(src string) ([]*Value, error) {
	p := &parser{in: in, s: newScanner(src)}
	var data []*Value
	for {
		tok, err := p.s.next()
		if err != nil {
			return nil, err
		}
		if tok.typ == tokenEOF {
			return data, nil
		}
		v, err := p.datum(tok)
		if err != nil {
			return nil, err
		}
		data = append(data, v)
	}
}

// Read reads the first datum in src and ignores the rest.
func (in *Interpreter) Read(src string) (*Value, error) {
	p := &parser{in: in, s: newScanner(src)}
	tok, err := p.s.next()
	if err != nil {
		return nil, err
	}
	if tok.typ == tokenEOF {
		return nil, p.incomplete(tok, "expected a datum")
	}
	return p.datum(tok)
}

type parser struct {
	in *Interpreter
	s  *scanner
}

var abbreviations = map[tokenType]string{
	tokenApostrophe: "quote",
	tokenBacktick:   "quasiquote",
	tokenComma:      "unquote",
}

func (p *parser) datum(tok token) (*Value, error) {
	switch tok.typ {
	case tokenLeftParen:
		return p.list(tokenRightParen)
	case tokenLeftBox:
		return p.list(tokenRightBox)
	case tokenApostrophe, tokenBacktick, tokenComma:
		next, err := p.s.next()
		if err != nil {
			return nil, err
		}
		if next.typ == tokenEOF {
			return nil, p.incomplete(next, "expected a datum after '"+tok.text+"'")
		}
		v, err := p.datum(next)
		if err != nil {
			return nil, err
		}
		return p.in.List(p.in.Atom(abbreviations[tok.typ]), v), nil
	case tokenTrue:
		return p.in.Bool(true), nil
	case tokenFalse:
		return p.in.Bool(false), nil
	case tokenNumber:
		n, err := parseNumber(tok.text)
		if err != nil {
			return nil, p.errorf(tok, "invalid number")
		}
		return p.in.Number(n), nil
	case tokenString:
		return p.in.Str(tok.text), nil
	case tokenIdentifier:
		return p.in.Atom(tok.text), nil
	}
	return nil, p.errorf(tok, "unexpected token")
}

// list reads the items after an opening bracket up to the matching close.
// A dot inside the list introduces its tail and must be followed by exactly
// one datum.
func (p *parser) list(closing tokenType) (*Value, error) {
	var items []*Value
	for {
		tok, err := p.s.next()
		if err != nil {
			return nil, err
		}
		switch tok.typ {
		case tokenEOF:
			return nil, p.incomplete(tok, "expected '"+closer(closing)+"'")
		case closing:
			return p.in.List(items...), nil
		case tokenRightParen, tokenRightBox:
			return nil, p.errorf(tok, "mismatched bracket, expected '"+closer(closing)+"'")
		case tokenDot:
			if len(items) == 0 {
				return nil, p.errorf(tok, "expected a datum before '.'")
			}
			return p.tail(closing, items)
		}
		v, err := p.datum(tok)
		if err != nil {
			return nil, err
		}
		items = append(items, v)
	}
}

func (p *parser) tail(closing tokenType, items []*Value) (*Value, error) {
	tok, err := p.s.next()
	if err != nil {
		return nil, err
	}
	switch tok.typ {
	case tokenEOF:
		return nil, p.incomplete(tok, "expected a datum after '.'")
	case tokenRightParen, tokenRightBox, tokenDot:
		return nil, p.errorf(tok, "expected a datum after '.'")
	}
	last, err := p.datum(tok)
	if err != nil {
		return nil, err
	}
	end, err := p.s.next()
	if err != nil {
		return nil, err
	}
	switch end.typ {
	case closing:
		return p.in.ListWithTail(last, items...), nil
	case tokenEOF:
		return nil, p.incomplete(end, "expected '"+closer(closing)+"'")
	}
	return nil, p.errorf(end, "expected '"+closer(closing)+"' after dotted tail")
}

func closer(typ tokenType) string {
	if typ == tokenRightBox {
		return "]"
	}
	return ")"
}

func (p *parser) errorf(tok token, msg string) error {
	return &ParseError{Line: tok.line, Near: tok.text, Msg: msg}
}

func (p *parser) incomplete(tok token, msg string) error {
	return &ParseError{Line: tok.line, Msg: msg, Incomplete: true}
}
