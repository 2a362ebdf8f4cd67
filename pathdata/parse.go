package pathdata

import (
	"errors"
	"fmt"

	"github.com/tdewolff/parse/v2/strconv"
)

// ErrSyntax is wrapped by every SyntaxError.
var ErrSyntax = errors.New("pathdata: syntax error")

// SyntaxError describes malformed path data.
type SyntaxError struct {
	Offset int // byte offset of the first malformed input
	Msg    string
}

func (e *SyntaxError) Error() string {
	return fmt.Sprintf("pathdata: %s at offset %d", e.Msg, e.Offset)
}

func (e *SyntaxError) Unwrap() error { return ErrSyntax }

// Parse parses path data leniently.
//
// Parsing stops at the first malformed byte; everything before it is
// kept, and a command group left without all of its arguments is dropped.
// Recovered reports whether anything was discarded. Parse never returns
// nil.
func Parse(d string) *Path {
	p, err := parse(d)
	if err != nil {
		p.recovered = true
	}
	return p
}

// ParseStrict parses path data and fails on the first malformed byte with
// a *SyntaxError.
func ParseStrict(d string) (*Path, error) {
	p, err := parse(d)
	if err != nil {
		return nil, err
	}
	return p, nil
}

// MustParse is like ParseStrict but panics on error.
func MustParse(d string) *Path {
	p, err := ParseStrict(d)
	if err != nil {
		panic(err)
	}
	return p
}

// parse returns the commands read before the first error, together with
// that error.
func parse(d string) (*Path, error) {
	s := scanner{buf: []byte(d)}
	p := &Path{}

	var (
		kind     Kind
		relative bool
		have     bool
	)
	for {
		s.skipSeparators()
		if s.eof() {
			return p, nil
		}
		start := s.pos
		if k, rel, ok := kindOf(s.peek()); ok {
			if !have && k != Move {
				return p, &SyntaxError{Offset: start, Msg: "path data must begin with a moveto"}
			}
			kind, relative, have = k, rel, true
			s.pos++
			if kind == Close {
				p.cmds = append(p.cmds, Command{Kind: Close, Relative: relative})
				continue
			}
		} else if !isNumberStart(s.peek()) {
			return p, &SyntaxError{Offset: start, Msg: fmt.Sprintf("unexpected %q", s.peek())}
		} else if !have || kind == Close {
			return p, &SyntaxError{Offset: start, Msg: "number without a command"}
		}

		args := make([]float64, kind.ArgCount())
		for i := range args {
			s.skipSeparators()
			var ok bool
			if kind == Arc && (i == 3 || i == 4) {
				args[i], ok = s.flag()
			} else {
				args[i], ok = s.number()
			}
			if !ok {
				if s.eof() {
					return p, &SyntaxError{Offset: s.pos, Msg: fmt.Sprintf("%s command is missing arguments", kind)}
				}
				return p, &SyntaxError{Offset: s.pos, Msg: fmt.Sprintf("invalid %s argument %q", kind, s.peek())}
			}
		}
		p.cmds = append(p.cmds, Command{Kind: kind, Relative: relative, Args: args})

		// Extra coordinate pairs after a moveto are implicit linetos.
		if kind == Move {
			kind = Line
		}
	}
}

// ParseNumbers parses a whitespace- or comma-separated number list, as
// used by points, viewBox, keyTimes and similar attributes.
func ParseNumbers(v string) ([]float64, error) {
	s := scanner{buf: []byte(v)}
	var out []float64
	for {
		s.skipSeparators()
		if s.eof() {
			return out, nil
		}
		f, ok := s.number()
		if !ok {
			return out, &SyntaxError{Offset: s.pos, Msg: fmt.Sprintf("invalid number %q", s.peek())}
		}
		out = append(out, f)
	}
}

type scanner struct {
	buf []byte
	pos int
}

func (s *scanner) eof() bool { return s.pos >= len(s.buf) }

func (s *scanner) peek() byte { return s.buf[s.pos] }

func (s *scanner) skipSeparators() {
	for s.pos < len(s.buf) {
		switch s.buf[s.pos] {
		case ' ', '\t', '\n', '\r', '\f', ',':
			s.pos++
		default:
			return
		}
	}
}

func (s *scanner) number() (float64, bool) {
	if s.eof() || !isNumberStart(s.peek()) {
		return 0, false
	}
	f, n := strconv.ParseFloat(s.buf[s.pos:])
	if n == 0 {
		return 0, false
	}
	s.pos += n
	return f, true
}

// flag reads a single-character arc flag. Flags need no separator, so
// "a1 1 0 00 10 10" is valid.
func (s *scanner) flag() (float64, bool) {
	if s.eof() {
		return 0, false
	}
	switch s.peek() {
	case '0':
		s.pos++
		return 0, true
	case '1':
		s.pos++
		return 1, true
	}
	return 0, false
}

func isNumberStart(c byte) bool {
	return c >= '0' && c <= '9' || c == '.' || c == '-' || c == '+'
}
