// Package pathdata parses SVG path data ("d" attributes) into a command
// stream and replays it as absolute drawing segments.
//
// Parsing and coordinate resolution are separate steps. A Path keeps the
// commands as written, relative flags included; a Cursor walks the
// commands and resolves each one against the current point, start point
// and last control point at replay time. The same Path can therefore be
// replayed any number of times for drawing, measurement and marker
// placement.
package pathdata

// Kind identifies a path command independent of its relative flag.
type Kind uint8

const (
	Move Kind = iota
	Line
	HorizontalLine
	VerticalLine
	Cubic
	SmoothCubic
	Quadratic
	SmoothQuadratic
	Arc
	Close
)

var kindNames = [...]string{
	Move:            "Move",
	Line:            "Line",
	HorizontalLine:  "HorizontalLine",
	VerticalLine:    "VerticalLine",
	Cubic:           "Cubic",
	SmoothCubic:     "SmoothCubic",
	Quadratic:       "Quadratic",
	SmoothQuadratic: "SmoothQuadratic",
	Arc:             "Arc",
	Close:           "Close",
}

// String returns the command name.
func (k Kind) String() string {
	if int(k) < len(kindNames) {
		return kindNames[k]
	}
	return "Unknown"
}

var kindLetters = [...]byte{
	Move:            'M',
	Line:            'L',
	HorizontalLine:  'H',
	VerticalLine:    'V',
	Cubic:           'C',
	SmoothCubic:     'S',
	Quadratic:       'Q',
	SmoothQuadratic: 'T',
	Arc:             'A',
	Close:           'Z',
}

// Letter returns the path-data letter for the command.
func (k Kind) Letter(relative bool) byte {
	if int(k) >= len(kindLetters) {
		return '?'
	}
	l := kindLetters[k]
	if relative {
		l += 'a' - 'A'
	}
	return l
}

var kindArgs = [...]int{
	Move:            2,
	Line:            2,
	HorizontalLine:  1,
	VerticalLine:    1,
	Cubic:           6,
	SmoothCubic:     4,
	Quadratic:       4,
	SmoothQuadratic: 2,
	Arc:             7,
	Close:           0,
}

// ArgCount returns the number of arguments one command group takes.
func (k Kind) ArgCount() int {
	if int(k) < len(kindArgs) {
		return kindArgs[k]
	}
	return 0
}

// kindOf maps a command letter to its kind and relative flag.
func kindOf(c byte) (Kind, bool, bool) {
	rel := c >= 'a' && c <= 'z'
	if rel {
		c -= 'a' - 'A'
	}
	for k, l := range kindLetters {
		if l == c {
			return Kind(k), rel, true
		}
	}
	return 0, false, false
}

// Command is one command group as written in the source.
//
// Args holds ArgCount values. For Arc they are rx, ry, x-axis-rotation in
// degrees, large-arc flag, sweep flag, x, y, with the flags stored as 0
// or 1.
type Command struct {
	Kind     Kind
	Relative bool
	Args     []float64
}

// Path is a parsed command stream.
type Path struct {
	cmds      []Command
	recovered bool
}

// Commands returns the parsed commands. The slice must not be modified.
func (p *Path) Commands() []Command {
	if p == nil {
		return nil
	}
	return p.cmds
}

// Len returns the number of commands.
func (p *Path) Len() int {
	if p == nil {
		return 0
	}
	return len(p.cmds)
}

// IsEmpty reports whether the path has no commands.
func (p *Path) IsEmpty() bool { return p.Len() == 0 }

// Recovered reports whether lenient parsing dropped malformed input.
func (p *Path) Recovered() bool {
	return p != nil && p.recovered
}
