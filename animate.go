package svg

import (
	"math"
	"strconv"
	"strings"

	tstrconv "github.com/tdewolff/parse/v2/strconv"

	"github.com/gogpu/svg/units"
)

// AnimationState is the phase of an animation track.
type AnimationState uint8

const (
	// StatePending waits for the begin time.
	StatePending AnimationState = iota
	// StateActive runs the first iteration.
	StateActive
	// StateLooping runs a repeat iteration.
	StateLooping
	// StateFrozen holds the final value after the active duration.
	StateFrozen
	// StateRemoved restored the base value after the active duration.
	StateRemoved
)

var stateNames = [...]string{"pending", "active", "looping", "frozen", "removed"}

func (s AnimationState) String() string {
	if int(s) < len(stateNames) {
		return stateNames[s]
	}
	return "unknown"
}

// AnimationTrack drives one attribute or property of a target element
// from an animate, animateColor, animateTransform or set element.
type AnimationTrack struct {
	elem   *Element
	target *Element
	attr   string
	cell   *Property
	base   string

	// Times in milliseconds. A non-positive dur means none was given.
	begin     float64
	dur       float64
	repeats   float64
	repeatDur float64
	freeze    bool

	values   []string
	keyTimes []float64
	discrete bool
	color    bool
	additive bool
	// transformType is the transform function of animateTransform.
	transformType string

	state     AnimationState
	iteration int
}

// Element returns the animation element.
func (t *AnimationTrack) Element() *Element { return t.elem }

// Target returns the animated element.
func (t *AnimationTrack) Target() *Element { return t.target }

// Attribute returns the animated attribute or property name.
func (t *AnimationTrack) Attribute() string { return t.attr }

// State returns the phase reached at the last tick.
func (t *AnimationTrack) State() AnimationState { return t.state }

// collectTracks builds a track for every animation element whose target
// and attribute resolve.
func (d *Document) collectTracks() {
	for _, e := range d.elements {
		if !e.kind.IsAnimation() {
			continue
		}
		t := newAnimationTrack(e)
		if t == nil {
			continue
		}
		e.track = t
		d.tracks = append(d.tracks, t)
	}
}

func newAnimationTrack(e *Element) *AnimationTrack {
	target := e.parent
	if e.HasAttr("href") {
		target = e.Attr("href").Definition()
	}
	attr := strings.TrimSpace(e.Attr("attributeName").String())
	if e.kind == KindAnimateTransform && attr == "" {
		attr = "transform"
	}
	if target == nil || attr == "" {
		Logger().Warn("svg: animation without target", "element", e.String(), "attributeName", attr)
		return nil
	}

	t := &AnimationTrack{
		elem:      e,
		target:    target,
		attr:      attr,
		begin:     beginTime(e.Attr("begin")),
		dur:       durationOf(e.Attr("dur")),
		repeatDur: durationOf(e.Attr("repeatDur")),
		freeze:    e.Attr("fill").Is("freeze"),
		discrete:  e.kind == KindSet || e.Attr("calcMode").Is("discrete"),
		additive:  e.Attr("additive").Is("sum"),
	}
	switch rc := strings.TrimSpace(e.Attr("repeatCount").String()); rc {
	case "indefinite":
		t.repeats = math.Inf(1)
	case "":
	default:
		if n, err := strconv.ParseFloat(rc, 64); err == nil && n > 0 {
			t.repeats = n
		}
	}
	if e.Attr("repeatDur").Is("indefinite") {
		t.repeatDur = math.Inf(1)
	}

	t.cell = animatedCell(target, attr)
	t.base = t.cell.String()
	if e.kind == KindAnimateTransform {
		t.transformType = strings.TrimSpace(e.Attr("type").String())
		if t.transformType == "" {
			t.transformType = "translate"
		}
	}
	t.values = t.keyframes()
	if len(t.values) == 0 {
		Logger().Warn("svg: animation without values", "element", e.String())
		return nil
	}
	t.keyTimes = keyTimesOf(e.Attr("keyTimes"), len(t.values))
	t.color = e.kind == KindAnimateColor || allColors(t.values)
	return t
}

// animatedCell returns the property an animation writes: the declared
// style when the target has one, so it keeps winning the cascade, and
// the attribute otherwise.
func animatedCell(target *Element, name string) *Property {
	if p, ok := target.styles[name]; ok && p.HasValue() {
		return p
	}
	return target.attrCell(name)
}

// keyframes derives the value list from values or from, to and by.
func (t *AnimationTrack) keyframes() []string {
	e := t.elem
	if e.HasAttr("values") {
		var out []string
		for _, v := range strings.Split(e.Attr("values").String(), ";") {
			if v = strings.TrimSpace(v); v != "" {
				out = append(out, v)
			}
		}
		return out
	}
	from := strings.TrimSpace(e.Attr("from").String())
	to := strings.TrimSpace(e.Attr("to").String())
	by := strings.TrimSpace(e.Attr("by").String())
	if e.kind == KindSet {
		if to == "" {
			return nil
		}
		return []string{to}
	}
	if from == "" {
		from = t.base
		if e.kind == KindAnimateTransform {
			from = ""
		}
	}
	switch {
	case to != "":
		return []string{from, to}
	case by != "":
		return []string{from, addValues(from, by)}
	}
	return nil
}

// keyTimesOf parses keyTimes, which must hold one increasing time in
// [0, 1] per value. Otherwise the values are spaced evenly.
func keyTimesOf(p *Property, n int) []float64 {
	if kt := semicolonNumbers(p.String()); len(kt) == n && n > 1 {
		ok := true
		for i, v := range kt {
			if v < 0 || v > 1 || (i > 0 && v < kt[i-1]) {
				ok = false
				break
			}
		}
		if ok {
			return kt
		}
	}
	out := make([]float64, n)
	for i := range out {
		if n > 1 {
			out[i] = float64(i) / float64(n-1)
		}
	}
	return out
}

// semicolonNumbers parses a ';' separated number list, returning nil
// when any item is malformed.
func semicolonNumbers(s string) []float64 {
	if strings.TrimSpace(s) == "" {
		return nil
	}
	parts := strings.Split(s, ";")
	out := make([]float64, 0, len(parts))
	for _, part := range parts {
		f, err := strconv.ParseFloat(strings.TrimSpace(part), 64)
		if err != nil {
			return nil
		}
		out = append(out, f)
	}
	return out
}

// beginTime parses the first offset of a begin list. Event and
// syncbase values never begin.
func beginTime(p *Property) float64 {
	if !p.HasValue() {
		return 0
	}
	first := strings.TrimSpace(strings.Split(p.String(), ";")[0])
	ms, err := units.ParseDuration(first)
	if err != nil {
		Logger().Debug("svg: unsupported animation begin", "value", first)
		return math.Inf(1)
	}
	return ms
}

func durationOf(p *Property) float64 {
	if !p.HasValue() || p.Is("indefinite") {
		return 0
	}
	return p.Milliseconds()
}

// activeDuration is the time the animation runs after begin.
func (t *AnimationTrack) activeDuration() float64 {
	if t.dur <= 0 {
		return math.Inf(1)
	}
	d := t.dur
	if t.repeats > 0 {
		d = t.dur * t.repeats
	}
	if t.repeatDur > 0 {
		if t.repeats > 0 {
			d = math.Min(d, t.repeatDur)
		} else {
			d = t.repeatDur
		}
	}
	return d
}

// update moves the track to time ms since the animation start and
// writes the resulting value. It reports whether the value changed.
func (t *AnimationTrack) update(ms float64) bool {
	local := ms - t.begin
	if local < 0 || math.IsInf(t.begin, 1) {
		t.state = StatePending
		return t.write(t.base)
	}

	if t.dur <= 0 {
		// Only set applies without a duration: it holds its value.
		if t.elem.kind != KindSet {
			t.state = StatePending
			return t.write(t.base)
		}
		t.state = StateActive
		return t.write(t.value(1))
	}

	active := t.activeDuration()
	if local < active {
		t.iteration = int(local / t.dur)
		t.state = StateActive
		if t.iteration > 0 {
			t.state = StateLooping
		}
		p := (local - float64(t.iteration)*t.dur) / t.dur
		return t.write(t.value(p))
	}

	if !t.freeze {
		t.state = StateRemoved
		return t.write(t.base)
	}
	t.state = StateFrozen
	p := 1.0
	if frac := math.Mod(active, t.dur); frac > 0 {
		p = frac / t.dur
	}
	return t.write(t.value(p))
}

// reset returns the track to its initial state and restores the base
// value.
func (t *AnimationTrack) reset() {
	t.state = StatePending
	t.iteration = 0
	t.cell.Set(t.base)
}

func (t *AnimationTrack) write(v string) bool {
	if t.cell.String() == v {
		return false
	}
	t.cell.Set(v)
	return true
}

// value interpolates the keyframes at progress p in [0, 1].
func (t *AnimationTrack) value(p float64) string {
	n := len(t.values)
	if n == 1 {
		return t.format(t.values[0])
	}
	i := 0
	for i < n-2 && p >= t.keyTimes[i+1] {
		i++
	}
	if t.discrete {
		j := 0
		for j < n-1 && p >= t.keyTimes[j+1] {
			j++
		}
		return t.format(t.values[j])
	}
	span := t.keyTimes[i+1] - t.keyTimes[i]
	local := 1.0
	if span > 0 {
		local = math.Max(0, math.Min(1, (p-t.keyTimes[i])/span))
	}
	a, b := t.values[i], t.values[i+1]
	if t.color {
		ca, okA := units.ParseColor(a)
		cb, okB := units.ParseColor(b)
		if okA && okB {
			return ca.Lerp(cb, local).Hex()
		}
	}
	return t.format(lerpValues(a, b, local))
}

// format wraps an animateTransform value in its transform function.
func (t *AnimationTrack) format(v string) string {
	if t.transformType == "" {
		return v
	}
	fn := t.transformType + "(" + strings.TrimSpace(v) + ")"
	if t.additive && strings.TrimSpace(t.base) != "" {
		return t.base + " " + fn
	}
	return fn
}

// token is a piece of an animated value: a number or the text between
// numbers.
type token struct {
	num  bool
	f    float64
	text string
}

// tokenize splits s into numbers and the text around them.
func tokenize(s string) []token {
	var out []token
	b := []byte(s)
	textStart := 0
	for i := 0; i < len(b); {
		if !startsNumber(b, i) {
			i++
			continue
		}
		f, n := tstrconv.ParseFloat(b[i:])
		if n == 0 {
			i++
			continue
		}
		if textStart < i {
			out = append(out, token{text: s[textStart:i]})
		}
		out = append(out, token{num: true, f: f})
		i += n
		textStart = i
	}
	if textStart < len(b) {
		out = append(out, token{text: s[textStart:]})
	}
	return out
}

func startsNumber(b []byte, i int) bool {
	c := b[i]
	if c >= '0' && c <= '9' {
		return true
	}
	if (c == '-' || c == '+' || c == '.') && i+1 < len(b) {
		n := b[i+1]
		return (n >= '0' && n <= '9') || (n == '.' && c != '.')
	}
	return false
}

// lerpValues interpolates the numbers of two values with the same
// shape, keeping the text of a. Values of different shapes switch at
// the midpoint.
func lerpValues(a, b string, t float64) string {
	ta, tb := tokenize(a), tokenize(b)
	if len(ta) != len(tb) || len(ta) == 0 {
		if t < 0.5 {
			return a
		}
		return b
	}
	var sb strings.Builder
	for i := range ta {
		switch {
		case ta[i].num && tb[i].num:
			sb.WriteString(formatNumber(ta[i].f + (tb[i].f-ta[i].f)*t))
		case !ta[i].num && !tb[i].num && ta[i].text == tb[i].text:
			sb.WriteString(ta[i].text)
		default:
			if t < 0.5 {
				return a
			}
			return b
		}
	}
	return sb.String()
}

// addValues adds the numbers of by to those of from, for by animations.
func addValues(from, by string) string {
	if strings.TrimSpace(from) == "" {
		return by
	}
	tf, tb := tokenize(from), tokenize(by)
	var sb strings.Builder
	j := 0
	for _, tk := range tf {
		if !tk.num {
			sb.WriteString(tk.text)
			continue
		}
		for j < len(tb) && !tb[j].num {
			j++
		}
		v := tk.f
		if j < len(tb) {
			v += tb[j].f
			j++
		}
		sb.WriteString(formatNumber(v))
	}
	return sb.String()
}

func formatNumber(f float64) string {
	return strconv.FormatFloat(f, 'f', -1, 64)
}

func allColors(values []string) bool {
	for _, v := range values {
		if _, ok := units.ParseColor(v); !ok {
			return false
		}
	}
	return true
}
