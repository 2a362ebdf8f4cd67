package cascade

import (
	"fmt"
	"regexp"
	"strings"
)

// Specificity ranks a selector: ids, then classes, attributes and
// pseudo-classes, then types and pseudo-elements.
type Specificity [3]int

// Less reports whether s ranks below o.
func (s Specificity) Less(o Specificity) bool {
	for i := range s {
		if s[i] != o[i] {
			return s[i] < o[i]
		}
	}
	return false
}

// String returns the concatenated counts, the comparable key form used in
// style dumps.
func (s Specificity) String() string {
	return fmt.Sprintf("%d%d%d", s[0], s[1], s[2])
}

// Inline is the specificity of a style attribute declaration. It outranks
// every selector.
var Inline = Specificity{1 << 20, 0, 0}

var (
	notRegex             = regexp.MustCompile(`:not\(([^)]*)\)`)
	attributeRegex       = regexp.MustCompile(`(\[[^\]]+\])`)
	idRegex              = regexp.MustCompile(`(#[^\s+>~.\[:]+)`)
	classRegex           = regexp.MustCompile(`(\.[^\s+>~.\[:]+)`)
	pseudoElementRegex   = regexp.MustCompile(`(?i)(::[^\s+>~.\[:]+|:first-line|:first-letter|:before|:after)`)
	pseudoClassArgsRegex = regexp.MustCompile(`(?i)(:[\w-]+\([^)]*\))`)
	pseudoClassRegex     = regexp.MustCompile(`(:[^\s+>~.\[:]+)`)
	combinatorRegex      = regexp.MustCompile(`[*\s+>~]`)
	elementRegex         = regexp.MustCompile(`([^\s+>~.\[:]+)`)
)

// ComputeSpecificity scores a single selector (no commas).
//
// Each component class is counted and blanked out of the selector in
// turn, so later, looser patterns do not match it again. The argument of
// :not() counts, :not itself does not.
func ComputeSpecificity(selector string) Specificity {
	var spec Specificity
	cur := notRegex.ReplaceAllString(selector, "     $1 ")
	if i := strings.IndexByte(cur, '{'); i >= 0 {
		cur = cur[:i]
	}

	count := func(re *regexp.Regexp) int {
		n := 0
		cur = re.ReplaceAllStringFunc(cur, func(m string) string {
			n++
			return strings.Repeat(" ", len(m))
		})
		return n
	}

	spec[1] += count(attributeRegex)
	spec[0] += count(idRegex)
	spec[1] += count(classRegex)
	spec[2] += count(pseudoElementRegex)
	spec[1] += count(pseudoClassArgsRegex)
	spec[1] += count(pseudoClassRegex)

	cur = combinatorRegex.ReplaceAllString(cur, " ")
	cur = strings.NewReplacer("#", " ", ".", " ").Replace(cur)
	spec[2] += count(elementRegex)
	return spec
}
