package compiler

import (
	"fmt"
	"strconv"
	"strings"
	"unicode"
	"unicode/utf8"

	"golang.org/x/text/unicode/rangetable"
)

// ZWNJ joins the two characters of a pair string so that they are shaped
// together without forming a ligature.
const ZWNJ = '\u200c'

// squareBelow is the first character that is no longer paired with every
// other character of a range. Pairs of Latin letters carry kerning; pairs of
// larger scripts would be too many to render.
const squareBelow = '\u0250'

type sourceKind uint8

const (
	sourceStrings sourceKind = iota
	sourceRange
	sourceTable
	sourceKern
)

// Source is a set of strings to compile into the character map.
type Source struct {
	kind    sourceKind
	strings []string
	lo, hi  rune
	table   *unicode.RangeTable
}

// Strings compiles exactly the given strings. Strings with more than one
// character produce ligature and kerning entries where the typeface has
// them.
func Strings(s ...string) Source {
	return Source{kind: sourceStrings, strings: s}
}

// Range compiles the characters lo through hi inclusive.
//
// For proportional typefaces, characters below U+0250 are also compiled in
// pairs so that kerning between any two of them is recorded.
func Range(lo, hi rune) Source {
	return Source{kind: sourceRange, lo: lo, hi: hi}
}

// Table compiles the characters of a Unicode range table, with the same
// pairing rule as Range.
func Table(rt *unicode.RangeTable) Source {
	return Source{kind: sourceTable, table: rt}
}

// Kern compiles the characters lo through hi and, for every one of them
// and every s, the strings c+s and s+c.
func Kern(lo, hi rune, s ...string) Source {
	return Source{kind: sourceKern, lo: lo, hi: hi, strings: s}
}

// Kerned returns a range source that additionally pairs every character
// with each of strs, as Kern does. Other sources are returned unchanged.
func (s Source) Kerned(strs ...string) Source {
	if s.kind != sourceRange || len(strs) == 0 {
		return s
	}
	return Kern(s.lo, s.hi, strs...)
}

// Expand returns the strings the source compiles to. Fixed-pitch typefaces
// need no pairs because their advances never change.
func (s Source) Expand(monospace bool) []string {
	switch s.kind {
	case sourceStrings:
		return s.strings
	case sourceRange:
		return expandRunes(runesBetween(s.lo, s.hi), monospace)
	case sourceTable:
		var runes []rune
		if s.table != nil {
			rangetable.Visit(s.table, func(r rune) {
				if utf8.ValidRune(r) {
					runes = append(runes, r)
				}
			})
		}
		return expandRunes(runes, monospace)
	case sourceKern:
		runes := runesBetween(s.lo, s.hi)
		out := expandRunes(runes, monospace)
		for _, c := range runes {
			for _, str := range s.strings {
				out = append(out, string(c)+str, str+string(c))
			}
		}
		return out
	default:
		panic(fmt.Sprintf("compiler: unknown source kind %d", s.kind))
	}
}

// String formats the source in the syntax accepted by ParseSource.
func (s Source) String() string {
	switch s.kind {
	case sourceStrings:
		return strings.Join(s.strings, ",")
	case sourceRange:
		return formatRune(s.lo) + "..=" + formatRune(s.hi)
	case sourceTable:
		return "table"
	default:
		return "kern(" + formatRune(s.lo) + "..=" + formatRune(s.hi) + ", " + strings.Join(s.strings, ",") + ")"
	}
}

func runesBetween(lo, hi rune) []rune {
	var runes []rune
	for r := max(lo, 0); r <= min(hi, unicode.MaxRune); r++ {
		if utf8.ValidRune(r) {
			runes = append(runes, r)
		}
	}
	return runes
}

// expandRunes returns single-character strings, preceded by the ZWNJ-joined
// square of the characters below U+0250 unless monospace is set.
func expandRunes(runes []rune, monospace bool) []string {
	var latin, rest []rune
	if monospace {
		rest = runes
	} else {
		for _, r := range runes {
			if r < squareBelow {
				latin = append(latin, r)
			} else {
				rest = append(rest, r)
			}
		}
	}

	out := make([]string, 0, len(latin)*len(latin)+len(rest))
	for _, a := range latin {
		for _, b := range latin {
			out = append(out, string([]rune{a, ZWNJ, b}))
		}
	}
	for _, r := range rest {
		out = append(out, string(r))
	}
	return out
}

// ParseSource parses a character range.
//
// Accepted forms are "a..z" (end excluded), "a..=z" (end included) and the
// open forms "a..", "..z" and "..=z". Endpoints are single characters or
// code points written U+XXXX.
func ParseSource(expr string) (Source, error) {
	lhs, rhs, ok := strings.Cut(expr, "..")
	if !ok {
		return Source{}, &SourceSyntaxError{Input: expr, Message: "expected range expression"}
	}

	inclusive := strings.HasPrefix(rhs, "=")
	rhs = strings.TrimPrefix(rhs, "=")

	lo, hi := rune(0), rune(unicode.MaxRune)
	var err error
	if lhs != "" {
		if lo, err = parseRune(lhs); err != nil {
			return Source{}, &SourceSyntaxError{Input: expr, Message: err.Error()}
		}
	}
	switch {
	case rhs != "":
		if hi, err = parseRune(rhs); err != nil {
			return Source{}, &SourceSyntaxError{Input: expr, Message: err.Error()}
		}
		if !inclusive {
			hi--
		}
	case inclusive:
		return Source{}, &SourceSyntaxError{Input: expr, Message: "expected end of inclusive range"}
	}
	if lo > hi+1 {
		return Source{}, &SourceSyntaxError{Input: expr, Message: "range start is after range end"}
	}
	return Range(lo, hi), nil
}

func parseRune(s string) (rune, error) {
	if hex, ok := strings.CutPrefix(s, "U+"); ok {
		v, err := strconv.ParseUint(hex, 16, 32)
		if err != nil || !utf8.ValidRune(rune(v)) {
			return 0, fmt.Errorf("invalid code point %q", s)
		}
		return rune(v), nil
	}
	r, size := utf8.DecodeRuneInString(s)
	if r == utf8.RuneError || size != len(s) {
		return 0, fmt.Errorf("expected character, found %q", s)
	}
	return r, nil
}

func formatRune(r rune) string {
	if unicode.IsGraphic(r) && r != ' ' && r != '.' && r != '=' {
		return string(r)
	}
	return fmt.Sprintf("U+%04X", r)
}

// expandSources flattens every source into non-empty strings, in order.
func expandSources(sources []Source, monospace bool) []string {
	var out []string
	for _, s := range sources {
		for _, str := range s.Expand(monospace) {
			if str != "" {
				out = append(out, str)
			}
		}
	}
	return out
}
