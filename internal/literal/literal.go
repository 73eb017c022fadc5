// Package literal parses SPL numeric literal text into sized integer
// values. Grammar: [sign][storage][base]digits, where sign is one of
// -, ~, + (or absent meaning positive), storage is one of b', w', d'
// (the apostrophe may be omitted; absent storage means word), and
// base is 0b (binary), 0 (octal), 0x (hex),
// or absent meaning decimal. Underscores may appear between digits as
// separators and are stripped before parsing.
package literal

import (
	"fmt"
	"strconv"
	"strings"
)

// Base identifies the numeral base a literal was written in.
type Base int

const (
	Decimal Base = iota
	Binary
	Octal
	Hexadecimal
)

func (b Base) String() string {
	switch b {
	case Binary:
		return "binary"
	case Octal:
		return "octal"
	case Hexadecimal:
		return "hexadecimal"
	default:
		return "decimal"
	}
}

// Sign identifies the sign/complement qualifier a literal was written
// with.
type Sign int

const (
	Positive Sign = iota
	Negative
	Complement
)

// Numeric is a fully parsed numeric literal: its raw magnitude, its
// sign/storage/base qualifiers, the resolved value after applying the
// sign, and whether that value fits within the storage width.
type Numeric struct {
	Text  string // original token text
	Sign  Sign
	Size  int  // storage width in bytes: 1, 2, or 4
	Base  Base
	Mag   uint64 // unsigned magnitude of the digit run, before sign applied
	Value int64  // signed value after sign/complement is applied
	Bound bool   // whether Mag fits within Size bytes under Sign (see inBoundsForSign)
}

// Parse parses a full numeric literal token, including its optional
// sign and storage qualifiers.
func Parse(text string) (*Numeric, error) {
	if text == "" {
		return nil, fmt.Errorf("empty numeric literal")
	}
	rest := text
	sign := Positive
	switch rest[0] {
	case '-':
		sign = Negative
		rest = rest[1:]
	case '~':
		sign = Complement
		rest = rest[1:]
	case '+':
		sign = Positive
		rest = rest[1:]
	}
	if rest == "" {
		return nil, fmt.Errorf("numeric literal %q has no digits", text)
	}

	size := 2
	switch rest[0] {
	case 'b':
		size = 1
		rest = strings.TrimPrefix(rest[1:], "'")
	case 'w':
		size = 2
		rest = strings.TrimPrefix(rest[1:], "'")
	case 'd':
		size = 4
		rest = strings.TrimPrefix(rest[1:], "'")
	}
	if rest == "" {
		return nil, fmt.Errorf("numeric literal %q has no digits", text)
	}

	base := Decimal
	switch {
	case strings.HasPrefix(rest, "0b"):
		base = Binary
		rest = rest[2:]
	case strings.HasPrefix(rest, "0x"):
		base = Hexadecimal
		rest = rest[2:]
	case len(rest) > 1 && rest[0] == '0':
		base = Octal
		rest = rest[1:]
	}

	digits := strings.ReplaceAll(rest, "_", "")
	if digits == "" {
		return nil, fmt.Errorf("numeric literal %q has no digits", text)
	}

	var numBase int
	switch base {
	case Binary:
		numBase = 2
	case Octal:
		numBase = 8
	case Hexadecimal:
		numBase = 16
	default:
		numBase = 10
	}

	mag, err := strconv.ParseUint(digits, numBase, 64)
	if err != nil {
		return nil, fmt.Errorf("numeric literal %q: invalid %s digits %q: %w", text, base, digits, err)
	}

	var value int64
	switch sign {
	case Negative:
		value = -int64(mag)
	case Complement:
		value = ^int64(mag)
	default:
		value = int64(mag)
	}

	return &Numeric{
		Text:  text,
		Sign:  sign,
		Size:  size,
		Base:  base,
		Mag:   mag,
		Value: value,
		Bound: inBoundsForSign(mag, size, sign),
	}, nil
}

// inBoundsForSign reports whether a literal's raw magnitude fits
// within size bytes under its sign qualifier. A negative or
// complemented magnitude may reach all the way to 2**(bits-1)
// inclusive (for a negated magnitude that is the most negative
// representable value, e.g. -b'128 == -128); a positive/unsigned
// magnitude is bounded by 2**bits-1. This
// must run on the pre-sign magnitude, not the post-sign Value: -128
// and 128 have the same magnitude but checking Value against a
// signed/unsigned range conflates the two and is off by one at the
// boundary.
func inBoundsForSign(mag uint64, size int, sign Sign) bool {
	bits := uint(size * 8)
	if sign == Negative || sign == Complement {
		return mag <= uint64(1)<<(bits-1)
	}
	return mag <= (uint64(1)<<bits)-1
}

// ParseSimple parses the restricted "simple number" grammar used by
// CLI numeric flags (-org, -var, -stack): an optional 0x hex prefix
// followed by digits, with no sign or storage qualifier. This is
// deliberately narrower than Parse — origin/region addresses are
// always non-negative CLI input.
func ParseSimple(text string) (uint64, error) {
	if text == "" {
		return 0, fmt.Errorf("empty number")
	}
	for _, r := range text {
		if !(r >= '0' && r <= '9') && !(r >= 'a' && r <= 'f') && !(r >= 'A' && r <= 'F') && r != 'x' && r != 'X' {
			return 0, fmt.Errorf("invalid character %q in number %q", r, text)
		}
	}
	if strings.HasPrefix(text, "0x") || strings.HasPrefix(text, "0X") {
		return strconv.ParseUint(text[2:], 16, 64)
	}
	return strconv.ParseUint(text, 10, 64)
}
