package analyze

import (
	"reflect"
	"strings"

	"go.trai.ch/zerr"
)

var (
	ErrInvalidPath   = zerr.New("invalid member path")
	ErrUnknownMember = zerr.New("unknown member")
)

// ResolvePath resolves a dotted member path such as "Customer.Address.City"
// against t. Pointers along the path are dereferenced; each segment may name a
// field or a getter.
func ResolvePath(t reflect.Type, path string) ([]Accessor, error) {
	if path == "" {
		return nil, zerr.With(zerr.Wrap(ErrInvalidPath, "empty path"), "type", t.String())
	}

	var (
		steps []Accessor
		cur   = t
	)

	for segment := range strings.SplitSeq(path, ".") {
		if !isValidIdent(segment) {
			return nil, zerr.With(zerr.Wrap(ErrInvalidPath, "invalid identifier "+segment), "path", path)
		}

		acc, ok := FindMember(Indirect(cur), segment)
		if !ok {
			acc, ok = FindMember(cur, segment)
		}

		if !ok {
			return nil, zerr.With(
				zerr.With(zerr.Wrap(ErrUnknownMember, segment+" on "+Indirect(cur).String()), "path", path),
				"type", t.String(),
			)
		}

		steps = append(steps, acc)
		cur = acc.Type
	}

	return steps, nil
}

// PathType returns the type produced by the last step of a resolved path.
func PathType(steps []Accessor) reflect.Type {
	if len(steps) == 0 {
		return nil
	}

	return steps[len(steps)-1].Type
}

// isValidIdent checks if a string is a valid Go identifier.
func isValidIdent(s string) bool {
	if s == "" {
		return false
	}

	for i, r := range s {
		switch {
		case isLetter(r) || r == '_':
		case i > 0 && isDigit(r):
		default:
			return false
		}
	}

	return true
}

func isLetter(r rune) bool {
	return (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z')
}

func isDigit(r rune) bool {
	return r >= '0' && r <= '9'
}
