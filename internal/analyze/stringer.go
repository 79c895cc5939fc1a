package analyze

import (
	"reflect"
	"strings"
)

// TypePath builds a readable member path.
// Examples:
//   - "Order" for a simple struct
//   - "Order.Customer" for a nested field
//   - "Order.Customer.Name" for a field of a nested struct
type TypePath struct {
	parts []string
}

// NewTypePath creates a new TypePath from a root name.
func NewTypePath(root string) *TypePath {
	if root == "" {
		return &TypePath{}
	}

	return &TypePath{parts: []string{root}}
}

// Field appends a field name to the path.
func (p *TypePath) Field(name string) *TypePath {
	return &TypePath{
		parts: append(append([]string{}, p.parts...), name),
	}
}

// String returns the full path string.
func (p *TypePath) String() string {
	return strings.Join(p.parts, ".")
}

// MemberPaths lists every readable member path of t up to maxDepth levels of
// nested structs, e.g. "Customer" and "Customer.Name". Getters are included.
func MemberPaths(t reflect.Type, maxDepth int) []string {
	var result []string

	collectPaths(Indirect(t), NewTypePath(""), 0, maxDepth, map[reflect.Type]bool{}, &result)

	return result
}

func collectPaths(t reflect.Type, path *TypePath, depth, maxDepth int, visiting map[reflect.Type]bool, out *[]string) {
	if depth > maxDepth || visiting[t] {
		return
	}

	visiting[t] = true
	defer delete(visiting, t)

	for _, name := range ReadableNames(t) {
		acc, ok := FindMember(t, name)
		if !ok {
			continue
		}

		memberPath := path.Field(name)
		*out = append(*out, memberPath.String())

		if next := Indirect(acc.Type); next.Kind() == reflect.Struct {
			collectPaths(next, memberPath, depth+1, maxDepth, visiting, out)
		}
	}
}
