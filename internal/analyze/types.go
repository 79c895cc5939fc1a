package analyze

import (
	"reflect"

	"caster/internal/common"
)

// TypeID identifies a named type by its package path and name.
type TypeID struct {
	PkgPath string // e.g., "caster/store"
	Name    string // e.g., "Order"
}

// IDOf returns the TypeID of t; unnamed types yield an empty Name.
func IDOf(t reflect.Type) TypeID {
	return TypeID{PkgPath: t.PkgPath(), Name: t.Name()}
}

// String returns a human-readable representation of the TypeID.
func (t TypeID) String() string {
	if t.PkgPath == "" {
		return t.Name
	}

	return t.PkgPath + "." + t.Name
}

// TypeKind represents the kind of a type.
type TypeKind int

const (
	TypeKindUnknown   TypeKind = iota
	TypeKindBasic              // int, string, bool, etc.
	TypeKindStruct             // struct type
	TypeKindPointer            // pointer to another type
	TypeKindSlice              // slice of another type
	TypeKindArray              // array of another type
	TypeKindMap                // map type
	TypeKindInterface          // interface type
	TypeKindExternal           // opaque type (func, chan, unsafe pointer)
)

// String returns a human-readable representation of the TypeKind.
func (k TypeKind) String() string {
	switch k {
	case TypeKindBasic:
		return "basic"
	case TypeKindStruct:
		return "struct"
	case TypeKindPointer:
		return "pointer"
	case TypeKindSlice:
		return "slice"
	case TypeKindArray:
		return "array"
	case TypeKindMap:
		return "map"
	case TypeKindInterface:
		return "interface"
	case TypeKindExternal:
		return "external"
	default:
		return common.UnknownStr
	}
}

// KindOf classifies a reflect.Type.
func KindOf(t reflect.Type) TypeKind {
	if t == nil {
		return TypeKindUnknown
	}

	switch t.Kind() {
	case reflect.Struct:
		return TypeKindStruct
	case reflect.Pointer:
		return TypeKindPointer
	case reflect.Slice:
		return TypeKindSlice
	case reflect.Array:
		return TypeKindArray
	case reflect.Map:
		return TypeKindMap
	case reflect.Interface:
		return TypeKindInterface
	case reflect.Func, reflect.Chan, reflect.UnsafePointer, reflect.Invalid:
		return TypeKindExternal
	default:
		return TypeKindBasic
	}
}

// TypeInfo describes a Go type as seen by the mapper.
type TypeInfo struct {
	ID       TypeID       // empty Name for unnamed types like *T or []T
	Kind     TypeKind     // Kind of type
	Type     reflect.Type // The inspected type
	Fields   []FieldInfo  // Exported fields, promoted ones included, in declaration order
	Embedded []FieldInfo  // Direct anonymous fields
	Getters  []MethodInfo // Exported methods without arguments returning a single value

	fields  map[string]int
	getters map[string]int
}

// IsNamed returns true if this type has a name (TypeID is set).
func (t *TypeInfo) IsNamed() bool {
	return t.ID.Name != ""
}

// Field returns the field with the given name.
func (t *TypeInfo) Field(name string) (*FieldInfo, bool) {
	i, ok := t.fields[name]
	if !ok {
		return nil, false
	}

	return &t.Fields[i], true
}

// Getter returns the getter method with the given name.
func (t *TypeInfo) Getter(name string) (*MethodInfo, bool) {
	i, ok := t.getters[name]
	if !ok {
		return nil, false
	}

	return &t.Getters[i], true
}

// Members returns the fields that can receive a mapped value: exported fields
// excluding embedded structs, whose own fields are listed individually.
func (t *TypeInfo) Members() []FieldInfo {
	members := make([]FieldInfo, 0, len(t.Fields))
	for _, f := range t.Fields {
		if f.Embedded && IsStructLike(f.Type) {
			continue
		}

		members = append(members, f)
	}

	return members
}

// FieldInfo describes a struct field.
type FieldInfo struct {
	Name     string            // Go field name
	Type     reflect.Type      // Field type
	Tag      reflect.StructTag // Raw struct tag
	Index    []int             // Index path from the inspected struct
	Embedded bool              // Whether the field is embedded (anonymous)
}

// Promoted reports whether the field is reached through an embedded struct.
func (f *FieldInfo) Promoted() bool {
	return len(f.Index) > 1
}

// JSONName returns the JSON tag name if present, otherwise the field name.
func (f *FieldInfo) JSONName() string {
	if tag := f.Tag.Get("json"); tag != "" && tag != "-" {
		for i := range len(tag) {
			if tag[i] == ',' {
				return tag[:i]
			}
		}

		return tag
	}

	return f.Name
}

// HasTag returns true if the field has the specified tag.
func (f *FieldInfo) HasTag(key string) bool {
	_, ok := f.Tag.Lookup(key)
	return ok
}

// GetTag returns the value of the specified tag.
func (f *FieldInfo) GetTag(key string) string {
	return f.Tag.Get(key)
}

// MethodInfo describes a getter method.
type MethodInfo struct {
	Name            string
	Type            reflect.Type // result type
	PointerReceiver bool         // only callable on an addressable value
}

// Accessor is one step of a member path: a field read or a getter call.
type Accessor struct {
	Name   string
	Type   reflect.Type
	Index  []int // field index path, nil for getters
	Method bool
}

// IsStructLike reports whether t is a struct or a pointer to one.
func IsStructLike(t reflect.Type) bool {
	if t.Kind() == reflect.Pointer {
		t = t.Elem()
	}

	return t.Kind() == reflect.Struct
}

// Indirect strips every pointer level from t.
func Indirect(t reflect.Type) reflect.Type {
	for t.Kind() == reflect.Pointer {
		t = t.Elem()
	}

	return t
}
