package analyze

import (
	"reflect"
	"strings"
	"sync"
)

var infos sync.Map // reflect.Type -> *TypeInfo

// Inspect returns the cached TypeInfo for t. Pointer types expose the fields
// of the struct they point to and the method set of the pointer.
func Inspect(t reflect.Type) *TypeInfo {
	if v, ok := infos.Load(t); ok {
		return v.(*TypeInfo)
	}

	v, _ := infos.LoadOrStore(t, inspect(t))

	return v.(*TypeInfo)
}

func inspect(t reflect.Type) *TypeInfo {
	info := &TypeInfo{
		ID:      IDOf(t),
		Kind:    KindOf(t),
		Type:    t,
		fields:  make(map[string]int),
		getters: make(map[string]int),
	}

	structType := t
	if structType.Kind() == reflect.Pointer {
		structType = structType.Elem()
	}

	if structType.Kind() == reflect.Struct {
		collectFields(info, structType)
	}

	collectGetters(info, t)

	return info
}

func collectFields(info *TypeInfo, t reflect.Type) {
	for _, f := range reflect.VisibleFields(t) {
		if !f.IsExported() || !reachable(t, f.Index) {
			continue
		}

		field := FieldInfo{
			Name:     f.Name,
			Type:     f.Type,
			Tag:      f.Tag,
			Index:    f.Index,
			Embedded: f.Anonymous,
		}

		if f.Anonymous && len(f.Index) == 1 {
			info.Embedded = append(info.Embedded, field)
		}

		info.fields[f.Name] = len(info.Fields)
		info.Fields = append(info.Fields, field)
	}
}

// reachable rejects promoted fields hidden behind an unexported embedded
// pointer: such a pointer can be read but never allocated.
func reachable(t reflect.Type, index []int) bool {
	cur := t
	for _, i := range index[:len(index)-1] {
		f := cur.Field(i)
		if !f.IsExported() && f.Type.Kind() == reflect.Pointer {
			return false
		}

		cur = Indirect(f.Type)
	}

	return true
}

func collectGetters(info *TypeInfo, t reflect.Type) {
	if t.Kind() == reflect.Interface {
		for i := range t.NumMethod() {
			m := t.Method(i)
			if m.Type.NumIn() == 0 && m.Type.NumOut() == 1 {
				addGetter(info, MethodInfo{Name: m.Name, Type: m.Type.Out(0)})
			}
		}

		return
	}

	valueSet := t
	if t.Kind() == reflect.Pointer {
		valueSet = t.Elem()
	}

	ptr := reflect.PointerTo(valueSet)
	if t.Kind() == reflect.Pointer {
		ptr = t
	}

	for i := range ptr.NumMethod() {
		m := ptr.Method(i)
		if !m.IsExported() || m.Type.NumIn() != 1 || m.Type.NumOut() != 1 {
			continue
		}

		_, onValue := valueSet.MethodByName(m.Name)
		addGetter(info, MethodInfo{
			Name:            m.Name,
			Type:            m.Type.Out(0),
			PointerReceiver: !onValue && t.Kind() != reflect.Pointer,
		})
	}
}

func addGetter(info *TypeInfo, m MethodInfo) {
	info.getters[m.Name] = len(info.Getters)
	info.Getters = append(info.Getters, m)
}

// FindMember looks up a readable member of t by name: a field first, then a
// getter called name or "Get"+name.
func FindMember(t reflect.Type, name string) (Accessor, bool) {
	info := Inspect(t)

	if f, ok := info.Field(name); ok {
		return Accessor{Name: f.Name, Type: f.Type, Index: f.Index}, true
	}

	for _, candidate := range []string{name, "Get" + name} {
		if m, ok := info.Getter(candidate); ok {
			return Accessor{Name: m.Name, Type: m.Type, Method: true}, true
		}
	}

	return Accessor{}, false
}

// ReadableNames lists every member name FindMember can resolve on t,
// getters reported without their "Get" prefix.
func ReadableNames(t reflect.Type) []string {
	info := Inspect(t)
	names := make([]string, 0, len(info.Fields)+len(info.Getters))

	for _, f := range info.Fields {
		names = append(names, f.Name)
	}

	for _, m := range info.Getters {
		names = append(names, strings.TrimPrefix(m.Name, "Get"))
	}

	return names
}
