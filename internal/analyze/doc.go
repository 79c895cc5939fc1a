// Package analyze inspects Go types at runtime and builds the member model
// the mapping engine works against.
//
// Key types:
//   - TypeID: package import path + type name
//   - TypeInfo: kind, exported fields (promoted ones included) and getter methods
//   - FieldInfo: field name, type, tags, index path and embedding
//   - Ancestor: an embedded struct reachable from a type, used as its "base"
//
// All lookups are cached per reflect.Type and safe for concurrent use.
package analyze
