package mapping

import (
	"reflect"
	"unsafe"
)

// ResolutionContext is the state of one top-level mapping call. It is not
// safe for concurrent use and is discarded when the call returns.
type ResolutionContext struct {
	// Items carries opaque values for user callbacks.
	Items map[string]any

	services  ServiceResolver
	instances map[instanceKey]reflect.Value
	depth     int
}

type instanceKey struct {
	src  unsafe.Pointer
	from reflect.Type
	to   reflect.Type
}

// NewResolutionContext creates a context whose service requests go to
// services first and fall back to DefaultServiceResolver.
func NewResolutionContext(services ServiceResolver, items map[string]any) *ResolutionContext {
	if items == nil {
		items = map[string]any{}
	}

	chain := ChainResolver{DefaultServiceResolver{}}
	if services != nil {
		chain = ChainResolver{services, DefaultServiceResolver{}}
	}

	return &ResolutionContext{
		Items:     items,
		services:  chain,
		instances: map[instanceKey]reflect.Value{},
	}
}

// Item returns the item stored under key.
func (rc *ResolutionContext) Item(key string) (any, bool) {
	v, ok := rc.Items[key]

	return v, ok
}

// Service resolves an instance of t.
func (rc *ResolutionContext) Service(t reflect.Type) (any, error) {
	return rc.services.Resolve(t)
}

// Instance returns the destination already produced for the source pointer
// src and destination type dst during this call.
func (rc *ResolutionContext) Instance(src reflect.Value, dst reflect.Type) (reflect.Value, bool) {
	if src.Kind() != reflect.Pointer || src.IsNil() {
		return reflect.Value{}, false
	}

	v, ok := rc.instances[instanceKey{src: src.UnsafePointer(), from: src.Type(), to: dst}]

	return v, ok
}

// Remember records dst as the destination produced for the source pointer src.
func (rc *ResolutionContext) Remember(src, dst reflect.Value) {
	if src.Kind() != reflect.Pointer || src.IsNil() {
		return
	}

	rc.instances[instanceKey{src: src.UnsafePointer(), from: src.Type(), to: dst.Type()}] = dst
}

// Enter increments the nesting depth and returns the function restoring it.
func (rc *ResolutionContext) Enter() func() {
	rc.depth++

	return func() { rc.depth-- }
}

// Depth is the current nesting depth of mapping calls.
func (rc *ResolutionContext) Depth() int {
	return rc.depth
}
