// Package mapping holds the configuration model of the mapper: type pairs,
// member rules, type maps, constructors and the store that seals them.
//
// # Key capabilities
//
//   - Ordered member rules, unique per destination member
//   - Conditions, preconditions, converters and factories, inline or
//     resolved as services through a ServiceResolver
//   - Include, IncludeBase and IncludeAllDerived inheritance, checked for
//     cycles and applied nearest base first
//   - Open generic templates, instantiated for closed pairs on demand
//   - Aggregated validation: Seal reports every problem of every map at once
//
// # Lifecycle
//
// A Store is populated while open, then sealed once. Sealing materializes
// the open generic pairs named by inheritance declarations, builds the
// inheritance graph, copies inherited rules, freezes every TypeMap and
// validates it. A sealed store is read-only and safe for concurrent use;
// only runtime instantiations of open generics are added afterwards.
//
// # Member sources
//
// A destination member is fed, in order of precedence, by its explicit rule
// (a value function or a dotted source path), by the path in its `caster`
// struct tag, or by the source member of the same name. Name matching may be
// exact or normalized, and falls back to flattening: CustomerName reads
// Customer.Name.
package mapping
