// Package caster maps values between Go types at run time.
//
// A Configuration collects type maps, the rules relating a source type to
// a destination type. Members without a rule are matched by name, including
// flattened paths such as CustomerName for Customer.Name. Seal validates
// the whole configuration and returns a Mapper:
//
//	cfg := caster.NewConfiguration()
//	caster.CreateMap[Order, OrderDTO](cfg).
//		ForMember("Total", caster.MapFromFunc(func(o Order) float64 { return o.Total() })).
//		Ignore("Notes")
//	caster.CreateMap[Customer, CustomerDTO](cfg)
//
//	m, err := cfg.Seal()
//	if err != nil {
//		return err
//	}
//
//	dto, err := caster.Map[OrderDTO](m, order)
//
// Collections, maps, pointers, named numeric types and interfaces are
// handled without explicit maps. Every pair is compiled into a plan the
// first time it is mapped and reused afterwards; the Mapper is safe for
// concurrent use.
//
// ProjectTo turns a map into a single expression without calls into user
// code, for query providers that translate it.
package caster
