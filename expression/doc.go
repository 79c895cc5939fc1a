// Package expression is the intermediate representation of a mapping plan.
//
// A plan is a Lambda over a source and a context parameter whose body
// builds the destination. Nodes are plain data: the mapper compiles them to
// closures, and query providers may translate a projected Lambda into their
// own language. Format renders a tree for inspection.
//
// Nested mappings appear either as Map and Dispatch nodes, resolved by the
// mapper when the plan runs, or inlined in full when the plan is built for
// projection; polymorphic sources then become a TypeSwitch.
package expression
