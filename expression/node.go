package expression

import (
	"reflect"
)

// Node is an expression tree node.
type Node interface {
	Kind() Kind
	// Type is the static type of the value the node produces.
	Type() reflect.Type
}

// Parameter is a named input. Nodes refer to a parameter by pointer identity.
type Parameter struct {
	Name string
	T    reflect.Type
}

// NewParameter creates a parameter.
func NewParameter(name string, t reflect.Type) *Parameter {
	return &Parameter{Name: name, T: t}
}

func (*Parameter) Kind() Kind           { return KindParameter }
func (p *Parameter) Type() reflect.Type { return p.T }

// Constant is a fixed value.
type Constant struct {
	Value any
	T     reflect.Type
}

func (*Constant) Kind() Kind           { return KindConstant }
func (c *Constant) Type() reflect.Type { return c.T }

// New produces the zero value of T.
type New struct {
	T reflect.Type
}

func (*New) Kind() Kind           { return KindNew }
func (n *New) Type() reflect.Type { return n.T }

// Member reads a field (by index path) or calls a getter of Operand.
// Reading through a nil pointer yields the zero value of T.
type Member struct {
	Operand Node
	Name    string
	Index   []int
	Method  bool
	T       reflect.Type
}

func (*Member) Kind() Kind           { return KindMember }
func (m *Member) Type() reflect.Type { return m.T }

// CallFunc is the Go function behind a Call node. A false second result
// means the call produced no value.
type CallFunc func(args []any) (any, bool, error)

// Call invokes user code: a value function, condition, converter or factory.
type Call struct {
	Name string
	Func CallFunc
	Args []Node
	T    reflect.Type
}

func (*Call) Kind() Kind           { return KindCall }
func (c *Call) Type() reflect.Type { return c.T }

// Convert applies a Go conversion of Operand to T.
type Convert struct {
	Operand Node
	T       reflect.Type
}

func (*Convert) Kind() Kind           { return KindConvert }
func (c *Convert) Type() reflect.Type { return c.T }

// Map maps Operand with the plan compiled for Source -> Destination.
type Map struct {
	Operand     Node
	Source      reflect.Type
	Destination reflect.Type
}

func (*Map) Kind() Kind           { return KindMap }
func (m *Map) Type() reflect.Type { return m.Destination }

// Dispatch maps Operand with the plan chosen for its runtime type.
type Dispatch struct {
	Operand     Node
	Source      reflect.Type
	Destination reflect.Type
}

func (*Dispatch) Kind() Kind           { return KindDispatch }
func (d *Dispatch) Type() reflect.Type { return d.Destination }

// Binding assigns one destination member of a MemberInit.
//
// Preconditions run first and the source is not read when one fails. The
// raw source value is then bound to Raw, conditions are checked, and Value,
// which may refer to Raw, is assigned. A Value producing nothing leaves the
// member untouched.
type Binding struct {
	Member        string
	Index         []int
	T             reflect.Type
	PreConditions []Node
	Source        Node
	Raw           *Parameter
	Conditions    []Node
	Value         Node
}

// MemberInit builds a destination with New, binds it to Target, then
// applies the bindings in order. Source is the type the bindings read from.
type MemberInit struct {
	New      Node
	Target   *Parameter
	Bindings []*Binding
	Source   reflect.Type
	T        reflect.Type
}

func (*MemberInit) Kind() Kind           { return KindMemberInit }
func (m *MemberInit) Type() reflect.Type { return m.T }

// Lambda is a function of its parameters.
type Lambda struct {
	Parameters []*Parameter
	Body       Node
}

func (*Lambda) Kind() Kind           { return KindLambda }
func (l *Lambda) Type() reflect.Type { return l.Body.Type() }

// Select maps each element of a slice or array with Selector into T.
type Select struct {
	Source   Node
	Selector *Lambda
	T        reflect.Type
}

func (*Select) Kind() Kind           { return KindSelect }
func (s *Select) Type() reflect.Type { return s.T }

// SelectEntries maps each entry of a Go map into T.
type SelectEntries struct {
	Source Node
	Key    *Lambda
	Value  *Lambda
	T      reflect.Type
}

func (*SelectEntries) Kind() Kind           { return KindSelectEntries }
func (s *SelectEntries) Type() reflect.Type { return s.T }

// Unwrap dereferences a pointer; nil yields the zero value of T.
type Unwrap struct {
	Operand Node
	T       reflect.Type
}

func (*Unwrap) Kind() Kind           { return KindUnwrap }
func (u *Unwrap) Type() reflect.Type { return u.T }

// Wrap stores Operand in a newly allocated T, a pointer type.
type Wrap struct {
	Operand Node
	T       reflect.Type
}

func (*Wrap) Kind() Kind           { return KindWrap }
func (w *Wrap) Type() reflect.Type { return w.T }

// Guard evaluates Body with Param bound to Operand, unless Operand is nil,
// in which case it yields the zero value of T.
type Guard struct {
	Operand Node
	Param   *Parameter
	Body    Node
	T       reflect.Type
}

func (*Guard) Kind() Kind           { return KindGuard }
func (g *Guard) Type() reflect.Type { return g.T }

// Coalesce yields Fallback when Operand is nil.
type Coalesce struct {
	Operand  Node
	Fallback Node
}

func (*Coalesce) Kind() Kind           { return KindCoalesce }
func (c *Coalesce) Type() reflect.Type { return c.Operand.Type() }

// Case is a branch of a TypeSwitch.
type Case struct {
	Type  reflect.Type
	Param *Parameter
	Body  Node
}

// TypeSwitch picks the first case whose Type is the runtime type of Operand
// or is embedded in it; Default applies when none matches.
type TypeSwitch struct {
	Operand Node
	Cases   []Case
	Default Node
	T       reflect.Type
}

func (*TypeSwitch) Kind() Kind           { return KindTypeSwitch }
func (s *TypeSwitch) Type() reflect.Type { return s.T }

// Track maps the pointer Operand into a new *D, reusing the destination
// already produced for the same pointer within one call. Init builds the
// pointed-to value with Param bound to the dereferenced source.
type Track struct {
	Operand Node
	Param   *Parameter
	Init    *MemberInit
	T       reflect.Type
}

func (*Track) Kind() Kind           { return KindTrack }
func (t *Track) Type() reflect.Type { return t.T }
