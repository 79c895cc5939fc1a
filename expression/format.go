package expression

import (
	"fmt"
	"reflect"
	"strings"
)

// Format renders n as indented pseudo code.
func Format(n Node) string {
	var p printer

	p.node(n)

	return p.String()
}

type printer struct {
	strings.Builder

	depth int
}

func (p *printer) line(format string, args ...any) {
	p.WriteString("\n")
	p.WriteString(strings.Repeat("\t", p.depth))
	fmt.Fprintf(p, format, args...)
}

func (p *printer) block(open string, body func()) {
	p.WriteString(open + " {")
	p.depth++
	body()
	p.depth--
	p.line("}")
}

func typeName(t reflect.Type) string {
	if t == nil {
		return "any"
	}

	return t.String()
}

//nolint:cyclop,funlen // one case per node kind
func (p *printer) node(n Node) {
	switch n := n.(type) {
	case nil:
		p.WriteString("<nil>")

	case *Parameter:
		p.WriteString(n.Name)

	case *Constant:
		fmt.Fprintf(p, "%#v", n.Value)

	case *New:
		fmt.Fprintf(p, "zero(%s)", typeName(n.T))

	case *Member:
		p.node(n.Operand)
		p.WriteString("." + n.Name)

		if n.Method {
			p.WriteString("()")
		}

	case *Call:
		p.WriteString(n.Name + "(")
		p.list(n.Args)
		p.WriteString(")")

	case *Convert:
		p.WriteString(typeName(n.T) + "(")
		p.node(n.Operand)
		p.WriteString(")")

	case *Map:
		fmt.Fprintf(p, "map[%s -> %s](", typeName(n.Source), typeName(n.Destination))
		p.node(n.Operand)
		p.WriteString(")")

	case *Dispatch:
		fmt.Fprintf(p, "dispatch[%s -> %s](", typeName(n.Source), typeName(n.Destination))
		p.node(n.Operand)
		p.WriteString(")")

	case *MemberInit:
		p.WriteString("init " + n.Target.Name + " = ")
		p.node(n.New)
		p.block("", func() {
			for _, b := range n.Bindings {
				p.binding(b)
			}
		})

	case *Lambda:
		params := make([]string, len(n.Parameters))
		for i, prm := range n.Parameters {
			params[i] = prm.Name + " " + typeName(prm.T)
		}

		p.block(fmt.Sprintf("func(%s) %s", strings.Join(params, ", "), typeName(n.Type())), func() {
			p.line("")
			p.node(n.Body)
		})

	case *Select:
		p.WriteString("select(")
		p.node(n.Source)
		p.WriteString(", ")
		p.node(n.Selector)
		p.WriteString(")")

	case *SelectEntries:
		p.WriteString("entries(")
		p.node(n.Source)
		p.WriteString(", ")
		p.node(n.Key)
		p.WriteString(", ")
		p.node(n.Value)
		p.WriteString(")")

	case *Unwrap:
		p.WriteString("*")
		p.node(n.Operand)

	case *Wrap:
		p.WriteString("&")
		p.node(n.Operand)

	case *Guard:
		p.WriteString("guard " + n.Param.Name + " = ")
		p.node(n.Operand)
		p.block("", func() {
			p.line("")
			p.node(n.Body)
		})

	case *Coalesce:
		p.node(n.Operand)
		p.WriteString(" ?? ")
		p.node(n.Fallback)

	case *TypeSwitch:
		p.WriteString("switch ")
		p.node(n.Operand)
		p.block("", func() {
			for _, c := range n.Cases {
				p.line("case %s as %s:", typeName(c.Type), c.Param.Name)
				p.depth++
				p.line("")
				p.node(c.Body)
				p.depth--
			}

			if n.Default != nil {
				p.line("default:")
				p.depth++
				p.line("")
				p.node(n.Default)
				p.depth--
			}
		})

	case *Track:
		p.WriteString("track " + n.Param.Name + " = ")
		p.node(n.Operand)
		p.block("", func() {
			p.line("")
			p.node(n.Init)
		})

	default:
		fmt.Fprintf(p, "<%s>", n.Kind())
	}
}

func (p *printer) list(nodes []Node) {
	for i, a := range nodes {
		if i > 0 {
			p.WriteString(", ")
		}

		p.node(a)
	}
}

// binding renders a plain assignment on one line and a guarded one as a
// sequence of steps.
func (p *printer) binding(b *Binding) {
	if len(b.PreConditions) == 0 && len(b.Conditions) == 0 && b.Value == Node(b.Raw) {
		p.line("%s = ", b.Member)
		p.node(b.Source)

		return
	}

	p.line("%s:", b.Member)
	p.depth++

	for _, c := range b.PreConditions {
		p.line("pre ")
		p.node(c)
	}

	p.line("let %s = ", b.Raw.Name)
	p.node(b.Source)

	for _, c := range b.Conditions {
		p.line("if ")
		p.node(c)
	}

	p.line("set ")
	p.node(b.Value)
	p.depth--
}
