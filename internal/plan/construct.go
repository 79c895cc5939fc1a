package plan

import (
	"caster/expression"
	"caster/internal/analyze"
	"caster/internal/mapping"
)

// construct builds the node creating the destination of a layout. The
// first applicable way wins: the map's factory, the constructor chosen for
// the layout, the zero value.
func (b *builder) construct(l *mapping.Layout, in expression.Node) (expression.Node, error) {
	tm := l.TypeMap
	dst := tm.Pair.Destination

	switch {
	case tm.Factory != nil:
		return &expression.Call{
			Name: ruleName("factory", tm.Factory.Service),
			Func: factoryCall(*tm.Factory),
			Args: []expression.Node{in, b.ctx},
			T:    dst,
		}, nil

	case l.Constructor != nil:
		args := make([]expression.Node, 0, len(l.Args))

		for _, a := range l.Args {
			arg, err := b.build(b.path(in, a.Steps), mapping.NewTypePair(analyze.PathType(a.Steps), a.Type))
			if err != nil {
				return nil, err
			}

			args = append(args, arg)
		}

		return &expression.Call{Name: l.Constructor.String(), Func: constructorCall(l.Constructor), Args: args, T: dst}, nil

	default:
		return &expression.New{T: dst}, nil
	}
}

func factoryCall(r mapping.FactoryRule) expression.CallFunc {
	return func(args []any) (any, bool, error) {
		v, err := r.Eval(args[0], contextOf(args[1]))

		return v, err == nil, err
	}
}

func constructorCall(c *mapping.Constructor) expression.CallFunc {
	return func(args []any) (any, bool, error) {
		v, err := c.Construct(args)
		if err != nil {
			return nil, false, err
		}

		return v.Interface(), true, nil
	}
}
