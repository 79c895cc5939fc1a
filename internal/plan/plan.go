package plan

import (
	"reflect"
	"time"

	"github.com/davecgh/go-spew/spew"
	"github.com/rs/zerolog"

	"caster/expression"
	"caster/internal/mapping"
)

// Plan is the compiled mapping of one type pair.
type Plan struct {
	Pair mapping.TypePair
	// Strategy is the name of the strategy the pair resolved to.
	Strategy string
	// Expression is the tree the plan was compiled from.
	Expression *expression.Lambda

	run   evalFunc
	slots int
	src   int
	ctx   int
	// into is the slot of the existing destination, -1 when the plan
	// always constructs its result.
	into int
}

// Run maps src, a Pair.Source value, within rc.
func (p *Plan) Run(src reflect.Value, rc *mapping.ResolutionContext) (reflect.Value, error) {
	return p.exec(src, reflect.Value{}, rc)
}

// RunInto maps src onto a copy of dst and returns it. Members the plan
// does not assign keep the values of dst.
func (p *Plan) RunInto(src, dst reflect.Value, rc *mapping.ResolutionContext) (reflect.Value, error) {
	return p.exec(src, dst, rc)
}

func (p *Plan) exec(src, dst reflect.Value, rc *mapping.ResolutionContext) (reflect.Value, error) {
	defer rc.Enter()()

	if p.Pair.Source.Kind() != reflect.Interface && src.IsValid() && src.Type() != p.Pair.Source {
		var err error
		if src, err = adapt(src, p.Pair.Source); err != nil {
			return reflect.Value{}, err
		}
	}

	if !src.IsValid() {
		src = reflect.Zero(p.Pair.Source)
	}

	f := &frame{rc: rc, slots: make([]reflect.Value, p.slots)}
	f.slots[p.src] = src
	f.slots[p.ctx] = reflect.ValueOf(rc)

	if p.into >= 0 {
		if !dst.IsValid() {
			dst = reflect.Zero(p.Pair.Destination)
		}

		f.slots[p.into] = dst
	}

	out, err := p.run(f)
	if err != nil {
		return reflect.Value{}, err
	}

	return adapt(out, p.Pair.Destination)
}

// String is the formatted expression of the plan.
func (p *Plan) String() string {
	return expression.Format(p.Expression)
}

// Plan returns the compiled plan of pair.
func (e *Engine) Plan(pair mapping.TypePair) (*Plan, error) {
	return e.plans.GetOrCompile(pair)
}

// Projection returns the plan of pair with every nested map inlined. It
// fails with mapping.ErrUnsupportedProjection when the pair needs a value
// function, a recursive map or anything else a projection cannot express.
func (e *Engine) Projection(pair mapping.TypePair) (*Plan, error) {
	return e.projections.GetOrCompile(pair)
}

// Plans is the number of compiled plans.
func (e *Engine) Plans() int {
	return e.plans.Len()
}

// Map maps the pair.Source value src to pair.Destination.
func (e *Engine) Map(pair mapping.TypePair, src reflect.Value, rc *mapping.ResolutionContext) (reflect.Value, error) {
	out, err := e.mapValue(pair, src, rc)
	if err != nil && e.log.GetLevel() <= zerolog.DebugLevel {
		e.log.Debug().
			Err(err).
			Stringer("pair", pair).
			Str("source", spew.Sdump(interfaceOf(src))).
			Msg("mapping failed")
	}

	return out, err
}

func (e *Engine) mapValue(pair mapping.TypePair, src reflect.Value, rc *mapping.ResolutionContext) (reflect.Value, error) {
	if pair.Source.Kind() == reflect.Interface {
		if _, ok := e.store.TypeMap(pair); ok {
			return e.dispatch(pair, src, rc)
		}
	}

	p, err := e.Plan(pair)
	if err != nil {
		return reflect.Value{}, err
	}

	return p.Run(src, rc)
}

// MapInto maps src onto dst, a settable pair.Destination value.
func (e *Engine) MapInto(pair mapping.TypePair, src, dst reflect.Value, rc *mapping.ResolutionContext) error {
	p, err := e.intos.GetOrCompile(pair)
	if err != nil {
		return err
	}

	out, err := p.RunInto(src, dst, rc)
	if err != nil {
		return err
	}

	dst.Set(out)

	return nil
}

func (e *Engine) compile(pair mapping.TypePair) (*Plan, error) {
	return e.assemble(pair, modeCompile, false)
}

func (e *Engine) compileInto(pair mapping.TypePair) (*Plan, error) {
	return e.assemble(pair, modeCompile, true)
}

func (e *Engine) project(pair mapping.TypePair) (*Plan, error) {
	return e.assemble(pair, modeProject, false)
}

func (e *Engine) assemble(pair mapping.TypePair, m mode, into bool) (*Plan, error) {
	start := time.Now()

	s, err := e.Resolve(pair)
	if err != nil {
		return nil, err
	}

	b := newBuilder(e, m)
	if into {
		b.into = b.param("into", pair.Destination)
	}

	existing := b.into

	lambda, err := b.root(pair)
	if err != nil {
		return nil, err
	}

	if existing != nil {
		lambda.Parameters = append(lambda.Parameters, existing)
	}

	if m == modeProject {
		if err := projectable(lambda); err != nil {
			return nil, err
		}
	}

	c := newCompiler(e)
	src := c.slot(lambda.Parameters[0])
	ctx := c.slot(lambda.Parameters[1])

	intoSlot := -1
	if existing != nil {
		intoSlot = c.slot(existing)
	}

	run, err := c.compile(lambda)
	if err != nil {
		return nil, err
	}

	e.log.Debug().
		Stringer("pair", pair).
		Str("strategy", s.Name).
		Bool("projection", m == modeProject).
		Dur("took", time.Since(start)).
		Msg("compiled mapping plan")

	return &Plan{
		Pair:       pair,
		Strategy:   s.Name,
		Expression: lambda,
		run:        run,
		slots:      len(c.slots),
		src:        src,
		ctx:        ctx,
		into:       intoSlot,
	}, nil
}
