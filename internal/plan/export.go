package plan

import (
	"gopkg.in/yaml.v3"

	"caster/internal/analyze"
	"caster/internal/mapping"
)

// ExportFile is the YAML description of a sealed configuration.
type ExportFile struct {
	Version  string       `yaml:"version"`
	TypeMaps []ExportMap  `yaml:"type_maps"`
	Generics []ExportPair `yaml:"open_generics,omitempty"`
}

// ExportPair names a source and destination type.
type ExportPair struct {
	Source      string `yaml:"source"`
	Destination string `yaml:"destination"`
}

// ExportMap describes one type map.
type ExportMap struct {
	ExportPair `yaml:",inline"`

	Strategy  string         `yaml:"strategy"`
	Construct string         `yaml:"construct"`
	Includes  []ExportPair   `yaml:"includes,omitempty"`
	Members   []ExportMember `yaml:"members,omitempty"`
	Skipped   []string       `yaml:"skipped,omitempty"`
}

// ExportMember describes how one destination member is filled.
type ExportMember struct {
	Name          string `yaml:"name"`
	From          string `yaml:"from"`
	Strategy      string `yaml:"strategy,omitempty"`
	Convention    bool   `yaml:"convention,omitempty"`
	Inherited     bool   `yaml:"inherited,omitempty"`
	Conditions    int    `yaml:"conditions,omitempty"`
	PreConditions int    `yaml:"preconditions,omitempty"`
	Converter     string `yaml:"converter,omitempty"`
	Substitute    bool   `yaml:"null_substitute,omitempty"`
}

// Export describes every type map of the store with the strategies its
// members resolve to.
func (e *Engine) Export() *ExportFile {
	f := &ExportFile{Version: "1", TypeMaps: []ExportMap{}}

	for _, tm := range e.store.TypeMaps() {
		f.TypeMaps = append(f.TypeMaps, e.exportMap(tm))
	}

	for _, tm := range e.store.Templates() {
		f.Generics = append(f.Generics, exportPair(tm.Pair))
	}

	return f
}

// ExportYAML renders Export as YAML.
func (e *Engine) ExportYAML() ([]byte, error) {
	return yaml.Marshal(e.Export())
}

func exportPair(p mapping.TypePair) ExportPair {
	return ExportPair{Source: p.Source.String(), Destination: p.Destination.String()}
}

func (e *Engine) exportMap(tm *mapping.TypeMap) ExportMap {
	l := e.store.LayoutOf(tm)

	out := ExportMap{ExportPair: exportPair(tm.Pair), Construct: "zero", Skipped: l.Skipped}

	if s, err := e.Resolve(tm.Pair); err == nil {
		out.Strategy = s.Name
	}

	switch {
	case tm.Factory != nil:
		out.Construct = ruleName("factory", tm.Factory.Service)
	case l.Constructor != nil:
		out.Construct = l.Constructor.String()
	}

	for _, inc := range e.store.Graph().Derived(tm.Pair) {
		out.Includes = append(out.Includes, exportPair(inc))
	}

	for _, m := range l.Members {
		out.Members = append(out.Members, e.exportMember(m))
	}

	return out
}

func (e *Engine) exportMember(m mapping.MemberPlan) ExportMember {
	em := ExportMember{
		Name:          m.Name,
		From:          formatPath(m.Steps),
		Convention:    m.Convention,
		Inherited:     m.Inherited,
		Conditions:    len(m.Conditions),
		PreConditions: len(m.PreConditions),
		Substitute:    m.HasNullSubstitute,
	}

	if m.SourceFunc != nil {
		em.From = "func"
	}

	from := m.SourceType()

	if c := m.Converter; c != nil {
		em.Converter = ruleName("convert", c.Service)
		from = c.Output
	}

	if from == nil {
		return em
	}

	if s, err := e.Resolve(mapping.NewTypePair(from, m.Type)); err == nil {
		em.Strategy = s.Name
	}

	return em
}

func formatPath(steps []analyze.Accessor) string {
	p := analyze.NewTypePath("")
	for _, s := range steps {
		p = p.Field(s.Name)
	}

	return p.String()
}
