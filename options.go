package caster

import (
	"time"

	"github.com/rs/zerolog"

	"caster/internal/match"
	"caster/internal/plan"
)

// Option configures a Configuration.
type Option func(*settings)

type settings struct {
	log      zerolog.Logger
	services ServiceResolver
	observe  plan.Observer
	naming   match.Mode
}

func defaultSettings() settings {
	return settings{log: zerolog.Nop(), naming: match.ModeNormalized}
}

// WithLogger sets the logger used while sealing, compiling and mapping.
// The default discards everything.
func WithLogger(log zerolog.Logger) Option {
	return func(s *settings) {
		s.log = log
	}
}

// WithServiceResolver sets the resolver asked for service conditions,
// converters and factories. Types it cannot resolve are created by
// DefaultServiceResolver.
func WithServiceResolver(r ServiceResolver) Option {
	return func(s *settings) {
		s.services = r
	}
}

// WithCompileObserver registers fn to be called once for every compiled plan.
func WithCompileObserver(fn func(pair TypePair, took time.Duration)) Option {
	return func(s *settings) {
		s.observe = fn
	}
}

// WithNameMatching selects how destination members are matched to source
// members by name. The default ignores case and separators.
func WithNameMatching(mode NameMatching) Option {
	return func(s *settings) {
		s.naming = mode
	}
}
