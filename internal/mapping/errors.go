package mapping

import (
	"errors"
	"fmt"

	"go.trai.ch/zerr"

	"caster/internal/diagnostic"
)

var (
	ErrSealed                = zerr.New("configuration is sealed")
	ErrNotSealed             = zerr.New("configuration is not sealed")
	ErrInvalidFunc           = zerr.New("invalid function")
	ErrNoService             = zerr.New("no service available")
	ErrServiceType           = zerr.New("service has an unexpected type")
	ErrUnknownMember         = zerr.New("unknown destination member")
	ErrNoTemplate            = zerr.New("no open generic map")
	ErrConfiguration         = zerr.New("invalid mapping configuration")
	ErrResolution            = zerr.New("no mapping strategy")
	ErrMapping               = zerr.New("mapping failed")
	ErrUnsupportedProjection = zerr.New("mapping cannot be projected")
)

// ConfigurationError reports every problem found while sealing a
// configuration.
type ConfigurationError struct {
	Diagnostics diagnostic.Diagnostics
}

func (e *ConfigurationError) Error() string {
	return fmt.Sprintf("%s: %d problem(s)\n%s",
		ErrConfiguration.Error(), len(e.Diagnostics.Errors), e.Diagnostics.Summary())
}

// Is matches ErrConfiguration.
func (e *ConfigurationError) Is(target error) bool {
	return target == ErrConfiguration
}

// ResolutionError reports a type pair no strategy can map.
type ResolutionError struct {
	Pair TypePair
}

func (e *ResolutionError) Error() string {
	return ErrResolution.Error() + " for " + e.Pair.String()
}

// Is matches ErrResolution.
func (e *ResolutionError) Is(target error) bool {
	return target == ErrResolution
}

// MappingError wraps a failure of user code (a condition, factory, value
// function or converter) with the pair and destination member being mapped.
type MappingError struct {
	Pair   TypePair
	Member string
	Err    error
}

func (e *MappingError) Error() string {
	where := e.Pair.String()
	if e.Member != "" {
		where += " member " + e.Member
	}

	return ErrMapping.Error() + " (" + where + "): " + e.Err.Error()
}

func (e *MappingError) Unwrap() error {
	return e.Err
}

// Is matches ErrMapping in addition to the wrapped error chain.
func (e *MappingError) Is(target error) bool {
	return target == ErrMapping
}

// WrapMapping wraps err in a MappingError unless it already is one or is a
// ResolutionError, which keep their own identity.
func WrapMapping(err error, pair TypePair, member string) error {
	if err == nil {
		return nil
	}

	var (
		me *MappingError
		re *ResolutionError
	)

	if errors.As(err, &me) || errors.As(err, &re) {
		return err
	}

	return &MappingError{Pair: pair, Member: member, Err: err}
}
