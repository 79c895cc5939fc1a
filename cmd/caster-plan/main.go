// Command caster-plan seals the demo order configuration and prints what
// the mapper does with it: the compiled plan of a pair, the YAML export of
// every type map, or the projection expression.
package main

import (
	"errors"
	"fmt"
	"io"
	"os"
	"slices"
	"strings"
	"time"

	"github.com/davecgh/go-spew/spew"
	"github.com/rs/zerolog"
	"github.com/spf13/pflag"
	"go.trai.ch/zerr"

	"caster"
)

var errUsage = zerr.New("invalid usage")

const (
	formatPlan       = "plan"
	formatYAML       = "yaml"
	formatProjection = "projection"
)

type options struct {
	Pair   string
	Format string
	Sample bool
	Debug  bool
}

func parseArgs(args []string) (*options, error) {
	opts := &options{}

	fs := pflag.NewFlagSet("caster-plan", pflag.ContinueOnError)
	fs.StringVarP(&opts.Pair, "pair", "p", "order", "mapping to describe: "+strings.Join(subjectNames(), ", "))
	fs.StringVarP(&opts.Format, "format", "f", formatPlan, "output format: plan, yaml or projection")
	fs.BoolVarP(&opts.Sample, "sample", "s", false, "map a sample value and dump the result")
	fs.BoolVar(&opts.Debug, "debug", false, "log sealing and compilation")

	if err := fs.Parse(args); err != nil {
		return nil, err
	}

	if _, ok := subjects[opts.Pair]; !ok {
		return nil, zerr.With(zerr.Wrap(errUsage, "unknown pair"), "pair", opts.Pair)
	}

	switch opts.Format {
	case formatPlan, formatYAML, formatProjection:
	default:
		return nil, zerr.With(zerr.Wrap(errUsage, "unknown format"), "format", opts.Format)
	}

	return opts, nil
}

func subjectNames() []string {
	names := make([]string, 0, len(subjects))
	for name := range subjects {
		names = append(names, name)
	}

	slices.Sort(names)

	return names
}

func newLogger(w io.Writer, debug bool) zerolog.Logger {
	level := zerolog.WarnLevel
	if debug {
		level = zerolog.DebugLevel
	}

	return zerolog.New(zerolog.ConsoleWriter{Out: w, TimeFormat: time.RFC3339}).
		Level(level).
		With().
		Timestamp().
		Logger()
}

func run(args []string, stdout, stderr io.Writer) error {
	opts, err := parseArgs(args)
	if err != nil {
		return err
	}

	log := newLogger(stderr, opts.Debug)

	m, err := newConfiguration(
		caster.WithLogger(log),
		caster.WithCompileObserver(func(pair caster.TypePair, took time.Duration) {
			log.Debug().Stringer("pair", pair).Dur("took", took).Msg("plan compiled")
		}),
	).Seal()
	if err != nil {
		return err
	}

	subj := subjects[opts.Pair]

	switch opts.Format {
	case formatYAML:
		out, err := m.ExportYAML()
		if err != nil {
			return err
		}

		if _, err := stdout.Write(out); err != nil {
			return err
		}
	case formatProjection:
		text, err := subj.project(m)
		if err != nil {
			return err
		}

		fmt.Fprintln(stdout, text)
	default:
		text, err := m.Plan(subj.pair)
		if err != nil {
			return err
		}

		fmt.Fprintln(stdout, text)
	}

	if !opts.Sample {
		return nil
	}

	out, err := m.MapPair(subj.sample(), subj.pair)
	if err != nil {
		return err
	}

	spew.Fdump(stdout, out)

	return nil
}

func main() {
	if err := run(os.Args[1:], os.Stdout, os.Stderr); err != nil {
		if errors.Is(err, pflag.ErrHelp) {
			return
		}

		fmt.Fprintln(os.Stderr, "caster-plan:", err)
		os.Exit(1)
	}
}
