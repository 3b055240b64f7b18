// Package suite maps a user-supplied selector onto a concrete invocation of
// the BDD test runner and executes it, passing the runner's output and exit
// code through untouched.
package suite

import (
	"fmt"
	"strings"

	"github.com/wildme/testgate/internal/errors"
)

// SelectorKind enumerates the closed set of selector variants.
type SelectorKind string

// Selector kinds. Exactly one is populated per Selector.
const (
	// SelectAll runs the full suite with no filter.
	SelectAll SelectorKind = "all"

	// SelectTag runs scenarios carrying a tag.
	SelectTag SelectorKind = "tag"

	// SelectFeature runs a single feature file.
	SelectFeature SelectorKind = "feature"

	// SelectNamed runs a suite from the registry.
	SelectNamed SelectorKind = "named"
)

// Selector is the user's choice of what to run. Constructed from CLI
// arguments, validated up front, never mutated.
type Selector struct {
	Kind    SelectorKind
	Tag     string
	Feature string
	Name    string
}

// String renders the selector the way the user wrote it.
func (s Selector) String() string {
	switch s.Kind {
	case SelectAll:
		return "all"
	case SelectTag:
		return "tag:" + s.Tag
	case SelectFeature:
		return "feature:" + s.Feature
	case SelectNamed:
		return s.Name
	default:
		return string(s.Kind)
	}
}

// ParseSelector turns positional CLI arguments into a Selector.
//
// Grammar:
//
//	(nothing) | all        -> run everything
//	feature <path>         -> run one feature file
//	suite <name>           -> run a registered suite, strict lookup
//	<name>                 -> registered suite if known, otherwise a tag
//
// The bare-word fallback keeps the common cases short: `testgate run health`
// hits the registry, `testgate run wip` filters by tag.
func ParseSelector(args []string, reg *Registry) (Selector, error) {
	switch len(args) {
	case 0:
		return Selector{Kind: SelectAll}, nil
	case 1:
		word := args[0]
		if word == "all" {
			return Selector{Kind: SelectAll}, nil
		}
		if word == "feature" || word == "suite" {
			return Selector{}, errors.Wrapf(errors.ErrInvalidSelector, "%q requires an argument", word)
		}
		if reg.Has(word) {
			return Selector{Kind: SelectNamed, Name: word}, nil
		}
		return Selector{Kind: SelectTag, Tag: word}, nil
	case 2:
		switch args[0] {
		case "feature":
			return Selector{Kind: SelectFeature, Feature: args[1]}, nil
		case "suite":
			if !reg.Has(args[1]) {
				return Selector{}, errors.Wrapf(errors.ErrUnknownSuite,
					"%q (known suites: %s)", args[1], strings.Join(reg.Names(), ", "))
			}
			return Selector{Kind: SelectNamed, Name: args[1]}, nil
		default:
			return Selector{}, errors.Wrapf(errors.ErrInvalidSelector,
				"unexpected arguments %q", strings.Join(args, " "))
		}
	default:
		return Selector{}, errors.Wrapf(errors.ErrInvalidSelector,
			"too many arguments: %s", strings.Join(args, " "))
	}
}

// UsageHint is appended to selector errors so a typo shows the valid forms.
func UsageHint(reg *Registry) string {
	return fmt.Sprintf("selectors: all | <tag> | feature <path> | suite <name> (suites: %s)",
		strings.Join(reg.Names(), ", "))
}
