package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/wildme/testgate/internal/errors"
)

// AddListCommand adds the list command to the root command.
func AddListCommand(root *cobra.Command, flags *GlobalFlags) {
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List registered suites and gated dependencies",
		Long: `List shows the named suites the run command accepts and the
dependencies the readiness gate will poll, after applying the config
file, .env and environment overrides.`,
		Example: `  testgate list
  testgate list -o json`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runList(cmd.Context(), flags)
		},
	}

	root.AddCommand(cmd)
}

// listOutput is the JSON shape of the list command.
type listOutput struct {
	Suites       []suiteInfo      `json:"suites"`
	Dependencies []dependencyInfo `json:"dependencies"`
}

type suiteInfo struct {
	Name        string   `json:"name"`
	Description string   `json:"description,omitempty"`
	Args        []string `json:"args"`
}

type dependencyInfo struct {
	Name        string `json:"name"`
	Kind        string `json:"kind"`
	Target      string `json:"target"`
	MaxAttempts int    `json:"max_attempts"`
	Interval    string `json:"interval"`
	Timeout     string `json:"timeout"`
}

// runList executes the list command logic.
func runList(ctx context.Context, flags *GlobalFlags) error {
	logger := GetLogger()
	ctx = logger.WithContext(ctx)

	rt, err := loadRuntime(ctx, flags)
	if err != nil {
		return err
	}

	out := listOutput{}
	for _, name := range rt.registry.Names() {
		def, _ := rt.registry.Lookup(name)
		out.Suites = append(out.Suites, suiteInfo{
			Name:        def.Name,
			Description: def.Description,
			Args:        def.Args,
		})
	}
	for _, dep := range rt.deps {
		out.Dependencies = append(out.Dependencies, dependencyInfo{
			Name:        dep.Name,
			Kind:        string(dep.Probe.Kind),
			Target:      dep.Probe.Target(),
			MaxAttempts: dep.MaxAttempts,
			Interval:    dep.Interval.String(),
			Timeout:     dep.AttemptTimeout.String(),
		})
	}

	switch flags.Output {
	case OutputJSON:
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(out)
	case OutputText:
		printList(out)
		return nil
	default:
		return errors.Wrapf(errors.ErrInvalidOutputFormat, "%q", flags.Output)
	}
}

// printList renders the text form of the list command.
func printList(out listOutput) {
	fmt.Println("Suites:")
	for _, s := range out.Suites {
		fmt.Printf("  %-14s %s\n", s.Name, s.Description)
	}

	fmt.Println("\nDependencies:")
	for _, d := range out.Dependencies {
		fmt.Printf("  %-14s %-9s %s (attempts=%d interval=%s timeout=%s)\n",
			d.Name, d.Kind, d.Target, d.MaxAttempts, d.Interval, d.Timeout)
	}
}
