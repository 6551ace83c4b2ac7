package main

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/crofthq/croft/internal/fingerprint"
	"github.com/crofthq/croft/internal/matcher"
)

var fingerprintCmd = &cobra.Command{
	Use:   "fingerprint [path]",
	Short: "Print the structural fingerprint of a project directory",
	Args:  cobra.MaximumNArgs(1),
	RunE:  runFingerprint,
}

var matchCmd = &cobra.Command{
	Use:   "match [path]",
	Short: "Match a project directory against the context catalog",
	Long: `Match fingerprints the directory (default: current directory) and looks
for the best-matching stored context. On a match the context id is printed
and its usage metadata updated; otherwise "no match" is printed and the
caller falls back to generic analysis.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runMatch,
}

func projectDir(args []string) (string, error) {
	if len(args) > 0 {
		return args[0], nil
	}
	return os.Getwd()
}

func runFingerprint(cmd *cobra.Command, args []string) error {
	a, err := buildApp()
	if err != nil {
		return err
	}
	defer a.close()

	dir, err := projectDir(args)
	if err != nil {
		return err
	}

	fp, err := fingerprint.NewScanner(a.log).Scan(cmd.Context(), dir)
	if err != nil {
		return err
	}

	out, err := json.MarshalIndent(fp, "", "  ")
	if err != nil {
		return err
	}
	fmt.Fprintln(cmd.OutOrStdout(), string(out))
	return nil
}

func runMatch(cmd *cobra.Command, args []string) error {
	a, err := buildApp()
	if err != nil {
		return err
	}
	defer a.close()

	dir, err := projectDir(args)
	if err != nil {
		return err
	}

	ctx := cmd.Context()
	fp, err := fingerprint.NewScanner(a.log).Scan(ctx, dir)
	if err != nil {
		return err
	}

	matched, err := matcher.New(a.catalog, a.log).Match(ctx, fp)
	if err != nil {
		return err
	}
	if matched == nil {
		fmt.Fprintln(cmd.OutOrStdout(), "no match")
		return nil
	}

	fmt.Fprintf(cmd.OutOrStdout(), "%s\t%s\n", matched.ID, matched.Name)
	return nil
}
