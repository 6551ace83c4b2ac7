package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/crofthq/croft/internal/catalog"
	"github.com/crofthq/croft/internal/fingerprint"
)

var contextCmd = &cobra.Command{
	Use:   "context",
	Short: "Manage the context catalog",
}

var contextListCmd = &cobra.Command{
	Use:   "list",
	Short: "List stored contexts with usage metadata",
	Args:  cobra.NoArgs,
	RunE:  runContextList,
}

var contextAddCmd = &cobra.Command{
	Use:   "add <name> [path]",
	Short: "Learn a new context from a project directory",
	Args:  cobra.RangeArgs(1, 2),
	RunE:  runContextAdd,
}

func init() {
	contextCmd.AddCommand(contextListCmd)
	contextCmd.AddCommand(contextAddCmd)
}

func runContextList(cmd *cobra.Command, args []string) error {
	a, err := buildApp()
	if err != nil {
		return err
	}
	defer a.close()

	contexts, err := a.catalog.List(cmd.Context())
	if err != nil {
		return err
	}

	for _, c := range contexts {
		fmt.Fprintf(cmd.OutOrStdout(), "%s\t%s\tused %d times\tlast %s\n",
			c.ID, c.Name, c.Usage.UsageCount, c.Usage.LastUsedAt.Format("2006-01-02"))
	}
	return nil
}

func runContextAdd(cmd *cobra.Command, args []string) error {
	a, err := buildApp()
	if err != nil {
		return err
	}
	defer a.close()

	dir, err := projectDir(args[1:])
	if err != nil {
		return err
	}

	ctx := cmd.Context()
	fp, err := fingerprint.NewScanner(a.log).Scan(ctx, dir)
	if err != nil {
		return err
	}

	c, err := catalog.NewContext(args[0], *fp)
	if err != nil {
		return err
	}
	if err := a.catalog.Save(ctx, c); err != nil {
		return err
	}

	fmt.Fprintln(cmd.OutOrStdout(), c.ID)
	return nil
}
