package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/knotsanimation/kenvmanager/internal/config"
	"github.com/knotsanimation/kenvmanager/internal/ui"
	"github.com/spf13/cobra"
)

func newConfigCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config [key]",
		Short: "Show the effective configuration, or the value of one key",
		Args:  cobra.MaximumNArgs(1),
		RunE:  runConfig,
	}
	cmd.Flags().Bool("docs", false, "Also describe every configuration key")
	return cmd
}

func runConfig(cmd *cobra.Command, args []string) error {
	docs, _ := cmd.Flags().GetBool("docs")

	actx, err := loadContext(cmd)
	if err != nil {
		return err
	}
	out := cmd.OutOrStdout()

	if len(args) == 1 {
		f, ok := config.LookupField(args[0])
		if !ok {
			names := make([]string, 0, len(config.Fields()))
			for _, f := range config.Fields() {
				names = append(names, f.Name)
			}
			return fmt.Errorf("unknown configuration key %q (known: %s)", args[0], strings.Join(names, ", "))
		}
		_, _ = fmt.Fprintln(out, f.Value(actx.Config))
		if docs {
			_, _ = fmt.Fprintf(out, "    %s\n", f.Doc)
		}
		return nil
	}

	source := os.Getenv(config.PathEnv)
	if source == "" {
		source = "defaults (" + config.PathEnv + " is not set)"
	}
	_, _ = fmt.Fprintf(out, "%s %s\n\n", ui.Heading("Configuration:"), source)

	tbl := ui.NewTable(out, "KEY", "VALUE", "ENVIRONMENT")
	for _, f := range config.Fields() {
		tbl.Row(f.Name, f.Value(actx.Config), f.Env)
	}
	if err := tbl.Flush(); err != nil {
		return err
	}

	_, _ = fmt.Fprintf(out, "\n%s\n", ui.Heading("Profile locations:"))
	for _, loc := range actx.Locations {
		_, _ = fmt.Fprintf(out, "  %s\n", loc)
	}

	if docs {
		_, _ = fmt.Fprintln(out)
		for _, f := range config.Fields() {
			_, _ = fmt.Fprintf(out, "%s\n    %s\n", ui.Heading(f.Name), f.Doc)
		}
	}
	return nil
}
