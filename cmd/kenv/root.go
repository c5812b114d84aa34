package main

import (
	"strings"

	"github.com/knotsanimation/kenvmanager/internal/app"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
)

func newRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:           "kenv",
		Short:         "Resolve environment profiles and launch package managers",
		Version:       version,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	cmd.PersistentFlags().StringArray("profile-paths", nil,
		"Directory to search for profiles before the configured ones (repeatable)")
	cmd.PersistentFlags().Bool("debug", false, "Log debug messages")
	cmd.SetGlobalNormalizationFunc(normalizeFlagName)

	cmd.AddCommand(
		newRunCmd(),
		newListCmd(),
		newResolveCmd(),
		newNewCmd(),
		newCheckCmd(),
		newCleanCmd(),
		newConfigCmd(),
	)

	return cmd
}

// normalizeFlagName accepts underscores in flag names, so that
// --profile_paths works like --profile-paths.
func normalizeFlagName(_ *pflag.FlagSet, name string) pflag.NormalizedName {
	return pflag.NormalizedName(strings.ReplaceAll(name, "_", "-"))
}

// loadContext builds the app context from the global flags. Logs go to the
// command's error output.
func loadContext(cmd *cobra.Command) (*app.Context, error) {
	paths, _ := cmd.Flags().GetStringArray("profile-paths")
	debug, _ := cmd.Flags().GetBool("debug")
	return app.Load(app.Options{
		ProfilePaths: paths,
		Debug:        debug,
		LogOutput:    cmd.ErrOrStderr(),
	})
}
