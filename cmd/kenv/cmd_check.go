package main

import (
	"fmt"

	"github.com/knotsanimation/kenvmanager/internal/app"
	"github.com/knotsanimation/kenvmanager/internal/launch"
	"github.com/knotsanimation/kenvmanager/internal/ui"
	"github.com/spf13/cobra"
)

func newCheckCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "check",
		Short: "Validate every profile of the profile locations",
		Long: "Read, merge and build the managers of every profile file, reporting one line\n" +
			"per file. Fails if any profile is invalid.",
		Args: cobra.NoArgs,
		RunE: runCheck,
	}
	return cmd
}

func runCheck(cmd *cobra.Command, _ []string) error {
	actx, err := loadContext(cmd)
	if err != nil {
		return err
	}
	paths, err := actx.Repository.FindProfileFiles()
	if err != nil {
		return err
	}

	progress := ui.NewProgress(cmd.OutOrStdout(), len(paths))
	for _, path := range paths {
		missing, err := checkProfile(actx, path)
		if err != nil {
			progress.Fail(path, err)
			continue
		}
		progress.Done(path)
		for _, exe := range missing {
			progress.Log("    %s", ui.WarnStyle.Render(fmt.Sprintf("warning: %s not found on PATH", exe)))
		}
	}

	if n := progress.Failed(); n > 0 {
		return fmt.Errorf("%d of %d profiles are invalid", n, len(paths))
	}
	_, _ = fmt.Fprintf(cmd.OutOrStdout(), "%d profiles checked\n", len(paths))
	return nil
}

// checkProfile fully resolves the profile at path and returns the manager
// executables missing from PATH.
func checkProfile(actx *app.Context, path string) ([]string, error) {
	p, err := actx.Repository.ReadProfile(path)
	if err != nil {
		return nil, err
	}
	merged, err := p.MergedProfile()
	if err != nil {
		return nil, err
	}
	mgrs, err := actx.Managers(merged)
	if err != nil {
		return nil, err
	}
	commands, err := buildCommands(mgrs, nil)
	if err != nil {
		return nil, err
	}

	var missing []string
	for _, c := range commands {
		if len(c.Args) > 0 && !launch.Available(c.Args[0]) {
			missing = append(missing, c.Args[0])
		}
	}
	return missing, nil
}
