package main

import (
	"fmt"
	"os"

	"github.com/knotsanimation/kenvmanager/internal/app"
	"github.com/knotsanimation/kenvmanager/internal/config"
	"github.com/knotsanimation/kenvmanager/internal/launch"
	"github.com/knotsanimation/kenvmanager/internal/manager"
	"github.com/knotsanimation/kenvmanager/internal/profile"
	"github.com/knotsanimation/kenvmanager/internal/session"
	"github.com/knotsanimation/kenvmanager/internal/ui"
	"github.com/spf13/cobra"
)

// newRunner returns the launcher used by run. Tests replace it.
var newRunner = func(cmd *cobra.Command) launch.Runner {
	return launch.ExecRunner{
		Stdin:  cmd.InOrStdin(),
		Stdout: cmd.OutOrStdout(),
		Stderr: cmd.ErrOrStderr(),
	}
}

func newRunCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "run [identifier] [-- command...]",
		Short: "Launch the environment described by a profile",
		Long: "Resolve the profile and launch each of its managers in order, stopping at the first\n" +
			"one that exits with a non-zero code. Arguments after -- are appended to the launched\n" +
			"command. Without identifier on a terminal, the profile is picked interactively.",
		RunE:              runRun,
		ValidArgsFunction: completeProfileIdentifier,
	}
	cmd.Flags().String("manager", "", "Only launch the manager with this name")
	cmd.Flags().Bool("dry-run", false, "Print the commands instead of running them")
	return cmd
}

func runRun(cmd *cobra.Command, args []string) error {
	managerName, _ := cmd.Flags().GetString("manager")
	dryRun, _ := cmd.Flags().GetBool("dry-run")
	ids, extra := splitAtDash(cmd, args)
	if len(ids) > 1 {
		return fmt.Errorf("expected at most one profile identifier, got %d (use -- before command arguments)", len(ids))
	}

	actx, err := loadContext(cmd)
	if err != nil {
		return err
	}

	var id string
	if len(ids) == 1 {
		id = ids[0]
	} else {
		if !ui.IsTerminal(os.Stdin) {
			return fmt.Errorf("a profile identifier is required when not running in a terminal")
		}
		if id, err = pickProfile(actx); err != nil {
			return err
		}
	}

	p, err := actx.Resolve(id)
	if err != nil {
		return err
	}
	mgrs, err := actx.Managers(p)
	if err != nil {
		return err
	}
	if len(mgrs) == 0 {
		return fmt.Errorf("profile %q defines no manager", p.Identifier)
	}
	if mgrs, err = app.SelectManager(mgrs, managerName); err != nil {
		return err
	}

	commands, err := buildCommands(mgrs, extra)
	if err != nil {
		return err
	}
	if dryRun {
		for i, c := range commands {
			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "%s: %s\n", mgrs[i].Name(), c)
		}
		return nil
	}

	sess, err := startSession(actx, p, mgrs)
	if err != nil {
		return err
	}

	runner := newRunner(cmd)
	for i, c := range commands {
		c.Env = append(c.Env, launch.Var{Name: config.SessionDirEnv, Value: sess.Path})
		actx.Logger.Debug("launching environment",
			"profile", p.Identifier,
			"manager", mgrs[i].Name(),
			"command", c.String(),
			"session", sess.Path,
		)
		code, err := runner.Run(cmd.Context(), c)
		if err != nil {
			return err
		}
		actx.Logger.Debug("environment exited", "manager", mgrs[i].Name(), "code", code)
		if code != 0 {
			return &exitError{code: code}
		}
	}
	return nil
}

// splitAtDash separates positional arguments from those given after "--".
func splitAtDash(cmd *cobra.Command, args []string) (before, after []string) {
	if n := cmd.ArgsLenAtDash(); n >= 0 {
		return args[:n], args[n:]
	}
	return args, nil
}

func buildCommands(mgrs []manager.Manager, extra []string) ([]launch.Command, error) {
	commands := make([]launch.Command, len(mgrs))
	for i, m := range mgrs {
		c, err := m.Command(extra)
		if err != nil {
			return nil, err
		}
		commands[i] = c
	}
	return commands, nil
}

// startSession creates the session directory of a launch and writes the
// merged profile into it.
func startSession(actx *app.Context, p *profile.Profile, mgrs []manager.Manager) (*session.Directory, error) {
	sess, err := session.Initialize(actx.Config.SessionRoot)
	if err != nil {
		return nil, err
	}
	data, err := profile.Encode(resolvedProfile(p))
	if err != nil {
		return nil, err
	}
	if err := os.WriteFile(sess.ProfilePath(), data, 0644); err != nil { //nolint:gosec // session files are shared with the environment
		return nil, fmt.Errorf("writing session profile: %w", err)
	}
	names := make([]string, len(mgrs))
	for i, m := range mgrs {
		names[i] = m.Name()
	}
	if err := sess.Annotate(p.Identifier, names, version); err != nil {
		return nil, err
	}
	actx.Logger.Debug("session created", "path", sess.Path)
	return sess, nil
}

// resolvedProfile returns a merged profile with its append rules dropped.
func resolvedProfile(p *profile.Profile) *profile.Profile {
	return &profile.Profile{
		Identifier: p.Identifier,
		Version:    p.Version,
		Managers:   profile.NewManagers(p.Managers.Resolved()),
	}
}
