package main

import (
	"fmt"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/knotsanimation/kenvmanager/internal/session"
	"github.com/spf13/cobra"
)

func newCleanCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "clean",
		Short: "Remove outdated session directories",
		Args:  cobra.NoArgs,
		RunE:  runClean,
	}
	cmd.Flags().Float64("lifetime", -1, "Remove sessions older than this many hours (default: session_lifetime)")
	cmd.Flags().Bool("dry-run", false, "Only list the sessions that would be removed")
	return cmd
}

func runClean(cmd *cobra.Command, _ []string) error {
	hours, _ := cmd.Flags().GetFloat64("lifetime")
	dryRun, _ := cmd.Flags().GetBool("dry-run")

	actx, err := loadContext(cmd)
	if err != nil {
		return err
	}
	lifetime := actx.Config.Lifetime()
	if cmd.Flags().Changed("lifetime") {
		if hours < 0 {
			return fmt.Errorf("--lifetime must not be negative")
		}
		lifetime = time.Duration(hours * float64(time.Hour))
	}
	root := actx.Config.SessionRoot
	now := time.Now()

	outdated, err := session.Outdated(root, lifetime, now)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	if dryRun {
		for _, d := range outdated {
			_, _ = fmt.Fprintf(out, "would remove %s (created %s)\n", d.Path, humanize.RelTime(d.Created, now, "ago", "from now"))
		}
		_, _ = fmt.Fprintf(out, "%d sessions older than %s in %s\n", len(outdated), lifetime, root)
		return nil
	}

	removed, err := session.CleanOutdated(root, lifetime)
	for _, path := range removed {
		actx.Logger.Debug("removed session", "path", path)
	}
	if err != nil {
		return err
	}
	_, _ = fmt.Fprintf(out, "Removed %d sessions older than %s from %s\n", len(removed), lifetime, root)
	return nil
}
