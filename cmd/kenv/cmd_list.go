package main

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/knotsanimation/kenvmanager/internal/app"
	"github.com/knotsanimation/kenvmanager/internal/ui"
	"github.com/spf13/cobra"
)

func newListCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List the profiles found in the profile locations",
		Args:  cobra.NoArgs,
		RunE:  runList,
	}
	cmd.Flags().Bool("json", false, "Output as JSON")
	return cmd
}

type profileEntry struct {
	Identifier string   `json:"identifier"`
	Version    string   `json:"version"`
	Base       string   `json:"base,omitempty"`
	Managers   []string `json:"managers"`
	Path       string   `json:"path"`
}

// collectProfiles reads every profile file of the locations. Files that fail
// to read are returned as errors next to the valid entries.
func collectProfiles(actx *app.Context) ([]profileEntry, []error, error) {
	listed, err := actx.Repository.ListProfiles()
	var errs []error
	if err != nil {
		joined, ok := err.(interface{ Unwrap() []error })
		if !ok {
			return nil, nil, err
		}
		errs = joined.Unwrap()
	}
	entries := make([]profileEntry, 0, len(listed))
	for _, l := range listed {
		e := profileEntry{
			Identifier: l.Profile.Identifier,
			Version:    l.Profile.Version,
			Managers:   l.Profile.Managers.Names(),
			Path:       l.Path,
		}
		if l.Profile.Base != nil {
			e.Base = l.Profile.Base.Identifier
		}
		entries = append(entries, e)
	}
	return entries, errs, nil
}

func runList(cmd *cobra.Command, _ []string) error {
	asJSON, _ := cmd.Flags().GetBool("json")

	actx, err := loadContext(cmd)
	if err != nil {
		return err
	}
	entries, errs, err := collectProfiles(actx)
	if err != nil {
		return err
	}
	for _, e := range errs {
		actx.Logger.Warn("skipping invalid profile", "error", e)
	}

	out := cmd.OutOrStdout()
	if asJSON {
		enc := json.NewEncoder(out)
		enc.SetIndent("", "  ")
		return enc.Encode(entries)
	}

	_, _ = fmt.Fprintf(out, "%s\n", ui.Heading(fmt.Sprintf("Searching %d locations:", len(actx.Locations))))
	for _, loc := range actx.Locations {
		note := ""
		if _, err := os.Stat(loc); err != nil {
			note = ui.FaintStyle.Render(" (missing)")
		}
		_, _ = fmt.Fprintf(out, "  %s%s\n", loc, note)
	}
	_, _ = fmt.Fprintf(out, "%s\n\n", ui.Heading(fmt.Sprintf("Found %d valid profiles:", len(entries))))

	tbl := ui.NewTable(out, "IDENTIFIER", "VERSION", "BASE", "MANAGERS", "PATH")
	for _, e := range entries {
		tbl.Row(e.Identifier, e.Version, e.Base, strings.Join(e.Managers, ","), e.Path)
	}
	return tbl.Flush()
}

// profileIdentifiers returns the identifiers of the valid profiles, for
// pickers and completion.
func profileIdentifiers(actx *app.Context) ([]string, error) {
	entries, _, err := collectProfiles(actx)
	if err != nil {
		return nil, err
	}
	ids := make([]string, 0, len(entries))
	for _, e := range entries {
		ids = append(ids, e.Identifier)
	}
	return ids, nil
}

// completeProfileIdentifier completes the first argument with the identifiers
// of the valid profiles.
func completeProfileIdentifier(cmd *cobra.Command, args []string, _ string) ([]string, cobra.ShellCompDirective) {
	if len(args) > 0 {
		return nil, cobra.ShellCompDirectiveNoFileComp
	}
	actx, err := loadContext(cmd)
	if err != nil {
		return nil, cobra.ShellCompDirectiveError
	}
	ids, err := profileIdentifiers(actx)
	if err != nil {
		return nil, cobra.ShellCompDirectiveError
	}
	return ids, cobra.ShellCompDirectiveNoFileComp
}
