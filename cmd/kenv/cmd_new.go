package main

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/knotsanimation/kenvmanager/internal/app"
	"github.com/knotsanimation/kenvmanager/internal/profile"
	"github.com/knotsanimation/kenvmanager/internal/ui"
	"github.com/spf13/cobra"
)

const defaultProfileVersion = "0.1.0"

func newNewCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "new <path>",
		Short: "Create a profile file, interactively or from flags",
		Args:  cobra.ExactArgs(1),
		RunE:  runNew,
	}
	cmd.Flags().String("identifier", "", "Profile identifier (prompted for on a terminal if empty)")
	cmd.Flags().String("version", "", "Profile version (default "+defaultProfileVersion+")")
	cmd.Flags().String("base", "", "Identifier of the profile to inherit from")
	cmd.Flags().String("managers", "", "Managers as a YAML mapping, e.g. '{system: {command: [bash]}}'")
	cmd.Flags().Bool("force", false, "Overwrite an existing file")
	return cmd
}

func runNew(cmd *cobra.Command, args []string) error {
	path := args[0]
	id, _ := cmd.Flags().GetString("identifier")
	version, _ := cmd.Flags().GetString("version")
	base, _ := cmd.Flags().GetString("base")
	managersSrc, _ := cmd.Flags().GetString("managers")
	force, _ := cmd.Flags().GetBool("force")

	if ext := strings.ToLower(filepath.Ext(path)); ext != ".yml" && ext != ".yaml" {
		return fmt.Errorf("profile path %q must end with .yml or .yaml", path)
	}

	interactive := id == ""
	if interactive && !ui.IsTerminal(os.Stdin) {
		return fmt.Errorf("--identifier is required when not running in a terminal")
	}

	if _, err := os.Stat(path); err == nil && !force {
		if !interactive {
			return fmt.Errorf("%s already exists (use --force to overwrite)", path)
		}
		ok, err := promptConfirm(fmt.Sprintf("%s already exists. Overwrite?", path))
		if err != nil {
			return err
		}
		if !ok {
			return fmt.Errorf("aborted: %s already exists", path)
		}
	}

	actx, err := loadContext(cmd)
	if err != nil {
		return err
	}

	if interactive {
		if id, version, base, err = promptProfileFields(actx, path); err != nil {
			return err
		}
	}
	if version == "" {
		version = defaultProfileVersion
	}

	managers := profile.NewManagers(nil)
	if managersSrc != "" {
		if managers, err = profile.ParseManagers([]byte(managersSrc)); err != nil {
			return fmt.Errorf("--managers: %w", err)
		}
	}

	p := &profile.Profile{
		Identifier: id,
		Version:    version,
		Managers:   managers,
	}
	if base != "" {
		if p.Base, err = actx.Repository.ReadProfileByID(base); err != nil {
			return fmt.Errorf("reading base profile: %w", err)
		}
	}

	if err := actx.Repository.WriteProfile(p, path, true); err != nil {
		return err
	}
	_, _ = fmt.Fprintf(cmd.OutOrStdout(), "Profile %q written to %s\n", id, path)
	return nil
}

// promptProfileFields asks for the identifier, version and base of a new
// profile written to path.
func promptProfileFields(actx *app.Context, path string) (id, version, base string, err error) {
	name := strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
	id, err = promptInput("Profile identifier", name, identifierValidator(actx, path))
	if err != nil {
		return "", "", "", err
	}
	version, err = promptInput("Version", defaultProfileVersion, nil)
	if err != nil {
		return "", "", "", err
	}
	base, err = promptInput("Base profile identifier (empty for none)", "", baseValidator(actx))
	if err != nil {
		return "", "", "", err
	}
	return strings.TrimSpace(id), strings.TrimSpace(version), strings.TrimSpace(base), nil
}

// identifierValidator rejects identifiers already declared by another file.
func identifierValidator(actx *app.Context, path string) func(string) error {
	return func(s string) error {
		s = strings.TrimSpace(s)
		if s == "" {
			return fmt.Errorf("identifier is required")
		}
		return actx.Repository.CheckUniqueIdentifier(s, path)
	}
}

// baseValidator accepts an empty base or one that resolves to a single file.
func baseValidator(actx *app.Context) func(string) error {
	return func(s string) error {
		s = strings.TrimSpace(s)
		if s == "" {
			return nil
		}
		_, err := actx.Repository.FindByIdentifier(s)
		return err
	}
}
