package main

import (
	"encoding/json"
	"fmt"

	"github.com/knotsanimation/kenvmanager/internal/profile"
	"github.com/spf13/cobra"
	"github.com/tidwall/gjson"
)

func newResolveCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:               "resolve <identifier>",
		Short:             "Print a profile merged with its base profiles",
		Args:              cobra.ExactArgs(1),
		RunE:              runResolve,
		ValidArgsFunction: completeProfileIdentifier,
	}
	cmd.Flags().Bool("json", false, "Output as JSON")
	cmd.Flags().String("get", "", "Print only the value at this path of the JSON output (e.g. managers.rezenv.requires)")
	cmd.Flags().Bool("no-merge", false, "Print the profile as written, without merging its base profiles")
	return cmd
}

type resolvedDocument struct {
	Identifier string           `json:"identifier"`
	Version    string           `json:"version"`
	Base       string           `json:"base,omitempty"`
	Chain      []string         `json:"chain"`
	Managers   profile.Managers `json:"managers"`
}

func runResolve(cmd *cobra.Command, args []string) error {
	asJSON, _ := cmd.Flags().GetBool("json")
	path, _ := cmd.Flags().GetString("get")
	noMerge, _ := cmd.Flags().GetBool("no-merge")

	actx, err := loadContext(cmd)
	if err != nil {
		return err
	}
	read, err := actx.Repository.ReadProfileByID(args[0])
	if err != nil {
		return err
	}
	p := read
	if !noMerge {
		if p, err = read.MergedProfile(); err != nil {
			return err
		}
		p = resolvedProfile(p)
	}

	out := cmd.OutOrStdout()
	if !asJSON && path == "" {
		data, err := profile.Encode(p)
		if err != nil {
			return err
		}
		_, err = out.Write(data)
		return err
	}

	doc := resolvedDocument{
		Identifier: p.Identifier,
		Version:    p.Version,
		Chain:      read.Chain(),
		Managers:   p.Managers,
	}
	if p.Base != nil {
		doc.Base = p.Base.Identifier
	}
	if path == "" {
		enc := json.NewEncoder(out)
		enc.SetIndent("", "  ")
		return enc.Encode(doc)
	}
	data, err := json.Marshal(doc)
	if err != nil {
		return fmt.Errorf("marshaling profile: %w", err)
	}

	res := gjson.GetBytes(data, path)
	if !res.Exists() {
		return fmt.Errorf("no value at %q in profile %q", path, p.Identifier)
	}
	value := res.Raw
	if res.Type == gjson.String {
		value = res.Str
	}
	_, err = fmt.Fprintln(out, value)
	return err
}
