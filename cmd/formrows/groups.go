package main

import (
	"fmt"
	"strings"

	"github.com/pterm/pterm"
	"github.com/spf13/cobra"

	"github.com/goliatone/go-formrows/pkg/groups"
)

func addGroups(topLevel *cobra.Command, g *globalOptions) {
	var file string

	cmd := &cobra.Command{
		Use:   "groups",
		Short: "List the configured field groups",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			defs := groups.ContactGroups()
			if file != "" {
				src, err := optionalSource(file)
				if err != nil {
					return err
				}
				in := inputOptions{}
				raw, err := in.loader().Load(cmd.Context(), src)
				if err != nil {
					return err
				}
				if defs, err = groups.Load(raw, file); err != nil {
					return err
				}
			}
			table, err := groupsTable(defs)
			if err != nil {
				return err
			}
			_, err = fmt.Fprintln(cmd.OutOrStdout(), table)
			return err
		},
	}
	cmd.Flags().StringVar(&file, "groups", "", "JSON or YAML group file (defaults to the contact groups)")
	topLevel.AddCommand(cmd)
}

func groupsTable(defs []groups.Group) (string, error) {
	data := pterm.TableData{{"Group", "Template", "Container", "Placeholder", "Selections"}}
	for _, def := range defs {
		bindings := make([]string, 0, len(def.Selections))
		for _, sel := range def.Selections {
			bindings = append(bindings, sel.Role+"="+sel.Source)
		}
		data = append(data, []string{def.Name, def.TemplateID, def.ContainerID, def.Placeholder, strings.Join(bindings, ", ")})
	}
	return pterm.DefaultTable.WithHasHeader().WithData(data).Srender()
}
