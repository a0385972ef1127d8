package main

import (
	"github.com/spf13/cobra"

	"github.com/goliatone/go-formrows/pkg/scaffold"
)

func addScaffold(topLevel *cobra.Command, g *globalOptions) {
	var (
		output string
		empty  bool
	)

	cmd := &cobra.Command{
		Use:   "scaffold",
		Short: "Write a demo contact page to experiment with",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			page := scaffold.DemoPage()
			if empty {
				page = scaffold.ContactPage(scaffold.DemoData())
			}
			out, err := scaffold.RenderString(page)
			if err != nil {
				return err
			}
			g.logger.Debug("scaffold rendered", "sections", len(page.Sections), "output", output)
			return g.writeOutput(cmd, output, []byte(out))
		},
	}
	cmd.Flags().StringVarP(&output, "output", "o", "", "output file (stdout if empty)")
	cmd.Flags().BoolVar(&empty, "empty", false, "render the create page without pre-rendered rows")
	topLevel.AddCommand(cmd)
}
