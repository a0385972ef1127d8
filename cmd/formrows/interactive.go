package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strconv"

	"github.com/pterm/pterm"
	"github.com/spf13/cobra"

	"github.com/goliatone/go-formrows/pkg/orchestrator"
)

const (
	actionAdd    = "Add a row"
	actionRemove = "Remove a row"
	actionShow   = "Show rows"
	actionSave   = "Save and exit"
	actionQuit   = "Quit without saving"
)

var interactiveActions = []string{actionAdd, actionRemove, actionShow, actionSave, actionQuit}

func addInteractive(topLevel *cobra.Command, g *globalOptions) {
	var (
		in     inputOptions
		output string
	)

	cmd := &cobra.Command{
		Use:     "interactive",
		Aliases: []string{"i"},
		Short:   "Add and remove rows from prompts, then save the page",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			_, req, err := in.configure(cmd, g)
			if err != nil {
				return err
			}
			session, err := in.orchestrator(g).Load(cmd.Context(), req)
			if err != nil {
				return err
			}

			saved, err := runInteractive(cmd.Context(), newSurveyDriver(), session, cmd.OutOrStdout())
			if err != nil {
				if errors.Is(err, ErrAborted) {
					return nil
				}
				return err
			}
			if !saved {
				return nil
			}
			out, err := session.HTML()
			if err != nil {
				return err
			}
			return g.writeOutput(cmd, output, out)
		},
	}
	addInputFlags(cmd, &in)
	cmd.Flags().StringVarP(&output, "output", "o", "", "output file (stdout if empty)")
	topLevel.AddCommand(cmd)
}

// runInteractive loops over prompts until the user saves or quits. It
// reports whether the page should be written.
func runInteractive(ctx context.Context, driver PromptDriver, session *orchestrator.Session, w io.Writer) (bool, error) {
	names := groupNames(session)
	if len(names) == 0 {
		return false, errors.New("no field groups configured")
	}

	for {
		choice, err := driver.Select(ctx, SelectConfig{Message: "What next?", Options: interactiveActions})
		if err != nil {
			return false, err
		}
		if choice < 0 || choice >= len(interactiveActions) {
			continue
		}

		switch interactiveActions[choice] {
		case actionAdd:
			idx, err := driver.Select(ctx, SelectConfig{Message: "Group", Options: names})
			if err != nil {
				return false, err
			}
			if idx < 0 {
				continue
			}
			outcome := session.Apply(orchestrator.Add(names[idx]))
			report(w, outcome)
		case actionRemove:
			if err := promptRemove(ctx, driver, session, names, w); err != nil {
				return false, err
			}
		case actionShow:
			table, err := rowsTable(session)
			if err != nil {
				return false, err
			}
			fmt.Fprintln(w, table)
		case actionSave:
			return true, nil
		case actionQuit:
			ok, err := driver.Confirm(ctx, ConfirmConfig{Message: "Discard changes?", Default: false})
			if err != nil {
				return false, err
			}
			if ok {
				return false, nil
			}
		}
	}
}

func promptRemove(ctx context.Context, driver PromptDriver, session *orchestrator.Session, names []string, w io.Writer) error {
	idx, err := driver.Select(ctx, SelectConfig{Message: "Group", Options: names})
	if err != nil || idx < 0 {
		return err
	}
	group := names[idx]

	instances := session.Manager.Instances(group)
	if len(instances) == 0 {
		fmt.Fprintf(w, "%s has no rows\n", group)
		return nil
	}
	labels := make([]string, 0, len(instances))
	for _, inst := range instances {
		labels = append(labels, fmt.Sprintf("%s[%d]", group, inst.Index))
	}
	pick, err := driver.Select(ctx, SelectConfig{Message: "Row", Options: labels})
	if err != nil || pick < 0 {
		return err
	}
	report(w, session.Apply(orchestrator.RemoveInstance(instances[pick])))
	return nil
}

func report(w io.Writer, outcome orchestrator.Outcome) {
	if outcome.Err != nil {
		fmt.Fprintf(w, "could not %s: %v\n", outcome.Operation, outcome.Err)
		return
	}
	switch outcome.Operation.Kind {
	case orchestrator.OperationAdd:
		fmt.Fprintf(w, "added %s[%d]\n", outcome.Operation.Group, outcome.Index)
	default:
		fmt.Fprintf(w, "%s %s[%d]\n", outcome.Operation.Kind, outcome.Operation.Group, outcome.Index)
	}
}

func groupNames(session *orchestrator.Session) []string {
	defs := session.Manager.Groups()
	out := make([]string, 0, len(defs))
	for _, def := range defs {
		out = append(out, def.Name)
	}
	return out
}

func rowsTable(session *orchestrator.Session) (string, error) {
	data := pterm.TableData{{"Group", "Rows", "Indices", "Next"}}
	for _, name := range groupNames(session) {
		instances := session.Manager.Instances(name)
		indices := ""
		for i, inst := range instances {
			if i > 0 {
				indices += ", "
			}
			indices += strconv.Itoa(inst.Index)
		}
		next, _ := session.Manager.Next(name)
		data = append(data, []string{name, strconv.Itoa(len(instances)), indices, strconv.Itoa(next)})
	}
	return pterm.DefaultTable.WithHasHeader().WithData(data).Srender()
}
