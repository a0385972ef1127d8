package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/goliatone/go-formrows/pkg/orchestrator"
)

type applyOptions struct {
	inputs     inputOptions
	output     string
	strict     bool
	operations []orchestrator.Operation
}

// operationFlag appends to a shared list so --add, --remove and --populate
// keep their command line order.
type operationFlag struct {
	kind orchestrator.OperationKind
	ops  *[]orchestrator.Operation
}

func (f *operationFlag) String() string { return "" }
func (f *operationFlag) Type() string   { return "string" }

func (f *operationFlag) Set(raw string) error {
	if f.kind == orchestrator.OperationAdd {
		group := strings.TrimSpace(raw)
		if group == "" {
			return fmt.Errorf("group name is required")
		}
		*f.ops = append(*f.ops, orchestrator.Add(group))
		return nil
	}
	group, index, err := orchestrator.ParseTarget(raw)
	if err != nil {
		return err
	}
	*f.ops = append(*f.ops, orchestrator.Operation{Kind: f.kind, Group: group, Index: index})
	return nil
}

func addApply(topLevel *cobra.Command, g *globalOptions) {
	ao := &applyOptions{}

	cmd := &cobra.Command{
		Use:   "apply",
		Short: "Apply row operations to a page and write the resulting HTML",
		Example: `
formrows apply --page contact.html --add events --remove contactDetails:0 --output out.html
formrows apply --page contact.html --data refdata.yaml --add companies --populate events:0
`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			settings, req, err := ao.inputs.configure(cmd, g)
			if err != nil {
				return err
			}
			ao.strict = settings.GetBool("strict")
			req.Operations = ao.operations

			session, err := ao.inputs.orchestrator(g).Run(cmd.Context(), req)
			if err != nil {
				return err
			}
			failed := session.Failed()
			for _, outcome := range failed {
				fmt.Fprintf(cmd.ErrOrStderr(), "skipped %s: %v\n", outcome.Operation, outcome.Err)
			}
			if ao.strict && len(failed) > 0 {
				return fmt.Errorf("%d operation(s) could not be applied", len(failed))
			}

			out, err := session.HTML()
			if err != nil {
				return err
			}
			return g.writeOutput(cmd, ao.output, out)
		},
	}

	addInputFlags(cmd, &ao.inputs)
	cmd.Flags().Var(&operationFlag{kind: orchestrator.OperationAdd, ops: &ao.operations}, "add", "append an instance of GROUP")
	cmd.Flags().Var(&operationFlag{kind: orchestrator.OperationRemove, ops: &ao.operations}, "remove", "remove the instance GROUP:INDEX")
	cmd.Flags().Var(&operationFlag{kind: orchestrator.OperationPopulate, ops: &ao.operations}, "populate", "refresh the selects of GROUP:INDEX")
	cmd.Flags().StringVarP(&ao.output, "output", "o", "", "output file (stdout if empty)")
	cmd.Flags().BoolVar(&ao.strict, "strict", false, "fail when an operation cannot be applied")
	topLevel.AddCommand(cmd)
}
