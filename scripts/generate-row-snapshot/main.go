package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"os"
	"path/filepath"

	"github.com/goliatone/go-formrows/pkg/groups"
	"github.com/goliatone/go-formrows/pkg/orchestrator"
	"github.com/goliatone/go-formrows/pkg/scaffold"
	"github.com/goliatone/go-formrows/pkg/testsupport"
)

// Regenerates the row snapshot goldens used by the scaffold and orchestrator
// tests without going through UPDATE_GOLDENS.
func main() {
	outputDir := flag.String("output", "pkg", "directory holding the scaffold and orchestrator packages")
	flag.Parse()

	markup, err := scaffold.RenderString(scaffold.DemoPage())
	if err != nil {
		fail(err)
	}

	session, err := orchestrator.New().Load(context.Background(), orchestrator.Request{PageHTML: []byte(markup)})
	if err != nil {
		fail(err)
	}
	write(filepath.Join(*outputDir, "scaffold", "testdata", "demo_rows.golden.json"),
		testsupport.RowNames(session.Document, groups.ContactGroups()))

	for _, op := range []orchestrator.Operation{
		orchestrator.Remove("contactDetails", 0),
		orchestrator.Add("companies"),
		orchestrator.Add("events"),
		orchestrator.Add("events"),
		orchestrator.Add("notes"),
	} {
		if outcome := session.Apply(op); outcome.Err != nil {
			fail(outcome.Err)
		}
	}
	write(filepath.Join(*outputDir, "orchestrator", "testdata", "after_apply.golden.json"),
		testsupport.RowNames(session.Document, groups.ContactGroups()))
}

func write(path string, value any) {
	payload, err := json.MarshalIndent(value, "", "  ")
	if err != nil {
		fail(err)
	}
	if err := os.WriteFile(path, append(payload, '\n'), 0o644); err != nil {
		fail(err)
	}
	fmt.Printf("wrote %s\n", path)
}

func fail(err error) {
	fmt.Fprintln(os.Stderr, "generate-row-snapshot:", err)
	os.Exit(1)
}
