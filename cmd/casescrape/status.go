package main

import (
	"fmt"
	"time"

	"github.com/jedib0t/go-pretty/v6/table"
)

// Run executes the status command.
func (c *StatusCmd) Run(deps *Dependencies) error {
	run, err := deps.Runs.FindRunByID(deps.Ctx, c.RunID)
	if err != nil {
		fmt.Fprintf(deps.Stderr, "error: %s\n", errorText(err))
		return err
	}

	finished := "in progress"
	if !run.FinishedAt.IsZero() {
		finished = run.FinishedAt.Format(time.RFC3339)
	}

	t := newTable(deps.Stdout)
	t.AppendRows([]table.Row{
		{"Run", run.ID},
		{"Site", run.SiteURL},
		{"Started", run.StartedAt.Format(time.RFC3339)},
		{"Finished", finished},
		{"Cases", run.Cases},
		{"Rows", run.Rows},
		{"Skipped", run.Skipped},
	})
	t.Render()
	return nil
}
