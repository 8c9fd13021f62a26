// Copyright 2025 Poiesic Systems
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package main

import (
	"context"
	"errors"
	"fmt"
	"text/tabwriter"

	"github.com/poiesic/querygraph"
	"github.com/urfave/cli/v2"
)

func historyCommand(c *cli.Context) error {
	ctx := context.Background()
	engine, err := openEngine(c, querygraph.ArchiveOnly())
	if err != nil {
		return err
	}
	defer engine.Close()

	w := tabwriter.NewWriter(c.App.Writer, 0, 4, 2, ' ', 0)
	defer w.Flush()

	if like := c.String("like"); like != "" {
		matches, err := engine.SimilarReports(ctx, like, float32(c.Float64("min-similarity")), max(c.Int("limit"), 1))
		if err != nil {
			return err
		}
		fmt.Fprintln(w, "ID\tSCORE\tCREATED\tEVIDENCE\tQUERY")
		for _, m := range matches {
			s := m.Summary
			fmt.Fprintf(w, "%s\t%.3f\t%s\t%d\t%s\n", s.ID, m.Score, s.CreatedAt.Local().Format(timeLayout), s.EvidenceCount, s.Query)
		}
		return nil
	}

	summaries, err := engine.History(ctx, c.Int("limit"))
	if err != nil {
		return err
	}
	fmt.Fprintln(w, "ID\tCREATED\tEVIDENCE\tQUERY")
	for _, s := range summaries {
		fmt.Fprintf(w, "%s\t%s\t%d\t%s\n", s.ID, s.CreatedAt.Local().Format(timeLayout), s.EvidenceCount, s.Query)
	}
	return nil
}

func showCommand(c *cli.Context) error {
	id := c.Args().First()
	if id == "" {
		return errors.New("report ID is required")
	}
	engine, err := openEngine(c, querygraph.ArchiveOnly())
	if err != nil {
		return err
	}
	defer engine.Close()

	report, err := engine.Report(context.Background(), id)
	if err != nil {
		return fmt.Errorf("report %s: %w", id, err)
	}
	printReport(c.App.Writer, report)
	return nil
}

func deleteCommand(c *cli.Context) error {
	id := c.Args().First()
	if id == "" {
		return errors.New("report ID is required")
	}
	engine, err := openEngine(c, querygraph.ArchiveOnly())
	if err != nil {
		return err
	}
	defer engine.Close()

	if err := engine.DeleteReport(context.Background(), id); err != nil {
		return fmt.Errorf("report %s: %w", id, err)
	}
	fmt.Fprintf(c.App.Writer, "Deleted %s\n", id)
	return nil
}
