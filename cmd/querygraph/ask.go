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
	"bufio"
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"strconv"
	"strings"

	"github.com/poiesic/querygraph"
	"github.com/poiesic/querygraph/research"
	"github.com/urfave/cli/v2"
)

const defaultQuery = "Is it true that Neil Armstrong never went to space and that he was a paid actor by the inner circle, AKA NASA?"

func askCommand(c *cli.Context) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	in := bufio.NewReader(c.App.Reader)
	out := c.App.Writer

	query := c.String("query")
	if !c.IsSet("query") {
		query = promptQuery(in, out)
	}
	nodes := c.Int("nodes")
	if !c.IsSet("nodes") {
		nodes = promptNodes(in, out)
	}
	slog.Debug("starting new run", "query", query, "nodes", nodes)

	var opts []querygraph.EngineOption
	if c.Bool("progress") {
		opts = append(opts, querygraph.WithProgress(c.App.ErrWriter))
	}
	engine, err := openEngine(c, opts...)
	if err != nil {
		return err
	}
	defer engine.Close()

	fmt.Fprintln(out, "Asking the language model for an answer...")
	report, err := engine.Research(ctx, query, nodes, research.NewLogMonitor(slog.Default()))
	if err != nil {
		return err
	}
	printReport(out, report)
	return nil
}

// promptQuery reads the query from in, falling back to defaultQuery on an
// empty line.
func promptQuery(in *bufio.Reader, out io.Writer) string {
	fmt.Fprint(out, "Enter query: ")
	line, _ := in.ReadString('\n')
	if query := strings.TrimSpace(line); query != "" {
		return query
	}
	return defaultQuery
}

// promptNodes reads the node count from in. Anything that is not a
// positive integer yields research.DefaultNodes.
func promptNodes(in *bufio.Reader, out io.Writer) int {
	fmt.Fprint(out, "Enter number of nodes (usually on order of 25-150): ")
	line, _ := in.ReadString('\n')
	return parseNodes(line)
}

func parseNodes(s string) int {
	n, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil || n < 1 {
		return research.DefaultNodes
	}
	return n
}
