/*
   Copyright 2025 The DIRPX Authors.

   Licensed under the Apache License, Version 2.0 (the "License");
   you may not use this file except in compliance with the License.
   You may obtain a copy of the License at

       http://www.apache.org/licenses/LICENSE-2.0

   Unless required by applicable law or agreed to in writing, software
   distributed under the License is distributed on an "AS IS" BASIS,
   WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
   See the License for the specific language governing permissions and
   limitations under the License.
*/

package main

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"dirpx.dev/fabx/node"
)

var treeCmd = &cobra.Command{
	Use:   "tree",
	Short: "Print the node tree of a schema type",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return printTree(commandContext(cmd), cmd.OutOrStdout(), currentOptions(cmd))
	},
}

func init() {
	rootCmd.AddCommand(treeCmd)
}

// printTree writes one line per node: indented path, kind, type name and
// a marker for terminal nodes.
func printTree(ctx context.Context, w io.Writer, o options) error {
	t, err := o.load(ctx)
	if err != nil {
		return err
	}
	root, err := node.NewBuilder(t.cfg).BuildRoot(ctx, t.desc, t.bindings...)
	if err != nil {
		return err
	}
	root.Walk(func(n *node.Node) bool {
		line := fmt.Sprintf("%s%s %s %s", strings.Repeat("  ", n.Depth()), n.Path(), n.Kind(), n.Type().Name())
		if n.Terminal() {
			line += " (terminal)"
		}
		err = writeLine(w, line)
		return err == nil
	})
	return err
}
