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
	"time"

	"github.com/ohler55/ojg/jp"
	"github.com/ohler55/ojg/oj"
	"github.com/spf13/cobra"

	"dirpx.dev/fabx"
)

var query string

var generateCmd = &cobra.Command{
	Use:   "generate",
	Short: "Generate a value of a schema type and print it as JSON",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return generate(commandContext(cmd), cmd.OutOrStdout(), currentOptions(cmd))
	},
}

func init() {
	generateCmd.Flags().StringVarP(&query, "query", "q", "", "JSONPath applied to the generated value")
	rootCmd.AddCommand(generateCmd)
}

var jsonOptions = oj.Options{Indent: 2, Sort: true, TimeFormat: time.RFC3339}

// generate creates one value through the process-wide snapshot and writes
// it, or the results of o.query, to w.
func generate(ctx context.Context, w io.Writer, o options) error {
	t, err := o.load(ctx)
	if err != nil {
		return err
	}
	fabx.SetConfig(t.cfg)

	v, err := fabx.Create(ctx, t.desc, nil, t.bindings...)
	if err != nil {
		return err
	}
	if o.query != "" {
		x, err := jp.ParseString(o.query)
		if err != nil {
			return fmt.Errorf("invalid jsonpath '%s': %w", o.query, err)
		}
		v = x.Get(v)
	}
	return writeLine(w, oj.JSON(v, &jsonOptions))
}
