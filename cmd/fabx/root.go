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
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"dirpx.dev/fabx/apis"
	"dirpx.dev/fabx/config"
	"dirpx.dev/fabx/internal/ctxlog"
	"dirpx.dev/fabx/schema"
)

var (
	schemaPath string
	configPath string
	typeExpr   string
	typeArgs   []string
	seed       uint64
	action     string
	verbose    bool
)

func init() {
	rootCmd.PersistentFlags().StringVarP(&schemaPath, "schema", "s", "", "Path to HCL schema")
	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", "", "Path to HCL config")
	rootCmd.PersistentFlags().StringVarP(&typeExpr, "type", "t", "", "Type expression, e.g. Person or 'Pair(string, int)'")
	rootCmd.PersistentFlags().StringArrayVar(&typeArgs, "type-arg", nil, "Type argument for an unbound generic type (repeatable)")
	rootCmd.PersistentFlags().Uint64Var(&seed, "seed", 0, "Random seed; 0 draws one")
	rootCmd.PersistentFlags().StringVar(&action, "action", "", "Population action (nulls_and_default_primitives, apply_selectors, all)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Log at debug level to stderr")
	_ = rootCmd.MarkPersistentFlagRequired("schema")
	_ = rootCmd.MarkPersistentFlagRequired("type")
}

var rootCmd = &cobra.Command{
	Use:           "fabx",
	Short:         "Generate data for HCL-declared types",
	SilenceUsage:  true,
	SilenceErrors: true,
}

// Execute runs the root command.
func Execute() {
	if err := rootCmd.ExecuteContext(context.Background()); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// options is the flag state a subcommand runs with.
type options struct {
	schemaPath string
	configPath string
	typeExpr   string
	typeArgs   []string
	seed       uint64
	seedSet    bool
	action     string
	query      string
}

func currentOptions(cmd *cobra.Command) options {
	return options{
		schemaPath: schemaPath,
		configPath: configPath,
		typeExpr:   typeExpr,
		typeArgs:   typeArgs,
		seed:       seed,
		seedSet:    cmd.Flags().Changed("seed"),
		action:     action,
		query:      query,
	}
}

func commandContext(cmd *cobra.Command) context.Context {
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	level := slog.LevelWarn
	if verbose {
		level = slog.LevelDebug
	}
	logger := slog.New(slog.NewTextHandler(cmd.ErrOrStderr(), &slog.HandlerOptions{Level: level}))
	return ctxlog.WithLogger(ctx, logger)
}

// target is a resolved root type together with its bindings.
type target struct {
	cfg      apis.Config
	desc     apis.Descriptor
	bindings []apis.Descriptor
}

// load reads the config and schema named by o and resolves the root type.
func (o options) load(ctx context.Context) (*target, error) {
	var opts []config.Option
	if o.seedSet {
		opts = append(opts, config.WithSeed(o.seed))
	}
	if o.action != "" {
		a, err := apis.ParseAction(o.action)
		if err != nil {
			return nil, err
		}
		opts = append(opts, config.WithAction(a))
	}

	var cfg apis.Config
	if o.configPath != "" {
		var err error
		if cfg, err = config.LoadFile(o.configPath, opts...); err != nil {
			return nil, err
		}
	} else {
		cfg = config.NewConfig(opts...)
	}

	s, err := schema.Load(ctx, o.schemaPath)
	if err != nil {
		return nil, err
	}
	d, err := s.Type(ctx, o.typeExpr)
	if err != nil {
		return nil, err
	}
	t := &target{cfg: cfg, desc: d}
	for _, expr := range o.typeArgs {
		arg, err := s.Type(ctx, expr)
		if err != nil {
			return nil, fmt.Errorf("type argument %q: %w", expr, err)
		}
		t.bindings = append(t.bindings, arg)
	}
	return t, nil
}

func writeLine(w io.Writer, s string) error {
	_, err := io.WriteString(w, s+"\n")
	return err
}
