/*
Copyright © 2020 NAME HERE <EMAIL ADDRESS>

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
package cmd

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/pkg/profile"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/notargets/meshio/config"
	"github.com/notargets/meshio/logging"
)

// commandContext carries the global flags and what PersistentPreRunE builds
// from them into the subcommands.
type commandContext struct {
	configFlag   string
	logLevelFlag string
	profileFlag  string

	cfg      *config.Config
	logger   *zap.Logger
	profiler interface{ Stop() }
}

func newRootCommand(ctx *commandContext) *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "meshio",
		Short: "Read, convert and inspect triangle mesh files",
		Long: `
Reads and writes triangle meshes, selecting the file format from the file
extension. Native tensor mesh formats are tried first, everything else is
handled by the legacy OBJ, OFF, SU2, Gambit and Gmsh codecs.

meshio convert -i wing.neu -o wing.obj`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return ctx.setup()
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			return cmd.Help()
		},
	}

	rootCmd.PersistentFlags().StringVar(&ctx.configFlag, "config", "", "config file (default is ./meshio.yaml or $HOME/.meshio/meshio.yaml)")
	rootCmd.PersistentFlags().StringVar(&ctx.logLevelFlag, "log-level", "", "override log.level: debug, info, warn, error")
	rootCmd.PersistentFlags().StringVar(&ctx.profileFlag, "profile", "", "write a cpu or mem profile to the current directory")

	rootCmd.AddCommand(newConvertCommand(ctx))
	rootCmd.AddCommand(newInfoCommand())
	rootCmd.AddCommand(newFormatsCommand())
	return rootCmd
}

func (ctx *commandContext) setup() error {
	cfg, err := config.Load(ctx.configFlag)
	if err != nil {
		return err
	}
	if ctx.logLevelFlag != "" {
		cfg.Log.Level = ctx.logLevelFlag
	}
	if ctx.logger, err = logging.NewLogger(cfg.Log); err != nil {
		return fmt.Errorf("create logger: %w", err)
	}
	ctx.cfg = cfg

	switch strings.ToLower(ctx.profileFlag) {
	case "":
	case "cpu":
		ctx.profiler = profile.Start(profile.CPUProfile, profile.ProfilePath("."), profile.NoShutdownHook, profile.Quiet)
	case "mem":
		ctx.profiler = profile.Start(profile.MemProfile, profile.ProfilePath("."), profile.NoShutdownHook, profile.Quiet)
	default:
		return fmt.Errorf("unknown profile %q, must be cpu or mem", ctx.profileFlag)
	}
	return nil
}

func (ctx *commandContext) teardown() {
	if ctx.profiler != nil {
		ctx.profiler.Stop()
	}
	if ctx.logger != nil {
		_ = ctx.logger.Sync()
	}
}

func run(args []string, stdout, stderr io.Writer) error {
	ctx := &commandContext{}
	defer ctx.teardown()
	rootCmd := newRootCommand(ctx)
	rootCmd.SetArgs(args)
	rootCmd.SetOut(stdout)
	rootCmd.SetErr(stderr)
	return rootCmd.Execute()
}

// Execute runs the command line and exits non-zero on failure
func Execute() {
	if err := run(os.Args[1:], os.Stdout, os.Stderr); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}
