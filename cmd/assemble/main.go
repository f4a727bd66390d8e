package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/ohler55/ojg"
	"github.com/ohler55/ojg/jp"
	"github.com/ohler55/ojg/oj"
	"github.com/spf13/cobra"

	"github.com/goliatone/go-assemble/cmd/assemble/internal/bootstrap"
	"github.com/goliatone/go-assemble/internal/commands"
	staticcmd "github.com/goliatone/go-assemble/internal/commands/static"
	"github.com/goliatone/go-assemble/internal/generator"
	"github.com/goliatone/go-assemble/internal/logging"
	"github.com/goliatone/go-assemble/pkg/interfaces"
)

type buildHandler interface {
	Execute(context.Context, staticcmd.BuildSiteCommand) error
}

type diffHandler interface {
	Execute(context.Context, staticcmd.DiffSiteCommand) error
}

type cleanHandler interface {
	Execute(context.Context, staticcmd.CleanSiteCommand) error
}

type handlerSet struct {
	build buildHandler
	diff  diffHandler
	clean cleanHandler
}

type moduleOptions = bootstrap.Options

type moduleResources struct {
	handlers handlerSet
	logger   interfaces.Logger
}

var moduleBuilder = func(opts moduleOptions) (*moduleResources, error) {
	module, err := bootstrap.BuildModule(opts)
	if err != nil {
		return nil, err
	}
	return &moduleResources{
		handlers: handlerSet{
			build: module.Handlers.Build,
			diff:  module.Handlers.Diff,
			clean: module.Handlers.Clean,
		},
		logger: module.Logger,
	}, nil
}

func main() {
	if err := run(os.Args[1:]); err != nil {
		printFailure(os.Stderr, err)
		os.Exit(1)
	}
}

func run(args []string) error {
	root := newRootCommand()
	root.SetArgs(args)
	return root.Execute()
}

type cliFlags struct {
	configPath  string
	root        string
	dist        string
	dump        string
	pretty      bool
	clean       bool
	logProvider string
	logLevel    string
	logFormat   string
}

func (f *cliFlags) options(cmd *cobra.Command) moduleOptions {
	opts := moduleOptions{
		ConfigPath:  f.configPath,
		Root:        f.root,
		Dist:        f.dist,
		Dump:        f.dump,
		LogProvider: f.logProvider,
		LogLevel:    f.logLevel,
		LogFormat:   f.logFormat,
	}
	if cmd.Flags().Changed("pretty") {
		pretty := f.pretty
		opts.Pretty = &pretty
	}
	if cmd.Flags().Changed("clean") {
		clean := f.clean
		opts.Clean = &clean
	}
	return opts
}

func newRootCommand() *cobra.Command {
	flags := &cliFlags{}
	root := &cobra.Command{
		Use:           "assemble",
		Short:         "Assemble a static pattern library from partials, guide pages and layouts",
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return errors.New("missing subcommand (build, diff, clean, inspect)")
		},
	}

	persistent := root.PersistentFlags()
	persistent.StringVarP(&flags.configPath, "config", "c", "", "Path to the config file (defaults to ./assemble.yaml when present)")
	persistent.StringVar(&flags.root, "root", "", "Project root; overrides the config file")
	persistent.StringVar(&flags.dist, "dist", "", "Output directory relative to root")
	persistent.StringVar(&flags.dump, "dump", "", "Write the build state as JSON to this file inside dist")
	persistent.BoolVar(&flags.pretty, "pretty", false, "Pretty print generated HTML")
	persistent.BoolVar(&flags.clean, "clean", false, "Remove dist before building")
	persistent.StringVar(&flags.logProvider, "log-provider", "", "Logger provider (console or gologger)")
	persistent.StringVar(&flags.logLevel, "log-level", "", "Minimum log level")
	persistent.StringVar(&flags.logFormat, "log-format", "", "go-logger output format (json, console, pretty)")

	root.AddCommand(
		newBuildCommand(flags),
		newDiffCommand(flags),
		newCleanCommand(flags),
		newInspectCommand(),
	)
	return root
}

func newBuildCommand(flags *cliFlags) *cobra.Command {
	var (
		sections []string
		dryRun   bool
	)
	cmd := &cobra.Command{
		Use:   "build",
		Short: "Render every selected section into dist",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			module, err := moduleBuilder(flags.options(cmd))
			if err != nil {
				return err
			}
			if module.handlers.build == nil {
				return errors.New("build handler not configured")
			}
			msg := staticcmd.BuildSiteCommand{
				Sections:       bootstrap.SplitSections(sections),
				DryRun:         dryRun,
				ResultCallback: module.logEnvelope,
			}
			return module.handlers.build.Execute(cmd.Context(), msg)
		},
	}
	cmd.Flags().StringSliceVarP(&sections, "section", "s", nil, "Limit output to sections (partials, guide, pages, index)")
	cmd.Flags().BoolVar(&dryRun, "dry-run", false, "Render without writing files")
	return cmd
}

func newDiffCommand(flags *cliFlags) *cobra.Command {
	var sections []string
	cmd := &cobra.Command{
		Use:   "diff",
		Short: "Render without writing and report what would change",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			module, err := moduleBuilder(flags.options(cmd))
			if err != nil {
				return err
			}
			if module.handlers.diff == nil {
				return errors.New("diff handler not configured")
			}
			msg := staticcmd.DiffSiteCommand{
				Sections:       bootstrap.SplitSections(sections),
				ResultCallback: module.logEnvelope,
			}
			return module.handlers.diff.Execute(cmd.Context(), msg)
		},
	}
	cmd.Flags().StringSliceVarP(&sections, "section", "s", nil, "Limit output to sections (partials, guide, pages, index)")
	return cmd
}

func newCleanCommand(flags *cliFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "clean",
		Short: "Remove the output directory",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			module, err := moduleBuilder(flags.options(cmd))
			if err != nil {
				return err
			}
			if module.handlers.clean == nil {
				return errors.New("clean handler not configured")
			}
			if err := module.handlers.clean.Execute(cmd.Context(), staticcmd.CleanSiteCommand{}); err != nil {
				return err
			}
			module.log().Info("assemble.clean", "operation", "clean")
			return nil
		},
	}
}

func newInspectCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "inspect <dump.json> <jsonpath>",
		Short: "Query a build dump with a JSONPath expression",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return inspectDump(cmd.OutOrStdout(), args[0], args[1])
		},
	}
}

func inspectDump(w io.Writer, path, expr string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read dump: %w", err)
	}
	doc, err := oj.ParseString(string(data))
	if err != nil {
		return fmt.Errorf("parse dump %s: %w", path, err)
	}
	query, err := jp.ParseString(expr)
	if err != nil {
		return fmt.Errorf("parse jsonpath %q: %w", expr, err)
	}
	for _, value := range query.Get(doc) {
		fmt.Fprintln(w, oj.JSON(value, &ojg.Options{Indent: 2, Sort: true}))
	}
	return nil
}

func (m *moduleResources) log() interfaces.Logger {
	if m.logger == nil {
		return logging.NoOp()
	}
	return m.logger
}

// logEnvelope reports a finished build or diff on the CLI logger. Dry runs
// also list every output that would have been written.
func (m *moduleResources) logEnvelope(env staticcmd.ResultEnvelope) {
	logger := m.log()
	operation, _ := env.Metadata["operation"].(string)
	if operation == "" {
		operation = "build"
	}
	result := env.Result
	if result == nil {
		logger.Info("assemble.summary", "operation", operation)
		return
	}
	logger.Info("assemble.summary",
		"operation", operation,
		"pages", result.PagesBuilt,
		"partials", result.Partials,
		"layouts", result.Layouts,
		"sections", strings.Join(result.Sections, ","),
		"dry_run", result.DryRun,
		"duration", result.Duration.String(),
	)
	if result.DumpPath != "" {
		logger.Info("assemble.dump", "operation", operation, "path", result.DumpPath)
	}
	if result.DryRun {
		for _, page := range result.Rendered {
			logger.Info("assemble.would_write", "operation", operation, "output", page.Output, "checksum", shortChecksum(page))
		}
	}
}

func shortChecksum(page generator.RenderedPage) string {
	if len(page.Checksum) > 12 {
		return page.Checksum[:12]
	}
	return page.Checksum
}

func printFailure(w io.Writer, err error) {
	report := commands.Describe(err)
	fmt.Fprintf(w, "%s: %s\n", report.Name, report.Message)
	if report.Reason != "" {
		fmt.Fprintf(w, "reason: %s\n", report.Reason)
	}
	if report.Code != "" {
		fmt.Fprintf(w, "code: %s\n", report.Code)
	}
	if report.Stack != "" {
		fmt.Fprintf(w, "stack:\n%s", report.Stack)
	}
}
