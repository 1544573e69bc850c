package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/goliatone/go-formview/pkg/config"
	"github.com/goliatone/go-formview/pkg/imaging"
	"github.com/goliatone/go-formview/pkg/pages"
	"github.com/goliatone/go-formview/pkg/snapshot"
	"github.com/goliatone/go-formview/pkg/toolkit"
	"github.com/goliatone/go-formview/pkg/toolkit/headless"
	"github.com/goliatone/go-formview/pkg/toolkit/prompt"
	"github.com/goliatone/go-formview/pkg/window"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	if err := newRootCmd().ExecuteContext(ctx); err != nil {
		os.Exit(1)
	}
}

type options struct {
	configPath string
	pagesDir   string
	toolkit    string
	format     string
	output     string
}

func newRootCmd() *cobra.Command {
	opts := &options{}
	root := &cobra.Command{
		Use:           "formview",
		Short:         "Build windows from markup pages",
		SilenceUsage:  true,
		SilenceErrors: false,
	}
	root.PersistentFlags().StringVar(&opts.configPath, "config", "", "settings file (default "+config.DefaultFile+" when present)")
	root.PersistentFlags().StringVar(&opts.pagesDir, "pages", "", "pages directory (overrides the settings file)")

	run := &cobra.Command{
		Use:   "run [page]",
		Short: "Open a page and run the event loop",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runPage(cmd, opts, args)
		},
	}
	run.Flags().StringVar(&opts.toolkit, "toolkit", "", "toolkit to draw with ("+headless.Name+"|"+prompt.Name+")")

	dump := &cobra.Command{
		Use:   "dump <page>",
		Short: "Build a page headlessly and write its widget tree",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return dumpPage(cmd, opts, args[0])
		},
	}
	dump.Flags().StringVar(&opts.format, "format", string(snapshot.FormatHTML), "output format (html|json|yaml)")
	dump.Flags().StringVarP(&opts.output, "output", "o", "", "output file (stdout if empty)")

	check := &cobra.Command{
		Use:   "check <page>",
		Short: "Build a page headlessly and list its fields, frames and buttons",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return checkPage(cmd, opts, args[0])
		},
	}

	root.AddCommand(run, dump, check)
	return root
}

type env struct {
	cfg    config.Config
	logger *zap.Logger
}

func setup(opts *options) (*env, error) {
	var (
		cfg config.Config
		err error
	)
	if opts.configPath != "" {
		cfg, err = config.Load(opts.configPath)
	} else {
		cfg, err = config.LoadOptional(config.DefaultFile)
	}
	if err != nil {
		return nil, err
	}
	if opts.pagesDir != "" {
		cfg.PagesDir = opts.pagesDir
	}
	if opts.toolkit != "" {
		cfg.Toolkit = opts.toolkit
	}
	logger, err := cfg.Logger()
	if err != nil {
		return nil, err
	}
	return &env{cfg: cfg, logger: logger}, nil
}

func (e *env) registry() *toolkit.Registry {
	reg := toolkit.NewRegistry()
	reg.MustRegister(headless.Name, headless.Factory)
	reg.MustRegister(prompt.Name, func() (toolkit.Toolkit, error) {
		return prompt.New(prompt.WithLogger(e.logger.Named("prompt"))), nil
	})
	return reg
}

func (e *env) app(tk toolkit.Toolkit) *window.App {
	return window.New(tk,
		window.WithPages(pages.New(e.cfg.PagesDir)),
		window.WithImages(imaging.New()),
		window.WithLogger(e.logger),
		window.WithImageSizes(e.cfg.Images.IconSize, e.cfg.Images.PictureSize),
	)
}

func runPage(cmd *cobra.Command, opts *options, args []string) error {
	e, err := setup(opts)
	if err != nil {
		return err
	}
	defer func() { _ = e.logger.Sync() }()

	tk, err := e.registry().New(e.cfg.Toolkit)
	if err != nil {
		return err
	}
	page := e.cfg.MainPath()
	if len(args) == 1 {
		page = args[0]
	}
	ctx := cmd.Context()
	app := e.app(tk)
	if _, err := app.MainPath(ctx, page, window.Definition{}); err != nil {
		return err
	}
	e.logger.Info("running", zap.String("page", page), zap.String("toolkit", tk.Name()))
	err = app.Run(ctx)
	if ctx.Err() != nil {
		return nil
	}
	return err
}

func buildHeadless(cmd *cobra.Command, e *env, page string) (*window.Window, error) {
	tk := headless.New()
	return e.app(tk).MainPath(cmd.Context(), page, window.Definition{})
}

func dumpPage(cmd *cobra.Command, opts *options, page string) error {
	format, err := snapshot.ParseFormat(opts.format)
	if err != nil {
		return err
	}
	e, err := setup(opts)
	if err != nil {
		return err
	}
	defer func() { _ = e.logger.Sync() }()

	w, err := buildHeadless(cmd, e, page)
	if err != nil {
		return err
	}
	renderer, err := snapshot.New()
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	if opts.output != "" {
		f, err := os.Create(opts.output)
		if err != nil {
			return fmt.Errorf("dump: create %s: %w", opts.output, err)
		}
		defer f.Close()
		out = f
	}
	return renderer.Write(out, snapshot.Capture(w.Surface().(*headless.Surface)), format)
}

func checkPage(cmd *cobra.Command, opts *options, page string) error {
	e, err := setup(opts)
	if err != nil {
		return err
	}
	defer func() { _ = e.logger.Sync() }()

	w, err := buildHeadless(cmd, e, page)
	if err != nil {
		return err
	}
	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "page %s: ok\n", page)
	for _, field := range w.Form().Fields() {
		fmt.Fprintf(out, "field %-20s %s\n", field.Name, field.Kind)
	}
	for _, id := range w.FrameIDs() {
		fmt.Fprintf(out, "frame %s\n", id)
	}
	fmt.Fprintf(out, "buttons %d\n", w.ButtonCount())
	return nil
}
