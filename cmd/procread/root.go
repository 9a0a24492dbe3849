package main

import (
	"io"

	"github.com/Moonlight-Companies/gologger/coloransi"
	"github.com/Moonlight-Companies/gologger/logger"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"procread/config"
	"procread/procfs"
)

type options struct {
	configFile string
	root       string
	output     string
	unescape   bool
	color      bool
	verbose    bool
}

// app carries the state shared by every subcommand once the root command has
// resolved the configuration.
type app struct {
	opts options
	cfg  *config.Config
	fs   *procfs.FS
	log  *logger.Logger
	out  io.Writer
}

func bindFlags(flags *pflag.FlagSet, o *options) {
	flags.StringVarP(&o.configFile, "config", "c", "", "config file path")
	flags.StringVar(&o.root, "root", "", "procfs mount point (default /proc)")
	flags.StringVarP(&o.output, "output", "o", "", "output format (table, yaml, json)")
	flags.BoolVar(&o.unescape, "unescape", false, "decode \\ooo octal escapes in paths")
	flags.BoolVar(&o.color, "color", false, "colour table headers")
	flags.BoolVarP(&o.verbose, "verbose", "v", false, "log the resolved configuration")
}

// applyFlags lets explicitly set flags win over files and the environment.
func applyFlags(flags *pflag.FlagSet, o *options, cfg *config.Config) error {
	if flags.Changed("root") {
		cfg.Root = o.root
	}
	if flags.Changed("output") {
		cfg.Output.Format = o.output
	}
	if flags.Changed("unescape") {
		cfg.Paths.Unescape = o.unescape
	}
	if flags.Changed("color") {
		cfg.Output.Color = o.color
	}
	return cfg.Validate()
}

func newRootCommand(out io.Writer) *cobra.Command {
	a := &app{
		out: out,
		log: logger.NewLogger(coloransi.Color(coloransi.ColorPurple, coloransi.ColorOrange, "procread")),
	}

	rootCmd := &cobra.Command{
		Use:   "procread",
		Short: "Decode Linux procfs files",
		Long: `procread reads files under a procfs mount and decodes them into typed records.

Malformed input exits with status 2 and unreadable sources with status 3.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return a.setup(cmd.Flags())
		},
	}

	bindFlags(rootCmd.PersistentFlags(), &a.opts)

	rootCmd.AddCommand(a.processCommands()...)
	rootCmd.AddCommand(a.systemCommands()...)
	rootCmd.AddCommand(a.netCommand())
	rootCmd.AddCommand(a.kernelCommand())
	return rootCmd
}

func (a *app) setup(flags *pflag.FlagSet) error {
	cfg, err := config.NewLoader().LoadConfig(a.opts.configFile)
	if err != nil {
		return err
	}
	if err := applyFlags(flags, &a.opts, cfg); err != nil {
		return err
	}
	a.cfg = cfg

	if a.opts.verbose {
		a.log.Infoln("root", cfg.Root, "output", cfg.Output.Format, "unescape", cfg.Paths.Unescape)
	}

	fs, err := procfs.NewFS(cfg.Root, procfs.WithLogger(a.log), procfs.WithUnescapedPaths(cfg.Paths.Unescape))
	if err != nil {
		return err
	}
	a.fs = fs
	return nil
}
