package cmd

import (
	"fmt"
	"strings"

	"audiodev/internal/audio"
	"audiodev/internal/config"
	"audiodev/internal/render"
	"audiodev/pkg/build"

	"github.com/spf13/cobra"
)

// Commands understood by main.
const (
	CommandInputs  = "inputs"
	CommandOutputs = "outputs"
	CommandList    = "list"
	CommandBrowse  = "browse"
)

// ParseArgs parses the command line into a validated configuration. The
// config file named by --config (or the default one) is loaded first and
// flags given explicitly override it. A nil error with an empty Command
// means cobra already handled the invocation (help, version).
func ParseArgs(args []string) (*config.Config, error) {
	buildInfo := build.GetBuildFlags()

	var (
		options    *config.Config
		configPath  string
		verbose     bool
		deviceIndex string
		defaultOnly bool
		flagValues  = config.NewConfig()
	)

	// command returns a Run func selecting name as the command to execute.
	command := func(name string) func(*cobra.Command, []string) {
		return func(cmd *cobra.Command, args []string) {
			options.Command = name
			options.DeviceIndex = deviceIndex
			options.DefaultOnly = defaultOnly
		}
	}

	// withSelection adds the flags picking one device out of a listing.
	withSelection := func(c *cobra.Command) *cobra.Command {
		c.Flags().StringVarP(&deviceIndex, "index", "i", "",
			"Only show the device with this index")
		c.Flags().BoolVarP(&defaultOnly, "default", "d", false,
			"Only show the default device")
		c.MarkFlagsMutuallyExclusive("index", "default")
		return c
	}

	rootCmd := &cobra.Command{
		Use:           buildInfo.Name,
		Short:         buildInfo.Description,
		Version:       buildInfo.Version,
		Args:          cobra.NoArgs,
		SilenceErrors: true,
		SilenceUsage:  true,
		CompletionOptions: cobra.CompletionOptions{
			DisableDefaultCmd:   true,
			DisableDescriptions: true,
			DisableNoDescFlag:   true,
			HiddenDefaultCmd:    true,
		},
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.LoadConfig(configPath)
			if err != nil {
				return err
			}

			flags := cmd.Flags()
			if flags.Changed("backend") {
				cfg.Audio.Backend = flagValues.Audio.Backend
			}
			if flags.Changed("format") {
				cfg.Output.Format = flagValues.Output.Format
			}
			if flags.Changed("log-level") {
				cfg.LogLevel = flagValues.LogLevel
			}
			if flags.Changed("log-file") {
				cfg.LogFile = flagValues.LogFile
			}
			if verbose {
				cfg.LogLevel = "debug"
			}

			if err := cfg.Validate(); err != nil {
				return err
			}
			options = cfg
			return nil
		},
		// Without a subcommand both listings are printed.
		Run: command(CommandList),
	}

	// Display help message
	rootCmd.SetHelpCommand(&cobra.Command{Hidden: true})

	rootCmd.AddCommand(
		withSelection(&cobra.Command{
			Use:   CommandInputs,
			Short: "List usable audio input devices",
			Args:  cobra.NoArgs,
			Run:   command(CommandInputs),
		}),
		withSelection(&cobra.Command{
			Use:   CommandOutputs,
			Short: "List audio output devices",
			Args:  cobra.NoArgs,
			Run:   command(CommandOutputs),
		}),
		&cobra.Command{
			Use:   CommandList,
			Short: "List input and output devices",
			Args:  cobra.NoArgs,
			Run:   command(CommandList),
		},
		&cobra.Command{
			Use:   CommandBrowse,
			Short: "Browse audio devices interactively",
			Args:  cobra.NoArgs,
			Run:   command(CommandBrowse),
		},
	)

	pf := rootCmd.PersistentFlags()
	pf.StringVarP(&configPath, "config", "c", "",
		fmt.Sprintf("Configuration file (default ./%s when present)", config.DefaultConfigFile))
	pf.StringVarP(&flagValues.Audio.Backend, "backend", "b", config.DefaultBackend,
		"Audio backend: "+strings.Join(audio.Backends(), ", "))
	pf.StringVarP(&flagValues.Output.Format, "format", "f", config.DefaultFormat,
		"Output format: "+strings.Join(render.Formats, ", "))

	// Debug Configuration
	pf.StringVarP(&flagValues.LogLevel, "log-level", "l", config.DefaultLogLevel,
		"Log level: trace, debug, info, warn, error, critical, off")
	pf.StringVar(&flagValues.LogFile, "log-file", config.DefaultLogFile,
		"Also write logs to this file, rotating it as it grows")
	pf.BoolVarP(&verbose, "verbose", "v", false,
		"Show verbose output (same as --log-level debug)")

	// Execute the CLI
	rootCmd.SetArgs(args)
	if err := rootCmd.Execute(); err != nil {
		return nil, err
	}

	if options == nil {
		return config.NewConfig(), nil
	}
	return options, nil
}
