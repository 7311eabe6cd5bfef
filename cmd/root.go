// Package cmd wires the command line to the site builder.
package cmd

import (
	"os"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"adventune/skrivsite/config"
)

var (
	cfgFile   string
	debug     bool
	appConfig config.Config
)

var rootCmd = &cobra.Command{
	Use:   "skrivsite",
	Short: "Build a static site from markdown and HTML content",
	Long: `skrivsite reads content files with <!-- key: value --> headers, renders
markdown to HTML, fills {{ placeholders }} in the layouts and writes pages,
blog listings and RSS feeds to the output directory.`,
	SilenceErrors: true,
	SilenceUsage:  true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		setupLogging()
		return initializeConfig(cmd)
	},
}

// Execute runs the command line and logs a failure.
func Execute() error {
	err := rootCmd.Execute()
	if err != nil {
		log.Error().Err(err).Msg("Command failed")
	}
	return err
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is ./skrivsite.yaml)")
	rootCmd.PersistentFlags().String("target", "", "deployment target: local, staging or production")
	rootCmd.PersistentFlags().BoolVar(&debug, "debug", false, "Sets log level to debug")
}

func setupLogging() {
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.Kitchen})

	zerolog.SetGlobalLevel(zerolog.InfoLevel)
	if debug {
		zerolog.SetGlobalLevel(zerolog.DebugLevel)
	}
	log.Debug().Msg("Debug logging has been enabled")
}

func initializeConfig(cmd *cobra.Command) error {
	v, err := config.NewViper(cfgFile)
	if err != nil {
		return err
	}

	if flagChanged(cmd.Flags(), "target") {
		if err := v.BindPFlag("target", cmd.Flags().Lookup("target")); err != nil {
			return err
		}
	}

	appConfig, err = config.FromViper(v)
	if err != nil {
		return err
	}

	if used := v.ConfigFileUsed(); used != "" {
		log.Debug().Str("path", used).Msg("Using config file")
	}
	return nil
}

func flagChanged(fs *pflag.FlagSet, name string) bool {
	f := fs.Lookup(name)
	return f != nil && f.Changed
}
