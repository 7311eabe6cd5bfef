package cmd

import (
	"github.com/spf13/cobra"

	"adventune/skrivsite/builder"
)

var buildCmd = &cobra.Command{
	Use:   "build",
	Short: "Build the site into the output directory",
	Long: `The build command removes the output directory, copies static files into it
and renders every page, post, listing and feed from scratch.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		b, err := builder.New(appConfig)
		if err != nil {
			return err
		}
		return b.Build()
	},
}

func init() {
	rootCmd.AddCommand(buildCmd)
}
