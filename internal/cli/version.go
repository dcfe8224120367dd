package cli

import (
	"github.com/common-nighthawk/go-figure"
	"github.com/spf13/cobra"
)

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version information",
	Run: func(cmd *cobra.Command, args []string) {
		banner := figure.NewColorFigure("paillier", "", "cyan", true)
		banner.Print()
		cmd.Printf("paillier %s\n", Version)
	},
}
