// Package cli implements the paillier command line tool.
package cli

import (
	"github.com/spf13/cobra"

	logger "github.com/statmix/paillier/internal/logging"
)

// Version is the version string reported by the version command.
const Version = "0.1.0"

var (
	verbose bool
	debug   bool
	Logger  logger.Logger

	rootCmd = &cobra.Command{
		Use:   "paillier",
		Short: "Additively homomorphic encryption for signed integers",
		Long: `Paillier encrypts signed integers so that anyone holding the public key
can add encrypted values and multiply them by plain integers, while only
the holder of the secret key can decrypt the result.

Typical flow:
  paillier keygen --bits 2048 --out paillier.key
  paillier encrypt 5 --key paillier.key.pub --out five.ct
  paillier encrypt 7 --key paillier.key.pub --out seven.ct
  paillier add five.ct seven.ct --key paillier.key.pub --out sum.ct
  paillier decrypt sum.ct --key paillier.key

Run 'paillier help <command>' for more details on a specific command.`,
		// Errors are reported through Logger already.
		SilenceErrors: true,
		SilenceUsage:  true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			Logger = logger.Logger{Verbose: verbose, Debug: debug}
			Logger.Debugf("verbose=%t, debug=%t", verbose, debug)
		},
	}
)

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable verbose output")
	rootCmd.PersistentFlags().BoolVarP(&debug, "debug", "d", false, "enable debug output")

	rootCmd.AddCommand(keygenCmd)
	rootCmd.AddCommand(encryptCmd)
	rootCmd.AddCommand(decryptCmd)
	rootCmd.AddCommand(addCmd)
	rootCmd.AddCommand(mulCmd)
	rootCmd.AddCommand(aggregateCmd)
	rootCmd.AddCommand(inspectCmd)
	rootCmd.AddCommand(versionCmd)
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}
