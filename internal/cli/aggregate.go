package cli

import (
	"fmt"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/statmix/paillier/internal/keyfile"
	"github.com/statmix/paillier/pkg/paillier"
)

var (
	aggregateKey string
	aggregateOut string
)

func init() {
	aggregateCmd.Flags().StringVarP(&aggregateKey, "key", "k", "paillier.key.pub", "path of the public key file")
	aggregateCmd.Flags().StringVarP(&aggregateOut, "out", "o", "total.ct", "path of the resulting ciphertext file")
}

var aggregateCmd = &cobra.Command{
	Use:   "aggregate <ciphertext-file>...",
	Short: "Sum any number of encrypted values without decrypting them",
	Long: `Reads every given ciphertext file and produces a single ciphertext
holding the sum of all the encrypted values, for example one encrypted
ballot per file folding into an encrypted tally.`,
	Args: cobra.MinimumNArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		Logger.Infof("Starting aggregate command with %d inputs", len(args))
		spinner, cleanup := startSpinner(fmt.Sprintf("Aggregating %d ciphertexts...", len(args)))
		defer cleanup()

		pk, err := keyfile.LoadPublicKey(aggregateKey)
		if err != nil {
			return Logger.ErrorfAndReturn("Failed to load public key: %v", err)
		}

		cts := make([]*paillier.Ciphertext, len(args))
		var g errgroup.Group
		for i, path := range args {
			i, path := i, path
			g.Go(func() error {
				ct, err := keyfile.ReadCiphertext(path, pk)
				if err != nil {
					return err
				}
				cts[i] = ct
				return nil
			})
		}
		if err := g.Wait(); err != nil {
			return Logger.ErrorfAndReturn("Failed to read ciphertexts: %v", err)
		}

		total := cts[0].Clone()
		for _, ct := range cts[1:] {
			total.Add(pk, ct)
		}
		if err := keyfile.WriteCiphertext(aggregateOut, pk, total); err != nil {
			return Logger.ErrorfAndReturn("Failed to write ciphertext: %v", err)
		}

		Logger.Infof("Aggregated %d ciphertexts into %s", len(args), aggregateOut)
		spinner.FinalMSG = color.GreenString("✓") + " aggregated " +
			color.YellowString(fmt.Sprintf("%d", len(args))) + " ciphertexts into " + color.YellowString(aggregateOut)
		return nil
	},
}
