package cli

import (
	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/statmix/paillier/internal/keyfile"
	"github.com/statmix/paillier/pkg/paillier"
)

var (
	mulKey string
	mulOut string
)

func init() {
	mulCmd.Flags().StringVarP(&mulKey, "key", "k", "paillier.key.pub", "path of the public key file")
	mulCmd.Flags().StringVarP(&mulOut, "out", "o", "product.ct", "path of the resulting ciphertext file")
}

var mulCmd = &cobra.Command{
	Use:   "mul <ciphertext-file> <integer>",
	Short: "Multiply an encrypted value by a plain integer",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		Logger.Infof("Starting mul command")

		pk, err := keyfile.LoadPublicKey(mulKey)
		if err != nil {
			return Logger.ErrorfAndReturn("Failed to load public key: %v", err)
		}
		cs, err := paillier.FromPublicKey(nil, pk)
		if err != nil {
			return Logger.ErrorfAndReturn("Failed to initialize cryptosystem: %v", err)
		}

		ct, err := keyfile.ReadCiphertext(args[0], pk)
		if err != nil {
			return Logger.ErrorfAndReturn("Failed to read ciphertext: %v", err)
		}
		k, err := parseInt(args[1])
		if err != nil {
			return Logger.ErrorfAndReturn("Failed to parse scalar: %v", err)
		}

		product, err := cs.Mul(ct, k)
		if err != nil {
			return Logger.ErrorfAndReturn("Failed to multiply: %v", err)
		}
		if err := keyfile.WriteCiphertext(mulOut, pk, product); err != nil {
			return Logger.ErrorfAndReturn("Failed to write ciphertext: %v", err)
		}

		cmd.Println(color.GreenString("✓") + " wrote " + color.YellowString(mulOut))
		return nil
	},
}
