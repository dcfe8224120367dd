package cli

import (
	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/statmix/paillier/internal/keyfile"
	"github.com/statmix/paillier/pkg/paillier"
)

var (
	addKey string
	addOut string
)

func init() {
	addCmd.Flags().StringVarP(&addKey, "key", "k", "paillier.key.pub", "path of the public key file")
	addCmd.Flags().StringVarP(&addOut, "out", "o", "sum.ct", "path of the resulting ciphertext file")
}

var addCmd = &cobra.Command{
	Use:   "add <ciphertext-file> <ciphertext-file>",
	Short: "Add two encrypted values without decrypting them",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		Logger.Infof("Starting add command")

		pk, err := keyfile.LoadPublicKey(addKey)
		if err != nil {
			return Logger.ErrorfAndReturn("Failed to load public key: %v", err)
		}
		cs, err := paillier.FromPublicKey(nil, pk)
		if err != nil {
			return Logger.ErrorfAndReturn("Failed to initialize cryptosystem: %v", err)
		}

		a, err := keyfile.ReadCiphertext(args[0], pk)
		if err != nil {
			return Logger.ErrorfAndReturn("Failed to read ciphertext: %v", err)
		}
		b, err := keyfile.ReadCiphertext(args[1], pk)
		if err != nil {
			return Logger.ErrorfAndReturn("Failed to read ciphertext: %v", err)
		}

		sum, err := cs.Add(a, b)
		if err != nil {
			return Logger.ErrorfAndReturn("Failed to add: %v", err)
		}
		if err := keyfile.WriteCiphertext(addOut, pk, sum); err != nil {
			return Logger.ErrorfAndReturn("Failed to write ciphertext: %v", err)
		}

		cmd.Println(color.GreenString("✓") + " wrote " + color.YellowString(addOut))
		return nil
	},
}
