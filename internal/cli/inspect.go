package cli

import (
	"github.com/spf13/cobra"

	"github.com/statmix/paillier/internal/keyfile"
	"github.com/statmix/paillier/pkg/paillier"
)

var inspectCmd = &cobra.Command{
	Use:   "inspect <key-file>",
	Short: "Describe a key file",
	Long: `Prints the modulus, bit size and fingerprint of a public or secret key.
For a secret key the output includes the decryption parameters, so treat
it accordingly.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		Logger.Infof("Starting inspect command")

		if pk, err := keyfile.LoadPublicKey(args[0]); err == nil {
			cs, err := paillier.FromPublicKey(nil, pk)
			if err != nil {
				return Logger.ErrorfAndReturn("Failed to initialize cryptosystem: %v", err)
			}
			cmd.Println(cs.Describe())
			return nil
		}

		sk, err := loadSecretKey(args[0])
		if err != nil {
			return Logger.ErrorfAndReturn("Failed to load key: %v", err)
		}
		cs, err := paillier.FromSecretKey(nil, sk)
		if err != nil {
			return Logger.ErrorfAndReturn("Failed to initialize cryptosystem: %v", err)
		}
		cmd.Println(cs.Describe())
		return nil
	},
}
