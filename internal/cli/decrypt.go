package cli

import (
	"github.com/spf13/cobra"

	"github.com/statmix/paillier/internal/keyfile"
	"github.com/statmix/paillier/pkg/paillier"
)

var decryptKey string

func init() {
	decryptCmd.Flags().StringVarP(&decryptKey, "key", "k", "paillier.key", "path of the secret key file")
}

var decryptCmd = &cobra.Command{
	Use:   "decrypt <ciphertext-file>",
	Short: "Decrypt a ciphertext and print the plaintext",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		Logger.Infof("Starting decrypt command")

		sk, err := loadSecretKey(decryptKey)
		if err != nil {
			return Logger.ErrorfAndReturn("Failed to load secret key: %v", err)
		}
		cs, err := paillier.FromSecretKey(nil, sk)
		if err != nil {
			return Logger.ErrorfAndReturn("Failed to initialize cryptosystem: %v", err)
		}

		ct, err := keyfile.ReadCiphertext(args[0], cs.PublicKey())
		if err != nil {
			return Logger.ErrorfAndReturn("Failed to read ciphertext: %v", err)
		}
		m, err := cs.Decrypt(ct)
		if err != nil {
			return Logger.ErrorfAndReturn("Failed to decrypt: %v", err)
		}

		cmd.Println(formatInt(m))
		return nil
	},
}
