package cli

import (
	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/statmix/paillier/internal/keyfile"
	"github.com/statmix/paillier/pkg/paillier"
)

var (
	encryptKey string
	encryptOut string
)

func init() {
	encryptCmd.Flags().StringVarP(&encryptKey, "key", "k", "paillier.key.pub", "path of the public key file")
	encryptCmd.Flags().StringVarP(&encryptOut, "out", "o", "value.ct", "path of the ciphertext file")
}

var encryptCmd = &cobra.Command{
	Use:   "encrypt <integer>",
	Short: "Encrypt a signed integer under a public key",
	Long: `Encrypts an integer so that it can be added to other encrypted values
and multiplied by plain ones. Negative values need a -- so they are not
read as flags:
  paillier encrypt --key paillier.key.pub -- -42`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		Logger.Infof("Starting encrypt command")

		m, err := parseInt(args[0])
		if err != nil {
			return Logger.ErrorfAndReturn("Failed to parse message: %v", err)
		}
		pk, err := keyfile.LoadPublicKey(encryptKey)
		if err != nil {
			return Logger.ErrorfAndReturn("Failed to load public key: %v", err)
		}
		cs, err := paillier.FromPublicKey(nil, pk)
		if err != nil {
			return Logger.ErrorfAndReturn("Failed to initialize cryptosystem: %v", err)
		}

		ct, err := cs.Encrypt(m)
		if err != nil {
			return Logger.ErrorfAndReturn("Failed to encrypt: %v", err)
		}
		if err := keyfile.WriteCiphertext(encryptOut, pk, ct); err != nil {
			return Logger.ErrorfAndReturn("Failed to write ciphertext: %v", err)
		}

		Logger.Infof("Encrypted %s under key %x", args[0], pk.Fingerprint())
		cmd.Println(color.GreenString("✓") + " wrote " + color.YellowString(encryptOut))
		return nil
	},
}
