package cli

import (
	"fmt"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/statmix/paillier/internal/keyfile"
	"github.com/statmix/paillier/internal/params"
	"github.com/statmix/paillier/pkg/paillier"
	"github.com/statmix/paillier/pkg/pool"
)

var (
	keygenBits       int
	keygenOut        string
	keygenPassphrase bool
)

func init() {
	keygenCmd.Flags().IntVarP(&keygenBits, "bits", "b", params.DefaultModulusBits, "bit size of the modulus")
	keygenCmd.Flags().StringVarP(&keygenOut, "out", "o", "paillier.key", "path of the secret key file")
	keygenCmd.Flags().BoolVarP(&keygenPassphrase, "passphrase", "p", false, "seal the secret key under a passphrase")
}

var keygenCmd = &cobra.Command{
	Use:   "keygen",
	Short: "Generate a new key pair",
	Long: `Generates a fresh Paillier key pair and writes the secret key to --out
and the public key next to it with a .pub suffix.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		Logger.Infof("Starting keygen command")

		var passphrase []byte
		if keygenPassphrase {
			var err error
			if passphrase, err = readPassphrase("Enter passphrase for new key: "); err != nil {
				return Logger.ErrorfAndReturn("Failed to read passphrase: %v", err)
			}
		}

		spinner, cleanup := startSpinner(fmt.Sprintf("Generating %d bit key pair...", keygenBits))
		defer cleanup()

		Logger.Debugf("Searching for a %d bit modulus", keygenBits)
		pl := pool.NewPool(0)
		defer pl.TearDown()

		cs, err := paillier.Generate(nil, pl, keygenBits)
		if err != nil {
			return Logger.ErrorfAndReturn("Failed to generate key pair: %v", err)
		}
		sk, _ := cs.SecretKey()

		Logger.Debugf("Writing secret key to %s", keygenOut)
		if err := keyfile.SaveSecretKey(keygenOut, sk, passphrase); err != nil {
			return Logger.ErrorfAndReturn("Failed to save secret key: %v", err)
		}
		publicOut := keygenOut + ".pub"
		Logger.Debugf("Writing public key to %s", publicOut)
		if err := keyfile.SavePublicKey(publicOut, cs.PublicKey()); err != nil {
			return Logger.ErrorfAndReturn("Failed to save public key: %v", err)
		}

		Logger.Infof("Keygen completed, fingerprint %x", cs.PublicKey().Fingerprint())
		spinner.FinalMSG = color.GreenString("✓") + " The following files were created:\n" +
			"    secret key: " + color.YellowString(keygenOut) + "\n" +
			"    public key: " + color.YellowString(publicOut) + "\n" +
			color.CyanString("→") + " Share the public key; anyone holding it can encrypt and add values"
		return nil
	},
}
