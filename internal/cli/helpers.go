package cli

import (
	"fmt"
	"io"
	"log"
	"math/big"
	"os"
	"strings"
	"time"

	"github.com/briandowns/spinner"
	"github.com/cronokirby/saferith"
	"golang.org/x/term"

	"github.com/statmix/paillier/internal/keyfile"
	"github.com/statmix/paillier/pkg/paillier"
)

// startSpinner creates and starts a spinner with the given message when not
// in verbose or debug mode. Returns the spinner and a function that should
// be deferred to clean up. FinalMSG values do not need a trailing newline;
// the cleanup function adds one.
func startSpinner(message string) (*spinner.Spinner, func()) {
	s := spinner.New(spinner.CharSets[14], 100*time.Millisecond)
	s.Suffix = " " + message

	if err := s.Color("cyan"); err != nil {
		Logger.Warnf("Failed to set spinner color: %v", err)
	}

	if !verbose && !debug {
		s.Start()
		log.SetOutput(io.Discard)
	}

	cleanup := func() {
		if !verbose && !debug {
			log.SetOutput(os.Stdout)
		}
		finalMsg := s.FinalMSG
		s.FinalMSG = ""
		if !verbose && !debug {
			s.Stop()
		}
		if finalMsg != "" {
			fmt.Print(ensureNewline(finalMsg))
		}
	}
	return s, cleanup
}

func ensureNewline(s string) string {
	if len(s) == 0 || s[len(s)-1] != '\n' {
		return s + "\n"
	}
	return s
}

// readPassphrase prompts the user for a passphrase without echoing input.
// Returns an error if stdin is not a terminal.
func readPassphrase(prompt string) ([]byte, error) {
	fd := int(os.Stdin.Fd())
	if !term.IsTerminal(fd) {
		return nil, fmt.Errorf("cannot read passphrase: stdin is not a terminal")
	}
	fmt.Fprint(os.Stderr, prompt)
	passphrase, err := term.ReadPassword(fd)
	fmt.Fprintln(os.Stderr)
	if err != nil {
		return nil, fmt.Errorf("failed to read passphrase: %w", err)
	}
	return passphrase, nil
}

// loadSecretKey loads the key at path, prompting for a passphrase when the
// file is sealed under one.
func loadSecretKey(path string) (*paillier.SecretKey, error) {
	sk, err := keyfile.LoadSecretKey(path, nil)
	if err == nil || !strings.Contains(err.Error(), "passphrase is required") {
		return sk, err
	}
	passphrase, err := readPassphrase("Enter passphrase for " + path + ": ")
	if err != nil {
		return nil, err
	}
	return keyfile.LoadSecretKey(path, passphrase)
}

// parseInt parses a possibly negative decimal integer.
func parseInt(s string) (*saferith.Int, error) {
	b, ok := new(big.Int).SetString(s, 10)
	if !ok {
		return nil, fmt.Errorf("invalid integer %q", s)
	}
	return new(saferith.Int).SetBig(b, b.BitLen()), nil
}

// formatInt renders a signed value as decimal.
func formatInt(m *saferith.Int) string {
	out := m.Abs().Big()
	if m.IsNegative() == 1 {
		out.Neg(out)
	}
	return out.String()
}
