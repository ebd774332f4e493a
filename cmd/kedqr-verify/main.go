// Command kedqr-verify checks that a scanned QR payload opens with a PIN.
// It prints the public key of the protected secret key, never the key itself.
//
// Usage:
//
//	kedqr-verify --payload-file scanned.txt --pin 1234 [--expect ed25519_pk1...]
package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/AlexZinkM/kedqr/internal/common"
	"github.com/AlexZinkM/kedqr/internal/pin"
	"github.com/AlexZinkM/kedqr/qr"

	"github.com/spf13/cobra"
)

// ErrPublicKeyMismatch is returned when --expect does not match the decrypted key
var ErrPublicKeyMismatch = errors.New("public key does not match --expect")

func main() {
	os.Exit(run(os.Args[1:], os.Stdout, os.Stderr))
}

func run(args []string, stdout, stderr io.Writer) int {
	cmd := newRootCmd(stdout)
	cmd.SetArgs(args)
	cmd.SetErr(stderr)

	if err := cmd.ExecuteContext(context.Background()); err != nil {
		fmt.Fprintln(stderr, err)
		for cause := errors.Unwrap(err); cause != nil; cause = errors.Unwrap(cause) {
			fmt.Fprintf(stderr, "  |-> %s\n", cause)
		}
		return 1
	}
	return 0
}

func newRootCmd(stdout io.Writer) *cobra.Command {
	var (
		payloadFile string
		pinRaw      string
		expect      string
	)

	cmd := &cobra.Command{
		Use:           "kedqr-verify",
		Short:         "Check that a scanned kedqr payload opens with a PIN",
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, _ []string) error {
			p, err := pin.Parse(pinRaw)
			if err != nil {
				return err
			}

			content, err := common.ReadFirstLine(payloadFile)
			if err != nil {
				return fmt.Errorf("failed to read payload file: %w", err)
			}

			sk, err := qr.Open(content, p.Digits())
			if err != nil {
				return fmt.Errorf("failed to open payload: %w", err)
			}
			defer sk.Zero()

			pk, err := sk.PublicKey()
			if err != nil {
				return err
			}
			publicKey, err := pk.Bech32()
			if err != nil {
				return err
			}

			if expect != "" && !strings.EqualFold(strings.TrimSpace(expect), publicKey) {
				return fmt.Errorf("%w: got %s", ErrPublicKeyMismatch, publicKey)
			}

			fmt.Fprintf(stdout, "ok %s\n", publicKey)
			return nil
		},
	}

	cmd.SetOut(stdout)
	cmd.Flags().StringVar(&payloadFile, "payload-file", "", "path to file holding the hex payload read from the QR code")
	cmd.Flags().StringVar(&pinRaw, "pin", "", "4-digit PIN the payload was encrypted with")
	cmd.Flags().StringVar(&expect, "expect", "", "ed25519_pk bech32 public key the payload must contain")
	_ = cmd.MarkFlagRequired("payload-file")
	_ = cmd.MarkFlagRequired("pin")

	return cmd
}
