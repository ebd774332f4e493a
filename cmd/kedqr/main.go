// Command kedqr encrypts an ed25519 extended secret key under a 4-digit PIN and
// prints it as a QR code, for handing voting keys to Catalyst operators.
//
// Usage:
//
//	kedqr --input key.sk --pin 1234 --output key.svg
//	kedqr --input key.sk --pin 1234          # render in the terminal
package main

import (
	"cmp"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/AlexZinkM/kedqr/internal/config"
	"github.com/AlexZinkM/kedqr/internal/logger"
	"github.com/AlexZinkM/kedqr/internal/model"
	"github.com/AlexZinkM/kedqr/internal/pin"
	"github.com/AlexZinkM/kedqr/qr"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var (
	// version holds the build version set via ldflags.
	version string
	// buildDate holds the build timestamp set via ldflags.
	buildDate string
)

// promptPIN reads the PIN interactively; replaced in tests
var promptPIN = config.PromptForPIN

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	code := run(ctx, os.Args[1:], os.Stdout, os.Stderr)
	stop()
	os.Exit(code)
}

// run executes the command line and returns the process exit status.
// Canceling ctx stops the pipeline before the next stage.
func run(ctx context.Context, args []string, stdout, stderr io.Writer) int {
	cmd := newRootCmd(stdout, stderr)
	cmd.SetArgs(args)

	if err := cmd.ExecuteContext(ctx); err != nil {
		report(stderr, err)
		return 1
	}
	return 0
}

func newRootCmd(stdout, stderr io.Writer) *cobra.Command {
	var (
		inputPath  string
		outputPath string
		pinRaw     string
	)

	cmd := &cobra.Command{
		Use:   "kedqr",
		Short: "Encode a PIN-protected ed25519 extended secret key as a QR code",
		Long: `Encrypt a bech32 ed25519e_sk secret key under a 4-digit PIN and encode the
result as a QR code for the Catalyst voting app.

The key is read from the first line of --input. The QR code is written to
--output as SVG (or PNG for a .png path); without --output it is printed
to the terminal. Without --pin the PIN is prompted for.`,
		Example: `  kedqr --input operator.sk --pin 1234 --output operator.svg
  kedqr --input operator.sk --output operator.png
  kedqr --input operator.sk --pin 1234`,
		Version:       fmt.Sprintf("%s (built %s)", cmp.Or(version, "N/A"), cmp.Or(buildDate, "N/A")),
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if !cmd.Flags().Changed("pin") {
				raw, err := promptPIN()
				if err != nil {
					return err
				}
				pinRaw = raw
			}
			p, err := pin.Parse(pinRaw)
			if err != nil {
				return err
			}

			if err := config.Init(); err != nil {
				return err
			}
			log, err := logger.NewWithWriter(config.GetLogLevel(), config.GetLogFormat(), stderr)
			if err != nil {
				return err
			}
			defer func() { _ = log.Sync() }()

			res, err := qr.Run(cmd.Context(), &model.RunRequest{
				InputPath:  inputPath,
				OutputPath: outputPath,
				PIN:        p.Digits(),
				Stdout:     stdout,
				Render: model.RenderOptions{
					ModuleSize:     config.GetModuleSize(),
					InvertTerminal: config.GetInvertTerminal(),
				},
			}, log)
			if err != nil {
				return err
			}

			log.Info("qr code generated",
				zap.String("destination", res.Destination),
				zap.String("output", res.OutputPath),
				zap.String("format", res.Format),
				zap.String("public_key", res.PublicKey),
				zap.Int("qr_version", res.QRVersion),
			)
			return nil
		},
	}

	cmd.SetOut(stdout)
	cmd.SetErr(stderr)

	cmd.Flags().StringVar(&inputPath, "input", "", "path to file containing ed25519extended bech32 value")
	cmd.Flags().StringVar(&outputPath, "output", "", "path to file to save qr code output, if not provided console output will be attempted")
	cmd.Flags().StringVar(&pinRaw, "pin", "", "Pin code. 4-digit number is used on Catalyst")
	_ = cmd.MarkFlagRequired("input")
	_ = cmd.MarkFlagFilename("input")
	_ = cmd.MarkFlagFilename("output", "svg", "png")

	defaultHelp := cmd.HelpFunc()
	cmd.SetHelpFunc(func(c *cobra.Command, args []string) {
		defaultHelp(c, args)
		fmt.Fprintln(c.OutOrStdout())
		_ = config.Usage(c.OutOrStdout())
	})

	return cmd
}

// report prints err followed by its chain of causes, one per line
func report(w io.Writer, err error) {
	fmt.Fprintln(w, err)
	for cause := errors.Unwrap(err); cause != nil; cause = errors.Unwrap(cause) {
		fmt.Fprintf(w, "  |-> %s\n", cause)
	}
}
