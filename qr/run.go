// Package qr turns an ed25519 extended secret key and a PIN into a QR code
// for handing the key to an operator's Catalyst app.
package qr

import (
	"context"
	"errors"
	"io"
	"os"

	"github.com/AlexZinkM/kedqr/internal/common"
	"github.com/AlexZinkM/kedqr/internal/key"
	"github.com/AlexZinkM/kedqr/internal/model"

	"go.uber.org/zap"
	"golang.org/x/term"
)

// Pipeline stages, in order. Each one is logged at debug level once it completes.
const (
	stageInputRead        = "input_read"
	stageKeyDecoded       = "key_decoded"
	stagePayloadComposed  = "payload_composed"
	stageOutputDispatched = "output_dispatched"
)

const defaultModuleSize = 8

// Run reads the key from req.InputPath, encrypts it under req.PIN and writes
// the QR code to req.OutputPath, or to req.Stdout when no output path is given.
// Nothing is written unless every earlier step succeeded.
func Run(ctx context.Context, req *model.RunRequest, log *zap.Logger) (*model.RunResult, error) {
	if req == nil {
		return nil, errors.New("nil request")
	}
	if log == nil {
		log = zap.NewNop()
	}
	log = log.With(zap.String("input", req.InputPath))

	// Read the bech32 key line
	line, err := common.ReadFirstLine(req.InputPath)
	if err != nil {
		return nil, &model.InputError{Path: req.InputPath, Err: err}
	}
	log.Debug("stage done", zap.String("stage", stageInputRead))

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	// Decode the secret key
	sk, err := key.DecodeBech32(line)
	if err != nil {
		return nil, err
	}
	defer sk.Zero()

	pk, err := sk.PublicKey()
	if err != nil {
		return nil, err
	}
	publicKey, err := pk.Bech32()
	if err != nil {
		return nil, err
	}
	log.Debug("stage done", zap.String("stage", stageKeyDecoded), zap.String("public_key", publicKey))

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	// Encrypt under the PIN and build the QR code
	artifact, err := Generate(sk, req.PIN)
	if err != nil {
		return nil, err
	}
	log.Debug("stage done", zap.String("stage", stagePayloadComposed), zap.Int("qr_version", artifact.Version()))

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	result := &model.RunResult{
		PublicKey: publicKey,
		QRVersion: artifact.Version(),
	}

	moduleSize := req.Render.ModuleSize
	if moduleSize == 0 {
		moduleSize = defaultModuleSize
	}

	// Dispatch
	if req.OutputPath != "" {
		format, err := artifact.WriteFile(req.OutputPath, moduleSize)
		if err != nil {
			return nil, &model.OutputError{Path: req.OutputPath, Err: err}
		}
		result.Destination = model.DestinationFile
		result.OutputPath = req.OutputPath
		result.Format = format
	} else {
		stdout := req.Stdout
		if stdout == nil {
			stdout = os.Stdout
		}
		if !isTerminal(stdout) {
			log.Warn("stdout is not a terminal, the QR code may not render for scanning")
		}
		if err := artifact.WriteTerminal(stdout, req.Render.InvertTerminal); err != nil {
			return nil, &model.OutputError{Path: "stdout", Err: err}
		}
		result.Destination = model.DestinationTerminal
	}
	log.Debug("stage done", zap.String("stage", stageOutputDispatched), zap.String("destination", result.Destination))

	return result, nil
}

func isTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	return ok && term.IsTerminal(int(f.Fd()))
}
