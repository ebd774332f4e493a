package model

import (
	"io"
)

// RunRequest holds the inputs of a single key-to-QR conversion.
// PIN holds the four digit values (0-9), not their ASCII codes.
type RunRequest struct {
	InputPath  string
	OutputPath string // empty means render to Stdout
	PIN        [4]uint8
	Stdout     io.Writer
	Render     RenderOptions
}

// RenderOptions controls how the QR symbol is serialized
type RenderOptions struct {
	ModuleSize     int  // pixels per module for SVG and PNG output
	InvertTerminal bool // swap dark and light for terminal output
}

// Destination values reported in RunResult
const (
	DestinationFile     = "file"
	DestinationTerminal = "terminal"
)

// RunResult describes what a successful run produced
type RunResult struct {
	Destination string
	OutputPath  string
	Format      string
	PublicKey   string // bech32 ed25519_pk of the converted key
	QRVersion   int
}
