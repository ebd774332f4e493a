package qr

import (
	"bytes"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	svg "github.com/ajstarks/svgo"
	"github.com/skip2/go-qrcode"
)

// Output formats for files
const (
	FormatSVG = "svg"
	FormatPNG = "png"
)

const (
	darkFill  = "fill:#000000"
	lightFill = "fill:#ffffff"
)

// Artifact is a generated QR code ready to be written out
type Artifact struct {
	code *qrcode.QRCode
}

// Version returns the QR version (1-40) chosen for the payload
func (a *Artifact) Version() int {
	return a.code.VersionNumber
}

// FormatForPath picks PNG for a .png extension and SVG for anything else
func FormatForPath(path string) string {
	if strings.EqualFold(filepath.Ext(path), ".png") {
		return FormatPNG
	}
	return FormatSVG
}

// SVG renders the code, quiet zone included, with moduleSize pixels per module
func (a *Artifact) SVG(moduleSize int) ([]byte, error) {
	if moduleSize < 1 {
		return nil, fmt.Errorf("invalid module size %d", moduleSize)
	}

	bitmap := a.code.Bitmap()
	side := len(bitmap) * moduleSize

	var buf bytes.Buffer
	canvas := svg.New(&buf)
	canvas.Start(side, side,
		fmt.Sprintf(`viewBox="0 0 %d %d"`, side, side),
		`shape-rendering="crispEdges"`,
	)
	canvas.Rect(0, 0, side, side, lightFill)

	// one rect per horizontal run of dark modules
	for y, row := range bitmap {
		for x := 0; x < len(row); {
			if !row[x] {
				x++
				continue
			}
			start := x
			for x < len(row) && row[x] {
				x++
			}
			canvas.Rect(start*moduleSize, y*moduleSize, (x-start)*moduleSize, moduleSize, darkFill)
		}
	}
	canvas.End()

	return buf.Bytes(), nil
}

// PNG renders the code with moduleSize pixels per module
func (a *Artifact) PNG(moduleSize int) ([]byte, error) {
	if moduleSize < 1 {
		return nil, fmt.Errorf("invalid module size %d", moduleSize)
	}
	// a negative size asks go-qrcode for a fixed module size
	png, err := a.code.PNG(-moduleSize)
	if err != nil {
		return nil, fmt.Errorf("failed to generate PNG: %w", err)
	}
	return png, nil
}

// WriteFile renders the code in the format implied by path and writes it,
// creating or truncating the file. Rendering finishes before the file is touched.
func (a *Artifact) WriteFile(path string, moduleSize int) (format string, err error) {
	format = FormatForPath(path)

	var data []byte
	switch format {
	case FormatPNG:
		data, err = a.PNG(moduleSize)
	default:
		data, err = a.SVG(moduleSize)
	}
	if err != nil {
		return "", err
	}

	if err := os.WriteFile(path, data, 0600); err != nil {
		return "", fmt.Errorf("failed to write file: %w", err)
	}
	return format, nil
}

// TerminalString renders the code with half-block characters, two rows per line
func (a *Artifact) TerminalString(invert bool) string {
	return a.code.ToSmallString(invert)
}

// WriteTerminal prints the code to w for scanning off the screen
func (a *Artifact) WriteTerminal(w io.Writer, invert bool) error {
	if _, err := fmt.Fprintf(w, "\n%s\n", a.TerminalString(invert)); err != nil {
		return fmt.Errorf("failed to write to terminal: %w", err)
	}
	return nil
}
