package common

import (
	"bufio"
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
)

var utf8BOM = []byte{0xEF, 0xBB, 0xBF}

// ErrEmptyLine is returned when the first line holds nothing but whitespace
var ErrEmptyLine = errors.New("first line is empty")

// StripBOM drops a leading UTF-8 byte order mark, which Windows editors like to add
func StripBOM(data []byte) []byte {
	return bytes.TrimPrefix(data, utf8BOM)
}

// ReadFirstLine opens path read-only and returns its first line without the
// line terminator or trailing whitespace. Any further lines are ignored.
func ReadFirstLine(path string) (string, error) {
	f, err := os.Open(path)
	if err != nil {
		return "", err
	}
	defer f.Close()

	return FirstLine(f)
}

// FirstLine is ReadFirstLine for an already open reader
func FirstLine(r io.Reader) (string, error) {
	line, err := bufio.NewReader(r).ReadBytes('\n')
	if err != nil && !errors.Is(err, io.EOF) {
		return "", fmt.Errorf("failed to read line: %w", err)
	}

	s := strings.TrimRightFunc(string(StripBOM(line)), isLineSpace)
	if s == "" {
		return "", ErrEmptyLine
	}
	return s, nil
}

func isLineSpace(r rune) bool {
	switch r {
	case '\n', '\r', ' ', '\t', '\v', '\f':
		return true
	}
	return false
}
