// Package validation checks input paths and detects the format of mutation
// exports before they are read.
package validation

import (
	"bufio"
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"nvv/ebh-import/internal/parsererror"
)

// Format is the kind of mutation export.
type Format string

const (
	FormatCSV Format = "csv"
	FormatXML Format = "xml"
)

const sniffSize = 512

var utf8BOM = []byte{0xEF, 0xBB, 0xBF}

// IsValidPath checks if a given path exists and is a file or directory.
func IsValidPath(path string) error {
	info, err := os.Stat(path)
	if os.IsNotExist(err) {
		return fmt.Errorf("path does not exist: %s", path)
	}
	if err != nil {
		return fmt.Errorf("error checking path %s: %w", path, err)
	}
	if !info.IsDir() && !info.Mode().IsRegular() {
		return fmt.Errorf("path %s is neither a file nor a directory", path)
	}
	return nil
}

// DetectFormat determines the export format from the file extension and
// checks that the content matches it. CSV exports must carry a MutatieNr
// header column; XML exports must start with markup.
func DetectFormat(path string) (Format, error) {
	var format Format
	switch strings.ToLower(filepath.Ext(path)) {
	case ".csv", ".txt":
		format = FormatCSV
	case ".xml":
		format = FormatXML
	default:
		return "", &parsererror.ValidationError{
			FilePath: path,
			Reason:   fmt.Sprintf("unsupported file extension %q", filepath.Ext(path)),
		}
	}

	head, err := readHead(path)
	if err != nil {
		return "", err
	}
	if len(bytes.TrimSpace(head)) == 0 {
		return "", &parsererror.ValidationError{FilePath: path, Reason: "file is empty"}
	}

	switch format {
	case FormatXML:
		if !bytes.HasPrefix(bytes.TrimSpace(head), []byte("<")) {
			return "", &parsererror.InvalidFormatError{
				FilePath:             path,
				ExpectedFormat:       "XML mutation export",
				ActualContentSnippet: snippet(head),
				Msg:                  "content does not start with markup",
			}
		}
	case FormatCSV:
		header, _, _ := bufio.NewReader(bytes.NewReader(head)).ReadLine()
		if !strings.Contains(strings.ToLower(string(header)), "mutatienr") {
			return "", &parsererror.InvalidFormatError{
				FilePath:             path,
				ExpectedFormat:       "CSV mutation export with a MutatieNr column",
				ActualContentSnippet: snippet(header),
				Msg:                  "missing MutatieNr header",
			}
		}
	}
	return format, nil
}

func readHead(path string) ([]byte, error) {
	f, err := os.Open(path) // #nosec G304 -- CLI tool requires user-provided file paths
	if err != nil {
		return nil, fmt.Errorf("failed to open file: %w", err)
	}
	defer func() { _ = f.Close() }()

	buf := make([]byte, sniffSize)
	n, err := f.Read(buf)
	if err != nil && !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("failed to read file: %w", err)
	}
	return bytes.TrimPrefix(buf[:n], utf8BOM), nil
}

func snippet(b []byte) string {
	s := strings.TrimSpace(string(b))
	if len(s) > 40 {
		s = s[:40]
	}
	return s
}
