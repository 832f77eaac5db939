// Package xmlutils reads e-Boekhouden XML mutation exports.
package xmlutils

import (
	"fmt"
	"io"
	"os"
	"strings"

	"gopkg.in/xmlpath.v2"

	"nvv/ebh-import/internal/logging"
)

// LoadXMLFile loads an XML file and returns the XML root node
func LoadXMLFile(xmlFilePath string, logger logging.Logger) (*xmlpath.Node, error) {
	file, err := os.Open(xmlFilePath)
	if err != nil {
		return nil, fmt.Errorf("failed to open XML file: %w", err)
	}
	defer func() {
		if err := file.Close(); err != nil {
			logging.OrNop(logger).WithError(err).Warn("Failed to close file")
		}
	}()

	return ParseXML(file)
}

// ParseXML parses XML from r and returns the root node.
func ParseXML(r io.Reader) (*xmlpath.Node, error) {
	root, err := xmlpath.Parse(r)
	if err != nil {
		return nil, fmt.Errorf("failed to parse XML file: %w", err)
	}
	return root, nil
}

// ExtractFromXML extracts values from an XML node using an XPath expression
func ExtractFromXML(root *xmlpath.Node, xpath string) ([]string, error) {
	path, err := xmlpath.Compile(xpath)
	if err != nil {
		return nil, fmt.Errorf("failed to compile XPath: %w", err)
	}

	var values []string
	iter := path.Iter(root)
	for iter.Next() {
		values = append(values, iter.Node().String())
	}

	return values, nil
}

// GetOrEmpty returns the value at the specified index in a slice, or an empty string if the index is out of bounds
func GetOrEmpty(slice []string, index int) string {
	if index >= 0 && index < len(slice) {
		return slice[index]
	}
	return ""
}

// compiledPath caches a compiled expression together with its source.
type compiledPath struct {
	expr string
	path *xmlpath.Path
}

func compile(expr string) (compiledPath, error) {
	path, err := xmlpath.Compile(expr)
	if err != nil {
		return compiledPath{}, fmt.Errorf("failed to compile XPath %q: %w", expr, err)
	}
	return compiledPath{expr: expr, path: path}, nil
}

// value returns the trimmed text of the first match below node.
func (c compiledPath) value(node *xmlpath.Node) string {
	if s, ok := c.path.String(node); ok {
		return strings.TrimSpace(s)
	}
	return ""
}
