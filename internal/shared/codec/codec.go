// Package codec decodes descriptor documents by file extension.
//
// Supported formats:
//   - .yaml, .yml: goccy/go-yaml
//   - .toml: pelletier/go-toml/v2
//   - .json: bytedance/sonic
package codec

import (
	"errors"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/bytedance/sonic"
	"github.com/goccy/go-yaml"
	"github.com/pelletier/go-toml/v2"
)

// ErrUnsupportedFormat is returned for extensions without a decoder
var ErrUnsupportedFormat = errors.New("unsupported descriptor format")

// Format identifies a document encoding
type Format string

const (
	FormatYAML Format = "yaml"
	FormatTOML Format = "toml"
	FormatJSON Format = "json"
)

// Extensions lists every file extension the codec can decode
var Extensions = []string{".yaml", ".yml", ".toml", ".json"}

// FormatOf maps a file name to its format
func FormatOf(name string) (Format, error) {
	switch strings.ToLower(filepath.Ext(name)) {
	case ".yaml", ".yml":
		return FormatYAML, nil
	case ".toml":
		return FormatTOML, nil
	case ".json":
		return FormatJSON, nil
	default:
		return "", fmt.Errorf("%w: %s", ErrUnsupportedFormat, name)
	}
}

// Decode unmarshals data in the given format into v
func Decode(format Format, data []byte, v interface{}) error {
	var err error
	switch format {
	case FormatYAML:
		err = yaml.Unmarshal(data, v)
	case FormatTOML:
		err = toml.Unmarshal(data, v)
	case FormatJSON:
		err = sonic.Unmarshal(data, v)
	default:
		return fmt.Errorf("%w: %s", ErrUnsupportedFormat, format)
	}
	if err != nil {
		return fmt.Errorf("failed to decode %s: %w", format, err)
	}
	return nil
}

// DecodeFile decodes data read from the named file, choosing the format by extension
func DecodeFile(name string, data []byte, v interface{}) error {
	format, err := FormatOf(name)
	if err != nil {
		return err
	}
	return Decode(format, data, v)
}
