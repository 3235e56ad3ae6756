package dataprocessing

import (
	"fmt"
	"strings"
	"unicode/utf8"

	"golang.org/x/text/encoding/charmap"
)

// decodeContent converts raw file bytes to a UTF-8 string. UPS exports
// are usually UTF-8 but older billing centers emit latin-1 or cp1252.
// In auto mode valid UTF-8 is taken as-is and anything else is decoded
// as latin-1, which accepts every byte value. An explicit encoding from
// configuration is applied directly; explicit utf-8 replaces invalid
// sequences instead of failing the file.
func decodeContent(data []byte, encoding string) (string, string, error) {
	switch encoding {
	case "", "auto":
		if utf8.Valid(data) {
			return string(data), "utf-8", nil
		}
		decoded, err := charmap.ISO8859_1.NewDecoder().Bytes(data)
		if err != nil {
			return "", "", fmt.Errorf("latin-1 decode failed: %w", err)
		}
		return string(decoded), "latin-1", nil

	case "utf-8":
		return strings.ToValidUTF8(string(data), string(utf8.RuneError)), "utf-8", nil

	case "latin-1":
		decoded, err := charmap.ISO8859_1.NewDecoder().Bytes(data)
		if err != nil {
			return "", "", fmt.Errorf("latin-1 decode failed: %w", err)
		}
		return string(decoded), "latin-1", nil

	case "cp1252":
		decoded, err := charmap.Windows1252.NewDecoder().Bytes(data)
		if err != nil {
			return "", "", fmt.Errorf("cp1252 decode failed: %w", err)
		}
		return string(decoded), "cp1252", nil

	default:
		return "", "", fmt.Errorf("unsupported encoding: %s", encoding)
	}
}
