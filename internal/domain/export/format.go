// Package export renders a dashboard view as a downloadable file.
package export

import (
	"fmt"
	"io"
	"strings"

	"github.com/okian/pldash/internal/domain/aggregate"
)

// Format is an export file format.
type Format string

// Supported formats.
const (
	FormatCSV     Format = "csv"
	FormatMsgpack Format = "msgpack"
	FormatXLSX    Format = "xlsx"
)

const baseName = "premier_league_analytics"

// ParseFormat resolves a format name; empty means CSV.
func ParseFormat(s string) (Format, error) {
	switch f := Format(strings.ToLower(strings.TrimSpace(s))); f {
	case "":
		return FormatCSV, nil
	case FormatCSV, FormatMsgpack, FormatXLSX:
		return f, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrUnsupportedFormat, s)
	}
}

// ContentType returns the MIME type served for f.
func (f Format) ContentType() string {
	switch f {
	case FormatMsgpack:
		return "application/msgpack"
	case FormatXLSX:
		return "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
	default:
		return "text/csv"
	}
}

// FileName returns the download file name for f.
func (f Format) FileName() string {
	return baseName + "." + string(f)
}

// Write renders view in format f.
func Write(w io.Writer, f Format, view aggregate.View) error {
	switch f {
	case FormatCSV:
		return WriteCSV(w, view)
	case FormatMsgpack:
		return WriteMsgpack(w, view)
	case FormatXLSX:
		return WriteXLSX(w, view)
	default:
		return fmt.Errorf("%w: %q", ErrUnsupportedFormat, string(f))
	}
}
