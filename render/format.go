package render

import (
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrUnknownFormat is returned for export formats other than raster and vector.
	ErrUnknownFormat = errors.New("unknown export format")
	// ErrExportFailed wraps every failure reported by Adapter.Export.
	ErrExportFailed = errors.New("export failed")
)

// Format is an export target.
type Format string

const (
	FormatRaster Format = "png"
	FormatVector Format = "svg"
)

// ParseFormat accepts "png"/"raster" and "svg"/"vector".
func ParseFormat(s string) (Format, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "png", "raster":
		return FormatRaster, nil
	case "svg", "vector":
		return FormatVector, nil
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownFormat, s)
}

// Ext returns the file extension without the dot.
func (f Format) Ext() string { return string(f) }

// Label is the upper-case name used in notifications ("PNG", "SVG").
func (f Format) Label() string { return strings.ToUpper(string(f)) }

// ContentType returns the MIME type of an exported artifact.
func (f Format) ContentType() string {
	switch f {
	case FormatRaster:
		return "image/png"
	case FormatVector:
		return "image/svg+xml"
	}
	return "application/octet-stream"
}

// ExportOptions parameterises Engine.Export.
type ExportOptions struct {
	Format Format
	Name   string // file name without extension
}

// Filename returns Name with the format extension, defaulting to "qrcode".
func (o ExportOptions) Filename() string {
	name := o.Name
	if name == "" {
		name = DefaultFilename
	}
	return name + "." + o.Format.Ext()
}

// DefaultFilename is the base name of downloaded files.
const DefaultFilename = "qrcode"

// Artifact is a serialised image ready to hand to a Sink.
type Artifact struct {
	Filename    string
	ContentType string
	Data        []byte
}
