package xl

import (
	"io"
	"log/slog"
	"time"

	"github.com/klauspost/compress/flate"
)

// Options controls workbook-wide behavior.
type Options struct {
	// AppName is recorded in docProps/app.xml.
	AppName string

	// Date1904 switches the workbook to the 1904 date system.
	Date1904 bool

	// DefaultDateFormat is applied to DateTime cells written without a
	// format.
	DefaultDateFormat string

	// CompressionLevel is the deflate level used for .xlsx output.
	CompressionLevel int

	// Created is the creation timestamp; zero means the time of writing.
	Created time.Time

	// Logger receives debug output from the serializer. Nil discards.
	Logger *slog.Logger
}

// DefaultOptions returns the options used by NewWorkbook.
func DefaultOptions() Options {
	return Options{
		AppName:           "go-xlsxw",
		DefaultDateFormat: "yyyy-mm-dd hh:mm:ss",
		CompressionLevel:  flate.DefaultCompression,
	}
}

func (o Options) logger() *slog.Logger {
	if o.Logger != nil {
		return o.Logger
	}
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// DocProperties are the document metadata shown by spreadsheet applications.
type DocProperties struct {
	Title    string
	Subject  string
	Author   string
	Manager  string
	Company  string
	Category string
	Keywords string
	Comments string
	Status   string
}
