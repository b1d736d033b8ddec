package importer

import (
	"bytes"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"github.com/xuri/excelize/v2"
)

// Format identifies an upload's container.
type Format string

const (
	FormatCSV  Format = "csv"
	FormatXLSX Format = "xlsx"
)

// ErrUnsupportedFormat is returned for uploads that are neither CSV nor a
// workbook.
var ErrUnsupportedFormat = errors.New("unsupported file type")

var mediaTypes = map[string]Format{
	"text/csv":                 FormatCSV,
	"application/csv":          FormatCSV,
	"application/vnd.ms-excel": FormatCSV,
	"application/vnd.openxmlformats-officedocument.spreadsheetml.sheet": FormatXLSX,
}

// DetectFormat picks a format from an upload's media type, falling back to
// the file extension when the type is missing or generic.
func DetectFormat(mediaType, filename string) (Format, error) {
	mt := strings.ToLower(strings.TrimSpace(mediaType))
	if i := strings.IndexByte(mt, ';'); i >= 0 {
		mt = strings.TrimSpace(mt[:i])
	}
	if f, ok := mediaTypes[mt]; ok {
		return f, nil
	}
	if mt == "" || mt == "application/octet-stream" {
		switch strings.ToLower(filepath.Ext(filename)) {
		case ".csv":
			return FormatCSV, nil
		case ".xlsx":
			return FormatXLSX, nil
		}
	}
	return "", fmt.Errorf("%w: %q", ErrUnsupportedFormat, mediaType)
}

// ReadRows reads every row of r. Workbooks are read from their first sheet.
func ReadRows(r io.Reader, format Format) ([][]string, error) {
	switch format {
	case FormatCSV:
		return readCSV(r)
	case FormatXLSX:
		return readXLSX(r)
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnsupportedFormat, format)
	}
}

func readCSV(r io.Reader) ([][]string, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("reading csv: %w", err)
	}
	data = bytes.TrimPrefix(data, []byte("\xef\xbb\xbf"))

	reader := csv.NewReader(bytes.NewReader(data))
	reader.FieldsPerRecord = -1
	reader.LazyQuotes = true
	rows, err := reader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("parsing csv: %w", err)
	}
	return rows, nil
}

func readXLSX(r io.Reader) ([][]string, error) {
	f, err := excelize.OpenReader(r)
	if err != nil {
		return nil, fmt.Errorf("failed to open excel: %w", err)
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, errors.New("workbook has no sheets")
	}
	rows, err := f.GetRows(sheets[0])
	if err != nil {
		return nil, fmt.Errorf("reading sheet %q: %w", sheets[0], err)
	}
	return rows, nil
}
