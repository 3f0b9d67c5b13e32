package services

import (
	"bytes"
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"

	"bakery/internal/repositories"
)

const (
	exportDateLayout = "02/01/2006"
	utf8BOM          = "\ufeff"
)

var exportHeader = []string{"Order Id", "Sale Date", "Customer", "Product", "Quantity", "Unit Price", "Line Total"}

// ExportCSV writes one semicolon separated row per order line, preceded by a
// UTF-8 byte order mark so spreadsheet tools pick the right encoding.
func (s *ReportService) ExportCSV(ctx context.Context, w io.Writer) error {
	data, err := s.renderCSV(ctx)
	if err != nil {
		return err
	}
	if _, err := w.Write(data); err != nil {
		return NewStorage("failed to write export", err)
	}
	return nil
}

// ExportFile renders the export and replaces path with it. The content goes
// to a temporary file in the same directory first, so path is either the
// complete new export or left as it was.
func (s *ReportService) ExportFile(ctx context.Context, path string) error {
	data, err := s.renderCSV(ctx)
	if err != nil {
		return err
	}

	tmp, err := os.CreateTemp(filepath.Dir(path), ".export-*.csv")
	if err != nil {
		return NewStorage("failed to create export file", err)
	}
	tmpName := tmp.Name()
	cleanup := func(cause error, msg string) error {
		tmp.Close()
		os.Remove(tmpName)
		return NewStorage(msg, cause)
	}

	if _, err := tmp.Write(data); err != nil {
		return cleanup(err, "failed to write export file")
	}
	if err := tmp.Sync(); err != nil {
		return cleanup(err, "failed to flush export file")
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return NewStorage("failed to close export file", err)
	}
	if err := os.Rename(tmpName, path); err != nil {
		os.Remove(tmpName)
		return NewStorage(fmt.Sprintf("failed to move export to %s", path), err)
	}
	return nil
}

func (s *ReportService) renderCSV(ctx context.Context) ([]byte, error) {
	orders, err := s.loadOrders(ctx, repositories.OrderFilter{})
	if err != nil {
		return nil, err
	}
	names, err := s.customerNames(ctx)
	if err != nil {
		return nil, err
	}

	var buf bytes.Buffer
	buf.WriteString(utf8BOM)
	cw := csv.NewWriter(&buf)
	cw.Comma = ';'
	if err := cw.Write(exportHeader); err != nil {
		return nil, NewStorage("failed to render export", err)
	}
	for _, o := range orders {
		soldAt := o.SoldAt.Local().Format(exportDateLayout)
		for _, l := range o.Lines {
			row := []string{
				o.ID,
				soldAt,
				names[o.CustomerID],
				l.ProductName,
				strconv.Itoa(l.Quantity),
				l.UnitPrice.StringFixed(2),
				l.Total.StringFixed(2),
			}
			if err := cw.Write(row); err != nil {
				return nil, NewStorage("failed to render export", err)
			}
		}
	}
	cw.Flush()
	if err := cw.Error(); err != nil {
		return nil, NewStorage("failed to render export", err)
	}
	return buf.Bytes(), nil
}
