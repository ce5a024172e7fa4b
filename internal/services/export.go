package services

import (
	"archive/zip"
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/diewo77/blachy/internal/models"
	"github.com/diewo77/blachy/internal/storage"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

const (
	OfferReportTitle = "Oferta Na Braki:"
	OfferReportName  = "oferta_braki.txt"
)

var reportSeparator = strings.Repeat("-", 60)

// ReportColumns are the headers shared by the text and spreadsheet reports.
var ReportColumns = []string{"lp.", "KOD", "Materiał", "Grubość", "Ilość (szt.)"}

// ReportRow is one line of an offer or order report.
type ReportRow struct {
	Code      string
	Material  string
	Thickness string
	Quantity  int
}

func quantityLabel(q int) string { return fmt.Sprintf("%d szt.", q) }

func formatRow(lp, code, material, thickness, qty string) string {
	return fmt.Sprintf("%-4s%-8s%-12s%-10s%-15s\n", lp, code, material, thickness, qty)
}

// WriteReport renders a fixed-width text table. Widths count runes, so
// Polish letters take one column each.
func WriteReport(w io.Writer, title string, rows []ReportRow) error {
	bw := bufio.NewWriter(w)
	fmt.Fprintln(bw, title)
	fmt.Fprintln(bw, reportSeparator)
	bw.WriteString(formatRow(ReportColumns[0], ReportColumns[1], ReportColumns[2], ReportColumns[3], ReportColumns[4]))
	fmt.Fprintln(bw, reportSeparator)
	for i, r := range rows {
		bw.WriteString(formatRow(fmt.Sprint(i+1), r.Code, placeholder(r.Material), placeholder(r.Thickness), quantityLabel(r.Quantity)))
	}
	return bw.Flush()
}

func placeholder(s string) string {
	if s == "" {
		return models.Placeholder
	}
	return s
}

func OfferReportRows(lines []OfferLine) []ReportRow {
	rows := make([]ReportRow, 0, len(lines))
	for _, l := range lines {
		rows = append(rows, ReportRow{Code: l.Code, Material: l.Material, Thickness: l.Thickness, Quantity: l.Quantity})
	}
	return rows
}

// OrderReportRows expects Items.Sheet (with catalog references) preloaded.
func OrderReportRows(o *models.Order) []ReportRow {
	rows := make([]ReportRow, 0, len(o.Items))
	for _, it := range o.Items {
		row := ReportRow{Code: models.Placeholder, Material: models.Placeholder, Thickness: models.Placeholder, Quantity: it.Quantity}
		if it.Sheet != nil {
			row.Code = it.Sheet.Code
			row.Material = it.Sheet.MaterialName()
			row.Thickness = it.Sheet.ThicknessValue()
		}
		rows = append(rows, row)
	}
	return rows
}

func OrderReportTitle(o *models.Order) string {
	return fmt.Sprintf("Zamówienie nr %d (%s):", o.ID, o.CreatedAt.Format("2006-01-02 15:04"))
}

// ExportService bundles an order report with the drawings of its sheets.
type ExportService struct {
	store storage.Storage
	dir   string
	log   *zap.Logger
	now   func() time.Time
}

func NewExportService(store storage.Storage, dir string, log *zap.Logger) *ExportService {
	if log == nil {
		log = zap.NewNop()
	}
	return &ExportService{store: store, dir: dir, log: log, now: time.Now}
}

// BundleOrder writes the report and the DXF/PDF attachments of every
// sheet of the order into a fresh working directory, zips it and removes
// the directory. Missing attachments are skipped. The caller owns the
// returned zip file.
func (s *ExportService) BundleOrder(ctx context.Context, order *models.Order) (string, error) {
	name := fmt.Sprintf("zamowienie_%d_%s_%s", order.ID, s.now().Format("20060102_150405"), uuid.NewString()[:8])
	work := filepath.Join(s.dir, name)
	if err := os.MkdirAll(work, 0o755); err != nil {
		return "", fmt.Errorf("create export dir: %w", err)
	}
	defer os.RemoveAll(work)

	report, err := os.Create(filepath.Join(work, fmt.Sprintf("zamowienie_%d.txt", order.ID)))
	if err != nil {
		return "", err
	}
	if err := WriteReport(report, OrderReportTitle(order), OrderReportRows(order)); err != nil {
		report.Close()
		return "", fmt.Errorf("write report: %w", err)
	}
	if err := report.Close(); err != nil {
		return "", err
	}

	seen := make(map[uint]bool)
	for _, it := range order.Items {
		if it.Sheet == nil || seen[it.SheetID] {
			continue
		}
		seen[it.SheetID] = true
		for _, kind := range []models.AttachmentKind{models.AttachmentDXF, models.AttachmentPDF} {
			if it.Sheet.Attachment(kind) == "" {
				continue
			}
			dst := filepath.Join(work, storage.SafeName(it.Sheet.Code)+"."+string(kind))
			if err := s.copyAttachment(ctx, storage.Key(it.SheetID, kind), dst); err != nil {
				if errors.Is(err, storage.ErrNotFound) {
					s.log.Warn("attachment missing, skipped",
						zap.Uint("order_id", order.ID), zap.Uint("sheet_id", it.SheetID), zap.String("kind", string(kind)))
					continue
				}
				return "", err
			}
		}
	}

	zipPath := work + ".zip"
	if err := zipDir(work, zipPath); err != nil {
		os.Remove(zipPath)
		return "", fmt.Errorf("zip export: %w", err)
	}
	return zipPath, nil
}

func (s *ExportService) copyAttachment(ctx context.Context, key, dst string) error {
	src, err := s.store.Open(ctx, key)
	if err != nil {
		return err
	}
	defer src.Close()
	out, err := os.Create(dst)
	if err != nil {
		return err
	}
	if _, err := io.Copy(out, src); err != nil {
		out.Close()
		return fmt.Errorf("copy %s: %w", key, err)
	}
	return out.Close()
}

func zipDir(dir, zipPath string) error {
	f, err := os.Create(zipPath)
	if err != nil {
		return err
	}
	defer f.Close()
	zw := zip.NewWriter(f)

	entries, err := os.ReadDir(dir)
	if err != nil {
		return err
	}
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		if err := addFile(zw, filepath.Join(dir, e.Name()), e.Name()); err != nil {
			return err
		}
	}
	return zw.Close()
}

func addFile(zw *zip.Writer, path, name string) error {
	src, err := os.Open(path)
	if err != nil {
		return err
	}
	defer src.Close()
	dst, err := zw.CreateHeader(&zip.FileHeader{Name: name, Method: zip.Deflate, Modified: time.Now()})
	if err != nil {
		return err
	}
	_, err = io.Copy(dst, src)
	return err
}
