package tables

import (
	"archive/zip"
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/appetiteclub/apt"
)

const (
	DefaultQREndpoint = "https://api.qrserver.com/v1/create-qr-code/"
	qrImageSize       = "150x150"
)

// QRExporter fetches one QR code image per table from an external
// generation endpoint and bundles them into a single zip archive. Each
// code encodes the table's ordering URL.
type QRExporter struct {
	endpoint string
	baseURL  string
	client   *http.Client
	logger   apt.Logger
}

func NewQRExporter(endpoint, baseURL string, logger apt.Logger) *QRExporter {
	if endpoint == "" {
		endpoint = DefaultQREndpoint
	}
	if logger == nil {
		logger = apt.NewNoopLogger()
	}
	return &QRExporter{
		endpoint: endpoint,
		baseURL:  baseURL,
		client:   &http.Client{Timeout: 15 * time.Second},
		logger:   logger,
	}
}

// TableURL returns the ordering URL a table's QR code encodes.
func (e *QRExporter) TableURL(number int) string {
	return fmt.Sprintf("%s/commande?table=%d", e.baseURL, number)
}

func (e *QRExporter) imageURL(number int) string {
	q := url.Values{}
	q.Set("size", qrImageSize)
	q.Set("data", e.TableURL(number))
	return e.endpoint + "?" + q.Encode()
}

// WriteArchive streams a zip of QR code PNGs for the given tables to w.
// Entries are named table-NN.png. A failed fetch aborts the archive; a
// partial archive with silently missing tables would be worse than an
// error the operator can retry.
func (e *QRExporter) WriteArchive(ctx context.Context, w io.Writer, tables []*Table) error {
	zw := zip.NewWriter(w)

	// On failure the writer is deliberately not closed: closing would
	// finalize a valid central directory and turn a partial archive into
	// one that opens cleanly with tables silently missing.
	for _, t := range tables {
		png, err := e.fetchImage(ctx, t.Number)
		if err != nil {
			return fmt.Errorf("cannot fetch QR code for table %d: %w", t.Number, err)
		}

		entry, err := zw.Create(fmt.Sprintf("table-%02d.png", t.Number))
		if err != nil {
			return fmt.Errorf("cannot create archive entry for table %d: %w", t.Number, err)
		}
		if _, err := entry.Write(png); err != nil {
			return fmt.Errorf("cannot write archive entry for table %d: %w", t.Number, err)
		}
	}

	if err := zw.Close(); err != nil {
		return fmt.Errorf("cannot finalize archive: %w", err)
	}
	return nil
}

func (e *QRExporter) fetchImage(ctx context.Context, number int) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, e.imageURL(number), nil)
	if err != nil {
		return nil, err
	}

	resp, err := e.client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("QR endpoint returned status %d", resp.StatusCode)
	}

	return io.ReadAll(resp.Body)
}
