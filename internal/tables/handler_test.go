package tables

import (
	"archive/zip"
	"bytes"
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/appetiteclub/apt"
	"github.com/go-chi/chi/v5"
)

func newTestRouter(repo TableRepo, exporter *QRExporter) chi.Router {
	if exporter == nil {
		exporter = NewQRExporter("", "http://localhost", nil)
	}
	h := NewHandler(repo, exporter, apt.NewConfig(), nil)
	r := chi.NewRouter()
	h.RegisterRoutes(r)
	return r
}

func TestFindOrCreateIsStablePerNumber(t *testing.T) {
	repo := NewMockTableRepo()
	ctx := context.Background()

	first, err := repo.FindOrCreate(ctx, 4)
	if err != nil {
		t.Fatalf("FindOrCreate() error = %v", err)
	}
	second, err := repo.FindOrCreate(ctx, 4)
	if err != nil {
		t.Fatalf("FindOrCreate() error = %v", err)
	}
	if first.ID != second.ID {
		t.Errorf("FindOrCreate() returned different tables for the same number: %s vs %s", first.ID, second.ID)
	}

	other, err := repo.FindOrCreate(ctx, 5)
	if err != nil {
		t.Fatalf("FindOrCreate() error = %v", err)
	}
	if other.ID == first.ID {
		t.Error("FindOrCreate() should create a distinct table for a new number")
	}
}

func TestGetTableByNumber(t *testing.T) {
	repo := NewMockTableRepo()
	table, _ := repo.FindOrCreate(context.Background(), 7)
	router := newTestRouter(repo, nil)

	req := httptest.NewRequest(http.MethodGet, "/tables/7", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("GetTable() status = %d, want %d (%s)", w.Code, http.StatusOK, w.Body.String())
	}
	if !bytes.Contains(w.Body.Bytes(), []byte(table.ID.String())) {
		t.Errorf("GetTable() body should contain table id %s: %s", table.ID, w.Body.String())
	}
}

func TestGetTableNotFound(t *testing.T) {
	router := newTestRouter(NewMockTableRepo(), nil)

	req := httptest.NewRequest(http.MethodGet, "/tables/99", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	if w.Code != http.StatusNotFound {
		t.Errorf("GetTable() status = %d, want %d", w.Code, http.StatusNotFound)
	}
}

func TestQRExporterTableURL(t *testing.T) {
	exporter := NewQRExporter("", "https://resto.example.com", nil)
	got := exporter.TableURL(4)
	want := "https://resto.example.com/commande?table=4"
	if got != want {
		t.Errorf("TableURL() = %q, want %q", got, want)
	}
}

func TestExportQRArchive(t *testing.T) {
	fakePNG := []byte("\x89PNG\r\n\x1a\nfake")
	qrServer := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Query().Get("data") == "" {
			t.Error("QR endpoint called without data parameter")
		}
		w.Write(fakePNG)
	}))
	defer qrServer.Close()

	repo := NewMockTableRepo()
	repo.FindOrCreate(context.Background(), 1)
	repo.FindOrCreate(context.Background(), 2)
	repo.FindOrCreate(context.Background(), 3)

	exporter := NewQRExporter(qrServer.URL, "http://localhost", nil)
	router := newTestRouter(repo, exporter)

	req := httptest.NewRequest(http.MethodGet, "/tables/qr-archive", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("ExportQRArchive() status = %d, want %d", w.Code, http.StatusOK)
	}
	if ct := w.Header().Get("Content-Type"); ct != "application/zip" {
		t.Errorf("ExportQRArchive() Content-Type = %q, want application/zip", ct)
	}

	zr, err := zip.NewReader(bytes.NewReader(w.Body.Bytes()), int64(w.Body.Len()))
	if err != nil {
		t.Fatalf("archive is not a valid zip: %v", err)
	}
	if len(zr.File) != 3 {
		t.Fatalf("archive has %d entries, want 3", len(zr.File))
	}
	wantNames := []string{"table-01.png", "table-02.png", "table-03.png"}
	for i, f := range zr.File {
		if f.Name != wantNames[i] {
			t.Errorf("archive entry %d = %q, want %q", i, f.Name, wantNames[i])
		}
	}
}

func TestExportQRArchiveFailedFetchFailsRequest(t *testing.T) {
	var calls int
	qrServer := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
		if calls == 2 {
			w.WriteHeader(http.StatusInternalServerError)
			return
		}
		w.Write([]byte("\x89PNG\r\n\x1a\nfake"))
	}))
	defer qrServer.Close()

	repo := NewMockTableRepo()
	repo.FindOrCreate(context.Background(), 1)
	repo.FindOrCreate(context.Background(), 2)
	repo.FindOrCreate(context.Background(), 3)

	exporter := NewQRExporter(qrServer.URL, "http://localhost", nil)
	router := newTestRouter(repo, exporter)

	req := httptest.NewRequest(http.MethodGet, "/tables/qr-archive", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	if w.Code != http.StatusBadGateway {
		t.Fatalf("ExportQRArchive() status = %d, want %d", w.Code, http.StatusBadGateway)
	}
	if ct := w.Header().Get("Content-Type"); ct == "application/zip" {
		t.Error("a failed export must not respond with zip headers")
	}
	if _, err := zip.NewReader(bytes.NewReader(w.Body.Bytes()), int64(w.Body.Len())); err == nil {
		t.Error("a failed export must not deliver a readable archive")
	}
}

func TestExportQRArchiveNoTables(t *testing.T) {
	router := newTestRouter(NewMockTableRepo(), nil)

	req := httptest.NewRequest(http.MethodGet, "/tables/qr-archive", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	if w.Code != http.StatusNotFound {
		t.Errorf("ExportQRArchive() status = %d, want %d", w.Code, http.StatusNotFound)
	}
}

func TestCreateTable(t *testing.T) {
	repo := NewMockTableRepo()
	router := newTestRouter(repo, nil)

	tests := []struct {
		name       string
		body       string
		wantStatus int
	}{
		{"validNumber", `{"number": 12}`, http.StatusCreated},
		{"duplicateNumber", `{"number": 12}`, http.StatusConflict},
		{"zeroNumber", `{"number": 0}`, http.StatusBadRequest},
		{"invalidJSON", `{number`, http.StatusBadRequest},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodPost, "/tables", bytes.NewBufferString(tt.body))
			w := httptest.NewRecorder()
			router.ServeHTTP(w, req)

			if w.Code != tt.wantStatus {
				t.Errorf("CreateTable() status = %d, want %d (%s)", w.Code, tt.wantStatus, w.Body.String())
			}
		})
	}
}

func TestDeleteTable(t *testing.T) {
	repo := NewMockTableRepo()
	table, _ := repo.FindOrCreate(context.Background(), 3)
	router := newTestRouter(repo, nil)

	req := httptest.NewRequest(http.MethodDelete, "/tables/"+table.ID.String(), nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	if w.Code != http.StatusNoContent {
		t.Fatalf("DeleteTable() status = %d, want %d", w.Code, http.StatusNoContent)
	}

	got, err := repo.Get(context.Background(), table.ID)
	if err != nil {
		t.Fatalf("Get() error = %v", err)
	}
	if got != nil {
		t.Error("DeleteTable() should remove the table")
	}
}

func TestGateProtectsQRArchive(t *testing.T) {
	repo := NewMockTableRepo()
	repo.FindOrCreate(context.Background(), 1)

	h := NewHandler(repo, NewQRExporter("", "http://localhost", nil), apt.NewConfig(), nil)
	h.UseGate(func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			apt.RespondError(w, http.StatusUnauthorized, "Unauthorized")
		})
	})
	router := chi.NewRouter()
	h.RegisterRoutes(router)

	req := httptest.NewRequest(http.MethodGet, "/tables/qr-archive", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	if w.Code != http.StatusUnauthorized {
		t.Errorf("gated ExportQRArchive() status = %d, want %d", w.Code, http.StatusUnauthorized)
	}

	req = httptest.NewRequest(http.MethodGet, "/tables/1", nil)
	w = httptest.NewRecorder()
	router.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Errorf("ungated GetTable() status = %d, want %d", w.Code, http.StatusOK)
	}
}
