package tables

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strconv"

	"github.com/appetiteclub/apt"
	"github.com/appetiteclub/apt/telemetry"
	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
)

const MaxBodyBytes = 1 << 20 // 1 MB

// Handler handles HTTP requests for tables
type Handler struct {
	repo     TableRepo
	exporter *QRExporter
	gate     func(http.Handler) http.Handler
	logger   apt.Logger
	config   *apt.Config
	tlm      *telemetry.HTTP
}

// NewHandler creates a new Handler for table operations
func NewHandler(repo TableRepo, exporter *QRExporter, config *apt.Config, logger apt.Logger) *Handler {
	if logger == nil {
		logger = apt.NewNoopLogger()
	}
	return &Handler{
		repo:     repo,
		exporter: exporter,
		logger:   logger,
		config:   config,
		tlm:      telemetry.NewHTTP(),
	}
}

// UseGate protects the QR archive export with the given middleware.
// A nil gate leaves it open, used by tests that exercise the archive
// directly.
func (h *Handler) UseGate(gate func(http.Handler) http.Handler) {
	h.gate = gate
}

// RegisterRoutes registers all routes for tables
func (h *Handler) RegisterRoutes(r chi.Router) {
	gate := h.gate
	if gate == nil {
		gate = func(next http.Handler) http.Handler { return next }
	}

	r.Route("/tables", func(r chi.Router) {
		r.Get("/", h.ListTables)
		r.With(gate).Get("/qr-archive", h.ExportQRArchive)
		r.Get("/{id}", h.GetTable)
		r.With(gate).Post("/", h.CreateTable)
		r.With(gate).Delete("/{id}", h.DeleteTable)
	})
}

// CreateTable handles POST /tables
func (h *Handler) CreateTable(w http.ResponseWriter, r *http.Request) {
	w, r, finish := h.tlm.Start(w, r, "Handler.CreateTable")
	defer finish()
	log := h.log(r)
	ctx := r.Context()

	var payload struct {
		Number int `json:"number"`
	}
	if !h.decodePayload(w, r, log, &payload) {
		return
	}

	if payload.Number <= 0 {
		apt.RespondError(w, http.StatusBadRequest, "Table number must be positive")
		return
	}

	existing, err := h.repo.GetByNumber(ctx, payload.Number)
	if err != nil {
		log.Error("error checking table number", "error", err, "number", payload.Number)
		apt.RespondError(w, http.StatusInternalServerError, "Could not create table")
		return
	}
	if existing != nil {
		apt.RespondError(w, http.StatusConflict, "Table number already exists")
		return
	}

	table := NewTable(payload.Number)
	table.BeforeCreate()

	if err := h.repo.Create(ctx, table); err != nil {
		log.Error("error creating table", "error", err, "number", payload.Number)
		apt.RespondError(w, http.StatusInternalServerError, "Could not create table")
		return
	}

	links := apt.RESTfulLinksFor(table)
	w.WriteHeader(http.StatusCreated)
	apt.RespondSuccess(w, table, links...)
}

// DeleteTable handles DELETE /tables/{id}
func (h *Handler) DeleteTable(w http.ResponseWriter, r *http.Request) {
	w, r, finish := h.tlm.Start(w, r, "Handler.DeleteTable")
	defer finish()
	log := h.log(r)
	ctx := r.Context()

	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		log.Debug("invalid id parameter", "id", chi.URLParam(r, "id"), "error", err)
		apt.RespondError(w, http.StatusBadRequest, "Invalid id parameter")
		return
	}

	if err := h.repo.Delete(ctx, id); err != nil {
		log.Error("error deleting table", "error", err, "id", id.String())
		apt.RespondError(w, http.StatusInternalServerError, "Could not delete table")
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// ListTables handles GET /tables
func (h *Handler) ListTables(w http.ResponseWriter, r *http.Request) {
	w, r, finish := h.tlm.Start(w, r, "Handler.ListTables")
	defer finish()
	log := h.log(r)
	ctx := r.Context()

	tables, err := h.repo.List(ctx)
	if err != nil {
		log.Error("cannot list tables", "error", err)
		apt.RespondError(w, http.StatusInternalServerError, "Could not list tables")
		return
	}

	apt.RespondCollection(w, tables, "tables")
}

// GetTable handles GET /tables/{id}
func (h *Handler) GetTable(w http.ResponseWriter, r *http.Request) {
	w, r, finish := h.tlm.Start(w, r, "Handler.GetTable")
	defer finish()
	log := h.log(r)
	ctx := r.Context()

	idStr := chi.URLParam(r, "id")

	// Accept either a table UUID or a bare table number, so QR code URLs
	// can link tables by their printed number.
	if number, err := strconv.Atoi(idStr); err == nil {
		table, err := h.repo.GetByNumber(ctx, number)
		if err != nil {
			log.Error("error loading table by number", "error", err, "number", number)
			apt.RespondError(w, http.StatusNotFound, "Table not found")
			return
		}
		if table == nil {
			apt.RespondError(w, http.StatusNotFound, "Table not found")
			return
		}
		links := apt.RESTfulLinksFor(table)
		apt.RespondSuccess(w, table, links...)
		return
	}

	id, err := uuid.Parse(idStr)
	if err != nil {
		log.Debug("invalid id parameter", "id", idStr, "error", err)
		apt.RespondError(w, http.StatusBadRequest, "Invalid id parameter")
		return
	}

	table, err := h.repo.Get(ctx, id)
	if err != nil {
		log.Error("error loading table", "error", err, "id", id.String())
		apt.RespondError(w, http.StatusNotFound, "Table not found")
		return
	}
	if table == nil {
		apt.RespondError(w, http.StatusNotFound, "Table not found")
		return
	}

	links := apt.RESTfulLinksFor(table)
	apt.RespondSuccess(w, table, links...)
}

// ExportQRArchive handles GET /tables/qr-archive
func (h *Handler) ExportQRArchive(w http.ResponseWriter, r *http.Request) {
	w, r, finish := h.tlm.Start(w, r, "Handler.ExportQRArchive")
	defer finish()
	log := h.log(r)
	ctx := r.Context()

	tables, err := h.repo.List(ctx)
	if err != nil {
		log.Error("cannot list tables for QR export", "error", err)
		apt.RespondError(w, http.StatusInternalServerError, "Could not list tables")
		return
	}

	if len(tables) == 0 {
		apt.RespondError(w, http.StatusNotFound, "No tables to export")
		return
	}

	// The archive is buffered so a failed fetch can still fail the
	// request; table counts are small.
	var buf bytes.Buffer
	if err := h.exporter.WriteArchive(ctx, &buf, tables); err != nil {
		log.Error("cannot write QR archive", "error", err)
		apt.RespondError(w, http.StatusBadGateway, "Could not export QR codes, retry later")
		return
	}

	w.Header().Set("Content-Type", "application/zip")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", "table-qr-codes.zip"))
	w.Header().Set("Content-Length", strconv.Itoa(buf.Len()))

	if _, err := w.Write(buf.Bytes()); err != nil {
		log.Error("cannot stream QR archive", "error", err)
	}
}

func (h *Handler) decodePayload(w http.ResponseWriter, r *http.Request, log apt.Logger, target interface{}) bool {
	r.Body = http.MaxBytesReader(w, r.Body, MaxBodyBytes)
	defer r.Body.Close()

	body, err := io.ReadAll(r.Body)
	if err != nil {
		log.Debug("error reading request body", "error", err)
		apt.RespondError(w, http.StatusBadRequest, "Could not read request body")
		return false
	}

	if err := json.Unmarshal(body, target); err != nil {
		log.Debug("error decoding JSON", "error", err)
		apt.RespondError(w, http.StatusBadRequest, "Invalid JSON payload")
		return false
	}

	return true
}

func (h *Handler) log(r *http.Request) apt.Logger {
	return h.logger.With("request_id", r.Context().Value("request_id"))
}
