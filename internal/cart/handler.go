package cart

import (
	"encoding/json"
	"io"
	"net/http"
	"strconv"

	"github.com/appetiteclub/apt"
	"github.com/appetiteclub/apt/telemetry"
	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
)

const MaxBodyBytes = 1 << 20 // 1 MB

// Handler handles HTTP requests for table carts
type Handler struct {
	store  *Store
	logger apt.Logger
	config *apt.Config
	tlm    *telemetry.HTTP
}

// NewHandler creates a new Handler for cart operations
func NewHandler(store *Store, config *apt.Config, logger apt.Logger) *Handler {
	if logger == nil {
		logger = apt.NewNoopLogger()
	}
	return &Handler{
		store:  store,
		logger: logger,
		config: config,
		tlm:    telemetry.NewHTTP(),
	}
}

// RegisterRoutes registers all routes for carts. Routes are registered
// individually because the checkout endpoints share the /carts/{table}
// namespace from another handler.
func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Get("/carts/{table}", h.GetCart)
	r.Delete("/carts/{table}", h.ClearCart)
	r.Post("/carts/{table}/items", h.AddItem)
	r.Put("/carts/{table}/items/{dishID}", h.SetQuantity)
	r.Delete("/carts/{table}/items/{dishID}", h.RemoveItem)
}

type addItemPayload struct {
	DishID   uuid.UUID `json:"dish_id"`
	Name     string    `json:"name"`
	Price    int64     `json:"price"`
	Quantity int       `json:"quantity"`
}

type setQuantityPayload struct {
	Quantity int `json:"quantity"`
}

// GetCart handles GET /carts/{table}
func (h *Handler) GetCart(w http.ResponseWriter, r *http.Request) {
	w, r, finish := h.tlm.Start(w, r, "Handler.GetCart")
	defer finish()
	log := h.log(r)
	ctx := r.Context()

	table, ok := h.parseTableParam(w, r, log)
	if !ok {
		return
	}

	c, err := h.store.Get(ctx, table)
	if err != nil {
		log.Error("cannot load cart", "error", err, "table", table)
		apt.RespondError(w, http.StatusInternalServerError, "Could not load cart")
		return
	}

	apt.RespondSuccess(w, c)
}

// AddItem handles POST /carts/{table}/items
func (h *Handler) AddItem(w http.ResponseWriter, r *http.Request) {
	w, r, finish := h.tlm.Start(w, r, "Handler.AddItem")
	defer finish()
	log := h.log(r)
	ctx := r.Context()

	table, ok := h.parseTableParam(w, r, log)
	if !ok {
		return
	}

	var payload addItemPayload
	if !h.decodePayload(w, r, log, &payload) {
		return
	}

	if payload.DishID == uuid.Nil {
		apt.RespondError(w, http.StatusBadRequest, "Missing dish_id")
		return
	}
	if payload.Quantity <= 0 {
		payload.Quantity = 1
	}

	c, err := h.store.Get(ctx, table)
	if err != nil {
		log.Error("cannot load cart", "error", err, "table", table)
		apt.RespondError(w, http.StatusInternalServerError, "Could not load cart")
		return
	}

	c.Add(payload.DishID, payload.Name, payload.Price, payload.Quantity)

	if err := h.store.Save(ctx, c); err != nil {
		log.Error("cannot save cart", "error", err, "table", table)
		apt.RespondError(w, http.StatusInternalServerError, "Could not save cart")
		return
	}

	apt.RespondSuccess(w, c)
}

// SetQuantity handles PUT /carts/{table}/items/{dishID}
func (h *Handler) SetQuantity(w http.ResponseWriter, r *http.Request) {
	w, r, finish := h.tlm.Start(w, r, "Handler.SetQuantity")
	defer finish()
	log := h.log(r)
	ctx := r.Context()

	table, ok := h.parseTableParam(w, r, log)
	if !ok {
		return
	}

	dishID, ok := h.parseDishIDParam(w, r, log)
	if !ok {
		return
	}

	var payload setQuantityPayload
	if !h.decodePayload(w, r, log, &payload) {
		return
	}

	c, err := h.store.Get(ctx, table)
	if err != nil {
		log.Error("cannot load cart", "error", err, "table", table)
		apt.RespondError(w, http.StatusInternalServerError, "Could not load cart")
		return
	}

	c.SetQuantity(dishID, payload.Quantity)

	if err := h.store.Save(ctx, c); err != nil {
		log.Error("cannot save cart", "error", err, "table", table)
		apt.RespondError(w, http.StatusInternalServerError, "Could not save cart")
		return
	}

	apt.RespondSuccess(w, c)
}

// RemoveItem handles DELETE /carts/{table}/items/{dishID}
func (h *Handler) RemoveItem(w http.ResponseWriter, r *http.Request) {
	w, r, finish := h.tlm.Start(w, r, "Handler.RemoveItem")
	defer finish()
	log := h.log(r)
	ctx := r.Context()

	table, ok := h.parseTableParam(w, r, log)
	if !ok {
		return
	}

	dishID, ok := h.parseDishIDParam(w, r, log)
	if !ok {
		return
	}

	c, err := h.store.Get(ctx, table)
	if err != nil {
		log.Error("cannot load cart", "error", err, "table", table)
		apt.RespondError(w, http.StatusInternalServerError, "Could not load cart")
		return
	}

	c.Remove(dishID)

	if err := h.store.Save(ctx, c); err != nil {
		log.Error("cannot save cart", "error", err, "table", table)
		apt.RespondError(w, http.StatusInternalServerError, "Could not save cart")
		return
	}

	apt.RespondSuccess(w, c)
}

// ClearCart handles DELETE /carts/{table}
func (h *Handler) ClearCart(w http.ResponseWriter, r *http.Request) {
	w, r, finish := h.tlm.Start(w, r, "Handler.ClearCart")
	defer finish()
	log := h.log(r)
	ctx := r.Context()

	table, ok := h.parseTableParam(w, r, log)
	if !ok {
		return
	}

	if err := h.store.Clear(ctx, table); err != nil {
		log.Error("cannot clear cart", "error", err, "table", table)
		apt.RespondError(w, http.StatusInternalServerError, "Could not clear cart")
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// Helper methods

func (h *Handler) log(r *http.Request) apt.Logger {
	return h.logger.With("request_id", r.Context().Value("request_id"))
}

func (h *Handler) parseTableParam(w http.ResponseWriter, r *http.Request, log apt.Logger) (int, bool) {
	tableStr := chi.URLParam(r, "table")
	table, err := strconv.Atoi(tableStr)
	if err != nil || table <= 0 {
		log.Debug("invalid table parameter", "table", tableStr)
		apt.RespondError(w, http.StatusBadRequest, "Table not specified")
		return 0, false
	}
	return table, true
}

func (h *Handler) parseDishIDParam(w http.ResponseWriter, r *http.Request, log apt.Logger) (uuid.UUID, bool) {
	idStr := chi.URLParam(r, "dishID")
	id, err := uuid.Parse(idStr)
	if err != nil {
		log.Debug("invalid dishID parameter", "dishID", idStr, "error", err)
		apt.RespondError(w, http.StatusBadRequest, "Invalid dishID parameter")
		return uuid.Nil, false
	}
	return id, true
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
