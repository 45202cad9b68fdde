package order

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"time"

	"github.com/appetiteclub/apt"
	"github.com/appetiteclub/apt/events"
	"github.com/appetiteclub/apt/telemetry"
	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/misterg2020/bistro-chat-connect/internal/cart"
	"github.com/misterg2020/bistro-chat-connect/internal/session"
	"github.com/misterg2020/bistro-chat-connect/internal/tables"
	"github.com/misterg2020/bistro-chat-connect/pkg/event"
)

const MaxBodyBytes = 1 << 20 // 1 MB

const sseKeepalive = 30 * time.Second

// HandlerDeps carries the collaborators the order handler needs.
type HandlerDeps struct {
	OrderRepo OrderRepo
	TableRepo tables.TableRepo
	Carts     *cart.Store
	Sessions  session.Store
	Publisher events.Publisher
	Stream    *EventStream
	// Gate protects kitchen-only routes. Nil means no gate, used by
	// tests that exercise order semantics directly.
	Gate func(http.Handler) http.Handler
}

// Handler handles HTTP requests for order submission and lifecycle
type Handler struct {
	deps   HandlerDeps
	logger apt.Logger
	config *apt.Config
	tlm    *telemetry.HTTP
}

// NewHandler creates a new Handler for order operations
func NewHandler(deps HandlerDeps, config *apt.Config, logger apt.Logger) *Handler {
	if logger == nil {
		logger = apt.NewNoopLogger()
	}
	return &Handler{
		deps:   deps,
		logger: logger,
		config: config,
		tlm:    telemetry.NewHTTP(),
	}
}

// RegisterRoutes registers all routes for orders
func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Post("/carts/{table}/checkout", h.BeginCheckout)
	r.Post("/carts/{table}/submit", h.SubmitOrder)

	r.Get("/orders/{id}", h.GetOrder)
	r.Get("/orders/{id}/events", h.StreamOrderEvents)

	gate := h.deps.Gate
	if gate == nil {
		gate = func(next http.Handler) http.Handler { return next }
	}
	r.Group(func(r chi.Router) {
		r.Use(gate)
		r.Get("/orders", h.ListOrders)
		r.Delete("/orders", h.ClearOrders)
		r.Post("/orders/{id}/advance", h.AdvanceOrder)
	})
}

type submitPayload struct {
	PaymentMethod string `json:"payment_method"`
}

// BeginCheckout handles POST /carts/{table}/checkout
func (h *Handler) BeginCheckout(w http.ResponseWriter, r *http.Request) {
	w, r, finish := h.tlm.Start(w, r, "Handler.BeginCheckout")
	defer finish()
	log := h.log(r)
	ctx := r.Context()

	table, ok := h.parseTableParam(w, r, log)
	if !ok {
		return
	}

	c, err := h.deps.Carts.Get(ctx, table)
	if err != nil {
		log.Error("cannot load cart", "error", err, "table", table)
		apt.RespondError(w, http.StatusInternalServerError, "Could not load cart")
		return
	}
	if c.IsEmpty() {
		apt.RespondError(w, http.StatusBadRequest, "Empty cart")
		return
	}

	co, err := h.loadCheckout(ctx, table)
	if err != nil {
		log.Error("cannot load checkout", "error", err, "table", table)
		apt.RespondError(w, http.StatusInternalServerError, "Could not load checkout")
		return
	}

	if co.State != CheckoutAwaitingPayment {
		if err := co.Begin(); err != nil {
			log.Debug("illegal checkout transition", "error", err, "state", co.State)
			apt.RespondError(w, http.StatusConflict, "Checkout already in progress")
			return
		}
	}

	if err := h.saveCheckout(ctx, co); err != nil {
		log.Error("cannot save checkout", "error", err, "table", table)
		apt.RespondError(w, http.StatusInternalServerError, "Could not save checkout")
		return
	}

	apt.RespondSuccess(w, co)
}

// SubmitOrder handles POST /carts/{table}/submit
func (h *Handler) SubmitOrder(w http.ResponseWriter, r *http.Request) {
	w, r, finish := h.tlm.Start(w, r, "Handler.SubmitOrder")
	defer finish()
	log := h.log(r)
	ctx := r.Context()

	table, ok := h.parseTableParam(w, r, log)
	if !ok {
		return
	}

	c, err := h.deps.Carts.Get(ctx, table)
	if err != nil {
		log.Error("cannot load cart", "error", err, "table", table)
		apt.RespondError(w, http.StatusInternalServerError, "Could not load cart")
		return
	}
	if c.IsEmpty() {
		apt.RespondError(w, http.StatusBadRequest, "Empty cart")
		return
	}

	var payload submitPayload
	if !h.decodePayload(w, r, log, &payload) {
		return
	}

	co, err := h.loadCheckout(ctx, table)
	if err != nil {
		log.Error("cannot load checkout", "error", err, "table", table)
		apt.RespondError(w, http.StatusInternalServerError, "Could not load checkout")
		return
	}

	switch co.State {
	case CheckoutIdle:
		// Submitting straight from the order page without an explicit
		// checkout call is fine; open one implicitly.
		if err := co.Begin(); err != nil {
			apt.RespondError(w, http.StatusConflict, "Checkout already in progress")
			return
		}
		fallthrough
	case CheckoutAwaitingPayment:
		if err := co.SelectPayment(payload.PaymentMethod); err != nil {
			log.Debug("payment selection rejected", "error", err, "method", payload.PaymentMethod)
			apt.RespondError(w, http.StatusBadRequest, "Invalid payment method")
			return
		}
	case CheckoutError:
		// Manual retry replays the stored payment method.
		if err := co.Retry(); err != nil {
			log.Debug("retry rejected", "error", err)
			apt.RespondError(w, http.StatusConflict, "Checkout cannot be retried")
			return
		}
	default:
		apt.RespondError(w, http.StatusConflict, "Checkout already in progress")
		return
	}

	resolved, err := h.deps.TableRepo.FindOrCreate(ctx, table)
	if err != nil {
		log.Error("table resolution failed", "error", err, "table", table)
		h.failCheckout(ctx, co, "Table resolution failed", log)
		apt.RespondError(w, http.StatusInternalServerError, "Table resolution failed")
		return
	}

	o := NewOrder()
	o.TableID = resolved.ID
	o.TableNumber = table
	o.PaymentMethod = co.PaymentMethod
	for _, item := range c.Items {
		o.Items = append(o.Items, LineItem{
			DishID:   item.DishID,
			Name:     item.Name,
			Price:    item.Price,
			Quantity: item.Quantity,
		})
	}
	o.BeforeCreate()

	if err := h.deps.OrderRepo.Create(ctx, o); err != nil {
		log.Error("order write failed", "error", err, "table", table)
		h.failCheckout(ctx, co, "Order write failed", log)
		apt.RespondError(w, http.StatusInternalServerError, "Order write failed")
		return
	}

	// The order is durable from here on. Cart and checkout cleanup are
	// best-effort; a stale cart is annoying, a lost order is not.
	if err := h.deps.Carts.Clear(ctx, table); err != nil {
		log.Error("cannot clear cart after submission", "error", err, "table", table)
	}
	if err := co.Complete(o.ID.String()); err == nil {
		if err := h.clearCheckout(ctx, table); err != nil {
			log.Error("cannot clear checkout after submission", "error", err, "table", table)
		}
	}

	h.publish(ctx, event.OrderEvent{
		EventType:   event.EventOrderCreated,
		OccurredAt:  time.Now().UTC(),
		OrderID:     o.ID.String(),
		TableID:     o.TableID.String(),
		TableNumber: o.TableNumber,
		NewStatus:   o.Status,
		ItemCount:   o.ItemCount(),
	}, log)

	links := apt.RESTfulLinksFor(o)
	w.WriteHeader(http.StatusCreated)
	apt.RespondSuccess(w, o, links...)
}

// GetOrder handles GET /orders/{id}
func (h *Handler) GetOrder(w http.ResponseWriter, r *http.Request) {
	w, r, finish := h.tlm.Start(w, r, "Handler.GetOrder")
	defer finish()
	log := h.log(r)
	ctx := r.Context()

	id, ok := h.parseIDParam(w, r, log)
	if !ok {
		return
	}

	o, err := h.deps.OrderRepo.Get(ctx, id)
	if err != nil {
		log.Error("error loading order", "error", err, "id", id.String())
		apt.RespondError(w, http.StatusNotFound, "Order not found")
		return
	}
	if o == nil {
		apt.RespondError(w, http.StatusNotFound, "Order not found")
		return
	}

	links := apt.RESTfulLinksFor(o)
	apt.RespondSuccess(w, o, links...)
}

// ListOrders handles GET /orders
func (h *Handler) ListOrders(w http.ResponseWriter, r *http.Request) {
	w, r, finish := h.tlm.Start(w, r, "Handler.ListOrders")
	defer finish()
	log := h.log(r)
	ctx := r.Context()

	orders, err := h.deps.OrderRepo.List(ctx)
	if err != nil {
		log.Error("cannot list orders", "error", err)
		apt.RespondError(w, http.StatusInternalServerError, "Could not list orders")
		return
	}

	apt.RespondCollection(w, orders, "orders")
}

// AdvanceOrder handles POST /orders/{id}/advance
func (h *Handler) AdvanceOrder(w http.ResponseWriter, r *http.Request) {
	w, r, finish := h.tlm.Start(w, r, "Handler.AdvanceOrder")
	defer finish()
	log := h.log(r)
	ctx := r.Context()

	id, ok := h.parseIDParam(w, r, log)
	if !ok {
		return
	}

	o, err := h.deps.OrderRepo.Get(ctx, id)
	if err != nil {
		log.Error("error loading order", "error", err, "id", id.String())
		apt.RespondError(w, http.StatusNotFound, "Order not found")
		return
	}
	if o == nil {
		apt.RespondError(w, http.StatusNotFound, "Order not found")
		return
	}

	previous := o.Status
	if !o.Advance() {
		// Terminal status; advancing is a no-op, not an error.
		apt.RespondSuccess(w, o)
		return
	}
	o.BeforeUpdate()

	if err := h.deps.OrderRepo.Save(ctx, o); err != nil {
		log.Error("cannot save order status", "error", err, "id", id.String())
		apt.RespondError(w, http.StatusInternalServerError, "Could not update order")
		return
	}

	h.publish(ctx, event.OrderEvent{
		EventType:      event.EventOrderStatusChanged,
		OccurredAt:     time.Now().UTC(),
		OrderID:        o.ID.String(),
		TableID:        o.TableID.String(),
		TableNumber:    o.TableNumber,
		NewStatus:      o.Status,
		PreviousStatus: previous,
	}, log)

	apt.RespondSuccess(w, o)
}

// ClearOrders handles DELETE /orders
func (h *Handler) ClearOrders(w http.ResponseWriter, r *http.Request) {
	w, r, finish := h.tlm.Start(w, r, "Handler.ClearOrders")
	defer finish()
	log := h.log(r)
	ctx := r.Context()

	if err := h.deps.OrderRepo.DeleteAll(ctx); err != nil {
		log.Error("cannot clear orders", "error", err)
		apt.RespondError(w, http.StatusInternalServerError, "Could not clear orders")
		return
	}

	h.publish(ctx, event.OrderEvent{
		EventType:  event.EventOrdersCleared,
		OccurredAt: time.Now().UTC(),
	}, log)

	w.WriteHeader(http.StatusNoContent)
}

// StreamOrderEvents handles GET /orders/{id}/events. It pushes the
// order's current status immediately, then every status change for that
// order until the client disconnects.
func (h *Handler) StreamOrderEvents(w http.ResponseWriter, r *http.Request) {
	log := h.log(r)
	ctx := r.Context()

	id, ok := h.parseIDParam(w, r, log)
	if !ok {
		return
	}

	o, err := h.deps.OrderRepo.Get(ctx, id)
	if err != nil || o == nil {
		if err != nil {
			log.Error("error loading order for stream", "error", err, "id", id.String())
		}
		apt.RespondError(w, http.StatusNotFound, "Order not found")
		return
	}

	flusher, ok := w.(http.Flusher)
	if !ok {
		apt.RespondError(w, http.StatusInternalServerError, "Streaming unsupported")
		return
	}

	subID := apt.GenerateNewID().String()
	ch := h.deps.Stream.Subscribe(subID)
	defer h.deps.Stream.Unsubscribe(subID)

	writeSSEHeaders(w)
	fmt.Fprint(w, ": connected\n\n")
	fmt.Fprint(w, "retry: 2000\n\n")

	// Initial snapshot so the client never waits for the first change.
	writeSSEEvent(w, "status", event.OrderEvent{
		EventType:   event.EventOrderStatusChanged,
		OccurredAt:  time.Now().UTC(),
		OrderID:     o.ID.String(),
		TableID:     o.TableID.String(),
		TableNumber: o.TableNumber,
		NewStatus:   o.Status,
	})
	flusher.Flush()

	keepalive := time.NewTicker(sseKeepalive)
	defer keepalive.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-keepalive.C:
			fmt.Fprint(w, ": keepalive\n\n")
			flusher.Flush()
		case evt, open := <-ch:
			if !open {
				return
			}
			if evt.OrderID != id.String() && evt.EventType != event.EventOrdersCleared {
				continue
			}
			writeSSEEvent(w, "status", evt)
			flusher.Flush()
		}
	}
}

// Checkout persistence

func checkoutKey(tableNumber int) string {
	return fmt.Sprintf("checkout:%d", tableNumber)
}

func (h *Handler) loadCheckout(ctx context.Context, table int) (*Checkout, error) {
	value, ok, err := h.deps.Sessions.Get(ctx, checkoutKey(table))
	if err != nil {
		return nil, err
	}
	if !ok {
		return NewCheckout(table), nil
	}
	var co Checkout
	if err := json.Unmarshal(value, &co); err != nil {
		return nil, err
	}
	return &co, nil
}

func (h *Handler) saveCheckout(ctx context.Context, co *Checkout) error {
	value, err := json.Marshal(co)
	if err != nil {
		return err
	}
	return h.deps.Sessions.Set(ctx, checkoutKey(co.TableNumber), value)
}

func (h *Handler) clearCheckout(ctx context.Context, table int) error {
	return h.deps.Sessions.Delete(ctx, checkoutKey(table))
}

func (h *Handler) failCheckout(ctx context.Context, co *Checkout, message string, log apt.Logger) {
	if err := co.Fail(message, true); err != nil {
		log.Debug("cannot record checkout failure", "error", err)
		return
	}
	if err := h.saveCheckout(ctx, co); err != nil {
		log.Error("cannot save failed checkout", "error", err, "table", co.TableNumber)
	}
}

// Helper methods

func (h *Handler) log(r *http.Request) apt.Logger {
	return h.logger.With("request_id", r.Context().Value("request_id"))
}

func (h *Handler) publish(ctx context.Context, evt event.OrderEvent, log apt.Logger) {
	if h.deps.Publisher == nil {
		return
	}
	payload, err := json.Marshal(evt)
	if err != nil {
		log.Error("cannot marshal order event", "error", err)
		return
	}
	if err := h.deps.Publisher.Publish(ctx, event.OrdersTopic, payload); err != nil {
		log.Error("cannot publish order event", "error", err, "event", evt.EventType)
	}
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

func (h *Handler) parseIDParam(w http.ResponseWriter, r *http.Request, log apt.Logger) (uuid.UUID, bool) {
	idStr := chi.URLParam(r, "id")
	if idStr == "" {
		log.Debug("missing id parameter")
		apt.RespondError(w, http.StatusBadRequest, "Missing id parameter")
		return uuid.Nil, false
	}

	id, err := uuid.Parse(idStr)
	if err != nil {
		log.Debug("invalid id parameter", "id", idStr, "error", err)
		apt.RespondError(w, http.StatusBadRequest, "Invalid id parameter")
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

func writeSSEHeaders(w http.ResponseWriter) {
	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")
	w.Header().Set("X-Accel-Buffering", "no")
}

func writeSSEEvent(w io.Writer, name string, evt event.OrderEvent) {
	payload, err := json.Marshal(evt)
	if err != nil {
		return
	}
	fmt.Fprintf(w, "event: %s\ndata: %s\n\n", name, payload)
}
