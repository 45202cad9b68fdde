package kitchen

import (
	"crypto/subtle"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/appetiteclub/apt"
	"github.com/appetiteclub/apt/telemetry"
	"github.com/go-chi/chi/v5"
	"github.com/misterg2020/bistro-chat-connect/internal/order"
	"github.com/misterg2020/bistro-chat-connect/pkg/event"
)

const MaxBodyBytes = 1 << 20 // 1 MB

const sseKeepalive = 30 * time.Second

// Handler handles HTTP requests for the kitchen surface: the access
// gate, the board and the board's event stream.
type Handler struct {
	tokens   *TokenStore
	board    *BoardCache
	stream   *order.EventStream
	password string
	logger   apt.Logger
	config   *apt.Config
	tlm      *telemetry.HTTP
}

// NewHandler creates a new Handler for kitchen operations
func NewHandler(tokens *TokenStore, board *BoardCache, stream *order.EventStream, password string, config *apt.Config, logger apt.Logger) *Handler {
	if logger == nil {
		logger = apt.NewNoopLogger()
	}
	return &Handler{
		tokens:   tokens,
		board:    board,
		stream:   stream,
		password: password,
		logger:   logger,
		config:   config,
		tlm:      telemetry.NewHTTP(),
	}
}

// RegisterRoutes registers all routes for the kitchen surface
func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Route("/kitchen", func(r chi.Router) {
		r.Post("/login", h.Login)
		r.Post("/logout", h.Logout)

		r.Group(func(r chi.Router) {
			r.Use(h.RequireSession)
			r.Get("/board", h.GetBoard)
			r.Get("/events", h.StreamEvents)
		})
	})
}

// RequireSession rejects requests without a valid bearer session token.
func (h *Handler) RequireSession(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		token := bearerToken(r)
		if token == "" {
			apt.RespondError(w, http.StatusUnauthorized, "Missing session token")
			return
		}
		if err := h.tokens.Validate(token); err != nil {
			h.log(r).Debug("session token rejected", "error", err)
			apt.RespondError(w, http.StatusUnauthorized, "Invalid or expired session")
			return
		}
		next.ServeHTTP(w, r)
	})
}

type loginPayload struct {
	Password string `json:"password"`
}

type loginResponse struct {
	Token string `json:"token"`
}

// Login handles POST /kitchen/login
func (h *Handler) Login(w http.ResponseWriter, r *http.Request) {
	w, r, finish := h.tlm.Start(w, r, "Handler.Login")
	defer finish()
	log := h.log(r)

	var payload loginPayload
	if !h.decodePayload(w, r, log, &payload) {
		return
	}

	if h.password == "" {
		log.Error("kitchen password is not configured")
		apt.RespondError(w, http.StatusServiceUnavailable, "Kitchen access is not configured")
		return
	}

	if subtle.ConstantTimeCompare([]byte(payload.Password), []byte(h.password)) != 1 {
		log.Debug("kitchen login rejected")
		apt.RespondError(w, http.StatusUnauthorized, "Incorrect password")
		return
	}

	token, err := h.tokens.Create()
	if err != nil {
		log.Error("cannot create session token", "error", err)
		apt.RespondError(w, http.StatusInternalServerError, "Could not create session")
		return
	}

	apt.RespondSuccess(w, loginResponse{Token: token})
}

// Logout handles POST /kitchen/logout
func (h *Handler) Logout(w http.ResponseWriter, r *http.Request) {
	w, r, finish := h.tlm.Start(w, r, "Handler.Logout")
	defer finish()

	if token := bearerToken(r); token != "" {
		h.tokens.Invalidate(token)
	}

	w.WriteHeader(http.StatusNoContent)
}

// GetBoard handles GET /kitchen/board
func (h *Handler) GetBoard(w http.ResponseWriter, r *http.Request) {
	w, r, finish := h.tlm.Start(w, r, "Handler.GetBoard")
	defer finish()

	apt.RespondSuccess(w, map[string]interface{}{
		"groups": h.board.Groups(),
	})
}

// StreamEvents handles GET /kitchen/events. Every order change reaches
// the board, which refetches on each one.
func (h *Handler) StreamEvents(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	flusher, ok := w.(http.Flusher)
	if !ok {
		apt.RespondError(w, http.StatusInternalServerError, "Streaming unsupported")
		return
	}

	subID := apt.GenerateNewID().String()
	ch := h.stream.Subscribe(subID)
	defer h.stream.Unsubscribe(subID)

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")
	w.Header().Set("X-Accel-Buffering", "no")
	fmt.Fprint(w, ": connected\n\n")
	fmt.Fprint(w, "retry: 2000\n\n")
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
			payload, err := json.Marshal(evt)
			if err != nil {
				continue
			}
			fmt.Fprintf(w, "event: %s\ndata: %s\n\n", sseEventName(evt), payload)
			flusher.Flush()
		}
	}
}

func sseEventName(evt event.OrderEvent) string {
	switch evt.EventType {
	case event.EventOrderCreated:
		return "created"
	case event.EventOrdersCleared:
		return "cleared"
	default:
		return "status"
	}
}

// Helper methods

func (h *Handler) log(r *http.Request) apt.Logger {
	return h.logger.With("request_id", r.Context().Value("request_id"))
}

func bearerToken(r *http.Request) string {
	auth := r.Header.Get("Authorization")
	if !strings.HasPrefix(auth, "Bearer ") {
		return ""
	}
	return strings.TrimPrefix(auth, "Bearer ")
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
