package menu

import (
	"encoding/json"
	"io"
	"net/http"

	"github.com/appetiteclub/apt"
	"github.com/appetiteclub/apt/telemetry"
	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
)

const MaxBodyBytes = 1 << 20 // 1 MB

// FeaturedCount is how many dishes the featured strip shows.
const FeaturedCount = 3

// Listing is the response shape for dish listings. Source tells clients
// whether the dishes came from the live catalog or the built-in demo
// fallback, so degraded mode stays visible instead of masquerading as
// real data.
type Listing struct {
	Dishes     []*Dish  `json:"dishes"`
	Categories []string `json:"categories"`
	Source     string   `json:"source"`
}

// Handler handles HTTP requests for the menu catalog
type Handler struct {
	repo   DishRepo
	logger apt.Logger
	config *apt.Config
	tlm    *telemetry.HTTP
}

// NewHandler creates a new Handler for menu operations
func NewHandler(repo DishRepo, config *apt.Config, logger apt.Logger) *Handler {
	if logger == nil {
		logger = apt.NewNoopLogger()
	}
	return &Handler{
		repo:   repo,
		logger: logger,
		config: config,
		tlm:    telemetry.NewHTTP(),
	}
}

// RegisterRoutes registers all routes for the menu catalog
func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Route("/menu", func(r chi.Router) {
		r.Route("/dishes", func(r chi.Router) {
			r.Get("/", h.ListDishes)
			r.Get("/featured", h.FeaturedDishes)
			r.Post("/", h.CreateDish)
			r.Get("/{id}", h.GetDish)
			r.Put("/{id}", h.UpdateDish)
			r.Delete("/{id}", h.DeleteDish)
		})
	})
}

// ListDishes handles GET /menu/dishes
func (h *Handler) ListDishes(w http.ResponseWriter, r *http.Request) {
	w, r, finish := h.tlm.Start(w, r, "Handler.ListDishes")
	defer finish()
	log := h.log(r)
	ctx := r.Context()

	query := r.URL.Query().Get("search")
	category := r.URL.Query().Get("category")

	dishes, err := h.repo.Search(ctx, query, category)
	source := SourceCatalog
	if err != nil {
		log.Error("cannot list dishes, serving fallback catalog", "error", err)
		dishes = filterFallback(query, category)
		source = SourceFallback
	} else if len(dishes) == 0 && query == "" && category == "" {
		log.Info("catalog is empty, serving fallback catalog")
		dishes = FallbackDishes()
		source = SourceFallback
	}

	apt.RespondSuccess(w, Listing{
		Dishes:     dishes,
		Categories: Categories(dishes),
		Source:     source,
	})
}

// FeaturedDishes handles GET /menu/dishes/featured
func (h *Handler) FeaturedDishes(w http.ResponseWriter, r *http.Request) {
	w, r, finish := h.tlm.Start(w, r, "Handler.FeaturedDishes")
	defer finish()
	log := h.log(r)
	ctx := r.Context()

	dishes, err := h.repo.List(ctx)
	source := SourceCatalog
	if err != nil || len(dishes) == 0 {
		if err != nil {
			log.Error("cannot load featured dishes, serving fallback catalog", "error", err)
		}
		dishes = FallbackDishes()
		source = SourceFallback
	}

	if len(dishes) > FeaturedCount {
		dishes = dishes[:FeaturedCount]
	}

	apt.RespondSuccess(w, Listing{
		Dishes:     dishes,
		Categories: Categories(dishes),
		Source:     source,
	})
}

// CreateDish handles POST /menu/dishes
func (h *Handler) CreateDish(w http.ResponseWriter, r *http.Request) {
	w, r, finish := h.tlm.Start(w, r, "Handler.CreateDish")
	defer finish()
	log := h.log(r)
	ctx := r.Context()

	dish, ok := h.decodeDishPayload(w, r, log)
	if !ok {
		return
	}

	dish.EnsureID()
	dish.BeforeCreate()

	if validationErrors := ValidateCreateDish(dish); len(validationErrors) > 0 {
		log.Debug("validation failed", "errors", validationErrors)
		h.respondValidationErrors(w, validationErrors)
		return
	}

	if err := h.repo.Create(ctx, dish); err != nil {
		log.Error("cannot create dish", "error", err)
		apt.RespondError(w, http.StatusInternalServerError, "Could not create dish")
		return
	}

	links := apt.RESTfulLinksFor(dish)
	w.WriteHeader(http.StatusCreated)
	apt.RespondSuccess(w, dish, links...)
}

// GetDish handles GET /menu/dishes/{id}
func (h *Handler) GetDish(w http.ResponseWriter, r *http.Request) {
	w, r, finish := h.tlm.Start(w, r, "Handler.GetDish")
	defer finish()
	log := h.log(r)
	ctx := r.Context()

	id, ok := h.parseIDParam(w, r, log)
	if !ok {
		return
	}

	dish, err := h.repo.Get(ctx, id)
	if err != nil {
		log.Error("error loading dish", "error", err, "id", id.String())
		apt.RespondError(w, http.StatusNotFound, "Dish not found")
		return
	}

	if dish == nil {
		apt.RespondError(w, http.StatusNotFound, "Dish not found")
		return
	}

	links := apt.RESTfulLinksFor(dish)
	apt.RespondSuccess(w, dish, links...)
}

// UpdateDish handles PUT /menu/dishes/{id}
func (h *Handler) UpdateDish(w http.ResponseWriter, r *http.Request) {
	w, r, finish := h.tlm.Start(w, r, "Handler.UpdateDish")
	defer finish()
	log := h.log(r)
	ctx := r.Context()

	id, ok := h.parseIDParam(w, r, log)
	if !ok {
		return
	}

	dish, ok := h.decodeDishPayload(w, r, log)
	if !ok {
		return
	}

	dish.ID = id
	dish.BeforeUpdate()

	if validationErrors := ValidateUpdateDish(dish); len(validationErrors) > 0 {
		log.Debug("validation failed", "errors", validationErrors)
		h.respondValidationErrors(w, validationErrors)
		return
	}

	if err := h.repo.Save(ctx, dish); err != nil {
		log.Error("cannot update dish", "error", err)
		apt.RespondError(w, http.StatusInternalServerError, "Could not update dish")
		return
	}

	links := apt.RESTfulLinksFor(dish)
	apt.RespondSuccess(w, dish, links...)
}

// DeleteDish handles DELETE /menu/dishes/{id}
func (h *Handler) DeleteDish(w http.ResponseWriter, r *http.Request) {
	w, r, finish := h.tlm.Start(w, r, "Handler.DeleteDish")
	defer finish()
	log := h.log(r)
	ctx := r.Context()

	id, ok := h.parseIDParam(w, r, log)
	if !ok {
		return
	}

	if err := h.repo.Delete(ctx, id); err != nil {
		log.Error("cannot delete dish", "error", err)
		apt.RespondError(w, http.StatusInternalServerError, "Could not delete dish")
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// Helper methods

func (h *Handler) log(r *http.Request) apt.Logger {
	return h.logger.With("request_id", r.Context().Value("request_id"))
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

func (h *Handler) decodeDishPayload(w http.ResponseWriter, r *http.Request, log apt.Logger) (*Dish, bool) {
	r.Body = http.MaxBytesReader(w, r.Body, MaxBodyBytes)
	defer r.Body.Close()

	body, err := io.ReadAll(r.Body)
	if err != nil {
		log.Debug("error reading request body", "error", err)
		apt.RespondError(w, http.StatusBadRequest, "Could not read request body")
		return nil, false
	}

	var dish Dish
	if err := json.Unmarshal(body, &dish); err != nil {
		log.Debug("error decoding JSON", "error", err)
		apt.RespondError(w, http.StatusBadRequest, "Invalid JSON payload")
		return nil, false
	}

	return &dish, true
}

func (h *Handler) respondValidationErrors(w http.ResponseWriter, errors []ValidationError) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusBadRequest)
	json.NewEncoder(w).Encode(map[string]interface{}{
		"error":  "Validation failed",
		"errors": errors,
	})
}
