package httpapi

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"devplace/pkg/types"
)

// Service defines the methods required by the HTTP API layer.
type Service interface {
	ListModels() []types.Model
	Probe() (types.ProbeResponse, error)
	BatchSize() (types.BatchSizeResponse, error)
	Place(ctx context.Context, req types.PlaceRequest) (types.Placement, error)
	Unplace(id string) error
	Placements() []types.Placement
	Status() types.StatusResponse
	Ready() bool
}

type handlers struct {
	svc Service
}

func NewMux(svc Service) http.Handler {
	r := chi.NewRouter()
	// Basic middlewares: request id, real ip, recoverer
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)
	r.Use(InflightMiddleware)
	r.Use(MetricsMiddleware)
	if corsEnabled {
		r.Use(cors.Handler(cors.Options{
			AllowedOrigins: corsAllowedOrigins,
			AllowedMethods: corsAllowedMethods,
			AllowedHeaders: corsAllowedHeaders,
			MaxAge:         300,
		}))
	}
	// Security headers
	r.Use(func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("X-Content-Type-Options", "nosniff")
			next.ServeHTTP(w, r)
		})
	})

	h := &handlers{svc: svc}
	r.Get("/models", h.models)
	r.Get("/status", h.status)
	r.Get("/probe", h.probe)
	r.Get("/batch-size", h.batchSize)
	r.Get("/placements", h.placements)
	r.Delete("/placements/{id}", h.unplace)
	r.Post("/place", h.place)

	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})
	r.Get("/readyz", func(w http.ResponseWriter, r *http.Request) {
		if svc.Ready() {
			w.WriteHeader(http.StatusOK)
			_, _ = w.Write([]byte("ready"))
			return
		}
		w.WriteHeader(http.StatusServiceUnavailable)
		_, _ = w.Write([]byte("loading"))
	})

	// Prometheus metrics endpoint
	r.Get("/metrics", promhttp.Handler().ServeHTTP)
	MountSwagger(r)

	return r
}

// models godoc
// @Summary      List models
// @Description  Models discovered in the models directory.
// @Tags         models
// @Produce      json
// @Success      200  {object}  types.ModelsResponse
// @Router       /models [get]
func (h *handlers) models(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, types.ModelsResponse{Models: h.svc.ListModels()})
}

// status godoc
// @Summary      Service status
// @Tags         status
// @Produce      json
// @Success      200  {object}  types.StatusResponse
// @Router       /status [get]
func (h *handlers) status(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, h.svc.Status())
}

// probe godoc
// @Summary      Accelerator capabilities
// @Tags         placement
// @Produce      json
// @Success      200  {object}  types.ProbeResponse
// @Failure      500  {object}  types.ErrorResponse
// @Router       /probe [get]
func (h *handlers) probe(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	resp, err := h.svc.Probe()
	if err != nil {
		writeJSONError(w, statusForError(err), err.Error())
		logRequestEnd(r, statusForError(err), start, err)
		return
	}
	writeJSON(w, resp)
}

// batchSize godoc
// @Summary      Default inference batch size
// @Description  Heuristic batch size derived from the detected accelerator.
// @Tags         placement
// @Produce      json
// @Success      200  {object}  types.BatchSizeResponse
// @Failure      500  {object}  types.ErrorResponse
// @Router       /batch-size [get]
func (h *handlers) batchSize(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	resp, err := h.svc.BatchSize()
	if err != nil {
		writeJSONError(w, statusForError(err), err.Error())
		logRequestEnd(r, statusForError(err), start, err)
		return
	}
	writeJSON(w, resp)
}

// placements godoc
// @Summary      Current placements
// @Tags         placement
// @Produce      json
// @Success      200  {object}  types.PlacementsResponse
// @Router       /placements [get]
func (h *handlers) placements(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, types.PlacementsResponse{Placements: h.svc.Placements()})
}

// unplace godoc
// @Summary      Forget a placement
// @Tags         placement
// @Param        id   path  string  true  "Model id"
// @Success      204
// @Failure      404  {object}  types.ErrorResponse
// @Router       /placements/{id} [delete]
func (h *handlers) unplace(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	if err := h.svc.Unplace(chi.URLParam(r, "id")); err != nil {
		writeJSONError(w, statusForError(err), err.Error())
		logRequestEnd(r, statusForError(err), start, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
	logRequestEnd(r, http.StatusNoContent, start, nil)
}

// place godoc
// @Summary      Place a model
// @Description  Moves a model onto the best available accelerator. Unset flags use the server defaults.
// @Tags         placement
// @Accept       json
// @Produce      json
// @Param        request  body      types.PlaceRequest  true  "Placement request"
// @Success      200      {object}  types.Placement
// @Failure      400      {object}  types.ErrorResponse
// @Failure      404      {object}  types.ErrorResponse
// @Failure      415      {object}  types.ErrorResponse
// @Failure      503      {object}  types.ErrorResponse
// @Failure      504      {object}  types.ErrorResponse
// @Router       /place [post]
func (h *handlers) place(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	ct := r.Header.Get("Content-Type")
	if ct == "" || !strings.HasPrefix(strings.ToLower(ct), "application/json") {
		incrementPlaceRejected("content_type")
		writeJSONError(w, http.StatusUnsupportedMediaType, "Content-Type must be application/json")
		return
	}
	// Limit body size (configurable, default 1MiB)
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	var req types.PlaceRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		incrementPlaceRejected("invalid_json")
		writeJSONError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}
	if strings.TrimSpace(req.Model) == "" {
		incrementPlaceRejected("missing_model")
		writeJSONError(w, http.StatusBadRequest, "model is required")
		return
	}

	ctx, cancel := workContext(r)
	defer cancel()
	rec, err := h.svc.Place(ctx, req)
	if err != nil {
		// client went away or server is shutting down
		if r.Context().Err() != nil || serverBaseCtx.Err() != nil {
			return
		}
		status := statusForError(err)
		writeJSONError(w, status, err.Error())
		logRequestEnd(r, status, start, err)
		return
	}
	writeJSON(w, rec)
	logRequestEnd(r, http.StatusOK, start, nil)
}
