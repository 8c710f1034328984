package internalhttp

import (
	"encoding/json"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"
	log "github.com/sirupsen/logrus"

	"github.com/dkovalev/reminder/internal/app"
	"github.com/dkovalev/reminder/internal/metrics"
	"github.com/dkovalev/reminder/internal/storage"
)

const (
	errRequiredFields = "Title and time are required."
	errIncorrectTime  = "Time must be a valid ISO-8601 datetime."
)

type handler struct {
	app      *app.App
	validate *validator.Validate
}

type createEventRequest struct {
	Title       string `json:"title" validate:"required"`
	Description string `json:"description"`
	Time        string `json:"time" validate:"required"`
}

type createEventResponse struct {
	Message string        `json:"message"`
	Event   storage.Event `json:"event"`
}

func newHandler(app *app.App) *handler {
	return &handler{app: app, validate: validator.New()}
}

func (h *handler) createEvent(w http.ResponseWriter, r *http.Request) {
	var req createEventRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, errRequiredFields, http.StatusBadRequest)
		return
	}
	if err := h.validate.Struct(req); err != nil {
		http.Error(w, errRequiredFields, http.StatusBadRequest)
		return
	}

	// Any parseable instant is accepted, even one in the past; such an
	// event simply completes on the next sweep.
	t, err := time.Parse(time.RFC3339, req.Time)
	if err != nil {
		http.Error(w, errIncorrectTime, http.StatusBadRequest)
		return
	}

	event, err := h.app.CreateEvent(r.Context(), req.Title, req.Description, t)
	if err != nil {
		log.Errorf("failed to create event: %v", err)
		http.Error(w, "failed to create event", http.StatusInternalServerError)
		return
	}
	metrics.EventsCreated.Inc()

	writeJSON(w, http.StatusCreated, createEventResponse{Message: "Event added", Event: event})
}

func (h *handler) listEvents(w http.ResponseWriter, r *http.Request) {
	events, err := h.app.ListUpcoming(r.Context(), time.Now())
	if err != nil {
		log.Errorf("failed to list events: %v", err)
		http.Error(w, "failed to list events", http.StatusInternalServerError)
		return
	}
	writeJSON(w, http.StatusOK, events)
}

func (h *handler) removeEvent(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		http.Error(w, "event id must be an integer", http.StatusBadRequest)
		return
	}
	if err := h.app.RemoveEvent(r.Context(), id); err != nil {
		log.Errorf("failed to remove event %d: %v", id, err)
		http.Error(w, "failed to remove event", http.StatusInternalServerError)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *handler) healthz(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func writeJSON(w http.ResponseWriter, status int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		log.Errorf("failed to write response: %v", err)
	}
}
