package appointment

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"medix/internal/platform/middleware"
	"medix/internal/transport/http/shared"
	dErrors "medix/pkg/domain-errors"
)

// Handler serves /agendamentos. The access matrix guarantees an
// authenticated caller by the time these handlers run.
type Handler struct {
	appointments *Service
}

func NewHandler(appointments *Service) *Handler {
	return &Handler{appointments: appointments}
}

func (h *Handler) Register(r chi.Router) {
	r.Route("/agendamentos", func(r chi.Router) {
		r.Post("/", h.handleCreate)
		r.Get("/", h.handleList)
		r.Get("/{id}", h.handleGet)
		r.Delete("/{id}", h.handleCancel)
	})
}

func (h *Handler) handleCreate(w http.ResponseWriter, r *http.Request) {
	usuarioID, err := callerID(r)
	if err != nil {
		shared.WriteError(w, err)
		return
	}

	var req CreateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		shared.WriteError(w, dErrors.New(dErrors.CodeBadRequest, "invalid request body"))
		return
	}

	created, err := h.appointments.Create(r.Context(), usuarioID, req)
	if err != nil {
		shared.WriteError(w, err)
		return
	}
	shared.WriteJSON(w, http.StatusCreated, created)
}

func (h *Handler) handleList(w http.ResponseWriter, r *http.Request) {
	usuarioID, err := callerID(r)
	if err != nil {
		shared.WriteError(w, err)
		return
	}

	all, err := h.appointments.List(r.Context(), usuarioID, isCollaborator(r))
	if err != nil {
		shared.WriteError(w, err)
		return
	}
	if all == nil {
		all = []Appointment{}
	}
	shared.WriteJSON(w, http.StatusOK, all)
}

func (h *Handler) handleGet(w http.ResponseWriter, r *http.Request) {
	usuarioID, err := callerID(r)
	if err != nil {
		shared.WriteError(w, err)
		return
	}
	id, err := parseID(r)
	if err != nil {
		shared.WriteError(w, err)
		return
	}

	found, err := h.appointments.Get(r.Context(), usuarioID, isCollaborator(r), id)
	if err != nil {
		shared.WriteError(w, err)
		return
	}
	shared.WriteJSON(w, http.StatusOK, found)
}

func (h *Handler) handleCancel(w http.ResponseWriter, r *http.Request) {
	usuarioID, err := callerID(r)
	if err != nil {
		shared.WriteError(w, err)
		return
	}
	id, err := parseID(r)
	if err != nil {
		shared.WriteError(w, err)
		return
	}

	if err := h.appointments.Cancel(r.Context(), usuarioID, isCollaborator(r), id); err != nil {
		shared.WriteError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func callerID(r *http.Request) (int64, error) {
	id, err := strconv.ParseInt(middleware.GetUserID(r.Context()), 10, 64)
	if err != nil {
		return 0, dErrors.New(dErrors.CodeUnauthorized, "authentication required")
	}
	return id, nil
}

func isCollaborator(r *http.Request) bool {
	return middleware.GetRole(r.Context()) == middleware.RoleCollaborator
}

func parseID(r *http.Request) (int64, error) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		return 0, dErrors.New(dErrors.CodeBadRequest, "id must be an integer")
	}
	return id, nil
}
