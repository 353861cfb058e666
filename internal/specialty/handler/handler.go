package handler

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"medix/internal/platform/middleware"
	"medix/internal/specialty/models"
	"medix/internal/transport/http/shared"
	dErrors "medix/pkg/domain-errors"
)

// Service defines the especialidade operations the handler needs.
type Service interface {
	Create(ctx context.Context, nome string) (*models.Specialty, error)
	Get(ctx context.Context, id int64) (*models.Specialty, error)
	List(ctx context.Context) ([]models.Specialty, error)
	Update(ctx context.Context, id int64, nome string) (*models.Specialty, error)
	Delete(ctx context.Context, id int64) error
}

// Handler serves /especialidades, including the procedure demo sub-routes.
type Handler struct {
	specialties Service
	logger      *slog.Logger
}

func New(specialties Service, logger *slog.Logger) *Handler {
	return &Handler{specialties: specialties, logger: logger}
}

// Register mounts the especialidade routes. Static demo routes are declared
// alongside the {id} routes; chi prefers static segments, so they never shadow
// each other.
func (h *Handler) Register(r chi.Router) {
	r.Route("/especialidades", func(r chi.Router) {
		r.Post("/", h.handleCreate)
		r.Get("/", h.handleList)
		r.Get("/{id}", h.handleGet)
		r.Put("/{id}", h.handleUpdate)
		r.Delete("/{id}", h.handleDelete)

		r.Post("/demo-procedures/insert", h.handleDemoInsert)
		r.Patch("/demo-procedures/update", h.handleDemoUpdate)
		r.Delete("/demo-procedures/delete", h.handleDemoDelete)
	})
}

func (h *Handler) handleCreate(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var req models.UpsertRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		shared.WriteError(w, dErrors.New(dErrors.CodeBadRequest, "invalid request body"))
		return
	}

	created, err := h.specialties.Create(ctx, req.Nome)
	if err != nil {
		h.logFailure(ctx, "create especialidade", err)
		shared.WriteError(w, err)
		return
	}

	w.Header().Set("Location", fmt.Sprintf("/especialidades/%d", created.ID))
	shared.WriteJSON(w, http.StatusCreated, created)
}

func (h *Handler) handleList(w http.ResponseWriter, r *http.Request) {
	all, err := h.specialties.List(r.Context())
	if err != nil {
		h.logFailure(r.Context(), "list especialidades", err)
		shared.WriteError(w, err)
		return
	}
	if all == nil {
		all = []models.Specialty{}
	}
	shared.WriteJSON(w, http.StatusOK, all)
}

func (h *Handler) handleGet(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		shared.WriteError(w, err)
		return
	}

	found, err := h.specialties.Get(r.Context(), id)
	if err != nil {
		shared.WriteError(w, err)
		return
	}
	shared.WriteJSON(w, http.StatusOK, found)
}

func (h *Handler) handleUpdate(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		shared.WriteError(w, err)
		return
	}

	var req models.UpsertRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		shared.WriteError(w, dErrors.New(dErrors.CodeBadRequest, "invalid request body"))
		return
	}

	updated, err := h.specialties.Update(r.Context(), id, req.Nome)
	if err != nil {
		h.logFailure(r.Context(), "update especialidade", err)
		shared.WriteError(w, err)
		return
	}
	shared.WriteJSON(w, http.StatusOK, updated)
}

func (h *Handler) handleDelete(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		shared.WriteError(w, err)
		return
	}

	if err := h.specialties.Delete(r.Context(), id); err != nil {
		h.logFailure(r.Context(), "delete especialidade", err)
		shared.WriteError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// handleDemoInsert runs the insert procedure twice with generated names. The
// UUID suffix keeps the unique index from rejecting repeated demo runs.
func (h *Handler) handleDemoInsert(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	suffix := uuid.NewString()[:8]

	nameA := "PROC-Especialidade-A-" + suffix
	nameB := "PROC-Especialidade-B-" + suffix
	for _, nome := range []string{nameA, nameB} {
		if _, err := h.specialties.Create(ctx, nome); err != nil {
			h.logFailure(ctx, "demo insert especialidade", err)
			shared.WriteError(w, err)
			return
		}
	}

	shared.WriteText(w, http.StatusOK, fmt.Sprintf(
		"2 especialidades (%s e %s) inseridas via procedure. Verifique /especialidades.",
		nameA, nameB))
}

func (h *Handler) handleDemoUpdate(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	id1, err := queryID(r, "id1")
	if err != nil {
		shared.WriteError(w, err)
		return
	}
	id2, err := queryID(r, "id2")
	if err != nil {
		shared.WriteError(w, err)
		return
	}

	if _, err := h.specialties.Update(ctx, id1, "PROC-UPDT-A"); err != nil {
		h.logFailure(ctx, "demo update especialidade", err)
		shared.WriteError(w, err)
		return
	}
	if _, err := h.specialties.Update(ctx, id2, "PROC-UPDT-B"); err != nil {
		h.logFailure(ctx, "demo update especialidade", err)
		shared.WriteError(w, err)
		return
	}

	shared.WriteText(w, http.StatusOK, fmt.Sprintf(
		"Especialidades %d e %d atualizadas via procedure. Verifique /especialidades.", id1, id2))
}

func (h *Handler) handleDemoDelete(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	id1, err := queryID(r, "id1")
	if err != nil {
		shared.WriteError(w, err)
		return
	}
	id2, err := queryID(r, "id2")
	if err != nil {
		shared.WriteError(w, err)
		return
	}

	for _, id := range []int64{id1, id2} {
		if err := h.specialties.Delete(ctx, id); err != nil {
			h.logFailure(ctx, "demo delete especialidade", err)
			shared.WriteError(w, err)
			return
		}
	}

	w.WriteHeader(http.StatusNoContent)
}

// logFailure records server-side failures; expected client errors stay quiet.
func (h *Handler) logFailure(ctx context.Context, op string, err error) {
	if dErrors.Is(err, dErrors.CodeInternal) || dErrors.Is(err, dErrors.CodeReconciliation) {
		h.logger.ErrorContext(ctx, op+" failed",
			"error", err,
			"request_id", middleware.GetRequestID(ctx),
		)
	}
}

func pathID(r *http.Request, name string) (int64, error) {
	id, err := strconv.ParseInt(chi.URLParam(r, name), 10, 64)
	if err != nil {
		return 0, dErrors.New(dErrors.CodeBadRequest, name+" must be an integer")
	}
	return id, nil
}

func queryID(r *http.Request, name string) (int64, error) {
	id, err := strconv.ParseInt(r.URL.Query().Get(name), 10, 64)
	if err != nil {
		return 0, dErrors.New(dErrors.CodeBadRequest, name+" must be an integer query parameter")
	}
	return id, nil
}
