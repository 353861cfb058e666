package handler

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"medix/internal/evaluation/models"
	"medix/internal/platform/middleware"
	"medix/internal/transport/http/shared"
	dErrors "medix/pkg/domain-errors"
)

// Service defines the avaliacao operations the handler needs.
type Service interface {
	Create(ctx context.Context, req models.CreateRequest) (*models.Evaluation, error)
	Get(ctx context.Context, id int64) (*models.Evaluation, error)
	List(ctx context.Context, filter string) ([]models.Evaluation, error)
	Update(ctx context.Context, id int64, req models.UpdateRequest) (*models.Evaluation, error)
	SoftDelete(ctx context.Context, id int64) error
}

// Handler serves /avaliacoes, including the procedure demo sub-routes.
type Handler struct {
	evaluations Service
	logger      *slog.Logger
}

func New(evaluations Service, logger *slog.Logger) *Handler {
	return &Handler{evaluations: evaluations, logger: logger}
}

func (h *Handler) Register(r chi.Router) {
	r.Route("/avaliacoes", func(r chi.Router) {
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

// handleCreate accepts the avaliacao and answers 201 with an echo of the
// input. The body carries no ID; clients find the stored row via listings.
func (h *Handler) handleCreate(w http.ResponseWriter, r *http.Request) {
	var req models.CreateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		shared.WriteError(w, dErrors.New(dErrors.CodeBadRequest, "invalid request body"))
		return
	}

	created, err := h.evaluations.Create(r.Context(), req)
	if err != nil {
		h.logFailure(r.Context(), "create avaliacao", err)
		shared.WriteError(w, err)
		return
	}
	shared.WriteJSON(w, http.StatusCreated, created)
}

func (h *Handler) handleList(w http.ResponseWriter, r *http.Request) {
	all, err := h.evaluations.List(r.Context(), r.URL.Query().Get("status"))
	if err != nil {
		h.logFailure(r.Context(), "list avaliacoes", err)
		shared.WriteError(w, err)
		return
	}
	if all == nil {
		all = []models.Evaluation{}
	}
	shared.WriteJSON(w, http.StatusOK, all)
}

func (h *Handler) handleGet(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		shared.WriteError(w, err)
		return
	}

	found, err := h.evaluations.Get(r.Context(), id)
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

	var req models.UpdateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		shared.WriteError(w, dErrors.New(dErrors.CodeBadRequest, "invalid request body"))
		return
	}

	updated, err := h.evaluations.Update(r.Context(), id, req)
	if err != nil {
		h.logFailure(r.Context(), "update avaliacao", err)
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

	if err := h.evaluations.SoftDelete(r.Context(), id); err != nil {
		h.logFailure(r.Context(), "delete avaliacao", err)
		shared.WriteError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// handleDemoInsert inserts two avaliacoes via procedure: one EXCELENTE, one
// RUIM, with UUID-suffixed sector names so repeated runs stay recognizable.
func (h *Handler) handleDemoInsert(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	suffix := uuid.NewString()[:8]
	horario := time.Now().Format(models.TimeOfDayLayout)

	setorA := "PROC-Setor-A-" + suffix
	setorB := "PROC-Setor-B-" + suffix
	demos := []models.CreateRequest{
		{Horario: horario, Setor: setorA, Local: "Unidade Demo", Avaliacao: "EXCELENTE"},
		{Horario: horario, Setor: setorB, Local: "Unidade Demo", Avaliacao: "RUIM"},
	}
	for _, req := range demos {
		if _, err := h.evaluations.Create(ctx, req); err != nil {
			h.logFailure(ctx, "demo insert avaliacao", err)
			shared.WriteError(w, err)
			return
		}
	}

	shared.WriteText(w, http.StatusOK, fmt.Sprintf(
		"2 avaliacoes (%s e %s) inseridas via procedure. Verifique /avaliacoes.",
		setorA, setorB))
}

func (h *Handler) handleDemoUpdate(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	id, err := queryID(r, "id")
	if err != nil {
		shared.WriteError(w, err)
		return
	}
	id2, err := queryID(r, "id2")
	if err != nil {
		shared.WriteError(w, err)
		return
	}

	setor1 := "PROC-Update-Setor-1"
	setor2 := "PROC-Update-Setor-2"
	if _, err := h.evaluations.Update(ctx, id, models.UpdateRequest{Setor: &setor1}); err != nil {
		h.logFailure(ctx, "demo update avaliacao", err)
		shared.WriteError(w, err)
		return
	}
	if _, err := h.evaluations.Update(ctx, id2, models.UpdateRequest{Setor: &setor2}); err != nil {
		h.logFailure(ctx, "demo update avaliacao", err)
		shared.WriteError(w, err)
		return
	}

	shared.WriteText(w, http.StatusOK, fmt.Sprintf(
		"Avaliacoes %d e %d atualizadas via procedure. Verifique /avaliacoes.", id, id2))
}

func (h *Handler) handleDemoDelete(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	id, err := queryID(r, "id")
	if err != nil {
		shared.WriteError(w, err)
		return
	}
	id2, err := queryID(r, "id2")
	if err != nil {
		shared.WriteError(w, err)
		return
	}

	for _, target := range []int64{id, id2} {
		if err := h.evaluations.SoftDelete(ctx, target); err != nil {
			h.logFailure(ctx, "demo delete avaliacao", err)
			shared.WriteError(w, err)
			return
		}
	}

	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) logFailure(ctx context.Context, op string, err error) {
	if dErrors.Is(err, dErrors.CodeInternal) {
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
