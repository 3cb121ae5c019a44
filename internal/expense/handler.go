package expense

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/tallyup/tallyup/internal/split"
	"github.com/tallyup/tallyup/pkg/response"
)

// Handler handles HTTP requests for expense operations
type Handler struct {
	service *Service
}

// NewHandler creates a new expense handler
func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// Routes returns the router for expense endpoints
func (h *Handler) Routes() chi.Router {
	r := chi.NewRouter()

	r.Post("/", h.Create)
	r.Post("/preview", h.Preview)
	r.Post("/validate", h.Validate)
	r.Get("/audits", h.Audits)
	r.Get("/{id}", h.GetByID)
	r.Get("/group/{groupId}", h.ListByGroup)

	return r
}

// Create handles POST /expenses
// @Summary      Record an expense
// @Description  Split an expense with the requested method, audit the calculation and fold the shares into the group's balances
// @Tags         expenses
// @Accept       json
// @Produce      json
// @Param        request body CreateExpenseRequest true "Expense to split and record"
// @Success      201 {object} response.APIResponse{data=ExpenseResponse}
// @Failure      400 {object} response.APIResponse
// @Failure      422 {object} response.APIResponse{data=split.ValidationResult}
// @Router       /expenses [post]
func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	req, ok := decodeRequest(w, r)
	if !ok {
		return
	}

	expense, validation, err := h.service.CreateExpense(r.Context(), req)
	if err != nil {
		if errors.Is(err, ErrInvalidSplit) {
			response.JSONError(w, http.StatusUnprocessableEntity, "INVALID_SPLIT", "Split validation failed", validation)
			return
		}
		if badRequest(err) {
			response.BadRequest(w, err.Error())
			return
		}
		response.InternalError(w, "Failed to record expense")
		return
	}

	response.JSON(w, http.StatusCreated, expense.ToResponse())
}

// Preview handles POST /expenses/preview
// @Summary      Preview a split
// @Description  Compute and audit a split without recording the expense or changing balances
// @Tags         expenses
// @Accept       json
// @Produce      json
// @Param        request body CreateExpenseRequest true "Expense to preview"
// @Success      200 {object} response.APIResponse{data=PreviewResponse}
// @Failure      400 {object} response.APIResponse
// @Router       /expenses/preview [post]
func (h *Handler) Preview(w http.ResponseWriter, r *http.Request) {
	req, ok := decodeRequest(w, r)
	if !ok {
		return
	}

	preview, err := h.service.PreviewSplit(r.Context(), req)
	if err != nil {
		if badRequest(err) {
			response.BadRequest(w, err.Error())
			return
		}
		response.InternalError(w, "Failed to preview split")
		return
	}

	response.JSON(w, http.StatusOK, preview)
}

// Validate handles POST /expenses/validate
// @Summary      Validate a proposed split
// @Description  Check a proposed split for errors, warnings and suggestions without computing it
// @Tags         expenses
// @Accept       json
// @Produce      json
// @Param        request body CreateExpenseRequest true "Proposed split"
// @Success      200 {object} response.APIResponse{data=split.ValidationResult}
// @Failure      400 {object} response.APIResponse
// @Router       /expenses/validate [post]
func (h *Handler) Validate(w http.ResponseWriter, r *http.Request) {
	req, ok := decodeRequest(w, r)
	if !ok {
		return
	}

	validation, err := h.service.ValidateSplit(r.Context(), req)
	if err != nil {
		if badRequest(err) {
			response.BadRequest(w, err.Error())
			return
		}
		response.InternalError(w, "Failed to validate split")
		return
	}

	response.JSON(w, http.StatusOK, validation)
}

// Audits handles GET /expenses/audits
// @Summary      List recent calculation audits
// @Description  Return the bounded in-memory history of calculation audits, oldest first
// @Tags         expenses
// @Produce      json
// @Success      200 {object} response.APIResponse{data=[]audit.CalculationAudit}
// @Router       /expenses/audits [get]
func (h *Handler) Audits(w http.ResponseWriter, r *http.Request) {
	response.JSON(w, http.StatusOK, h.service.AuditHistory())
}

// GetByID handles GET /expenses/{id}
// @Summary      Get an expense
// @Tags         expenses
// @Produce      json
// @Param        id path string true "Expense ID"
// @Success      200 {object} response.APIResponse{data=ExpenseResponse}
// @Failure      404 {object} response.APIResponse
// @Router       /expenses/{id} [get]
func (h *Handler) GetByID(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	expense, err := h.service.GetExpense(r.Context(), id)
	if err != nil {
		if errors.Is(err, ErrExpenseNotFound) {
			response.NotFound(w, "Expense not found")
			return
		}
		response.InternalError(w, "Failed to get expense")
		return
	}

	response.JSON(w, http.StatusOK, expense.ToResponse())
}

// ListByGroup handles GET /expenses/group/{groupId}
// @Summary      List expenses for a group
// @Tags         expenses
// @Produce      json
// @Param        groupId path string true "Group ID"
// @Param        page query int false "Page number"
// @Param        per_page query int false "Items per page"
// @Success      200 {object} response.APIResponse{data=[]ExpenseResponse}
// @Router       /expenses/group/{groupId} [get]
func (h *Handler) ListByGroup(w http.ResponseWriter, r *http.Request) {
	groupID := chi.URLParam(r, "groupId")
	page, _ := strconv.Atoi(r.URL.Query().Get("page"))
	perPage, _ := strconv.Atoi(r.URL.Query().Get("per_page"))

	expenses, total, err := h.service.ListExpenses(r.Context(), groupID, page, perPage)
	if err != nil {
		response.InternalError(w, "Failed to list expenses")
		return
	}

	responses := make([]*ExpenseResponse, len(expenses))
	for i, e := range expenses {
		responses[i] = e.ToResponse()
	}
	response.JSONWithMeta(w, http.StatusOK, responses, &response.Meta{
		Page:    page,
		PerPage: perPage,
		Total:   total,
	})
}

// decodeRequest decodes and structurally checks a create/preview request.
func decodeRequest(w http.ResponseWriter, r *http.Request) (*CreateExpenseRequest, bool) {
	var req CreateExpenseRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "Invalid request body")
		return nil, false
	}
	if req.GroupID == "" {
		response.BadRequest(w, "group_id is required")
		return nil, false
	}
	return &req, true
}

// badRequest reports whether the error is the caller's fault.
func badRequest(err error) bool {
	return errors.Is(err, ErrNoParticipants) ||
		errors.Is(err, ErrNoPayer) ||
		errors.Is(err, ErrPayerSumMismatch) ||
		errors.Is(err, split.ErrUnknownMember) ||
		errors.Is(err, split.ErrNonPositiveTotal) ||
		errors.Is(err, split.ErrEmptyMemberSet)
}
