package settlement

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/tallyup/tallyup/pkg/response"
)

// Handler handles HTTP requests for settlement operations
type Handler struct {
	service *Service
}

// NewHandler creates a new settlement handler
func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// Routes returns the router for settlement endpoints
func (h *Handler) Routes() chi.Router {
	r := chi.NewRouter()

	r.Post("/", h.Create)
	r.Get("/group/{groupId}", h.ListByGroup)
	r.Get("/group/{groupId}/balances", h.ListBalances)
	r.Post("/group/{groupId}/optimize", h.Optimize)

	return r
}

// Create handles POST /settlements
// @Summary      Record a settlement payment
// @Description  Record a direct payment between two members and fold it into the group's balances
// @Tags         settlements
// @Accept       json
// @Produce      json
// @Param        request body CreateSettlementRequest true "Settlement payment"
// @Success      201 {object} response.APIResponse{data=SettlementResponse}
// @Failure      400 {object} response.APIResponse
// @Router       /settlements [post]
func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	var req CreateSettlementRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "Invalid request body")
		return
	}
	if req.GroupID == "" || req.FromUserID == "" || req.ToUserID == "" {
		response.BadRequest(w, "group_id, from_user_id and to_user_id are required")
		return
	}

	settlement, err := h.service.RecordSettlement(r.Context(), &req)
	if err != nil {
		if errors.Is(err, ErrCannotSettleSelf) || errors.Is(err, ErrNonPositiveAmount) {
			response.BadRequest(w, err.Error())
			return
		}
		response.InternalError(w, "Failed to record settlement")
		return
	}

	response.JSON(w, http.StatusCreated, settlement.ToResponse())
}

// ListByGroup handles GET /settlements/group/{groupId}
// @Summary      List settlements for a group
// @Tags         settlements
// @Produce      json
// @Param        groupId path string true "Group ID"
// @Param        page query int false "Page number"
// @Param        per_page query int false "Items per page"
// @Success      200 {object} response.APIResponse{data=[]SettlementResponse}
// @Router       /settlements/group/{groupId} [get]
func (h *Handler) ListByGroup(w http.ResponseWriter, r *http.Request) {
	groupID := chi.URLParam(r, "groupId")
	page, _ := strconv.Atoi(r.URL.Query().Get("page"))
	perPage, _ := strconv.Atoi(r.URL.Query().Get("per_page"))

	settlements, total, err := h.service.ListSettlements(r.Context(), groupID, page, perPage)
	if err != nil {
		response.InternalError(w, "Failed to list settlements")
		return
	}

	responses := make([]*SettlementResponse, len(settlements))
	for i, s := range settlements {
		responses[i] = s.ToResponse()
	}
	response.JSONWithMeta(w, http.StatusOK, responses, &response.Meta{
		Page:    page,
		PerPage: perPage,
		Total:   total,
	})
}

// ListBalances handles GET /settlements/group/{groupId}/balances
// @Summary      List pairwise balances for a group
// @Description  Positive amounts mean user_a is owed by user_b
// @Tags         settlements
// @Produce      json
// @Param        groupId path string true "Group ID"
// @Param        currency query string false "Currency code"
// @Success      200 {object} response.APIResponse{data=[]BalanceResponse}
// @Router       /settlements/group/{groupId}/balances [get]
func (h *Handler) ListBalances(w http.ResponseWriter, r *http.Request) {
	groupID := chi.URLParam(r, "groupId")
	currency := r.URL.Query().Get("currency")

	balances, err := h.service.ListBalances(r.Context(), groupID, currency)
	if err != nil {
		response.InternalError(w, "Failed to list balances")
		return
	}

	responses := make([]*BalanceResponse, len(balances))
	for i, b := range balances {
		responses[i] = &BalanceResponse{
			UserA:    b.UserA,
			UserB:    b.UserB,
			Amount:   b.Amount,
			Currency: b.Currency,
			Status:   string(b.Status()),
		}
	}
	response.JSON(w, http.StatusOK, responses)
}

// Optimize handles POST /settlements/group/{groupId}/optimize
// @Summary      Optimize a group's settlements
// @Description  Collapse pairwise balances into a minimized set of payments via debt netting
// @Tags         settlements
// @Produce      json
// @Param        groupId path string true "Group ID"
// @Param        currency query string false "Currency code"
// @Success      200 {object} response.APIResponse{data=OptimizeResponse}
// @Router       /settlements/group/{groupId}/optimize [post]
func (h *Handler) Optimize(w http.ResponseWriter, r *http.Request) {
	groupID := chi.URLParam(r, "groupId")
	currency := r.URL.Query().Get("currency")

	result, err := h.service.Optimize(r.Context(), groupID, currency)
	if err != nil {
		response.InternalError(w, "Failed to optimize settlements")
		return
	}

	response.JSON(w, http.StatusOK, result)
}
