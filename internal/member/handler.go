package member

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/tallyup/tallyup/pkg/response"
)

// Handler handles HTTP requests for member operations
type Handler struct {
	service *Service
}

// NewHandler creates a new member handler
func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// Routes returns the router for member endpoints
func (h *Handler) Routes() chi.Router {
	r := chi.NewRouter()

	r.Post("/", h.Create)
	r.Get("/{id}", h.GetByID)
	r.Put("/{id}", h.Update)
	r.Get("/group/{groupId}", h.ListByGroup)

	return r
}

// Create handles POST /members
// @Summary      Register a member
// @Description  Register an active member in a group, optionally with income and weight attributes
// @Tags         members
// @Accept       json
// @Produce      json
// @Param        request body CreateMemberRequest true "Member to register"
// @Success      201 {object} response.APIResponse{data=MemberResponse}
// @Failure      400 {object} response.APIResponse
// @Router       /members [post]
func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	var req CreateMemberRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "Invalid request body")
		return
	}
	if req.GroupID == "" || req.Name == "" {
		response.BadRequest(w, "group_id and name are required")
		return
	}

	m, err := h.service.CreateMember(r.Context(), &req)
	if err != nil {
		if errors.Is(err, ErrNegativeIncome) || errors.Is(err, ErrInvalidWeight) {
			response.BadRequest(w, err.Error())
			return
		}
		response.InternalError(w, "Failed to create member")
		return
	}

	response.JSON(w, http.StatusCreated, m.ToResponse())
}

// GetByID handles GET /members/{id}
// @Summary      Get a member
// @Tags         members
// @Produce      json
// @Param        id path string true "Member ID"
// @Success      200 {object} response.APIResponse{data=MemberResponse}
// @Failure      404 {object} response.APIResponse
// @Router       /members/{id} [get]
func (h *Handler) GetByID(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	m, err := h.service.GetMember(r.Context(), id)
	if err != nil {
		if errors.Is(err, ErrMemberNotFound) {
			response.NotFound(w, "Member not found")
			return
		}
		response.InternalError(w, "Failed to get member")
		return
	}

	response.JSON(w, http.StatusOK, m.ToResponse())
}

// Update handles PUT /members/{id}
// @Summary      Update a member
// @Description  Update a member's name, income, weight or active status
// @Tags         members
// @Accept       json
// @Produce      json
// @Param        id path string true "Member ID"
// @Param        request body UpdateMemberRequest true "Fields to update"
// @Success      200 {object} response.APIResponse{data=MemberResponse}
// @Failure      400 {object} response.APIResponse
// @Failure      404 {object} response.APIResponse
// @Router       /members/{id} [put]
func (h *Handler) Update(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	var req UpdateMemberRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "Invalid request body")
		return
	}

	m, err := h.service.UpdateMember(r.Context(), id, &req)
	if err != nil {
		switch {
		case errors.Is(err, ErrMemberNotFound):
			response.NotFound(w, "Member not found")
		case errors.Is(err, ErrNegativeIncome), errors.Is(err, ErrInvalidWeight):
			response.BadRequest(w, err.Error())
		default:
			response.InternalError(w, "Failed to update member")
		}
		return
	}

	response.JSON(w, http.StatusOK, m.ToResponse())
}

// ListByGroup handles GET /members/group/{groupId}
// @Summary      List members of a group
// @Tags         members
// @Produce      json
// @Param        groupId path string true "Group ID"
// @Success      200 {object} response.APIResponse{data=[]MemberResponse}
// @Router       /members/group/{groupId} [get]
func (h *Handler) ListByGroup(w http.ResponseWriter, r *http.Request) {
	groupID := chi.URLParam(r, "groupId")

	members, err := h.service.ListGroupMembers(r.Context(), groupID)
	if err != nil {
		response.InternalError(w, "Failed to list members")
		return
	}

	responses := make([]*MemberResponse, len(members))
	for i, m := range members {
		responses[i] = m.ToResponse()
	}
	response.JSON(w, http.StatusOK, responses)
}
