package controllers

import (
	"log/slog"
	"net/http"
	"strings"

	"clubportal/internal/delivery/http/helpers"
	"clubportal/internal/domain"
)

// CreateClubRequest is the request body for POST /clubs. Omitted caps mean uncapped.
type CreateClubRequest struct {
	Name             string   `json:"name"`
	Sports           []string `json:"sports"`
	MaxCoachAccounts *int     `json:"max_coach_accounts"`
	MaxViewOnlyUsers *int     `json:"max_view_only_users"`
}

// Validate implements Validator.
func (c CreateClubRequest) Validate() []string {
	var errs []string
	if strings.TrimSpace(c.Name) == "" {
		errs = append(errs, "name is required")
	}
	if len(c.Sports) == 0 {
		errs = append(errs, "sports is required")
	}
	return errs
}

// CreateClubSuccessResponse is the success response envelope for POST /clubs (201).
type CreateClubSuccessResponse struct {
	Data  *domain.Club      `json:"data"`
	Error *helpers.APIError `json:"error"`
}

// ValidateSeatsRequest is the request body for POST /clubs/{clubID}/seats/validate.
type ValidateSeatsRequest struct {
	Category domain.SeatCategory `json:"category"`
	Count    int                 `json:"count"`
}

// Validate implements Validator.
func (v ValidateSeatsRequest) Validate() []string {
	var errs []string
	if !v.Category.Valid() {
		errs = append(errs, "category must be one of: coach, view_only")
	}
	if v.Count < 0 {
		errs = append(errs, "count must not be negative")
	}
	return errs
}

// ValidateSeatsSuccessResponse is the success response envelope for POST /clubs/{clubID}/seats/validate (200).
type ValidateSeatsSuccessResponse struct {
	Data  domain.SeatCheck  `json:"data"`
	Error *helpers.APIError `json:"error"`
}

// SeatSummaryResponse is the data payload for GET /clubs/{clubID}/seats.
type SeatSummaryResponse struct {
	ClubID string               `json:"club_id"`
	Seats  []domain.SeatSummary `json:"seats"`
}

// SeatSummarySuccessResponse is the success response envelope for GET /clubs/{clubID}/seats (200).
type SeatSummarySuccessResponse struct {
	Data  SeatSummaryResponse `json:"data"`
	Error *helpers.APIError   `json:"error"`
}

// ListMembersSuccessResponse is the success response envelope for GET /clubs/{clubID}/members (200).
type ListMembersSuccessResponse struct {
	Data  []*domain.Member  `json:"data"`
	Error *helpers.APIError `json:"error"`
}

type ClubController struct {
	Logger *slog.Logger
	Clubs  domain.ClubService
	Seats  domain.SeatAccountant
}

func NewClubController(logger *slog.Logger, clubs domain.ClubService, seats domain.SeatAccountant) *ClubController {
	return &ClubController{
		Logger: logger,
		Clubs:  clubs,
		Seats:  seats,
	}
}

// CreateClub godoc
// @Summary Create a club
// @Description Creates a club with its subscription seat caps. Super admins only.
// @Tags clubs
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param club body CreateClubRequest true "Club name, sports and caps"
// @Success 201 {object} controllers.CreateClubSuccessResponse "data contains the created club"
// @Failure 400 {object} helpers.APIResponse "error.code: bad_request"
// @Failure 401 {object} helpers.APIResponse "error.code: unauthorized"
// @Failure 403 {object} helpers.APIResponse "error.code: forbidden"
// @Failure 503 {object} helpers.APIResponse "error.code: service_unavailable"
// @Router /clubs [post]
func (c *ClubController) CreateClub(w http.ResponseWriter, r *http.Request) {
	var req CreateClubRequest
	if !helpers.DecodeAndValidate(w, r, &req) {
		return
	}
	club, err := c.Clubs.CreateClub(r.Context(), req.Name, req.Sports, req.MaxCoachAccounts, req.MaxViewOnlyUsers)
	if err != nil {
		c.fail(w, r, err)
		return
	}
	helpers.WriteJSONSuccess(w, http.StatusCreated, club)
}

// SeatSummary godoc
// @Summary Seat usage per category
// @Description Returns cap, members, pending invitations and remaining seats for each capped category. Nil cap means uncapped.
// @Tags seats
// @Produce json
// @Security BearerAuth
// @Param clubID path string true "Club ID"
// @Success 200 {object} controllers.SeatSummarySuccessResponse
// @Failure 401 {object} helpers.APIResponse "error.code: unauthorized"
// @Failure 403 {object} helpers.APIResponse "error.code: forbidden"
// @Failure 404 {object} helpers.APIResponse "error.code: not_found"
// @Failure 503 {object} helpers.APIResponse "error.code: service_unavailable"
// @Router /clubs/{clubID}/seats [get]
func (c *ClubController) SeatSummary(w http.ResponseWriter, r *http.Request) {
	clubID := r.PathValue("clubID")
	seats, err := c.Seats.Summary(r.Context(), clubID)
	if err != nil {
		c.fail(w, r, err)
		return
	}
	helpers.WriteJSONSuccess(w, http.StatusOK, SeatSummaryResponse{ClubID: clubID, Seats: seats})
}

// ValidateSeats godoc
// @Summary Check whether seats can be added
// @Description Read-only check of members plus pending invitations plus count against the club cap. A rejection is a 200 with valid=false and a reason; it does not reserve anything.
// @Tags seats
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param clubID path string true "Club ID"
// @Param request body ValidateSeatsRequest true "Category and number of additional seats"
// @Success 200 {object} controllers.ValidateSeatsSuccessResponse
// @Failure 400 {object} helpers.APIResponse "error.code: bad_request"
// @Failure 401 {object} helpers.APIResponse "error.code: unauthorized"
// @Failure 403 {object} helpers.APIResponse "error.code: forbidden"
// @Failure 404 {object} helpers.APIResponse "error.code: not_found"
// @Failure 503 {object} helpers.APIResponse "error.code: service_unavailable"
// @Router /clubs/{clubID}/seats/validate [post]
func (c *ClubController) ValidateSeats(w http.ResponseWriter, r *http.Request) {
	var req ValidateSeatsRequest
	if !helpers.DecodeAndValidate(w, r, &req) {
		return
	}
	check, err := c.Seats.ValidateSeatRequest(r.Context(), r.PathValue("clubID"), req.Category, req.Count)
	if err != nil {
		c.fail(w, r, err)
		return
	}
	helpers.WriteJSONSuccess(w, http.StatusOK, check)
}

// ListMembers godoc
// @Summary List club members
// @Tags clubs
// @Produce json
// @Security BearerAuth
// @Param clubID path string true "Club ID"
// @Success 200 {object} controllers.ListMembersSuccessResponse
// @Failure 401 {object} helpers.APIResponse "error.code: unauthorized"
// @Failure 403 {object} helpers.APIResponse "error.code: forbidden"
// @Failure 404 {object} helpers.APIResponse "error.code: not_found"
// @Router /clubs/{clubID}/members [get]
func (c *ClubController) ListMembers(w http.ResponseWriter, r *http.Request) {
	members, err := c.Clubs.ListMembers(r.Context(), r.PathValue("clubID"))
	if err != nil {
		c.fail(w, r, err)
		return
	}
	if members == nil {
		members = []*domain.Member{}
	}
	helpers.WriteJSONSuccess(w, http.StatusOK, members)
}

func (c *ClubController) fail(w http.ResponseWriter, r *http.Request, err error) {
	if status := helpers.WriteDomainError(w, err); status >= http.StatusInternalServerError {
		c.Logger.ErrorContext(r.Context(), "request failed", "path", r.URL.Path, "method", r.Method, "err", err)
	}
}
