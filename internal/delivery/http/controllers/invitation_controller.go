package controllers

import (
	"log/slog"
	"net/http"
	"strings"
	"time"

	"clubportal/internal/delivery/http/helpers"
	"clubportal/internal/domain"
)

// IssueInvitationsRequest is the request body for POST /clubs/{clubID}/invitations.
type IssueInvitationsRequest struct {
	ClubName string           `json:"club_name"`
	TeamID   *string          `json:"team_id"`
	Invitees []domain.Invitee `json:"invitees"`
}

// Validate implements Validator. Per-invitee checks happen in the service so every
// problem in the batch is reported at once.
func (req IssueInvitationsRequest) Validate() []string {
	var errs []string
	if strings.TrimSpace(req.ClubName) == "" {
		errs = append(errs, "club_name is required")
	}
	if len(req.Invitees) == 0 {
		errs = append(errs, "invitees must not be empty")
	}
	return errs
}

// IssueInvitationsSuccessResponse is the success response envelope for POST /clubs/{clubID}/invitations (201).
type IssueInvitationsSuccessResponse struct {
	Data  *domain.IssueResult `json:"data"`
	Error *helpers.APIError   `json:"error"`
}

// InvitationView is an invitation together with its derived status.
type InvitationView struct {
	*domain.Invitation
	Status domain.InvitationStatus `json:"status"`
}

// ListInvitationsResponse is the data payload for GET /clubs/{clubID}/invitations (200).
type ListInvitationsResponse struct {
	Items      []InvitationView       `json:"items"`
	Pagination helpers.PaginationMeta `json:"pagination"`
}

// ListInvitationsSuccessResponse is the success response envelope for GET /clubs/{clubID}/invitations (200).
type ListInvitationsSuccessResponse struct {
	Data  ListInvitationsResponse `json:"data"`
	Error *helpers.APIError       `json:"error"`
}

// PublicInvitationResponse is what the signup page sees for a code. Uses and the
// active flag stay server-side; status and redeemable summarize them.
type PublicInvitationResponse struct {
	Code         string                  `json:"code"`
	ClubName     string                  `json:"club_name"`
	TeamID       *string                 `json:"team_id"`
	IntendedRole domain.Role             `json:"intended_role"`
	Email        string                  `json:"email"`
	FirstName    *string                 `json:"first_name"`
	LastName     *string                 `json:"last_name"`
	ExpiresAt    time.Time               `json:"expires_at"`
	Status       domain.InvitationStatus `json:"status"`
	Redeemable   bool                    `json:"redeemable"`
	Reason       domain.RedeemReason     `json:"reason"`
}

// PublicInvitationSuccessResponse is the success response envelope for GET /invitations/{code} (200).
type PublicInvitationSuccessResponse struct {
	Data  PublicInvitationResponse `json:"data"`
	Error *helpers.APIError        `json:"error"`
}

// RedeemInvitationRequest is the request body for POST /invitations/{code}/redeem.
type RedeemInvitationRequest struct {
	Email string `json:"email"`
}

// Validate implements Validator.
func (req RedeemInvitationRequest) Validate() []string {
	if strings.TrimSpace(req.Email) == "" {
		return []string{"email is required"}
	}
	return nil
}

// RedeemInvitationSuccessResponse is the success response envelope for POST /invitations/{code}/redeem (201).
type RedeemInvitationSuccessResponse struct {
	Data  *domain.Member    `json:"data"`
	Error *helpers.APIError `json:"error"`
}

type InvitationController struct {
	Logger      *slog.Logger
	Invitations domain.InvitationService
	Finalizer   domain.SignupFinalizer
	Clock       domain.Clock
}

func NewInvitationController(logger *slog.Logger, invitations domain.InvitationService, finalizer domain.SignupFinalizer) *InvitationController {
	return &InvitationController{
		Logger:      logger,
		Invitations: invitations,
		Finalizer:   finalizer,
		Clock:       time.Now,
	}
}

// IssueInvitations godoc
// @Summary Issue a batch of invitations
// @Description Checks every seat category against the club caps and persists the whole batch in one transaction. On quota rejection nothing is written and the response names the category that did not fit.
// @Tags invitations
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param clubID path string true "Club ID"
// @Param request body IssueInvitationsRequest true "Club name, optional team and invitees"
// @Success 201 {object} controllers.IssueInvitationsSuccessResponse "data.codes lists one code per invitee"
// @Failure 400 {object} helpers.APIResponse "error.code: bad_request"
// @Failure 401 {object} helpers.APIResponse "error.code: unauthorized"
// @Failure 403 {object} helpers.APIResponse "error.code: forbidden"
// @Failure 404 {object} helpers.APIResponse "error.code: not_found"
// @Failure 409 {object} helpers.APIResponse "error.code: quota_exceeded"
// @Failure 503 {object} helpers.APIResponse "error.code: service_unavailable"
// @Router /clubs/{clubID}/invitations [post]
func (c *InvitationController) IssueInvitations(w http.ResponseWriter, r *http.Request) {
	var req IssueInvitationsRequest
	if !helpers.DecodeAndValidate(w, r, &req) {
		return
	}
	result, err := c.Invitations.IssueInvitations(r.Context(), domain.IssueRequest{
		ClubID:   r.PathValue("clubID"),
		ClubName: req.ClubName,
		TeamID:   req.TeamID,
		Invitees: req.Invitees,
	})
	if err != nil {
		c.fail(w, r, err)
		return
	}
	helpers.WriteJSONSuccess(w, http.StatusCreated, result)
}

// ListInvitations godoc
// @Summary List a club's invitations
// @Description Paginated, newest first. Optional status filter: active, redeemed, expired, deactivated.
// @Tags invitations
// @Produce json
// @Security BearerAuth
// @Param clubID path string true "Club ID"
// @Param status query string false "Derived status filter"
// @Param page query int false "Page number (default 1)"
// @Param page_size query int false "Page size (default 20, max 100)"
// @Success 200 {object} controllers.ListInvitationsSuccessResponse
// @Failure 400 {object} helpers.APIResponse "error.code: bad_request"
// @Failure 401 {object} helpers.APIResponse "error.code: unauthorized"
// @Failure 403 {object} helpers.APIResponse "error.code: forbidden"
// @Router /clubs/{clubID}/invitations [get]
func (c *InvitationController) ListInvitations(w http.ResponseWriter, r *http.Request) {
	status := domain.InvitationStatus(strings.TrimSpace(r.URL.Query().Get("status")))
	params := helpers.ParsePagination(r)
	list, total, err := c.Invitations.ListInvitations(r.Context(), r.PathValue("clubID"), status, params)
	if err != nil {
		c.fail(w, r, err)
		return
	}
	now := c.Clock()
	items := make([]InvitationView, 0, len(list))
	for _, inv := range list {
		items = append(items, InvitationView{Invitation: inv, Status: inv.Status(now)})
	}
	meta := helpers.NewPaginationMeta(params, total)
	helpers.WriteJSONSuccess(w, http.StatusOK, ListInvitationsResponse{Items: items, Pagination: meta})
}

// GetInvitation godoc
// @Summary Look up an invitation code
// @Description Public. Returns the invitation and whether it can still be redeemed. Codes are case-insensitive.
// @Tags invitations
// @Produce json
// @Param code path string true "Invitation code"
// @Success 200 {object} controllers.PublicInvitationSuccessResponse
// @Failure 400 {object} helpers.APIResponse "error.code: bad_request"
// @Failure 404 {object} helpers.APIResponse "error.code: not_found"
// @Failure 429 {object} helpers.APIResponse "error.code: too_many_requests"
// @Router /invitations/{code} [get]
func (c *InvitationController) GetInvitation(w http.ResponseWriter, r *http.Request) {
	inv, check, err := c.Invitations.GetInvitation(r.Context(), r.PathValue("code"))
	if err != nil {
		c.fail(w, r, err)
		return
	}
	helpers.WriteJSONSuccess(w, http.StatusOK, PublicInvitationResponse{
		Code:         inv.Code,
		ClubName:     inv.ClubName,
		TeamID:       inv.TeamID,
		IntendedRole: inv.IntendedRole,
		Email:        inv.AdminEmail,
		FirstName:    inv.FirstName,
		LastName:     inv.LastName,
		ExpiresAt:    inv.ExpiresAt,
		Status:       inv.Status(c.Clock()),
		Redeemable:   check.OK,
		Reason:       check.Reason,
	})
}

// RedeemInvitation godoc
// @Summary Redeem an invitation code
// @Description Public. Consumes the code and creates the member it describes. The email must match the invited address.
// @Tags invitations
// @Accept json
// @Produce json
// @Param code path string true "Invitation code"
// @Param request body RedeemInvitationRequest true "Email of the person signing up"
// @Success 201 {object} controllers.RedeemInvitationSuccessResponse "data contains the new member"
// @Failure 400 {object} helpers.APIResponse "error.code: bad_request"
// @Failure 403 {object} helpers.APIResponse "error.code: forbidden"
// @Failure 404 {object} helpers.APIResponse "error.code: not_found"
// @Failure 409 {object} helpers.APIResponse "error.code: conflict"
// @Failure 410 {object} helpers.APIResponse "error.code: gone"
// @Failure 429 {object} helpers.APIResponse "error.code: too_many_requests"
// @Router /invitations/{code}/redeem [post]
func (c *InvitationController) RedeemInvitation(w http.ResponseWriter, r *http.Request) {
	var req RedeemInvitationRequest
	if !helpers.DecodeAndValidate(w, r, &req) {
		return
	}
	member, err := c.Finalizer.Redeem(r.Context(), r.PathValue("code"), req.Email)
	if err != nil {
		c.fail(w, r, err)
		return
	}
	helpers.WriteJSONSuccess(w, http.StatusCreated, member)
}

func (c *InvitationController) fail(w http.ResponseWriter, r *http.Request, err error) {
	if status := helpers.WriteDomainError(w, err); status >= http.StatusInternalServerError {
		c.Logger.ErrorContext(r.Context(), "request failed", "path", r.URL.Path, "method", r.Method, "err", err)
	}
}
