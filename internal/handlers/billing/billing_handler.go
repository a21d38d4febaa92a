// internal/handlers/billing/billing_handler.go
package billing

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"prorata-service/internal/domain/billing"
	xerrors "prorata-service/internal/pkg/errors"
	"prorata-service/internal/pkg/response"
	service "prorata-service/internal/service/billing"
)

type BillingHandler struct {
	billingService *service.Service
}

func NewBillingHandler(billingService *service.Service) *BillingHandler {
	return &BillingHandler{
		billingService: billingService,
	}
}

// CustomerCharge computes the prorated charge for one customer and month.
// GET /api/v1/billing/customers/:id/charge?month=YYYY-MM
func (h *BillingHandler) CustomerCharge(c *gin.Context) {
	customerID, ok := customerIDParam(c)
	if !ok {
		return
	}

	month := c.Query("month")
	if month == "" {
		response.ValidationError(c, "month query parameter is required", nil)
		return
	}

	result, err := h.billingService.CustomerCharge(c.Request.Context(), customerID, month)
	if err != nil {
		respondBillingError(c, err)
		return
	}

	response.Success(c, http.StatusOK, "charge computed", result)
}

// PreviewCharge computes a charge over caller-supplied records.
// POST /api/v1/billing/preview
func (h *BillingHandler) PreviewCharge(c *gin.Context) {
	var req billing.PreviewChargeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.ValidationError(c, "invalid request body", err)
		return
	}

	result, err := h.billingService.PreviewCharge(c.Request.Context(), &req)
	if err != nil {
		respondBillingError(c, err)
		return
	}

	response.Success(c, http.StatusOK, "charge computed", result)
}

// AddMember registers a billable seat.
// POST /api/v1/customers/:id/members
func (h *BillingHandler) AddMember(c *gin.Context) {
	customerID, ok := customerIDParam(c)
	if !ok {
		return
	}

	var req billing.AddMemberRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.ValidationError(c, "invalid request body", err)
		return
	}

	user, err := h.billingService.AddMember(c.Request.Context(), customerID, &req)
	if err != nil {
		respondBillingError(c, err)
		return
	}

	response.Success(c, http.StatusCreated, "member added", user)
}

// ListMembers lists a customer's billable seats.
// GET /api/v1/customers/:id/members
func (h *BillingHandler) ListMembers(c *gin.Context) {
	customerID, ok := customerIDParam(c)
	if !ok {
		return
	}

	result, err := h.billingService.ListMembers(c.Request.Context(), customerID)
	if err != nil {
		response.Error(c, http.StatusInternalServerError, "failed to list members", err)
		return
	}

	response.Success(c, http.StatusOK, "members retrieved", result)
}

// DeactivateMember sets the last billable day for a seat.
// PUT /api/v1/customers/:id/members/:member_id/deactivate
func (h *BillingHandler) DeactivateMember(c *gin.Context) {
	customerID, ok := customerIDParam(c)
	if !ok {
		return
	}

	memberID, err := strconv.ParseInt(c.Param("member_id"), 10, 64)
	if err != nil {
		response.ValidationError(c, "invalid member id", err)
		return
	}

	var req billing.DeactivateMemberRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.ValidationError(c, "invalid request body", err)
		return
	}

	user, err := h.billingService.DeactivateMember(c.Request.Context(), customerID, memberID, &req)
	if err != nil {
		respondBillingError(c, err)
		return
	}

	response.Success(c, http.StatusOK, "member deactivated", user)
}

// SetSubscription creates or replaces the customer's subscription.
// PUT /api/v1/customers/:id/subscription
func (h *BillingHandler) SetSubscription(c *gin.Context) {
	customerID, ok := customerIDParam(c)
	if !ok {
		return
	}

	var req billing.SetSubscriptionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.ValidationError(c, "invalid request body", err)
		return
	}

	sub, err := h.billingService.SetSubscription(c.Request.Context(), customerID, &req)
	if err != nil {
		respondBillingError(c, err)
		return
	}

	response.Success(c, http.StatusOK, "subscription saved", sub)
}

// GetSubscription returns the customer's subscription.
// GET /api/v1/customers/:id/subscription
func (h *BillingHandler) GetSubscription(c *gin.Context) {
	customerID, ok := customerIDParam(c)
	if !ok {
		return
	}

	sub, err := h.billingService.GetSubscription(c.Request.Context(), customerID)
	if err != nil {
		if xerrors.Is(err, xerrors.ErrNotFound) {
			response.NotFound(c, "customer has no subscription")
			return
		}
		response.Error(c, http.StatusInternalServerError, "failed to load subscription", err)
		return
	}

	response.Success(c, http.StatusOK, "subscription retrieved", sub)
}

// RemoveSubscription drops the customer's subscription.
// DELETE /api/v1/customers/:id/subscription
func (h *BillingHandler) RemoveSubscription(c *gin.Context) {
	customerID, ok := customerIDParam(c)
	if !ok {
		return
	}

	if err := h.billingService.RemoveSubscription(c.Request.Context(), customerID); err != nil {
		if xerrors.Is(err, xerrors.ErrNotFound) {
			response.NotFound(c, "customer has no subscription")
			return
		}
		response.Error(c, http.StatusInternalServerError, "failed to remove subscription", err)
		return
	}

	response.Success(c, http.StatusOK, "subscription removed", nil)
}

func customerIDParam(c *gin.Context) (int64, bool) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		response.ValidationError(c, "invalid customer id", err)
		return 0, false
	}
	return id, true
}

// respondBillingError maps calculator validation failures to 400s and
// everything else to a 500.
func respondBillingError(c *gin.Context, err error) {
	switch {
	case xerrors.Is(err, xerrors.ErrInvalidInput),
		xerrors.Is(err, xerrors.ErrInvalidUserRecord),
		xerrors.Is(err, xerrors.ErrInvalidSubscription):
		response.ValidationError(c, "invalid billing input", err)
	case xerrors.Is(err, xerrors.ErrNotFound):
		response.NotFound(c, "resource not found")
	case xerrors.Is(err, xerrors.ErrForbidden):
		response.Forbidden(c, "resource belongs to another customer")
	default:
		response.Error(c, http.StatusInternalServerError, "billing computation failed", err)
	}
}
