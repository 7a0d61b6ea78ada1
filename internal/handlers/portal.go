package handlers

import (
	"errors"
	"net/http"
	"strings"

	"apartment-portal/internal/auth"
	"apartment-portal/internal/models"
	"apartment-portal/internal/portal"

	"github.com/gin-gonic/gin"
)

// PortalHandler handles the caller-facing portal requests
type PortalHandler struct {
	svc      *portal.Service
	sessions *auth.SessionProvider
}

// NewPortalHandler creates a new portal handler
func NewPortalHandler(svc *portal.Service, sessions *auth.SessionProvider) *PortalHandler {
	return &PortalHandler{svc: svc, sessions: sessions}
}

// RegisterRoutes wires the handler into the router
func (h *PortalHandler) RegisterRoutes(r *gin.Engine) {
	r.POST("/api/auth/signin", h.SignIn)

	api := r.Group("/api", auth.RequireAuth(h.sessions))
	{
		api.POST("/auth/signout", h.SignOut)
		api.GET("/auth/me", h.Me)

		api.GET("/apartments", h.ListApartments)
		api.GET("/apartments/:id", h.GetApartment)

		api.GET("/service-requests", h.ListServiceRequests)
		api.POST("/service-requests", h.CreateServiceRequest)
		api.PUT("/service-requests/:id/status", h.UpdateServiceRequestStatus)

		api.GET("/payments", h.ListPayments)
		api.POST("/payments", h.CreatePayment)

		api.GET("/users", h.ListUsers)
		api.GET("/users/:id", h.GetUser)
		api.POST("/users", h.CreateUser)

		api.GET("/locations", h.ListLocations)
	}
}

// writeError maps portal errors to HTTP statuses
func writeError(c *gin.Context, err error) {
	var (
		validation *portal.ValidationError
		notFound   *portal.NotFoundError
		transition *portal.InvalidTransitionError
		duplicate  *portal.DuplicateEmailError
		declined   *portal.PaymentDeclinedError
	)

	switch {
	case errors.As(err, &validation):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	case errors.As(err, &notFound):
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
	case errors.As(err, &transition):
		c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
	case errors.As(err, &duplicate):
		c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
	case errors.As(err, &declined):
		c.JSON(http.StatusPaymentRequired, gin.H{
			"error":   err.Error(),
			"payment": declined.Payment,
		})
	case errors.Is(err, portal.ErrForbidden):
		c.JSON(http.StatusForbidden, gin.H{"error": err.Error()})
	case errors.Is(err, portal.ErrBackendUnavailable):
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": err.Error()})
	default:
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
	}
}

func identityOrAbort(c *gin.Context) (auth.Identity, bool) {
	ident, ok := auth.IdentityFrom(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "no session"})
	}
	return ident, ok
}

// SignIn resolves an email to an account and returns a session token
func (h *PortalHandler) SignIn(c *gin.Context) {
	var req struct {
		Email string `json:"email" binding:"required,email"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	token, ident, err := h.sessions.SignIn(c.Request.Context(), req.Email)
	if err != nil {
		if errors.Is(err, auth.ErrUnknownEmail) {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid credentials"})
			return
		}
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"token": token,
		"user":  ident,
	})
}

// SignOut revokes the caller's session token
func (h *PortalHandler) SignOut(c *gin.Context) {
	header := c.GetHeader("Authorization")
	if token, ok := strings.CutPrefix(header, "Bearer "); ok {
		h.sessions.SignOut(token)
	}
	c.JSON(http.StatusOK, gin.H{"message": "signed out"})
}

// Me returns the caller's identity
func (h *PortalHandler) Me(c *gin.Context) {
	ident, ok := identityOrAbort(c)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, ident)
}

// ListApartments returns all apartments
func (h *PortalHandler) ListApartments(c *gin.Context) {
	apartments, err := h.svc.ListApartments(c.Request.Context())
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"apartments": apartments,
		"count":      len(apartments),
	})
}

// GetApartment returns a single apartment
func (h *PortalHandler) GetApartment(c *gin.Context) {
	apartment, err := h.svc.GetApartment(c.Request.Context(), c.Param("id"))
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, apartment)
}

// ListServiceRequests returns the requests visible to the caller
func (h *PortalHandler) ListServiceRequests(c *gin.Context) {
	ident, ok := identityOrAbort(c)
	if !ok {
		return
	}
	requests, err := h.svc.ListServiceRequests(c.Request.Context(), ident)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"service_requests": requests,
		"count":            len(requests),
	})
}

// CreateServiceRequest files a new service request
func (h *PortalHandler) CreateServiceRequest(c *gin.Context) {
	ident, ok := identityOrAbort(c)
	if !ok {
		return
	}

	var req struct {
		ApartmentID string `json:"apartment_id" binding:"required"`
		TenantID    string `json:"tenant_id" binding:"required"`
		Type        string `json:"type" binding:"required,oneof=cleaning maintenance plumbing electrical other"`
		Description string `json:"description" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	request, err := h.svc.CreateServiceRequest(c.Request.Context(), ident, portal.CreateServiceRequestInput{
		ApartmentID: req.ApartmentID,
		TenantID:    req.TenantID,
		Type:        models.ServiceType(req.Type),
		Description: req.Description,
	})
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusCreated, request)
}

// UpdateServiceRequestStatus advances a request's workflow status
func (h *PortalHandler) UpdateServiceRequestStatus(c *gin.Context) {
	ident, ok := identityOrAbort(c)
	if !ok {
		return
	}

	var req struct {
		Status string `json:"status" binding:"required,oneof=pending in-progress completed"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	request, err := h.svc.UpdateServiceRequestStatus(
		c.Request.Context(), ident, c.Param("id"), models.ServiceRequestStatus(req.Status))
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, request)
}

// ListPayments returns the payments visible to the caller
func (h *PortalHandler) ListPayments(c *gin.Context) {
	ident, ok := identityOrAbort(c)
	if !ok {
		return
	}
	payments, err := h.svc.ListPayments(c.Request.Context(), ident)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"payments": payments,
		"count":    len(payments),
	})
}

// CreatePayment submits a payment for settlement
func (h *PortalHandler) CreatePayment(c *gin.Context) {
	ident, ok := identityOrAbort(c)
	if !ok {
		return
	}

	var req struct {
		TenantID    string  `json:"tenant_id" binding:"required"`
		ApartmentID string  `json:"apartment_id" binding:"required"`
		Amount      float64 `json:"amount" binding:"required,gt=0"`
		Description string  `json:"description"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	payment, err := h.svc.CreatePayment(c.Request.Context(), ident, portal.CreatePaymentInput{
		TenantID:    req.TenantID,
		ApartmentID: req.ApartmentID,
		Amount:      req.Amount,
		Description: req.Description,
	})
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusCreated, payment)
}

// ListUsers returns the accounts visible to the caller
func (h *PortalHandler) ListUsers(c *gin.Context) {
	ident, ok := identityOrAbort(c)
	if !ok {
		return
	}
	users, err := h.svc.ListUsers(c.Request.Context(), ident)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"users": users,
		"count": len(users),
	})
}

// GetUser returns a single account
func (h *PortalHandler) GetUser(c *gin.Context) {
	ident, ok := identityOrAbort(c)
	if !ok {
		return
	}
	user, err := h.svc.GetUser(c.Request.Context(), ident, c.Param("id"))
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, user)
}

// CreateUser registers a new account
func (h *PortalHandler) CreateUser(c *gin.Context) {
	ident, ok := identityOrAbort(c)
	if !ok {
		return
	}

	var req struct {
		Email       string  `json:"email" binding:"required,email"`
		Name        string  `json:"name" binding:"required"`
		Role        string  `json:"role" binding:"required,oneof=tenant manager"`
		ApartmentID *string `json:"apartment_id"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	user, err := h.svc.CreateUser(c.Request.Context(), ident, portal.CreateUserInput{
		Email:       req.Email,
		Name:        req.Name,
		Role:        models.UserRole(req.Role),
		ApartmentID: req.ApartmentID,
	})
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusCreated, user)
}

// ListLocations returns the neighborhood map locations
func (h *PortalHandler) ListLocations(c *gin.Context) {
	locations, err := h.svc.ListLocations(c.Request.Context())
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"locations": locations,
		"count":     len(locations),
	})
}
