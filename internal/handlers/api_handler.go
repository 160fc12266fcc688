package handlers

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"order_manager/internal/lifecycle"
	"order_manager/internal/models"
	"order_manager/internal/services"
)

type APIHandler struct {
	orderService   services.OrderService
	projectService services.ProjectService
	metricsService services.MetricsService
	userService    services.UserService
}

func NewAPIHandler(
	orderService services.OrderService,
	projectService services.ProjectService,
	metricsService services.MetricsService,
	userService services.UserService,
) *APIHandler {
	return &APIHandler{
		orderService:   orderService,
		projectService: projectService,
		metricsService: metricsService,
		userService:    userService,
	}
}

// Projects

type createProjectRequest struct {
	Name string `json:"name" binding:"required"`
}

func (h *APIHandler) CreateProject(c *gin.Context) {
	var req createProjectRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format"})
		return
	}

	project, err := h.projectService.CreateProject(req.Name, actorFrom(c).ID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create project"})
		return
	}
	c.JSON(http.StatusCreated, project)
}

func (h *APIHandler) ListProjects(c *gin.Context) {
	projects, err := h.projectService.GetUserProjects(actorFrom(c).ID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load projects"})
		return
	}
	c.JSON(http.StatusOK, projects)
}

type addMemberRequest struct {
	UserID int64 `json:"user_id" binding:"required"`
}

func (h *APIHandler) AddProjectMember(c *gin.Context) {
	var req addMemberRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format"})
		return
	}

	err := h.projectService.AddMember(c.Param("project_id"), actorFrom(c).ID, req.UserID)
	if errors.Is(err, services.ErrNotProjectOwner) {
		c.JSON(http.StatusForbidden, gin.H{"error": err.Error()})
		return
	}
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to add member"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "added"})
}

func (h *APIHandler) GetProjectMetrics(c *gin.Context) {
	projectID := c.Param("project_id")
	if !h.requireMembership(c, projectID) {
		return
	}

	window, ok := parseWindow(c)
	if !ok {
		return
	}

	report, err := h.metricsService.GetProjectReport(projectID, window)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to compute metrics"})
		return
	}
	c.JSON(http.StatusOK, report)
}

// Orders

type createOrderRequest struct {
	ProjectID        string           `json:"project_id" binding:"required"`
	Title            string           `json:"title" binding:"required"`
	Description      string           `json:"description"`
	DueDate          string           `json:"due_date"`
	DueTime          string           `json:"due_time"`
	ReminderOffsets  string           `json:"reminder_offsets"`
	TotalAmount      *decimal.Decimal `json:"total_amount"`
	PrepaymentAmount *decimal.Decimal `json:"prepayment_amount"`
}

func (h *APIHandler) CreateOrder(c *gin.Context) {
	var req createOrderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format"})
		return
	}
	if !h.requireMembership(c, req.ProjectID) {
		return
	}

	order := &models.Order{
		ProjectID:       req.ProjectID,
		Title:           req.Title,
		Description:     req.Description,
		DueDate:         req.DueDate,
		DueTime:         req.DueTime,
		ReminderOffsets: req.ReminderOffsets,
	}
	if req.TotalAmount != nil {
		order.TotalAmount = *req.TotalAmount
	}
	if req.PrepaymentAmount != nil {
		order.PrepaymentAmount = *req.PrepaymentAmount
	}

	if err := h.orderService.CreateOrder(order, actorFrom(c)); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create order"})
		return
	}
	c.JSON(http.StatusCreated, order)
}

func (h *APIHandler) ListProjectOrders(c *gin.Context) {
	projectID := c.Param("project_id")
	if !h.requireMembership(c, projectID) {
		return
	}

	includeArchived := c.Query("archived") == "true"
	orders, err := h.orderService.GetProjectOrders(projectID, includeArchived)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load orders"})
		return
	}
	c.JSON(http.StatusOK, orders)
}

func (h *APIHandler) GetOrder(c *gin.Context) {
	order, ok := h.loadOrder(c)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, order)
}

func (h *APIHandler) GetOrderHistory(c *gin.Context) {
	order, ok := h.loadOrder(c)
	if !ok {
		return
	}

	history, err := h.orderService.GetOrderHistory(order.ID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load history"})
		return
	}
	c.JSON(http.StatusOK, history)
}

// updateOrderRequest is the transport shape of a patch. Absent fields stay
// untouched; assignee_id 0 clears the assignment.
type updateOrderRequest struct {
	Title            *string          `json:"title"`
	Description      *string          `json:"description"`
	Status           *string          `json:"status"`
	DueDate          *string          `json:"due_date"`
	DueTime          *string          `json:"due_time"`
	AssigneeID       *int64           `json:"assignee_id"`
	ReminderOffsets  *string          `json:"reminder_offsets"`
	ReviewComment    *string          `json:"review_comment"`
	ReviewImages     *string          `json:"review_images"`
	ReviewAnswer     *string          `json:"review_answer"`
	TotalAmount      *decimal.Decimal `json:"total_amount"`
	PrepaymentAmount *decimal.Decimal `json:"prepayment_amount"`
	Archived         *bool            `json:"archived"`
}

func (h *APIHandler) UpdateOrder(c *gin.Context) {
	order, ok := h.loadOrder(c)
	if !ok {
		return
	}

	var req updateOrderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format"})
		return
	}

	patch, err := h.toPatch(req)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	updated, err := h.orderService.UpdateOrder(order.ID, patch, actorFrom(c))
	switch {
	case errors.Is(err, lifecycle.ErrNothingToUpdate):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	case errors.Is(err, lifecycle.ErrValidation):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	case errors.Is(err, lifecycle.ErrPermissionDenied):
		c.JSON(http.StatusForbidden, gin.H{"error": err.Error()})
	case err != nil:
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update order"})
	default:
		c.JSON(http.StatusOK, updated)
	}
}

// toPatch resolves the assignee's display name so history entries and
// notifications carry a human-readable name.
func (h *APIHandler) toPatch(req updateOrderRequest) (lifecycle.Patch, error) {
	patch := lifecycle.Patch{
		Title:            req.Title,
		Description:      req.Description,
		Status:           req.Status,
		DueDate:          req.DueDate,
		DueTime:          req.DueTime,
		ReminderOffsets:  req.ReminderOffsets,
		ReviewComment:    req.ReviewComment,
		ReviewImages:     req.ReviewImages,
		ReviewAnswer:     req.ReviewAnswer,
		TotalAmount:      req.TotalAmount,
		PrepaymentAmount: req.PrepaymentAmount,
		Archived:         req.Archived,
	}
	if req.AssigneeID == nil {
		return patch, nil
	}
	if *req.AssigneeID == 0 {
		patch.Assignee = &lifecycle.Assignee{}
		return patch, nil
	}

	user, err := h.userService.GetUserByID(*req.AssigneeID)
	if err != nil {
		return patch, errors.New("assignee not found")
	}
	patch.Assignee = &lifecycle.Assignee{ID: user.TelegramID, Name: user.DisplayName()}
	return patch, nil
}

// Profile

type updateProfileRequest struct {
	Timezone             *string `json:"timezone"`
	NotificationsEnabled *bool   `json:"notifications_enabled"`
}

func (h *APIHandler) UpdateProfile(c *gin.Context) {
	var req updateProfileRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format"})
		return
	}

	actorID := actorFrom(c).ID
	if req.Timezone != nil {
		if _, err := time.LoadLocation(*req.Timezone); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Unknown timezone"})
			return
		}
		if err := h.userService.SetTimezone(actorID, *req.Timezone); err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update profile"})
			return
		}
	}
	if req.NotificationsEnabled != nil {
		if err := h.userService.SetNotificationsEnabled(actorID, *req.NotificationsEnabled); err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update profile"})
			return
		}
	}
	c.JSON(http.StatusOK, gin.H{"status": "updated"})
}

// helpers

func (h *APIHandler) loadOrder(c *gin.Context) (*models.Order, bool) {
	order, err := h.orderService.GetOrderByID(c.Param("order_id"))
	if errors.Is(err, gorm.ErrRecordNotFound) {
		c.JSON(http.StatusNotFound, gin.H{"error": "Order not found"})
		return nil, false
	}
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load order"})
		return nil, false
	}
	if !h.requireMembership(c, order.ProjectID) {
		return nil, false
	}
	return order, true
}

func (h *APIHandler) requireMembership(c *gin.Context, projectID string) bool {
	member, err := h.projectService.IsMember(projectID, actorFrom(c).ID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to check project access"})
		return false
	}
	if !member {
		c.JSON(http.StatusForbidden, gin.H{"error": "Not a project member"})
		return false
	}
	return true
}

func parseWindow(c *gin.Context) (*lifecycle.Window, bool) {
	fromStr := c.Query("from")
	toStr := c.Query("to")
	if fromStr == "" && toStr == "" {
		return nil, true
	}

	window := &lifecycle.Window{}
	if fromStr != "" {
		from, err := time.Parse("2006-01-02", fromStr)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid 'from' date"})
			return nil, false
		}
		window.From = &from
	}
	if toStr != "" {
		to, err := time.Parse("2006-01-02", toStr)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid 'to' date"})
			return nil, false
		}
		// inclusive through the end of the day
		end := to.Add(24*time.Hour - time.Second)
		window.To = &end
	}
	return window, true
}
