package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"order_manager/internal/services"
)

// CronHandler exposes the reminder and overdue sweeps to the external
// scheduler. Both sweeps share one engine; the scheduler just picks the
// cadence.
type CronHandler struct {
	reminderService services.ReminderService
}

func NewCronHandler(reminderService services.ReminderService) *CronHandler {
	return &CronHandler{reminderService: reminderService}
}

func (h *CronHandler) RunReminders(c *gin.Context) {
	sent, err := h.reminderService.RunReminderSweep(time.Now())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Reminder sweep failed"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "ok", "sent": sent})
}

func (h *CronHandler) RunOverdue(c *gin.Context) {
	sent, err := h.reminderService.RunOverdueSweep(time.Now())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Overdue sweep failed"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "ok", "sent": sent})
}
