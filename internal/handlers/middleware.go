package handlers

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"order_manager/internal/auth"
	"order_manager/internal/lifecycle"
	"order_manager/internal/models"
	"order_manager/internal/services"
)

const actorContextKey = "actor"

// TelegramAuth verifies the Mini App init data carried in the Authorization
// header ("tma <initData>") and stores the verified actor on the context.
// The user profile is upserted so cached display names stay fresh.
func TelegramAuth(botToken string, userService services.UserService) gin.HandlerFunc {
	return func(c *gin.Context) {
		initData := strings.TrimPrefix(c.GetHeader("Authorization"), "tma ")
		if initData == "" {
			initData = c.GetHeader("X-Telegram-Init-Data")
		}
		if initData == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Missing init data"})
			return
		}

		tgUser, err := auth.ValidateInitData(initData, botToken)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Invalid init data"})
			return
		}

		if err := userService.UpsertFromTelegram(&models.User{
			TelegramID:           tgUser.ID,
			Username:             tgUser.Username,
			FirstName:            tgUser.FirstName,
			LastName:             tgUser.LastName,
			NotificationsEnabled: true,
		}); err != nil {
			c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "Failed to register user"})
			return
		}

		c.Set(actorContextKey, lifecycle.Actor{
			ID:        tgUser.ID,
			FirstName: tgUser.FirstName,
			LastName:  tgUser.LastName,
			Username:  tgUser.Username,
		})
		c.Next()
	}
}

// CronAuth guards the sweep endpoints invoked by the external scheduler.
func CronAuth(secret string) gin.HandlerFunc {
	return func(c *gin.Context) {
		if c.GetHeader("X-Cron-Secret") != secret {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Invalid cron secret"})
			return
		}
		c.Next()
	}
}

func actorFrom(c *gin.Context) lifecycle.Actor {
	if v, ok := c.Get(actorContextKey); ok {
		if actor, ok := v.(lifecycle.Actor); ok {
			return actor
		}
	}
	return lifecycle.Actor{}
}
