package api

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"hotel-booking-backend/internal/model"
	"hotel-booking-backend/internal/store"
)

type putSubscriptionRequest struct {
	Endpoint   string `json:"endpoint" binding:"required"`
	P256DH     string `json:"p256dh" binding:"required"`
	Auth       string `json:"auth" binding:"required"`
	CustomerID int64  `json:"customer_id" binding:"required,gt=0"`
}

// requirePush answers 503 when push notifications are not configured.
func (h *Handler) requirePush(c *gin.Context) bool {
	if h.db == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "push notifications are not configured"})
		return false
	}
	return true
}

// PutSubscription creates or replaces the subscription of a browser. The
// customer receives booking confirmations on it.
func (h *Handler) PutSubscription(c *gin.Context) {
	if !h.requirePush(c) {
		return
	}

	var req putSubscriptionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}

	ctx := c.Request.Context()
	if _, err := h.customers.Get(ctx, req.CustomerID); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			c.JSON(http.StatusUnprocessableEntity, gin.H{"error": "validation failed", "errors": gin.H{"customer_id": "unknown customer"}})
			return
		}
		internalError(c, err)
		return
	}

	subscription := model.PushSubscription{
		Endpoint:   req.Endpoint,
		P256DH:     req.P256DH,
		Auth:       req.Auth,
		CustomerID: req.CustomerID,
	}
	if err := h.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "endpoint"}},
		DoUpdates: clause.AssignmentColumns([]string{"p256dh", "auth", "customer_id"}),
	}).Create(&subscription).Error; err != nil {
		internalError(c, err)
		return
	}

	c.Status(http.StatusCreated)
}

type deleteSubscriptionRequest struct {
	Endpoint string `json:"endpoint" binding:"required"`
}

// DeleteSubscription handles the deletion of a subscription.
func (h *Handler) DeleteSubscription(c *gin.Context) {
	if !h.requirePush(c) {
		return
	}

	var req deleteSubscriptionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}

	if err := h.db.WithContext(c.Request.Context()).Delete(&model.PushSubscription{Endpoint: req.Endpoint}).Error; err != nil {
		internalError(c, err)
		return
	}

	c.Status(http.StatusNoContent)
}

// rawQueryParam reads a query parameter without URL decoding it. Push
// endpoints are stored exactly as the browser reported them.
func rawQueryParam(rawQuery, key string) (string, bool) {
	for _, kv := range strings.Split(rawQuery, "&") {
		if strings.HasPrefix(kv, key+"=") {
			return kv[len(key)+1:], true
		}
	}
	return "", false
}

// GetSubscription reports which customer a browser subscription belongs to.
func (h *Handler) GetSubscription(c *gin.Context) {
	if !h.requirePush(c) {
		return
	}

	raw, ok := rawQueryParam(c.Request.URL.RawQuery, "endpoint")
	if !ok || raw == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "endpoint is required"})
		return
	}

	var subscription model.PushSubscription
	if err := h.db.WithContext(c.Request.Context()).First(&subscription, "endpoint = ?", raw).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "subscription not found"})
		} else {
			internalError(c, err)
		}
		return
	}

	c.JSON(http.StatusOK, gin.H{"customer_id": subscription.CustomerID})
}
