package handler

import (
	"vidstream-go/internal/api/response"
	"vidstream-go/internal/service"

	"github.com/gin-gonic/gin"
)

type SubscriptionHandler struct {
	toggleService       *service.ToggleService
	subscriptionService *service.SubscriptionService
}

func NewSubscriptionHandler(toggleService *service.ToggleService, subscriptionService *service.SubscriptionService) *SubscriptionHandler {
	return &SubscriptionHandler{toggleService: toggleService, subscriptionService: subscriptionService}
}

// Toggle POST /api/v1/subscriptions/c/:id
func (h *SubscriptionHandler) Toggle(c *gin.Context) {
	channelID, err := parseIDParam(c)
	if err != nil {
		response.BadRequest(c, "无效的频道ID")
		return
	}

	result, err := h.toggleService.ToggleSubscription(c.Request.Context(), currentUser(c), channelID)
	if err != nil {
		handleServiceError(c, "Toggle subscription", err)
		return
	}

	message := "订阅成功"
	if !result.Active {
		message = "已取消订阅"
	}
	response.OK(c, message, result)
}

// ChannelInfo GET /api/v1/subscriptions/c/:id
func (h *SubscriptionHandler) ChannelInfo(c *gin.Context) {
	channelID, err := parseIDParam(c)
	if err != nil {
		response.BadRequest(c, "无效的频道ID")
		return
	}

	info, err := h.subscriptionService.ChannelInfo(c.Request.Context(), currentUser(c), channelID)
	if err != nil {
		handleServiceError(c, "Get subscription info", err)
		return
	}

	response.OK(c, "获取成功", info)
}

// ListSubscribers GET /api/v1/subscriptions/c/:id/subscribers
func (h *SubscriptionHandler) ListSubscribers(c *gin.Context) {
	channelID, err := parseIDParam(c)
	if err != nil {
		response.BadRequest(c, "无效的频道ID")
		return
	}
	page, pageSize := parsePagination(c)

	data, err := h.subscriptionService.ListSubscribers(c.Request.Context(), channelID, page, pageSize)
	if err != nil {
		handleServiceError(c, "List subscribers", err)
		return
	}

	response.OK(c, "获取订阅者列表成功", data)
}

// ListSubscribedChannels GET /api/v1/subscriptions/u/:id
func (h *SubscriptionHandler) ListSubscribedChannels(c *gin.Context) {
	subscriberID, err := parseIDParam(c)
	if err != nil {
		response.BadRequest(c, "无效的用户ID")
		return
	}
	page, pageSize := parsePagination(c)

	data, err := h.subscriptionService.ListSubscribedChannels(c.Request.Context(), subscriberID, page, pageSize)
	if err != nil {
		handleServiceError(c, "List subscribed channels", err)
		return
	}

	response.OK(c, "获取订阅频道列表成功", data)
}
