package handler

import (
	"fmt"
	"net/http"
	"strings"

	"chatmart/internal/gateway"
	"chatmart/internal/model"
	"chatmart/internal/service"

	"github.com/rs/zerolog"
)

// MessagingHandler handles direct messages, promotions and the gateway webhook.
type MessagingHandler struct {
	service service.MessagingService
	logger  zerolog.Logger
}

// NewMessagingHandler creates a new messaging handler.
func NewMessagingHandler(service service.MessagingService, logger zerolog.Logger) *MessagingHandler {
	return &MessagingHandler{
		service: service,
		logger:  logger.With().Str("handler", "messaging").Logger(),
	}
}

type messageResponse struct {
	Message      string              `json:"message"`
	ResponseData *gateway.SendResult `json:"responseData,omitempty"`
}

type promotionResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
	*model.PromotionResult
}

// SendMessage handles POST /send-message requests.
func (h *MessagingHandler) SendMessage(w http.ResponseWriter, r *http.Request) {
	var req model.SendMessageRequest
	if !decodeJSON(w, r, &req, h.logger) {
		return
	}

	result, err := h.service.SendMessage(r.Context(), &req)
	if err != nil {
		writeServiceError(w, err, "ส่งข้อความไม่สำเร็จ", h.logger)
		return
	}
	writeJSON(w, http.StatusOK, messageResponse{Message: "Send message success", ResponseData: result})
}

// SendPromotion handles POST /send-promotion requests.
func (h *MessagingHandler) SendPromotion(w http.ResponseWriter, r *http.Request) {
	var req model.PromotionRequest
	if !decodeJSON(w, r, &req, h.logger) {
		return
	}

	result, err := h.service.SendPromotion(r.Context(), &req)
	if err != nil {
		writeServiceError(w, err, "❌ ส่งข้อความไม่สำเร็จ", h.logger)
		return
	}

	message := "✅ ส่งโปรโมชันสำเร็จ"
	if strings.TrimSpace(req.TargetUserID) == model.PromotionTargetAll {
		message = fmt.Sprintf("✅ ส่งให้ทั้งหมด %d คน", result.Sent)
	}
	writeJSON(w, http.StatusOK, promotionResponse{Success: true, Message: message, PromotionResult: result})
}

// Webhook handles POST /webhook callbacks from the messaging gateway.
func (h *MessagingHandler) Webhook(w http.ResponseWriter, r *http.Request) {
	var payload model.WebhookPayload
	if !decodeJSON(w, r, &payload, h.logger) {
		return
	}

	if len(payload.Events) == 0 {
		writeJSON(w, http.StatusOK, messageResponse{Message: "OK"})
		return
	}

	if err := h.service.HandleWebhook(r.Context(), &payload); err != nil {
		writeServiceError(w, err, "Webhook error", h.logger)
		return
	}
	writeJSON(w, http.StatusOK, messageResponse{Message: "Send message success"})
}
