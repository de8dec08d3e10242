package handler

import (
	"net/http"

	"chatmart/internal/model"
	"chatmart/internal/service"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

// PaymentHandler handles payment recording.
type PaymentHandler struct {
	service service.PaymentService
	logger  zerolog.Logger
}

// NewPaymentHandler creates a new payment handler.
func NewPaymentHandler(service service.PaymentService, logger zerolog.Logger) *PaymentHandler {
	return &PaymentHandler{
		service: service,
		logger:  logger.With().Str("handler", "payment").Logger(),
	}
}

type paymentResponse struct {
	Success   bool      `json:"success"`
	Message   string    `json:"message"`
	PaymentID uuid.UUID `json:"payment_id"`
}

// Create handles POST /payments requests.
func (h *PaymentHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req model.PaymentRequest
	if !decodeJSON(w, r, &req, h.logger) {
		return
	}

	payment, err := h.service.RecordPayment(r.Context(), &req)
	if err != nil {
		writeServiceError(w, err, "failed to record payment", h.logger)
		return
	}

	writeJSON(w, http.StatusOK, paymentResponse{
		Success:   true,
		Message:   "บันทึกการชำระเงินสำเร็จ",
		PaymentID: payment.ID,
	})
}
