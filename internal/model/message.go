package model

// SendMessageRequest pushes a plain text message to one user.
type SendMessageRequest struct {
	UserID  string `json:"userId"`
	Message string `json:"message"`
}

// PromotionRequest describes a promotional card. TargetUserID "all" means every known user.
type PromotionRequest struct {
	TargetUserID string `json:"targetUserId"`
	ProductName  string `json:"productName"`
	Description  string `json:"description"`
	Link         string `json:"link"`
	ImageURL     string `json:"imageUrl"`
}

// PromotionTargetAll selects every stored user as a promotion recipient.
const PromotionTargetAll = "all"

// PromotionResult reports a promotion fan-out.
type PromotionResult struct {
	Recipients int `json:"recipients"`
	Sent       int `json:"sent"`
	Failed     int `json:"failed"`
}

// WebhookPayload is the callback body posted by the messaging gateway.
type WebhookPayload struct {
	Events []WebhookEvent `json:"events"`
}

// WebhookEvent is a single gateway event.
type WebhookEvent struct {
	Type   string `json:"type"`
	Source struct {
		UserID string `json:"userId"`
	} `json:"source"`
	Message *struct {
		Type string `json:"type"`
		Text string `json:"text"`
	} `json:"message,omitempty"`
}
