package service

import (
	"context"
	"fmt"
	"strings"
	"sync/atomic"

	"chatmart/internal/gateway"
	"chatmart/internal/model"
	"chatmart/internal/repository"

	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"
)

// signupKeyword is the chat text that turns a follower into a member.
const signupKeyword = "สมัครสมาชิก"

const defaultPromotionConcurrency = 8

type messagingService struct {
	sender      gateway.Sender
	userRepo    repository.UserRepository
	richMenuID  string
	concurrency int
	logger      zerolog.Logger
}

// MessagingOption configures the messaging service.
type MessagingOption func(*messagingService)

// WithPromotionConcurrency bounds the number of in-flight promotion sends.
func WithPromotionConcurrency(n int) MessagingOption {
	return func(s *messagingService) {
		if n > 0 {
			s.concurrency = n
		}
	}
}

// NewMessagingService creates a new messaging service. richMenuID is linked
// to users who sign up through the webhook.
func NewMessagingService(sender gateway.Sender, userRepo repository.UserRepository, richMenuID string, logger zerolog.Logger, opts ...MessagingOption) MessagingService {
	s := &messagingService{
		sender:      sender,
		userRepo:    userRepo,
		richMenuID:  richMenuID,
		concurrency: defaultPromotionConcurrency,
		logger:      logger.With().Str("service", "messaging").Logger(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// SendMessage pushes a text message synchronously and returns the gateway response.
func (s *messagingService) SendMessage(ctx context.Context, req *model.SendMessageRequest) (*gateway.SendResult, error) {
	if req == nil || strings.TrimSpace(req.UserID) == "" {
		return nil, model.NewValidationError("userId is required")
	}

	result, err := s.sender.Send(ctx, req.UserID, req.Message, nil)
	if err != nil {
		s.logger.Error().Err(err).Str("recipient", req.UserID).Msg("failed to send message")
		return nil, err
	}
	return result, nil
}

// SendPromotion sends a promotion card to one user, or to every known user
// when TargetUserID is "all". A broadcast never fails on individual sends;
// they are counted in the result instead.
func (s *messagingService) SendPromotion(ctx context.Context, req *model.PromotionRequest) (*model.PromotionResult, error) {
	if req == nil || strings.TrimSpace(req.ProductName) == "" || strings.TrimSpace(req.Link) == "" ||
		strings.TrimSpace(req.ImageURL) == "" {
		return nil, model.NewValidationError("productName, link and imageUrl are required")
	}
	target := strings.TrimSpace(req.TargetUserID)
	if target == "" {
		return nil, model.NewValidationError("targetUserId is required")
	}

	card := gateway.PromotionCard(req.ProductName, req.Description, req.Link, req.ImageURL)

	if target != model.PromotionTargetAll {
		if _, err := s.sender.Send(ctx, target, "", card); err != nil {
			s.logger.Error().Err(err).Str("recipient", target).Msg("failed to send promotion")
			return nil, err
		}
		return &model.PromotionResult{Recipients: 1, Sent: 1}, nil
	}

	recipients, err := s.userRepo.ListIDs(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list promotion recipients: %w", err)
	}

	var sent, failed atomic.Int64
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(s.concurrency)
	for _, userID := range recipients {
		userID := userID
		g.Go(func() error {
			if _, err := s.sender.Send(gctx, userID, "", card); err != nil {
				failed.Add(1)
				s.logger.Warn().Err(err).Str("recipient", userID).Msg("promotion send failed")
				return nil
			}
			sent.Add(1)
			return nil
		})
	}
	_ = g.Wait()

	result := &model.PromotionResult{
		Recipients: len(recipients),
		Sent:       int(sent.Load()),
		Failed:     int(failed.Load()),
	}
	s.logger.Info().
		Str("product_name", req.ProductName).
		Int("recipients", result.Recipients).
		Int("sent", result.Sent).
		Int("failed", result.Failed).
		Msg("promotion broadcast finished")

	return result, nil
}

// HandleWebhook reacts to the first gateway event only. A sign-up message
// links the member rich menu and sends a welcome text.
func (s *messagingService) HandleWebhook(ctx context.Context, payload *model.WebhookPayload) error {
	if payload == nil || len(payload.Events) == 0 {
		return nil
	}

	event := payload.Events[0]
	if event.Message == nil || strings.TrimSpace(event.Message.Text) != signupKeyword {
		return nil
	}

	userID := event.Source.UserID
	if userID == "" {
		return model.NewValidationError("event source has no userId")
	}

	if err := s.sender.LinkRichMenu(ctx, userID, s.richMenuID); err != nil {
		s.logger.Error().Err(err).Str("user_id", userID).Msg("failed to link rich menu")
		return err
	}
	if _, err := s.sender.Send(ctx, userID, welcomeMessage, nil); err != nil {
		s.logger.Error().Err(err).Str("user_id", userID).Msg("failed to send welcome message")
		return err
	}

	s.logger.Info().Str("user_id", userID).Msg("member signed up")
	return nil
}
