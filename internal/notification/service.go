package notification

import (
	"context"
	"errors"
	"fmt"
)

// Common errors
var (
	ErrNotificationNotFound = errors.New("notification not found")
)

// Service handles notification business logic
type Service struct {
	repo *Repository
}

// NewService creates a new notification service
func NewService(repo *Repository) *Service {
	return &Service{repo: repo}
}

// ListByRecipientID retrieves notifications for a user
func (s *Service) ListByRecipientID(ctx context.Context, recipientID int64, page, perPage int, unreadOnly bool) ([]*Notification, int, error) {
	if page < 1 {
		page = 1
	}
	if perPage < 1 || perPage > 100 {
		perPage = 20
	}

	offset := (page - 1) * perPage
	return s.repo.ListByRecipientID(ctx, recipientID, perPage, offset, unreadOnly)
}

// MarkAsRead marks a notification as read
func (s *Service) MarkAsRead(ctx context.Context, id int64) error {
	return s.repo.MarkAsRead(ctx, id)
}

// GetUnreadCount returns the count of unread notifications
func (s *Service) GetUnreadCount(ctx context.Context, recipientID int64) (int, error) {
	return s.repo.GetUnreadCount(ctx, recipientID)
}

// Helper methods for creating payment lifecycle notices. The failure message
// stays generic on purpose; internal condition names never reach the client.

// NotifyPaymentFailed tells a client their payment did not go through
func (s *Service) NotifyPaymentFailed(ctx context.Context, clientID, orderID int64) error {
	message := "Your payment could not be processed. Please try again."
	entityType := "ORDER"
	_, err := s.repo.Create(ctx, clientID, message, &entityType, &orderID)
	return err
}

// NotifyPaymentConfirmed tells a client their payment settled
func (s *Service) NotifyPaymentConfirmed(ctx context.Context, clientID, orderID int64, invoiceNumber string) error {
	message := fmt.Sprintf("Payment received for your order. Invoice %s has been issued.", invoiceNumber)
	entityType := "ORDER"
	_, err := s.repo.Create(ctx, clientID, message, &entityType, &orderID)
	return err
}

// NotifyLevelUp congratulates a freelancer on reaching a new level
func (s *Service) NotifyLevelUp(ctx context.Context, freelancerID int64, levelName string) error {
	message := fmt.Sprintf("Congratulations! You have reached the %s level and unlocked a higher page rate.", levelName)
	_, err := s.repo.Create(ctx, freelancerID, message, nil, nil)
	return err
}
