package core

import (
	"context"
	"fmt"

	"github.com/dogjoy/miniapp/internal/api"
	"github.com/dogjoy/miniapp/internal/auth"
	"github.com/dogjoy/miniapp/internal/logger"
)

// PaymentDescription is sent with every subscription payment.
const PaymentDescription = "Подписка на тариф"

type BillingService struct {
	api *api.Client
}

func NewBillingService(client *api.Client) *BillingService {
	return &BillingService{api: client}
}

// Subscribe creates a payment for one month of tariff and returns the URL
// the user has to open to confirm it.
func (s *BillingService) Subscribe(ctx context.Context, sess auth.Session, tariff api.Tariff) (string, error) {
	if err := requireSession(sess); err != nil {
		return "", err
	}

	payment, err := s.api.CreatePayment(ctx, sess.AuthToken, api.PaymentRequest{
		UserID:      sess.UserID,
		TariffID:    tariff.ID,
		Amount:      tariff.MonthlyPrice,
		Description: PaymentDescription,
	})
	if err != nil {
		return "", fmt.Errorf("create payment: %w", err)
	}
	if payment.ConfirmationURL == "" {
		return "", ErrNoConfirmationURL
	}

	logger.Infof("payment %s created for user %s, tariff %s", payment.ID, sess.UserID, tariff.ID)
	return payment.ConfirmationURL, nil
}

func (s *BillingService) Orders(ctx context.Context, sess auth.Session) ([]api.Order, error) {
	if err := requireSession(sess); err != nil {
		return nil, err
	}
	orders, err := s.api.GetOrders(ctx, sess.AuthToken, sess.UserID)
	if err != nil {
		return nil, fmt.Errorf("list orders: %w", err)
	}
	return nonNil(orders), nil
}

func (s *BillingService) Order(ctx context.Context, sess auth.Session, orderID string) (*api.Order, error) {
	if err := requireSession(sess); err != nil {
		return nil, err
	}
	order, err := s.api.GetOrder(ctx, sess.AuthToken, orderID)
	if err != nil {
		return nil, fmt.Errorf("get order %s: %w", orderID, err)
	}
	return order, nil
}

func (s *BillingService) CancelSubscription(ctx context.Context, sess auth.Session) error {
	if err := requireSession(sess); err != nil {
		return err
	}
	if err := s.api.CancelSubscription(ctx, sess.AuthToken, sess.UserID); err != nil {
		return fmt.Errorf("cancel subscription: %w", err)
	}
	logger.Infof("subscription cancelled for user %s", sess.UserID)
	return nil
}
