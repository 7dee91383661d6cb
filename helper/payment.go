package helper

import (
	"context"
	"errors"
	"fmt"
	"math"
	"strings"

	"github.com/google/uuid"
	"github.com/stripe/stripe-go/v82"
	"github.com/stripe/stripe-go/v82/paymentintent"
)

type PaymentIntent struct {
	ID           string `json:"id"`
	ClientSecret string `json:"clientSecret"`
	Amount       int64  `json:"amount"`
	Currency     string `json:"currency"`
	Status       string `json:"status"`
}

// PaymentGateway creates payment intents for the amount in major currency
// units.
type PaymentGateway interface {
	CreateIntent(ctx context.Context, amount float64, currency string, metadata map[string]string) (*PaymentIntent, error)
	Name() string
}

var ErrInvalidAmount = errors.New("amount must be positive")

// ToCents converts a major unit amount to the smallest currency unit.
func ToCents(amount float64) (int64, error) {
	if amount <= 0 || math.IsNaN(amount) || math.IsInf(amount, 0) {
		return 0, ErrInvalidAmount
	}
	return int64(math.Round(amount * 100)), nil
}

type StripeGateway struct {
	currency string
}

func NewStripeGateway(secretKey, currency string) (*StripeGateway, error) {
	if secretKey == "" {
		return nil, fmt.Errorf("stripe secret key is required")
	}
	stripe.Key = secretKey
	return &StripeGateway{currency: strings.ToLower(currency)}, nil
}

func (g *StripeGateway) CreateIntent(ctx context.Context, amount float64, currency string, metadata map[string]string) (*PaymentIntent, error) {
	cents, err := ToCents(amount)
	if err != nil {
		return nil, err
	}
	if currency == "" {
		currency = g.currency
	}

	params := &stripe.PaymentIntentParams{
		Amount:   stripe.Int64(cents),
		Currency: stripe.String(currency),
		AutomaticPaymentMethods: &stripe.PaymentIntentAutomaticPaymentMethodsParams{
			Enabled: stripe.Bool(true),
		},
	}
	params.Context = ctx
	for k, v := range metadata {
		params.AddMetadata(k, v)
	}

	pi, err := paymentintent.New(params)
	if err != nil {
		return nil, fmt.Errorf("create payment intent: %w", err)
	}
	return &PaymentIntent{
		ID:           pi.ID,
		ClientSecret: pi.ClientSecret,
		Amount:       pi.Amount,
		Currency:     string(pi.Currency),
		Status:       string(pi.Status),
	}, nil
}

func (g *StripeGateway) Name() string {
	return "stripe"
}

// MockGateway answers without calling out, for development without a
// Stripe key and for tests.
type MockGateway struct {
	Currency string
}

func (g *MockGateway) CreateIntent(_ context.Context, amount float64, currency string, _ map[string]string) (*PaymentIntent, error) {
	cents, err := ToCents(amount)
	if err != nil {
		return nil, err
	}
	if currency == "" {
		currency = g.Currency
	}
	id := "pi_mock_" + strings.ReplaceAll(uuid.NewString(), "-", "")
	return &PaymentIntent{
		ID:           id,
		ClientSecret: id + "_secret",
		Amount:       cents,
		Currency:     strings.ToLower(currency),
		Status:       "requires_payment_method",
	}, nil
}

func (g *MockGateway) Name() string {
	return "mock"
}
