package checkout

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

var ErrPaymentDeclined = errors.New("payment declined")

type Receipt struct {
	ID        string          `json:"id"`
	Amount    decimal.Decimal `json:"amount"`
	Method    Method          `json:"method"`
	ChargedAt time.Time       `json:"chargedAt"`
}

// PaymentProcessor takes payment for a confirmed checkout.
type PaymentProcessor interface {
	Charge(ctx context.Context, amount decimal.Decimal, method Method) (Receipt, error)
}

// SimulatedProcessor stands in for a payment gateway: it waits Delay and
// then approves, unless Decline says otherwise.
type SimulatedProcessor struct {
	Delay   time.Duration
	Decline func(amount decimal.Decimal, method Method) bool
}

func (p *SimulatedProcessor) Charge(ctx context.Context, amount decimal.Decimal, method Method) (Receipt, error) {
	if p.Delay > 0 {
		timer := time.NewTimer(p.Delay)
		defer timer.Stop()
		select {
		case <-ctx.Done():
			return Receipt{}, ctx.Err()
		case <-timer.C:
		}
	}
	if p.Decline != nil && p.Decline(amount, method) {
		return Receipt{}, ErrPaymentDeclined
	}
	return Receipt{
		ID:        uuid.NewString(),
		Amount:    amount,
		Method:    method,
		ChargedAt: time.Now(),
	}, nil
}
