// Package checkout drives the three-step purchase wizard: delivery
// details, payment, confirmation.
package checkout

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"

	"github.com/shopspring/decimal"

	"laptopshop/models"
)

type State string

const (
	StateIdle          State = "idle"
	StateDetails       State = "details"
	StatePayment       State = "payment"
	StateProcessing    State = "processing"
	StatePaymentFailed State = "payment_failed"
	StateConfirmed     State = "confirmed"
)

type Method string

const (
	MethodCard   Method = "card"
	MethodMobile Method = "mobile"
)

const DefaultCity = "Lusaka"

var (
	ErrEmptyCart         = errors.New("cart is empty")
	ErrInvalidTransition = errors.New("action not allowed in current checkout step")
)

type Details struct {
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
	Email     string `json:"email"`
	Phone     string `json:"phone"`
	Address   string `json:"address"`
	City      string `json:"city"`
	Area      string `json:"area"`
	Notes     string `json:"notes"`
}

// ShippingAddress joins the address lines that were filled in.
func (d Details) ShippingAddress() string {
	var parts []string
	for _, p := range []string{d.Address, d.Area, d.City} {
		if p = strings.TrimSpace(p); p != "" {
			parts = append(parts, p)
		}
	}
	return strings.Join(parts, ", ")
}

type Payment struct {
	Method         Method `json:"method"`
	CardNumber     string `json:"cardNumber"`
	ExpiryDate     string `json:"expiryDate"`
	CVV            string `json:"cvv"`
	CardName       string `json:"cardName"`
	MobileProvider string `json:"mobileProvider"`
	MobileNumber   string `json:"mobileNumber"`
}

// Label is the payment_method value recorded with an order.
func (p Payment) Label() string {
	if p.Method == MethodMobile && p.MobileProvider != "" {
		return string(MethodMobile) + ":" + p.MobileProvider
	}
	return string(p.Method)
}

// Prefill seeds the details form for a signed-in shopper.
type Prefill struct {
	FirstName string
	LastName  string
	Email     string
}

// Completed is handed to the completion callback once an order is confirmed.
type Completed struct {
	Details Details
	Payment Payment
	Items   []models.CartItem
	Total   int64
	Receipt Receipt
}

// Snapshot is a read-only view of the flow for clients.
type Snapshot struct {
	State   State             `json:"state"`
	Total   int64             `json:"total"`
	Items   []models.CartItem `json:"items"`
	Details Details           `json:"details"`
	Method  Method            `json:"paymentMethod,omitempty"`
	Receipt *Receipt          `json:"receipt,omitempty"`
	Error   string            `json:"error,omitempty"`
}

// Flow is one session's checkout. Card and mobile numbers are held only
// until the flow completes or is reset.
type Flow struct {
	mu         sync.Mutex
	state      State
	details    Details
	payment    Payment
	items      []models.CartItem
	total      int64
	receipt    *Receipt
	lastErr    error
	prefill    func() Prefill
	processor  PaymentProcessor
	onComplete func(context.Context, Completed) error
}

// NewFlow returns an idle flow. prefill, when not nil, is asked for the
// signed-in shopper every time the form is reset.
func NewFlow(processor PaymentProcessor, onComplete func(context.Context, Completed) error, prefill func() Prefill) *Flow {
	f := &Flow{
		processor:  processor,
		onComplete: onComplete,
		prefill:    prefill,
	}
	f.reset()
	return f
}

// Start opens the details step with a snapshot of the cart. The total is
// fixed here and is what the confirmation reports.
func (f *Flow) Start(items []models.CartItem, total int64) error {
	if len(items) == 0 {
		return ErrEmptyCart
	}
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.state == StateProcessing || f.state == StateConfirmed {
		return ErrInvalidTransition
	}
	f.reset()
	f.items = append([]models.CartItem(nil), items...)
	f.total = total
	f.state = StateDetails
	return nil
}

func (f *Flow) SubmitDetails(d Details) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.state != StateDetails {
		return ErrInvalidTransition
	}
	d = trimDetails(d)
	if d.City == "" {
		d.City = DefaultCity
	}
	f.details = d
	if err := validateDetails(d); err != nil {
		return err
	}
	f.state = StatePayment
	return nil
}

// Back returns from the payment step to details.
func (f *Flow) Back() error {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.state != StatePayment && f.state != StatePaymentFailed {
		return ErrInvalidTransition
	}
	f.state = StateDetails
	f.lastErr = nil
	return nil
}

// SubmitPayment validates p and charges the snapshotted total. It blocks
// for as long as the processor does. On failure the flow moves to
// StatePaymentFailed, from which payment can be resubmitted.
func (f *Flow) SubmitPayment(ctx context.Context, p Payment) (Receipt, error) {
	f.mu.Lock()
	if f.state != StatePayment && f.state != StatePaymentFailed {
		f.mu.Unlock()
		return Receipt{}, ErrInvalidTransition
	}
	if err := validatePayment(p); err != nil {
		f.mu.Unlock()
		return Receipt{}, err
	}
	f.payment = p
	f.state = StateProcessing
	f.lastErr = nil
	amount := decimal.NewFromInt(f.total)
	f.mu.Unlock()

	receipt, err := f.processor.Charge(ctx, amount, p.Method)

	f.mu.Lock()
	defer f.mu.Unlock()
	if err != nil {
		f.state = StatePaymentFailed
		f.lastErr = err
		return Receipt{}, fmt.Errorf("payment failed: %w", err)
	}
	f.receipt = &receipt
	f.state = StateConfirmed
	return receipt, nil
}

// Complete hands the confirmed order to the completion callback and resets
// the flow. Calling it outside StateConfirmed returns ErrInvalidTransition,
// so a scheduled and a manual completion cannot both run.
func (f *Flow) Complete(ctx context.Context) error {
	f.mu.Lock()
	if f.state != StateConfirmed {
		f.mu.Unlock()
		return ErrInvalidTransition
	}
	done := Completed{
		Details: f.details,
		Payment: f.payment,
		Items:   append([]models.CartItem(nil), f.items...),
		Total:   f.total,
		Receipt: *f.receipt,
	}
	f.reset()
	f.mu.Unlock()

	if f.onComplete == nil {
		return nil
	}
	return f.onComplete(ctx, done)
}

// Cancel abandons the checkout unless payment is in flight.
func (f *Flow) Cancel() error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.state == StateProcessing {
		return ErrInvalidTransition
	}
	f.reset()
	return nil
}

func (f *Flow) State() State {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.state
}

func (f *Flow) Snapshot() Snapshot {
	f.mu.Lock()
	defer f.mu.Unlock()
	s := Snapshot{
		State:   f.state,
		Total:   f.total,
		Items:   append([]models.CartItem{}, f.items...),
		Details: f.details,
		Method:  f.payment.Method,
	}
	if f.receipt != nil {
		r := *f.receipt
		s.Receipt = &r
	}
	if f.lastErr != nil {
		s.Error = f.lastErr.Error()
	}
	return s
}

// IdleSnapshot is the view of a session that never started a checkout.
func IdleSnapshot() Snapshot {
	return NewFlow(nil, nil, nil).Snapshot()
}

// reset clears every field and prefills name and email of whoever is
// signed in now. mu must be held.
func (f *Flow) reset() {
	var p Prefill
	if f.prefill != nil {
		p = f.prefill()
	}
	f.state = StateIdle
	f.details = Details{
		FirstName: p.FirstName,
		LastName:  p.LastName,
		Email:     p.Email,
		City:      DefaultCity,
	}
	f.payment = Payment{}
	f.items = nil
	f.total = 0
	f.receipt = nil
	f.lastErr = nil
}

func trimDetails(d Details) Details {
	d.FirstName = strings.TrimSpace(d.FirstName)
	d.LastName = strings.TrimSpace(d.LastName)
	d.Email = strings.TrimSpace(d.Email)
	d.Phone = strings.TrimSpace(d.Phone)
	d.Address = strings.TrimSpace(d.Address)
	d.City = strings.TrimSpace(d.City)
	d.Area = strings.TrimSpace(d.Area)
	return d
}

func validateDetails(d Details) error {
	return models.Missing("Please fill in all required fields", [][2]string{
		{"firstName", d.FirstName},
		{"lastName", d.LastName},
		{"email", d.Email},
		{"phone", d.Phone},
		{"address", d.Address},
	})
}

func validatePayment(p Payment) error {
	switch p.Method {
	case MethodCard:
		return models.Missing("Please fill in all card details", [][2]string{
			{"cardNumber", p.CardNumber},
			{"expiryDate", p.ExpiryDate},
			{"cvv", p.CVV},
			{"cardName", p.CardName},
		})
	case MethodMobile:
		return models.Missing("Please fill in mobile money details", [][2]string{
			{"mobileProvider", p.MobileProvider},
			{"mobileNumber", p.MobileNumber},
		})
	case "":
		return &models.ValidationError{Message: "Please select a payment method", Fields: []string{"method"}}
	default:
		return &models.ValidationError{Message: "Unsupported payment method", Fields: []string{"method"}}
	}
}
