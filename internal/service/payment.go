package service

import (
	"errors"
	"fmt"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/recaudacion/rifas-api/internal/domain"
)

var (
	ErrInvalidPayment         = errors.New("invalid payment")
	ErrPaymentMismatch        = errors.New("payments do not add up to the subtotal")
	ErrPaymentEvidenceMissing = errors.New("payment evidence missing")
	ErrUnknownPaymentMethod   = errors.New("unknown payment method")
	ErrNoPayments             = fmt.Errorf("%w: at least one payment is required", ErrInvalidPayment)
)

// PaymentEntryError points at the payment entry that failed validation.
type PaymentEntryError struct {
	Index  int
	Reason string
	Err    error
}

func (e *PaymentEntryError) Error() string {
	return fmt.Sprintf("pagos[%d]: %s", e.Index, e.Reason)
}

func (e *PaymentEntryError) Unwrap() error {
	return e.Err
}

// PaymentMismatchError reports a payment set whose total differs from the
// subtotal it has to cover.
type PaymentMismatchError struct {
	Subtotal decimal.Decimal
	Paid     decimal.Decimal
}

func (e *PaymentMismatchError) Error() string {
	return fmt.Sprintf("payments total %s does not match subtotal %s", e.Paid.StringFixed(2), e.Subtotal.StringFixed(2))
}

func (e *PaymentMismatchError) Is(target error) bool {
	return target == ErrPaymentMismatch
}

// PaymentAllocator checks that a set of payments covers a subtotal exactly and
// that every entry carries what its payment method demands.
type PaymentAllocator struct{}

func NewPaymentAllocator() *PaymentAllocator {
	return &PaymentAllocator{}
}

// Validate returns a normalized copy of payments. Entries for methods that
// do not require evidence get NoCorrelationCode and CashProof when left blank.
func (a *PaymentAllocator) Validate(payments []domain.Payment, subtotal decimal.Decimal, methods []domain.PaymentMethod) ([]domain.Payment, error) {
	if len(payments) == 0 {
		return nil, ErrNoPayments
	}

	catalog := make(map[uint]domain.PaymentMethod, len(methods))
	for _, m := range methods {
		catalog[m.ID] = m
	}

	normalized := make([]domain.Payment, len(payments))
	for i, p := range payments {
		if !p.Amount.IsPositive() {
			return nil, &PaymentEntryError{Index: i, Reason: "amount must be greater than zero", Err: ErrInvalidPayment}
		}
		if !p.Amount.Equal(p.Amount.Round(domain.MoneyScale)) {
			return nil, &PaymentEntryError{Index: i, Reason: "amount must have at most 2 decimal places", Err: ErrInvalidPayment}
		}

		method, ok := catalog[p.PaymentMethodID]
		if !ok || !method.Active {
			return nil, &PaymentEntryError{
				Index:  i,
				Reason: fmt.Sprintf("payment method %d does not exist", p.PaymentMethodID),
				Err:    ErrUnknownPaymentMethod,
			}
		}

		p.CorrelationCode = strings.TrimSpace(p.CorrelationCode)
		p.TransferProof = strings.TrimSpace(p.TransferProof)

		if method.RequiresEvidence {
			var missing []string
			if p.CorrelationCode == "" {
				missing = append(missing, "correlativo")
			}
			if p.TransferProof == "" {
				missing = append(missing, "imagenTransferencia")
			}
			if len(missing) > 0 {
				return nil, &PaymentEntryError{
					Index:  i,
					Reason: fmt.Sprintf("%s requires %s", method.Name, strings.Join(missing, " and ")),
					Err:    ErrPaymentEvidenceMissing,
				}
			}
		} else {
			if p.CorrelationCode == "" {
				p.CorrelationCode = domain.NoCorrelationCode
			}
			if p.TransferProof == "" {
				p.TransferProof = domain.CashProof
			}
		}

		p.Active = true
		normalized[i] = p
	}

	if paid := domain.SumPayments(normalized); !paid.Equal(subtotal) {
		return nil, &PaymentMismatchError{Subtotal: subtotal, Paid: paid}
	}

	return normalized, nil
}

func paymentMethodIDs(payments []domain.Payment) []uint {
	seen := make(map[uint]struct{}, len(payments))
	ids := make([]uint, 0, len(payments))
	for _, p := range payments {
		if _, ok := seen[p.PaymentMethodID]; ok {
			continue
		}
		seen[p.PaymentMethodID] = struct{}{}
		ids = append(ids, p.PaymentMethodID)
	}
	return ids
}
