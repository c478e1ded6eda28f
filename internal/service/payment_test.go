package service

import (
	"errors"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/recaudacion/rifas-api/internal/domain"
)

var testMethods = []domain.PaymentMethod{
	{ID: 1, Name: "Depósito", RequiresEvidence: true, Active: true},
	{ID: 2, Name: "Transferencia", RequiresEvidence: true, Active: true},
	{ID: 3, Name: "Efectivo", Active: true},
	{ID: 4, Name: "Cheque", RequiresEvidence: true, Active: true},
	{ID: 5, Name: "Vale", Active: false},
}

func d(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func TestPaymentAllocatorValidate(t *testing.T) {
	tests := []struct {
		name     string
		payments []domain.Payment
		subtotal string
		wantErr  error
		wantMsg  string
	}{
		{
			name:     "empty list",
			subtotal: "10.00",
			wantErr:  ErrInvalidPayment,
		},
		{
			name:     "zero amount",
			payments: []domain.Payment{{PaymentMethodID: 3, Amount: d("0")}},
			subtotal: "0",
			wantErr:  ErrInvalidPayment,
			wantMsg:  "pagos[0]",
		},
		{
			name:     "negative amount",
			payments: []domain.Payment{{PaymentMethodID: 3, Amount: d("20")}, {PaymentMethodID: 3, Amount: d("-10")}},
			subtotal: "10",
			wantErr:  ErrInvalidPayment,
			wantMsg:  "pagos[1]",
		},
		{
			name:     "sub-cent amounts",
			payments: []domain.Payment{{PaymentMethodID: 3, Amount: d("25.005")}, {PaymentMethodID: 3, Amount: d("24.995")}},
			subtotal: "50.00",
			wantErr:  ErrInvalidPayment,
			wantMsg:  "pagos[0]: amount must have at most 2 decimal places",
		},
		{
			name:     "unknown method",
			payments: []domain.Payment{{PaymentMethodID: 42, Amount: d("10")}},
			subtotal: "10",
			wantErr:  ErrUnknownPaymentMethod,
			wantMsg:  "payment method 42",
		},
		{
			name:     "inactive method",
			payments: []domain.Payment{{PaymentMethodID: 5, Amount: d("10")}},
			subtotal: "10",
			wantErr:  ErrUnknownPaymentMethod,
		},
		{
			name:     "transfer without proof",
			payments: []domain.Payment{{PaymentMethodID: 2, Amount: d("10"), CorrelationCode: "X1"}},
			subtotal: "10",
			wantErr:  ErrPaymentEvidenceMissing,
			wantMsg:  "Transferencia requires imagenTransferencia",
		},
		{
			name:     "blank evidence",
			payments: []domain.Payment{{PaymentMethodID: 4, Amount: d("10"), CorrelationCode: "  ", TransferProof: " "}},
			subtotal: "10",
			wantErr:  ErrPaymentEvidenceMissing,
			wantMsg:  "correlativo and imagenTransferencia",
		},
		{
			name:     "short by one cent",
			payments: []domain.Payment{{PaymentMethodID: 3, Amount: d("49.99")}},
			subtotal: "50.00",
			wantErr:  ErrPaymentMismatch,
			wantMsg:  "payments total 49.99 does not match subtotal 50.00",
		},
		{
			name:     "overpaid",
			payments: []domain.Payment{{PaymentMethodID: 3, Amount: d("30")}, {PaymentMethodID: 3, Amount: d("30")}},
			subtotal: "50.00",
			wantErr:  ErrPaymentMismatch,
		},
	}

	allocator := NewPaymentAllocator()
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := allocator.Validate(tt.payments, d(tt.subtotal), testMethods)
			require.Error(t, err)
			assert.Nil(t, got)
			assert.True(t, errors.Is(err, tt.wantErr), "got %v", err)
			if tt.wantMsg != "" {
				assert.Contains(t, err.Error(), tt.wantMsg)
			}
		})
	}
}

func TestPaymentAllocatorNormalizes(t *testing.T) {
	payments := []domain.Payment{
		{PaymentMethodID: 3, Amount: d("15.50")},
		{PaymentMethodID: 3, Amount: d("4.50"), CorrelationCode: "REC-1"},
		{PaymentMethodID: 1, Amount: d("30"), CorrelationCode: " DEP-9 ", TransferProof: "boleta.png"},
	}

	got, err := NewPaymentAllocator().Validate(payments, d("50.00"), testMethods)
	require.NoError(t, err)
	require.Len(t, got, 3)

	assert.Equal(t, domain.NoCorrelationCode, got[0].CorrelationCode)
	assert.Equal(t, domain.CashProof, got[0].TransferProof)
	assert.Equal(t, "REC-1", got[1].CorrelationCode)
	assert.Equal(t, domain.CashProof, got[1].TransferProof)
	assert.Equal(t, "DEP-9", got[2].CorrelationCode)
	assert.Equal(t, "boleta.png", got[2].TransferProof)
	for _, p := range got {
		assert.True(t, p.Active)
	}

	assert.Empty(t, payments[0].CorrelationCode, "input must not be modified")
}

func TestPaymentMismatchErrorIs(t *testing.T) {
	err := error(&PaymentMismatchError{Subtotal: d("10"), Paid: d("5")})
	assert.ErrorIs(t, err, ErrPaymentMismatch)
	assert.NotErrorIs(t, err, ErrInvalidPayment)
}

func TestPaymentMethodIDs(t *testing.T) {
	ids := paymentMethodIDs([]domain.Payment{
		{PaymentMethodID: 3}, {PaymentMethodID: 1}, {PaymentMethodID: 3},
	})
	assert.Equal(t, []uint{3, 1}, ids)
}
