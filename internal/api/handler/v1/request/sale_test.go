package request

import (
	"testing"

	validation "github.com/go-ozzo/ozzo-validation"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func cashPayment(amount string) PaymentRequest {
	return PaymentRequest{PaymentMethodID: 3, Amount: decimal.RequireFromString(amount)}
}

func TestCreateSaleRequestValidate(t *testing.T) {
	tests := []struct {
		name      string
		req       CreateSaleRequest
		wantField string
	}{
		{
			name: "valid",
			req:  CreateSaleRequest{TicketBookID: 1, TicketsSold: 2, Payments: []PaymentRequest{cashPayment("20")}},
		},
		{
			name:      "missing ticket book",
			req:       CreateSaleRequest{TicketsSold: 2, Payments: []PaymentRequest{cashPayment("20")}},
			wantField: "idTalonario",
		},
		{
			name:      "zero tickets",
			req:       CreateSaleRequest{TicketBookID: 1, Payments: []PaymentRequest{cashPayment("20")}},
			wantField: "boletosVendidos",
		},
		{
			name:      "no payments",
			req:       CreateSaleRequest{TicketBookID: 1, TicketsSold: 2},
			wantField: "pagos",
		},
		{
			name:      "zero amount",
			req:       CreateSaleRequest{TicketBookID: 1, TicketsSold: 2, Payments: []PaymentRequest{cashPayment("20"), cashPayment("0")}},
			wantField: "pagos",
		},
		{
			name:      "sub-cent amount",
			req:       CreateSaleRequest{TicketBookID: 1, TicketsSold: 5, Payments: []PaymentRequest{cashPayment("25.005"), cashPayment("24.995")}},
			wantField: "pagos",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.req.Validate()
			if tt.wantField == "" {
				assert.NoError(t, err)
				return
			}

			var errs validation.Errors
			require.ErrorAs(t, err, &errs)
			assert.Contains(t, errs, tt.wantField)
		})
	}
}

func TestUpdateSaleRequestDomainPayments(t *testing.T) {
	req := UpdateSaleRequest{
		SaleID:      4,
		TicketsSold: 3,
		Payments: []PaymentRequest{
			cashPayment("10"),
			{PaymentMethodID: 2, Amount: decimal.RequireFromString("20"), CorrelationCode: "TRX-9", TransferProof: "proof.png"},
		},
	}
	require.NoError(t, req.Validate())

	payments := req.DomainPayments()

	require.Len(t, payments, 2)
	assert.Equal(t, uint(2), payments[1].PaymentMethodID)
	assert.Equal(t, "TRX-9", payments[1].CorrelationCode)
	assert.Equal(t, "proof.png", payments[1].TransferProof)
	assert.True(t, decimal.NewFromInt(10).Equal(payments[0].Amount))
}
