package domain

import "github.com/shopspring/decimal"

const (
	NoCorrelationCode = "NA"
	CashProof         = "cash"

	// MoneyScale is the number of decimal places stored for every amount.
	MoneyScale = 2
)

// PaymentMethod (tipo de pago). Methods with RequiresEvidence need a
// correlation code and a transfer proof on every payment.
type PaymentMethod struct {
	ID               uint   `json:"id"`
	Name             string `json:"name"`
	RequiresEvidence bool   `json:"requires_evidence"`
	Active           bool   `json:"active"`
}

// Payment (detalle de pago) is one method's contribution to a sale subtotal.
type Payment struct {
	ID              uint            `json:"id"`
	RaffleSaleID    uint            `json:"raffle_sale_id"`
	PaymentMethodID uint            `json:"payment_method_id"`
	Amount          decimal.Decimal `json:"amount"`
	CorrelationCode string          `json:"correlation_code"`
	TransferProof   string          `json:"transfer_proof"`
	Active          bool            `json:"active"`
}

// SumPayments adds up the amounts of payments.
func SumPayments(payments []Payment) decimal.Decimal {
	total := decimal.Zero
	for _, p := range payments {
		total = total.Add(p.Amount)
	}
	return total
}
