package request

import (
	"errors"

	validation "github.com/go-ozzo/ozzo-validation"
	"github.com/shopspring/decimal"

	"github.com/recaudacion/rifas-api/internal/domain"
)

const maxPaymentsPerSale = 20

var (
	errNonPositiveAmount = errors.New("must be greater than zero")
	errAmountScale       = errors.New("must have at most 2 decimal places")
)

type PaymentRequest struct {
	PaymentMethodID uint            `json:"idTipoPago"`
	Amount          decimal.Decimal `json:"monto"`
	CorrelationCode string          `json:"correlativo,omitempty"`
	TransferProof   string          `json:"imagenTransferencia,omitempty"`
}

func (p PaymentRequest) Validate() error {
	return validation.ValidateStruct(
		&p,
		validation.Field(&p.PaymentMethodID, validation.Required),
		validation.Field(&p.Amount, validation.By(positiveAmount)),
		validation.Field(&p.CorrelationCode, validation.Length(0, 100)),
		validation.Field(&p.TransferProof, validation.Length(0, 500)),
	)
}

type CreateSaleRequest struct {
	TicketBookID uint             `json:"idTalonario"`
	TicketsSold  int              `json:"boletosVendidos"`
	Payments     []PaymentRequest `json:"pagos"`
}

func (req *CreateSaleRequest) Validate() error {
	return validation.ValidateStruct(
		req,
		validation.Field(&req.TicketBookID, validation.Required),
		validation.Field(&req.TicketsSold, validation.Required, validation.Min(1)),
		validation.Field(&req.Payments, validation.Required, validation.Length(1, maxPaymentsPerSale)),
	)
}

func (req *CreateSaleRequest) DomainPayments() []domain.Payment {
	return toDomainPayments(req.Payments)
}

type UpdateSaleRequest struct {
	SaleID      uint             `json:"idRecaudacionRifa"`
	TicketsSold int              `json:"boletosVendidos"`
	Payments    []PaymentRequest `json:"pagos"`
}

func (req *UpdateSaleRequest) Validate() error {
	return validation.ValidateStruct(
		req,
		validation.Field(&req.SaleID, validation.Required),
		validation.Field(&req.TicketsSold, validation.Required, validation.Min(1)),
		validation.Field(&req.Payments, validation.Required, validation.Length(1, maxPaymentsPerSale)),
	)
}

func (req *UpdateSaleRequest) DomainPayments() []domain.Payment {
	return toDomainPayments(req.Payments)
}

func toDomainPayments(payments []PaymentRequest) []domain.Payment {
	result := make([]domain.Payment, len(payments))
	for i, p := range payments {
		result[i] = domain.Payment{
			PaymentMethodID: p.PaymentMethodID,
			Amount:          p.Amount,
			CorrelationCode: p.CorrelationCode,
			TransferProof:   p.TransferProof,
		}
	}
	return result
}

func positiveAmount(value interface{}) error {
	amount, ok := value.(decimal.Decimal)
	if !ok || !amount.IsPositive() {
		return errNonPositiveAmount
	}
	if !amount.Equal(amount.Round(domain.MoneyScale)) {
		return errAmountScale
	}
	return nil
}
