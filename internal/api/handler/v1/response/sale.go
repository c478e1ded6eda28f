package response

import (
	"time"

	"github.com/recaudacion/rifas-api/internal/domain"
)

type PaymentResponse struct {
	ID              uint   `json:"id"`
	PaymentMethodID uint   `json:"idTipoPago"`
	Amount          string `json:"monto"`
	CorrelationCode string `json:"correlativo"`
	TransferProof   string `json:"imagenTransferencia"`
	Active          bool   `json:"activo"`
}

type SaleResponse struct {
	ID                  uint              `json:"idRecaudacionRifa"`
	TicketBookRequestID uint              `json:"idSolicitudTalonario"`
	TicketsSold         int               `json:"boletosVendidos"`
	Subtotal            string            `json:"subtotal"`
	Active              bool              `json:"activo"`
	Payments            []PaymentResponse `json:"pagos"`
	CreatedAt           time.Time         `json:"fechaCreacion"`
	UpdatedAt           time.Time         `json:"fechaActualizacion"`
}

func NewSaleResponse(sale domain.RaffleSale) SaleResponse {
	payments := make([]PaymentResponse, len(sale.Payments))
	for i, p := range sale.Payments {
		payments[i] = PaymentResponse{
			ID:              p.ID,
			PaymentMethodID: p.PaymentMethodID,
			Amount:          p.Amount.StringFixed(2),
			CorrelationCode: p.CorrelationCode,
			TransferProof:   p.TransferProof,
			Active:          p.Active,
		}
	}

	return SaleResponse{
		ID:                  sale.ID,
		TicketBookRequestID: sale.TicketBookRequestID,
		TicketsSold:         sale.TicketsSold,
		Subtotal:            sale.Subtotal.StringFixed(2),
		Active:              sale.Active,
		Payments:            payments,
		CreatedAt:           sale.CreatedAt,
		UpdatedAt:           sale.UpdatedAt,
	}
}
