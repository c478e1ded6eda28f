package request

import (
	validation "github.com/go-ozzo/ozzo-validation"
	"github.com/shopspring/decimal"
)

type CreateCampaignRequest struct {
	Name        string          `json:"nombre"`
	Description string          `json:"descripcion"`
	TicketPrice decimal.Decimal `json:"precioBoleto"`
	Location    string          `json:"ubicacion"`
}

func (req *CreateCampaignRequest) Validate() error {
	return validation.ValidateStruct(
		req,
		validation.Field(&req.Name, validation.Required, validation.Length(2, 100)),
		validation.Field(&req.Description, validation.Length(0, 500)),
		validation.Field(&req.TicketPrice, validation.By(positiveAmount)),
		validation.Field(&req.Location, validation.Length(0, 200)),
	)
}

type CreateTicketBookRequest struct {
	Code         string `json:"codigo"`
	TotalTickets int    `json:"cantidadBoletos"`
}

func (req *CreateTicketBookRequest) Validate() error {
	return validation.ValidateStruct(
		req,
		validation.Field(&req.Code, validation.Required, validation.Length(1, 50)),
		validation.Field(&req.TotalTickets, validation.Required, validation.Min(1)),
	)
}

type AssignTicketBookRequest struct {
	TicketBookID uint `json:"idTalonario"`
	VolunteerID  uint `json:"idVoluntario"`
}

func (req *AssignTicketBookRequest) Validate() error {
	return validation.ValidateStruct(
		req,
		validation.Field(&req.TicketBookID, validation.Required),
		validation.Field(&req.VolunteerID, validation.Required),
	)
}
