package v1

import (
	"context"
	"fmt"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/recaudacion/rifas-api/internal/api/handler/v1/response"
	"github.com/recaudacion/rifas-api/internal/domain"
)

type ReportService interface {
	SaleReport(ctx context.Context, filter domain.SaleReportFilter) ([]domain.SaleReportRow, error)
}

type ReportHandler struct {
	svc ReportService
}

func NewReportHandler(svc ReportService) *ReportHandler {
	return &ReportHandler{
		svc: svc,
	}
}

// HandleGetSaleReport godoc
// @Summary      Report raffle sales with their payments
// @Tags         reportes
// @Produce      json
// @Param        idRifa        query     int  false  "Campaign ID"
// @Param        idVoluntario  query     int  false  "Volunteer ID"
// @Success      200           {array}   domain.SaleReportRow
// @Failure      400           {object}  response.Err
// @Failure      401           {object}  response.Err
// @Failure      500           {object}  response.Err
// @Router       /reportes/recaudacionRifa [get]
// @Security BearerAuth
func (h *ReportHandler) HandleGetSaleReport(ctx *gin.Context) {
	var filter domain.SaleReportFilter

	campaignID, err := optionalUintQuery(ctx, "idRifa")
	if err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(err))
		return
	}
	filter.CampaignID = campaignID

	volunteerID, err := optionalUintQuery(ctx, "idVoluntario")
	if err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(err))
		return
	}
	filter.VolunteerID = volunteerID

	rows, err := h.svc.SaleReport(ctx.Request.Context(), filter)
	if err != nil {
		err = fmt.Errorf("v1.HandleGetSaleReport -> h.svc.SaleReport -> %w", err)
		response.RenderErr(ctx, response.ErrInternalServerError(err))
		return
	}

	ctx.JSON(http.StatusOK, rows)
}

func optionalUintQuery(ctx *gin.Context, name string) (uint, error) {
	raw := ctx.Query(name)
	if raw == "" {
		return 0, nil
	}

	v, err := strconv.ParseUint(raw, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid %s: %q", name, raw)
	}

	return uint(v), nil
}
