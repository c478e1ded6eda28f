package v1

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/recaudacion/rifas-api/internal/api/handler/v1/request"
	"github.com/recaudacion/rifas-api/internal/api/handler/v1/response"
	"github.com/recaudacion/rifas-api/internal/domain"
	"github.com/recaudacion/rifas-api/internal/service"
)

type RaffleService interface {
	CreateCampaign(ctx context.Context, campaign domain.Campaign) (domain.Campaign, error)
	ListCampaigns(ctx context.Context) ([]domain.Campaign, error)
	GetCampaign(ctx context.Context, id uint) (domain.Campaign, error)
	CreateTicketBook(ctx context.Context, campaignID uint, code string, totalTickets int) (domain.TicketBook, error)
	ListTicketBooks(ctx context.Context, campaignID uint) ([]domain.TicketBook, error)
	RequestTicketBook(ctx context.Context, ticketBookID, volunteerID uint) (domain.TicketBookRequest, error)
	ReleaseTicketBookRequest(ctx context.Context, requestID uint) error
	ListPaymentMethods(ctx context.Context) ([]domain.PaymentMethod, error)
	ReconcileRevenue(ctx context.Context, campaignID uint, repair bool) (domain.RevenueReconciliation, error)
}

type RaffleHandler struct {
	svc  RaffleService
	uSvc UserService
}

func NewRaffleHandler(svc RaffleService, uSvc UserService) *RaffleHandler {
	return &RaffleHandler{
		svc:  svc,
		uSvc: uSvc,
	}
}

// HandleCreateCampaign godoc
// @Summary      Create a raffle campaign
// @Tags         rifas
// @Accept       json
// @Produce      json
// @Param        input  body      request.CreateCampaignRequest  true  "Campaign"
// @Success      201    {object}  domain.Campaign
// @Failure      400    {object}  response.Err
// @Failure      401    {object}  response.Err
// @Failure      403    {object}  response.Err
// @Failure      500    {object}  response.Err
// @Router       /rifas [post]
// @Security BearerAuth
func (h *RaffleHandler) HandleCreateCampaign(ctx *gin.Context) {
	if _, respErr := requireAdmin(ctx, h.uSvc); respErr != nil {
		response.RenderErr(ctx, respErr)
		return
	}

	var req request.CreateCampaignRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(err))
		return
	}

	if err := req.Validate(); err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(err))
		return
	}

	campaign, err := h.svc.CreateCampaign(ctx.Request.Context(), domain.Campaign{
		Name:        req.Name,
		Description: req.Description,
		TicketPrice: req.TicketPrice,
		Location:    req.Location,
	})
	if err != nil {
		if errors.Is(err, service.ErrInvalidTicketPrice) {
			response.RenderErr(ctx, response.ErrBadRequest(service.ErrInvalidTicketPrice))
			return
		}

		err = fmt.Errorf("v1.HandleCreateCampaign -> h.svc.CreateCampaign -> %w", err)
		response.RenderErr(ctx, response.ErrInternalServerError(err))
		return
	}

	ctx.JSON(http.StatusCreated, campaign)
}

// HandleGetCampaigns godoc
// @Summary      List raffle campaigns
// @Tags         rifas
// @Produce      json
// @Success      200  {array}   domain.Campaign
// @Failure      401  {object}  response.Err
// @Failure      500  {object}  response.Err
// @Router       /rifas [get]
// @Security BearerAuth
func (h *RaffleHandler) HandleGetCampaigns(ctx *gin.Context) {
	campaigns, err := h.svc.ListCampaigns(ctx.Request.Context())
	if err != nil {
		err = fmt.Errorf("v1.HandleGetCampaigns -> h.svc.ListCampaigns -> %w", err)
		response.RenderErr(ctx, response.ErrInternalServerError(err))
		return
	}

	ctx.JSON(http.StatusOK, campaigns)
}

// HandleGetCampaign godoc
// @Summary      Get a raffle campaign with its ticket books
// @Tags         rifas
// @Produce      json
// @Param        campaignID  path      int  true  "Campaign ID"
// @Success      200         {object}  domain.Campaign
// @Failure      400         {object}  response.Err
// @Failure      401         {object}  response.Err
// @Failure      404         {object}  response.Err
// @Failure      500         {object}  response.Err
// @Router       /rifas/{campaignID} [get]
// @Security BearerAuth
func (h *RaffleHandler) HandleGetCampaign(ctx *gin.Context) {
	campaignID, respErr := parseIDParam(ctx, "campaignID")
	if respErr != nil {
		response.RenderErr(ctx, respErr)
		return
	}

	campaign, err := h.svc.GetCampaign(ctx.Request.Context(), campaignID)
	if err != nil {
		if errors.Is(err, service.ErrCampaignNotFound) {
			response.RenderErr(ctx, response.ErrNotFound("campaign", "ID", campaignID))
			return
		}

		err = fmt.Errorf("v1.HandleGetCampaign -> h.svc.GetCampaign -> %w", err)
		response.RenderErr(ctx, response.ErrInternalServerError(err))
		return
	}

	ctx.JSON(http.StatusOK, campaign)
}

// HandleCreateTicketBook godoc
// @Summary      Create a ticket book in a campaign
// @Tags         rifas
// @Accept       json
// @Produce      json
// @Param        campaignID  path      int                              true  "Campaign ID"
// @Param        input       body      request.CreateTicketBookRequest  true  "Ticket book"
// @Success      201         {object}  domain.TicketBook
// @Failure      400         {object}  response.Err
// @Failure      401         {object}  response.Err
// @Failure      403         {object}  response.Err
// @Failure      404         {object}  response.Err
// @Failure      500         {object}  response.Err
// @Router       /rifas/{campaignID}/talonarios [post]
// @Security BearerAuth
func (h *RaffleHandler) HandleCreateTicketBook(ctx *gin.Context) {
	if _, respErr := requireAdmin(ctx, h.uSvc); respErr != nil {
		response.RenderErr(ctx, respErr)
		return
	}

	campaignID, respErr := parseIDParam(ctx, "campaignID")
	if respErr != nil {
		response.RenderErr(ctx, respErr)
		return
	}

	var req request.CreateTicketBookRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(err))
		return
	}

	if err := req.Validate(); err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(err))
		return
	}

	book, err := h.svc.CreateTicketBook(ctx.Request.Context(), campaignID, req.Code, req.TotalTickets)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrCampaignNotFound):
			response.RenderErr(ctx, response.ErrNotFound("campaign", "ID", campaignID))
		case errors.Is(err, service.ErrInvalidTicketCount):
			response.RenderErr(ctx, response.ErrBadRequest(service.ErrInvalidTicketCount))
		default:
			err = fmt.Errorf("v1.HandleCreateTicketBook -> h.svc.CreateTicketBook -> %w", err)
			response.RenderErr(ctx, response.ErrInternalServerError(err))
		}
		return
	}

	ctx.JSON(http.StatusCreated, book)
}

// HandleGetTicketBooks godoc
// @Summary      List the ticket books of a campaign
// @Tags         rifas
// @Produce      json
// @Param        campaignID  path      int  true  "Campaign ID"
// @Success      200         {array}   domain.TicketBook
// @Failure      400         {object}  response.Err
// @Failure      401         {object}  response.Err
// @Failure      404         {object}  response.Err
// @Failure      500         {object}  response.Err
// @Router       /rifas/{campaignID}/talonarios [get]
// @Security BearerAuth
func (h *RaffleHandler) HandleGetTicketBooks(ctx *gin.Context) {
	campaignID, respErr := parseIDParam(ctx, "campaignID")
	if respErr != nil {
		response.RenderErr(ctx, respErr)
		return
	}

	books, err := h.svc.ListTicketBooks(ctx.Request.Context(), campaignID)
	if err != nil {
		if errors.Is(err, service.ErrCampaignNotFound) {
			response.RenderErr(ctx, response.ErrNotFound("campaign", "ID", campaignID))
			return
		}

		err = fmt.Errorf("v1.HandleGetTicketBooks -> h.svc.ListTicketBooks -> %w", err)
		response.RenderErr(ctx, response.ErrInternalServerError(err))
		return
	}

	ctx.JSON(http.StatusOK, books)
}

// HandleAssignTicketBook godoc
// @Summary      Assign a ticket book to a volunteer
// @Tags         solicitudesTalonario
// @Accept       json
// @Produce      json
// @Param        input  body      request.AssignTicketBookRequest  true  "Assignment"
// @Success      201    {object}  domain.TicketBookRequest
// @Failure      400    {object}  response.Err
// @Failure      401    {object}  response.Err
// @Failure      403    {object}  response.Err
// @Failure      404    {object}  response.Err
// @Failure      409    {object}  response.Err
// @Failure      500    {object}  response.Err
// @Router       /solicitudesTalonario [post]
// @Security BearerAuth
func (h *RaffleHandler) HandleAssignTicketBook(ctx *gin.Context) {
	if _, respErr := requireAdmin(ctx, h.uSvc); respErr != nil {
		response.RenderErr(ctx, respErr)
		return
	}

	var req request.AssignTicketBookRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(err))
		return
	}

	if err := req.Validate(); err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(err))
		return
	}

	assigned, err := h.svc.RequestTicketBook(ctx.Request.Context(), req.TicketBookID, req.VolunteerID)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrUserNotFound):
			response.RenderErr(ctx, response.ErrNotFound("volunteer", "ID", req.VolunteerID))
		case errors.Is(err, service.ErrNotVolunteer):
			response.RenderErr(ctx, response.ErrBadRequest(service.ErrNotVolunteer))
		case errors.Is(err, service.ErrTicketBookNotFound):
			response.RenderErr(ctx, response.ErrNotFound("ticket book", "ID", req.TicketBookID))
		case errors.Is(err, service.ErrTicketBookRequestFound):
			response.RenderErr(ctx, response.ErrConflict(service.ErrTicketBookRequestFound))
		default:
			err = fmt.Errorf("v1.HandleAssignTicketBook -> h.svc.RequestTicketBook -> %w", err)
			response.RenderErr(ctx, response.ErrInternalServerError(err))
		}
		return
	}

	ctx.JSON(http.StatusCreated, assigned)
}

// HandleReleaseTicketBook godoc
// @Summary      Deactivate a ticket book request
// @Tags         solicitudesTalonario
// @Param        requestID  path  int  true  "Request ID"
// @Success      204
// @Failure      400  {object}  response.Err
// @Failure      401  {object}  response.Err
// @Failure      403  {object}  response.Err
// @Failure      404  {object}  response.Err
// @Failure      500  {object}  response.Err
// @Router       /solicitudesTalonario/{requestID} [delete]
// @Security BearerAuth
func (h *RaffleHandler) HandleReleaseTicketBook(ctx *gin.Context) {
	if _, respErr := requireAdmin(ctx, h.uSvc); respErr != nil {
		response.RenderErr(ctx, respErr)
		return
	}

	requestID, respErr := parseIDParam(ctx, "requestID")
	if respErr != nil {
		response.RenderErr(ctx, respErr)
		return
	}

	if err := h.svc.ReleaseTicketBookRequest(ctx.Request.Context(), requestID); err != nil {
		if errors.Is(err, service.ErrRequestNotFound) {
			response.RenderErr(ctx, response.ErrNotFound("ticket book request", "ID", requestID))
			return
		}

		err = fmt.Errorf("v1.HandleReleaseTicketBook -> h.svc.ReleaseTicketBookRequest -> %w", err)
		response.RenderErr(ctx, response.ErrInternalServerError(err))
		return
	}

	ctx.Status(http.StatusNoContent)
}

// HandleGetPaymentMethods godoc
// @Summary      List payment methods
// @Tags         tiposPago
// @Produce      json
// @Success      200  {array}   domain.PaymentMethod
// @Failure      401  {object}  response.Err
// @Failure      500  {object}  response.Err
// @Router       /tiposPago [get]
// @Security BearerAuth
func (h *RaffleHandler) HandleGetPaymentMethods(ctx *gin.Context) {
	methods, err := h.svc.ListPaymentMethods(ctx.Request.Context())
	if err != nil {
		err = fmt.Errorf("v1.HandleGetPaymentMethods -> h.svc.ListPaymentMethods -> %w", err)
		response.RenderErr(ctx, response.ErrInternalServerError(err))
		return
	}

	ctx.JSON(http.StatusOK, methods)
}

// HandleGetReconciliation godoc
// @Summary      Compare a campaign's running revenue with its active sales
// @Tags         rifas
// @Produce      json
// @Param        campaignID  path      int  true  "Campaign ID"
// @Success      200         {object}  domain.RevenueReconciliation
// @Failure      400         {object}  response.Err
// @Failure      401         {object}  response.Err
// @Failure      404         {object}  response.Err
// @Failure      500         {object}  response.Err
// @Router       /rifas/{campaignID}/reconciliacion [get]
// @Security BearerAuth
func (h *RaffleHandler) HandleGetReconciliation(ctx *gin.Context) {
	h.reconcile(ctx, false)
}

// HandleRepairReconciliation godoc
// @Summary      Overwrite a drifted running revenue with the recomputed value
// @Tags         rifas
// @Produce      json
// @Param        campaignID  path      int  true  "Campaign ID"
// @Success      200         {object}  domain.RevenueReconciliation
// @Failure      400         {object}  response.Err
// @Failure      401         {object}  response.Err
// @Failure      403         {object}  response.Err
// @Failure      404         {object}  response.Err
// @Failure      500         {object}  response.Err
// @Router       /rifas/{campaignID}/reconciliacion [post]
// @Security BearerAuth
func (h *RaffleHandler) HandleRepairReconciliation(ctx *gin.Context) {
	if _, respErr := requireAdmin(ctx, h.uSvc); respErr != nil {
		response.RenderErr(ctx, respErr)
		return
	}

	h.reconcile(ctx, true)
}

func (h *RaffleHandler) reconcile(ctx *gin.Context, repair bool) {
	campaignID, respErr := parseIDParam(ctx, "campaignID")
	if respErr != nil {
		response.RenderErr(ctx, respErr)
		return
	}

	result, err := h.svc.ReconcileRevenue(ctx.Request.Context(), campaignID, repair)
	if err != nil {
		if errors.Is(err, service.ErrCampaignNotFound) {
			response.RenderErr(ctx, response.ErrNotFound("campaign", "ID", campaignID))
			return
		}

		err = fmt.Errorf("v1.reconcile -> h.svc.ReconcileRevenue -> %w", err)
		response.RenderErr(ctx, response.ErrInternalServerError(err))
		return
	}

	ctx.JSON(http.StatusOK, result)
}

func parseIDParam(ctx *gin.Context, name string) (uint, *response.Err) {
	id, err := strconv.ParseUint(ctx.Param(name), 10, 64)
	if err != nil || id == 0 {
		return 0, response.ErrBadRequest(fmt.Errorf("invalid %s: %q", name, ctx.Param(name)))
	}

	return uint(id), nil
}
