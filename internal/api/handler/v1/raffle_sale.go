package v1

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/recaudacion/rifas-api/internal/api/handler/v1/request"
	"github.com/recaudacion/rifas-api/internal/api/handler/v1/response"
	"github.com/recaudacion/rifas-api/internal/domain"
	"github.com/recaudacion/rifas-api/internal/service"
)

type RaffleSaleService interface {
	Create(ctx context.Context, ticketBookID uint, ticketsSold int, payments []domain.Payment) (domain.RaffleSale, error)
	Update(ctx context.Context, saleID uint, ticketsSold int, payments []domain.Payment) (domain.RaffleSale, error)
	Get(ctx context.Context, saleID uint) (domain.RaffleSale, error)
	Deactivate(ctx context.Context, saleID uint) (domain.RaffleSale, error)
	Purge(ctx context.Context, saleID uint) error
}

type RaffleSaleHandler struct {
	svc     RaffleSaleService
	timeout time.Duration
}

func NewRaffleSaleHandler(svc RaffleSaleService, timeout time.Duration) *RaffleSaleHandler {
	return &RaffleSaleHandler{
		svc:     svc,
		timeout: timeout,
	}
}

// HandleCreateSale godoc
// @Summary      Record a raffle sale
// @Description  Sells tickets from a ticket book with an active request. The payments must add up to the subtotal exactly. The sale, the inventory, the campaign revenue and the payments are written atomically.
// @Tags         recaudacionRifa
// @Accept       json
// @Produce      json
// @Param        input  body      request.CreateSaleRequest  true  "Sale"
// @Success      201    {object}  response.SaleResponse
// @Failure      400    {object}  response.Err
// @Failure      401    {object}  response.Err
// @Failure      404    {object}  response.Err
// @Failure      500    {object}  response.Err
// @Router       /recaudacionRifa [post]
// @Security BearerAuth
func (h *RaffleSaleHandler) HandleCreateSale(ctx *gin.Context) {
	var req request.CreateSaleRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(err))
		return
	}

	if err := req.Validate(); err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(err))
		return
	}

	c, cancel := context.WithTimeout(ctx.Request.Context(), h.timeout)
	defer cancel()

	sale, err := h.svc.Create(c, req.TicketBookID, req.TicketsSold, req.DomainPayments())
	if err != nil {
		renderSaleErr(ctx, fmt.Errorf("v1.HandleCreateSale -> h.svc.Create -> %w", err), req.TicketBookID)
		return
	}

	ctx.JSON(http.StatusCreated, response.NewSaleResponse(sale))
}

// HandleUpdateSale godoc
// @Summary      Update a raffle sale
// @Description  Replaces the quantity and the whole payment set of an active sale. Inventory and campaign revenue move by the difference.
// @Tags         recaudacionRifa
// @Accept       json
// @Produce      json
// @Param        input  body      request.UpdateSaleRequest  true  "Sale"
// @Success      200    {object}  response.SaleResponse
// @Failure      400    {object}  response.Err
// @Failure      401    {object}  response.Err
// @Failure      404    {object}  response.Err
// @Failure      409    {object}  response.Err
// @Failure      500    {object}  response.Err
// @Router       /recaudacionRifa [put]
// @Security BearerAuth
func (h *RaffleSaleHandler) HandleUpdateSale(ctx *gin.Context) {
	var req request.UpdateSaleRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(err))
		return
	}

	if err := req.Validate(); err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(err))
		return
	}

	c, cancel := context.WithTimeout(ctx.Request.Context(), h.timeout)
	defer cancel()

	sale, err := h.svc.Update(c, req.SaleID, req.TicketsSold, req.DomainPayments())
	if err != nil {
		renderSaleErr(ctx, fmt.Errorf("v1.HandleUpdateSale -> h.svc.Update -> %w", err), req.SaleID)
		return
	}

	ctx.JSON(http.StatusOK, response.NewSaleResponse(sale))
}

// HandleGetSale godoc
// @Summary      Get a raffle sale
// @Tags         recaudacionRifa
// @Produce      json
// @Param        saleID  path      int  true  "Sale ID"
// @Success      200     {object}  response.SaleResponse
// @Failure      400     {object}  response.Err
// @Failure      401     {object}  response.Err
// @Failure      404     {object}  response.Err
// @Failure      500     {object}  response.Err
// @Router       /recaudacionRifa/{saleID} [get]
// @Security BearerAuth
func (h *RaffleSaleHandler) HandleGetSale(ctx *gin.Context) {
	saleID, err := strconv.ParseUint(ctx.Param("saleID"), 10, 64)
	if err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(fmt.Errorf("invalid sale ID: %w", err)))
		return
	}

	sale, err := h.svc.Get(ctx.Request.Context(), uint(saleID))
	if err != nil {
		renderSaleErr(ctx, fmt.Errorf("v1.HandleGetSale -> h.svc.Get -> %w", err), uint(saleID))
		return
	}

	ctx.JSON(http.StatusOK, response.NewSaleResponse(sale))
}

// HandleDeactivateSale godoc
// @Summary      Deactivate a raffle sale
// @Description  Soft deletes the sale and its payments. The tickets go back to the book and the subtotal comes off the campaign revenue.
// @Tags         recaudacionRifa
// @Produce      json
// @Param        saleID  path      int  true  "Sale ID"
// @Success      200     {object}  response.SaleResponse
// @Failure      400     {object}  response.Err
// @Failure      401     {object}  response.Err
// @Failure      404     {object}  response.Err
// @Failure      409     {object}  response.Err
// @Failure      500     {object}  response.Err
// @Router       /recaudacionRifa/{saleID} [delete]
// @Security BearerAuth
func (h *RaffleSaleHandler) HandleDeactivateSale(ctx *gin.Context) {
	saleID, err := strconv.ParseUint(ctx.Param("saleID"), 10, 64)
	if err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(fmt.Errorf("invalid sale ID: %w", err)))
		return
	}

	c, cancel := context.WithTimeout(ctx.Request.Context(), h.timeout)
	defer cancel()

	sale, err := h.svc.Deactivate(c, uint(saleID))
	if err != nil {
		renderSaleErr(ctx, fmt.Errorf("v1.HandleDeactivateSale -> h.svc.Deactivate -> %w", err), uint(saleID))
		return
	}

	ctx.JSON(http.StatusOK, response.NewSaleResponse(sale))
}

// HandlePurgeSale godoc
// @Summary      Permanently delete a deactivated raffle sale
// @Tags         recaudacionRifa
// @Param        saleID  path      int  true  "Sale ID"
// @Success      204
// @Failure      400     {object}  response.Err
// @Failure      401     {object}  response.Err
// @Failure      404     {object}  response.Err
// @Failure      409     {object}  response.Err
// @Failure      500     {object}  response.Err
// @Router       /recaudacionRifa/{saleID}/purge [delete]
// @Security BearerAuth
func (h *RaffleSaleHandler) HandlePurgeSale(ctx *gin.Context) {
	saleID, err := strconv.ParseUint(ctx.Param("saleID"), 10, 64)
	if err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(fmt.Errorf("invalid sale ID: %w", err)))
		return
	}

	if err = h.svc.Purge(ctx.Request.Context(), uint(saleID)); err != nil {
		renderSaleErr(ctx, fmt.Errorf("v1.HandlePurgeSale -> h.svc.Purge -> %w", err), uint(saleID))
		return
	}

	ctx.Status(http.StatusNoContent)
}

// renderSaleErr maps sale workflow errors to responses. Typed errors are
// rendered on their own so the client sees their values without the call chain.
func renderSaleErr(ctx *gin.Context, err error, id uint) {
	var (
		insufficient *service.InsufficientTicketsError
		mismatch     *service.PaymentMismatchError
		entry        *service.PaymentEntryError
	)

	switch {
	case errors.As(err, &insufficient):
		response.RenderErr(ctx, response.ErrBadRequest(insufficient))
	case errors.As(err, &mismatch):
		response.RenderErr(ctx, response.ErrBadRequest(mismatch))
	case errors.As(err, &entry):
		response.RenderErr(ctx, response.ErrBadRequest(entry))
	case errors.Is(err, service.ErrNoPayments):
		response.RenderErr(ctx, response.ErrBadRequest(service.ErrNoPayments))
	case errors.Is(err, service.ErrInvalidPayment):
		response.RenderErr(ctx, response.ErrBadRequest(service.ErrInvalidPayment))
	case errors.Is(err, service.ErrInvalidQuantity):
		response.RenderErr(ctx, response.ErrBadRequest(service.ErrInvalidQuantity))
	case errors.Is(err, service.ErrTicketBookNotFound):
		response.RenderErr(ctx, response.ErrNotFoundWithMessage(service.ErrTicketBookNotFound))
	case errors.Is(err, service.ErrSaleNotFound):
		response.RenderErr(ctx, response.ErrNotFound("raffle sale", "ID", id))
	case errors.Is(err, service.ErrSaleStillActive):
		response.RenderErr(ctx, response.ErrConflict(service.ErrSaleStillActive))
	case errors.Is(err, service.ErrSaleConflict):
		response.RenderErr(ctx, response.ErrConflict(service.ErrSaleConflict))
	default:
		response.RenderErr(ctx, response.ErrInternalServerError(err))
	}
}
