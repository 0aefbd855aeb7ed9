package controller

import (
	"net/http"

	"freelance-marketplace-api/internal/entity"
	"freelance-marketplace-api/internal/service"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo"
)

type bidRoutesHandler struct {
	bidService    service.Bid
	hiringService service.Hiring
	validate      *validator.Validate
}

func newBidRoutesHandler(outer *echo.Group, auth echo.MiddlewareFunc, services *service.Services, v *validator.Validate) *bidRoutesHandler {
	h := &bidRoutesHandler{bidService: services.Bid, hiringService: services.Hiring, validate: v}
	bids := outer.Group("/bids", auth)
	bids.POST("", h.PostBid)
	bids.GET("/my", h.GetUserBids)
	bids.GET("/:gigId", h.GetGigBids)
	bids.PATCH("/:bidId/hire", h.Hire)

	return h
}

type postBidInput struct {
	GigId   string  `json:"gigId" validate:"required,uuid"`
	Message string  `json:"message" validate:"required,max=2000"`
	Price   *float64 `json:"price" validate:"required,gte=0,lte=9999999999.99"`
}

// /bids
func (h *bidRoutesHandler) PostBid(c echo.Context) error {
	var input postBidInput
	if err := c.Bind(&input); err != nil {
		return badRequest(c, "Input data is not formed correctly")
	}

	if err := h.validate.Struct(input); err != nil {
		return badRequest(c, getAllErrorMessages(err))
	}

	bid, err := h.bidService.SubmitBid(c.Request().Context(), &entity.CreateBidInput{
		GigId:        input.GigId,
		FreelancerId: currentUser(c),
		Message:      input.Message,
		Price:        *input.Price,
	})
	if err != nil {
		return respondError(c, "submit bid", err)
	}

	return c.JSON(http.StatusCreated, bidResponse{Success: true, Bid: *bid})
}

// /bids/my
func (h *bidRoutesHandler) GetUserBids(c echo.Context) error {
	input := newPaginationInput()
	if err := c.Bind(&input); err != nil {
		return badRequest(c, "Input data is not formed correctly")
	}

	if err := h.validate.Struct(input); err != nil {
		return badRequest(c, getAllErrorMessages(err))
	}

	bids, err := h.bidService.GetUserBids(c.Request().Context(), currentUser(c), input.toEntity())
	if err != nil {
		return respondError(c, "list user bids", err)
	}

	return c.JSON(http.StatusOK, bids)
}

// /bids/:gigId
func (h *bidRoutesHandler) GetGigBids(c echo.Context) error {
	input := newPaginationInput()
	if err := c.Bind(&input); err != nil {
		return badRequest(c, "Input data is not formed correctly")
	}

	if err := h.validate.Struct(input); err != nil {
		return badRequest(c, getAllErrorMessages(err))
	}

	bids, err := h.bidService.GetBidsForGig(c.Request().Context(), c.Param("gigId"), currentUser(c), input.toEntity())
	if err != nil {
		return respondError(c, "list gig bids", err)
	}

	return c.JSON(http.StatusOK, bids)
}

type bidResponse struct {
	Success bool                  `json:"success"`
	Bid     entity.BidOutputModel `json:"bid"`
}

type hireResponse struct {
	Success bool                  `json:"success"`
	Message string                `json:"message"`
	Gig     entity.GigOutputModel `json:"gig"`
	Bid     entity.BidOutputModel `json:"bid"`
}

// /bids/:bidId/hire
func (h *bidRoutesHandler) Hire(c echo.Context) error {
	result, err := h.hiringService.Hire(c.Request().Context(), c.Param("bidId"), currentUser(c))
	if err != nil {
		return respondError(c, "hire", err)
	}

	return c.JSON(http.StatusOK, hireResponse{
		Success: true,
		Message: "Freelancer hired successfully",
		Gig:     result.Gig,
		Bid:     result.Bid,
	})
}
