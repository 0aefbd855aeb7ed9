package controller

import (
	"net/http"

	"freelance-marketplace-api/internal/entity"
	"freelance-marketplace-api/internal/service"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo"
)

type gigRoutesHandler struct {
	gigService service.Gig
	validate   *validator.Validate
}

func newGigRoutesHandler(outer *echo.Group, auth echo.MiddlewareFunc, services *service.Services, v *validator.Validate) *gigRoutesHandler {
	h := &gigRoutesHandler{gigService: services.Gig, validate: v}
	outer.GET("/gigs", h.GetOpenGigs)
	outer.POST("/gigs", h.PostGig, auth)
	outer.GET("/gigs/my", h.GetMyGigs, auth)
	outer.GET("/gigs/:gigId", h.GetGig)

	return h
}

type gigResponse struct {
	Success bool                  `json:"success"`
	Gig     entity.GigOutputModel `json:"gig"`
}

type postGigInput struct {
	Title       string  `json:"title" validate:"required,max=100"`
	Description string  `json:"description" validate:"required,max=5000"`
	Budget      float64 `json:"budget" validate:"gte=0.01,lte=9999999999.99"`
}

// /gigs
func (h *gigRoutesHandler) PostGig(c echo.Context) error {
	var input postGigInput
	if err := c.Bind(&input); err != nil {
		return badRequest(c, "Input data is not formed correctly")
	}

	if err := h.validate.Struct(input); err != nil {
		return badRequest(c, getAllErrorMessages(err))
	}

	gig, err := h.gigService.CreateGig(c.Request().Context(), &entity.CreateGigInput{
		Title:       input.Title,
		Description: input.Description,
		Budget:      input.Budget,
		OwnerId:     currentUser(c),
	})
	if err != nil {
		return respondError(c, "create gig", err)
	}

	return c.JSON(http.StatusCreated, gigResponse{Success: true, Gig: *gig})
}

type getOpenGigsInput struct {
	Limit  int    `query:"limit" validate:"gte=0,lte=50"`
	Offset int    `query:"offset" validate:"gte=0"`
	Search string `query:"search" validate:"max=200"`
}

// /gigs?search=...
func (h *gigRoutesHandler) GetOpenGigs(c echo.Context) error {
	input := getOpenGigsInput{Limit: defaultLimit, Offset: defaultOffset}
	if err := c.Bind(&input); err != nil {
		return badRequest(c, "Input data is not formed correctly")
	}

	if err := h.validate.Struct(input); err != nil {
		return badRequest(c, getAllErrorMessages(err))
	}

	gigs, err := h.gigService.GetOpenGigs(c.Request().Context(), input.Search, entity.NewPaginationInput(input.Limit, input.Offset))
	if err != nil {
		return respondError(c, "list open gigs", err)
	}

	return c.JSON(http.StatusOK, gigs)
}

// /gigs/my
func (h *gigRoutesHandler) GetMyGigs(c echo.Context) error {
	input := newPaginationInput()
	if err := c.Bind(&input); err != nil {
		return badRequest(c, "Input data is not formed correctly")
	}

	if err := h.validate.Struct(input); err != nil {
		return badRequest(c, getAllErrorMessages(err))
	}

	gigs, err := h.gigService.GetUserGigs(c.Request().Context(), currentUser(c), input.toEntity())
	if err != nil {
		return respondError(c, "list my gigs", err)
	}

	return c.JSON(http.StatusOK, gigs)
}

// /gigs/:gigId
func (h *gigRoutesHandler) GetGig(c echo.Context) error {
	gig, err := h.gigService.GetGigById(c.Request().Context(), c.Param("gigId"))
	if err != nil {
		return respondError(c, "get gig", err)
	}

	return c.JSON(http.StatusOK, gig)
}
