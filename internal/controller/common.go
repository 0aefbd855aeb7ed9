package controller

import (
	"errors"
	"fmt"
	"net/http"
	"reflect"
	"strings"

	"freelance-marketplace-api/internal/entity"
	"freelance-marketplace-api/internal/service"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo"
	"github.com/labstack/gommon/log"
)

const (
	defaultLimit  = 20
	defaultOffset = 0
)

type errorResponse struct {
	Reason string `json:"reason"`
}

type paginationInput struct {
	Limit  int `query:"limit" validate:"gte=0,lte=50"`
	Offset int `query:"offset" validate:"gte=0"`
}

func newPaginationInput() paginationInput {
	return paginationInput{Limit: defaultLimit, Offset: defaultOffset}
}

func (p paginationInput) toEntity() *entity.PaginationInput {
	return entity.NewPaginationInput(p.Limit, p.Offset)
}

func statusOf(kind service.Kind) int {
	switch kind {
	case service.KindNotFound:
		return http.StatusNotFound
	case service.KindForbidden:
		return http.StatusForbidden
	case service.KindConflict:
		return http.StatusConflict
	case service.KindInvalidOperation:
		return http.StatusBadRequest
	case service.KindUnavailable:
		return http.StatusServiceUnavailable
	}

	return http.StatusInternalServerError
}

// respondError writes the client-facing reason for err. Internal errors are
// logged with detail and answered with a generic reason.
func respondError(c echo.Context, op string, err error) error {
	kind := service.KindOf(err)

	var reason string
	var se *service.Error
	switch {
	case kind == service.KindInternal:
		log.Errorf("%s: %v", op, err)
		reason = "internal server error"
	case errors.As(err, &se):
		reason = se.Message
	default:
		reason = err.Error()
	}

	if kind == service.KindUnavailable {
		log.Warnf("%s: %v", op, err)
		c.Response().Header().Set("Retry-After", "1")
	}

	return c.JSON(statusOf(kind), errorResponse{reason})
}

func badRequest(c echo.Context, reason string) error {
	return c.JSON(http.StatusBadRequest, errorResponse{reason})
}

func getAllErrorMessages(err error) string {
	verrs, ok := err.(validator.ValidationErrors)
	if !ok {
		return err.Error()
	}

	var builder strings.Builder
	for _, fe := range verrs {
		message := fmt.Sprintf("'%s': %s\n", fe.Field(), getMessage(fe))
		builder.WriteString(message)
	}

	return builder.String()
}

func getMessage(fe validator.FieldError) string {
	if fe.Tag() == "required" {
		return "this field is required"
	}

	switch fe.Kind() {
	case reflect.String:
		return getMessageForString(fe)
	case reflect.Int, reflect.Int32, reflect.Int64, reflect.Float32, reflect.Float64:
		return getMessageForNumber(fe)
	}

	return "incorrect value passed"
}

func getMessageForNumber(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "this field is required"
	case "lte", "max":
		return "should be less or equal than " + fe.Param()
	case "gte", "min":
		return "should be greater or equal than " + fe.Param()
	case "gt":
		return "should be greater than " + fe.Param()
	}

	return "incorrect value passed"
}

func getMessageForString(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "this field is required"
	case "lte", "max":
		return "length should be less or equal than " + fe.Param()
	case "gte", "min":
		return "length should be greater or equal than " + fe.Param()
	case "uuid", "uuid4":
		return "should be a valid uuid"
	}

	return "incorrect value passed"
}
