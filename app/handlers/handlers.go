// Package handlers contains HTTP request handlers and presentation layer logic for the API endpoints
package handlers

import (
	"errors"
	"fmt"

	"github.com/cenovka/cenovka/app/dto"
	businessflow "github.com/cenovka/cenovka/business_flow"
	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v3"
)

func getValidationErrorMessage(err validator.FieldError) string {
	switch err.Tag() {
	case "required":
		return err.Field() + " is required"
	case "min":
		return err.Field() + " must be at least " + err.Param() + " characters"
	case "max":
		return err.Field() + " must be at most " + err.Param() + " characters"
	default:
		return err.Field() + " is invalid"
	}
}

func validationDetails(err error) []string {
	var fieldErrors validator.ValidationErrors
	if !errors.As(err, &fieldErrors) {
		return []string{err.Error()}
	}
	details := make([]string, 0, len(fieldErrors))
	for _, fe := range fieldErrors {
		details = append(details, getValidationErrorMessage(fe))
	}
	return details
}

func errorResponse(c fiber.Ctx, statusCode int, message, errorCode string, details any) error {
	return c.Status(statusCode).JSON(dto.APIResponse{
		Success: false,
		Message: message,
		Error: dto.ErrorDetail{
			Code:    errorCode,
			Details: details,
		},
	})
}

func successResponse(c fiber.Ctx, statusCode int, message string, data any) error {
	return c.Status(statusCode).JSON(dto.APIResponse{
		Success: true,
		Message: message,
		Data:    data,
	})
}

// handleFlowError maps business flow errors onto the three stable HTTP error
// categories: validation (400), not-found (404), internal (500). Clients
// branch on the error code, never on message text.
func handleFlowError(c fiber.Ctx, err error) error {
	code := "INTERNAL_ERROR"
	var businessErr *businessflow.BusinessError
	if errors.As(err, &businessErr) {
		code = businessErr.Code
	}

	switch {
	case businessflow.IsUploadNotFound(err):
		return errorResponse(c, fiber.StatusNotFound, "Upload not found", code, err.Error())
	case businessflow.IsValidationError(err):
		return errorResponse(c, fiber.StatusBadRequest, "Invalid request", code, err.Error())
	default:
		return errorResponse(c, fiber.StatusInternalServerError, fmt.Sprintf("Request failed: %v", err), code, nil)
	}
}

func clientMetadata(c fiber.Ctx) *businessflow.ClientMetadata {
	metadata := businessflow.NewClientMetadata(c.IP(), c.Get("User-Agent"))
	metadata.RequestID = c.Get(businessflow.RequestIDKey)
	return metadata
}
