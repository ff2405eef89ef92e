package middleware

import (
	"mcq-generator/internal/domain"
	"mcq-generator/internal/dto"
	"mcq-generator/internal/validation"

	"github.com/gofiber/fiber/v2"
)

const validatedMCQRequestLocal = "validated_mcq_request"

// ValidationMiddleware provides request validation middleware
type ValidationMiddleware struct {
	validator    *validation.Validator
	defaultCount int
}

// NewValidationMiddleware creates a new validation middleware instance.
// defaultCount is used when the upload omits count.
func NewValidationMiddleware(defaultCount int) *ValidationMiddleware {
	return &ValidationMiddleware{
		validator:    validation.NewValidator(),
		defaultCount: defaultCount,
	}
}

// ValidateMCQForm validates the multipart fields of a quiz upload
func (vm *ValidationMiddleware) ValidateMCQForm() fiber.Handler {
	return func(c *fiber.Ctx) error {
		var errs domain.ValidationErrors

		if _, err := c.FormFile("file"); err != nil {
			errs = append(errs, domain.NewMissingFieldError("file"))
		}

		count, countErrs := validation.ParseCount(c.FormValue("count"), vm.defaultCount)
		if len(countErrs) > 0 {
			return append(errs, countErrs...) // This will be handled by ErrorHandler middleware
		}

		req := dto.GenerateMCQRequest{
			Count:   count,
			Subject: c.FormValue("subject"),
			Tone:    c.FormValue("tone"),
		}
		errs = append(errs, vm.validator.ValidateStruct(req)...)
		if len(errs) > 0 {
			return errs
		}

		// Store validated value in context for handlers to use
		c.Locals(validatedMCQRequestLocal, req)
		return c.Next()
	}
}

// ValidatedMCQRequest returns the form validated by ValidateMCQForm.
func ValidatedMCQRequest(c *fiber.Ctx) (dto.GenerateMCQRequest, bool) {
	req, ok := c.Locals(validatedMCQRequestLocal).(dto.GenerateMCQRequest)
	return req, ok
}
