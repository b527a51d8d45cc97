package server

import (
	"errors"

	validation "github.com/go-ozzo/ozzo-validation"
	"github.com/gofiber/fiber/v2"
	repository "github.com/goliatone/go-repository-bun"

	"github.com/naturkart/naturkart/auth"
)

// respondError maps domain errors to their HTTP rendition. Authentication
// failures always carry the same generic detail so the response does not
// reveal which check failed.
func respondError(c *fiber.Ctx, err error) error {
	if repository.IsRecordNotFound(err) {
		return detail(c, fiber.StatusNotFound, "Not found")
	}

	if errs, ok := err.(validation.Errors); ok {
		return c.Status(fiber.StatusUnprocessableEntity).JSON(fiber.Map{
			"detail": errs,
		})
	}

	switch {
	case errors.Is(err, auth.ErrInvalidToken):
		c.Set(fiber.HeaderWWWAuthenticate, "Bearer")
		return detail(c, fiber.StatusUnauthorized, auth.GenericAuthMessage)
	case errors.Is(err, auth.ErrTokenExchangeFailed):
		return detail(c, fiber.StatusBadRequest, "Could not exchange authorization code")
	case errors.Is(err, auth.ErrUserInfoFailed):
		return detail(c, fiber.StatusBadRequest, "Could not fetch user info")
	case errors.Is(err, auth.ErrMissingEmail):
		return detail(c, fiber.StatusBadRequest, "Email not provided by identity provider")
	}

	return detail(c, fiber.StatusInternalServerError, "Internal server error")
}

func detail(c *fiber.Ctx, status int, message string) error {
	return c.Status(status).JSON(fiber.Map{"detail": message})
}
