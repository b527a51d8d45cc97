package server

import (
	"time"

	validation "github.com/go-ozzo/ozzo-validation"
	"github.com/gofiber/fiber/v2"

	"github.com/naturkart/naturkart/store"
)

// ObservationCreatePayload is the write model for new observations.
type ObservationCreatePayload struct {
	Species    string     `json:"species"`
	Date       *time.Time `json:"date"`
	Latitude   *float64   `json:"latitude"`
	Longitude  *float64   `json:"longitude"`
	Notes      *string    `json:"notes"`
	Category   string     `json:"category"`
	LocationID *int64     `json:"location_id"`
}

func (p ObservationCreatePayload) Validate() error {
	return validation.ValidateStruct(&p,
		validation.Field(&p.Species, validation.Required, validation.Length(1, 255)),
		validation.Field(&p.Date, validation.NotNil),
		validation.Field(&p.Latitude, validation.NotNil, validation.Min(-90.0), validation.Max(90.0)),
		validation.Field(&p.Longitude, validation.NotNil, validation.Min(-180.0), validation.Max(180.0)),
		validation.Field(&p.Category, validation.Required, validation.Length(1, 100)),
	)
}

func (p ObservationCreatePayload) record() *store.Observation {
	return &store.Observation{
		Species:    p.Species,
		Date:       *p.Date,
		Latitude:   *p.Latitude,
		Longitude:  *p.Longitude,
		Notes:      p.Notes,
		Category:   p.Category,
		LocationID: p.LocationID,
	}
}

// ObservationUpdatePayload carries only the fields the client sent.
type ObservationUpdatePayload struct {
	store.ObservationUpdate
}

func (p ObservationUpdatePayload) Validate() error {
	return validation.ValidateStruct(&p.ObservationUpdate,
		validation.Field(&p.Species, validation.Length(1, 255)),
		validation.Field(&p.Latitude, validation.Min(-90.0), validation.Max(90.0)),
		validation.Field(&p.Longitude, validation.Min(-180.0), validation.Max(180.0)),
		validation.Field(&p.Category, validation.Length(1, 100)),
	)
}

// ObservationsController is the CRUD surface over the observations store.
// Listing and reads are open to anonymous callers; writes require a user.
type ObservationsController struct {
	Repo store.Observations
}

func (ctrl *ObservationsController) Register(router fiber.Router, requireAuth, optionalAuth fiber.Handler) {
	group := router.Group("/observations")
	group.Get("/", optionalAuth, ctrl.List)
	group.Get("/:id", optionalAuth, ctrl.Show)
	group.Post("/", requireAuth, ctrl.Create)
	group.Put("/:id", requireAuth, ctrl.Update)
	group.Delete("/:id", requireAuth, ctrl.Delete)
}

func (ctrl *ObservationsController) List(c *fiber.Ctx) error {
	skip, limit := pagination(c)

	records, total, err := ctrl.Repo.List(c.UserContext(), skip, limit)
	if err != nil {
		return respondError(c, err)
	}

	return c.JSON(fiber.Map{"data": records, "total": total})
}

func (ctrl *ObservationsController) Show(c *fiber.Ctx) error {
	id, err := pathID(c)
	if err != nil {
		return detail(c, fiber.StatusUnprocessableEntity, "Invalid id")
	}

	record, err := ctrl.Repo.GetByID(c.UserContext(), id)
	if err != nil {
		return respondError(c, err)
	}

	return c.JSON(record)
}

func (ctrl *ObservationsController) Create(c *fiber.Ctx) error {
	var payload ObservationCreatePayload
	if err := c.BodyParser(&payload); err != nil {
		return detail(c, fiber.StatusBadRequest, "Invalid request body")
	}

	if err := payload.Validate(); err != nil {
		return respondError(c, err)
	}

	record, err := ctrl.Repo.Create(c.UserContext(), payload.record())
	if err != nil {
		return respondError(c, err)
	}

	return c.Status(fiber.StatusCreated).JSON(record)
}

func (ctrl *ObservationsController) Update(c *fiber.Ctx) error {
	id, err := pathID(c)
	if err != nil {
		return detail(c, fiber.StatusUnprocessableEntity, "Invalid id")
	}

	var payload ObservationUpdatePayload
	if err := c.BodyParser(&payload); err != nil {
		return detail(c, fiber.StatusBadRequest, "Invalid request body")
	}

	if err := payload.Validate(); err != nil {
		return respondError(c, err)
	}

	record, err := ctrl.Repo.Update(c.UserContext(), id, payload.ObservationUpdate)
	if err != nil {
		return respondError(c, err)
	}

	return c.JSON(record)
}

func (ctrl *ObservationsController) Delete(c *fiber.Ctx) error {
	id, err := pathID(c)
	if err != nil {
		return detail(c, fiber.StatusUnprocessableEntity, "Invalid id")
	}

	if err := ctrl.Repo.Delete(c.UserContext(), id); err != nil {
		return respondError(c, err)
	}

	return c.SendStatus(fiber.StatusNoContent)
}
