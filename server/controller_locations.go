package server

import (
	validation "github.com/go-ozzo/ozzo-validation"
	"github.com/gofiber/fiber/v2"

	"github.com/naturkart/naturkart/store"
)

// LocationCreatePayload is the write model for new locations. Coordinates
// are optional here; a location can be named before it is pinned.
type LocationCreatePayload struct {
	Name        string   `json:"name"`
	Latitude    *float64 `json:"latitude"`
	Longitude   *float64 `json:"longitude"`
	Description *string  `json:"description"`
	Address     *string  `json:"address"`
}

func (p LocationCreatePayload) Validate() error {
	return validation.ValidateStruct(&p,
		validation.Field(&p.Name, validation.Required, validation.Length(1, 255)),
		validation.Field(&p.Latitude, validation.Min(-90.0), validation.Max(90.0)),
		validation.Field(&p.Longitude, validation.Min(-180.0), validation.Max(180.0)),
	)
}

func (p LocationCreatePayload) record() *store.Location {
	return &store.Location{
		Name:        p.Name,
		Latitude:    p.Latitude,
		Longitude:   p.Longitude,
		Description: p.Description,
		Address:     p.Address,
	}
}

// LocationUpdatePayload carries only the fields the client sent.
type LocationUpdatePayload struct {
	store.LocationUpdate
}

func (p LocationUpdatePayload) Validate() error {
	return validation.ValidateStruct(&p.LocationUpdate,
		validation.Field(&p.Name, validation.Length(1, 255)),
		validation.Field(&p.Latitude, validation.Min(-90.0), validation.Max(90.0)),
		validation.Field(&p.Longitude, validation.Min(-180.0), validation.Max(180.0)),
	)
}

// LocationsController is the CRUD surface over the locations store. Reads
// include the observation count per location.
type LocationsController struct {
	Repo store.Locations
}

func (ctrl *LocationsController) Register(router fiber.Router, requireAuth, optionalAuth fiber.Handler) {
	group := router.Group("/locations")
	group.Get("/", optionalAuth, ctrl.List)
	group.Get("/:id", optionalAuth, ctrl.Show)
	group.Post("/", requireAuth, ctrl.Create)
	group.Put("/:id", requireAuth, ctrl.Update)
	group.Delete("/:id", requireAuth, ctrl.Delete)
}

func (ctrl *LocationsController) List(c *fiber.Ctx) error {
	skip, limit := pagination(c)

	records, total, err := ctrl.Repo.List(c.UserContext(), skip, limit)
	if err != nil {
		return respondError(c, err)
	}

	return c.JSON(fiber.Map{"data": records, "total": total})
}

func (ctrl *LocationsController) Show(c *fiber.Ctx) error {
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

func (ctrl *LocationsController) Create(c *fiber.Ctx) error {
	var payload LocationCreatePayload
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

func (ctrl *LocationsController) Update(c *fiber.Ctx) error {
	id, err := pathID(c)
	if err != nil {
		return detail(c, fiber.StatusUnprocessableEntity, "Invalid id")
	}

	var payload LocationUpdatePayload
	if err := c.BodyParser(&payload); err != nil {
		return detail(c, fiber.StatusBadRequest, "Invalid request body")
	}

	if err := payload.Validate(); err != nil {
		return respondError(c, err)
	}

	record, err := ctrl.Repo.Update(c.UserContext(), id, payload.LocationUpdate)
	if err != nil {
		return respondError(c, err)
	}

	return c.JSON(record)
}

func (ctrl *LocationsController) Delete(c *fiber.Ctx) error {
	id, err := pathID(c)
	if err != nil {
		return detail(c, fiber.StatusUnprocessableEntity, "Invalid id")
	}

	if err := ctrl.Repo.Delete(c.UserContext(), id); err != nil {
		return respondError(c, err)
	}

	return c.SendStatus(fiber.StatusNoContent)
}
