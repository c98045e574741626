package handlers

import (
	"github.com/gofiber/fiber/v2"
	"github.com/miat-mn/action-log/internal/dto"
	"github.com/miat-mn/action-log/internal/services"
)

type CatalogHandler struct {
	hazardTypes *services.HazardTypeService
	locations   *services.LocationService
}

func NewCatalogHandler(hazardTypes *services.HazardTypeService, locations *services.LocationService) *CatalogHandler {
	return &CatalogHandler{hazardTypes: hazardTypes, locations: locations}
}

func (h *CatalogHandler) ListHazardTypes(c *fiber.Ctx) error {
	types, err := h.hazardTypes.List(c.UserContext())
	if err != nil {
		return err
	}
	return ok(c, types)
}

func (h *CatalogHandler) CreateHazardType(c *fiber.Ctx) error {
	var req dto.CreateHazardTypeRequest
	if err := parseBody(c, &req); err != nil {
		return err
	}
	ht, err := h.hazardTypes.Create(c.UserContext(), &req)
	if err != nil {
		return err
	}
	return created(c, ht)
}

func (h *CatalogHandler) ListLocations(c *fiber.Ctx) error {
	locs, err := h.locations.List(c.UserContext())
	if err != nil {
		return err
	}
	return ok(c, locs)
}

func (h *CatalogHandler) CreateLocation(c *fiber.Ctx) error {
	var req dto.CreateLocationRequest
	if err := parseBody(c, &req); err != nil {
		return err
	}
	loc, err := h.locations.Create(c.UserContext(), &req)
	if err != nil {
		return err
	}
	return created(c, loc)
}
