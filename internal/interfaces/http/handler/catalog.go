package handler

import (
	"context"

	"github.com/gin-gonic/gin"

	catalogapp "github.com/bakeryaid/backend/internal/application/catalog"
)

// CatalogHandler serves the read-only reference lists
type CatalogHandler struct {
	BaseHandler
	service *catalogapp.CatalogService
}

// NewCatalogHandler creates a new CatalogHandler
func NewCatalogHandler(service *catalogapp.CatalogService) *CatalogHandler {
	return &CatalogHandler{service: service}
}

// ListLocations handles GET /catalog/locations
// @ID           listLocations
// @Summary      List locations
// @Description  Returns the community centers households are attached to
// @Tags         catalog
// @Produce      json
// @Success      200 {object} dto.Response{data=[]catalogapp.LocationResponse}
// @Failure      500 {object} dto.Response
// @Router       /catalog/locations [get]
func (h *CatalogHandler) ListLocations(c *gin.Context) {
	respond(h, c, h.service.ListLocations)
}

// ListProducts handles GET /catalog/products
// @ID           listProducts
// @Summary      List products
// @Description  Returns the products that can be delivered
// @Tags         catalog
// @Produce      json
// @Success      200 {object} dto.Response{data=[]catalogapp.ProductResponse}
// @Failure      500 {object} dto.Response
// @Router       /catalog/products [get]
func (h *CatalogHandler) ListProducts(c *gin.Context) {
	respond(h, c, h.service.ListProducts)
}

// ListConditionCategories handles GET /catalog/condition-categories
// @ID           listConditionCategories
// @Summary      List family condition categories
// @Description  Returns the categories a family member can be registered under
// @Tags         catalog
// @Produce      json
// @Success      200 {object} dto.Response{data=[]catalogapp.CategoryResponse}
// @Failure      500 {object} dto.Response
// @Router       /catalog/condition-categories [get]
func (h *CatalogHandler) ListConditionCategories(c *gin.Context) {
	respond(h, c, h.service.ListConditionCategories)
}

// ListEconomicCategories handles GET /catalog/economic-categories
// @ID           listEconomicCategories
// @Summary      List economic maintenance categories
// @Description  Returns the economic categories of a household
// @Tags         catalog
// @Produce      json
// @Success      200 {object} dto.Response{data=[]catalogapp.CategoryResponse}
// @Failure      500 {object} dto.Response
// @Router       /catalog/economic-categories [get]
func (h *CatalogHandler) ListEconomicCategories(c *gin.Context) {
	respond(h, c, h.service.ListEconomicCategories)
}

// ListPrograms handles GET /catalog/programs
// @ID           listPrograms
// @Summary      List programs
// @Description  Returns the aid programs
// @Tags         catalog
// @Produce      json
// @Success      200 {object} dto.Response{data=[]catalogapp.ProgramResponse}
// @Failure      500 {object} dto.Response
// @Router       /catalog/programs [get]
func (h *CatalogHandler) ListPrograms(c *gin.Context) {
	respond(h, c, h.service.ListPrograms)
}

func respond[T any](h *CatalogHandler, c *gin.Context, list func(context.Context) ([]T, error)) {
	items, err := list(c.Request.Context())
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, items)
}
