package handler

import (
	"github.com/gin-gonic/gin"

	distributionapp "github.com/bakeryaid/backend/internal/application/distribution"
)

// ProductionHandler handles bakery production records
type ProductionHandler struct {
	BaseHandler
	service *distributionapp.ProductionService
}

// NewProductionHandler creates a new ProductionHandler
func NewProductionHandler(service *distributionapp.ProductionService) *ProductionHandler {
	return &ProductionHandler{service: service}
}

// Create handles POST /productions
// @ID           createProduction
// @Summary      Record a production batch
// @Description  Records the quantity of a product baked on a date
// @Tags         productions
// @Accept       json
// @Produce      json
// @Param        Idempotency-Key header string false "Replays the stored response for a repeated key"
// @Param        request body distributionapp.CreateProductionRequest true "Production batch"
// @Success      201 {object} dto.Response{data=distributionapp.ProductionResponse}
// @Failure      400 {object} dto.Response
// @Failure      422 {object} dto.Response
// @Failure      500 {object} dto.Response
// @Router       /productions [post]
func (h *ProductionHandler) Create(c *gin.Context) {
	var req distributionapp.CreateProductionRequest
	if !h.BindJSON(c, &req) {
		return
	}
	record, err := h.service.Create(c.Request.Context(), req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, record)
}

// GetByID handles GET /productions/:id
// @ID           getProductionById
// @Summary      Get a production batch
// @Description  Returns one production record
// @Tags         productions
// @Produce      json
// @Param        id path string true "Production record ID" format(uuid)
// @Success      200 {object} dto.Response{data=distributionapp.ProductionResponse}
// @Failure      400 {object} dto.Response
// @Failure      404 {object} dto.Response
// @Failure      500 {object} dto.Response
// @Router       /productions/{id} [get]
func (h *ProductionHandler) GetByID(c *gin.Context) {
	id, ok := h.ParseID(c, "id")
	if !ok {
		return
	}
	record, err := h.service.GetByID(c.Request.Context(), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, record)
}

// List handles GET /productions
// @ID           listProductions
// @Summary      List production batches
// @Description  Returns a page of production records
// @Tags         productions
// @Produce      json
// @Param        date query string false "YYYY-MM-DD"
// @Param        start_date query string false "YYYY-MM-DD"
// @Param        end_date query string false "YYYY-MM-DD"
// @Param        product_id query string false "Product ID" format(uuid)
// @Param        page query int false "Page number" minimum(1)
// @Param        page_size query int false "Page size" minimum(1) maximum(100)
// @Param        order_by query string false "Sort column"
// @Param        order_dir query string false "Sort direction" Enums(asc, desc)
// @Success      200 {object} dto.Response{data=[]distributionapp.ProductionResponse}
// @Failure      400 {object} dto.Response
// @Failure      422 {object} dto.Response
// @Failure      500 {object} dto.Response
// @Router       /productions [get]
func (h *ProductionHandler) List(c *gin.Context) {
	var filter distributionapp.ProductionListFilter
	if !h.BindQuery(c, &filter) {
		return
	}
	items, total, err := h.service.List(c.Request.Context(), filter)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.SuccessPage(c, items, total, filter.Page, filter.PageSize)
}
