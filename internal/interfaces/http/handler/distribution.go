package handler

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	distributionapp "github.com/bakeryaid/backend/internal/application/distribution"
	"github.com/bakeryaid/backend/internal/domain/shared"
)

// DistributionHandler handles delivery endpoints
type DistributionHandler struct {
	BaseHandler
	service *distributionapp.DistributionService
}

// NewDistributionHandler creates a new DistributionHandler
func NewDistributionHandler(service *distributionapp.DistributionService) *DistributionHandler {
	return &DistributionHandler{service: service}
}

// DailyLimitQuery holds the daily-limit query parameters. Date defaults to today.
type DailyLimitQuery struct {
	BeneficiaryID string `form:"beneficiary_id" binding:"required,uuid"`
	Date          string `form:"date" binding:"omitempty,datetime=2006-01-02"`
}

// Create handles POST /distributions
// @ID           createDistribution
// @Summary      Record a delivery
// @Description  Records one product delivery to a household
// @Tags         distributions
// @Accept       json
// @Produce      json
// @Param        Idempotency-Key header string false "Replays the stored response for a repeated key"
// @Param        request body distributionapp.CreateDistributionRequest true "Delivery"
// @Success      201 {object} dto.Response{data=distributionapp.DistributionEventResponse}
// @Failure      400 {object} dto.Response
// @Failure      422 {object} dto.Response
// @Failure      500 {object} dto.Response
// @Router       /distributions [post]
func (h *DistributionHandler) Create(c *gin.Context) {
	var req distributionapp.CreateDistributionRequest
	if !h.BindJSON(c, &req) {
		return
	}

	event, err := h.service.CreateSingle(c.Request.Context(), req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, event)
}

// CreateBulk handles POST /distributions/bulk. Either every event is
// written or none is.
// @ID           createBulkDistribution
// @Summary      Record a bulk delivery
// @Description  Records the same delivery for many households. Either every event is written or none is.
// @Tags         distributions
// @Accept       json
// @Produce      json
// @Param        Idempotency-Key header string false "Replays the stored response for a repeated key"
// @Param        request body distributionapp.CreateBulkDistributionRequest true "Bulk delivery"
// @Success      201 {object} dto.Response{data=distributionapp.BulkDistributionResponse}
// @Failure      400 {object} dto.Response
// @Failure      422 {object} dto.Response
// @Failure      500 {object} dto.Response
// @Router       /distributions/bulk [post]
func (h *DistributionHandler) CreateBulk(c *gin.Context) {
	var req distributionapp.CreateBulkDistributionRequest
	if !h.BindJSON(c, &req) {
		return
	}

	result, err := h.service.CreateBulk(c.Request.Context(), req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, result)
}

// CheckDailyLimit handles GET /distributions/daily-limit
// @ID           checkDistributionDailyLimit
// @Summary      Check the daily limit
// @Description  Returns how many deliveries a household received on a date
// @Tags         distributions
// @Produce      json
// @Param        beneficiary_id query string true "Beneficiary ID" format(uuid)
// @Param        date query string false "YYYY-MM-DD, defaults to today"
// @Success      200 {object} dto.Response{data=distributionapp.DailyLimitResponse}
// @Failure      400 {object} dto.Response
// @Failure      500 {object} dto.Response
// @Router       /distributions/daily-limit [get]
func (h *DistributionHandler) CheckDailyLimit(c *gin.Context) {
	var q DailyLimitQuery
	if !h.BindQuery(c, &q) {
		return
	}

	date := h.service.Today()
	if q.Date != "" {
		d, err := shared.ParseDate(q.Date)
		if err != nil {
			h.BadRequest(c, "date must be in YYYY-MM-DD format")
			return
		}
		date = d
	}

	result, err := h.service.CheckDailyLimit(c.Request.Context(), uuid.MustParse(q.BeneficiaryID), date)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, result)
}

// GetByID handles GET /distributions/:id
// @ID           getDistributionById
// @Summary      Get a delivery
// @Description  Returns one delivery with its beneficiary and product names
// @Tags         distributions
// @Produce      json
// @Param        id path string true "Event ID" format(uuid)
// @Success      200 {object} dto.Response{data=distributionapp.DistributionEventResponse}
// @Failure      400 {object} dto.Response
// @Failure      404 {object} dto.Response
// @Failure      500 {object} dto.Response
// @Router       /distributions/{id} [get]
func (h *DistributionHandler) GetByID(c *gin.Context) {
	id, ok := h.ParseID(c, "id")
	if !ok {
		return
	}
	event, err := h.service.GetByID(c.Request.Context(), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, event)
}

// List handles GET /distributions
// @ID           listDistributions
// @Summary      List deliveries
// @Description  Returns a page of deliveries
// @Tags         distributions
// @Produce      json
// @Param        delivery_date query string false "YYYY-MM-DD"
// @Param        start_date query string false "YYYY-MM-DD"
// @Param        end_date query string false "YYYY-MM-DD"
// @Param        location_id query string false "Location ID" format(uuid)
// @Param        product_id query string false "Product ID" format(uuid)
// @Param        national_id query string false "Beneficiary national ID"
// @Param        page query int false "Page number" minimum(1)
// @Param        page_size query int false "Page size" minimum(1) maximum(100)
// @Param        order_by query string false "Sort column"
// @Param        order_dir query string false "Sort direction" Enums(asc, desc)
// @Success      200 {object} dto.Response{data=[]distributionapp.DistributionEventResponse}
// @Failure      400 {object} dto.Response
// @Failure      422 {object} dto.Response
// @Failure      500 {object} dto.Response
// @Router       /distributions [get]
func (h *DistributionHandler) List(c *gin.Context) {
	var filter distributionapp.EventListFilter
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
