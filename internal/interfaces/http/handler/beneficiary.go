package handler

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	registryapp "github.com/bakeryaid/backend/internal/application/registry"
)

// BeneficiaryHandler handles the household registry endpoints
type BeneficiaryHandler struct {
	BaseHandler
	service *registryapp.BeneficiaryService
}

// NewBeneficiaryHandler creates a new BeneficiaryHandler
func NewBeneficiaryHandler(service *registryapp.BeneficiaryService) *BeneficiaryHandler {
	return &BeneficiaryHandler{service: service}
}

// NationalIDCheckQuery holds the check-national-id query parameters
type NationalIDCheckQuery struct {
	NationalID string `form:"national_id" binding:"required"`
	ExcludeID  string `form:"exclude_id" binding:"omitempty,uuid"`
}

// Register handles POST /beneficiaries
// @ID           registerBeneficiary
// @Summary      Register a household
// @Description  Registers a head of household with its family members. Every validation problem is reported together.
// @Tags         beneficiaries
// @Accept       json
// @Produce      json
// @Param        Idempotency-Key header string false "Replays the stored response for a repeated key"
// @Param        request body registryapp.RegisterBeneficiaryRequest true "Household and members"
// @Success      201 {object} dto.Response{data=registryapp.BeneficiaryResponse}
// @Failure      400 {object} dto.Response
// @Failure      422 {object} dto.Response
// @Failure      500 {object} dto.Response
// @Router       /beneficiaries [post]
func (h *BeneficiaryHandler) Register(c *gin.Context) {
	var req registryapp.RegisterBeneficiaryRequest
	if !h.BindJSON(c, &req) {
		return
	}

	beneficiary, err := h.service.Register(c.Request.Context(), req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, beneficiary)
}

// Update handles PUT /beneficiaries/:id. The member list in the body
// replaces the stored one.
// @ID           updateBeneficiary
// @Summary      Update a household
// @Description  Replaces the household data and its whole member set
// @Tags         beneficiaries
// @Accept       json
// @Produce      json
// @Param        Idempotency-Key header string false "Replays the stored response for a repeated key"
// @Param        id path string true "Beneficiary ID" format(uuid)
// @Param        request body registryapp.UpdateBeneficiaryRequest true "Household and members"
// @Success      200 {object} dto.Response{data=registryapp.BeneficiaryResponse}
// @Failure      400 {object} dto.Response
// @Failure      404 {object} dto.Response
// @Failure      409 {object} dto.Response
// @Failure      422 {object} dto.Response
// @Failure      500 {object} dto.Response
// @Router       /beneficiaries/{id} [put]
func (h *BeneficiaryHandler) Update(c *gin.Context) {
	id, ok := h.ParseID(c, "id")
	if !ok {
		return
	}
	var req registryapp.UpdateBeneficiaryRequest
	if !h.BindJSON(c, &req) {
		return
	}

	beneficiary, err := h.service.Update(c.Request.Context(), id, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, beneficiary)
}

// Delete handles DELETE /beneficiaries/:id
// @ID           deleteBeneficiary
// @Summary      Delete a household
// @Description  Deletes a household and its members. Households with distributions cannot be deleted.
// @Tags         beneficiaries
// @Produce      json
// @Param        id path string true "Beneficiary ID" format(uuid)
// @Success      204 "No Content"
// @Failure      400 {object} dto.Response
// @Failure      404 {object} dto.Response
// @Failure      409 {object} dto.Response
// @Failure      500 {object} dto.Response
// @Router       /beneficiaries/{id} [delete]
func (h *BeneficiaryHandler) Delete(c *gin.Context) {
	id, ok := h.ParseID(c, "id")
	if !ok {
		return
	}
	if err := h.service.Delete(c.Request.Context(), id); err != nil {
		h.HandleError(c, err)
		return
	}
	h.NoContent(c)
}

// GetByID handles GET /beneficiaries/:id
// @ID           getBeneficiaryById
// @Summary      Get a household
// @Description  Returns a household with its members and their current ages
// @Tags         beneficiaries
// @Produce      json
// @Param        id path string true "Beneficiary ID" format(uuid)
// @Success      200 {object} dto.Response{data=registryapp.BeneficiaryResponse}
// @Failure      400 {object} dto.Response
// @Failure      404 {object} dto.Response
// @Failure      500 {object} dto.Response
// @Router       /beneficiaries/{id} [get]
func (h *BeneficiaryHandler) GetByID(c *gin.Context) {
	id, ok := h.ParseID(c, "id")
	if !ok {
		return
	}
	beneficiary, err := h.service.GetByID(c.Request.Context(), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, beneficiary)
}

// List handles GET /beneficiaries
// @ID           listBeneficiaries
// @Summary      List households
// @Description  Returns a page of households without their members
// @Tags         beneficiaries
// @Produce      json
// @Param        search query string false "Name or national ID"
// @Param        name query string false "Name contains"
// @Param        national_id query string false "National ID prefix"
// @Param        location_id query string false "Location ID" format(uuid)
// @Param        page query int false "Page number" minimum(1)
// @Param        page_size query int false "Page size" minimum(1) maximum(100)
// @Param        order_by query string false "Sort column"
// @Param        order_dir query string false "Sort direction" Enums(asc, desc)
// @Success      200 {object} dto.Response{data=[]registryapp.BeneficiaryListResponse}
// @Failure      400 {object} dto.Response
// @Failure      422 {object} dto.Response
// @Failure      500 {object} dto.Response
// @Router       /beneficiaries [get]
func (h *BeneficiaryHandler) List(c *gin.Context) {
	var filter registryapp.BeneficiaryListFilter
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

// ListMembers handles GET /beneficiaries/:id/members
// @ID           listBeneficiaryMembers
// @Summary      List family members
// @Description  Returns the family members of a household
// @Tags         beneficiaries
// @Produce      json
// @Param        id path string true "Beneficiary ID" format(uuid)
// @Success      200 {object} dto.Response{data=[]registryapp.FamilyMemberResponse}
// @Failure      400 {object} dto.Response
// @Failure      404 {object} dto.Response
// @Failure      500 {object} dto.Response
// @Router       /beneficiaries/{id}/members [get]
func (h *BeneficiaryHandler) ListMembers(c *gin.Context) {
	id, ok := h.ParseID(c, "id")
	if !ok {
		return
	}
	members, err := h.service.ListMembers(c.Request.Context(), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, members)
}

// CheckNationalID handles GET /beneficiaries/check-national-id
// @ID           checkBeneficiaryNationalId
// @Summary      Check a national ID
// @Description  Reports whether a national ID is already registered as a head of household
// @Tags         beneficiaries
// @Produce      json
// @Param        national_id query string true "National ID"
// @Param        exclude_id query string false "Household to ignore" format(uuid)
// @Success      200 {object} dto.Response{data=registryapp.NationalIDCheckResponse}
// @Failure      400 {object} dto.Response
// @Failure      500 {object} dto.Response
// @Router       /beneficiaries/check-national-id [get]
func (h *BeneficiaryHandler) CheckNationalID(c *gin.Context) {
	var q NationalIDCheckQuery
	if !h.BindQuery(c, &q) {
		return
	}
	var exclude *uuid.UUID
	if q.ExcludeID != "" {
		id := uuid.MustParse(q.ExcludeID)
		exclude = &id
	}

	result, err := h.service.CheckNationalIDExists(c.Request.Context(), q.NationalID, exclude)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, result)
}
