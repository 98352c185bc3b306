package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"staffdesk/internal/app/ds"
	"staffdesk/internal/app/dto"
	"staffdesk/internal/app/pricing"
	"staffdesk/internal/app/workflow"
)

// toDraft собирает черновик договора из формы
func toDraft(req dto.ContractDraftRequest) (workflow.ContractDraft, error) {
	start, err := dto.ParseDate(req.StartDate)
	if err != nil {
		return workflow.ContractDraft{}, err
	}
	end, err := dto.ParseDate(req.EndDate)
	if err != nil {
		return workflow.ContractDraft{}, err
	}

	return workflow.ContractDraft{
		ClientType:         pricing.ClientType(req.ClientType),
		IndividualClientID: req.IndividualClientID,
		CompanyClientID:    req.CompanyClientID,
		PackageID:          req.PackageID,
		ProfessionalIDs:    req.ProfessionalIDs,
		ProfessionalID:     req.ProfessionalID,
		DesiredPositionID:  req.DesiredPositionID,
		NegotiatedValue:    req.NegotiatedValue,
		DiscountPercentage: req.DiscountPercentage,
		PaymentTerms:       req.PaymentTerms,
		Location: ds.Location{
			City:     req.Location.City,
			District: req.Location.District,
			Street:   req.Location.Street,
		},
		StartDate: start,
		EndDate:   end,
		Notes:     req.Notes,
	}, nil
}

func (h *Handler) bindDraft(c *gin.Context) (workflow.ContractDraft, bool) {
	var req dto.ContractDraftRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.bindError(c, err)
		return workflow.ContractDraft{}, false
	}
	draft, err := toDraft(req)
	if err != nil {
		h.errorResponse(c, http.StatusBadRequest, "Неверная дата: "+err.Error())
		return workflow.ContractDraft{}, false
	}
	return draft, true
}

// ApproveServiceRequest одобряет запрос клиента и создает договор
// @Summary Одобрение запроса клиента
// @Description Создает договор в статусе DRAFT и переводит запрос в CONTRACT_GENERATED. Все или ничего.
// @Tags ServiceRequests
// @Accept json
// @Produce json
// @Param id path int true "ID запроса"
// @Param request body dto.ContractDraftRequest true "Черновик договора"
// @Success 201 {object} dto.ApprovalResponse
// @Failure 404 {object} dto.ErrorResponse
// @Failure 409 {object} dto.ErrorResponse
// @Failure 422 {object} dto.ErrorResponse
// @Failure 500 {object} dto.ErrorResponse
// @Router /api/service-requests/{id}/approve [post]
func (h *Handler) ApproveServiceRequest(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		h.errorResponse(c, http.StatusBadRequest, "Неверный ID запроса")
		return
	}
	draft, ok := h.bindDraft(c)
	if !ok {
		return
	}

	approval, err := h.Orchestrator.ApproveServiceRequest(c.Request.Context(), id, draft)
	if err != nil {
		h.handleError(c, err)
		return
	}
	h.successResponse(c, http.StatusCreated, "Договор создан", dto.ApprovalResponse{
		ServiceRequest: approval.ServiceRequest,
		Contract:       approval.Contract,
	})
}

// CreateContract создает договор без запроса клиента
// @Summary Создание договора
// @Tags Contracts
// @Accept json
// @Produce json
// @Param request body dto.ContractDraftRequest true "Черновик договора"
// @Success 201 {object} dto.EntityResponse
// @Failure 422 {object} dto.ErrorResponse
// @Router /api/contracts [post]
func (h *Handler) CreateContract(c *gin.Context) {
	draft, ok := h.bindDraft(c)
	if !ok {
		return
	}
	contract, err := h.Orchestrator.CreateContract(c.Request.Context(), draft)
	if err != nil {
		h.handleError(c, err)
		return
	}
	c.JSON(http.StatusCreated, entityResponse(contract))
}

// RepriceContract меняет пакет, согласованную сумму или скидку черновика договора
// @Summary Пересчет цены договора
// @Tags Contracts
// @Accept json
// @Produce json
// @Param id path int true "ID договора"
// @Param request body dto.RepriceContractRequest true "Новые условия"
// @Success 200 {object} dto.EntityResponse
// @Failure 409 {object} dto.ErrorResponse
// @Failure 422 {object} dto.ErrorResponse
// @Router /api/contracts/{id}/pricing [put]
func (h *Handler) RepriceContract(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		h.errorResponse(c, http.StatusBadRequest, "Неверный ID договора")
		return
	}
	var req dto.RepriceContractRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.bindError(c, err)
		return
	}

	contract, err := h.Orchestrator.RepriceContract(c.Request.Context(), id, workflow.PricingEdit{
		PackageID:          req.PackageID,
		NegotiatedValue:    req.NegotiatedValue,
		DiscountPercentage: req.DiscountPercentage,
	})
	if err != nil {
		h.handleError(c, err)
		return
	}
	c.JSON(http.StatusOK, entityResponse(contract))
}
