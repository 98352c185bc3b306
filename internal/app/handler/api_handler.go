package handler

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"staffdesk/internal/app/ds"
	"staffdesk/internal/app/dto"
	"staffdesk/internal/app/pricing"
	"staffdesk/internal/app/repository"
	"staffdesk/internal/app/status"
)

// ============ Списки ============

// listFilter читает ?status=&client_type=&limit=&offset=
func (h *Handler) listFilter(c *gin.Context, kind status.Kind) (repository.ListFilter, bool) {
	var f repository.ListFilter

	if raw := c.Query("status"); raw != "" {
		s, err := status.Parse(kind, raw)
		if err != nil {
			h.errorResponse(c, http.StatusBadRequest, "Неизвестный статус: "+raw)
			return f, false
		}
		f.Status = s
	}
	if raw := c.Query("client_type"); raw != "" {
		ct, err := pricing.ParseClientType(raw)
		if err != nil {
			h.errorResponse(c, http.StatusBadRequest, "Неизвестный тип клиента: "+raw)
			return f, false
		}
		f.ClientType = string(ct)
	}

	var err error
	if raw := c.Query("limit"); raw != "" {
		if f.Limit, err = strconv.Atoi(raw); err != nil || f.Limit < 0 {
			h.errorResponse(c, http.StatusBadRequest, "Неверный limit")
			return f, false
		}
	}
	if raw := c.Query("offset"); raw != "" {
		if f.Offset, err = strconv.Atoi(raw); err != nil || f.Offset < 0 {
			h.errorResponse(c, http.StatusBadRequest, "Неверный offset")
			return f, false
		}
	}
	return f, true
}

// ListJobApplications получает список заявок кандидатов
// @Summary Список заявок кандидатов
// @Tags JobApplications
// @Produce json
// @Param status query string false "Фильтр по статусу"
// @Param limit query int false "Количество записей"
// @Param offset query int false "Смещение"
// @Success 200 {object} dto.ListResponse
// @Failure 400 {object} dto.ErrorResponse
// @Router /api/job-applications [get]
func (h *Handler) ListJobApplications(c *gin.Context) {
	f, ok := h.listFilter(c, status.KindJobApplication)
	if !ok {
		return
	}
	apps, err := h.Store.ListJobApplications(c.Request.Context(), f)
	if err != nil {
		h.handleError(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.ListResponse{Items: apps, Total: len(apps)})
}

// ListServiceRequests получает список запросов клиентов
// @Summary Список запросов клиентов
// @Tags ServiceRequests
// @Produce json
// @Param status query string false "Фильтр по статусу"
// @Param client_type query string false "INDIVIDUAL или CORPORATE"
// @Success 200 {object} dto.ListResponse
// @Failure 400 {object} dto.ErrorResponse
// @Router /api/service-requests [get]
func (h *Handler) ListServiceRequests(c *gin.Context) {
	f, ok := h.listFilter(c, status.KindServiceRequest)
	if !ok {
		return
	}
	requests, err := h.Store.ListServiceRequests(c.Request.Context(), f)
	if err != nil {
		h.handleError(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.ListResponse{Items: requests, Total: len(requests)})
}

// ListContracts получает список договоров
// @Summary Список договоров
// @Tags Contracts
// @Produce json
// @Param status query string false "Фильтр по статусу"
// @Param client_type query string false "INDIVIDUAL или CORPORATE"
// @Success 200 {object} dto.ListResponse
// @Failure 400 {object} dto.ErrorResponse
// @Router /api/contracts [get]
func (h *Handler) ListContracts(c *gin.Context) {
	f, ok := h.listFilter(c, status.KindContract)
	if !ok {
		return
	}
	contracts, err := h.Store.ListContracts(c.Request.Context(), f)
	if err != nil {
		h.handleError(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.ListResponse{Items: contracts, Total: len(contracts)})
}

// ============ Создание входящих ============

// CreateJobApplication принимает заявку кандидата (статус PENDING)
// @Summary Подача заявки кандидата
// @Tags JobApplications
// @Accept json
// @Produce json
// @Param request body dto.CreateJobApplicationRequest true "Заявка"
// @Success 201 {object} dto.EntityResponse
// @Failure 400 {object} dto.ErrorResponse
// @Router /api/job-applications [post]
func (h *Handler) CreateJobApplication(c *gin.Context) {
	var req dto.CreateJobApplicationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.bindError(c, err)
		return
	}

	app := &ds.JobApplication{
		FullName:          req.FullName,
		Email:             req.Email,
		Phone:             req.Phone,
		DesiredPositionID: req.DesiredPositionID,
		ResumeKey:         req.ResumeKey,
		CoverLetter:       req.CoverLetter,
	}
	if err := h.Store.CreateJobApplication(c.Request.Context(), app); err != nil {
		h.handleError(c, err)
		return
	}
	c.JSON(http.StatusCreated, entityResponse(app))
}

// CreateServiceRequest принимает запрос клиента (статус PENDING)
// @Summary Запрос на услуги от клиента
// @Tags ServiceRequests
// @Accept json
// @Produce json
// @Param request body dto.CreateServiceRequestRequest true "Запрос"
// @Success 201 {object} dto.EntityResponse
// @Failure 400 {object} dto.ErrorResponse
// @Router /api/service-requests [post]
func (h *Handler) CreateServiceRequest(c *gin.Context) {
	var req dto.CreateServiceRequestRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.bindError(c, err)
		return
	}

	request := &ds.ServiceRequest{
		RequesterType: pricing.ClientType(req.RequesterType),
		FullName:      req.FullName,
		CompanyName:   req.CompanyName,
		Document:      req.Document,
		Email:         req.Email,
		Phone:         req.Phone,
		Description:   req.Description,
	}
	if err := h.Store.CreateServiceRequest(c.Request.Context(), request); err != nil {
		h.handleError(c, err)
		return
	}
	c.JSON(http.StatusCreated, entityResponse(request))
}

// ============ Статусы ============

func entityResponse(entity ds.Workflow) dto.EntityResponse {
	kind := entity.Kind()
	allowed := status.Allowed(kind, entity.GetStatus())
	if allowed == nil {
		allowed = []string{}
	}
	return dto.EntityResponse{
		Kind:               string(kind),
		Entity:             entity,
		AllowedTransitions: allowed,
		Terminal:           status.IsTerminal(kind, entity.GetStatus()),
	}
}

// GetEntity возвращает сущность и допустимые следующие статусы
// @Summary Карточка сущности
// @Tags Workflow
// @Produce json
// @Param id path int true "ID"
// @Success 200 {object} dto.EntityResponse
// @Failure 404 {object} dto.ErrorResponse
// @Router /api/contracts/{id} [get]
func (h *Handler) GetEntity(kind status.Kind) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := parseID(c, "id")
		if !ok {
			h.errorResponse(c, http.StatusBadRequest, "Неверный ID")
			return
		}
		entity, err := h.Store.GetByID(c.Request.Context(), kind, id)
		if err != nil {
			h.handleError(c, err)
			return
		}
		c.JSON(http.StatusOK, entityResponse(entity))
	}
}

// ChangeStatus переводит сущность в новый статус
// @Summary Смена статуса
// @Description Принимает статус каталога или действие интерфейса (APPROVED, REJECTED, IN_REVIEW)
// @Tags Workflow
// @Accept json
// @Produce json
// @Param id path int true "ID"
// @Param request body dto.StatusChangeRequest true "Новый статус"
// @Success 200 {object} dto.EntityResponse
// @Failure 400 {object} dto.ErrorResponse
// @Failure 404 {object} dto.ErrorResponse
// @Failure 409 {object} dto.ErrorResponse
// @Failure 422 {object} dto.ErrorResponse
// @Router /api/job-applications/{id}/status [put]
func (h *Handler) ChangeStatus(kind status.Kind) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := parseID(c, "id")
		if !ok {
			h.errorResponse(c, http.StatusBadRequest, "Неверный ID")
			return
		}

		var req dto.StatusChangeRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			h.bindError(c, err)
			return
		}
		if req.Requested() == "" {
			h.errorResponse(c, http.StatusBadRequest, "Укажите status или action")
			return
		}

		entity, err := h.Orchestrator.Transition(c.Request.Context(), kind, id, req.Requested())
		if err != nil {
			h.handleError(c, err)
			return
		}
		c.JSON(http.StatusOK, entityResponse(entity))
	}
}

// GetHistory возвращает историю статусов
// @Summary История статусов
// @Tags Workflow
// @Produce json
// @Param id path int true "ID"
// @Success 200 {object} dto.ListResponse
// @Failure 404 {object} dto.ErrorResponse
// @Router /api/service-requests/{id}/history [get]
func (h *Handler) GetHistory(kind status.Kind) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := parseID(c, "id")
		if !ok {
			h.errorResponse(c, http.StatusBadRequest, "Неверный ID")
			return
		}
		ctx := c.Request.Context()
		if _, err := h.Store.GetByID(ctx, kind, id); err != nil {
			h.handleError(c, err)
			return
		}
		changes, err := h.Store.ListStatusChanges(ctx, kind, id)
		if err != nil {
			h.handleError(c, err)
			return
		}
		c.JSON(http.StatusOK, dto.ListResponse{Items: changes, Total: len(changes)})
	}
}
