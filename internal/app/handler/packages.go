package handler

import (
	"context"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"staffdesk/internal/app/ds"
	"staffdesk/internal/app/dto"
	"staffdesk/internal/app/pricing"
	"staffdesk/internal/app/workflow"
)

// packageByID читает пакет через кэш. Ошибки кэша не мешают ответу.
func (h *Handler) packageByID(ctx context.Context, id uint) (*ds.Package, error) {
	if h.Cache != nil {
		pkg, err := h.Cache.GetPackage(ctx, id)
		if err == nil {
			return pkg, nil
		}
		logrus.WithField("package_id", id).Debugf("package cache: %v", err)
	}

	pkg, err := h.Store.GetPackage(ctx, id)
	if err != nil {
		return nil, err
	}
	if h.Cache != nil {
		if err := h.Cache.SetPackage(ctx, pkg); err != nil {
			logrus.WithField("package_id", id).Warnf("package cache write failed: %v", err)
		}
	}
	return pkg, nil
}

func packageResponse(pkg *ds.Package) (dto.PackageResponse, error) {
	economics, err := pkg.Terms().Economics()
	if err != nil {
		return dto.PackageResponse{}, err
	}
	return dto.PackageResponse{Package: *pkg, Economics: economics}, nil
}

// ListPackages получает список пакетов с экономикой
// @Summary Список пакетов
// @Tags Packages
// @Produce json
// @Param name query string false "Поиск по названию"
// @Success 200 {object} dto.ListResponse
// @Router /api/packages [get]
func (h *Handler) ListPackages(c *gin.Context) {
	packages, err := h.Store.ListPackages(c.Request.Context(), c.Query("name"))
	if err != nil {
		h.handleError(c, err)
		return
	}

	items := make([]dto.PackageResponse, 0, len(packages))
	for i := range packages {
		resp, err := packageResponse(&packages[i])
		if err != nil {
			// в справочнике не должно быть отрицательных значений
			logrus.WithField("package_id", packages[i].ID).Errorf("package economics: %v", err)
			continue
		}
		items = append(items, resp)
	}
	c.JSON(http.StatusOK, dto.ListResponse{Items: items, Total: len(items)})
}

// GetPackage получает пакет с экономикой
// @Summary Пакет
// @Tags Packages
// @Produce json
// @Param id path int true "ID пакета"
// @Success 200 {object} dto.PackageResponse
// @Failure 404 {object} dto.ErrorResponse
// @Router /api/packages/{id} [get]
func (h *Handler) GetPackage(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		h.errorResponse(c, http.StatusBadRequest, "Неверный ID пакета")
		return
	}
	pkg, err := h.packageByID(c.Request.Context(), id)
	if err != nil {
		h.handleError(c, err)
		return
	}
	resp, err := packageResponse(pkg)
	if err != nil {
		h.handleError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// CreatePackage добавляет пакет в справочник
// @Summary Создание пакета
// @Tags Packages
// @Accept json
// @Produce json
// @Param request body dto.PackageRequest true "Пакет"
// @Success 201 {object} dto.PackageResponse
// @Failure 400 {object} dto.ErrorResponse
// @Failure 422 {object} dto.ErrorResponse
// @Router /api/packages [post]
func (h *Handler) CreatePackage(c *gin.Context) {
	var req dto.PackageRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.bindError(c, err)
		return
	}

	pkg := &ds.Package{
		Name:        req.Name,
		Description: req.Description,
		Employees:   req.Employees,
		Hours:       req.Hours,
		Equivalent:  req.Equivalent,
		Cost:        req.Cost,
	}
	// проверка параметров до записи
	economics, err := pkg.Terms().Economics()
	if err != nil {
		h.handleError(c, err)
		return
	}
	if err := h.Store.CreatePackage(c.Request.Context(), pkg); err != nil {
		h.handleError(c, err)
		return
	}

	c.JSON(http.StatusCreated, dto.PackageResponse{Package: *pkg, Economics: economics})
}

// DeletePackage убирает пакет из справочника
// @Summary Удаление пакета
// @Tags Packages
// @Param id path int true "ID пакета"
// @Success 200 {object} dto.SuccessResponse
// @Failure 404 {object} dto.ErrorResponse
// @Router /api/packages/{id} [delete]
func (h *Handler) DeletePackage(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		h.errorResponse(c, http.StatusBadRequest, "Неверный ID пакета")
		return
	}
	ctx := c.Request.Context()
	if err := h.Store.DeletePackage(ctx, id); err != nil {
		h.handleError(c, err)
		return
	}
	if h.Cache != nil {
		if err := h.Cache.InvalidatePackage(ctx, id); err != nil {
			logrus.WithField("package_id", id).Warnf("package cache invalidate failed: %v", err)
		}
	}
	h.successResponse(c, http.StatusOK, "Пакет удален", nil)
}

// ============ Расчеты ============

// PackageEconomics считает экономику пакета без записи
// @Summary Экономика пакета
// @Tags Pricing
// @Accept json
// @Produce json
// @Param request body dto.EconomicsRequest true "Параметры пакета"
// @Success 200 {object} pricing.Economics
// @Failure 422 {object} dto.ErrorResponse
// @Router /api/packages/economics [post]
func (h *Handler) PackageEconomics(c *gin.Context) {
	var req dto.EconomicsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.bindError(c, err)
		return
	}
	economics, err := pricing.ComputePackageEconomics(req.Employees, req.Hours, req.Equivalent, req.Cost)
	if err != nil {
		h.handleError(c, err)
		return
	}
	c.JSON(http.StatusOK, economics)
}

// PricingPreview считает цену договора для формы без записи
// @Summary Предварительный расчет цены договора
// @Tags Pricing
// @Accept json
// @Produce json
// @Param request body dto.PricingPreviewRequest true "Условия"
// @Success 200 {object} pricing.Pricing
// @Failure 404 {object} dto.ErrorResponse
// @Failure 422 {object} dto.ErrorResponse
// @Router /api/pricing/preview [post]
func (h *Handler) PricingPreview(c *gin.Context) {
	var req dto.PricingPreviewRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.bindError(c, err)
		return
	}

	in := pricing.Input{
		Package:            req.Package,
		NegotiatedValue:    req.NegotiatedValue,
		DiscountPercentage: req.DiscountPercentage,
	}
	if req.PackageID != nil {
		pkg, err := h.packageByID(c.Request.Context(), *req.PackageID)
		if errors.Is(err, workflow.ErrNotFound) {
			h.handleError(c, pricing.ErrMissingPackage)
			return
		}
		if err != nil {
			h.handleError(c, err)
			return
		}
		terms := pkg.Terms()
		in.Package = &terms
	}

	result, err := pricing.ComputeContractPricing(pricing.ClientType(req.ClientType), in)
	if err != nil {
		h.handleError(c, err)
		return
	}
	c.JSON(http.StatusOK, result)
}
