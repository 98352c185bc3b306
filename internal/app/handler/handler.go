package handler

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	"github.com/sirupsen/logrus"

	"staffdesk/internal/app/ds"
	"staffdesk/internal/app/dto"
	"staffdesk/internal/app/middleware"
	"staffdesk/internal/app/pricing"
	"staffdesk/internal/app/repository"
	"staffdesk/internal/app/status"
	"staffdesk/internal/app/workflow"
)

// Store - чтение и запись, нужные обработчикам помимо оркестратора
type Store interface {
	GetByID(ctx context.Context, kind status.Kind, id uint) (ds.Workflow, error)
	ListStatusChanges(ctx context.Context, kind status.Kind, id uint) ([]ds.StatusChange, error)

	ListJobApplications(ctx context.Context, f repository.ListFilter) ([]ds.JobApplication, error)
	CreateJobApplication(ctx context.Context, app *ds.JobApplication) error
	ListServiceRequests(ctx context.Context, f repository.ListFilter) ([]ds.ServiceRequest, error)
	CreateServiceRequest(ctx context.Context, req *ds.ServiceRequest) error
	ListContracts(ctx context.Context, f repository.ListFilter) ([]ds.Contract, error)

	GetPackage(ctx context.Context, id uint) (*ds.Package, error)
	ListPackages(ctx context.Context, name string) ([]ds.Package, error)
	CreatePackage(ctx context.Context, pkg *ds.Package) error
	DeletePackage(ctx context.Context, id uint) error
}

// PackageCache - кэш справочника пакетов (redis). Может отсутствовать.
type PackageCache interface {
	GetPackage(ctx context.Context, id uint) (*ds.Package, error)
	SetPackage(ctx context.Context, pkg *ds.Package) error
	InvalidatePackage(ctx context.Context, id uint) error
}

// ResumeStorage - файловое хранилище резюме (MinIO). Может отсутствовать.
type ResumeStorage interface {
	UploadResume(ctx context.Context, fileData []byte, originalFilename string) (string, error)
	ResumeURL(ctx context.Context, key string) (string, error)
}

// Handler содержит обработчики REST API
type Handler struct {
	Store        Store
	Orchestrator *workflow.Orchestrator
	Cache        PackageCache
	Files        ResumeStorage
}

var _ Store = (*repository.Repository)(nil)

func NewHandler(store Store, orchestrator *workflow.Orchestrator, cache PackageCache, files ResumeStorage) *Handler {
	return &Handler{
		Store:        store,
		Orchestrator: orchestrator,
		Cache:        cache,
		Files:        files,
	}
}

// ============ Вспомогательные функции ============

func (h *Handler) errorResponse(c *gin.Context, statusCode int, message string) {
	c.JSON(statusCode, dto.ErrorResponse{
		Status:  "fail",
		Message: message,
	})
}

func (h *Handler) errorDetails(c *gin.Context, statusCode int, code, message string, details interface{}) {
	c.JSON(statusCode, dto.ErrorResponse{
		Status:  "fail",
		Code:    code,
		Message: message,
		Details: details,
	})
}

func (h *Handler) successResponse(c *gin.Context, statusCode int, message string, data interface{}) {
	response := dto.SuccessResponse{
		Status:  "success",
		Message: message,
	}
	if data != nil {
		response.Data = data
	}
	c.JSON(statusCode, response)
}

func parseID(c *gin.Context, param string) (uint, bool) {
	id, err := strconv.ParseUint(c.Param(param), 10, 32)
	if err != nil || id == 0 {
		return 0, false
	}
	return uint(id), true
}

// bindError переводит ошибки binding в список полей
func (h *Handler) bindError(c *gin.Context, err error) {
	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) {
		fields := make(map[string]string, len(verrs))
		for _, fe := range verrs {
			fields[toSnake(fe.Field())] = fe.Tag()
		}
		h.errorDetails(c, http.StatusBadRequest, "invalid_request", "Неверные данные", fields)
		return
	}
	h.errorResponse(c, http.StatusBadRequest, "Неверные данные: "+err.Error())
}

// handleError сопоставляет ошибки ядра с HTTP статусами
func (h *Handler) handleError(c *gin.Context, err error) {
	var (
		illegal    *workflow.IllegalTransitionError
		incomplete *workflow.IncompleteContractError
		repoErr    *workflow.RepositoryError
		discount   *pricing.InvalidDiscountError
		economics  *pricing.InvalidEconomicsInputError
		negotiated *pricing.InvalidNegotiatedValueError
	)

	switch {
	case errors.As(err, &illegal):
		message := fmt.Sprintf("Нельзя перевести из %s в %s напрямую", illegal.From, illegal.To)
		if len(illegal.Allowed) == 0 {
			message = fmt.Sprintf("Статус %s окончательный", illegal.From)
		}
		h.errorDetails(c, http.StatusConflict, "illegal_transition", message, dto.IllegalTransitionDetails{
			From:    illegal.From,
			To:      illegal.To,
			Allowed: illegal.Allowed,
		})
	case errors.As(err, &incomplete):
		h.errorDetails(c, http.StatusUnprocessableEntity, "incomplete_contract", "Договор заполнен не полностью", dto.IncompleteContractDetails{
			Missing:     incomplete.Missing,
			Conflicting: incomplete.Conflicting,
		})
	case errors.Is(err, workflow.ErrContractLocked):
		h.errorDetails(c, http.StatusConflict, "contract_locked", "Цену можно менять только у черновика договора", nil)
	case errors.Is(err, pricing.ErrMissingPackage):
		h.errorDetails(c, http.StatusUnprocessableEntity, "missing_package", "Сначала выберите пакет", nil)
	case errors.Is(err, pricing.ErrMissingNegotiatedValue):
		h.errorDetails(c, http.StatusUnprocessableEntity, "missing_negotiated_value", "Укажите согласованную сумму", nil)
	case errors.As(err, &discount):
		h.errorDetails(c, http.StatusUnprocessableEntity, "invalid_discount", "Скидка должна быть от 0 до 100%", gin.H{"discount_percentage": discount.Discount})
	case errors.As(err, &economics):
		h.errorDetails(c, http.StatusUnprocessableEntity, "invalid_package_terms", "Параметры пакета должны быть неотрицательными и не превышать допустимый размер", gin.H{"field": economics.Field})
	case errors.As(err, &negotiated):
		h.errorDetails(c, http.StatusUnprocessableEntity, "invalid_negotiated_value", "Согласованная сумма должна быть от 0 до 9 999 999 999,99", nil)
	case errors.Is(err, workflow.ErrUnknownKind),
		errors.Is(err, workflow.ErrUnknownStatus),
		errors.Is(err, pricing.ErrUnknownClientType):
		h.errorDetails(c, http.StatusBadRequest, "unknown_value", err.Error(), nil)
	case errors.Is(err, workflow.ErrNotFound):
		h.errorDetails(c, http.StatusNotFound, "not_found", "Запись не найдена", nil)
	case errors.As(err, &repoErr) && repoErr.OrphanRisk():
		logrus.WithField("request_id", middleware.GetRequestID(c)).Error(err)
		h.errorDetails(c, http.StatusInternalServerError, "repository_error", "Ошибка сохранения после создания договора", gin.H{"contract_id": *repoErr.ContractID})
	default:
		logrus.WithField("request_id", middleware.GetRequestID(c)).Error(err)
		h.errorDetails(c, http.StatusInternalServerError, "repository_error", "Внутренняя ошибка", nil)
	}
}

// toSnake: ProfessionalIDs -> professional_ids
func toSnake(s string) string {
	var b strings.Builder
	runes := []rune(s)
	for i, r := range runes {
		upper := r >= 'A' && r <= 'Z'
		if upper && i > 0 && runes[i-1] >= 'a' && runes[i-1] <= 'z' {
			b.WriteByte('_')
		}
		if upper {
			r += 'a' - 'A'
		}
		b.WriteRune(r)
	}
	return b.String()
}
