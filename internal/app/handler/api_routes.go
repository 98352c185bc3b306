package handler

import (
	"github.com/gin-gonic/gin"

	"staffdesk/internal/app/status"
)

// RegisterAPIRoutes регистрирует все REST API маршруты
func (h *Handler) RegisterAPIRoutes(router *gin.Engine) {
	api := router.Group("/api")

	// ============ Заявки кандидатов ============
	applications := api.Group("/job-applications")
	{
		applications.GET("", h.ListJobApplications)
		applications.POST("", h.CreateJobApplication)
		applications.POST("/resume", h.UploadResume)
		applications.GET("/:id/resume", h.GetResumeURL)
		h.registerWorkflowRoutes(applications, status.KindJobApplication)
	}

	// ============ Запросы клиентов ============
	requests := api.Group("/service-requests")
	{
		requests.GET("", h.ListServiceRequests)
		requests.POST("", h.CreateServiceRequest)
		requests.POST("/:id/approve", h.ApproveServiceRequest) // договор + CONTRACT_GENERATED
		h.registerWorkflowRoutes(requests, status.KindServiceRequest)
	}

	// ============ Договоры ============
	contracts := api.Group("/contracts")
	{
		contracts.GET("", h.ListContracts)
		contracts.POST("", h.CreateContract)
		contracts.PUT("/:id/pricing", h.RepriceContract) // только DRAFT
		h.registerWorkflowRoutes(contracts, status.KindContract)
	}

	// ============ Пакеты ============
	packages := api.Group("/packages")
	{
		packages.GET("", h.ListPackages)
		packages.POST("", h.CreatePackage)
		packages.POST("/economics", h.PackageEconomics)
		packages.GET("/:id", h.GetPackage)
		packages.DELETE("/:id", h.DeletePackage)
	}

	api.POST("/pricing/preview", h.PricingPreview)

	// Ping эндпоинт для проверки
	router.GET("/ping", h.Ping)
}

// Общие маршруты сущностей со статусом
func (h *Handler) registerWorkflowRoutes(group *gin.RouterGroup, kind status.Kind) {
	group.GET("/:id", h.GetEntity(kind))
	group.PUT("/:id/status", h.ChangeStatus(kind))
	group.GET("/:id/history", h.GetHistory(kind))
}

// Ping проверяет работоспособность API
// @Summary Проверка работоспособности
// @Description Возвращает простой ответ для проверки работы сервера
// @Tags Health
// @Produce json
// @Success 200 {object} map[string]string
// @Router /ping [get]
func (h *Handler) Ping(ctx *gin.Context) {
	ctx.JSON(200, gin.H{"message": "pong"})
}
