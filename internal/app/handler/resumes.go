package handler

import (
	"errors"
	"io"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"staffdesk/internal/app/ds"
	"staffdesk/internal/app/status"
	"staffdesk/internal/app/storage"
)

const maxResumeSize = 10 << 20

// UploadResume загружает файл резюме до подачи заявки
// @Summary Загрузка резюме
// @Description Возвращает resume_key, который передается при подаче заявки
// @Tags JobApplications
// @Accept multipart/form-data
// @Produce json
// @Param resume formData file true "Файл резюме (pdf, doc, docx, odt, txt)"
// @Success 201 {object} dto.SuccessResponse
// @Failure 400 {object} dto.ErrorResponse
// @Failure 503 {object} dto.ErrorResponse
// @Router /api/job-applications/resume [post]
func (h *Handler) UploadResume(c *gin.Context) {
	if h.Files == nil {
		h.errorResponse(c, http.StatusServiceUnavailable, "Хранилище файлов не настроено")
		return
	}

	file, err := c.FormFile("resume")
	if err != nil {
		h.errorResponse(c, http.StatusBadRequest, "Файл не найден в запросе")
		return
	}
	if file.Size > maxResumeSize {
		h.errorResponse(c, http.StatusRequestEntityTooLarge, "Файл больше 10 МБ")
		return
	}

	openedFile, err := file.Open()
	if err != nil {
		h.errorResponse(c, http.StatusInternalServerError, "Ошибка чтения файла")
		return
	}
	defer openedFile.Close()

	fileData, err := io.ReadAll(openedFile)
	if err != nil {
		h.errorResponse(c, http.StatusInternalServerError, "Ошибка чтения файла")
		return
	}

	key, err := h.Files.UploadResume(c.Request.Context(), fileData, file.Filename)
	if errors.Is(err, storage.ErrUnsupportedFile) {
		h.errorResponse(c, http.StatusBadRequest, "Допустимые форматы: pdf, doc, docx, odt, txt")
		return
	}
	if err != nil {
		logrus.Error(err)
		h.errorResponse(c, http.StatusInternalServerError, "Ошибка загрузки файла")
		return
	}
	h.successResponse(c, http.StatusCreated, "Резюме загружено", gin.H{"resume_key": key})
}

// GetResumeURL выдает временную ссылку на резюме кандидата
// @Summary Ссылка на резюме
// @Tags JobApplications
// @Produce json
// @Param id path int true "ID заявки"
// @Success 200 {object} dto.SuccessResponse
// @Failure 404 {object} dto.ErrorResponse
// @Router /api/job-applications/{id}/resume [get]
func (h *Handler) GetResumeURL(c *gin.Context) {
	if h.Files == nil {
		h.errorResponse(c, http.StatusServiceUnavailable, "Хранилище файлов не настроено")
		return
	}
	id, ok := parseID(c, "id")
	if !ok {
		h.errorResponse(c, http.StatusBadRequest, "Неверный ID заявки")
		return
	}

	entity, err := h.Store.GetByID(c.Request.Context(), status.KindJobApplication, id)
	if err != nil {
		h.handleError(c, err)
		return
	}
	app, ok := entity.(*ds.JobApplication)
	if !ok || app.ResumeKey == nil || *app.ResumeKey == "" {
		h.errorResponse(c, http.StatusNotFound, "Резюме не загружено")
		return
	}

	url, err := h.Files.ResumeURL(c.Request.Context(), *app.ResumeKey)
	if err != nil {
		logrus.Error(err)
		h.errorResponse(c, http.StatusInternalServerError, "Ошибка получения ссылки")
		return
	}
	h.successResponse(c, http.StatusOK, "", gin.H{"url": url})
}
