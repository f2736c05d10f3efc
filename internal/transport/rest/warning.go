package rest

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"zuhre/internal/domain"
)

// @Summary Список предупреждений о субъекте
// @Tags Предупреждения
// @Produce json
// @Param subject_id query int true "ID субъекта"
// @Success 200 {array} domain.Warning "Предупреждения"
// @Failure 400 {object} errorResponseBody "Неверные параметры запроса"
// @Failure 500 {object} errorResponseBody "Внутренняя ошибка сервера"
// @Router /warnings [get]
func (h *Handler) getWarnings(c *gin.Context) {
	subjectID, err := strconv.ParseInt(c.Query("subject_id"), 10, 64)
	if err != nil {
		badRequestResponse(c, "неверный формат subject_id")
		return
	}

	warnings, err := h.services.Warning.ListBySubject(c.Request.Context(), subjectID)
	if err != nil {
		h.logger.Error("ошибка получения предупреждений", zap.Error(err), zap.Int64("subjectID", subjectID))
		internalServerErrorResponse(c)
		return
	}

	successResponse(c, http.StatusOK, warnings)
}

// @Summary Получить предупреждение по ID
// @Tags Предупреждения
// @Produce json
// @Param id path string true "ID предупреждения"
// @Success 200 {object} domain.Warning "Данные предупреждения"
// @Failure 404 {object} errorResponseBody "Предупреждение не найдено"
// @Router /warnings/{id} [get]
func (h *Handler) getWarningByID(c *gin.Context) {
	id := c.Param("id")

	warning, err := h.services.Warning.GetByID(c.Request.Context(), id)
	if err != nil {
		h.logger.Error("ошибка получения предупреждения", zap.Error(err), zap.String("id", id))
		notFoundResponse(c, "предупреждение не найдено")
		return
	}

	successResponse(c, http.StatusOK, warning)
}

// @Summary Создать предупреждение
// @Description Прямая жалоба на субъект без подачи отзыва
// @Tags Предупреждения
// @Accept json
// @Produce json
// @Param input body domain.CreateWarningDTO true "Данные жалобы"
// @Success 201 {object} domain.Warning "Созданное предупреждение"
// @Failure 400 {object} errorResponseBody "Ошибка валидации"
// @Failure 401 {object} errorResponseBody "Не авторизован"
// @Security ApiKeyAuth
// @Router /warnings [post]
func (h *Handler) createWarning(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		unauthorizedResponse(c)
		return
	}

	var input domain.CreateWarningDTO
	if err := c.ShouldBindJSON(&input); err != nil {
		h.logger.Warn("неверный формат данных", zap.Error(err))
		badRequestResponse(c, "неверный формат данных")
		return
	}

	warning, err := h.services.Warning.Flag(c.Request.Context(), userID, input)
	if err != nil {
		h.logger.Error("ошибка при создании предупреждения", zap.Error(err))
		errorResponse(c, http.StatusBadRequest, err.Error())
		return
	}

	createdResponse(c, warning)
}

// @Summary Подтвердить предупреждение
// @Description Подтверждение чужого предупреждения, повторные подтверждения не учитываются
// @Tags Предупреждения
// @Produce json
// @Param id path string true "ID предупреждения"
// @Success 200 {object} domain.Warning "Обновленное предупреждение"
// @Failure 401 {object} errorResponseBody "Не авторизован"
// @Failure 404 {object} errorResponseBody "Предупреждение не найдено"
// @Security ApiKeyAuth
// @Router /warnings/{id}/corroborate [post]
func (h *Handler) corroborateWarning(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		unauthorizedResponse(c)
		return
	}

	id := c.Param("id")

	warning, err := h.services.Warning.Corroborate(c.Request.Context(), id, userID)
	if err != nil {
		h.logger.Error("ошибка при подтверждении предупреждения", zap.Error(err), zap.String("id", id))
		notFoundResponse(c, "предупреждение не найдено")
		return
	}

	successResponse(c, http.StatusOK, warning)
}
