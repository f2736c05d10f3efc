package rest

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"zuhre/internal/domain"
	"zuhre/internal/rating"
)

// @Summary Сводка репутации субъекта
// @Description Возвращает агрегированную статистику, число предупреждений и уровень доверия
// @Tags Репутация
// @Produce json
// @Param subjectId path int true "ID субъекта"
// @Param direction query string true "Направление оценки (provider_rated или customer_rated)"
// @Success 200 {object} domain.ReputationSummary "Сводка репутации"
// @Failure 400 {object} errorResponseBody "Неверные параметры запроса"
// @Failure 500 {object} errorResponseBody "Внутренняя ошибка сервера"
// @Router /reputation/{subjectId} [get]
func (h *Handler) getReputationSummary(c *gin.Context) {
	subjectID, err := strconv.ParseInt(c.Param("subjectId"), 10, 64)
	if err != nil {
		badRequestResponse(c, "неверный формат ID субъекта")
		return
	}

	direction := domain.Direction(c.Query("direction"))
	if !direction.Valid() {
		badRequestResponse(c, "неверное направление оценки")
		return
	}

	summary, err := h.services.Reputation.Summary(c.Request.Context(), subjectID, direction)
	if err != nil {
		h.logger.Error("ошибка получения репутации", zap.Error(err), zap.Int64("subjectID", subjectID))
		internalServerErrorResponse(c)
		return
	}

	successResponse(c, http.StatusOK, summary)
}

// @Summary Проверка согласованности репутации
// @Description Пересчитывает статистику по полной истории отзывов и сверяет с сохраненной
// @Tags Репутация
// @Produce json
// @Param subjectId path int true "ID субъекта"
// @Param direction query string true "Направление оценки"
// @Success 200 {object} map[string]interface{} "Результат сверки"
// @Failure 403 {object} errorResponseBody "Доступ запрещен"
// @Failure 500 {object} errorResponseBody "Внутренняя ошибка сервера"
// @Security ApiKeyAuth
// @Router /reputation/{subjectId}/consistency [get]
func (h *Handler) checkReputationConsistency(c *gin.Context) {
	subjectID, err := strconv.ParseInt(c.Param("subjectId"), 10, 64)
	if err != nil {
		badRequestResponse(c, "неверный формат ID субъекта")
		return
	}

	direction := domain.Direction(c.Query("direction"))
	if !direction.Valid() {
		badRequestResponse(c, "неверное направление оценки")
		return
	}

	consistent, stored, recomputed, err := h.services.Reputation.CheckConsistency(c.Request.Context(), subjectID, direction)
	if err != nil {
		h.logger.Error("ошибка проверки согласованности", zap.Error(err), zap.Int64("subjectID", subjectID))
		internalServerErrorResponse(c)
		return
	}

	successResponse(c, http.StatusOK, map[string]interface{}{
		"consistent": consistent,
		"stored":     stored,
		"recomputed": recomputed,
	})
}

// @Summary Критерии оценки
// @Description Возвращает набор взвешенных критериев для направления оценки
// @Tags Репутация
// @Produce json
// @Param direction query string true "Направление оценки"
// @Success 200 {array} domain.RatingCriterion "Критерии"
// @Failure 400 {object} errorResponseBody "Неверные параметры запроса"
// @Router /criteria [get]
func (h *Handler) getCriteria(c *gin.Context) {
	direction := domain.Direction(c.Query("direction"))

	registry, err := rating.RegistryFor(direction)
	if err != nil {
		badRequestResponse(c, "неверное направление оценки")
		return
	}

	successResponse(c, http.StatusOK, registry.Criteria())
}
