package rest

import (
	"errors"
	"io"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"zuhre/internal/domain"
)

// @Summary Получить отзыв по ID
// @Description Возвращает информацию об отзыве по указанному ID
// @Tags Отзывы
// @Produce json
// @Param id path string true "ID отзыва"
// @Success 200 {object} domain.Review "Данные отзыва"
// @Failure 404 {object} errorResponseBody "Отзыв не найден"
// @Router /reviews/{id} [get]
func (h *Handler) getReviewByID(c *gin.Context) {
	id := c.Param("id")

	review, err := h.services.Review.GetByID(c.Request.Context(), id)
	if err != nil {
		h.logger.Error("ошибка получения отзыва", zap.Error(err), zap.String("id", id))
		notFoundResponse(c, "отзыв не найден")
		return
	}

	successResponse(c, http.StatusOK, review)
}

// @Summary Список отзывов о субъекте
// @Description Возвращает страницу отзывов о субъекте с фильтрацией и сортировкой
// @Tags Отзывы
// @Produce json
// @Param subject_id query int true "ID субъекта"
// @Param direction query string true "Направление оценки (provider_rated или customer_rated)"
// @Param min_rating query number false "Минимальный рейтинг"
// @Param verified_only query bool false "Только отзывы по подтвержденным бронированиям"
// @Param sort query string false "Сортировка: newest, oldest, highest, lowest, helpful"
// @Param limit query int false "Лимит"
// @Param offset query int false "Смещение"
// @Success 200 {object} domain.PagedResult "Страница отзывов"
// @Failure 400 {object} errorResponseBody "Неверные параметры запроса"
// @Failure 500 {object} errorResponseBody "Внутренняя ошибка сервера"
// @Router /reviews [get]
func (h *Handler) getReviews(c *gin.Context) {
	subjectID, err := strconv.ParseInt(c.Query("subject_id"), 10, 64)
	if err != nil {
		badRequestResponse(c, "неверный формат subject_id")
		return
	}

	direction := domain.Direction(c.Query("direction"))
	if !direction.Valid() {
		badRequestResponse(c, "неверное направление оценки")
		return
	}

	var filter domain.ReviewFilter
	if minRatingStr := c.Query("min_rating"); minRatingStr != "" {
		minRating, err := strconv.ParseFloat(minRatingStr, 64)
		if err != nil {
			badRequestResponse(c, "неверный формат min_rating")
			return
		}
		filter.MinRating = &minRating
	}
	filter.VerifiedOnly = c.Query("verified_only") == "true"

	sortKey := domain.ReviewSort(c.DefaultQuery("sort", string(domain.ReviewSortNewest)))
	if !sortKey.Valid() {
		badRequestResponse(c, "неверный ключ сортировки")
		return
	}

	limit, err := strconv.Atoi(c.DefaultQuery("limit", "10"))
	if err != nil || limit < 0 {
		limit = 10
	}
	offset, err := strconv.Atoi(c.DefaultQuery("offset", "0"))
	if err != nil || offset < 0 {
		offset = 0
	}

	page := domain.Page{Limit: limit, Offset: offset}

	result, err := h.services.Review.QueryBySubject(c.Request.Context(), subjectID, direction, filter, sortKey, page)
	if err != nil {
		h.logger.Error("ошибка получения отзывов", zap.Error(err), zap.Int64("subjectID", subjectID))
		internalServerErrorResponse(c)
		return
	}

	successResponse(c, http.StatusOK, result)
}

// @Summary Создать отзыв
// @Description Принимает отзыв по завершенному бронированию, пересчитывает репутацию субъекта
// @Tags Отзывы
// @Accept json
// @Produce json
// @Param input body domain.CreateReviewDTO true "Данные отзыва с оценками по критериям"
// @Success 201 {object} domain.Review "Принятый отзыв"
// @Failure 400 {object} validationErrorBody "Ошибка валидации"
// @Failure 401 {object} errorResponseBody "Не авторизован"
// @Failure 409 {object} validationErrorBody "Отзыв по этому бронированию уже оставлен"
// @Failure 500 {object} errorResponseBody "Внутренняя ошибка сервера"
// @Security ApiKeyAuth
// @Router /reviews [post]
func (h *Handler) createReview(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		unauthorizedResponse(c)
		return
	}

	var input domain.CreateReviewDTO
	if err := c.ShouldBindJSON(&input); err != nil {
		h.logger.Warn("неверный формат данных", zap.Error(err))
		badRequestResponse(c, "неверный формат данных")
		return
	}

	review, err := h.services.Review.Submit(c.Request.Context(), userID, input)
	if err != nil {
		var verr *domain.ValidationError
		if errors.As(err, &verr) {
			h.logger.Warn("отзыв отклонен валидатором",
				zap.String("kind", string(verr.Kind)),
				zap.String("field", verr.Field),
				zap.Int64("authorID", userID))
			validationErrorResponse(c, verr)
			return
		}

		h.logger.Error("ошибка при создании отзыва", zap.Error(err))
		internalServerErrorResponse(c)
		return
	}

	createdResponse(c, review)
}

// @Summary Отметить отзыв полезным
// @Tags Отзывы
// @Produce json
// @Param id path string true "ID отзыва"
// @Success 200 {object} map[string]interface{} "Новый счетчик полезности"
// @Failure 404 {object} errorResponseBody "Отзыв не найден"
// @Router /reviews/{id}/helpful [post]
func (h *Handler) markReviewHelpful(c *gin.Context) {
	id := c.Param("id")

	count, err := h.services.Review.MarkHelpful(c.Request.Context(), id)
	if err != nil {
		h.logger.Error("ошибка при отметке отзыва", zap.Error(err), zap.String("id", id))
		notFoundResponse(c, "отзыв не найден")
		return
	}

	successResponse(c, http.StatusOK, map[string]interface{}{
		"helpful_count": count,
	})
}

// @Summary Загрузить вложение к отзыву
// @Description Загружает фото или видео, возвращает ссылку для поля attachments
// @Tags Отзывы
// @Accept multipart/form-data
// @Produce json
// @Param file formData file true "Файл вложения"
// @Success 201 {object} map[string]interface{} "Ссылка на загруженный файл"
// @Failure 400 {object} errorResponseBody "Неверный файл"
// @Failure 401 {object} errorResponseBody "Не авторизован"
// @Security ApiKeyAuth
// @Router /reviews/attachments [post]
func (h *Handler) uploadReviewAttachment(c *gin.Context) {
	if _, err := getUserID(c); err != nil {
		unauthorizedResponse(c)
		return
	}

	fileHeader, err := c.FormFile("file")
	if err != nil {
		badRequestResponse(c, "файл не передан")
		return
	}

	file, err := fileHeader.Open()
	if err != nil {
		h.logger.Error("ошибка открытия файла", zap.Error(err))
		badRequestResponse(c, "не удалось прочитать файл")
		return
	}
	defer file.Close()

	data, err := io.ReadAll(file)
	if err != nil {
		h.logger.Error("ошибка чтения файла", zap.Error(err))
		badRequestResponse(c, "не удалось прочитать файл")
		return
	}

	url, err := h.services.Review.UploadAttachment(c.Request.Context(), data, fileHeader.Filename)
	if err != nil {
		h.logger.Error("ошибка загрузки вложения", zap.Error(err))
		errorResponse(c, http.StatusBadRequest, err.Error())
		return
	}

	createdResponse(c, map[string]interface{}{
		"url": url,
	})
}
