package rest

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"zuhre/internal/domain"
)

// @Summary Создать бронирование
// @Description Создает бронирование услуги у исполнителя
// @Tags Бронирования
// @Accept json
// @Produce json
// @Param input body domain.CreateBookingDTO true "Данные бронирования"
// @Success 201 {object} map[string]interface{} "ID созданного бронирования"
// @Failure 400 {object} errorResponseBody "Ошибка валидации"
// @Failure 401 {object} errorResponseBody "Не авторизован"
// @Security ApiKeyAuth
// @Router /bookings [post]
func (h *Handler) createBooking(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		unauthorizedResponse(c)
		return
	}

	var input domain.CreateBookingDTO
	if err := c.ShouldBindJSON(&input); err != nil {
		h.logger.Warn("неверный формат данных", zap.Error(err))
		badRequestResponse(c, "неверный формат данных")
		return
	}

	id, err := h.services.Booking.Create(c.Request.Context(), userID, input)
	if err != nil {
		h.logger.Error("ошибка при создании бронирования", zap.Error(err))
		errorResponse(c, http.StatusBadRequest, err.Error())
		return
	}

	createdResponse(c, map[string]interface{}{
		"id": id,
	})
}

// @Summary Получить бронирование по ID
// @Tags Бронирования
// @Produce json
// @Param id path int true "ID бронирования"
// @Success 200 {object} domain.Booking "Данные бронирования"
// @Failure 404 {object} errorResponseBody "Бронирование не найдено"
// @Security ApiKeyAuth
// @Router /bookings/{id} [get]
func (h *Handler) getBookingByID(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		badRequestResponse(c, "неверный формат ID")
		return
	}

	booking, err := h.services.Booking.GetByID(c.Request.Context(), id)
	if err != nil {
		h.logger.Error("ошибка получения бронирования", zap.Error(err), zap.Int64("id", id))
		notFoundResponse(c, "бронирование не найдено")
		return
	}

	successResponse(c, http.StatusOK, booking)
}

// @Summary Список бронирований
// @Description Возвращает бронирования текущего пользователя с фильтрацией по статусу
// @Tags Бронирования
// @Produce json
// @Param status query string false "Статус бронирования"
// @Param limit query int false "Лимит"
// @Param offset query int false "Смещение"
// @Success 200 {object} paginatedResponse "Список бронирований"
// @Failure 401 {object} errorResponseBody "Не авторизован"
// @Security ApiKeyAuth
// @Router /bookings [get]
func (h *Handler) getBookings(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		unauthorizedResponse(c)
		return
	}

	userRole, err := getUserRole(c)
	if err != nil {
		unauthorizedResponse(c)
		return
	}

	limit, err := strconv.Atoi(c.DefaultQuery("limit", "20"))
	if err != nil || limit <= 0 {
		limit = 20
	}
	offset, err := strconv.Atoi(c.DefaultQuery("offset", "0"))
	if err != nil || offset < 0 {
		offset = 0
	}

	filter := domain.BookingFilter{
		Limit:  limit,
		Offset: offset,
	}

	switch userRole {
	case domain.UserRoleProvider:
		filter.ProviderID = &userID
	default:
		filter.ClientID = &userID
	}

	statusStr := c.DefaultQuery("status", "")
	if statusStr != "" {
		status := domain.BookingStatus(statusStr)
		filter.Status = &status
	}

	bookings, total, err := h.services.Booking.List(c.Request.Context(), filter)
	if err != nil {
		h.logger.Error("ошибка получения бронирований", zap.Error(err))
		internalServerErrorResponse(c)
		return
	}

	page := offset/limit + 1

	paginatedSuccessResponse(c, bookings, total, page, limit)
}

// @Summary Завершить бронирование
// @Description Помечает бронирование завершенным, после чего по нему можно оставить отзыв
// @Tags Бронирования
// @Produce json
// @Param id path int true "ID бронирования"
// @Success 200 {object} messageResponseType "Бронирование завершено"
// @Failure 403 {object} errorResponseBody "Доступ запрещен"
// @Failure 404 {object} errorResponseBody "Бронирование не найдено"
// @Security ApiKeyAuth
// @Router /bookings/{id}/complete [post]
func (h *Handler) completeBooking(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		unauthorizedResponse(c)
		return
	}

	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		badRequestResponse(c, "неверный формат ID")
		return
	}

	if err := h.services.Booking.Complete(c.Request.Context(), userID, id); err != nil {
		h.logger.Error("ошибка при завершении бронирования", zap.Error(err), zap.Int64("id", id))
		errorResponse(c, http.StatusBadRequest, err.Error())
		return
	}

	messageResponse(c, http.StatusOK, "бронирование завершено")
}

// @Summary Отменить бронирование
// @Tags Бронирования
// @Produce json
// @Param id path int true "ID бронирования"
// @Success 200 {object} messageResponseType "Бронирование отменено"
// @Failure 403 {object} errorResponseBody "Доступ запрещен"
// @Failure 404 {object} errorResponseBody "Бронирование не найдено"
// @Security ApiKeyAuth
// @Router /bookings/{id}/cancel [post]
func (h *Handler) cancelBooking(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		unauthorizedResponse(c)
		return
	}

	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		badRequestResponse(c, "неверный формат ID")
		return
	}

	if err := h.services.Booking.Cancel(c.Request.Context(), userID, id); err != nil {
		h.logger.Error("ошибка при отмене бронирования", zap.Error(err), zap.Int64("id", id))
		errorResponse(c, http.StatusBadRequest, err.Error())
		return
	}

	messageResponse(c, http.StatusOK, "бронирование отменено")
}
