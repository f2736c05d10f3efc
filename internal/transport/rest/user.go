package rest

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// @Summary Получить текущего пользователя
// @Description Возвращает данные авторизованного пользователя
// @Tags Пользователи
// @Produce json
// @Success 200 {object} domain.User "Данные пользователя"
// @Failure 401 {object} errorResponseBody "Не авторизован"
// @Failure 404 {object} errorResponseBody "Пользователь не найден"
// @Security ApiKeyAuth
// @Router /users/me [get]
func (h *Handler) getCurrentUser(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		unauthorizedResponse(c)
		return
	}

	user, err := h.services.User.GetByID(c.Request.Context(), userID)
	if err != nil {
		h.logger.Error("ошибка получения пользователя", zap.Error(err), zap.Int64("id", userID))
		notFoundResponse(c, "пользователь не найден")
		return
	}

	successResponse(c, http.StatusOK, user)
}

// @Summary Получить пользователя по ID
// @Description Возвращает публичные данные пользователя
// @Tags Пользователи
// @Produce json
// @Param id path int true "ID пользователя"
// @Success 200 {object} domain.User "Данные пользователя"
// @Failure 400 {object} errorResponseBody "Неверный формат ID"
// @Failure 404 {object} errorResponseBody "Пользователь не найден"
// @Security ApiKeyAuth
// @Router /users/{id} [get]
func (h *Handler) getUserByID(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		badRequestResponse(c, "неверный формат ID")
		return
	}

	user, err := h.services.User.GetByID(c.Request.Context(), id)
	if err != nil {
		h.logger.Error("ошибка получения пользователя", zap.Error(err), zap.Int64("id", id))
		notFoundResponse(c, "пользователь не найден")
		return
	}

	successResponse(c, http.StatusOK, user)
}

// @Summary Список пользователей
// @Description Возвращает список пользователей, доступно только администратору
// @Tags Пользователи
// @Produce json
// @Param limit query int false "Лимит"
// @Param offset query int false "Смещение"
// @Success 200 {array} domain.User "Список пользователей"
// @Failure 403 {object} errorResponseBody "Доступ запрещен"
// @Failure 500 {object} errorResponseBody "Внутренняя ошибка сервера"
// @Security ApiKeyAuth
// @Router /users [get]
func (h *Handler) getUsers(c *gin.Context) {
	limit, err := strconv.Atoi(c.DefaultQuery("limit", "20"))
	if err != nil || limit <= 0 {
		limit = 20
	}
	offset, err := strconv.Atoi(c.DefaultQuery("offset", "0"))
	if err != nil || offset < 0 {
		offset = 0
	}

	users, err := h.services.User.List(c.Request.Context(), limit, offset)
	if err != nil {
		h.logger.Error("ошибка получения списка пользователей", zap.Error(err))
		internalServerErrorResponse(c)
		return
	}

	successResponse(c, http.StatusOK, users)
}
