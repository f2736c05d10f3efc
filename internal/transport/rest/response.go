package rest

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"zuhre/internal/domain"
)

type errorResponseBody struct {
	Status  string `json:"status"`
	Message string `json:"message"`
	Code    int    `json:"code,omitempty"`
}

type validationErrorBody struct {
	Status  string                     `json:"status"`
	Kind    domain.ValidationErrorKind `json:"kind"`
	Field   string                     `json:"field,omitempty"`
	Message string                     `json:"message"`
}

type successResponseBody struct {
	Status  string      `json:"status"`
	Message string      `json:"message,omitempty"`
	Data    interface{} `json:"data,omitempty"`
}

type messageResponseType struct {
	Status  string `json:"status"`
	Message string `json:"message"`
}

type paginatedResponse struct {
	Data       interface{} `json:"data"`
	TotalCount int         `json:"total_count"`
	Page       int         `json:"page"`
	PageSize   int         `json:"page_size"`
	TotalPages int         `json:"total_pages"`
}

func successResponse(c *gin.Context, statusCode int, data interface{}) {
	c.JSON(statusCode, successResponseBody{
		Status: "success",
		Data:   data,
	})
}

func errorResponse(c *gin.Context, statusCode int, message string) {
	c.AbortWithStatusJSON(statusCode, errorResponseBody{
		Status:  "error",
		Message: message,
		Code:    statusCode,
	})
}

// validationErrorResponse отдает ошибку валидации отзыва с ее видом и полем,
// чтобы клиент мог показать сообщение рядом с нужным полем формы.
// Повторная подача дает 409, остальные виды 400.
func validationErrorResponse(c *gin.Context, verr *domain.ValidationError) {
	statusCode := http.StatusBadRequest
	if verr.Kind == domain.ErrDuplicateSubmission {
		statusCode = http.StatusConflict
	}

	c.AbortWithStatusJSON(statusCode, validationErrorBody{
		Status:  "error",
		Kind:    verr.Kind,
		Field:   verr.Field,
		Message: verr.Message,
	})
}

func messageResponse(c *gin.Context, statusCode int, message string) {
	c.JSON(statusCode, messageResponseType{
		Status:  "success",
		Message: message,
	})
}

func paginatedSuccessResponse(c *gin.Context, data interface{}, totalCount, page, pageSize int) {
	totalPages := totalCount / pageSize
	if totalCount%pageSize > 0 {
		totalPages++
	}

	c.JSON(http.StatusOK, paginatedResponse{
		Data:       data,
		TotalCount: totalCount,
		Page:       page,
		PageSize:   pageSize,
		TotalPages: totalPages,
	})
}

func createdResponse(c *gin.Context, data interface{}) {
	c.JSON(http.StatusCreated, successResponseBody{
		Status: "success",
		Data:   data,
	})
}

func noContentResponse(c *gin.Context) {
	c.Status(http.StatusNoContent)
}

func badRequestResponse(c *gin.Context, message string) {
	errorResponse(c, http.StatusBadRequest, message)
}

func unauthorizedResponse(c *gin.Context) {
	errorResponse(c, http.StatusUnauthorized, "требуется авторизация")
}

func forbiddenResponse(c *gin.Context, message ...string) {
	msg := "доступ запрещен"
	if len(message) > 0 && message[0] != "" {
		msg = message[0]
	}
	errorResponse(c, http.StatusForbidden, msg)
}

func notFoundResponse(c *gin.Context, message string) {
	errorResponse(c, http.StatusNotFound, message)
}

func internalServerErrorResponse(c *gin.Context) {
	errorResponse(c, http.StatusInternalServerError, "внутренняя ошибка сервера")
}
