package util

import (
	"net/http"
	"time"

	"qa_automation_backend/pkg/logger"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// Response 统一响应结构
type Response struct {
	Code    int         `json:"code"`
	Message string      `json:"message"`
	Data    interface{} `json:"data,omitempty"`
}

// ErrorBody 失败响应结构，与前端约定的 error/details/timestamp 信封
type ErrorBody struct {
	Error     string    `json:"error"`
	Details   string    `json:"details,omitempty"`
	Timestamp time.Time `json:"timestamp"`
}

// PageResponse 分页响应结构
type PageResponse struct {
	List       interface{} `json:"list"`
	Total      int64       `json:"total"`
	Page       int         `json:"page"`
	Limit      int         `json:"limit"`
	TotalPages int         `json:"totalPages"`
}

func Success(c *gin.Context, data interface{}) {
	c.JSON(http.StatusOK, Response{
		Code:    http.StatusOK,
		Message: "success",
		Data:    data,
	})
}

func Fail(c *gin.Context, code int, message string, err error) {
	body := ErrorBody{
		Error:     message,
		Timestamp: time.Now().UTC(),
	}
	if err != nil {
		body.Details = err.Error()
	}
	c.JSON(code, body)
}

func BadRequest(c *gin.Context, message string, err error) {
	Fail(c, http.StatusBadRequest, message, err)
}

func NotFound(c *gin.Context) {
	Fail(c, http.StatusNotFound, "resource not found", nil)
}

func InternalServerError(c *gin.Context, message string, err error) {
	logger.Log.Error(message, zap.Error(err))
	Fail(c, http.StatusInternalServerError, message, err)
}

func ServiceUnavailable(c *gin.Context, message string, err error) {
	Fail(c, http.StatusServiceUnavailable, message, err)
}
