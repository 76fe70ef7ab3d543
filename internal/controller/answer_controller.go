package controller

import (
	"encoding/json"
	"strconv"

	"qa_automation_backend/internal/service"
	"qa_automation_backend/internal/util"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

type AnswerController struct {
	AnswerService    *service.AnswerService
	DefaultThreshold float64
}

func NewAnswerController(answerService *service.AnswerService, defaultThreshold float64) *AnswerController {
	return &AnswerController{AnswerService: answerService, DefaultThreshold: defaultThreshold}
}

// @Summary 应答记录列表
// @Description 分页浏览提问与 AI/人工答案，支持检索和自动化状态过滤
// @Tags 应答
// @Produce json
// @Param page query int false "页码" default(1)
// @Param limit query int false "每页条数" default(10)
// @Param search query string false "提问内容关键字"
// @Param filter query string false "all/automated/manual" default(all)
// @Success 200 {object} util.Response
// @Failure 500 {object} util.ErrorBody
// @Router /api/responses [get]
func (c *AnswerController) ListResponses(ctx *gin.Context) {
	page, _ := strconv.Atoi(ctx.DefaultQuery("page", "1"))
	limit, _ := strconv.Atoi(ctx.DefaultQuery("limit", "10"))
	search := ctx.Query("search")
	filter := ctx.DefaultQuery("filter", "all")

	result, err := c.AnswerService.ListResponses(page, limit, search, filter, c.DefaultThreshold)
	if err != nil {
		util.InternalServerError(ctx, "failed to fetch responses", err)
		return
	}

	util.Success(ctx, result)
}

// @Summary 应答记录详情
// @Tags 应答
// @Produce json
// @Param id path string true "记录ID"
// @Success 200 {object} util.Response
// @Failure 404 {object} util.ErrorBody
// @Router /api/responses/{id} [get]
func (c *AnswerController) GetResponse(ctx *gin.Context) {
	record, err := c.AnswerService.GetResponse(ctx.Param("id"), c.DefaultThreshold)
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			util.NotFound(ctx)
			return
		}
		util.InternalServerError(ctx, "failed to fetch response", err)
		return
	}

	util.Success(ctx, record)
}

// @Summary 批量导入应答文档
// @Description 接收原始导出格式的应答文档数组，时间字段兼容裸字符串与 $date 包装两种编码；
// @Description 无法解码或归一化的文档被跳过并在结果中报告，不中断整批
// @Tags 应答
// @Accept json
// @Produce json
// @Success 200 {object} util.Response
// @Failure 400 {object} util.ErrorBody
// @Router /api/answers [post]
func (c *AnswerController) IngestAnswers(ctx *gin.Context) {
	// 先按原始消息切分数组，单条文档的解码失败在服务层按跳过处理
	var docs []json.RawMessage
	if err := ctx.ShouldBindJSON(&docs); err != nil {
		util.BadRequest(ctx, "invalid request body", err)
		return
	}

	result, err := c.AnswerService.Ingest(docs)
	if err != nil {
		util.InternalServerError(ctx, "failed to ingest answers", err)
		return
	}

	util.Success(ctx, result)
}

// @Summary 简要统计
// @Description 提问总数、最近24小时新增、同时具有 AI 与人工答案的提问数
// @Tags 统计
// @Produce json
// @Success 200 {object} util.Response
// @Failure 500 {object} util.ErrorBody
// @Router /api/stats/summary [get]
func (c *AnswerController) GetSummary(ctx *gin.Context) {
	summary, err := c.AnswerService.Summary()
	if err != nil {
		util.InternalServerError(ctx, "failed to fetch statistics", err)
		return
	}

	util.Success(ctx, summary)
}
