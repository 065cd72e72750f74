package handlers

import (
	"strconv"

	"srs-backend/helper"
	"srs-backend/models"
	"srs-backend/services"

	"github.com/gin-gonic/gin"
)

type QueryHandler struct {
	queryService services.QueryService
	httpHelper   *helper.HTTPHelper
}

func NewQueryHandler(queryService services.QueryService, httpHelper *helper.HTTPHelper) *QueryHandler {
	return &QueryHandler{queryService: queryService, httpHelper: httpHelper}
}

func (h *QueryHandler) CreateQuery(c *gin.Context) {
	userID := c.GetUint("user_id")
	role := models.UserRole(c.GetString("role"))

	var req models.CreateQueryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.httpHelper.SendBadRequest(c, err.Error())
		return
	}

	result, err := h.queryService.Create(req, userID, role)
	if err != nil {
		h.httpHelper.SendError(c, err)
		return
	}

	if result.KnowledgeBaseEntry != nil {
		h.httpHelper.SendCreated(c, "Knowledge base entry created", result.KnowledgeBaseEntry)
		return
	}

	h.httpHelper.SendCreated(c, "Query submitted successfully", result.Query)
}

func (h *QueryHandler) GetQueries(c *gin.Context) {
	var params models.QueryListParams
	if err := c.ShouldBindQuery(&params); err != nil {
		h.httpHelper.SendBadRequest(c, err.Error())
		return
	}

	queries, total, err := h.queryService.GetList(params)
	if err != nil {
		h.httpHelper.SendError(c, err)
		return
	}

	h.httpHelper.SendSuccessWithPagination(c, "Queries retrieved", queries, params.Page, params.Limit, total)
}

func (h *QueryHandler) GetQuery(c *gin.Context) {
	id, err := parseIDParam(c)
	if err != nil {
		h.httpHelper.SendBadRequest(c, "Invalid query id")
		return
	}

	query, err := h.queryService.GetByID(id)
	if err != nil {
		h.httpHelper.SendError(c, err)
		return
	}

	h.httpHelper.SendSuccess(c, "Query retrieved", query)
}

func (h *QueryHandler) UpdateQuery(c *gin.Context) {
	userID := c.GetUint("user_id")
	role := models.UserRole(c.GetString("role"))

	id, err := parseIDParam(c)
	if err != nil {
		h.httpHelper.SendBadRequest(c, "Invalid query id")
		return
	}

	var req models.UpdateQueryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.httpHelper.SendBadRequest(c, err.Error())
		return
	}

	query, err := h.queryService.Update(id, req, userID, role)
	if err != nil {
		h.httpHelper.SendError(c, err)
		return
	}

	h.httpHelper.SendSuccess(c, "Query updated", query)
}

func (h *QueryHandler) DeleteQuery(c *gin.Context) {
	userID := c.GetUint("user_id")
	role := models.UserRole(c.GetString("role"))

	id, err := parseIDParam(c)
	if err != nil {
		h.httpHelper.SendBadRequest(c, "Invalid query id")
		return
	}

	if err := h.queryService.Delete(id, userID, role); err != nil {
		h.httpHelper.SendError(c, err)
		return
	}

	h.httpHelper.SendSuccess(c, "Query deleted", h.httpHelper.EmptyJsonMap())
}

func (h *QueryHandler) AddAnswer(c *gin.Context) {
	userID := c.GetUint("user_id")

	id, err := parseIDParam(c)
	if err != nil {
		h.httpHelper.SendBadRequest(c, "Invalid query id")
		return
	}

	var req models.AddAnswerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.httpHelper.SendBadRequest(c, err.Error())
		return
	}

	query, err := h.queryService.AddAnswer(id, req, userID)
	if err != nil {
		h.httpHelper.SendError(c, err)
		return
	}

	h.httpHelper.SendSuccess(c, "Answer added", query)
}

func (h *QueryHandler) ProvideSolution(c *gin.Context) {
	userID := c.GetUint("user_id")

	id, err := parseIDParam(c)
	if err != nil {
		h.httpHelper.SendBadRequest(c, "Invalid query id")
		return
	}

	var req models.ProvideSolutionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.httpHelper.SendBadRequest(c, err.Error())
		return
	}

	query, err := h.queryService.ProvideSolution(id, req, userID)
	if err != nil {
		h.httpHelper.SendError(c, err)
		return
	}

	h.httpHelper.SendSuccess(c, "Solution submitted for review", query)
}

func (h *QueryHandler) ReviewSolution(c *gin.Context) {
	reviewerID := c.GetUint("user_id")

	id, err := parseIDParam(c)
	if err != nil {
		h.httpHelper.SendBadRequest(c, "Invalid query id")
		return
	}

	var req models.ReviewSolutionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.httpHelper.SendBadRequest(c, err.Error())
		return
	}

	result, err := h.queryService.Review(id, req, reviewerID)
	if err != nil {
		h.httpHelper.SendError(c, err)
		return
	}

	if result.KnowledgeBaseEntry != nil {
		h.httpHelper.SendSuccess(c, "Solution approved and published", result)
		return
	}

	h.httpHelper.SendSuccess(c, "Solution rejected", result)
}

func (h *QueryHandler) AddComment(c *gin.Context) {
	userID := c.GetUint("user_id")

	id, err := parseIDParam(c)
	if err != nil {
		h.httpHelper.SendBadRequest(c, "Invalid query id")
		return
	}

	var req models.AddCommentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.httpHelper.SendBadRequest(c, err.Error())
		return
	}

	query, err := h.queryService.AddComment(id, req, userID)
	if err != nil {
		h.httpHelper.SendError(c, err)
		return
	}

	h.httpHelper.SendSuccess(c, "Comment added", query)
}

func (h *QueryHandler) GetStats(c *gin.Context) {
	stats, err := h.queryService.Stats()
	if err != nil {
		h.httpHelper.SendError(c, err)
		return
	}

	h.httpHelper.SendSuccess(c, "Query statistics retrieved", stats)
}

func parseIDParam(c *gin.Context) (uint, error) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		return 0, err
	}
	return uint(id), nil
}
