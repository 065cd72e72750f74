package handlers

import (
	"strconv"

	"srs-backend/helper"
	"srs-backend/models"
	"srs-backend/services"

	"github.com/gin-gonic/gin"
)

type KnowledgeBaseHandler struct {
	kbService  services.KnowledgeBaseService
	httpHelper *helper.HTTPHelper
}

func NewKnowledgeBaseHandler(kbService services.KnowledgeBaseService, httpHelper *helper.HTTPHelper) *KnowledgeBaseHandler {
	return &KnowledgeBaseHandler{kbService: kbService, httpHelper: httpHelper}
}

func (h *KnowledgeBaseHandler) CreateEntry(c *gin.Context) {
	userID := c.GetUint("user_id")

	var req models.CreateKnowledgeBaseRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.httpHelper.SendBadRequest(c, err.Error())
		return
	}

	entry, err := h.kbService.Create(req, userID)
	if err != nil {
		h.httpHelper.SendError(c, err)
		return
	}

	h.httpHelper.SendCreated(c, "Knowledge base entry created", entry)
}

func (h *KnowledgeBaseHandler) GetEntries(c *gin.Context) {
	var params models.KnowledgeBaseListParams
	if err := c.ShouldBindQuery(&params); err != nil {
		h.httpHelper.SendBadRequest(c, err.Error())
		return
	}

	entries, total, err := h.kbService.GetList(params)
	if err != nil {
		h.httpHelper.SendError(c, err)
		return
	}

	h.httpHelper.SendSuccessWithPagination(c, "Knowledge base entries retrieved", entries, params.Page, params.Limit, total)
}

func (h *KnowledgeBaseHandler) GetEntry(c *gin.Context) {
	id, err := parseIDParam(c)
	if err != nil {
		h.httpHelper.SendBadRequest(c, "Invalid entry id")
		return
	}

	entry, err := h.kbService.GetByID(id)
	if err != nil {
		h.httpHelper.SendError(c, err)
		return
	}

	h.httpHelper.SendSuccess(c, "Knowledge base entry retrieved", entry)
}

func (h *KnowledgeBaseHandler) UpdateEntry(c *gin.Context) {
	userID := c.GetUint("user_id")
	role := models.UserRole(c.GetString("role"))

	id, err := parseIDParam(c)
	if err != nil {
		h.httpHelper.SendBadRequest(c, "Invalid entry id")
		return
	}

	var req models.UpdateKnowledgeBaseRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.httpHelper.SendBadRequest(c, err.Error())
		return
	}

	entry, err := h.kbService.Update(id, req, userID, role)
	if err != nil {
		h.httpHelper.SendError(c, err)
		return
	}

	h.httpHelper.SendSuccess(c, "Knowledge base entry updated", entry)
}

func (h *KnowledgeBaseHandler) DeleteEntry(c *gin.Context) {
	role := models.UserRole(c.GetString("role"))

	id, err := parseIDParam(c)
	if err != nil {
		h.httpHelper.SendBadRequest(c, "Invalid entry id")
		return
	}

	if err := h.kbService.Delete(id, role); err != nil {
		h.httpHelper.SendError(c, err)
		return
	}

	h.httpHelper.SendSuccess(c, "Knowledge base entry deleted", h.httpHelper.EmptyJsonMap())
}

func (h *KnowledgeBaseHandler) Search(c *gin.Context) {
	var params models.KnowledgeBaseSearchParams
	if err := c.ShouldBindQuery(&params); err != nil {
		h.httpHelper.SendBadRequest(c, err.Error())
		return
	}

	result, err := h.kbService.Search(params)
	if err != nil {
		h.httpHelper.SendError(c, err)
		return
	}

	h.httpHelper.SendSuccess(c, "Search completed", result)
}

func (h *KnowledgeBaseHandler) RateEntry(c *gin.Context) {
	userID := c.GetUint("user_id")

	id, err := parseIDParam(c)
	if err != nil {
		h.httpHelper.SendBadRequest(c, "Invalid entry id")
		return
	}

	var req models.RateKnowledgeBaseRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.httpHelper.SendBadRequest(c, err.Error())
		return
	}

	entry, err := h.kbService.Rate(id, req, userID)
	if err != nil {
		h.httpHelper.SendError(c, err)
		return
	}

	h.httpHelper.SendSuccess(c, "Rating recorded", entry)
}

func (h *KnowledgeBaseHandler) MarkHelpful(c *gin.Context) {
	id, err := parseIDParam(c)
	if err != nil {
		h.httpHelper.SendBadRequest(c, "Invalid entry id")
		return
	}

	var req models.MarkHelpfulRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.httpHelper.SendBadRequest(c, err.Error())
		return
	}

	metrics, err := h.kbService.MarkHelpful(id, *req.Helpful)
	if err != nil {
		h.httpHelper.SendError(c, err)
		return
	}

	h.httpHelper.SendSuccess(c, "Feedback recorded", metrics)
}

func (h *KnowledgeBaseHandler) GetFeatured(c *gin.Context) {
	organization := c.Query("organization")
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "5"))

	entries, err := h.kbService.GetFeatured(organization, limit)
	if err != nil {
		h.httpHelper.SendError(c, err)
		return
	}

	h.httpHelper.SendSuccess(c, "Featured entries retrieved", entries)
}

func (h *KnowledgeBaseHandler) GetPopular(c *gin.Context) {
	organization := c.Query("organization")
	days, _ := strconv.Atoi(c.DefaultQuery("days", "30"))
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "10"))

	entries, err := h.kbService.GetPopular(organization, days, limit)
	if err != nil {
		h.httpHelper.SendError(c, err)
		return
	}

	h.httpHelper.SendSuccess(c, "Popular entries retrieved", entries)
}

func (h *KnowledgeBaseHandler) GetStats(c *gin.Context) {
	stats, err := h.kbService.Stats()
	if err != nil {
		h.httpHelper.SendError(c, err)
		return
	}

	h.httpHelper.SendSuccess(c, "Knowledge base statistics retrieved", stats)
}
