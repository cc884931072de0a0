package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/yungbote/stylecast-backend/internal/response"
	"github.com/yungbote/stylecast-backend/internal/services"
	"github.com/yungbote/stylecast-backend/internal/types"
)

type HistoryHandler struct {
	historyService services.MatchHistoryService
}

func NewHistoryHandler(historyService services.MatchHistoryService) *HistoryHandler {
	return &HistoryHandler{historyService: historyService}
}

func (hh *HistoryHandler) List(c *gin.Context) {
	memberID, ok := pathID(c, "memberId")
	if !ok {
		return
	}
	limit, err := strconv.Atoi(c.DefaultQuery("limit", "20"))
	if err != nil {
		limit = 20
	}
	var records []*types.MatchRecord
	var svcErr error
	if c.Query("sort") == "performance" {
		records, svcErr = hh.historyService.ListTopPerforming(c.Request.Context(), memberID, limit)
	} else {
		records, svcErr = hh.historyService.ListRecent(c.Request.Context(), memberID, limit)
	}
	if svcErr != nil {
		response.RespondError(c, svcErr)
		return
	}
	response.RespondOK(c, gin.H{"items": records})
}

func (hh *HistoryHandler) Create(c *gin.Context) {
	memberID, ok := pathID(c, "memberId")
	if !ok {
		return
	}
	var input services.CreateRecordInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}
	record, err := hh.historyService.CreateRecord(c.Request.Context(), memberID, input)
	if err != nil {
		response.RespondError(c, err)
		return
	}
	response.RespondCreated(c, record)
}

func (hh *HistoryHandler) UpdateStatus(c *gin.Context) {
	memberID, ok := pathID(c, "memberId")
	if !ok {
		return
	}
	recordID, ok := pathID(c, "recordId")
	if !ok {
		return
	}
	var input services.UpdateRecordStatusInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}
	record, err := hh.historyService.UpdateStatus(c.Request.Context(), memberID, recordID, input)
	if err != nil {
		response.RespondError(c, err)
		return
	}
	response.RespondOK(c, record)
}
