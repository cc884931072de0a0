package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/yungbote/stylecast-backend/internal/ai"
	"github.com/yungbote/stylecast-backend/internal/middleware"
	"github.com/yungbote/stylecast-backend/internal/response"
	"github.com/yungbote/stylecast-backend/internal/services"
	"github.com/yungbote/stylecast-backend/internal/sse"
	"github.com/yungbote/stylecast-backend/internal/types"
)

type MatchHandler struct {
	matchTaskService services.MatchTaskService
	previewService   services.PreviewService
	hub              *sse.Hub
}

func NewMatchHandler(matchTaskService services.MatchTaskService, previewService services.PreviewService, hub *sse.Hub) *MatchHandler {
	return &MatchHandler{
		matchTaskService: matchTaskService,
		previewService:   previewService,
		hub:              hub,
	}
}

func (mh *MatchHandler) CreateTask(c *gin.Context) {
	var input services.CreateTaskInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}
	input.Operator = middleware.Operator(c)
	input.Language = ai.ResolveAcceptLanguage(c.GetHeader("Accept-Language"))

	view, err := mh.matchTaskService.CreateTask(c.Request.Context(), input)
	if err != nil {
		response.RespondError(c, err)
		return
	}
	c.JSON(http.StatusAccepted, gin.H{"taskId": view.TaskID, "status": view.Status})
}

func (mh *MatchHandler) GetTask(c *gin.Context) {
	view, err := mh.matchTaskService.GetTask(c.Request.Context(), c.Param("taskId"))
	if err != nil {
		response.RespondError(c, err)
		return
	}
	response.RespondOK(c, view)
}

func (mh *MatchHandler) ListTasks(c *gin.Context) {
	page, size := pagination(c)
	var memberID *int64
	if raw := c.Query("memberId"); raw != "" {
		parsed, err := strconv.ParseInt(raw, 10, 64)
		if err != nil || parsed <= 0 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid memberId"})
			return
		}
		memberID = &parsed
	}
	views, total, err := mh.matchTaskService.ListTasks(c.Request.Context(), memberID, page, size)
	if err != nil {
		response.RespondError(c, err)
		return
	}
	response.RespondOK(c, gin.H{"items": views, "total": total, "page": page, "size": size})
}

func (mh *MatchHandler) GeneratePreview(c *gin.Context) {
	outfitNo, err := strconv.Atoi(c.Param("outfitNo"))
	if err != nil || outfitNo < 1 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid outfitNo"})
		return
	}
	view, svcErr := mh.previewService.GenerateOutfitPreview(c.Request.Context(), c.Param("taskId"), outfitNo)
	if svcErr != nil {
		response.RespondError(c, svcErr)
		return
	}
	response.RespondOK(c, view)
}

// StreamEvents subscribes the caller to a task's event stream. The stream
// closes itself after a terminal event.
func (mh *MatchHandler) StreamEvents(c *gin.Context) {
	taskID := c.Param("taskId")

	// Subscribe before reading task state. A terminal event landing between
	// the read and the subscription would be delivered to nobody and the
	// stream would hang on heartbeats forever.
	sub := mh.hub.Subscribe(taskID)
	defer mh.hub.Unsubscribe(sub)

	view, err := mh.matchTaskService.GetTask(c.Request.Context(), taskID)
	if err != nil {
		response.RespondError(c, err)
		return
	}

	// A task already terminal will publish nothing more; replay its final
	// state so late subscribers are not left hanging. If the live terminal
	// event also arrives, the subscriber sees it at most once more.
	if view.Status.IsTerminal() {
		go mh.replayTerminal(view)
	}

	mh.hub.ServeHTTP(c.Writer, c.Request, sub)
}

func (mh *MatchHandler) replayTerminal(view *services.TaskView) {
	if view.Status == types.TaskStatusFailed {
		mh.hub.Publish(view.TaskID, sse.EventTaskFailed, gin.H{
			"taskId": view.TaskID,
			"status": view.Status,
			"error":  view.ErrorMessage,
		})
		return
	}
	mh.hub.Publish(view.TaskID, sse.EventTaskCompleted, gin.H{
		"taskId":       view.TaskID,
		"status":       view.Status,
		"strategyName": view.StrategyName,
		"outfits":      view.Outfits,
		"result":       view.Result,
	})
}
