package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/yungbote/stylecast-backend/internal/response"
	"github.com/yungbote/stylecast-backend/internal/services"
)

type MemberHandler struct {
	memberService services.MemberService
}

func NewMemberHandler(memberService services.MemberService) *MemberHandler {
	return &MemberHandler{memberService: memberService}
}

func (mh *MemberHandler) Create(c *gin.Context) {
	var input services.MemberInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}
	member, err := mh.memberService.Create(c.Request.Context(), input)
	if err != nil {
		response.RespondError(c, err)
		return
	}
	response.RespondCreated(c, member)
}

func (mh *MemberHandler) Get(c *gin.Context) {
	memberID, ok := pathID(c, "memberId")
	if !ok {
		return
	}
	member, err := mh.memberService.Get(c.Request.Context(), memberID)
	if err != nil {
		response.RespondError(c, err)
		return
	}
	response.RespondOK(c, member)
}

func (mh *MemberHandler) List(c *gin.Context) {
	page, size := pagination(c)
	members, total, err := mh.memberService.List(c.Request.Context(), page, size)
	if err != nil {
		response.RespondError(c, err)
		return
	}
	response.RespondOK(c, gin.H{"items": members, "total": total, "page": page, "size": size})
}

func (mh *MemberHandler) Update(c *gin.Context) {
	memberID, ok := pathID(c, "memberId")
	if !ok {
		return
	}
	var input services.MemberInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}
	member, err := mh.memberService.Update(c.Request.Context(), memberID, input)
	if err != nil {
		response.RespondError(c, err)
		return
	}
	response.RespondOK(c, member)
}

func (mh *MemberHandler) Delete(c *gin.Context) {
	memberID, ok := pathID(c, "memberId")
	if !ok {
		return
	}
	if err := mh.memberService.Delete(c.Request.Context(), memberID); err != nil {
		response.RespondError(c, err)
		return
	}
	response.RespondOK(c, gin.H{"deleted": true})
}

func pathID(c *gin.Context, name string) (int64, bool) {
	id, err := strconv.ParseInt(c.Param(name), 10, 64)
	if err != nil || id <= 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid " + name})
		return 0, false
	}
	return id, true
}

func pagination(c *gin.Context) (int, int) {
	page, err := strconv.Atoi(c.DefaultQuery("page", "0"))
	if err != nil || page < 0 {
		page = 0
	}
	size, err := strconv.Atoi(c.DefaultQuery("size", "20"))
	if err != nil || size < 1 || size > 100 {
		size = 20
	}
	return page, size
}
