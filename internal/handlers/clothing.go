package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/yungbote/stylecast-backend/internal/response"
	"github.com/yungbote/stylecast-backend/internal/services"
)

type ClothingHandler struct {
	clothingService services.ClothingService
}

func NewClothingHandler(clothingService services.ClothingService) *ClothingHandler {
	return &ClothingHandler{clothingService: clothingService}
}

func (ch *ClothingHandler) Create(c *gin.Context) {
	var input services.ClothingInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}
	item, err := ch.clothingService.Create(c.Request.Context(), input)
	if err != nil {
		response.RespondError(c, err)
		return
	}
	response.RespondCreated(c, item)
}

func (ch *ClothingHandler) Get(c *gin.Context) {
	clothingID, ok := pathID(c, "clothingId")
	if !ok {
		return
	}
	item, err := ch.clothingService.Get(c.Request.Context(), clothingID)
	if err != nil {
		response.RespondError(c, err)
		return
	}
	response.RespondOK(c, item)
}

func (ch *ClothingHandler) List(c *gin.Context) {
	page, size := pagination(c)
	items, total, err := ch.clothingService.List(c.Request.Context(), c.Query("status"), page, size)
	if err != nil {
		response.RespondError(c, err)
		return
	}
	response.RespondOK(c, gin.H{"items": items, "total": total, "page": page, "size": size})
}

func (ch *ClothingHandler) Update(c *gin.Context) {
	clothingID, ok := pathID(c, "clothingId")
	if !ok {
		return
	}
	var input services.ClothingInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}
	item, err := ch.clothingService.Update(c.Request.Context(), clothingID, input)
	if err != nil {
		response.RespondError(c, err)
		return
	}
	response.RespondOK(c, item)
}

func (ch *ClothingHandler) Delete(c *gin.Context) {
	clothingID, ok := pathID(c, "clothingId")
	if !ok {
		return
	}
	if err := ch.clothingService.Delete(c.Request.Context(), clothingID); err != nil {
		response.RespondError(c, err)
		return
	}
	response.RespondOK(c, gin.H{"deleted": true})
}
