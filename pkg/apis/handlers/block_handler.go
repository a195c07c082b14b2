package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/flexipanel/blocks/pkg/apis/blocks/v1alpha1"
	"github.com/flexipanel/blocks/pkg/controllers"
	"github.com/flexipanel/blocks/pkg/errors"
	"github.com/flexipanel/blocks/pkg/render"
)

type BlockHandler struct {
	controller controllers.BlockController
	renderer   *render.Renderer
}

func NewBlockHandler(controller controllers.BlockController, renderer *render.Renderer) *BlockHandler {
	return &BlockHandler{
		controller: controller,
		renderer:   renderer,
	}
}

type createBlockRequest struct {
	BlockType string `json:"blockType" binding:"required"`
}

func (h *BlockHandler) CreateBlock(c *gin.Context) {
	var req createBlockRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.Error(errors.ErrInvalidInput.WithReason(err.Error()))
		return
	}

	block, err := h.controller.CreateBlock(c.Request.Context(), c.Param("ownerType"), c.Param("ownerId"), req.BlockType)
	if err != nil {
		c.Error(err)
		return
	}
	c.JSON(http.StatusCreated, block)
}

func (h *BlockHandler) GetBlock(c *gin.Context) {
	block, err := h.controller.GetBlock(c.Request.Context(), c.Param("uuid"))
	if err != nil {
		c.Error(err)
		return
	}
	c.JSON(http.StatusOK, block)
}

func (h *BlockHandler) ListBlocks(c *gin.Context) {
	list, err := h.controller.ListBlocks(c.Request.Context(), c.Param("ownerType"), c.Param("ownerId"))
	if err != nil {
		c.Error(err)
		return
	}
	c.JSON(http.StatusOK, list)
}

type saveBlockRequest struct {
	Data v1alpha1.DataMap `json:"data" binding:"required"`
}

func (h *BlockHandler) SaveBlock(c *gin.Context) {
	var req saveBlockRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.Error(errors.ErrInvalidInput.WithReason(err.Error()))
		return
	}

	if err := h.controller.SaveBlockData(c.Request.Context(), c.Param("uuid"), req.Data); err != nil {
		c.Error(err)
		return
	}
	c.Status(http.StatusOK)
}

type reorderRequest struct {
	UUIDs []string `json:"uuids" binding:"required"`
}

func (h *BlockHandler) ReorderBlocks(c *gin.Context) {
	var req reorderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.Error(errors.ErrInvalidInput.WithReason(err.Error()))
		return
	}

	if err := h.controller.Reorder(c.Request.Context(), c.Param("ownerType"), c.Param("ownerId"), req.UUIDs); err != nil {
		c.Error(err)
		return
	}
	c.Status(http.StatusOK)
}

type publishRequest struct {
	Published *bool `json:"published" binding:"required"`
}

func (h *BlockHandler) SetPublished(c *gin.Context) {
	var req publishRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.Error(errors.ErrInvalidInput.WithReason(err.Error()))
		return
	}

	if err := h.controller.SetPublished(c.Request.Context(), c.Param("uuid"), *req.Published); err != nil {
		c.Error(err)
		return
	}
	c.Status(http.StatusOK)
}

func (h *BlockHandler) DeleteBlock(c *gin.Context) {
	if err := h.controller.DeleteBlock(c.Request.Context(), c.Param("uuid")); err != nil {
		c.Error(err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *BlockHandler) DeleteOwnerBlocks(c *gin.Context) {
	if err := h.controller.DeleteOwnerBlocks(c.Request.Context(), c.Param("ownerType"), c.Param("ownerId")); err != nil {
		c.Error(err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *BlockHandler) ListBlockTypes(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"items": h.controller.ListBlockTypes()})
}

func (h *BlockHandler) GetSchema(c *gin.Context) {
	fields, err := h.controller.GetSchema(c.Param("name"))
	if err != nil {
		c.Error(err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"fields": fields})
}

// RenderOwner returns the concatenated public markup of an owner's
// published blocks. Unlike the editing endpoints it serves HTML, not JSON.
func (h *BlockHandler) RenderOwner(c *gin.Context) {
	markup, err := h.renderer.Render(c.Request.Context(), c.Param("ownerType"), c.Param("ownerId"), c.Query("locale"))
	if err != nil {
		c.Error(err)
		return
	}
	c.Data(http.StatusOK, "text/html; charset=utf-8", []byte(markup))
}
