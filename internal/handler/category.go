package handler

import (
	"github.com/julianLagraba/fin-pro/internal/ledger"
	"github.com/julianLagraba/fin-pro/internal/models"
	"github.com/julianLagraba/fin-pro/internal/util"

	"github.com/gin-gonic/gin"
)

// CategoryHandler 负责类别接口，系统类别与用户类别合并返回
type CategoryHandler struct {
	Svc *ledger.Service
}

func NewCategoryHandler(svc *ledger.Service) *CategoryHandler {
	return &CategoryHandler{Svc: svc}
}

type createCategoryReq struct {
	Name string `json:"name" binding:"required,max=64"`
}

type categoryResp struct {
	ID       uint   `json:"id"`
	Name     string `json:"name"`
	IsSystem bool   `json:"is_system"`
}

func toCategoryResp(cat *models.Category) categoryResp {
	return categoryResp{
		ID:       cat.ID,
		Name:     cat.Name,
		IsSystem: ledger.OwnerOf(cat).IsSystem(),
	}
}

func (h *CategoryHandler) CreateCategory(c *gin.Context) {
	user, ok := currentUser(c)
	if !ok {
		return
	}

	var req createCategoryReq
	if !bindJSON(c, &req) {
		return
	}

	cat, err := h.Svc.CreateCategory(c.Request.Context(), user.ID, req.Name)
	if err != nil {
		respondError(c, err)
		return
	}
	util.Created(c, util.Response{"category": toCategoryResp(cat)})
}

func (h *CategoryHandler) ListCategories(c *gin.Context) {
	user, ok := currentUser(c)
	if !ok {
		return
	}

	cats, err := h.Svc.ListCategories(c.Request.Context(), user.ID)
	if err != nil {
		respondError(c, err)
		return
	}

	list := make([]categoryResp, 0, len(cats))
	for i := range cats {
		list = append(list, toCategoryResp(&cats[i]))
	}
	util.Success(c, util.Response{"categories": list})
}

// DeleteCategory 系统类别返回 403，已被流水引用返回 409
func (h *CategoryHandler) DeleteCategory(c *gin.Context) {
	user, ok := currentUser(c)
	if !ok {
		return
	}
	id, ok := paramID(c, "id")
	if !ok {
		return
	}

	if err := h.Svc.DeleteCategory(c.Request.Context(), user.ID, id); err != nil {
		respondError(c, err)
		return
	}
	util.Success(c, util.Response{"message": "类别已删除"})
}
