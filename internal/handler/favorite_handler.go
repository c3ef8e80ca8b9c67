package handler

import (
	"github.com/gin-gonic/gin"

	"github.com/noah-isme/campus-nav-api/internal/models"
	"github.com/noah-isme/campus-nav-api/internal/service"
	"github.com/noah-isme/campus-nav-api/pkg/response"
)

// FavoriteHandler serves user bookmarks.
type FavoriteHandler struct {
	service *service.FavoriteService
}

// NewFavoriteHandler constructs a favorite handler.
func NewFavoriteHandler(svc *service.FavoriteService) *FavoriteHandler {
	return &FavoriteHandler{service: svc}
}

// ListForUser godoc
// @Summary Favorites of a user
// @Tags Favorites
// @Produce json
// @Param userId path int true "User ID"
// @Success 200 {object} response.Envelope
// @Router /users/{userId}/favorites [get]
func (h *FavoriteHandler) ListForUser(c *gin.Context) {
	userID, err := pathID(c, "userId")
	if err != nil {
		response.Error(c, err)
		return
	}
	favorites, err := h.service.ListByUser(c.Request.Context(), userID)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, favorites)
}

// Create godoc
// @Summary Add favorite
// @Tags Favorites
// @Accept json
// @Produce json
// @Param payload body models.CreateFavoriteRequest true "Favorite payload"
// @Success 201 {object} response.Envelope
// @Failure 400 {object} response.Envelope
// @Failure 409 {object} response.Envelope
// @Router /favorites [post]
func (h *FavoriteHandler) Create(c *gin.Context) {
	var req models.CreateFavoriteRequest
	if err := bindJSON(c, &req, "invalid favorite payload"); err != nil {
		response.Error(c, err)
		return
	}
	favorite, err := h.service.Create(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, favorite)
}

// Delete godoc
// @Summary Remove favorite
// @Tags Favorites
// @Param id path int true "Favorite ID"
// @Success 204
// @Failure 404 {object} response.Envelope
// @Router /favorites/{id} [delete]
func (h *FavoriteHandler) Delete(c *gin.Context) {
	id, err := pathID(c, "id")
	if err != nil {
		response.Error(c, err)
		return
	}
	if err := h.service.Delete(c.Request.Context(), id); err != nil {
		response.Error(c, err)
		return
	}
	response.NoContent(c)
}
