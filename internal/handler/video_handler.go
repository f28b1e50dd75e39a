package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/mkkmani/musicbackend/internal/model"
	"github.com/mkkmani/musicbackend/internal/response"
	"github.com/mkkmani/musicbackend/internal/service"
	"github.com/mkkmani/musicbackend/internal/validator"
	"github.com/rs/zerolog"
)

// VideoHandler handles video endpoints.
type VideoHandler struct {
	videoService *service.VideoService
	log          zerolog.Logger
}

// NewVideoHandler creates a new VideoHandler.
func NewVideoHandler(videoService *service.VideoService, log zerolog.Logger) *VideoHandler {
	return &VideoHandler{
		videoService: videoService,
		log:          log.With().Str("component", "video_handler").Logger(),
	}
}

// AddVideo godoc
// POST /addVideo
func (h *VideoHandler) AddVideo(c *gin.Context) {
	var req model.AddVideoRequest
	if fields := validator.Bind(c, &req); fields != nil {
		failBinding(c, fields)
		return
	}

	video, err := h.videoService.Add(c.Request.Context(), req.VideoTitle, req.VideoLink)
	if err != nil {
		failInternal(c, h.log, err, "Add video failed")
		return
	}

	response.Success(c, http.StatusOK, gin.H{"video": video})
}

// AllVideos godoc
// GET /allVideos
func (h *VideoHandler) AllVideos(c *gin.Context) {
	videos, err := h.videoService.List(c.Request.Context())
	if err != nil {
		failInternal(c, h.log, err, "List videos failed")
		return
	}
	if videos == nil {
		videos = []model.Video{}
	}

	response.SuccessWithETag(c, http.StatusOK, gin.H{"videos": videos})
}

// Search godoc
// GET /search?videoTitle=...
// Case-sensitive substring match on the title.
func (h *VideoHandler) Search(c *gin.Context) {
	title := c.Query("videoTitle")
	if title == "" {
		response.FailWithFields(c, http.StatusBadRequest, response.ErrMissingQuery,
			map[string]string{"videoTitle": "videoTitle is required"})
		return
	}

	videos, err := h.videoService.Search(c.Request.Context(), title)
	if err != nil {
		failInternal(c, h.log, err, "Search videos failed")
		return
	}
	if videos == nil {
		videos = []model.Video{}
	}

	response.SuccessWithETag(c, http.StatusOK, gin.H{"video_details": videos})
}
