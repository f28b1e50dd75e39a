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

// GalleryHandler handles gallery endpoints.
type GalleryHandler struct {
	galleryService *service.GalleryService
	log            zerolog.Logger
}

// NewGalleryHandler creates a new GalleryHandler.
func NewGalleryHandler(galleryService *service.GalleryService, log zerolog.Logger) *GalleryHandler {
	return &GalleryHandler{
		galleryService: galleryService,
		log:            log.With().Str("component", "gallery_handler").Logger(),
	}
}

// AddImage godoc
// POST /add-to-gallery
func (h *GalleryHandler) AddImage(c *gin.Context) {
	var req model.AddGalleryImageRequest
	if fields := validator.Bind(c, &req); fields != nil {
		failBinding(c, fields)
		return
	}

	img, err := h.galleryService.Add(c.Request.Context(), req.ImageURL)
	if err != nil {
		failInternal(c, h.log, err, "Add gallery image failed")
		return
	}

	response.Success(c, http.StatusOK, gin.H{"image": img})
}

// ListImages godoc
// GET /gallery
func (h *GalleryHandler) ListImages(c *gin.Context) {
	images, err := h.galleryService.List(c.Request.Context())
	if err != nil {
		failInternal(c, h.log, err, "List gallery failed")
		return
	}
	if images == nil {
		images = []model.GalleryImage{}
	}

	response.SuccessWithETag(c, http.StatusOK, gin.H{"images": images})
}
