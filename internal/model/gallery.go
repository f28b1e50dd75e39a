package model

import "time"

// GalleryImage is a reference to an uploaded image.
type GalleryImage struct {
	ID        int       `json:"id"`
	ImageURL  string    `json:"imageUrl"`
	CreatedAt time.Time `json:"created_at"`
}

// AddGalleryImageRequest is the payload for adding an image to the gallery.
type AddGalleryImageRequest struct {
	ImageURL string `json:"imageUrl" binding:"required,max=2048"`
}
