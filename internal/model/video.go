package model

import "time"

// Video is an instructional video entry.
type Video struct {
	ID        int       `json:"id"`
	Title     string    `json:"videoTitle"`
	Link      string    `json:"videoLink"`
	CreatedAt time.Time `json:"created_at"`
}

// AddVideoRequest is the payload for creating a video.
type AddVideoRequest struct {
	VideoTitle string `json:"videoTitle" binding:"required,max=255"`
	VideoLink  string `json:"videoLink" binding:"required,max=2048"`
}
