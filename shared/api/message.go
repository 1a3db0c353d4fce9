package api

import "github.com/itchan-dev/chanfeed/shared/domain"

// Request DTOs

type CreateMessageRequest struct {
	Message   string  `json:"message" validate:"required"`
	MediaUrl  *string `json:"mediaUrl,omitempty"`
	MediaType *string `json:"mediaType,omitempty"`
}

type LikeRequest struct {
	Like *bool `json:"like" validate:"required"`
}

// Response DTOs

type FeedResponse struct {
	Messages   []domain.MessageView `json:"messages"`
	Pagination Pagination           `json:"pagination"`
}

type LikeResponse struct {
	LikeCount int `json:"likeCount"`
}

type MarkAllReadResponse struct {
	MarkedCount int `json:"markedCount"`
}
