package domain

import (
	"fmt"
	"time"
)

// Message is a single post in the shared channel.
//
// SenderUsername and SenderName are denormalized at post time so that a
// later profile change does not rewrite history. They are never
// re-derived from the users table on read.
type Message struct {
	Id             MsgId     `json:"id"`
	SenderId       UserId    `json:"senderId"`
	SenderUsername Username  `json:"senderUsername"`
	SenderName     string    `json:"senderName"`
	Text           MsgText   `json:"message"`
	MediaUrl       *string   `json:"mediaUrl,omitempty"`
	MediaType      *MediaKind `json:"mediaType,omitempty"`
	LikeCount      int       `json:"likeCount"`
	CreatedAt      time.Time `json:"createdAt"`
	UpdatedAt      time.Time `json:"updatedAt"`
}

// MessageView is a Message plus the fields derived for one viewer.
// ReadCount is only populated when the viewer is the sender; IsRead and
// IsLiked only when they are not. Nothing here is persisted.
type MessageView struct {
	Message
	IsLiked      bool `json:"isLiked"`
	IsRead       bool `json:"isRead"`
	ReadCount    int  `json:"readCount"`
	IsOwnMessage bool `json:"isOwnMessage"`
}

// MessageCreationData carries everything needed to persist a new message.
type MessageCreationData struct {
	SenderId       UserId
	SenderUsername Username
	SenderName     string
	Text           MsgText
	MediaUrl       *string
	MediaType      *MediaKind
}

// for debug
func (m *Message) String() string {
	return fmt.Sprintf("[id:%d, sender:%s(%d), text:%.32q, created:%s, likes:%d]",
		m.Id, m.SenderUsername, m.SenderId, m.Text, m.CreatedAt.Format(time.StampMilli), m.LikeCount)
}
