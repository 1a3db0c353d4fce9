package domain

import "time"

// ReadReceipt records that a reader has consumed a message.
// At most one receipt exists per (reader, message) pair; the pair is
// unique in storage and re-recording collapses silently.
type ReadReceipt struct {
	Id        int64     `json:"id"`
	ReaderId  UserId    `json:"readerId"`
	MessageId MsgId     `json:"messageId"`
	ReadAt    time.Time `json:"readAt"`
}

// RosterEntry annotates another user with feed summary data for the
// roster view. LatestMessage is nil for users who never posted.
type RosterEntry struct {
	User          User         `json:"user"`
	LatestMessage *MessageView `json:"latestMessage"`
	UnreadCount   int          `json:"unreadCount"`
	TotalMessages int          `json:"totalMessages"`
}
