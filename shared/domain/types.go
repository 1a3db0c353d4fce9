package domain

type (
	UserId   = int64
	Username = string

	MsgId   = int64
	MsgText = string

	MediaKind = string
)

// Media kinds allowed on a message attachment.
const (
	MediaImage MediaKind = "image"
	MediaVideo MediaKind = "video"
	MediaAudio MediaKind = "audio"
	MediaFile  MediaKind = "file"
)

// MaxMessageLen is the upper bound on message text after trimming.
const MaxMessageLen = 5000

func ValidMediaKind(kind MediaKind) bool {
	switch kind {
	case MediaImage, MediaVideo, MediaAudio, MediaFile:
		return true
	}
	return false
}
