package service

import (
	"html"
	"strings"

	"github.com/microcosm-cc/bluemonday"

	"github.com/itchan-dev/chanfeed/shared/domain"
	"github.com/itchan-dev/chanfeed/shared/errors"
)

// FeedService is the paginated view over the channel: the global
// stream, one sender's sub-feed, and the viewer's own messages.
type FeedService interface {
	Post(authorId domain.UserId, text domain.MsgText, mediaUrl *string, mediaType *domain.MediaKind) (domain.MessageView, error)
	GlobalPage(viewerId domain.UserId, page, pageSize int) (FeedPage, error)
	SenderPage(viewerId, senderId domain.UserId, page, pageSize int) (FeedPage, error)
	OwnPage(ownerId domain.UserId, page, pageSize int) (FeedPage, error)
}

// FeedPage is one slice of a feed plus its pagination envelope.
type FeedPage struct {
	Messages []domain.MessageView
	Page     int
	PageSize int
	Total    int
	HasMore  bool
}

type Feed struct {
	storage  FeedMessageStorage
	reads    ReadLedgerService
	likes    LikeLedgerService
	users    UserDirectory
	policy   FeedPolicy
	sanitize *bluemonday.Policy
}

type FeedMessageStorage interface {
	CreateMessage(data domain.MessageCreationData) (domain.Message, error)
	MessagesPage(senderId *domain.UserId, offset, limit int) ([]domain.Message, error)
	CountMessages(senderId *domain.UserId) (int, error)
}

// UserDirectory resolves the author display fields denormalized onto a
// message at post time.
type UserDirectory interface {
	UserById(id domain.UserId) (domain.User, error)
}

// FeedPolicy tunes paging bounds and the view-marks-read coupling.
type FeedPolicy struct {
	DefaultPageSize int
	MaxPageSize     int
	// MarkReadOnView makes fetching a page record read receipts for
	// every returned message the viewer didn't author. On by default;
	// kept as a switch so the acknowledgement coupling is a policy,
	// not a hard-wired side effect.
	MarkReadOnView bool
}

func DefaultFeedPolicy() FeedPolicy {
	return FeedPolicy{DefaultPageSize: 20, MaxPageSize: 100, MarkReadOnView: true}
}

func NewFeed(storage FeedMessageStorage, reads ReadLedgerService, likes LikeLedgerService, users UserDirectory, policy FeedPolicy) *Feed {
	if policy.DefaultPageSize <= 0 {
		policy.DefaultPageSize = 20
	}
	if policy.MaxPageSize <= 0 {
		policy.MaxPageSize = 100
	}
	return &Feed{
		storage:  storage,
		reads:    reads,
		likes:    likes,
		users:    users,
		policy:   policy,
		sanitize: bluemonday.StrictPolicy(),
	}
}

// Post validates and persists a new message. The author's username and
// full name are captured onto the message now and never re-derived, so
// a later profile change doesn't rewrite history.
func (f *Feed) Post(authorId domain.UserId, text domain.MsgText, mediaUrl *string, mediaType *domain.MediaKind) (domain.MessageView, error) {
	// Strip markup first, then undo the sanitizer's entity escaping so
	// the stored body is plain text that round-trips through the API.
	// Validation runs on what will actually be stored.
	text = html.UnescapeString(f.sanitize.Sanitize(text))
	text = strings.TrimSpace(text)
	if text == "" {
		return domain.MessageView{}, errors.Validation("Message is required")
	}
	if len([]rune(text)) > domain.MaxMessageLen {
		return domain.MessageView{}, errors.Validation("Message is too long")
	}

	if mediaType != nil {
		if !domain.ValidMediaKind(*mediaType) {
			return domain.MessageView{}, errors.Validation("Invalid media type")
		}
		if mediaUrl == nil || strings.TrimSpace(*mediaUrl) == "" {
			return domain.MessageView{}, errors.Validation("Media url is required for media messages")
		}
	}
	if mediaUrl != nil && strings.TrimSpace(*mediaUrl) != "" && mediaType == nil {
		return domain.MessageView{}, errors.Validation("Media type is required for media messages")
	}

	author, err := f.users.UserById(authorId)
	if err != nil {
		return domain.MessageView{}, err
	}

	msg, err := f.storage.CreateMessage(domain.MessageCreationData{
		SenderId:       author.Id,
		SenderUsername: author.Username,
		SenderName:     author.FullName(),
		Text:           text,
		MediaUrl:       mediaUrl,
		MediaType:      mediaType,
	})
	if err != nil {
		return domain.MessageView{}, err
	}

	return domain.MessageView{Message: msg, IsOwnMessage: true}, nil
}

func (f *Feed) GlobalPage(viewerId domain.UserId, page, pageSize int) (FeedPage, error) {
	return f.fetchPage(viewerId, nil, page, pageSize)
}

func (f *Feed) SenderPage(viewerId, senderId domain.UserId, page, pageSize int) (FeedPage, error) {
	return f.fetchPage(viewerId, &senderId, page, pageSize)
}

// OwnPage lists the owner's messages. isLiked stays false regardless
// of ledger state and readCount is populated, since the viewer is the
// author of every message on the page.
func (f *Feed) OwnPage(ownerId domain.UserId, page, pageSize int) (FeedPage, error) {
	return f.fetchPage(ownerId, &ownerId, page, pageSize)
}

func (f *Feed) fetchPage(viewerId domain.UserId, senderId *domain.UserId, page, pageSize int) (FeedPage, error) {
	page, pageSize = f.clamp(page, pageSize)

	total, err := f.storage.CountMessages(senderId)
	if err != nil {
		return FeedPage{}, err
	}

	offset := (page - 1) * pageSize
	messages, err := f.storage.MessagesPage(senderId, offset, pageSize)
	if err != nil {
		return FeedPage{}, err
	}

	views, err := f.enrich(viewerId, messages)
	if err != nil {
		return FeedPage{}, err
	}

	// View acknowledges: record receipts for the returned messages not
	// authored by the viewer. The view fields above reflect the state
	// before this fetch.
	if f.policy.MarkReadOnView {
		var unowned []domain.MsgId
		for _, msg := range messages {
			if msg.SenderId != viewerId {
				unowned = append(unowned, msg.Id)
			}
		}
		if _, err := f.reads.RecordReadsBulk(viewerId, unowned); err != nil {
			return FeedPage{}, err
		}
	}

	return FeedPage{
		Messages: views,
		Page:     page,
		PageSize: pageSize,
		Total:    total,
		HasMore:  offset+len(views) < total,
	}, nil
}

// clamp normalizes paging input: page >= 1, 1 <= pageSize <= cap.
// An out-of-range page yields an empty valid page downstream, never an error.
func (f *Feed) clamp(page, pageSize int) (int, int) {
	if page < 1 {
		page = 1
	}
	if pageSize <= 0 {
		pageSize = f.policy.DefaultPageSize
	}
	if pageSize > f.policy.MaxPageSize {
		pageSize = f.policy.MaxPageSize
	}
	return page, pageSize
}

// enrich attaches the per-viewer derived fields to a page of messages
// with three batched lookups, one per ledger direction.
func (f *Feed) enrich(viewerId domain.UserId, messages []domain.Message) ([]domain.MessageView, error) {
	ids := make([]domain.MsgId, 0, len(messages))
	var ownIds []domain.MsgId
	for _, msg := range messages {
		ids = append(ids, msg.Id)
		if msg.SenderId == viewerId {
			ownIds = append(ownIds, msg.Id)
		}
	}

	liked, err := f.likes.LikedMessageIds(viewerId, ids)
	if err != nil {
		return nil, err
	}
	read, err := f.reads.ReadMessageIds(viewerId, ids)
	if err != nil {
		return nil, err
	}
	readCounts, err := f.reads.ReadCountsFor(ownIds)
	if err != nil {
		return nil, err
	}

	views := make([]domain.MessageView, 0, len(messages))
	for _, msg := range messages {
		own := msg.SenderId == viewerId
		view := domain.MessageView{Message: msg, IsOwnMessage: own}
		if own {
			view.ReadCount = readCounts[msg.Id]
		} else {
			view.IsLiked = liked[msg.Id]
			view.IsRead = read[msg.Id]
		}
		views = append(views, view)
	}
	return views, nil
}
