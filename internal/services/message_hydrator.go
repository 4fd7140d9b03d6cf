package services

import (
	"context"
	"errors"

	"teamchat/internal/domain"
	"teamchat/internal/domain/member"
	"teamchat/internal/domain/message"
	"teamchat/internal/domain/user"
	"teamchat/internal/repository"
	teamchat_errors "teamchat/pkg/errors"
	"teamchat/pkg/logger"

	"go.uber.org/zap"
)

// FileURLResolver turns a stored image key into a fetchable URL.
type FileURLResolver interface {
	ResolveURL(ctx context.Context, storageKey string) (string, error)
}

type ReactionSummary struct {
	Value     string
	Count     int
	MemberIDs []domain.MemberID
}

// ThreadSummary describes the replies under a message. Name, Image and
// Timestamp come from the author of the latest reply; Timestamp is in
// milliseconds and zero when there is no resolvable latest reply.
type ThreadSummary struct {
	Count     int
	Name      string
	Image     *string
	Timestamp int64
}

type HydratedMessage struct {
	message.Message
	ImageURL  *string
	Member    member.Member
	User      user.User
	Reactions []ReactionSummary
	Thread    *ThreadSummary
}

type Hydrator struct {
	store  repository.Store
	files  FileURLResolver
	logger *logger.Logger
}

func NewHydrator(store repository.Store, files FileURLResolver, l *logger.Logger) *Hydrator {
	if l == nil {
		l = logger.NewNop()
	}
	return &Hydrator{store: store, files: files, logger: l}
}

// Hydrate resolves the author, image, reactions and, when withThread is set,
// the thread summary of m. ok is false when the author or their user no
// longer exists.
func (h *Hydrator) Hydrate(ctx context.Context, m message.Message, withThread bool) (HydratedMessage, bool, error) {
	author, authorUser, ok, err := h.resolveAuthor(ctx, m.MemberID)
	if err != nil || !ok {
		return HydratedMessage{}, false, err
	}

	reactions, err := h.store.Reactions().ListByMessage(ctx, m.ID)
	if err != nil {
		return HydratedMessage{}, false, err
	}

	out := HydratedMessage{
		Message:   m,
		ImageURL:  h.imageURL(ctx, m.Image),
		Member:    author,
		User:      authorUser,
		Reactions: SummarizeReactions(reactions),
	}
	if withThread {
		thread, err := h.threadSummary(ctx, m.ID)
		if err != nil {
			return HydratedMessage{}, false, err
		}
		out.Thread = &thread
	}
	return out, true, nil
}

func (h *Hydrator) resolveAuthor(ctx context.Context, id domain.MemberID) (member.Member, user.User, bool, error) {
	m, err := h.store.Members().GetByID(ctx, id)
	if errors.Is(err, teamchat_errors.ErrNotFound) {
		return member.Member{}, user.User{}, false, nil
	}
	if err != nil {
		return member.Member{}, user.User{}, false, err
	}
	u, err := h.store.Users().GetUserByID(ctx, m.UserID)
	if errors.Is(err, teamchat_errors.ErrNotFound) {
		return member.Member{}, user.User{}, false, nil
	}
	if err != nil {
		return member.Member{}, user.User{}, false, err
	}
	return m, u, true, nil
}

// imageURL never fails the message; an unresolvable image is left blank.
func (h *Hydrator) imageURL(ctx context.Context, key *string) *string {
	if key == nil || *key == "" || h.files == nil {
		return nil
	}
	url, err := h.files.ResolveURL(ctx, *key)
	if err != nil {
		h.logger.Warn(ctx, "failed to resolve image url", zap.String("storage_key", *key), zap.Error(err))
		return nil
	}
	return &url
}

func (h *Hydrator) threadSummary(ctx context.Context, parentID domain.MessageID) (ThreadSummary, error) {
	replies, err := h.store.Messages().ListReplies(ctx, parentID)
	if err != nil {
		return ThreadSummary{}, err
	}
	return BuildThreadSummary(replies, func(id domain.MemberID) (user.User, bool) {
		_, u, ok, err := h.resolveAuthor(ctx, id)
		if err != nil {
			h.logger.Warn(ctx, "failed to resolve thread author", zap.String("member_id", id.String()), zap.Error(err))
			return user.User{}, false
		}
		return u, ok
	}), nil
}

// SummarizeReactions groups reactions by value in first-seen order.
func SummarizeReactions(reactions []message.Reaction) []ReactionSummary {
	out := make([]ReactionSummary, 0)
	index := make(map[string]int)
	seen := make(map[string]map[domain.MemberID]struct{})
	for _, r := range reactions {
		i, ok := index[r.Value]
		if !ok {
			i = len(out)
			index[r.Value] = i
			seen[r.Value] = make(map[domain.MemberID]struct{})
			out = append(out, ReactionSummary{Value: r.Value, MemberIDs: make([]domain.MemberID, 0, 1)})
		}
		out[i].Count++
		if _, dup := seen[r.Value][r.MemberID]; !dup {
			seen[r.Value][r.MemberID] = struct{}{}
			out[i].MemberIDs = append(out[i].MemberIDs, r.MemberID)
		}
	}
	return out
}

// BuildThreadSummary summarizes replies given oldest first. author looks up
// the user behind a reply's member.
func BuildThreadSummary(replies []message.Message, author func(domain.MemberID) (user.User, bool)) ThreadSummary {
	if len(replies) == 0 {
		return ThreadSummary{}
	}
	summary := ThreadSummary{Count: len(replies)}
	last := replies[len(replies)-1]
	u, ok := author(last.MemberID)
	if !ok {
		return summary
	}
	summary.Name = u.DisplayName()
	summary.Image = u.Image
	summary.Timestamp = last.CreatedAt.UnixMilli()
	return summary
}
