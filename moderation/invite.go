package moderation

import (
	"time"

	"emperror.dev/errors"
	"github.com/hashicorp/golang-lru/v2/expirable"
)

const (
	inviteCacheSize = 4096
	inviteCacheTTL  = 10 * time.Minute
)

type inviteResolution struct {
	guildID string
	err     error
}

// InviteResolver maps invite codes to the guild they point at. Successful lookups and
// dead invites are cached; transient failures are not.
type InviteResolver struct {
	platform Platform
	cache    *expirable.LRU[string, inviteResolution]
}

func NewInviteResolver(platform Platform) *InviteResolver {
	return &InviteResolver{
		platform: platform,
		cache:    expirable.NewLRU[string, inviteResolution](inviteCacheSize, nil, inviteCacheTTL),
	}
}

// Resolve returns the id of the guild the invite code belongs to.
func (r *InviteResolver) Resolve(code string) (string, error) {
	if res, ok := r.cache.Get(code); ok {
		return res.guildID, res.err
	}

	guildID, err := r.platform.ResolveInvite(code)
	if err != nil {
		err = errors.WithMessage(err, "resolve invite "+code)
		if errors.Is(err, ErrNotFound) {
			r.cache.Add(code, inviteResolution{err: err})
		}
		return "", err
	}

	r.cache.Add(code, inviteResolution{guildID: guildID})
	return guildID, nil
}
