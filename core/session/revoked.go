package session

import (
	"context"
	"time"

	"github.com/trezcool/campus/core/store"
)

var nowFunc = time.Now // mockable

// Revocations lists logged out API tokens by id until they expire.
// The list is kept in the Record Store so every server process sees it.
type Revocations struct {
	records *store.Records
}

func NewRevocations(records *store.Records) *Revocations {
	return &Revocations{records: records}
}

// Revoke adds a token id. Ids past their expiry are dropped on the way.
func (r *Revocations) Revoke(ctx context.Context, id string, expiresAt time.Time) error {
	revoked := make(map[string]int64)
	return r.records.Update(ctx, store.KeyRevokedTokens, &revoked, func() error {
		now := nowFunc().Unix()
		for jti, exp := range revoked {
			if exp < now {
				delete(revoked, jti)
			}
		}
		revoked[id] = expiresAt.Unix()
		return nil
	})
}

// Revoked reports whether a token id was revoked.
func (r *Revocations) Revoked(ctx context.Context, id string) (bool, error) {
	var revoked map[string]int64
	if _, err := r.records.Peek(ctx, store.KeyRevokedTokens, &revoked); err != nil {
		return false, err
	}
	_, ok := revoked[id]
	return ok, nil
}
