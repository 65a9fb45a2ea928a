package session

import (
	"context"
	"encoding/json"

	"github.com/trezcool/campus/core/store"
)

// StoreSlot keeps the session in the Record Store, under the user and userRole keys.
type StoreSlot struct {
	records *store.Records
}

var _ Slot = (*StoreSlot)(nil)

func NewStoreSlot(records *store.Records) *StoreSlot {
	return &StoreSlot{records: records}
}

func (s *StoreSlot) Read(ctx context.Context) (string, []byte, error) {
	var role string
	if ok, err := s.records.Peek(ctx, store.KeySessionRole, &role); err != nil || !ok {
		return "", nil, err
	}
	var body json.RawMessage
	if ok, err := s.records.Peek(ctx, store.KeySessionUser, &body); err != nil || !ok {
		return "", nil, err
	}
	return role, body, nil
}

func (s *StoreSlot) Write(ctx context.Context, role string, body []byte) error {
	if err := s.records.Save(ctx, store.KeySessionUser, json.RawMessage(body)); err != nil {
		return err
	}
	return s.records.Save(ctx, store.KeySessionRole, role)
}

func (s *StoreSlot) Clear(ctx context.Context) error {
	return s.records.Remove(ctx, store.KeySessionUser, store.KeySessionRole)
}
