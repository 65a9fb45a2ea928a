// Package store is the Record Store: named slots, each holding one JSON document,
// on top of a pluggable key-value backend.
package store

import (
	"context"
	"encoding/json"
	"reflect"
	"sync"

	"github.com/pkg/errors"
)

// Slot keys
const (
	KeyStudents      = "students"
	KeyFaculty       = "faculty"
	KeyApplications  = "applications"
	KeyStudentCreds  = "student_creds"
	KeyFacultyCreds  = "faculty_creds"
	KeyHostelMenu    = "hostel_menu"
	KeyFeesSettings  = "fees_settings"
	KeyAdminSettings = "admin_settings"
	KeySessionUser   = "user"
	KeySessionRole   = "userRole"
	KeyRevokedTokens = "revoked_tokens"
)

// AllKeys lists every slot the portal uses.
var AllKeys = []string{
	KeyStudents, KeyFaculty, KeyApplications, KeyStudentCreds, KeyFacultyCreds,
	KeyHostelMenu, KeyFeesSettings, KeyAdminSettings, KeySessionUser, KeySessionRole,
	KeyRevokedTokens,
}

// ErrKeyNotFound is returned by KV backends for missing keys.
var ErrKeyNotFound = errors.New("key not found")

// KV is the persistence port. Values are opaque bytes.
type KV interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte) error
	Delete(ctx context.Context, key string) error
}

// Records reads and writes whole JSON documents by key.
// Mutations made through Update are serialized within the process.
type Records struct {
	kv KV
	mu sync.Mutex
}

func NewRecords(kv KV) *Records {
	return &Records{kv: kv}
}

// Load decodes the value saved under key into dst.
// dst must be a non-nil pointer whose current value is the default:
// when key is missing the default is saved and left in dst.
func (r *Records) Load(ctx context.Context, key string, dst interface{}) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.load(ctx, key, dst)
}

// Peek decodes the value saved under key into dst and reports whether there was one.
// Unlike Load, a missing key stays missing.
func (r *Records) Peek(ctx context.Context, key string, dst interface{}) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	data, err := r.kv.Get(ctx, key)
	if err != nil {
		if errors.Cause(err) == ErrKeyNotFound {
			return false, nil
		}
		return false, errors.Wrapf(err, "reading %q", key)
	}
	if err := json.Unmarshal(data, dst); err != nil {
		return false, errors.Wrapf(err, "decoding %q", key)
	}
	return true, nil
}

// Save replaces the value under key.
func (r *Records) Save(ctx context.Context, key string, value interface{}) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.save(ctx, key, value)
}

// Update loads key into dst (see Load), calls mutate and saves dst when mutate returns nil.
// Nothing is saved when mutate fails.
func (r *Records) Update(ctx context.Context, key string, dst interface{}, mutate func() error) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if err := r.load(ctx, key, dst); err != nil {
		return err
	}
	if err := mutate(); err != nil {
		return err
	}
	return r.save(ctx, key, dst)
}

// Remove deletes key. Removing a missing key is not an error.
func (r *Records) Remove(ctx context.Context, keys ...string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, key := range keys {
		if err := r.kv.Delete(ctx, key); err != nil && errors.Cause(err) != ErrKeyNotFound {
			return errors.Wrapf(err, "deleting %q", key)
		}
	}
	return nil
}

// Exists reports whether a value is saved under key.
func (r *Records) Exists(ctx context.Context, key string) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, err := r.kv.Get(ctx, key); err != nil {
		if errors.Cause(err) == ErrKeyNotFound {
			return false, nil
		}
		return false, errors.Wrapf(err, "reading %q", key)
	}
	return true, nil
}

func (r *Records) load(ctx context.Context, key string, dst interface{}) error {
	rv := reflect.ValueOf(dst)
	if rv.Kind() != reflect.Ptr || rv.IsNil() {
		return errors.Errorf("loading %q: destination must be a non-nil pointer", key)
	}

	data, err := r.kv.Get(ctx, key)
	if err != nil {
		if errors.Cause(err) == ErrKeyNotFound {
			return r.save(ctx, key, dst)
		}
		return errors.Wrapf(err, "reading %q", key)
	}

	// decode into a fresh value so maps are replaced, not merged with the default
	fresh := reflect.New(rv.Elem().Type())
	if err := json.Unmarshal(data, fresh.Interface()); err != nil {
		return errors.Wrapf(err, "decoding %q", key)
	}
	rv.Elem().Set(fresh.Elem())
	return nil
}

func (r *Records) save(ctx context.Context, key string, value interface{}) error {
	data, err := json.Marshal(value)
	if err != nil {
		return errors.Wrapf(err, "encoding %q", key)
	}
	if err := r.kv.Set(ctx, key, data); err != nil {
		return errors.Wrapf(err, "writing %q", key)
	}
	return nil
}
