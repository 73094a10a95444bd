package services

import (
	"context"
	"errors"
	"sync"
	"time"

	"secretshare-backend/models"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// fakeSecretStore mimics the repository against an in-memory map. The mutex
// makes ConsumeView and DeleteByToken atomic the way the SQL statements are.
type fakeSecretStore struct {
	mu      sync.Mutex
	secrets map[string]*models.Secret

	// createErrs are popped per Create call before the insert, letting tests
	// inject unique-index collisions.
	createErrs []error

	// beforeConsume runs inside ConsumeView's critical section prelude,
	// letting tests race a delete against an in-flight read.
	beforeConsume func()
}

func newFakeSecretStore() *fakeSecretStore {
	return &fakeSecretStore{secrets: make(map[string]*models.Secret)}
}

func (f *fakeSecretStore) Create(ctx context.Context, secret *models.Secret) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if len(f.createErrs) > 0 {
		err := f.createErrs[0]
		f.createErrs = f.createErrs[1:]
		if err != nil {
			return err
		}
	}
	if _, exists := f.secrets[secret.Token]; exists {
		return gorm.ErrDuplicatedKey
	}
	if secret.Id == "" {
		secret.Id = uuid.NewString()
	}
	secret.CreatedAt = time.Now().UTC()
	cp := *secret
	f.secrets[secret.Token] = &cp
	return nil
}

func (f *fakeSecretStore) FindByToken(ctx context.Context, token string) (*models.Secret, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	s, ok := f.secrets[token]
	if !ok {
		return nil, nil
	}
	cp := *s
	return &cp, nil
}

func (f *fakeSecretStore) FindByCreator(ctx context.Context, creatorId string) ([]models.Secret, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []models.Secret
	for _, s := range f.secrets {
		if s.CreatorId != nil && *s.CreatorId == creatorId {
			out = append(out, *s)
		}
	}
	return out, nil
}

func (f *fakeSecretStore) ConsumeView(ctx context.Context, token string) (*models.Secret, error) {
	if f.beforeConsume != nil {
		f.beforeConsume()
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	s, ok := f.secrets[token]
	if !ok {
		return nil, nil
	}
	if s.MaxViews != nil && s.CurrentViews >= *s.MaxViews {
		return nil, nil
	}
	if s.BurnAfterReading && s.CurrentViews >= 1 {
		return nil, nil
	}
	s.CurrentViews++
	now := time.Now().UTC()
	s.LastAccessedAt = &now
	cp := *s
	return &cp, nil
}

func (f *fakeSecretStore) DeleteByToken(ctx context.Context, token string) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	_, ok := f.secrets[token]
	delete(f.secrets, token)
	return ok, nil
}

// fakeRequestStore mirrors the request repository; Complete is guarded by
// status the way the conditional UPDATE is.
type fakeRequestStore struct {
	mu       sync.Mutex
	requests map[string]*models.SecretRequest // by token
}

func newFakeRequestStore() *fakeRequestStore {
	return &fakeRequestStore{requests: make(map[string]*models.SecretRequest)}
}

func (f *fakeRequestStore) Create(ctx context.Context, request *models.SecretRequest) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, exists := f.requests[request.Token]; exists {
		return gorm.ErrDuplicatedKey
	}
	if request.Id == "" {
		request.Id = uuid.NewString()
	}
	request.CreatedAt = time.Now().UTC()
	cp := *request
	f.requests[request.Token] = &cp
	return nil
}

func (f *fakeRequestStore) FindByToken(ctx context.Context, token string) (*models.SecretRequest, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	r, ok := f.requests[token]
	if !ok {
		return nil, nil
	}
	cp := *r
	return &cp, nil
}

func (f *fakeRequestStore) FindById(ctx context.Context, id string) (*models.SecretRequest, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, r := range f.requests {
		if r.Id == id {
			cp := *r
			return &cp, nil
		}
	}
	return nil, nil
}

func (f *fakeRequestStore) FindByRequester(ctx context.Context, requesterId string) ([]models.SecretRequest, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []models.SecretRequest
	for _, r := range f.requests {
		if r.RequesterId == requesterId {
			out = append(out, *r)
		}
	}
	return out, nil
}

func (f *fakeRequestStore) Complete(ctx context.Context, token, encryptedData string) (*models.SecretRequest, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	r, ok := f.requests[token]
	if !ok || r.Status != models.RequestStatusPending {
		return nil, nil
	}
	now := time.Now().UTC()
	data := encryptedData
	r.EncryptedData = &data
	r.Status = models.RequestStatusCompleted
	r.CompletedAt = &now
	cp := *r
	return &cp, nil
}

func (f *fakeRequestStore) DeleteById(ctx context.Context, id string) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for token, r := range f.requests {
		if r.Id == id {
			delete(f.requests, token)
			return true, nil
		}
	}
	return false, nil
}

type fakeBlob struct {
	data        []byte
	contentType string
}

type fakeBlobStore struct {
	mu    sync.Mutex
	blobs map[string]fakeBlob
}

func newFakeBlobStore() *fakeBlobStore {
	return &fakeBlobStore{blobs: make(map[string]fakeBlob)}
}

func (f *fakeBlobStore) Put(ctx context.Context, key string, data []byte, contentType string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.blobs[key] = fakeBlob{data: append([]byte(nil), data...), contentType: contentType}
	return nil
}

func (f *fakeBlobStore) Get(ctx context.Context, key string) ([]byte, string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	b, ok := f.blobs[key]
	if !ok {
		return nil, "", errors.New("blob not found: " + key)
	}
	return append([]byte(nil), b.data...), b.contentType, nil
}

func (f *fakeBlobStore) Delete(ctx context.Context, key string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	delete(f.blobs, key)
	return nil
}

func (f *fakeBlobStore) has(key string) bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	_, ok := f.blobs[key]
	return ok
}

// testEnvelope is a structurally valid encrypted payload; the contents are
// meaningless, which is exactly what the server should accept.
const testEnvelope = `{"v":1,"iv":"0123456789abcdef","ct":"ZGVhZGJlZWY=","tag":"fedcba9876543210"}`
