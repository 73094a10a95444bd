package services

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	"secretshare-backend/models"

	"go.uber.org/zap"
)

const testRequester = "44444444-4444-4444-8444-444444444444"

func newRequestServiceForTest(store *fakeRequestStore) *SecretRequestService {
	return NewSecretRequestService(store, nil, zap.NewNop())
}

func TestRequestLifecycle(t *testing.T) {
	store := newFakeRequestStore()
	svc := newRequestServiceForTest(store)
	ctx := context.Background()

	created, err := svc.Create(ctx, testRequester, models.CreateSecretRequestInput{
		EncryptedPrompt: testEnvelope,
		ExpiresInDays:   7,
	})
	if err != nil {
		t.Fatalf("create failed: %v", err)
	}
	if len(created.Token) != 64 {
		t.Fatalf("token length = %d, want 64", len(created.Token))
	}
	if !created.Pending() {
		t.Fatalf("status = %q, want pending", created.Status)
	}

	// Respondent sees the prompt while pending; never the answer slot.
	visible, err := svc.GetForClient(ctx, created.Token)
	if err != nil {
		t.Fatalf("client fetch failed: %v", err)
	}
	if visible.EncryptedPrompt != testEnvelope {
		t.Fatalf("prompt mismatch: got %q", visible.EncryptedPrompt)
	}
	if visible.EncryptedData != nil {
		t.Fatal("client view exposes the answer slot")
	}

	answer := `{"v":1,"iv":"ffffffffffffffff","ct":"YW5zd2Vy","tag":"0000000000000000"}`
	completed, err := svc.Submit(ctx, created.Token, models.SubmitSecretInput{EncryptedData: answer})
	if err != nil {
		t.Fatalf("submit failed: %v", err)
	}
	if completed.Status != models.RequestStatusCompleted {
		t.Fatalf("status = %q, want completed", completed.Status)
	}
	if completed.CompletedAt == nil {
		t.Fatal("completed_at not stamped")
	}

	// Fulfilled requests are gone from the respondent's point of view.
	if _, err := svc.GetForClient(ctx, created.Token); !errors.Is(err, ErrRequestAlreadyFulfilled) {
		t.Fatalf("err = %v, want ErrRequestAlreadyFulfilled", err)
	}

	// The requester reads the answer back by id.
	got, err := svc.GetForRequester(ctx, testRequester, created.Id)
	if err != nil {
		t.Fatalf("requester fetch failed: %v", err)
	}
	if got.EncryptedData == nil || *got.EncryptedData != answer {
		t.Fatalf("answer mismatch: got %v", got.EncryptedData)
	}
}

func TestRequestCreateRejectsMalformedPrompt(t *testing.T) {
	svc := newRequestServiceForTest(newFakeRequestStore())

	_, err := svc.Create(context.Background(), testRequester, models.CreateSecretRequestInput{
		EncryptedPrompt: `not json`,
		ExpiresInDays:   7,
	})
	if !errors.Is(err, ErrValidation) {
		t.Fatalf("err = %v, want ErrValidation", err)
	}
}

// Many concurrent submissions: exactly one wins, and the answer that sticks is
// the winner's.
func TestRequestSubmitExactlyOnce(t *testing.T) {
	const respondents = 32

	store := newFakeRequestStore()
	svc := newRequestServiceForTest(store)
	ctx := context.Background()

	created, err := svc.Create(ctx, testRequester, models.CreateSecretRequestInput{
		EncryptedPrompt: testEnvelope,
		ExpiresInDays:   7,
	})
	if err != nil {
		t.Fatalf("create failed: %v", err)
	}

	type outcome struct {
		answer string
		err    error
	}
	var wg sync.WaitGroup
	results := make(chan outcome, respondents)
	for i := 0; i < respondents; i++ {
		answer := fmt.Sprintf(`{"v":1,"iv":"0123456789abcdef","ct":"YW5zd2VyLSVk-%02d","tag":"0123456789abcdef"}`, i)
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := svc.Submit(ctx, created.Token, models.SubmitSecretInput{EncryptedData: answer})
			results <- outcome{answer: answer, err: err}
		}()
	}
	wg.Wait()
	close(results)

	var winner string
	var wins int
	for r := range results {
		switch {
		case r.err == nil:
			wins++
			winner = r.answer
		case errors.Is(r.err, ErrRequestAlreadyFulfilled):
		default:
			t.Fatalf("unexpected error: %v", r.err)
		}
	}
	if wins != 1 {
		t.Fatalf("wins = %d, want exactly 1", wins)
	}

	stored, err := store.FindByToken(ctx, created.Token)
	if err != nil {
		t.Fatalf("find failed: %v", err)
	}
	if stored.EncryptedData == nil || *stored.EncryptedData != winner {
		t.Fatal("persisted answer is not the winner's")
	}
}

func TestRequestSubmitAfterExpiry(t *testing.T) {
	store := newFakeRequestStore()
	svc := newRequestServiceForTest(store)
	ctx := context.Background()

	request := &models.SecretRequest{
		RequesterId:     testRequester,
		Token:           "bbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbb",
		EncryptedPrompt: testEnvelope,
		Status:          models.RequestStatusPending,
		ExpiresAt:       time.Now().UTC().Add(-time.Hour),
	}
	if err := store.Create(ctx, request); err != nil {
		t.Fatalf("seed failed: %v", err)
	}

	if _, err := svc.GetForClient(ctx, request.Token); !errors.Is(err, ErrSecretExpired) {
		t.Fatalf("client fetch: err = %v, want ErrSecretExpired", err)
	}
	_, err := svc.Submit(ctx, request.Token, models.SubmitSecretInput{EncryptedData: testEnvelope})
	if !errors.Is(err, ErrSecretExpired) {
		t.Fatalf("submit: err = %v, want ErrSecretExpired", err)
	}

	// Expiry must win even though the row is still pending underneath.
	stored, _ := store.FindByToken(ctx, request.Token)
	if !stored.Pending() {
		t.Fatal("expired request was mutated")
	}
}

func TestRequestUnknownToken(t *testing.T) {
	svc := newRequestServiceForTest(newFakeRequestStore())
	ctx := context.Background()

	if _, err := svc.GetForClient(ctx, "cccc"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("err = %v, want ErrNotFound", err)
	}
	_, err := svc.Submit(ctx, "cccc", models.SubmitSecretInput{EncryptedData: testEnvelope})
	if !errors.Is(err, ErrNotFound) {
		t.Fatalf("err = %v, want ErrNotFound", err)
	}
}

func TestRequestOwnership(t *testing.T) {
	store := newFakeRequestStore()
	svc := newRequestServiceForTest(store)
	ctx := context.Background()

	created, err := svc.Create(ctx, testRequester, models.CreateSecretRequestInput{
		EncryptedPrompt: testEnvelope,
		ExpiresInDays:   7,
	})
	if err != nil {
		t.Fatalf("create failed: %v", err)
	}

	stranger := "55555555-5555-4555-8555-555555555555"
	if _, err := svc.GetForRequester(ctx, stranger, created.Id); !errors.Is(err, ErrForbidden) {
		t.Fatalf("stranger fetch: err = %v, want ErrForbidden", err)
	}
	if err := svc.Delete(ctx, stranger, created.Id); !errors.Is(err, ErrForbidden) {
		t.Fatalf("stranger delete: err = %v, want ErrForbidden", err)
	}

	if err := svc.Delete(ctx, testRequester, created.Id); err != nil {
		t.Fatalf("owner delete failed: %v", err)
	}
	if err := svc.Delete(ctx, testRequester, created.Id); !errors.Is(err, ErrNotFound) {
		t.Fatalf("second delete: err = %v, want ErrNotFound", err)
	}
}
