package services

import (
	"context"
	"errors"
	"testing"

	"secretshare-backend/models"

	"go.uber.org/zap"
)

func newFileServiceForTest() (*FileService, *fakeSecretStore, *fakeBlobStore) {
	store := newFakeSecretStore()
	blobs := newFakeBlobStore()
	secrets := NewSecretService(store, blobs, nil, zap.NewNop())
	return NewFileService(secrets, store, blobs, zap.NewNop()), store, blobs
}

func TestFileUploadAndDownload(t *testing.T) {
	svc, store, blobs := newFileServiceForTest()
	ctx := context.Background()

	created, err := svc.Upload(ctx, nil, models.UploadFileInput{
		EncryptedData: testEnvelope,
		FileSize:      1024,
		FileMimeType:  "application/pdf",
	})
	if err != nil {
		t.Fatalf("upload failed: %v", err)
	}
	if !created.IsFile || created.FilePath == nil {
		t.Fatal("record not marked as file-backed")
	}
	if !blobs.has(*created.FilePath) {
		t.Fatal("blob not stored")
	}

	data, contentType, err := svc.Download(ctx, created.Token)
	if err != nil {
		t.Fatalf("download failed: %v", err)
	}
	if string(data) != testEnvelope {
		t.Fatalf("blob mismatch: got %q", data)
	}
	if contentType != "application/pdf" {
		t.Fatalf("content type = %q, want application/pdf", contentType)
	}

	// No burn, no max views: the blob survives the read.
	if s, _ := store.FindByToken(ctx, created.Token); s == nil {
		t.Fatal("record gone after unlimited read")
	}
}

// Burn-after-reading file: the single winner gets the payload even though the
// consume deletes both the row and the blob.
func TestFileDownloadBurn(t *testing.T) {
	svc, store, blobs := newFileServiceForTest()
	ctx := context.Background()

	created, err := svc.Upload(ctx, nil, models.UploadFileInput{
		EncryptedData:    testEnvelope,
		FileSize:         64,
		FileMimeType:     "text/plain",
		BurnAfterReading: true,
	})
	if err != nil {
		t.Fatalf("upload failed: %v", err)
	}

	data, _, err := svc.Download(ctx, created.Token)
	if err != nil {
		t.Fatalf("first download failed: %v", err)
	}
	if string(data) != testEnvelope {
		t.Fatalf("blob mismatch: got %q", data)
	}

	if s, _ := store.FindByToken(ctx, created.Token); s != nil {
		t.Fatal("record survived burn")
	}
	if blobs.has(*created.FilePath) {
		t.Fatal("blob survived burn")
	}
	if _, _, err := svc.Download(ctx, created.Token); !errors.Is(err, ErrNotFound) {
		t.Fatalf("second download: err = %v, want ErrNotFound", err)
	}
}

func TestFileDownloadRejectsInlineSecret(t *testing.T) {
	svc, store, _ := newFileServiceForTest()
	ctx := context.Background()

	inline := &models.Secret{
		Token:         "dddddddddddddddddddddddddddddddddddddddddddddddddddddddddddddddd",
		EncryptedData: testEnvelope,
	}
	if err := store.Create(ctx, inline); err != nil {
		t.Fatalf("seed failed: %v", err)
	}

	if _, _, err := svc.Download(ctx, inline.Token); !errors.Is(err, ErrValidation) {
		t.Fatalf("err = %v, want ErrValidation", err)
	}
}

func TestFileUploadSweepsBlobOnInsertFailure(t *testing.T) {
	svc, store, blobs := newFileServiceForTest()
	ctx := context.Background()

	seedErr := errors.New("insert failed")
	store.createErrs = []error{seedErr}

	_, err := svc.Upload(ctx, nil, models.UploadFileInput{
		EncryptedData: testEnvelope,
		FileSize:      64,
		FileMimeType:  "text/plain",
	})
	if !errors.Is(err, seedErr) {
		t.Fatalf("err = %v, want the insert error", err)
	}

	blobs.mu.Lock()
	remaining := len(blobs.blobs)
	blobs.mu.Unlock()
	if remaining != 0 {
		t.Fatalf("orphan blobs left behind: %d", remaining)
	}
}
