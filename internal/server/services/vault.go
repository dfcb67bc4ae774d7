// Package services contains the application services behind the HTTP layer.
// The vault service orchestrates key derivation, encryption, integrity
// checks and the one-time access registry.
package services

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/dmitrijs2005/secureshare/internal/blobstore"
	"github.com/dmitrijs2005/secureshare/internal/common"
	"github.com/dmitrijs2005/secureshare/internal/cryptox"
	"github.com/dmitrijs2005/secureshare/internal/events"
	"github.com/dmitrijs2005/secureshare/internal/logging"
	"github.com/dmitrijs2005/secureshare/internal/server/models"
	"github.com/dmitrijs2005/secureshare/internal/server/repositories/repomanager"
	"github.com/google/uuid"
)

// maxIDAttempts bounds the regenerate-and-retry loop on a file id collision.
const maxIDAttempts = 3

// VaultService implements the Store/Retrieve lifecycle for encrypted files.
//
// The caller's identity is always an explicit session id argument; the
// service never reads ambient state. Per file, the service guarantees that
// across all concurrent callers at most one Retrieve ever returns
// plaintext.
type VaultService struct {
	db     *sql.DB
	repos  repomanager.RepositoryManager
	blobs  blobstore.BlobStore
	events events.Sink
	secret []byte
	logger logging.Logger

	now   func() time.Time
	newID func() string
}

func NewVaultService(db *sql.DB, repos repomanager.RepositoryManager, blobs blobstore.BlobStore,
	sink events.Sink, secret []byte, logger logging.Logger) *VaultService {
	return &VaultService{
		db:     db,
		repos:  repos,
		blobs:  blobs,
		events: sink,
		secret: secret,
		logger: logger.With("module", "vault"),
		now:    time.Now,
		newID:  func() string { return uuid.New().String() },
	}
}

// storageKey builds the blob-store key for a file. Mirrors the
// user-scoped prefix layout of the bucket.
func storageKey(sessionID, fileID string) string {
	return fmt.Sprintf("sessions/%s/%s", sessionID, fileID)
}

// Store encrypts plaintext under a freshly derived per-file key, uploads
// the ciphertext, and persists the registry record. It returns the new file
// id and never the key or the plaintext.
func (s *VaultService) Store(ctx context.Context, sessionID, originalName string, plaintext []byte) (string, error) {
	if sessionID == "" {
		return "", fmt.Errorf("%w: empty session id", common.ErrValidation)
	}
	if originalName == "" {
		return "", fmt.Errorf("%w: empty file name", common.ErrValidation)
	}

	repo := s.repos.Records(s.db)

	var lastErr error
	for attempt := 0; attempt < maxIDAttempts; attempt++ {
		fileID := s.newID()

		key := cryptox.DeriveFileKey(sessionID, fileID, s.secret)
		ciphertext, err := cryptox.Encrypt(key, plaintext)
		common.WipeByteArray(key)
		if err != nil {
			return "", fmt.Errorf("encrypt: %w", err)
		}

		record := &models.FileRecord{
			ID:             fileID,
			OwnerSessionID: sessionID,
			OriginalName:   originalName,
			ContentDigest:  cryptox.Digest(ciphertext),
			StorageKey:     storageKey(sessionID, fileID),
			StoredAt:       s.now().UTC(),
		}

		if err := s.blobs.Put(ctx, record.StorageKey, ciphertext); err != nil {
			return "", err
		}

		err = repo.Create(ctx, record)
		if err == nil {
			s.logger.Info(ctx, "stored file", "file_id", fileID, "owner", sessionID, "name", originalName)
			s.events.Record(ctx, sessionID, events.KindUpload,
				fmt.Sprintf("File %q uploaded successfully", originalName))
			return fileID, nil
		}
		if errors.Is(err, common.ErrDuplicateID) {
			// collision: drop the orphaned blob and retry with a fresh id
			if derr := s.blobs.Delete(ctx, record.StorageKey); derr != nil {
				s.logger.Warn(ctx, "failed to remove orphaned blob", "key", record.StorageKey, "error", derr.Error())
			}
			lastErr = err
			continue
		}
		return "", fmt.Errorf("create record: %w", err)
	}

	return "", fmt.Errorf("id generation exhausted: %w", lastErr)
}

// Retrieve enforces ownership and one-time access, re-derives the file key,
// verifies integrity and returns the decrypted payload together with the
// original file name.
//
// The ownership check runs before the access-flag check, so a non-owner
// never learns whether the file was already consumed. MarkAccessed is the
// commit point of the one-time guarantee: it runs only after a successful
// decryption, and when it fails the caller gets no plaintext.
func (s *VaultService) Retrieve(ctx context.Context, sessionID, fileID string) ([]byte, string, error) {
	if sessionID == "" || fileID == "" {
		return nil, "", fmt.Errorf("%w: empty identifier", common.ErrValidation)
	}

	repo := s.repos.Records(s.db)

	record, err := repo.Get(ctx, fileID)
	if err != nil {
		return nil, "", err
	}

	if record.OwnerSessionID != sessionID {
		return nil, "", common.ErrForbidden
	}

	if record.Accessed {
		return nil, "", common.ErrAlreadyConsumed
	}

	ciphertext, err := s.blobs.Get(ctx, record.StorageKey)
	if err != nil {
		if errors.Is(err, common.ErrNotFound) {
			return nil, "", fmt.Errorf("%w: ciphertext missing for %s", common.ErrStorageUnavailable, fileID)
		}
		return nil, "", err
	}

	if !cryptox.VerifyDigest(ciphertext, record.ContentDigest) {
		s.logger.Error(ctx, "ciphertext digest mismatch", "file_id", fileID)
		return nil, "", common.ErrIntegrity
	}

	key := cryptox.DeriveFileKey(sessionID, fileID, s.secret)
	plaintext, err := cryptox.Decrypt(key, ciphertext)
	common.WipeByteArray(key)
	if err != nil {
		s.logger.Error(ctx, "decryption failed", "file_id", fileID)
		return nil, "", err
	}

	// the compare-and-set on the accessed flag decides the single winner
	// among concurrent retrievals
	if err := repo.MarkAccessed(ctx, fileID); err != nil {
		return nil, "", err
	}

	s.logger.Info(ctx, "retrieved file", "file_id", fileID, "owner", sessionID)
	s.events.Record(ctx, sessionID, events.KindDownload,
		fmt.Sprintf("File %q downloaded", record.OriginalName))

	return plaintext, record.OriginalName, nil
}

// History returns the caller's stored records, newest first.
func (s *VaultService) History(ctx context.Context, sessionID string) ([]*models.FileRecord, error) {
	if sessionID == "" {
		return nil, fmt.Errorf("%w: empty session id", common.ErrValidation)
	}

	result, err := s.repos.Records(s.db).ListByOwner(ctx, sessionID)
	if err != nil {
		return nil, fmt.Errorf("list records: %w", err)
	}

	s.events.Record(ctx, sessionID, events.KindHistoryAccess, "You accessed your file history")
	return result, nil
}

// Search filters the caller's records by a case-insensitive substring match
// on the original file name.
func (s *VaultService) Search(ctx context.Context, sessionID, keyword string) ([]*models.FileRecord, error) {
	if sessionID == "" {
		return nil, fmt.Errorf("%w: empty session id", common.ErrValidation)
	}
	if keyword == "" {
		return nil, fmt.Errorf("%w: empty keyword", common.ErrValidation)
	}

	all, err := s.repos.Records(s.db).ListByOwner(ctx, sessionID)
	if err != nil {
		return nil, fmt.Errorf("list records: %w", err)
	}

	needle := strings.ToLower(keyword)
	var result []*models.FileRecord
	for _, record := range all {
		if strings.Contains(strings.ToLower(record.OriginalName), needle) {
			result = append(result, record)
		}
	}

	s.events.Record(ctx, sessionID, events.KindSearch, fmt.Sprintf("You searched for %q", keyword))
	return result, nil
}
