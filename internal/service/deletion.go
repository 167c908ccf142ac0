package service

import (
	"context"
	"crypto/rand"
	"crypto/subtle"
	"errors"
	"fmt"
	"math/big"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/segmentio/ksuid"

	"github.com/dtroode/medapp-server/internal/logger"
	"github.com/dtroode/medapp-server/internal/model"
)

// DeletionConfig holds the policy of the deletion workflow.
type DeletionConfig struct {
	CodeTTL       time.Duration
	MaxAttempts   int
	NotifyTimeout time.Duration
}

// DeletionDeps groups the collaborators of the deletion workflow.
type DeletionDeps struct {
	Deletions model.DeletionStore
	Users     model.UserStore
	Messages  model.MessageStore
	Storage   model.Storage
	Sessions  model.SessionRegistry
	Audit     model.AuditStore
	Notifier  model.Notifier
	Context   model.ContextManager
}

// Deletion implements code-confirmed account erasure.
type Deletion struct {
	deps   DeletionDeps
	cfg    DeletionConfig
	logger *logger.Logger

	now          func() time.Time
	generateCode func() (string, error)
	wg           sync.WaitGroup
}

const defaultNotifyTimeout = 5 * time.Second

func NewDeletion(deps DeletionDeps, cfg DeletionConfig, logger *logger.Logger) *Deletion {
	if cfg.NotifyTimeout <= 0 {
		cfg.NotifyTimeout = defaultNotifyTimeout
	}
	return &Deletion{
		deps:         deps,
		cfg:          cfg,
		logger:       logger,
		now:          time.Now,
		generateCode: generateCode,
	}
}

// generateCode returns a uniformly distributed 6 digit code.
func generateCode() (string, error) {
	n, err := rand.Int(rand.Reader, big.NewInt(1_000_000))
	if err != nil {
		return "", fmt.Errorf("failed to generate code: %w", err)
	}
	return fmt.Sprintf("%06d", n.Int64()), nil
}

// RequestDeletion issues a new confirmation code for the user, replacing any
// pending request. email must match the account email; empty email selects it.
func (d *Deletion) RequestDeletion(ctx context.Context, userID uuid.UUID, email string) (model.DeletionTicket, error) {
	user, err := d.deps.Users.GetByID(ctx, userID)
	if errors.Is(err, model.ErrNotFound) {
		return model.DeletionTicket{}, model.ErrUserDoesNotExist
	}
	if err != nil {
		return model.DeletionTicket{}, fmt.Errorf("failed to get user: %w", err)
	}

	email = model.NormalizeEmail(email)
	if email == "" {
		email = user.Email
	}
	if email != user.Email {
		d.logger.Info("Deletion service: email does not match account",
			"user_id", userID)
		return model.DeletionTicket{}, model.ErrEmailMismatch
	}

	code, err := d.generateCode()
	if err != nil {
		return model.DeletionTicket{}, err
	}

	now := d.now()
	req := model.DeletionRequest{
		UserID:    userID,
		Code:      code,
		Email:     email,
		ExpiresAt: now.Add(d.cfg.CodeTTL),
		CreatedAt: now,
	}
	if err := d.deps.Deletions.Upsert(ctx, req); err != nil {
		d.logger.Error("Deletion service: failed to store deletion request",
			"user_id", userID,
			"error", err.Error())
		return model.DeletionTicket{}, fmt.Errorf("failed to store deletion request: %w", err)
	}

	d.audit(ctx, model.AuditEntry{
		Action:    model.AuditDeletionRequested,
		UserID:    userID,
		Timestamp: now,
	})

	d.notify("deletion code", func(ctx context.Context) error {
		return d.deps.Notifier.SendDeletionCode(ctx, email, code)
	})

	d.logger.Info("Deletion service: deletion requested",
		"user_id", userID,
		"expires_at", req.ExpiresAt)

	return model.DeletionTicket{ExpiresIn: d.cfg.CodeTTL}, nil
}

// ConfirmDeletion checks the code and, on a match, erases the account.
// The check and the attempt counter update happen atomically in the store;
// erasure runs after the request has been consumed.
func (d *Deletion) ConfirmDeletion(ctx context.Context, userID uuid.UUID, code string) (model.DeletionResult, error) {
	code = strings.TrimSpace(code)
	now := d.now()
	maxAttempts := d.cfg.MaxAttempts

	var consumed model.DeletionRequest
	err := d.deps.Deletions.Update(ctx, userID, func(req *model.DeletionRequest) (model.DeletionDecision, error) {
		if req.Expired(now) {
			return model.DeletionDrop, model.ErrCodeExpired
		}
		if req.Attempts >= maxAttempts {
			return model.DeletionDrop, model.ErrTooManyAttempts
		}
		if subtle.ConstantTimeCompare([]byte(code), []byte(req.Code)) != 1 {
			req.Attempts++
			if req.Attempts >= maxAttempts {
				return model.DeletionDrop, model.ErrTooManyAttempts
			}
			return model.DeletionKeep, &model.InvalidCodeError{Remaining: maxAttempts - req.Attempts}
		}
		consumed = *req
		return model.DeletionDrop, nil
	})
	if err != nil {
		return model.DeletionResult{}, d.confirmError(userID, err)
	}

	items, eraseErr := d.erase(ctx, userID)

	auditID := d.audit(ctx, model.AuditEntry{
		Action:       model.AuditAccountDeleted,
		UserID:       userID,
		Timestamp:    now,
		DeletedItems: &items,
	})

	if eraseErr != nil {
		d.logger.Error("Deletion service: account erasure incomplete",
			"user_id", userID,
			"deleted_items", items,
			"error", eraseErr.Error())
		return model.DeletionResult{Items: items, AuditID: auditID}, fmt.Errorf("failed to erase account: %w", eraseErr)
	}

	d.notify("deletion confirmation", func(ctx context.Context) error {
		return d.deps.Notifier.SendDeletionConfirmation(ctx, consumed.Email)
	})

	d.logger.Info("Deletion service: account deleted",
		"user_id", userID,
		"audit_id", auditID)

	return model.DeletionResult{Items: items, AuditID: auditID}, nil
}

func (d *Deletion) confirmError(userID uuid.UUID, err error) error {
	switch {
	case errors.Is(err, model.ErrNotFound):
		return model.ErrNoRequestFound
	case errors.Is(err, model.ErrInvalidCode):
		d.logger.Info("Deletion service: invalid confirmation code",
			"user_id", userID)
		return err
	case errors.Is(err, model.ErrCodeExpired), errors.Is(err, model.ErrTooManyAttempts):
		d.logger.Info("Deletion service: deletion request dropped",
			"user_id", userID,
			"reason", err.Error())
		return err
	default:
		d.logger.Error("Deletion service: failed to confirm deletion",
			"user_id", userID,
			"error", err.Error())
		return fmt.Errorf("failed to confirm deletion: %w", err)
	}
}

// erase removes everything owned by the user. It keeps going after a failed
// step and reports the counts that were achieved.
func (d *Deletion) erase(ctx context.Context, userID uuid.UUID) (model.DeletedItems, error) {
	var (
		items model.DeletedItems
		errs  []error
		err   error
	)

	if d.deps.Sessions != nil {
		items.Connections = d.deps.Sessions.Disconnect(userID)
	}

	items.Messages, err = d.deps.Messages.DeleteBySender(ctx, userID)
	if err != nil {
		errs = append(errs, fmt.Errorf("messages: %w", err))
	}

	if d.deps.Storage != nil {
		items.Files, err = d.deps.Storage.DeletePrefix(ctx, model.UserPrefix(userID.String()))
		if err != nil {
			errs = append(errs, fmt.Errorf("files: %w", err))
		}
	}

	items.Profile, err = d.deps.Users.DeleteByID(ctx, userID)
	if err != nil {
		errs = append(errs, fmt.Errorf("profile: %w", err))
	}

	// A session authenticated before the profile was removed may have
	// registered after the first sweep.
	if d.deps.Sessions != nil {
		items.Connections += d.deps.Sessions.Disconnect(userID)
	}

	return items, errors.Join(errs...)
}

// audit appends the entry and returns its id. Failures are logged only.
func (d *Deletion) audit(ctx context.Context, entry model.AuditEntry) string {
	id, err := ksuid.NewRandomWithTime(entry.Timestamp)
	if err != nil {
		d.logger.Error("Deletion service: failed to generate audit id",
			"error", err.Error())
		return ""
	}
	entry.ID = id.String()
	if d.deps.Context != nil {
		entry.IP = d.deps.Context.GetClientIPFromContext(ctx)
	}

	if err := d.deps.Audit.Append(ctx, entry); err != nil {
		d.logger.Error("Deletion service: failed to append audit entry",
			"user_id", entry.UserID,
			"action", entry.Action,
			"error", err.Error())
		return ""
	}
	return entry.ID
}

// notify delivers in the background with a bounded timeout.
func (d *Deletion) notify(kind string, send func(ctx context.Context) error) {
	if d.deps.Notifier == nil {
		return
	}

	d.wg.Add(1)
	go func() {
		defer d.wg.Done()

		ctx, cancel := context.WithTimeout(context.Background(), d.cfg.NotifyTimeout)
		defer cancel()

		if err := send(ctx); err != nil {
			d.logger.Warn("Deletion service: notification failed",
				"kind", kind,
				"error", err.Error())
		}
	}()
}

// Wait blocks until background notifications have finished.
func (d *Deletion) Wait() {
	d.wg.Wait()
}

// AuditLog returns up to limit newest entries in chronological order and the
// total number of entries.
func (d *Deletion) AuditLog(ctx context.Context, limit int) ([]model.AuditEntry, int64, error) {
	entries, err := d.deps.Audit.Recent(ctx, limit)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to read audit log: %w", err)
	}
	total, err := d.deps.Audit.Count(ctx)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to count audit log: %w", err)
	}
	return entries, total, nil
}
