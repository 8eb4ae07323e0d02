// Package contracts orchestrates the tri-party negotiation lifecycle. Every
// operation is a single read-modify-write unit: load the aggregate, evaluate
// guards against that snapshot, mutate, persist with optimistic concurrency.
// Guards run before any write, so a rejected operation never leaves a partial
// mutation behind.
package contracts

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/collabglam/contractflow/internal/domain"
	"github.com/collabglam/contractflow/internal/platform/auditlog"
	"github.com/collabglam/contractflow/internal/platform/httpserver"
	"github.com/collabglam/contractflow/internal/platform/metrics"
	"github.com/collabglam/contractflow/internal/repo"
)

// CampaignSyncer pushes contract status changes to the campaign service.
type CampaignSyncer interface {
	SetCampaignContractStatus(ctx context.Context, campaignID, status string) error
}

// DocumentRenderer turns final HTML into exported document bytes.
type DocumentRenderer interface {
	Render(ctx context.Context, html string) ([]byte, error)
}

// LockArchiver stores the frozen render of a locked contract.
type LockArchiver interface {
	ArchiveLockedRender(ctx context.Context, contractID, html string, document []byte) error
}

type Deps struct {
	Contracts repo.ContractRepository
	Directory repo.Directory

	// Optional collaborators. Nil disables the concern.
	Audit        auditlog.QueryRower
	CampaignSync CampaignSyncer
	Documents    DocumentRenderer
	Archiver     LockArchiver
	Metrics      *metrics.Metrics
	Logger       *slog.Logger

	// Overridable for tests.
	Now   func() time.Time
	NewID func() string
}

type Service struct {
	contracts repo.ContractRepository
	directory repo.Directory
	audit     auditlog.QueryRower
	sync      CampaignSyncer
	documents DocumentRenderer
	archiver  LockArchiver
	metrics   *metrics.Metrics
	logger    *slog.Logger
	now       func() time.Time
	newID     func() string
}

func New(deps Deps) (*Service, error) {
	if deps.Contracts == nil {
		return nil, errors.New("contract repository is required")
	}
	if deps.Directory == nil {
		return nil, errors.New("directory is required")
	}
	logger := deps.Logger
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	now := deps.Now
	if now == nil {
		now = func() time.Time { return time.Now().UTC() }
	}
	newID := deps.NewID
	if newID == nil {
		newID = uuid.NewString
	}
	return &Service{
		contracts: deps.Contracts,
		directory: deps.Directory,
		audit:     deps.Audit,
		sync:      deps.CampaignSync,
		documents: deps.Documents,
		archiver:  deps.Archiver,
		metrics:   deps.Metrics,
		logger:    logger,
		now:       now,
		newID:     newID,
	}, nil
}

func (s *Service) Get(ctx context.Context, id string) (domain.Contract, error) {
	return s.load(ctx, id)
}

func (s *Service) List(ctx context.Context, filter repo.ContractFilter) ([]domain.Contract, error) {
	return s.contracts.List(ctx, filter)
}

func (s *Service) load(ctx context.Context, id string) (domain.Contract, error) {
	c, err := s.contracts.Get(ctx, id)
	if err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return domain.Contract{}, domain.NotFound("contract %s not found", id)
		}
		return domain.Contract{}, err
	}
	return c, nil
}

// persist writes the mutated aggregate and mirrors any audit entries appended
// since auditMark into the durable audit table. Mirroring is best-effort; the
// aggregate's embedded history is authoritative.
func (s *Service) persist(ctx context.Context, c domain.Contract, actor string, auditMark int) (domain.Contract, error) {
	c.UpdatedAt = s.now()
	saved, err := s.contracts.Update(ctx, c, c.Version)
	if err != nil {
		return domain.Contract{}, err
	}
	s.mirrorAudit(ctx, saved, actor, auditMark)
	return saved, nil
}

func (s *Service) mirrorAudit(ctx context.Context, c domain.Contract, actor string, auditMark int) {
	if s.audit == nil {
		return
	}
	for _, entry := range c.Audit[auditMark:] {
		if _, err := auditlog.InsertContractEvent(ctx, s.audit, c.ID, actor, requestIDFrom(ctx), entry); err != nil {
			s.logger.Error("audit mirror failed", "contract_id", c.ID, "event", entry.Type, "error", err)
		}
	}
}

// syncCampaign is fire-and-forget: a failed sync never surfaces to the caller.
func (s *Service) syncCampaign(ctx context.Context, campaignID string, status domain.Status) {
	if s.sync == nil || campaignID == "" {
		return
	}
	syncCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), 5*time.Second)
	defer cancel()
	if err := s.sync.SetCampaignContractStatus(syncCtx, campaignID, string(status)); err != nil {
		s.logger.Error("campaign sync failed", "campaign_id", campaignID, "status", status, "error", err)
	}
}

func requestIDFrom(ctx context.Context) string {
	id, _ := httpserver.RequestIDFromContext(ctx)
	return id
}

func guardNotLocked(c domain.Contract) error {
	if c.Locked() {
		return domain.PreconditionFailed("contract is locked")
	}
	return nil
}

func guardNotRejected(c domain.Contract) error {
	if c.Status == domain.StatusRejected {
		return domain.PreconditionFailed("contract is rejected")
	}
	return nil
}

func guardNotBothSigned(c domain.Contract) error {
	if c.BothSigned() {
		return domain.PreconditionFailed("terms are frozen: both parties have signed")
	}
	return nil
}
