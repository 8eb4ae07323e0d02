package contracts

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/collabglam/contractflow/internal/domain"
	"github.com/collabglam/contractflow/internal/render"
	"github.com/collabglam/contractflow/internal/repo"
	"github.com/collabglam/contractflow/internal/tokens"
)

const maxSignatureImageBytes = 2 << 20

// signRetries bounds the internal reload loop when two signers race on the
// same contract. The store's compare-and-swap guarantees the lock decision is
// evaluated against the latest signature set; the retry just hides the benign
// conflict from the second signer.
const signRetries = 3

type SignInput struct {
	Role         domain.Role
	UserID       string
	Name         string
	Email        string
	ImageDataURL string

	// EffectiveDateOverride is admin-supplied; when set it wins over the
	// signature-timestamp rule at lock time.
	EffectiveDateOverride *time.Time
}

func (in SignInput) Validate() error {
	if !in.Role.SignerRole() {
		return domain.ValidationFailed("role %q cannot sign", in.Role)
	}
	if in.ImageDataURL != "" {
		if !strings.HasPrefix(in.ImageDataURL, "data:image/") {
			return domain.ValidationFailed("signature image must be a data:image/ URL")
		}
		if len(in.ImageDataURL) > maxSignatureImageBytes {
			return domain.ValidationFailed("signature image exceeds %d bytes", maxSignatureImageBytes)
		}
	}
	return nil
}

// Sign records a signature for the role and runs the lock check. When all
// three signatures are present the effective date is resolved, the document
// is rendered and frozen, and the contract locks, all in the same write.
func (s *Service) Sign(ctx context.Context, id string, in SignInput) (c domain.Contract, err error) {
	defer func() { s.metrics.ObserveOp("sign", err) }()

	if err = in.Validate(); err != nil {
		return domain.Contract{}, err
	}

	for attempt := 0; ; attempt++ {
		c, err = s.signOnce(ctx, id, in)
		if err == nil {
			if c.Status == domain.StatusLocked {
				s.afterLock(ctx, c)
			}
			return c, nil
		}
		if !errors.Is(err, repo.ErrVersionConflict) || attempt >= signRetries {
			return domain.Contract{}, err
		}
	}
}

func (s *Service) signOnce(ctx context.Context, id string, in SignInput) (domain.Contract, error) {
	c, err := s.load(ctx, id)
	if err != nil {
		return domain.Contract{}, err
	}
	if err := guardNotLocked(c); err != nil {
		return domain.Contract{}, err
	}
	if err := guardNotRejected(c); err != nil {
		return domain.Contract{}, err
	}
	switch in.Role {
	case domain.RoleBrand:
		if !c.Confirmations.Brand.Confirmed {
			return domain.Contract{}, domain.PreconditionFailed("brand must confirm before signing")
		}
	case domain.RoleInfluencer:
		if !c.Confirmations.Influencer.Confirmed {
			return domain.Contract{}, domain.PreconditionFailed("influencer must confirm before signing")
		}
	}

	slot := c.SignatureFor(in.Role)
	if slot.Signed {
		// Signatures are one-way latches; re-signing changes nothing.
		return c, nil
	}

	now := s.now()
	auditMark := len(c.Audit)
	*slot = domain.Signature{
		Signed:       true,
		ByUserID:     in.UserID,
		Name:         in.Name,
		Email:        in.Email,
		At:           &now,
		ImageDataURL: in.ImageDataURL,
	}
	if in.EffectiveDateOverride != nil {
		v := in.EffectiveDateOverride.UTC()
		c.EffectiveDateOverride = &v
	}
	if !c.Status.AtLeast(domain.StatusFinalize) {
		c.Status = domain.StatusSigning
	}
	c.AppendAudit(domain.EventSigned, in.Role, domain.Metadata{
		"by_user_id": in.UserID,
		"name":       in.Name,
	}, now)

	if c.AllSigned() {
		s.lock(&c, now)
	}
	return s.persist(ctx, c, in.UserID, auditMark)
}

// lock resolves the effective date, renders and freezes the document
// snapshot, and moves the contract to its terminal immutable state.
func (s *Service) lock(c *domain.Contract, now time.Time) {
	effective := resolveEffectiveDate(*c, now)
	c.EffectiveDate = &effective

	start := s.now()
	tm := tokens.Build(*c, "")
	c.TemplateTokensSnapshot = tm
	c.TemplateVersion = c.Admin.LegalTemplateVersion
	c.Status = domain.StatusLocked
	c.LockedAt = &now
	c.RenderedTextSnapshot = render.Document(*c, tm)
	s.metrics.ObserveRender(s.now().Sub(start))

	c.AppendAudit(domain.EventLocked, domain.RoleCollabglam, domain.Metadata{
		"effective_date":   effective,
		"template_version": c.TemplateVersion,
	}, now)
}

// resolveEffectiveDate: admin override wins; otherwise the latest signature
// timestamp (the last signer's moment defines effectivity); now as a final
// fallback when no signature carries a timestamp.
func resolveEffectiveDate(c domain.Contract, now time.Time) time.Time {
	if c.EffectiveDateOverride != nil {
		return c.EffectiveDateOverride.UTC()
	}
	var latest time.Time
	for _, sig := range []domain.Signature{c.Signatures.Brand, c.Signatures.Influencer, c.Signatures.Collabglam} {
		if sig.At != nil && sig.At.After(latest) {
			latest = *sig.At
		}
	}
	if latest.IsZero() {
		return now.UTC()
	}
	return latest.UTC()
}

// afterLock runs the fire-and-forget side effects of a lock: campaign sync,
// document export, archive. Failures are logged and swallowed; the lock has
// already been durably persisted.
func (s *Service) afterLock(ctx context.Context, c domain.Contract) {
	s.syncCampaign(ctx, c.CampaignID, c.Status)

	if s.archiver == nil {
		return
	}
	sideCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), 30*time.Second)
	defer cancel()

	var document []byte
	if s.documents != nil {
		var err error
		document, err = s.documents.Render(sideCtx, c.RenderedTextSnapshot)
		if err != nil {
			s.logger.Warn("document export failed, archiving html only", "contract_id", c.ID, "error", err)
			document = nil
		}
	}
	if err := s.archiver.ArchiveLockedRender(sideCtx, c.ID, c.RenderedTextSnapshot, document); err != nil {
		s.logger.Error("archive failed", "contract_id", c.ID, "error", err)
	}
}
