package contracts

import (
	"context"
	"errors"
	"strings"

	"github.com/collabglam/contractflow/internal/domain"
	"github.com/collabglam/contractflow/internal/render"
	"github.com/collabglam/contractflow/internal/repo"
	"github.com/collabglam/contractflow/internal/structdiff"
)

// Fee policy applied to newly initiated contracts until an admin overrides it.
var defaultFeePolicy = domain.FeePolicy{
	PlatformFeeBps:   1500,
	PaymentTermsDays: 30,
}

type InitiateInput struct {
	BrandID      string
	InfluencerID string
	CampaignID   string
	ActorUserID  string

	// Draft creates the contract without sending it (preview-only).
	Draft bool
}

func (in InitiateInput) Validate() error {
	if strings.TrimSpace(in.BrandID) == "" {
		return domain.ValidationFailed("brand id is required")
	}
	if strings.TrimSpace(in.InfluencerID) == "" {
		return domain.ValidationFailed("influencer id is required")
	}
	return nil
}

// Initiate creates a contract from the current campaign, brand and influencer
// snapshots and emits INITIATED.
func (s *Service) Initiate(ctx context.Context, in InitiateInput) (c domain.Contract, err error) {
	defer func() { s.metrics.ObserveOp("initiate", err) }()

	if err = in.Validate(); err != nil {
		return domain.Contract{}, err
	}

	brand, err := s.directory.GetBrand(ctx, in.BrandID)
	if err != nil {
		return domain.Contract{}, directoryErr("brand", in.BrandID, err)
	}
	influencer, err := s.directory.GetInfluencer(ctx, in.InfluencerID)
	if err != nil {
		return domain.Contract{}, directoryErr("influencer", in.InfluencerID, err)
	}

	var campaign domain.CampaignSnapshot
	if strings.TrimSpace(in.CampaignID) != "" {
		campaign, err = s.directory.GetCampaign(ctx, in.CampaignID)
		if err != nil {
			return domain.Contract{}, directoryErr("campaign", in.CampaignID, err)
		}
	}

	now := s.now()
	status := domain.StatusSent
	if in.Draft {
		status = domain.StatusDraft
	}

	c = domain.Contract{
		ID:           s.newID(),
		BrandID:      strings.TrimSpace(in.BrandID),
		InfluencerID: strings.TrimSpace(in.InfluencerID),
		CampaignID:   strings.TrimSpace(in.CampaignID),
		Status:       status,
		Brand: domain.BrandTerms{
			CampaignTitle: campaign.Title,
			Platforms:     append([]string(nil), campaign.Platforms...),
			GoLiveStart:   campaign.GoLiveStart,
			GoLiveEnd:     campaign.GoLiveEnd,
		},
		Influencer: domain.InfluencerAcceptance{
			Handle: influencer.Handle,
			Email:  influencer.Email,
		},
		Other: domain.ProfileSnapshots{
			BrandProfile:      brand,
			InfluencerProfile: influencer,
		},
		Admin: domain.AdminSettings{
			LegalTemplateText:    render.DefaultTemplateText,
			LegalTemplateVersion: render.DefaultTemplateVersion,
			FeePolicy:            defaultFeePolicy,
		},
		TemplateVersion: render.DefaultTemplateVersion,
		CreatedAt:       now,
		UpdatedAt:       now,
	}
	domain.ApplyDeliverableDefaults(&c, now)
	c.AppendAudit(domain.EventInitiated, domain.RoleBrand, domain.Metadata{
		"by_user_id":  in.ActorUserID,
		"campaign_id": c.CampaignID,
		"draft":       in.Draft,
	}, now)

	if err = c.Validate(); err != nil {
		return domain.Contract{}, domain.ValidationFailed("%s", err.Error())
	}
	if err = s.contracts.Create(ctx, c); err != nil {
		return domain.Contract{}, err
	}
	c.Version = 1

	s.mirrorAudit(ctx, c, in.ActorUserID, 0)
	s.syncCampaign(ctx, c.CampaignID, c.Status)
	return c, nil
}

// MarkViewed moves a delivered contract to viewed. Calling it again once the
// contract has advanced is a no-op success.
func (s *Service) MarkViewed(ctx context.Context, id string, role domain.Role, userID string) (c domain.Contract, err error) {
	defer func() { s.metrics.ObserveOp("viewed", err) }()

	c, err = s.load(ctx, id)
	if err != nil {
		return domain.Contract{}, err
	}
	if err = guardNotLocked(c); err != nil {
		return domain.Contract{}, err
	}
	if err = guardNotRejected(c); err != nil {
		return domain.Contract{}, err
	}
	if c.Status.AtLeast(domain.StatusViewed) {
		return c, nil
	}

	now := s.now()
	auditMark := len(c.Audit)
	c.Status = domain.StatusViewed
	c.AppendAudit(domain.EventViewed, role, domain.Metadata{"by_user_id": userID}, now)
	return s.persist(ctx, c, userID, auditMark)
}

// BrandConfirm sets the brand confirmation latch. Confirmations are one-way;
// a repeated confirm is a no-op success.
func (s *Service) BrandConfirm(ctx context.Context, id, userID string) (c domain.Contract, err error) {
	defer func() { s.metrics.ObserveOp("brand_confirm", err) }()

	c, err = s.load(ctx, id)
	if err != nil {
		return domain.Contract{}, err
	}
	if err = guardNotLocked(c); err != nil {
		return domain.Contract{}, err
	}
	if c.Confirmations.Brand.Confirmed {
		return c, nil
	}

	now := s.now()
	auditMark := len(c.Audit)
	c.Confirmations.Brand = domain.Confirmation{Confirmed: true, ByUserID: userID, At: &now}
	if c.Status == domain.StatusSent {
		c.Status = domain.StatusViewed
	}
	c.AppendAudit(domain.EventBrandConfirmed, domain.RoleBrand, domain.Metadata{"by_user_id": userID}, now)
	return s.persist(ctx, c, userID, auditMark)
}

// InfluencerConfirm merges the acceptance payload and sets the influencer
// confirmation latch. Allowed until the contract is frozen for signing.
func (s *Service) InfluencerConfirm(ctx context.Context, id, userID string, patch domain.InfluencerPatch) (c domain.Contract, err error) {
	defer func() { s.metrics.ObserveOp("influencer_confirm", err) }()

	c, err = s.load(ctx, id)
	if err != nil {
		return domain.Contract{}, err
	}
	if err = guardNotLocked(c); err != nil {
		return domain.Contract{}, err
	}
	if c.Status == domain.StatusFinalize || c.Status == domain.StatusSigning {
		return domain.Contract{}, domain.PreconditionFailed("contract is in %s", c.Status)
	}

	now := s.now()
	auditMark := len(c.Audit)
	before := c.Clone()

	patch.Apply(&c.Influencer)
	changed, err := structdiff.Changed(before, c, []string{"influencer"})
	if err != nil {
		return domain.Contract{}, err
	}
	if len(changed) > 0 {
		c.MarkEdit(domain.RoleInfluencer, userID, changed, now)
	}

	alreadyConfirmed := c.Confirmations.Influencer.Confirmed
	if !alreadyConfirmed {
		c.Confirmations.Influencer = domain.Confirmation{Confirmed: true, ByUserID: userID, At: &now}
	}
	if !alreadyConfirmed || len(changed) > 0 {
		c.AppendAudit(domain.EventInfluencerConfirmed, domain.RoleInfluencer, domain.Metadata{
			"by_user_id": userID,
			"fields":     changed,
		}, now)
		return s.persist(ctx, c, userID, auditMark)
	}
	return c, nil
}

// Finalize freezes the contract for signing. Beyond its target state it is a
// no-op success, not an error.
func (s *Service) Finalize(ctx context.Context, id string, role domain.Role, userID string) (c domain.Contract, err error) {
	defer func() { s.metrics.ObserveOp("finalize", err) }()

	c, err = s.load(ctx, id)
	if err != nil {
		return domain.Contract{}, err
	}
	if err = guardNotLocked(c); err != nil {
		return domain.Contract{}, err
	}
	if err = guardNotRejected(c); err != nil {
		return domain.Contract{}, err
	}
	if c.Status.AtLeast(domain.StatusFinalize) {
		return c, nil
	}

	now := s.now()
	auditMark := len(c.Audit)
	c.Status = domain.StatusFinalize
	c.AppendAudit(domain.EventFinalized, role, domain.Metadata{"by_user_id": userID}, now)
	return s.persist(ctx, c, userID, auditMark)
}

type RejectInput struct {
	ActorUserID string
	// InfluencerID, when set, must match the contract's influencer.
	InfluencerID string
	Reason       string
}

// Reject declines the contract and severs the campaign linkage.
func (s *Service) Reject(ctx context.Context, id string, in RejectInput) (c domain.Contract, err error) {
	defer func() { s.metrics.ObserveOp("reject", err) }()

	c, err = s.load(ctx, id)
	if err != nil {
		return domain.Contract{}, err
	}
	if err = guardNotLocked(c); err != nil {
		return domain.Contract{}, err
	}
	if strings.TrimSpace(in.InfluencerID) != "" && in.InfluencerID != c.InfluencerID {
		return domain.Contract{}, domain.Forbidden("caller is not a party to this contract")
	}
	if c.Status == domain.StatusRejected {
		return c, nil
	}

	now := s.now()
	auditMark := len(c.Audit)
	rejectedCampaign := c.CampaignID
	c.Status = domain.StatusRejected
	c.CampaignID = ""
	c.AppendAudit(domain.EventRejected, domain.RoleInfluencer, domain.Metadata{
		"by_user_id":  in.ActorUserID,
		"reason":      in.Reason,
		"campaign_id": rejectedCampaign,
	}, now)

	saved, err := s.persist(ctx, c, in.ActorUserID, auditMark)
	if err != nil {
		return domain.Contract{}, err
	}
	s.syncCampaign(ctx, rejectedCampaign, domain.StatusRejected)
	return saved, nil
}

func directoryErr(kind, id string, err error) error {
	if errors.Is(err, repo.ErrNotFound) {
		return domain.NotFound("%s %s not found", kind, id)
	}
	return err
}
