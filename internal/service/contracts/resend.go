package contracts

import (
	"context"

	"github.com/collabglam/contractflow/internal/domain"
)

// ResendResult carries both sides of a resend: the superseded parent and the
// freshly created child.
type ResendResult struct {
	Parent domain.Contract
	Child  domain.Contract
}

// Resend creates a new linked contract version for renegotiation. The child
// carries the parent's brand terms forward with the influencer's current
// handle enforced; confirmations, signatures and edit state start clean.
func (s *Service) Resend(ctx context.Context, id, userID string) (res ResendResult, err error) {
	defer func() { s.metrics.ObserveOp("resend", err) }()

	parent, err := s.load(ctx, id)
	if err != nil {
		return ResendResult{}, err
	}
	if err = guardNotLocked(parent); err != nil {
		return ResendResult{}, err
	}
	if parent.SupersededBy != "" {
		return ResendResult{}, domain.PreconditionFailed("contract already superseded by %s", parent.SupersededBy)
	}

	influencer, err := s.directory.GetInfluencer(ctx, parent.InfluencerID)
	if err != nil {
		return ResendResult{}, directoryErr("influencer", parent.InfluencerID, err)
	}

	now := s.now()
	// Seed from a deep copy: the child's default recomputation must never
	// reach back into the parent's stored terms.
	seed := parent.Clone()
	child := domain.Contract{
		ID:              s.newID(),
		BrandID:         parent.BrandID,
		InfluencerID:    parent.InfluencerID,
		CampaignID:      parent.CampaignID,
		ResendOf:        parent.ID,
		ResendIteration: parent.ResendIteration + 1,
		Status:          domain.StatusSent,
		Brand:           seed.Brand,
		Influencer:      seed.Influencer,
		Other:           seed.Other,
		Admin:           seed.Admin,
		TemplateVersion: parent.Admin.LegalTemplateVersion,
		CreatedAt:       now,
		UpdatedAt:       now,
	}
	if influencer.Handle != "" {
		child.Influencer.Handle = influencer.Handle
	}
	child.Other.InfluencerProfile = influencer
	domain.ApplyDeliverableDefaults(&child, now)
	child.AppendAudit(domain.EventResentChildCreated, domain.RoleBrand, domain.Metadata{
		"by_user_id":       userID,
		"resend_of":        parent.ID,
		"resend_iteration": child.ResendIteration,
	}, now)

	if err = child.Validate(); err != nil {
		return ResendResult{}, domain.ValidationFailed("%s", err.Error())
	}
	if err = s.contracts.Create(ctx, child); err != nil {
		return ResendResult{}, err
	}
	child.Version = 1
	s.mirrorAudit(ctx, child, userID, 0)

	parentMark := len(parent.Audit)
	parent.SupersededBy = child.ID
	parent.ResentAt = &now
	parent.AppendAudit(domain.EventResent, domain.RoleBrand, domain.Metadata{
		"by_user_id":    userID,
		"superseded_by": child.ID,
	}, now)
	savedParent, err := s.persist(ctx, parent, userID, parentMark)
	if err != nil {
		return ResendResult{}, err
	}

	s.syncCampaign(ctx, child.CampaignID, child.Status)
	return ResendResult{Parent: savedParent, Child: child}, nil
}
