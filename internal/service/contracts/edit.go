package contracts

import (
	"context"

	"github.com/collabglam/contractflow/internal/domain"
	"github.com/collabglam/contractflow/internal/render"
	"github.com/collabglam/contractflow/internal/structdiff"
)

// BrandUpdateFields applies a scoped brand edit. Brand edits are only open
// before anyone confirms: once a confirmation latch is set the terms the
// counterparty reviewed must not shift under them.
func (s *Service) BrandUpdateFields(ctx context.Context, id, userID string, patch domain.BrandPatch) (c domain.Contract, err error) {
	defer func() { s.metrics.ObserveOp("brand_update", err) }()

	if patch.Empty() {
		return domain.Contract{}, domain.ValidationFailed("patch carries no fields")
	}
	if err = patch.Validate(); err != nil {
		return domain.Contract{}, err
	}

	c, err = s.load(ctx, id)
	if err != nil {
		return domain.Contract{}, err
	}
	if err = guardNotLocked(c); err != nil {
		return domain.Contract{}, err
	}
	if err = guardNotBothSigned(c); err != nil {
		return domain.Contract{}, err
	}
	if c.Confirmations.Brand.Confirmed || c.Confirmations.Influencer.Confirmed {
		return domain.Contract{}, domain.PreconditionFailed("terms already confirmed; resend to renegotiate")
	}

	now := s.now()
	auditMark := len(c.Audit)
	// Deep copy: ApplyDeliverableDefaults mutates deliverables in place, and a
	// shallow snapshot sharing the backing array would hide those changes from
	// the diff.
	before := c.Clone()

	patch.Apply(&c.Brand)
	domain.ApplyDeliverableDefaults(&c, now)

	changed, err := structdiff.Changed(before, c, []string{"brand", "other"})
	if err != nil {
		return domain.Contract{}, err
	}
	if len(changed) == 0 {
		return before, nil
	}

	c.MarkEdit(domain.RoleBrand, userID, changed, now)
	if !c.Status.AtLeast(domain.StatusFinalize) {
		c.Status = domain.StatusNegotiation
	}
	c.AppendAudit(domain.EventBrandEdited, domain.RoleBrand, domain.Metadata{
		"by_user_id": userID,
		"fields":     changed,
	}, now)
	return s.persist(ctx, c, userID, auditMark)
}

// InfluencerUpdateFields applies a scoped influencer edit. The influencer must
// have confirmed first; their edits refine the acceptance payload they
// committed to.
func (s *Service) InfluencerUpdateFields(ctx context.Context, id, userID string, patch domain.InfluencerPatch) (c domain.Contract, err error) {
	defer func() { s.metrics.ObserveOp("influencer_update", err) }()

	if patch.Empty() {
		return domain.Contract{}, domain.ValidationFailed("patch carries no fields")
	}

	c, err = s.load(ctx, id)
	if err != nil {
		return domain.Contract{}, err
	}
	if err = guardNotLocked(c); err != nil {
		return domain.Contract{}, err
	}
	if err = guardNotBothSigned(c); err != nil {
		return domain.Contract{}, err
	}
	if !c.Confirmations.Influencer.Confirmed {
		return domain.Contract{}, domain.PreconditionFailed("influencer has not confirmed yet")
	}

	now := s.now()
	auditMark := len(c.Audit)
	before := c.Clone()

	patch.Apply(&c.Influencer)
	changed, err := structdiff.Changed(before, c, []string{"influencer"})
	if err != nil {
		return domain.Contract{}, err
	}
	if len(changed) == 0 {
		return before, nil
	}

	c.MarkEdit(domain.RoleInfluencer, userID, changed, now)
	if !c.Status.AtLeast(domain.StatusFinalize) {
		c.Status = domain.StatusNegotiation
	}
	c.AppendAudit(domain.EventInfluencerEdited, domain.RoleInfluencer, domain.Metadata{
		"by_user_id": userID,
		"fields":     changed,
	}, now)
	return s.persist(ctx, c, userID, auditMark)
}

// AdminUpdate merges platform-controlled settings. A new legal text bumps the
// template version and appends the revision to the history so an in-flight
// negotiation keeps an auditable template trail.
func (s *Service) AdminUpdate(ctx context.Context, id string, actor domain.Role, userID string, patch domain.AdminPatch) (c domain.Contract, err error) {
	defer func() { s.metrics.ObserveOp("admin_update", err) }()

	if actor != domain.RoleAdmin {
		return domain.Contract{}, domain.Forbidden("admin update requires the admin role")
	}
	if patch.Empty() {
		return domain.Contract{}, domain.ValidationFailed("patch carries no fields")
	}

	c, err = s.load(ctx, id)
	if err != nil {
		return domain.Contract{}, err
	}
	if err = guardNotLocked(c); err != nil {
		return domain.Contract{}, err
	}
	if err = guardNotBothSigned(c); err != nil {
		return domain.Contract{}, err
	}

	now := s.now()
	auditMark := len(c.Audit)
	before := c.Clone()

	patch.Apply(&c.Admin)
	if patch.EffectiveDateTimezone != nil {
		c.EffectiveDateTimezone = *patch.EffectiveDateTimezone
	}
	if patch.LegalTemplateText != nil && *patch.LegalTemplateText != c.Admin.LegalTemplateText {
		if err = render.ValidateTemplate(*patch.LegalTemplateText); err != nil {
			return domain.Contract{}, domain.ValidationFailed("legal template: %s", err.Error())
		}
		c.Admin.LegalTemplateText = *patch.LegalTemplateText
		c.Admin.LegalTemplateVersion++
		c.Admin.LegalTemplateHistory = append(c.Admin.LegalTemplateHistory, domain.TemplateRevision{
			Version:   c.Admin.LegalTemplateVersion,
			Text:      *patch.LegalTemplateText,
			UpdatedAt: now,
			UpdatedBy: userID,
		})
		c.TemplateVersion = c.Admin.LegalTemplateVersion
	}

	changed, err := structdiff.Changed(before, c, []string{"admin", "effective_date_timezone"})
	if err != nil {
		return domain.Contract{}, err
	}
	if len(changed) == 0 {
		return before, nil
	}

	c.AppendAudit(domain.EventAdminUpdated, domain.RoleAdmin, domain.Metadata{
		"by_user_id": userID,
		"fields":     changed,
	}, now)
	return s.persist(ctx, c, userID, auditMark)
}
