package postgres

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/collabglam/contractflow/internal/domain"
	"github.com/collabglam/contractflow/internal/repo"
)

// DirectoryStore reads the campaign, brand and influencer snapshot tables.
// Those records are owned by the CRM services; this store only ever selects.
type DirectoryStore struct {
	db DB
}

func NewDirectoryStore(db DB) *DirectoryStore {
	if db == nil {
		return nil
	}
	return &DirectoryStore{db: db}
}

func (s *DirectoryStore) GetCampaign(ctx context.Context, campaignID string) (domain.CampaignSnapshot, error) {
	if s == nil || s.db == nil {
		return domain.CampaignSnapshot{}, fmt.Errorf("directory store not initialized")
	}
	campaignID = strings.TrimSpace(campaignID)
	if campaignID == "" {
		return domain.CampaignSnapshot{}, fmt.Errorf("campaign id is required")
	}

	var snapshot []byte
	err := s.db.QueryRowContext(
		ctx,
		`SELECT snapshot FROM campaign_snapshots WHERE campaign_id = $1`,
		campaignID,
	).Scan(&snapshot)
	if err != nil {
		return domain.CampaignSnapshot{}, snapshotErr("campaign", err)
	}
	var out domain.CampaignSnapshot
	if err := json.Unmarshal(snapshot, &out); err != nil {
		return domain.CampaignSnapshot{}, fmt.Errorf("decode campaign snapshot: %w", err)
	}
	if out.ID == "" {
		out.ID = campaignID
	}
	return out, nil
}

func (s *DirectoryStore) GetBrand(ctx context.Context, brandID string) (domain.BrandProfile, error) {
	if s == nil || s.db == nil {
		return domain.BrandProfile{}, fmt.Errorf("directory store not initialized")
	}
	brandID = strings.TrimSpace(brandID)
	if brandID == "" {
		return domain.BrandProfile{}, fmt.Errorf("brand id is required")
	}

	var snapshot []byte
	err := s.db.QueryRowContext(
		ctx,
		`SELECT snapshot FROM brand_snapshots WHERE brand_id = $1`,
		brandID,
	).Scan(&snapshot)
	if err != nil {
		return domain.BrandProfile{}, snapshotErr("brand", err)
	}
	var out domain.BrandProfile
	if err := json.Unmarshal(snapshot, &out); err != nil {
		return domain.BrandProfile{}, fmt.Errorf("decode brand snapshot: %w", err)
	}
	return out, nil
}

func (s *DirectoryStore) GetInfluencer(ctx context.Context, influencerID string) (domain.InfluencerProfile, error) {
	if s == nil || s.db == nil {
		return domain.InfluencerProfile{}, fmt.Errorf("directory store not initialized")
	}
	influencerID = strings.TrimSpace(influencerID)
	if influencerID == "" {
		return domain.InfluencerProfile{}, fmt.Errorf("influencer id is required")
	}

	var snapshot []byte
	err := s.db.QueryRowContext(
		ctx,
		`SELECT snapshot FROM influencer_snapshots WHERE influencer_id = $1`,
		influencerID,
	).Scan(&snapshot)
	if err != nil {
		return domain.InfluencerProfile{}, snapshotErr("influencer", err)
	}
	var out domain.InfluencerProfile
	if err := json.Unmarshal(snapshot, &out); err != nil {
		return domain.InfluencerProfile{}, fmt.Errorf("decode influencer snapshot: %w", err)
	}
	return out, nil
}

func snapshotErr(kind string, err error) error {
	if isNoRows(err) {
		return repo.ErrNotFound
	}
	return fmt.Errorf("select %s snapshot: %w", kind, err)
}
