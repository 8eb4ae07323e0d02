package repo

import (
	"context"
	"errors"

	"github.com/collabglam/contractflow/internal/domain"
)

var (
	// ErrNotFound signals a missing record.
	ErrNotFound = errors.New("not found")
	// ErrVersionConflict signals that Update lost an optimistic-concurrency
	// race: another writer persisted a newer version of the same contract.
	ErrVersionConflict = errors.New("version conflict")
)

// ContractFilter narrows contract listings.
type ContractFilter struct {
	BrandID      string
	InfluencerID string
	CampaignID   string
	Status       domain.Status
	Limit        int
}

// ContractRepository persists the contract aggregate. Update is a compare-and
// -swap on the version column so concurrent writers to the same contract are
// serialized; the lock transition is therefore always evaluated against the
// true latest signature set.
type ContractRepository interface {
	Create(ctx context.Context, contract domain.Contract) error
	Get(ctx context.Context, id string) (domain.Contract, error)
	Update(ctx context.Context, contract domain.Contract, expectedVersion int64) (domain.Contract, error)
	List(ctx context.Context, filter ContractFilter) ([]domain.Contract, error)
}

// Directory provides the read-only snapshots consumed at initiate and resend.
// The underlying records are owned elsewhere; this service never writes them.
type Directory interface {
	GetCampaign(ctx context.Context, campaignID string) (domain.CampaignSnapshot, error)
	GetBrand(ctx context.Context, brandID string) (domain.BrandProfile, error)
	GetInfluencer(ctx context.Context, influencerID string) (domain.InfluencerProfile, error)
}
