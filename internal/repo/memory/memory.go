// Package memory provides in-process repository implementations used by tests
// and local development. Mutations are serialized per store with a mutex,
// mirroring the per-id write serialization the postgres store gets from its
// version column.
package memory

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"

	"github.com/collabglam/contractflow/internal/domain"
	"github.com/collabglam/contractflow/internal/repo"
)

type ContractStore struct {
	mu        sync.Mutex
	contracts map[string]domain.Contract
}

func NewContractStore() *ContractStore {
	return &ContractStore{contracts: make(map[string]domain.Contract)}
}

func (s *ContractStore) Create(ctx context.Context, contract domain.Contract) error {
	if err := contract.Validate(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.contracts[contract.ID]; ok {
		return fmt.Errorf("contract %s already exists", contract.ID)
	}
	contract.Version = 1
	s.contracts[contract.ID] = deepCopy(contract)
	return nil
}

func (s *ContractStore) Get(ctx context.Context, id string) (domain.Contract, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	contract, ok := s.contracts[id]
	if !ok {
		return domain.Contract{}, repo.ErrNotFound
	}
	return deepCopy(contract), nil
}

func (s *ContractStore) Update(ctx context.Context, contract domain.Contract, expectedVersion int64) (domain.Contract, error) {
	if err := contract.Validate(); err != nil {
		return domain.Contract{}, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	current, ok := s.contracts[contract.ID]
	if !ok {
		return domain.Contract{}, repo.ErrNotFound
	}
	if current.Version != expectedVersion {
		return domain.Contract{}, repo.ErrVersionConflict
	}
	contract.Version = expectedVersion + 1
	s.contracts[contract.ID] = deepCopy(contract)
	return deepCopy(contract), nil
}

func (s *ContractStore) List(ctx context.Context, filter repo.ContractFilter) ([]domain.Contract, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []domain.Contract
	for _, contract := range s.contracts {
		if filter.BrandID != "" && contract.BrandID != filter.BrandID {
			continue
		}
		if filter.InfluencerID != "" && contract.InfluencerID != filter.InfluencerID {
			continue
		}
		if filter.CampaignID != "" && contract.CampaignID != filter.CampaignID {
			continue
		}
		if filter.Status != "" && contract.Status != filter.Status {
			continue
		}
		out = append(out, deepCopy(contract))
		if filter.Limit > 0 && len(out) >= filter.Limit {
			break
		}
	}
	return out, nil
}

// deepCopy isolates stored state from caller mutations. The aggregate is
// JSON-serializable by construction (it persists as a JSONB document).
func deepCopy(c domain.Contract) domain.Contract {
	data, err := json.Marshal(c)
	if err != nil {
		return c
	}
	var out domain.Contract
	if err := json.Unmarshal(data, &out); err != nil {
		return c
	}
	out.Version = c.Version
	return out
}

// DirectoryStore is a fixed in-memory directory of read-only snapshots.
type DirectoryStore struct {
	mu          sync.RWMutex
	campaigns   map[string]domain.CampaignSnapshot
	brands      map[string]domain.BrandProfile
	influencers map[string]domain.InfluencerProfile
}

func NewDirectoryStore() *DirectoryStore {
	return &DirectoryStore{
		campaigns:   make(map[string]domain.CampaignSnapshot),
		brands:      make(map[string]domain.BrandProfile),
		influencers: make(map[string]domain.InfluencerProfile),
	}
}

func (s *DirectoryStore) PutCampaign(c domain.CampaignSnapshot) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.campaigns[c.ID] = c
}

func (s *DirectoryStore) PutBrand(id string, b domain.BrandProfile) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.brands[id] = b
}

func (s *DirectoryStore) PutInfluencer(id string, p domain.InfluencerProfile) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.influencers[id] = p
}

func (s *DirectoryStore) GetCampaign(ctx context.Context, campaignID string) (domain.CampaignSnapshot, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	c, ok := s.campaigns[campaignID]
	if !ok {
		return domain.CampaignSnapshot{}, repo.ErrNotFound
	}
	return c, nil
}

func (s *DirectoryStore) GetBrand(ctx context.Context, brandID string) (domain.BrandProfile, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	b, ok := s.brands[brandID]
	if !ok {
		return domain.BrandProfile{}, repo.ErrNotFound
	}
	return b, nil
}

func (s *DirectoryStore) GetInfluencer(ctx context.Context, influencerID string) (domain.InfluencerProfile, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	p, ok := s.influencers[influencerID]
	if !ok {
		return domain.InfluencerProfile{}, repo.ErrNotFound
	}
	return p, nil
}
