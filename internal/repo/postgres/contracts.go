package postgres

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/collabglam/contractflow/internal/domain"
	"github.com/collabglam/contractflow/internal/repo"
)

// ContractStore persists the contract aggregate as a JSONB document. The
// version column is the optimistic-concurrency token: Update is a
// compare-and-swap, so two writers racing on the same contract cannot both
// win, and the lock check is always evaluated against the latest state.
type ContractStore struct {
	db DB
}

func NewContractStore(db DB) *ContractStore {
	if db == nil {
		return nil
	}
	return &ContractStore{db: db}
}

func (s *ContractStore) Create(ctx context.Context, contract domain.Contract) error {
	if s == nil || s.db == nil {
		return fmt.Errorf("contract store not initialized")
	}
	if err := contract.Validate(); err != nil {
		return err
	}
	document, err := json.Marshal(contract)
	if err != nil {
		return fmt.Errorf("encode contract: %w", err)
	}
	createdAt := normalizeTime(contract.CreatedAt)
	updatedAt := normalizeTime(contract.UpdatedAt)
	_, err = s.db.ExecContext(
		ctx,
		`INSERT INTO contracts (
			contract_id,
			brand_id,
			influencer_id,
			campaign_id,
			status,
			version,
			document,
			created_at,
			updated_at
		) VALUES ($1,$2,$3,$4,$5,1,$6,$7,$8)`,
		strings.TrimSpace(contract.ID),
		strings.TrimSpace(contract.BrandID),
		strings.TrimSpace(contract.InfluencerID),
		nullIfEmpty(strings.TrimSpace(contract.CampaignID)),
		string(contract.Status),
		document,
		createdAt,
		updatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert contract: %w", err)
	}
	return nil
}

func (s *ContractStore) Get(ctx context.Context, id string) (domain.Contract, error) {
	if s == nil || s.db == nil {
		return domain.Contract{}, fmt.Errorf("contract store not initialized")
	}
	id = strings.TrimSpace(id)
	if id == "" {
		return domain.Contract{}, fmt.Errorf("contract id is required")
	}

	var (
		document []byte
		version  int64
	)
	err := s.db.QueryRowContext(
		ctx,
		`SELECT document, version FROM contracts WHERE contract_id = $1`,
		id,
	).Scan(&document, &version)
	if err != nil {
		if isNoRows(err) {
			return domain.Contract{}, repo.ErrNotFound
		}
		return domain.Contract{}, fmt.Errorf("select contract: %w", err)
	}

	var contract domain.Contract
	if err := json.Unmarshal(document, &contract); err != nil {
		return domain.Contract{}, fmt.Errorf("decode contract: %w", err)
	}
	contract.Version = version
	return contract, nil
}

func (s *ContractStore) Update(ctx context.Context, contract domain.Contract, expectedVersion int64) (domain.Contract, error) {
	if s == nil || s.db == nil {
		return domain.Contract{}, fmt.Errorf("contract store not initialized")
	}
	if err := contract.Validate(); err != nil {
		return domain.Contract{}, err
	}
	if expectedVersion < 1 {
		return domain.Contract{}, fmt.Errorf("expected version must be >= 1")
	}
	document, err := json.Marshal(contract)
	if err != nil {
		return domain.Contract{}, fmt.Errorf("encode contract: %w", err)
	}

	result, err := s.db.ExecContext(
		ctx,
		`UPDATE contracts
		 SET campaign_id = $2,
		     status = $3,
		     version = version + 1,
		     document = $4,
		     updated_at = $5
		 WHERE contract_id = $1 AND version = $6`,
		strings.TrimSpace(contract.ID),
		nullIfEmpty(strings.TrimSpace(contract.CampaignID)),
		string(contract.Status),
		document,
		normalizeTime(contract.UpdatedAt),
		expectedVersion,
	)
	if err != nil {
		return domain.Contract{}, fmt.Errorf("update contract: %w", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return domain.Contract{}, fmt.Errorf("update contract: rows affected: %w", err)
	}
	if affected == 0 {
		// Either the row is gone or another writer advanced the version.
		var exists bool
		err := s.db.QueryRowContext(
			ctx,
			`SELECT EXISTS (SELECT 1 FROM contracts WHERE contract_id = $1)`,
			strings.TrimSpace(contract.ID),
		).Scan(&exists)
		if err != nil {
			return domain.Contract{}, fmt.Errorf("check contract existence: %w", err)
		}
		if !exists {
			return domain.Contract{}, repo.ErrNotFound
		}
		return domain.Contract{}, repo.ErrVersionConflict
	}

	contract.Version = expectedVersion + 1
	return contract, nil
}

func (s *ContractStore) List(ctx context.Context, filter repo.ContractFilter) ([]domain.Contract, error) {
	if s == nil || s.db == nil {
		return nil, fmt.Errorf("contract store not initialized")
	}

	query := `SELECT document, version FROM contracts`
	var (
		clauses []string
		args    []any
	)
	addClause := func(column string, value string) {
		args = append(args, value)
		clauses = append(clauses, fmt.Sprintf("%s = $%d", column, len(args)))
	}
	if filter.BrandID != "" {
		addClause("brand_id", filter.BrandID)
	}
	if filter.InfluencerID != "" {
		addClause("influencer_id", filter.InfluencerID)
	}
	if filter.CampaignID != "" {
		addClause("campaign_id", filter.CampaignID)
	}
	if filter.Status != "" {
		addClause("status", string(filter.Status))
	}
	if len(clauses) > 0 {
		query += " WHERE " + strings.Join(clauses, " AND ")
	}
	query += " ORDER BY created_at DESC"
	if filter.Limit > 0 {
		args = append(args, filter.Limit)
		query += fmt.Sprintf(" LIMIT $%d", len(args))
	}

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list contracts: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var out []domain.Contract
	for rows.Next() {
		var (
			document []byte
			version  int64
		)
		if err := rows.Scan(&document, &version); err != nil {
			return nil, fmt.Errorf("scan contract: %w", err)
		}
		var contract domain.Contract
		if err := json.Unmarshal(document, &contract); err != nil {
			return nil, fmt.Errorf("decode contract: %w", err)
		}
		contract.Version = version
		out = append(out, contract)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list contracts: %w", err)
	}
	return out, nil
}
