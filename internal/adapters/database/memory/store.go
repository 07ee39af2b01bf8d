package memory

import (
	"context"
	"encoding/json"
	"fmt"
	"maps"
	"os"
	"sort"
	"sync"
	"time"

	"github.com/SscSPs/farm_payouts/internal/apperrors"
	"github.com/SscSPs/farm_payouts/internal/core/domain"
	portsrepo "github.com/SscSPs/farm_payouts/internal/core/ports/repositories"
)

type txKey struct{}

// Store is an in-process implementation of every repository port. A single
// mutex serialises access; RunInTx holds it for the whole unit of work and
// restores a snapshot when the work fails.
type Store struct {
	mu          sync.Mutex
	collections map[string]domain.Collection
	farmers     map[string]domain.Farmer
	loans       map[string]domain.Loan // keyed by farmer ID
	payouts     map[string]domain.PayoutTransaction
}

// NewStore creates an empty Store.
func NewStore() *Store {
	return &Store{
		collections: make(map[string]domain.Collection),
		farmers:     make(map[string]domain.Farmer),
		loans:       make(map[string]domain.Loan),
		payouts:     make(map[string]domain.PayoutTransaction),
	}
}

// Ensure Store implements the repository ports
var (
	_ portsrepo.CollectionRepositoryFacade = (*Store)(nil)
	_ portsrepo.LoanRepositoryFacade       = (*Store)(nil)
	_ portsrepo.FarmerRepositoryFacade     = (*Store)(nil)
	_ portsrepo.PayoutRepositoryFacade     = (*Store)(nil)
	_ portsrepo.UnitOfWork                 = (*Store)(nil)
)

// Repositories exposes the store through the RepositoryProvider used by services.
func (s *Store) Repositories() portsrepo.RepositoryProvider {
	return portsrepo.RepositoryProvider{
		CollectionRepo: s,
		LoanRepo:       s,
		FarmerRepo:     s,
		PayoutRepo:     s,
		UnitOfWork:     s,
	}
}

// lock acquires the store mutex unless ctx already belongs to a RunInTx call.
func (s *Store) lock(ctx context.Context) func() {
	if owner, _ := ctx.Value(txKey{}).(*Store); owner == s {
		return func() {}
	}
	s.mu.Lock()
	return s.mu.Unlock
}

// RunInTx implements portsrepo.UnitOfWork.
func (s *Store) RunInTx(ctx context.Context, fn func(ctx context.Context) error) error {
	if owner, _ := ctx.Value(txKey{}).(*Store); owner == s {
		return fn(ctx)
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	collections := maps.Clone(s.collections)
	loans := maps.Clone(s.loans)
	payouts := maps.Clone(s.payouts)

	if err := fn(context.WithValue(ctx, txKey{}, s)); err != nil {
		s.collections = collections
		s.loans = loans
		s.payouts = payouts
		return err
	}
	return nil
}

// --- Seeding ---

// PutCollection inserts or replaces a collection.
func (s *Store) PutCollection(c domain.Collection) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.collections[c.CollectionID] = c
}

// PutFarmer inserts or replaces a farmer.
func (s *Store) PutFarmer(f domain.Farmer) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.farmers[f.FarmerID] = f
}

// PutLoan inserts or replaces the farmer's loan.
func (s *Store) PutLoan(l domain.Loan) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.loans[l.FarmerID] = l
}

type seedFile struct {
	Farmers     []domain.Farmer     `json:"farmers"`
	Collections []domain.Collection `json:"collections"`
	Loans       []domain.Loan       `json:"loans"`
}

// LoadSeedFile loads farmers, collections and loans from a JSON file.
func (s *Store) LoadSeedFile(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read seed file %s: %w", path, err)
	}
	var seed seedFile
	if err := json.Unmarshal(data, &seed); err != nil {
		return fmt.Errorf("failed to parse seed file %s: %w", path, err)
	}
	for _, f := range seed.Farmers {
		s.PutFarmer(f)
	}
	for _, c := range seed.Collections {
		s.PutCollection(c)
	}
	for _, l := range seed.Loans {
		s.PutLoan(l)
	}
	return nil
}

// --- Collections ---

// FindCollectionByID implements portsrepo.CollectionReader.
func (s *Store) FindCollectionByID(ctx context.Context, collectionID string) (*domain.Collection, error) {
	defer s.lock(ctx)()
	c, ok := s.collections[collectionID]
	if !ok {
		return nil, fmt.Errorf("collection %s: %w", collectionID, apperrors.ErrNotFound)
	}
	return &c, nil
}

// MarkCollectionPaid implements portsrepo.CollectionWriter.
func (s *Store) MarkCollectionPaid(ctx context.Context, collectionID string, updatedBy string, updatedAt time.Time) error {
	defer s.lock(ctx)()
	c, ok := s.collections[collectionID]
	if !ok {
		return fmt.Errorf("collection %s: %w", collectionID, apperrors.ErrNotFound)
	}
	if c.Status != domain.CollectionVerified {
		return fmt.Errorf("%w: collection %s is %s", apperrors.ErrInvalidState, collectionID, c.Status)
	}
	c.Status = domain.CollectionPaid
	c.LastUpdatedAt = updatedAt
	c.LastUpdatedBy = updatedBy
	s.collections[collectionID] = c
	return nil
}

// --- Farmers ---

// FindFarmerByID implements portsrepo.FarmerReader.
func (s *Store) FindFarmerByID(ctx context.Context, farmerID string) (*domain.Farmer, error) {
	defer s.lock(ctx)()
	f, ok := s.farmers[farmerID]
	if !ok {
		return nil, fmt.Errorf("farmer %s: %w", farmerID, apperrors.ErrNotFound)
	}
	return &f, nil
}

// --- Loans ---

// FindLoanByFarmerID implements portsrepo.LoanReader.
func (s *Store) FindLoanByFarmerID(ctx context.Context, farmerID string) (*domain.Loan, error) {
	defer s.lock(ctx)()
	l, ok := s.loans[farmerID]
	if !ok {
		return nil, nil
	}
	return &l, nil
}

// ApplyRecovery implements portsrepo.LoanWriter.
func (s *Store) ApplyRecovery(ctx context.Context, farmerID string, amount domain.Money) (domain.Money, domain.Money, error) {
	defer s.lock(ctx)()
	if amount.IsNegative() {
		return domain.Money{}, domain.Money{}, fmt.Errorf("%w: recovery amount %s is negative", apperrors.ErrValidation, amount)
	}
	l, ok := s.loans[farmerID]
	if !ok {
		return domain.Money{}, domain.Money{}, fmt.Errorf("loan for farmer %s: %w", farmerID, apperrors.ErrNotFound)
	}
	applied, err := domain.MinMoney(amount, l.OutstandingBalance)
	if err != nil {
		return domain.Money{}, domain.Money{}, err
	}
	balance, err := l.OutstandingBalance.Subtract(applied)
	if err != nil {
		return domain.Money{}, domain.Money{}, err
	}
	l.OutstandingBalance = balance
	l.UpdatedAt = time.Now().UTC()
	s.loans[farmerID] = l
	return applied, balance, nil
}

// --- Payouts ---

// CreatePayout implements portsrepo.PayoutWriter.
func (s *Store) CreatePayout(ctx context.Context, payout domain.PayoutTransaction) error {
	defer s.lock(ctx)()
	if _, exists := s.payouts[payout.PayoutID]; exists {
		return fmt.Errorf("payout %s: %w", payout.PayoutID, apperrors.ErrDuplicate)
	}
	for _, p := range s.payouts {
		if p.CollectionID != payout.CollectionID {
			continue
		}
		if p.Attempt == payout.Attempt {
			return fmt.Errorf("attempt %d for collection %s: %w", payout.Attempt, payout.CollectionID, apperrors.ErrDuplicate)
		}
		if p.Status != domain.PayoutFailed && payout.Status != domain.PayoutFailed {
			return fmt.Errorf("active payout %s for collection %s: %w", p.PayoutID, payout.CollectionID, apperrors.ErrDuplicate)
		}
	}
	s.payouts[payout.PayoutID] = payout
	return nil
}

// UpdatePayout implements portsrepo.PayoutWriter.
func (s *Store) UpdatePayout(ctx context.Context, payout *domain.PayoutTransaction) error {
	defer s.lock(ctx)()
	stored, ok := s.payouts[payout.PayoutID]
	if !ok {
		return fmt.Errorf("payout %s: %w", payout.PayoutID, apperrors.ErrNotFound)
	}
	if stored.Version != payout.Version {
		return fmt.Errorf("%w: payout %s was modified (version %d, expected %d)", apperrors.ErrConflict, payout.PayoutID, stored.Version, payout.Version)
	}
	payout.Version++
	s.payouts[payout.PayoutID] = *payout
	return nil
}

// FindPayoutByID implements portsrepo.PayoutReader.
func (s *Store) FindPayoutByID(ctx context.Context, payoutID string) (*domain.PayoutTransaction, error) {
	defer s.lock(ctx)()
	p, ok := s.payouts[payoutID]
	if !ok {
		return nil, fmt.Errorf("payout %s: %w", payoutID, apperrors.ErrNotFound)
	}
	return &p, nil
}

// FindLatestPayoutByCollectionID implements portsrepo.PayoutReader.
func (s *Store) FindLatestPayoutByCollectionID(ctx context.Context, collectionID string) (*domain.PayoutTransaction, error) {
	defer s.lock(ctx)()
	var latest *domain.PayoutTransaction
	for _, p := range s.payouts {
		if p.CollectionID != collectionID {
			continue
		}
		if latest == nil || p.Attempt > latest.Attempt || (p.Attempt == latest.Attempt && p.CreatedAt.After(latest.CreatedAt)) {
			candidate := p
			latest = &candidate
		}
	}
	return latest, nil
}

// ListPayoutsByFarmer implements portsrepo.PayoutReader.
func (s *Store) ListPayoutsByFarmer(ctx context.Context, farmerID string, limit int, offset int) ([]domain.PayoutTransaction, error) {
	defer s.lock(ctx)()
	var result []domain.PayoutTransaction
	for _, p := range s.payouts {
		if p.FarmerID == farmerID {
			result = append(result, p)
		}
	}
	sort.Slice(result, func(i, j int) bool {
		return result[i].CreatedAt.After(result[j].CreatedAt)
	})
	return page(result, limit, offset), nil
}

// ListStalePayouts implements portsrepo.PayoutReader.
func (s *Store) ListStalePayouts(ctx context.Context, updatedBefore time.Time, limit int) ([]domain.PayoutTransaction, error) {
	defer s.lock(ctx)()
	var result []domain.PayoutTransaction
	for _, p := range s.payouts {
		if p.Status == domain.PayoutAwaitingGateway && p.UpdatedAt.Before(updatedBefore) {
			result = append(result, p)
		}
	}
	sort.Slice(result, func(i, j int) bool {
		return result[i].UpdatedAt.Before(result[j].UpdatedAt)
	})
	return page(result, limit, 0), nil
}

func page(items []domain.PayoutTransaction, limit int, offset int) []domain.PayoutTransaction {
	if offset >= len(items) {
		return []domain.PayoutTransaction{}
	}
	items = items[offset:]
	if limit > 0 && limit < len(items) {
		items = items[:limit]
	}
	return items
}
