package repository

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/spec-kit/donation-service/internal/domain"
)

// MemoryStore keeps all three collections in process. It backs local runs
// without POSTGRES_DSN and service tests. Missing rows surface as pgx.ErrNoRows
// so callers behave the same against either backend.
type MemoryStore struct {
	mu       sync.RWMutex
	users    map[string]domain.User
	requests map[string]domain.DonationRequest
	fundings []domain.Funding
}

// NewMemoryStore creates an empty store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		users:    make(map[string]domain.User),
		requests: make(map[string]domain.DonationRequest),
	}
}

// Users returns a UserRepository view of the store.
func (s *MemoryStore) Users() UserRepository { return memoryUsers{s} }

// DonationRequests returns a DonationRequestRepository view of the store.
func (s *MemoryStore) DonationRequests() DonationRequestRepository { return memoryRequests{s} }

// Fundings returns a FundingRepository view of the store.
func (s *MemoryStore) Fundings() FundingRepository { return memoryFundings{s} }

type memoryUsers struct{ s *MemoryStore }

func (m memoryUsers) CreateIfAbsent(_ context.Context, user *domain.User) (bool, error) {
	m.s.mu.Lock()
	defer m.s.mu.Unlock()
	for _, existing := range m.s.users {
		if existing.Email == user.Email {
			*user = existing
			return false, nil
		}
	}
	now := time.Now().UTC()
	user.CreatedAt, user.UpdatedAt = now, now
	m.s.users[user.ID] = *user
	return true, nil
}

func (m memoryUsers) Update(_ context.Context, user *domain.User) error {
	m.s.mu.Lock()
	defer m.s.mu.Unlock()
	existing, ok := m.s.users[user.ID]
	if !ok {
		return pgx.ErrNoRows
	}
	user.Email = existing.Email
	user.CreatedAt = existing.CreatedAt
	user.UpdatedAt = time.Now().UTC()
	m.s.users[user.ID] = *user
	return nil
}

func (m memoryUsers) GetByID(_ context.Context, id string) (*domain.User, error) {
	m.s.mu.RLock()
	defer m.s.mu.RUnlock()
	user, ok := m.s.users[id]
	if !ok {
		return nil, pgx.ErrNoRows
	}
	return &user, nil
}

func (m memoryUsers) GetByEmail(_ context.Context, email string) (*domain.User, error) {
	m.s.mu.RLock()
	defer m.s.mu.RUnlock()
	for _, user := range m.s.users {
		if user.Email == email {
			u := user
			return &u, nil
		}
	}
	return nil, pgx.ErrNoRows
}

func (m memoryUsers) List(_ context.Context, filter UserFilter) ([]domain.User, error) {
	m.s.mu.RLock()
	defer m.s.mu.RUnlock()
	result := []domain.User{}
	for _, user := range m.s.users {
		if filter.Status != nil && user.Status != *filter.Status {
			continue
		}
		result = append(result, user)
	}
	sort.Slice(result, func(i, j int) bool {
		if result[i].CreatedAt.Equal(result[j].CreatedAt) {
			return result[i].ID < result[j].ID
		}
		return result[i].CreatedAt.Before(result[j].CreatedAt)
	})
	return paginate(result, filter.Limit, filter.Offset), nil
}

func (m memoryUsers) Count(_ context.Context) (int64, error) {
	m.s.mu.RLock()
	defer m.s.mu.RUnlock()
	return int64(len(m.s.users)), nil
}

type memoryRequests struct{ s *MemoryStore }

func cloneRequest(req domain.DonationRequest) domain.DonationRequest {
	if req.DonorInfo != nil {
		info := *req.DonorInfo
		req.DonorInfo = &info
	}
	if req.Extra != nil {
		extra := make(map[string]any, len(req.Extra))
		for k, v := range req.Extra {
			extra[k] = v
		}
		req.Extra = extra
	}
	return req
}

func (m memoryRequests) Create(_ context.Context, req *domain.DonationRequest) error {
	m.s.mu.Lock()
	defer m.s.mu.Unlock()
	now := time.Now().UTC()
	req.CreatedAt, req.UpdatedAt = now, now
	m.s.requests[req.ID] = cloneRequest(*req)
	return nil
}

func (m memoryRequests) Update(_ context.Context, req *domain.DonationRequest) error {
	m.s.mu.Lock()
	defer m.s.mu.Unlock()
	existing, ok := m.s.requests[req.ID]
	if !ok {
		return pgx.ErrNoRows
	}
	req.RequesterEmail = existing.RequesterEmail
	req.CreatedAt = existing.CreatedAt
	req.UpdatedAt = time.Now().UTC()
	m.s.requests[req.ID] = cloneRequest(*req)
	return nil
}

func (m memoryRequests) Delete(_ context.Context, id string) error {
	m.s.mu.Lock()
	defer m.s.mu.Unlock()
	if _, ok := m.s.requests[id]; !ok {
		return pgx.ErrNoRows
	}
	delete(m.s.requests, id)
	return nil
}

func (m memoryRequests) GetByID(_ context.Context, id string) (*domain.DonationRequest, error) {
	m.s.mu.RLock()
	defer m.s.mu.RUnlock()
	req, ok := m.s.requests[id]
	if !ok {
		return nil, pgx.ErrNoRows
	}
	clone := cloneRequest(req)
	return &clone, nil
}

func (m memoryRequests) List(_ context.Context, filter DonationRequestFilter) ([]domain.DonationRequest, error) {
	m.s.mu.RLock()
	defer m.s.mu.RUnlock()
	result := []domain.DonationRequest{}
	for _, req := range m.s.requests {
		if filter.RequesterEmail != nil && req.RequesterEmail != *filter.RequesterEmail {
			continue
		}
		if filter.Status != nil && req.Status != *filter.Status {
			continue
		}
		result = append(result, cloneRequest(req))
	}
	sort.Slice(result, func(i, j int) bool { return result[i].ID < result[j].ID })
	return paginate(result, filter.Limit, filter.Offset), nil
}

func (m memoryRequests) Count(_ context.Context) (int64, error) {
	m.s.mu.RLock()
	defer m.s.mu.RUnlock()
	return int64(len(m.s.requests)), nil
}

type memoryFundings struct{ s *MemoryStore }

func (m memoryFundings) Create(_ context.Context, funding *domain.Funding) error {
	m.s.mu.Lock()
	defer m.s.mu.Unlock()
	m.s.fundings = append(m.s.fundings, *funding)
	return nil
}

func (m memoryFundings) List(_ context.Context, limit, offset int) ([]domain.Funding, error) {
	m.s.mu.RLock()
	defer m.s.mu.RUnlock()
	result := make([]domain.Funding, 0, len(m.s.fundings))
	for i := len(m.s.fundings) - 1; i >= 0; i-- {
		result = append(result, m.s.fundings[i])
	}
	if limit <= 0 {
		limit = 50
	}
	return paginate(result, limit, offset), nil
}

func (m memoryFundings) Total(_ context.Context) (float64, error) {
	m.s.mu.RLock()
	defer m.s.mu.RUnlock()
	var total float64
	for _, f := range m.s.fundings {
		total += f.Amount
	}
	return total, nil
}

func paginate[T any](items []T, limit, offset int) []T {
	if offset > 0 {
		if offset >= len(items) {
			return items[:0]
		}
		items = items[offset:]
	}
	if limit > 0 && limit < len(items) {
		items = items[:limit]
	}
	return items
}
