package service

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/erivelton/subscriply/internal/domain"
)

// BackupStore persists snapshot blobs. Satisfied by the S3 repository.
type BackupStore interface {
	Put(ctx context.Context, key string, snapshot []byte) error
}

// BackupService writes point-in-time JSON snapshots of the whole store to
// external object storage. Snapshots cover every owner, so the service
// walks the user list rather than taking an owner scope.
type BackupService struct {
	userRepo     domain.UserRepository
	planRepo     domain.PlanRepository
	customerRepo domain.CustomerRepository
	reportRepo   domain.ReportRepository
	store        BackupStore
	nowFn        func() time.Time
}

// NewBackupService creates a new backup service
func NewBackupService(
	userRepo domain.UserRepository,
	planRepo domain.PlanRepository,
	customerRepo domain.CustomerRepository,
	reportRepo domain.ReportRepository,
	store BackupStore,
) *BackupService {
	return &BackupService{
		userRepo:     userRepo,
		planRepo:     planRepo,
		customerRepo: customerRepo,
		reportRepo:   reportRepo,
		store:        store,
		nowFn:        time.Now,
	}
}

// Snapshot is the backup payload. Password hashes and tokens are never
// included.
type Snapshot struct {
	TakenAt     time.Time            `json:"taken_at"`
	Plans       []*domain.Plan       `json:"plans"`
	Customers   []*domain.Customer   `json:"customers"`
	ReportCards []*domain.ReportCard `json:"report_cards"`
}

// CreateBackup snapshots all plans, customers and report cards and uploads
// the result. Returns the storage key of the written object.
func (s *BackupService) CreateBackup(ctx context.Context) (string, error) {
	users, err := s.userRepo.GetAll(ctx)
	if err != nil {
		return "", fmt.Errorf("failed to list users: %w", err)
	}

	snapshot := Snapshot{
		TakenAt:   s.nowFn().UTC(),
		Plans:     []*domain.Plan{},
		Customers: []*domain.Customer{},
	}

	for _, user := range users {
		plans, err := s.planRepo.GetByOwner(ctx, user.ID)
		if err != nil {
			return "", fmt.Errorf("failed to collect plans for %s: %w", user.ID, err)
		}
		snapshot.Plans = append(snapshot.Plans, plans...)

		customers, err := s.customerRepo.GetByOwner(ctx, user.ID)
		if err != nil {
			return "", fmt.Errorf("failed to collect customers for %s: %w", user.ID, err)
		}
		snapshot.Customers = append(snapshot.Customers, customers...)
	}

	cards, err := s.reportRepo.GetAll(ctx)
	if err != nil {
		return "", fmt.Errorf("failed to collect report cards: %w", err)
	}
	snapshot.ReportCards = cards

	payload, err := json.Marshal(snapshot)
	if err != nil {
		return "", fmt.Errorf("failed to encode snapshot: %w", err)
	}

	key := fmt.Sprintf("backups/snapshot-%s.json", snapshot.TakenAt.Format("20060102T150405Z"))
	if err := s.store.Put(ctx, key, payload); err != nil {
		return "", err
	}
	return key, nil
}
