package service

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/profitbridge/platform-api/internal/domain"
	"github.com/profitbridge/platform-api/internal/models"
	"github.com/profitbridge/platform-api/internal/observability"
)

// SnapshotService derives a user's current financial view from the profile
// record plus live ledger sums. It never writes; consistency comes from full
// re-derivation on every call, not from patching feed payloads.
type SnapshotService struct {
	store Store
}

func NewSnapshotService(store Store) *SnapshotService {
	return &SnapshotService{store: store}
}

// Snapshot reads the profile for the persisted aggregates and recomputes the
// derived sums. The pending-withdrawal and investment totals are advisory:
// a fetch error degrades them to 0 with a warning instead of failing the call.
func (s *SnapshotService) Snapshot(ctx context.Context, userID uuid.UUID) (*models.Snapshot, error) {
	if userID == uuid.Nil {
		return nil, models.ErrUnauthenticated
	}

	q := s.store.Repo()
	profile, err := q.GetProfile(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("snapshot profile read: %w", err)
	}

	pending, err := q.SumWithdrawalsByStatus(ctx, userID, domain.WithdrawalStatusProcessing)
	if err != nil {
		zap.L().Warn("pending withdrawal sum failed, degrading to 0",
			zap.Error(err), zap.String("user_id", userID.String()))
		pending = 0
	}

	invested, err := q.SumInvestmentsByUser(ctx, userID)
	if err != nil {
		zap.L().Warn("investment sum failed, degrading to 0",
			zap.Error(err), zap.String("user_id", userID.String()))
		invested = 0
	}

	observability.IncrementSnapshotRecompute()

	return &models.Snapshot{
		UserID:             profile.ID,
		FullName:           profile.FullName,
		Balance:            profile.Balance,
		TotalDeposits:      profile.TotalDeposits,
		TotalWithdrawals:   profile.TotalWithdrawals,
		Earnings:           profile.Earnings,
		PendingWithdrawals: pending,
		TotalInvestments:   invested,
	}, nil
}
