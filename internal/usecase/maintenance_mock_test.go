package usecase

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/mock"

	"github.com/veldran/kingdom-manager/internal/platform/logging"
)

type mockStoreSweeper struct {
	mock.Mock
}

func (m *mockStoreSweeper) StoreFiles(ctx context.Context) ([]string, error) {
	args := m.Called(ctx)
	files, _ := args.Get(0).([]string)
	return files, args.Error(1)
}

func (m *mockStoreSweeper) RepairSequence(ctx context.Context, file string) error {
	args := m.Called(ctx, file)
	return args.Error(0)
}

func TestMaintenanceService_SweepSequences_PartialFailure(t *testing.T) {
	t.Parallel()

	sweeper := &mockStoreSweeper{}
	sweeper.On("StoreFiles", mock.Anything).
		Return([]string{"/data/user_1.db", "/data/user_2.db"}, nil).
		Once()
	sweeper.On("RepairSequence", mock.Anything, "/data/user_1.db").
		Return(nil).
		Once()
	sweeper.On("RepairSequence", mock.Anything, "/data/user_2.db").
		Return(errors.New("database is locked")).
		Once()

	service := NewMaintenanceService(sweeper, 0, logging.NewNop())
	report, err := service.SweepSequences(context.Background(), 2)
	if err != nil {
		t.Fatalf("sweep sequences: %v", err)
	}

	if report.FileCount != 2 || report.RepairedCount != 1 || report.FailedCount != 1 {
		t.Fatalf("unexpected report counts: %+v", report)
	}
	for _, row := range report.Files {
		if row.File == "user_2.db" && row.Status != "failed" {
			t.Fatalf("expected user_2.db to fail, got %q", row.Status)
		}
	}
	sweeper.AssertExpectations(t)
}

func TestMaintenanceService_SweepSequences_ListError(t *testing.T) {
	t.Parallel()

	sweeper := &mockStoreSweeper{}
	sweeper.On("StoreFiles", mock.Anything).
		Return(nil, errors.New("permission denied")).
		Once()

	service := NewMaintenanceService(sweeper, 0, logging.NewNop())
	if _, err := service.SweepSequences(context.Background(), 0); err == nil {
		t.Fatalf("expected error when store listing fails")
	}
	sweeper.AssertExpectations(t)
}
