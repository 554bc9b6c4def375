package ingest

import (
	"context"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/mslanden/marketpress/pkg/models/domain"
	storemodels "github.com/mslanden/marketpress/pkg/models/store"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type mockFeed struct {
	mock.Mock
}

func (m *mockFeed) GetPricePerArea(
	ctx context.Context,
	region domain.Region,
	period domain.Period,
	months int,
) ([]domain.PricePoint, error) {
	args := m.Called(ctx, region, period, months)
	return args.Get(0).([]domain.PricePoint), args.Error(1)
}

func (m *mockFeed) GetDaysOnMarket(
	ctx context.Context,
	region domain.Region,
	period domain.Period,
	months int,
) ([]domain.MarketPoint, error) {
	args := m.Called(ctx, region, period, months)
	return args.Get(0).([]domain.MarketPoint), args.Error(1)
}

func (m *mockFeed) GetListings(
	ctx context.Context,
	region domain.Region,
	period domain.Period,
) ([]domain.Listing, error) {
	args := m.Called(ctx, region, period)
	return args.Get(0).([]domain.Listing), args.Error(1)
}

type mockMarketStore struct {
	mock.Mock
}

func (m *mockMarketStore) AddListings(ctx context.Context, records []storemodels.ListingRecord) error {
	args := m.Called(ctx, records)
	return args.Error(0)
}

func (m *mockMarketStore) AddMonthlyMetrics(ctx context.Context, records []storemodels.MetricRecord) error {
	args := m.Called(ctx, records)
	return args.Error(0)
}

func (m *mockMarketStore) GetListings(ctx context.Context, region string, month, year int) ([]storemodels.ListingRecord, error) {
	args := m.Called(ctx, region, month, year)
	return args.Get(0).([]storemodels.ListingRecord), args.Error(1)
}

func (m *mockMarketStore) GetMetricSeries(ctx context.Context, region string, month, year, months int) ([]storemodels.MetricRecord, error) {
	args := m.Called(ctx, region, month, year, months)
	return args.Get(0).([]storemodels.MetricRecord), args.Error(1)
}

type mockSyncStore struct {
	mock.Mock
}

func (m *mockSyncStore) CreateSync(ctx context.Context, region string, from storemodels.RegionSync) (*storemodels.RegionSync, error) {
	args := m.Called(ctx, region, from)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*storemodels.RegionSync), args.Error(1)
}

func (m *mockSyncStore) ListSyncs(ctx context.Context) ([]*storemodels.RegionSync, error) {
	args := m.Called(ctx)
	return args.Get(0).([]*storemodels.RegionSync), args.Error(1)
}

func (m *mockSyncStore) UpdateSync(ctx context.Context, region string, month, year int) error {
	args := m.Called(ctx, region, month, year)
	return args.Error(0)
}

func TestRunner_IngestsUpToCurrentMonth(t *testing.T) {
	db, dbMock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	// Two months behind the cursor: Feb and Mar 2024.
	dbMock.ExpectBegin()
	dbMock.ExpectCommit()
	dbMock.ExpectBegin()
	dbMock.ExpectCommit()

	feed := new(mockFeed)
	marketStore := new(mockMarketStore)
	syncStore := new(mockSyncStore)

	for _, period := range []domain.Period{{Month: 2, Year: 2024}, {Month: 3, Year: 2024}} {
		feed.On("GetListings", mock.Anything, domain.Region("anza"), period).
			Return([]domain.Listing{{ID: "1", Status: domain.StatusActive, Price: 425000}}, nil)
		feed.On("GetPricePerArea", mock.Anything, domain.Region("anza"), period, 1).
			Return([]domain.PricePoint{{Month: period.Month, Year: period.Year, Value: 230, AveragePrice: 400000}}, nil)
		feed.On("GetDaysOnMarket", mock.Anything, domain.Region("anza"), period, 1).
			Return([]domain.MarketPoint{{Month: period.Month, Year: period.Year, AverageDays: 45}}, nil)
		syncStore.On("UpdateSync", mock.Anything, "anza", period.Month, period.Year).Return(nil)
	}
	marketStore.On("AddListings", mock.Anything, mock.Anything).Return(nil).Twice()
	marketStore.On("AddMonthlyMetrics", mock.Anything, mock.Anything).Return(nil).Twice()

	runner := NewRunner(
		&storemodels.RegionSync{Region: "anza", LastMonth: 1, LastYear: 2024},
		db, syncStore, feed, marketStore,
	)
	runner.now = func() time.Time { return time.Date(2024, time.March, 15, 0, 0, 0, 0, time.UTC) }

	ctx, cancel := context.WithCancel(context.Background())
	go runner.Run(ctx)

	var seen []RunnerProgress
	timeout := time.After(5 * time.Second)
	for len(seen) < 2 {
		select {
		case p := <-runner.Progress():
			seen = append(seen, p)
		case <-timeout:
			t.Fatal("timed out waiting for ingestion progress")
		}
	}
	cancel()
	<-runner.Done()

	assert.Equal(t, 2, seen[0].LastMonth)
	assert.Equal(t, 3, seen[1].LastMonth)
	assert.Equal(t, 2, seen[1].IngestedMonths)
	feed.AssertExpectations(t)
	marketStore.AssertExpectations(t)
	syncStore.AssertExpectations(t)
	assert.NoError(t, dbMock.ExpectationsWereMet())
}

func TestRunner_FeedErrorRollsBackNothingAndRetries(t *testing.T) {
	db, dbMock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	feed := new(mockFeed)
	feed.On("GetListings", mock.Anything, domain.Region("anza"), domain.Period{Month: 2, Year: 2024}).
		Return([]domain.Listing{}, assert.AnError)

	runner := NewRunner(
		&storemodels.RegionSync{Region: "anza", LastMonth: 1, LastYear: 2024},
		db, new(mockSyncStore), feed, new(mockMarketStore),
	)
	runner.now = func() time.Time { return time.Date(2024, time.March, 15, 0, 0, 0, 0, time.UTC) }
	runner.config.SleepInterval = 10 * time.Millisecond

	ctx, cancel := context.WithCancel(context.Background())
	go runner.Run(ctx)

	// Give the runner a few retry rounds, then stop it. No transaction may
	// have been opened.
	time.Sleep(50 * time.Millisecond)
	cancel()
	<-runner.Done()

	assert.NoError(t, dbMock.ExpectationsWereMet())
}

func TestNextPeriod(t *testing.T) {
	tests := []struct {
		month, year         int
		wantMonth, wantYear int
	}{
		{1, 2024, 2, 2024},
		{11, 2024, 12, 2024},
		{12, 2024, 1, 2025},
	}
	for _, tt := range tests {
		m, y := nextPeriod(tt.month, tt.year)
		assert.Equal(t, tt.wantMonth, m)
		assert.Equal(t, tt.wantYear, y)
	}
}

func TestAfterCurrentMonth(t *testing.T) {
	now := time.Date(2024, time.March, 15, 0, 0, 0, 0, time.UTC)

	assert.False(t, afterCurrentMonth(3, 2024, now))
	assert.False(t, afterCurrentMonth(12, 2023, now))
	assert.True(t, afterCurrentMonth(4, 2024, now))
	assert.True(t, afterCurrentMonth(1, 2025, now))
}

func TestBackfillCursor(t *testing.T) {
	now := time.Date(2024, time.March, 15, 0, 0, 0, 0, time.UTC)

	month, year := backfillCursor(now, 12)
	assert.Equal(t, 3, month)
	assert.Equal(t, 2023, year)
}
