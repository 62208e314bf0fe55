package ledger

import (
	"context"
	"testing"
	"time"

	"hangar/pkg/auditlog"
	custom_error "hangar/pkg/errors"
	"hangar/pkg/metadata"
	"hangar/pkg/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

// MockTransactionStore to mock implementation of TransactionStore
type MockTransactionStore struct {
	mock.Mock
}

func (m *MockTransactionStore) InsertCheckout(req models.CheckoutRequest) (*models.Transaction, error) {
	args := m.Called(req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Transaction), args.Error(1)
}

func (m *MockTransactionStore) GetTransaction(id int) (*models.Transaction, error) {
	args := m.Called(id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Transaction), args.Error(1)
}

func (m *MockTransactionStore) GetOpenTransactionByAsset(assetID int) (*models.Transaction, error) {
	args := m.Called(assetID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Transaction), args.Error(1)
}

func (m *MockTransactionStore) CloseTransaction(id int, assetID int, req models.CheckinRequest, snapshot *models.WeatherSnapshot, verdict string, reason string, usageMinutes int) error {
	args := m.Called(id, assetID, req, snapshot, verdict, reason, usageMinutes)
	return args.Error(0)
}

func (m *MockTransactionStore) GetOpenTransactions() (*[]models.Transaction, error) {
	args := m.Called()
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*[]models.Transaction), args.Error(1)
}

func (m *MockTransactionStore) GetHistory() (*[]models.Transaction, error) {
	args := m.Called()
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*[]models.Transaction), args.Error(1)
}

// MockAssetReader to mock the catalog read side
type MockAssetReader struct {
	mock.Mock
}

func (m *MockAssetReader) GetAsset(id int) (*models.Asset, error) {
	args := m.Called(id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Asset), args.Error(1)
}

// MockGateway to mock the weather provider
type MockGateway struct {
	mock.Mock
}

func (m *MockGateway) FetchSnapshot(ctx context.Context, location string) (models.WeatherSnapshot, error) {
	args := m.Called(ctx, location)
	return args.Get(0).(models.WeatherSnapshot), args.Error(1)
}

// MockAuditLog swallows audit events
type MockAuditLog struct {
	mock.Mock
}

func (m *MockAuditLog) Log(action string, data interface{}, item auditlog.Auditable) {
	m.Called(action, data, item)
}

func floatPtr(v float64) *float64 { return &v }

func droneAsset() *models.Asset {
	return &models.Asset{
		ID:      1,
		Variant: metadata.VariantDrone,
		Name:    "Mavic 3",
		Physical: &models.PhysicalDetails{
			Location:          "Hangar 3",
			Specification:     "4K camera",
			StorageDimensions: "40x40x20 cm",
			Envelope: models.OperatingEnvelope{
				MinTemp:           floatPtr(-10),
				MaxTemp:           floatPtr(35),
				MaxWindResistance: floatPtr(40),
				MinLightingClass:  "daylight",
			},
		},
		Drone: &models.DroneDetails{
			WeightWithBatteries:    1391,
			WeightWithoutBatteries: 895,
			MaxTakeoffWeight:       1600,
			MaxPayloadWeight:       200,
			IPRating:               "IP45",
		},
	}
}

func softwareAsset() *models.Asset {
	return &models.Asset{
		ID:      2,
		Variant: metadata.VariantSoftware,
		Name:    "Pix4D",
		Software: &models.SoftwareDetails{
			PurchaseDate: "2026-01-15",
			RenewalDate:  "2027-01-15",
			Price:        floatPtr(499.99),
			Category:     "mapping",
			AccountCode:  "SW-1042",
		},
	}
}

func openTransaction(assetID int) *models.Transaction {
	return &models.Transaction{
		ID:               10,
		AssetID:          assetID,
		CheckoutAt:       time.Date(2026, 8, 1, 9, 0, 0, 0, time.UTC),
		CheckoutLocation: "Hangar 3",
	}
}

func newServiceForTest() (*LedgerService, *MockTransactionStore, *MockAssetReader, *MockGateway, *MockAuditLog) {
	store := new(MockTransactionStore)
	assets := new(MockAssetReader)
	gateway := new(MockGateway)
	audit := new(MockAuditLog)
	audit.On("Log", mock.Anything, mock.Anything, mock.Anything).Maybe()

	service := NewLedgerService(store, assets, gateway, audit)
	return service, store, assets, gateway, audit
}

func TestCheckout_Success(t *testing.T) {
	service, store, assets, _, _ := newServiceForTest()

	assets.On("GetAsset", 1).Return(droneAsset(), nil)
	store.On("InsertCheckout", mock.Anything).Return(openTransaction(1), nil)

	tx, err := service.Checkout(models.CheckoutRequest{AssetID: 1, Location: "Hangar 3"})

	require.NoError(t, err)
	assert.Equal(t, 1, tx.AssetID)
	assert.Equal(t, "Mavic 3", tx.AssetName)
	assert.True(t, tx.Open())
}

func TestCheckout_UnknownAsset(t *testing.T) {
	service, store, assets, _, _ := newServiceForTest()

	assets.On("GetAsset", 99).Return(nil, &custom_error.NotFoundError{Resource: "asset", ID: 99})

	_, err := service.Checkout(models.CheckoutRequest{AssetID: 99, Location: "Hangar 3"})

	var notFound *custom_error.NotFoundError
	assert.ErrorAs(t, err, &notFound)
	store.AssertNotCalled(t, "InsertCheckout", mock.Anything)
}

func TestCheckout_AlreadyCheckedOut(t *testing.T) {
	service, store, assets, _, _ := newServiceForTest()

	assets.On("GetAsset", 1).Return(droneAsset(), nil)
	store.On("InsertCheckout", mock.Anything).Return(nil, &custom_error.AlreadyCheckedOutError{AssetID: 1})

	_, err := service.Checkout(models.CheckoutRequest{AssetID: 1, Location: "Hangar 3"})

	var alreadyOut *custom_error.AlreadyCheckedOutError
	assert.ErrorAs(t, err, &alreadyOut)
}

func TestCheckout_MissingLocation(t *testing.T) {
	service, store, _, _, _ := newServiceForTest()

	_, err := service.Checkout(models.CheckoutRequest{AssetID: 1})

	var validationErr *custom_error.ValidationError
	assert.ErrorAs(t, err, &validationErr)
	store.AssertNotCalled(t, "InsertCheckout", mock.Anything)
}

func TestCheckin_TemperatureOutOfRange(t *testing.T) {
	service, store, assets, gateway, _ := newServiceForTest()

	store.On("GetOpenTransactionByAsset", 1).Return(openTransaction(1), nil)
	assets.On("GetAsset", 1).Return(droneAsset(), nil)
	gateway.On("FetchSnapshot", mock.Anything, "St. John's").Return(models.WeatherSnapshot{
		Location:     "St. John's",
		TemperatureC: 38,
		WindSpeedKPH: 10,
	}, nil)
	store.On("CloseTransaction", 10, 1, mock.Anything, mock.Anything,
		metadata.VerdictTemperatureOutOfRange.String(), mock.Anything, mock.Anything).Return(nil)

	tx, err := service.Checkin(context.Background(), models.CheckinRequest{AssetID: 1, Location: "St. John's"})

	require.NoError(t, err)
	assert.Equal(t, metadata.VerdictTemperatureOutOfRange, tx.Verdict)
	assert.False(t, tx.Open())
	store.AssertExpectations(t)
}

func TestCheckin_WindExceeded(t *testing.T) {
	service, store, assets, gateway, _ := newServiceForTest()

	store.On("GetOpenTransactionByAsset", 1).Return(openTransaction(1), nil)
	assets.On("GetAsset", 1).Return(droneAsset(), nil)
	gateway.On("FetchSnapshot", mock.Anything, "St. John's").Return(models.WeatherSnapshot{
		TemperatureC: 20,
		WindSpeedKPH: 55,
	}, nil)
	store.On("CloseTransaction", 10, 1, mock.Anything, mock.Anything,
		metadata.VerdictWindExceeded.String(), mock.Anything, mock.Anything).Return(nil)

	tx, err := service.Checkin(context.Background(), models.CheckinRequest{AssetID: 1, Location: "St. John's"})

	require.NoError(t, err)
	assert.Equal(t, metadata.VerdictWindExceeded, tx.Verdict)
}

func TestCheckin_Suitable(t *testing.T) {
	service, store, assets, gateway, _ := newServiceForTest()

	store.On("GetOpenTransactionByAsset", 1).Return(openTransaction(1), nil)
	assets.On("GetAsset", 1).Return(droneAsset(), nil)
	gateway.On("FetchSnapshot", mock.Anything, "St. John's").Return(models.WeatherSnapshot{
		TemperatureC: 20,
		WindSpeedKPH: 10,
	}, nil)
	store.On("CloseTransaction", 10, 1, mock.Anything, mock.Anything,
		metadata.VerdictSuitable.String(), mock.Anything, mock.Anything).Return(nil)

	tx, err := service.Checkin(context.Background(), models.CheckinRequest{AssetID: 1, Location: "St. John's"})

	require.NoError(t, err)
	assert.Equal(t, metadata.VerdictSuitable, tx.Verdict)
	require.NotNil(t, tx.Weather)
	assert.Equal(t, 20.0, tx.Weather.TemperatureC)
}

func TestCheckin_SoftwareAssetIsUnevaluableButCloses(t *testing.T) {
	service, store, assets, gateway, _ := newServiceForTest()

	store.On("GetOpenTransactionByAsset", 2).Return(openTransaction(2), nil)
	assets.On("GetAsset", 2).Return(softwareAsset(), nil)
	gateway.On("FetchSnapshot", mock.Anything, "St. John's").Return(models.WeatherSnapshot{
		TemperatureC: 20,
		WindSpeedKPH: 10,
	}, nil)
	store.On("CloseTransaction", 10, 2, mock.Anything, mock.Anything,
		metadata.VerdictUnevaluable.String(), mock.Anything, mock.Anything).Return(nil)

	tx, err := service.Checkin(context.Background(), models.CheckinRequest{AssetID: 2, Location: "St. John's"})

	require.NoError(t, err)
	assert.Equal(t, metadata.VerdictUnevaluable, tx.Verdict)
	assert.False(t, tx.Open())
	store.AssertExpectations(t)
}

func TestCheckin_WeatherUnavailableLeavesTransactionOpen(t *testing.T) {
	service, store, assets, gateway, _ := newServiceForTest()

	store.On("GetOpenTransactionByAsset", 1).Return(openTransaction(1), nil)
	assets.On("GetAsset", 1).Return(droneAsset(), nil)
	gateway.On("FetchSnapshot", mock.Anything, "St. John's").Return(models.WeatherSnapshot{},
		&custom_error.WeatherUnavailableError{Location: "St. John's"})

	_, err := service.Checkin(context.Background(), models.CheckinRequest{AssetID: 1, Location: "St. John's"})

	var weatherErr *custom_error.WeatherUnavailableError
	assert.ErrorAs(t, err, &weatherErr)
	store.AssertNotCalled(t, "CloseTransaction",
		mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestCheckin_NotCheckedOut(t *testing.T) {
	service, store, _, gateway, _ := newServiceForTest()

	store.On("GetOpenTransactionByAsset", 1).Return(nil, &custom_error.NotCheckedOutError{AssetID: 1})

	_, err := service.Checkin(context.Background(), models.CheckinRequest{AssetID: 1, Location: "St. John's"})

	var notOut *custom_error.NotCheckedOutError
	assert.ErrorAs(t, err, &notOut)
	gateway.AssertNotCalled(t, "FetchSnapshot", mock.Anything, mock.Anything)
}

func TestCheckin_ByTransactionIDAlreadyClosed(t *testing.T) {
	service, store, _, _, _ := newServiceForTest()

	closedAt := time.Date(2026, 8, 2, 17, 0, 0, 0, time.UTC)
	closed := openTransaction(1)
	closed.CheckinAt = &closedAt

	store.On("GetTransaction", 10).Return(closed, nil)

	_, err := service.Checkin(context.Background(), models.CheckinRequest{TransactionID: 10, Location: "St. John's"})

	var notOut *custom_error.NotCheckedOutError
	assert.ErrorAs(t, err, &notOut)
}

func TestCheckin_ComputesUsageMinutesWhenNotSupplied(t *testing.T) {
	service, store, assets, gateway, _ := newServiceForTest()

	store.On("GetOpenTransactionByAsset", 1).Return(openTransaction(1), nil)
	assets.On("GetAsset", 1).Return(droneAsset(), nil)
	gateway.On("FetchSnapshot", mock.Anything, "St. John's").Return(models.WeatherSnapshot{
		TemperatureC: 20,
		WindSpeedKPH: 10,
	}, nil)
	store.On("CloseTransaction", 10, 1, mock.Anything, mock.Anything,
		mock.Anything, mock.Anything, 90).Return(nil)

	checkinAt := time.Date(2026, 8, 1, 10, 30, 0, 0, time.UTC)
	tx, err := service.Checkin(context.Background(), models.CheckinRequest{
		AssetID:   1,
		Location:  "St. John's",
		CheckinAt: checkinAt,
	})

	require.NoError(t, err)
	require.NotNil(t, tx.UsageMinutes)
	assert.Equal(t, 90, *tx.UsageMinutes)
	store.AssertExpectations(t)
}

func TestCheckin_SuppliedUsageMinutesOverrideComputed(t *testing.T) {
	service, store, assets, gateway, _ := newServiceForTest()

	store.On("GetOpenTransactionByAsset", 1).Return(openTransaction(1), nil)
	assets.On("GetAsset", 1).Return(droneAsset(), nil)
	gateway.On("FetchSnapshot", mock.Anything, "St. John's").Return(models.WeatherSnapshot{
		TemperatureC: 20,
		WindSpeedKPH: 10,
	}, nil)
	store.On("CloseTransaction", 10, 1, mock.Anything, mock.Anything,
		mock.Anything, mock.Anything, 45).Return(nil)

	// Checkout at 09:00, checkin at 10:30: the interval would give 90.
	supplied := 45
	checkinAt := time.Date(2026, 8, 1, 10, 30, 0, 0, time.UTC)
	tx, err := service.Checkin(context.Background(), models.CheckinRequest{
		AssetID:      1,
		Location:     "St. John's",
		CheckinAt:    checkinAt,
		UsageMinutes: &supplied,
	})

	require.NoError(t, err)
	require.NotNil(t, tx.UsageMinutes)
	assert.Equal(t, 45, *tx.UsageMinutes)
	store.AssertExpectations(t)
}

func TestCheckin_NegativeUsageMinutesRejected(t *testing.T) {
	service, store, _, gateway, _ := newServiceForTest()

	supplied := -15
	_, err := service.Checkin(context.Background(), models.CheckinRequest{
		AssetID:      1,
		Location:     "St. John's",
		UsageMinutes: &supplied,
	})

	var validationErr *custom_error.ValidationError
	assert.ErrorAs(t, err, &validationErr)
	gateway.AssertNotCalled(t, "FetchSnapshot", mock.Anything, mock.Anything)
	store.AssertNotCalled(t, "CloseTransaction",
		mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestCheckin_RequiresTransactionOrAssetID(t *testing.T) {
	service, _, _, _, _ := newServiceForTest()

	_, err := service.Checkin(context.Background(), models.CheckinRequest{Location: "St. John's"})

	var validationErr *custom_error.ValidationError
	assert.ErrorAs(t, err, &validationErr)
}
