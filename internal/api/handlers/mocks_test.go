package handlers_test

import (
	"context"
	"io"

	"github.com/stretchr/testify/mock"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/carlosgl93/gumucio-propiedades/internal/models"
)

// --- Mocks ---

// MockPropertyService
type MockPropertyService struct {
	mock.Mock
}

func (m *MockPropertyService) Create(ctx context.Context, property *models.Property) (primitive.ObjectID, error) {
	args := m.Called(ctx, property)
	return args.Get(0).(primitive.ObjectID), args.Error(1)
}

func (m *MockPropertyService) Update(ctx context.Context, id primitive.ObjectID, updates map[string]interface{}) error {
	args := m.Called(ctx, id, updates)
	return args.Error(0)
}

func (m *MockPropertyService) GetByID(ctx context.Context, id primitive.ObjectID) (*models.Property, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Property), args.Error(1)
}

func (m *MockPropertyService) List(ctx context.Context, filter *models.PropertyFilter) ([]models.Property, error) {
	args := m.Called(ctx, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.Property), args.Error(1)
}

func (m *MockPropertyService) Available(ctx context.Context) ([]models.Property, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.Property), args.Error(1)
}

func (m *MockPropertyService) Featured(ctx context.Context) ([]models.Property, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.Property), args.Error(1)
}

func (m *MockPropertyService) Delete(ctx context.Context, id primitive.ObjectID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockPropertyService) UploadImage(ctx context.Context, id primitive.ObjectID, filename, contentType string, data io.Reader, caption string) (*models.PropertyImage, error) {
	args := m.Called(ctx, id, filename, contentType, data, caption)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.PropertyImage), args.Error(1)
}

func (m *MockPropertyService) AddImage(ctx context.Context, id primitive.ObjectID, image models.PropertyImage) (*models.Property, error) {
	args := m.Called(ctx, id, image)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Property), args.Error(1)
}

func (m *MockPropertyService) DeleteImage(ctx context.Context, id primitive.ObjectID, imageID string) error {
	args := m.Called(ctx, id, imageID)
	return args.Error(0)
}

func (m *MockPropertyService) ReorderImages(ctx context.Context, id primitive.ObjectID, images []models.PropertyImage) ([]models.PropertyImage, error) {
	args := m.Called(ctx, id, images)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.PropertyImage), args.Error(1)
}

func (m *MockPropertyService) SetImageThumbnail(ctx context.Context, id primitive.ObjectID, imageID, thumbnailURL string) error {
	args := m.Called(ctx, id, imageID, thumbnailURL)
	return args.Error(0)
}

// MockCurrencyService
type MockCurrencyService struct {
	mock.Mock
}

func (m *MockCurrencyService) Convert(ctx context.Context, amount float64, fromCurrency, toCurrency string) (float64, error) {
	args := m.Called(ctx, amount, fromCurrency, toCurrency)
	return args.Get(0).(float64), args.Error(1)
}

func (m *MockCurrencyService) FormatPrice(amount float64, currency string) string {
	args := m.Called(amount, currency)
	return args.String(0)
}

func (m *MockCurrencyService) FormatPriceWithConversion(ctx context.Context, amount float64, currency, targetCurrency string) string {
	args := m.Called(ctx, amount, currency, targetCurrency)
	return args.String(0)
}

// MockVisitOrderService
type MockVisitOrderService struct {
	mock.Mock
}

func (m *MockVisitOrderService) Create(ctx context.Context, propertyID primitive.ObjectID, req *models.VisitOrderRequest) (*models.VisitOrder, error) {
	args := m.Called(ctx, propertyID, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.VisitOrder), args.Error(1)
}

func (m *MockVisitOrderService) ListByProperty(ctx context.Context, propertyID primitive.ObjectID, limit int) ([]models.VisitOrder, error) {
	args := m.Called(ctx, propertyID, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.VisitOrder), args.Error(1)
}
