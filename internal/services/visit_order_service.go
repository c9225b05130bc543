package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/carlosgl93/gumucio-propiedades/internal/db"
	"github.com/carlosgl93/gumucio-propiedades/internal/models"
	"github.com/carlosgl93/gumucio-propiedades/internal/validation"
)

// IVisitOrderService records visit appointments for properties. The PDF
// the visitor takes along is rendered client-side; this keeps the
// back-office audit trail.
type IVisitOrderService interface {
	Create(ctx context.Context, propertyID primitive.ObjectID, req *models.VisitOrderRequest) (*models.VisitOrder, error)
	ListByProperty(ctx context.Context, propertyID primitive.ObjectID, limit int) ([]models.VisitOrder, error)
}

const visitOrdersCollection = "visit_orders"

// visitOrderService implements IVisitOrderService.
type visitOrderService struct {
	db         *mongo.Database
	properties IPropertyService
	validator  *validation.VisitOrderValidator
}

// NewVisitOrderService creates a new VisitOrderService.
func NewVisitOrderService(database *mongo.Database, properties IPropertyService, validator *validation.VisitOrderValidator) IVisitOrderService {
	return &visitOrderService{db: database, properties: properties, validator: validator}
}

// Create validates the request, checks the property exists and persists
// the order. The visitor RUT is stored in its canonical display form.
func (s *visitOrderService) Create(ctx context.Context, propertyID primitive.ObjectID, req *models.VisitOrderRequest) (*models.VisitOrder, error) {
	if result := s.validator.Validate(req); !result.IsValid {
		return nil, &ValidationFailedError{Result: result}
	}

	if _, err := s.properties.GetByID(ctx, propertyID); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, mongo.ErrNoDocuments
		}
		return nil, fmt.Errorf("failed to check property %s for visit order: %w", propertyID.Hex(), err)
	}

	order := &models.VisitOrder{
		PropertyID:   propertyID,
		VisitorName:  req.VisitorName,
		VisitorRut:   validation.FormatRUT(req.VisitorRut),
		VisitorPhone: validation.FormatChileanPhone(req.VisitorPhone),
		VisitorEmail: req.VisitorEmail,
		VisitDate:    req.VisitDate,
		VisitTime:    req.VisitTime,
		VisitType:    req.VisitType,
		CreatedAt:    time.Now().UTC(),
	}

	collection := s.db.Collection(visitOrdersCollection)
	operation := func() error {
		res, insertErr := collection.InsertOne(ctx, order)
		if insertErr != nil {
			return insertErr
		}
		order.ID = res.InsertedID.(primitive.ObjectID)
		return nil
	}

	if err := db.Try(operation); err != nil {
		return nil, fmt.Errorf("failed to insert visit order for property %s: %w", propertyID.Hex(), err)
	}

	return order, nil
}

// ListByProperty returns a property's visit orders, newest first.
func (s *visitOrderService) ListByProperty(ctx context.Context, propertyID primitive.ObjectID, limit int) ([]models.VisitOrder, error) {
	opts := options.Find().SetSort(bson.D{{Key: "createdAt", Value: -1}})
	if limit > 0 {
		opts.SetLimit(int64(limit))
	}

	cursor, err := s.db.Collection(visitOrdersCollection).Find(ctx, bson.M{"propertyId": propertyID}, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to query visit orders for property %s: %w", propertyID.Hex(), err)
	}
	defer cursor.Close(ctx)

	var orders []models.VisitOrder
	if err = cursor.All(ctx, &orders); err != nil {
		return nil, fmt.Errorf("failed to decode visit orders: %w", err)
	}
	return orders, nil
}
