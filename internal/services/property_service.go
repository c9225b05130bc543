package services

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log"
	"path"
	"strings"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/carlosgl93/gumucio-propiedades/internal/config"
	"github.com/carlosgl93/gumucio-propiedades/internal/db"
	"github.com/carlosgl93/gumucio-propiedades/internal/models"
	"github.com/carlosgl93/gumucio-propiedades/internal/storage"
	"github.com/carlosgl93/gumucio-propiedades/internal/utils"
	"github.com/carlosgl93/gumucio-propiedades/internal/validation"
)

// IPropertyService maps the in-memory Property entity onto the two
// external stores: document fields go to MongoDB, image binaries to object
// storage, and the resulting references are folded back into the
// document's images array. The two stores are not transactionally linked;
// store failures propagate to the caller unmodified and compensation is a
// caller concern.
type IPropertyService interface {
	Create(ctx context.Context, property *models.Property) (primitive.ObjectID, error)
	Update(ctx context.Context, id primitive.ObjectID, updates map[string]interface{}) error
	GetByID(ctx context.Context, id primitive.ObjectID) (*models.Property, error)
	List(ctx context.Context, filter *models.PropertyFilter) ([]models.Property, error)
	Available(ctx context.Context) ([]models.Property, error)
	Featured(ctx context.Context) ([]models.Property, error)
	Delete(ctx context.Context, id primitive.ObjectID) error

	UploadImage(ctx context.Context, id primitive.ObjectID, filename, contentType string, data io.Reader, caption string) (*models.PropertyImage, error)
	AddImage(ctx context.Context, id primitive.ObjectID, image models.PropertyImage) (*models.Property, error)
	DeleteImage(ctx context.Context, id primitive.ObjectID, imageID string) error
	ReorderImages(ctx context.Context, id primitive.ObjectID, images []models.PropertyImage) ([]models.PropertyImage, error)
	SetImageThumbnail(ctx context.Context, id primitive.ObjectID, imageID, thumbnailURL string) error
}

const propertiesCollection = "properties"

// ValidationFailedError is returned when a write is attempted with a
// property that does not satisfy the field contract. It carries the full
// violation list so callers can render every error at once.
type ValidationFailedError struct {
	Result validation.ValidationResult
}

func (e *ValidationFailedError) Error() string {
	fields := make([]string, len(e.Result.Errors))
	for i, v := range e.Result.Errors {
		fields[i] = v.Field
	}
	return fmt.Sprintf("property validation failed: %s", strings.Join(fields, ", "))
}

// propertyService implements IPropertyService.
type propertyService struct {
	db        *mongo.Database
	cfg       *config.Config
	objects   storage.IObjectStorage
	validator *validation.PropertyValidator
}

// NewPropertyService creates a new PropertyService.
func NewPropertyService(db *mongo.Database, cfg *config.Config, objects storage.IObjectStorage, validator *validation.PropertyValidator) IPropertyService {
	return &propertyService{db: db, cfg: cfg, objects: objects, validator: validator}
}

// Create validates the candidate, stamps both timestamps server-side and
// inserts the document. The store-assigned identifier is returned; the
// caller's entity gains it only through this return value. Images are
// always empty at creation because binaries cannot be uploaded before an
// identifier exists.
func (s *propertyService) Create(ctx context.Context, property *models.Property) (primitive.ObjectID, error) {
	if result := s.validator.Validate(property); !result.IsValid {
		return primitive.NilObjectID, &ValidationFailedError{Result: result}
	}

	collection := s.db.Collection(propertiesCollection)
	now := time.Now().UTC()

	doc := *property
	doc.ID = primitive.NilObjectID
	doc.Images = []models.PropertyImage{}
	doc.CreatedAt = now
	doc.UpdatedAt = now
	if doc.Amenities == nil {
		doc.Amenities = []string{}
	}

	var insertedID primitive.ObjectID
	operation := func() error {
		res, insertErr := collection.InsertOne(ctx, &doc)
		if insertErr != nil {
			return insertErr
		}
		insertedID = res.InsertedID.(primitive.ObjectID)
		return nil
	}

	if err := db.Try(operation); err != nil {
		return primitive.NilObjectID, fmt.Errorf("failed to insert property %q: %w", property.Title, err)
	}

	return insertedID, nil
}

// updatableFields is the whitelist for partial updates. Identifier and
// timestamps are never client-supplied on write.
var updatableFields = map[string]bool{
	"title":        true,
	"description":  true,
	"type":         true,
	"price":        true,
	"currency":     true,
	"propertyType": true,
	"status":       true,
	"address":      true,
	"features":     true,
	"amenities":    true,
	"images":       true,
	"contactInfo":  true,
	"isActive":     true,
	"isFeatured":   true,
}

// Update applies a partial field merge keyed by identifier and re-stamps
// updatedAt. Fields outside the whitelist are rejected rather than
// silently dropped.
func (s *propertyService) Update(ctx context.Context, id primitive.ObjectID, updates map[string]interface{}) error {
	allowed := bson.M{}
	for key, value := range updates {
		if !updatableFields[key] {
			return fmt.Errorf("field '%s' cannot be updated via Update", key)
		}
		allowed[key] = value
	}
	if len(allowed) == 0 {
		return fmt.Errorf("no valid fields provided for update")
	}
	allowed["updatedAt"] = time.Now().UTC()

	collection := s.db.Collection(propertiesCollection)
	result, err := collection.UpdateOne(ctx, bson.M{"_id": id}, bson.M{"$set": allowed})
	if err != nil {
		return fmt.Errorf("failed to update property %s: %w", id.Hex(), err)
	}
	if result.MatchedCount == 0 {
		return mongo.ErrNoDocuments
	}
	return nil
}

// GetByID reads one property. Missing timestamps on legacy records default
// to now instead of failing the read.
func (s *propertyService) GetByID(ctx context.Context, id primitive.ObjectID) (*models.Property, error) {
	var property models.Property
	collection := s.db.Collection(propertiesCollection)

	err := collection.FindOne(ctx, bson.M{"_id": id}).Decode(&property)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, mongo.ErrNoDocuments
		}
		return nil, fmt.Errorf("error finding property by ID %s: %w", id.Hex(), err)
	}

	normalizeProperty(&property)
	return &property, nil
}

// List returns properties matching the filter's exact-match conjunction,
// newest first.
func (s *propertyService) List(ctx context.Context, filter *models.PropertyFilter) ([]models.Property, error) {
	query := bson.M{}
	if filter != nil {
		if filter.Status != nil {
			query["status"] = *filter.Status
		}
		if filter.PropertyType != nil {
			query["propertyType"] = *filter.PropertyType
		}
		if filter.IsActive != nil {
			query["isActive"] = *filter.IsActive
		}
		if filter.IsFeatured != nil {
			query["isFeatured"] = *filter.IsFeatured
		}
	}

	opts := options.Find().SetSort(bson.D{{Key: "createdAt", Value: -1}})
	cursor, err := s.db.Collection(propertiesCollection).Find(ctx, query, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to query properties: %w", err)
	}
	defer cursor.Close(ctx)

	var results []models.Property
	if err = cursor.All(ctx, &results); err != nil {
		return nil, fmt.Errorf("failed to decode properties: %w", err)
	}

	for i := range results {
		normalizeProperty(&results[i])
	}
	return results, nil
}

// Available lists active properties still on the market.
func (s *propertyService) Available(ctx context.Context) ([]models.Property, error) {
	status := models.StatusDisponible
	active := true
	return s.List(ctx, &models.PropertyFilter{Status: &status, IsActive: &active})
}

// Featured lists active properties highlighted on the home page.
func (s *propertyService) Featured(ctx context.Context) ([]models.Property, error) {
	featured := true
	active := true
	return s.List(ctx, &models.PropertyFilter{IsFeatured: &featured, IsActive: &active})
}

// Delete removes all binary objects under the property's storage paths,
// then deletes the document. Per-object deletions fail independently and
// never block the document deletion: orphaned binaries are inert and an
// accepted residual.
func (s *propertyService) Delete(ctx context.Context, id primitive.ObjectID) error {
	s.deleteAllObjects(ctx, storage.ImageKeyPrefix(id.Hex()))
	s.deleteAllObjects(ctx, storage.ThumbnailKeyPrefix(id.Hex()))

	result, err := s.db.Collection(propertiesCollection).DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return fmt.Errorf("failed to delete property %s: %w", id.Hex(), err)
	}
	if result.DeletedCount == 0 {
		return mongo.ErrNoDocuments
	}
	return nil
}

// deleteAllObjects best-effort removes every object under prefix.
func (s *propertyService) deleteAllObjects(ctx context.Context, prefix string) {
	keys, err := s.objects.List(ctx, prefix)
	if err != nil {
		log.Printf("WARN: failed to list objects under %s, proceeding with document deletion: %v", prefix, err)
		return
	}
	for _, key := range keys {
		if err := s.objects.Delete(ctx, key); err != nil {
			log.Printf("WARN: failed to delete object %s: %v", key, err)
		}
	}
}

// UploadImage uploads one binary to the property's image path and returns
// the resulting PropertyImage reference with a placeholder order of 0. The
// caller assigns the final order (see AssignImageOrder) before merging the
// reference into the document: only the caller knows the gallery's current
// length at merge time.
func (s *propertyService) UploadImage(ctx context.Context, id primitive.ObjectID, filename, contentType string, data io.Reader, caption string) (*models.PropertyImage, error) {
	imageID := utils.NewImageID()
	ext := utils.FileExtension(filename)
	key := storage.ImageKey(id.Hex(), imageID, ext)

	url, err := s.objects.Upload(ctx, key, contentType, data)
	if err != nil {
		return nil, fmt.Errorf("failed to upload image for property %s: %w", id.Hex(), err)
	}

	return &models.PropertyImage{
		ID:         imageID,
		URL:        url,
		Caption:    caption,
		Order:      0, // assigned by the caller at merge time
		UploadedAt: time.Now().UTC(),
	}, nil
}

// AddImage folds an uploaded image reference into the property document,
// assigning it the next order slot. Composes GetByID, AssignImageOrder and
// Update for callers that handle one image at a time; multi-file uploads
// should assign orders for the whole batch and call Update directly.
func (s *propertyService) AddImage(ctx context.Context, id primitive.ObjectID, image models.PropertyImage) (*models.Property, error) {
	property, err := s.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	merged := AssignImageOrder(property.Images, []models.PropertyImage{image})
	if err := s.Update(ctx, id, map[string]interface{}{"images": merged}); err != nil {
		return nil, err
	}

	property.Images = merged
	return property, nil
}

// DeleteImage removes the backing binary for an image reference. The
// stored filename embeds the image identifier plus an extension the caller
// does not know, so the object is located by listing the property's image
// path and matching on the identifier prefix. A missing binary is logged
// and treated as success: the desired end state (no such image) already
// holds, and a dangling document reference must not block further
// operations.
func (s *propertyService) DeleteImage(ctx context.Context, id primitive.ObjectID, imageID string) error {
	prefix := storage.ImageKeyPrefix(id.Hex())
	keys, err := s.objects.List(ctx, prefix)
	if err != nil {
		return fmt.Errorf("failed to list images for property %s: %w", id.Hex(), err)
	}

	var match string
	for _, key := range keys {
		name := path.Base(key)
		if strings.HasPrefix(name, imageID) {
			match = key
			break
		}
	}

	if match == "" {
		log.Printf("WARN: image %s not found in storage for property %s", imageID, id.Hex())
		return nil
	}

	if err := s.objects.Delete(ctx, match); err != nil {
		return fmt.Errorf("failed to delete image %s: %w", imageID, err)
	}

	// Thumbnail removal is best-effort; one may never have been generated.
	if err := s.objects.Delete(ctx, storage.ThumbnailKey(id.Hex(), imageID)); err != nil {
		log.Printf("WARN: failed to delete thumbnail for image %s: %v", imageID, err)
	}

	return nil
}

// ReorderImages persists a new display sequence: order = index over the
// supplied array. The input is already a total order so ties are
// impossible, and reordering an already-correct sequence is an idempotent
// write.
func (s *propertyService) ReorderImages(ctx context.Context, id primitive.ObjectID, images []models.PropertyImage) ([]models.PropertyImage, error) {
	renumbered := RenumberImages(images)
	if err := s.Update(ctx, id, map[string]interface{}{"images": renumbered}); err != nil {
		return nil, err
	}
	return renumbered, nil
}

// SetImageThumbnail records a generated thumbnail URL on one image of the
// gallery. Called by the thumbnail worker after the binary exists.
func (s *propertyService) SetImageThumbnail(ctx context.Context, id primitive.ObjectID, imageID, thumbnailURL string) error {
	collection := s.db.Collection(propertiesCollection)
	filter := bson.M{"_id": id, "images.id": imageID}
	update := bson.M{
		"$set": bson.M{
			"images.$.thumbnailUrl": thumbnailURL,
			"updatedAt":             time.Now().UTC(),
		},
	}

	result, err := collection.UpdateOne(ctx, filter, update)
	if err != nil {
		return fmt.Errorf("failed to set thumbnail for image %s on property %s: %w", imageID, id.Hex(), err)
	}
	if result.MatchedCount == 0 {
		// The image may have been deleted while the thumbnail was being
		// generated; not an error worth retrying.
		log.Printf("WARN: image %s no longer present on property %s, thumbnail URL dropped", imageID, id.Hex())
	}
	return nil
}

// normalizeProperty patches legacy or partial records on read: missing
// timestamps default to now and a missing images array becomes empty.
func normalizeProperty(p *models.Property) {
	now := time.Now().UTC()
	if p.CreatedAt.IsZero() {
		p.CreatedAt = now
	}
	if p.UpdatedAt.IsZero() {
		p.UpdatedAt = now
	}
	if p.Images == nil {
		p.Images = []models.PropertyImage{}
	}
	if p.Amenities == nil {
		p.Amenities = []string{}
	}
}
