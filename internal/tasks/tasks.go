package tasks

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"image"
	_ "image/gif"
	"image/jpeg"
	_ "image/png"
	"log"

	"github.com/hibiken/asynq"
	"github.com/nfnt/resize"
	"github.com/redis/go-redis/v9"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/carlosgl93/gumucio-propiedades/internal/config"
	"github.com/carlosgl93/gumucio-propiedades/internal/services"
	"github.com/carlosgl93/gumucio-propiedades/internal/storage"
)

// TaskType defines the type of a background task.
const (
	TypeThumbnailGenerate = "image:thumbnail"
)

// --- Task Client (Enqueuing tasks) ---

func NewClient(rdb *redis.Client) *asynq.Client {
	clientOpt := asynq.RedisClientOpt{
		Addr:     rdb.Options().Addr,
		Password: rdb.Options().Password,
		DB:       rdb.Options().DB,
	}
	return asynq.NewClient(clientOpt)
}

// ThumbnailTaskPayload carries the coordinates of one uploaded gallery
// image whose thumbnail must be generated.
type ThumbnailTaskPayload struct {
	PropertyID string `json:"property_id"`
	ImageID    string `json:"image_id"`
	S3Key      string `json:"s3_key"`
}

// NewThumbnailTask builds the asynq task for a freshly uploaded image.
func NewThumbnailTask(propertyID, imageID, s3Key string) (*asynq.Task, error) {
	payload, err := json.Marshal(ThumbnailTaskPayload{
		PropertyID: propertyID,
		ImageID:    imageID,
		S3Key:      s3Key,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to marshal thumbnail task payload: %w", err)
	}
	return asynq.NewTask(TypeThumbnailGenerate, payload, asynq.Queue("images")), nil
}

// --- Task Server (Processing tasks) ---

// TaskProcessor handles the processing of tasks. It holds the dependencies
// needed by task handlers.
type TaskProcessor struct {
	cfg             *config.Config
	objects         storage.IObjectStorage
	propertyService services.IPropertyService
}

func NewTaskProcessor(
	cfg *config.Config,
	objects storage.IObjectStorage,
	propertyService services.IPropertyService,
) *TaskProcessor {
	return &TaskProcessor{
		cfg:             cfg,
		objects:         objects,
		propertyService: propertyService,
	}
}

// SetupServer configures an Asynq server and its handler mux. The caller
// owns the lifecycle: Run blocks, Shutdown stops it.
func SetupServer(rdb *redis.Client, processor *TaskProcessor) (*asynq.Server, *asynq.ServeMux) {
	serverOpt := asynq.RedisClientOpt{
		Addr:     rdb.Options().Addr,
		Password: rdb.Options().Password,
		DB:       rdb.Options().DB,
	}

	srv := asynq.NewServer(
		serverOpt,
		asynq.Config{
			Queues: map[string]int{
				"default": 3,
				"images":  6,
			},
			ErrorHandler: asynq.ErrorHandlerFunc(func(ctx context.Context, task *asynq.Task, err error) {
				log.Printf("[Asynq Error] Task Type: %s, Payload: %s, Error: %v", task.Type(), string(task.Payload()), err)
			}),
		},
	)

	mux := asynq.NewServeMux()
	mux.HandleFunc(TypeThumbnailGenerate, processor.HandleThumbnailGenerateTask)
	log.Println("Registered image processing task handlers.")

	return srv, mux
}

// --- Task Handlers ---

// HandleThumbnailGenerateTask downloads the original gallery image,
// shrinks it to fit the configured thumbnail box, uploads the result to
// the thumbnails folder and records the thumbnail URL on the property
// document.
func (p *TaskProcessor) HandleThumbnailGenerateTask(ctx context.Context, t *asynq.Task) error {
	var payload ThumbnailTaskPayload
	if err := json.Unmarshal(t.Payload(), &payload); err != nil {
		return fmt.Errorf("failed to unmarshal thumbnail task payload: %v: %w", err, asynq.SkipRetry)
	}

	propertyID, err := primitive.ObjectIDFromHex(payload.PropertyID)
	if err != nil {
		log.Printf("Invalid PropertyID in thumbnail task payload: %s", payload.PropertyID)
		return fmt.Errorf("invalid property ID in payload: %w", asynq.SkipRetry)
	}

	log.Printf("Processing thumbnail task: S3Key=%s, PropertyID=%s", payload.S3Key, payload.PropertyID)

	imgData, _, err := p.objects.Download(ctx, payload.S3Key)
	if err != nil {
		log.Printf("Error downloading image %s: %v", payload.S3Key, err)
		return fmt.Errorf("failed to download original image: %w", err)
	}

	maxSizeBytes := int64(p.cfg.ImageMaxSizeMB) * 1024 * 1024
	if int64(len(imgData)) > maxSizeBytes {
		log.Printf("Image %s exceeds max size (%d > %d bytes). Skipping.", payload.S3Key, len(imgData), maxSizeBytes)
		return fmt.Errorf("image exceeds max size: %w", asynq.SkipRetry)
	}

	img, format, err := image.Decode(bytes.NewReader(imgData))
	if err != nil {
		log.Printf("Error decoding image %s: %v", payload.S3Key, err)
		return fmt.Errorf("unsupported image format or corrupt image: %w", asynq.SkipRetry)
	}
	log.Printf("Decoded image %s, format: %s, size: %dx%d", payload.S3Key, format, img.Bounds().Dx(), img.Bounds().Dy())

	maxPx := uint(p.cfg.ThumbnailMaxPx)
	thumb := resize.Thumbnail(maxPx, maxPx, img, resize.Lanczos3)

	var buf bytes.Buffer
	if err := jpeg.Encode(&buf, thumb, &jpeg.Options{Quality: 85}); err != nil {
		log.Printf("Error encoding thumbnail for %s: %v", payload.S3Key, err)
		return fmt.Errorf("failed to encode thumbnail: %w", err)
	}

	thumbKey := storage.ThumbnailKey(payload.PropertyID, payload.ImageID)
	thumbURL, err := p.objects.Upload(ctx, thumbKey, "image/jpeg", &buf)
	if err != nil {
		log.Printf("Error uploading thumbnail %s: %v", thumbKey, err)
		return fmt.Errorf("failed to upload thumbnail: %w", err)
	}

	if err := p.propertyService.SetImageThumbnail(ctx, propertyID, payload.ImageID, thumbURL); err != nil {
		log.Printf("Error recording thumbnail URL for property %s image %s: %v", payload.PropertyID, payload.ImageID, err)
		return fmt.Errorf("failed to record thumbnail URL: %w", err)
	}

	log.Printf("Thumbnail task processed successfully: Key=%s, PropertyID=%s", thumbKey, payload.PropertyID)
	return nil
}
