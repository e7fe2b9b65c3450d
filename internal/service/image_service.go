package service

import (
	"bytes"
	"context"
	"encoding/base64"
	"errors"
	"fmt"
	"image"
	"image/jpeg"
	"strings"

	"github.com/disintegration/imaging"
	"github.com/google/uuid"

	"github.com/centime-app/centime-backend/internal/repository/storage"
)

const (
	// MaxImageWidth is the downscale target; narrower images keep their size.
	MaxImageWidth = 1200

	// MaxStoredBytes is the compression budget for a stored receipt image.
	MaxStoredBytes = 500 * 1024

	// Quality stepping: start high, drop until the budget or the floor.
	StartJPEGQuality = 90
	QualityStep      = 10
	MinJPEGQuality   = 10

	// MaxUploadSize bounds the raw upload before any processing.
	MaxUploadSize = 10 * 1024 * 1024
)

var (
	ErrImageTooLarge             = errors.New("file too large. Maximum size is 10MB")
	ErrInvalidImageData          = errors.New("invalid image data")
	ErrImageNotFound             = errors.New("image not found")
	ErrImageStorageNotConfigured = errors.New("image storage not configured")
)

const receiptPrefix = "receipts/"

// ImageService compresses and stores receipt photos
type ImageService struct {
	storage storage.ImageRepository
}

// NewImageService creates a new ImageService
func NewImageService(storage storage.ImageRepository) *ImageService {
	return &ImageService{storage: storage}
}

// IsEnabled indicates whether uploads/deletes are supported (storage configured).
func (s *ImageService) IsEnabled() bool {
	return s != nil && s.storage != nil
}

// Store decodes a data URI, downscales the image to at most MaxImageWidth
// wide, re-encodes it as JPEG stepping the quality down until it fits the
// storage budget, uploads it and returns the generated image id.
func (s *ImageService) Store(ctx context.Context, dataURI string) (string, error) {
	if !s.IsEnabled() {
		return "", ErrImageStorageNotConfigured
	}

	data, err := decodeDataURI(dataURI)
	if err != nil {
		return "", err
	}
	if len(data) > MaxUploadSize {
		return "", ErrImageTooLarge
	}

	img, _, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return "", ErrInvalidImageData
	}

	if img.Bounds().Dx() > MaxImageWidth {
		img = imaging.Resize(img, MaxImageWidth, 0, imaging.Lanczos)
	}

	encoded, err := compressToBudget(img)
	if err != nil {
		return "", err
	}

	imageID := uuid.New().String()
	objectPath := receiptPrefix + imageID + ".jpg"
	if _, err := s.storage.Upload(ctx, objectPath, bytes.NewReader(encoded), "image/jpeg", int64(len(encoded))); err != nil {
		return "", fmt.Errorf("failed to upload image: %w", err)
	}

	return imageID, nil
}

// compressToBudget lowers JPEG quality in fixed steps until the output fits
// MaxStoredBytes or the quality floor is reached. The floor result is kept
// even when over budget.
func compressToBudget(img image.Image) ([]byte, error) {
	var buf bytes.Buffer
	for quality := StartJPEGQuality; ; quality -= QualityStep {
		buf.Reset()
		if err := jpeg.Encode(&buf, img, &jpeg.Options{Quality: quality}); err != nil {
			return nil, fmt.Errorf("failed to encode image: %w", err)
		}
		if buf.Len() <= MaxStoredBytes || quality <= MinJPEGQuality {
			return buf.Bytes(), nil
		}
	}
}

// Retrieve returns the stored image as a JPEG data URI
func (s *ImageService) Retrieve(ctx context.Context, imageID string) (string, error) {
	if !s.IsEnabled() {
		return "", ErrImageStorageNotConfigured
	}
	data, err := s.storage.Download(ctx, receiptPrefix+imageID+".jpg")
	if errors.Is(err, storage.ErrObjectNotFound) {
		return "", ErrImageNotFound
	}
	if err != nil {
		return "", err
	}
	return "data:image/jpeg;base64," + base64.StdEncoding.EncodeToString(data), nil
}

// Delete removes a stored image
func (s *ImageService) Delete(ctx context.Context, imageID string) error {
	if !s.IsEnabled() {
		return ErrImageStorageNotConfigured
	}
	return s.storage.Delete(ctx, receiptPrefix+imageID+".jpg")
}

// CleanupOrphans removes stored images whose id is not in activeIDs,
// returning the removed count.
func (s *ImageService) CleanupOrphans(ctx context.Context, activeIDs []string) (int, error) {
	if !s.IsEnabled() {
		return 0, ErrImageStorageNotConfigured
	}

	active := make(map[string]bool, len(activeIDs))
	for _, id := range activeIDs {
		active[id] = true
	}

	paths, err := s.storage.List(ctx, receiptPrefix)
	if err != nil {
		return 0, err
	}

	removed := 0
	for _, path := range paths {
		id := strings.TrimSuffix(strings.TrimPrefix(path, receiptPrefix), ".jpg")
		if active[id] {
			continue
		}
		if err := s.storage.Delete(ctx, path); err != nil {
			return removed, err
		}
		removed++
	}
	return removed, nil
}

// decodeDataURI strips an optional data:*;base64, header and decodes the rest
func decodeDataURI(dataURI string) ([]byte, error) {
	payload := dataURI
	if strings.HasPrefix(dataURI, "data:") {
		idx := strings.Index(dataURI, ",")
		if idx < 0 {
			return nil, ErrInvalidImageData
		}
		payload = dataURI[idx+1:]
	}
	data, err := base64.StdEncoding.DecodeString(payload)
	if err != nil {
		return nil, ErrInvalidImageData
	}
	return data, nil
}
