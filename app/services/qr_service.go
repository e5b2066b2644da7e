package services

import (
	"context"
	"crypto/sha1"
	"encoding/hex"
	"fmt"
	"time"

	"github.com/dnguyen-dev/bistro/config"
	"github.com/dnguyen-dev/bistro/pkg/httpclient"
	"github.com/dnguyen-dev/bistro/pkg/logger"
	"github.com/dnguyen-dev/bistro/pkg/storage"
)

// QRService turns a payment payload into a PNG via the external
// renderer, caching each image through the storage manager so repeat
// views of the same payment never re-hit the renderer.
type QRService struct{}

func NewQRService() *QRService {
	return &QRService{}
}

func qrKey(payload string) string {
	sum := sha1.Sum([]byte(payload))
	return "qr/" + hex.EncodeToString(sum[:]) + ".png"
}

// Image returns the rendered QR PNG for payload.
func (s *QRService) Image(ctx context.Context, payload string) ([]byte, error) {
	key := qrKey(payload)
	if storage.Exists(key) {
		return storage.Get(key)
	}

	resp, err := httpclient.Get(config.QREndpoint()).
		Query("size", "256x256").
		Query("data", payload).
		Retry(3, 500*time.Millisecond).
		Send(ctx)
	if err != nil {
		return nil, fmt.Errorf("qr: fetch image: %w", err)
	}
	if err := resp.Throw(); err != nil {
		return nil, fmt.Errorf("qr: renderer rejected payload: %w", err)
	}

	if err := storage.Put(key, resp.Raw); err != nil {
		// Cache failures are not fatal; the image is still good.
		logger.Warn("qr: cache write failed", "key", key, "error", err)
	}
	return resp.Raw, nil
}
