package arweave

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net"
	"os"
	"strings"
	"time"

	"github.com/gitglyph/core/internal/config"
	"go.uber.org/zap"
)

const (
	platformName = "GitGlyph"
	appVersion   = "1.0.0"
	recordType   = "gist-article"
)

// Uploader is the narrow interface to the storage network. Implementations
// submit exactly one transaction per call.
type Uploader interface {
	Upload(ctx context.Context, data []byte, tags []Tag) (string, error)
}

type Service struct {
	uploader   Uploader
	gatewayURL string
	logger     *zap.Logger
	now        func() time.Time
}

// NewService builds the publisher. A missing signing key does not fail
// startup; the service is constructed unconfigured and every publish fails
// with ErrConfiguration.
func NewService(cfg config.ArweaveConfig, logger *zap.Logger) *Service {
	s := &Service{
		gatewayURL: strings.TrimRight(cfg.GatewayURL, "/"),
		logger:     logger,
		now:        time.Now,
	}

	// Only MATIC signing is wired; any other funding currency would sign
	// items the node cannot charge.
	if cur := strings.ToLower(strings.TrimSpace(cfg.Currency)); cur != "" && cur != "matic" {
		logger.Error("unsupported bundlr currency, publish disabled", zap.String("currency", cfg.Currency))
		return s
	}

	key, err := resolvePrivateKey(cfg)
	if err != nil {
		logger.Error("arweave signing key unavailable", zap.Error(err))
		return s
	}
	if key == "" {
		logger.Warn("arweave signing key not configured, publish disabled")
		return s
	}

	uploader, err := NewBundlrUploader(cfg.NodeURL, key)
	if err != nil {
		logger.Error("bundlr uploader init failed", zap.Error(err))
		return s
	}
	s.uploader = uploader
	return s
}

// NewServiceWithUploader wires a custom uploader. Used by tests and by any
// deployment that fronts a different bundling service.
func NewServiceWithUploader(uploader Uploader, gatewayURL string, logger *zap.Logger) *Service {
	return &Service{
		uploader:   uploader,
		gatewayURL: strings.TrimRight(gatewayURL, "/"),
		logger:     logger,
		now:        time.Now,
	}
}

// Configured reports whether a signing credential is loaded.
func (s *Service) Configured() bool { return s.uploader != nil }

// Publish validates the inputs, builds the manifest and submits it to the
// storage network. Publishing is billable and non-idempotent; no retries
// happen here.
func (s *Service) Publish(ctx context.Context, dto PublishDTO) (Result, error) {
	if dto.Content == "" || dto.Description == "" || dto.AuthorLogin == "" || dto.Filename == "" {
		return Result{}, ErrMissingFields
	}
	if s.uploader == nil {
		return Result{}, ErrConfiguration
	}

	manifest := s.buildManifest(dto)
	data, err := json.MarshalIndent(manifest, "", "  ")
	if err != nil {
		return Result{}, fmt.Errorf("%w: marshal manifest: %v", ErrUpstream, err)
	}

	id, err := s.uploader.Upload(ctx, data, discoveryTags(dto))
	if err != nil {
		return Result{}, classifyUploadError(err)
	}

	url := s.gatewayURL + "/" + id
	s.logger.Info("published to arweave", zap.String("id", id), zap.String("url", url))
	return Result{ArweaveID: id, URL: url}, nil
}

func (s *Service) buildManifest(dto PublishDTO) Manifest {
	language := dto.Language
	if language == "" {
		language = "text"
	}
	return Manifest{
		Title:       dto.Description,
		Description: fmt.Sprintf("GitHub Gist by %s: %s", dto.AuthorLogin, dto.Description),
		Content:     dto.Content,
		Author:      dto.AuthorLogin,
		Filename:    dto.Filename,
		Language:    language,
		Platform:    platformName,
		Timestamp:   s.now().UTC().Format(time.RFC3339),
		Type:        recordType,
	}
}

func discoveryTags(dto PublishDTO) []Tag {
	return []Tag{
		{Name: "Content-Type", Value: "application/json"},
		{Name: "App-Name", Value: platformName},
		{Name: "App-Version", Value: appVersion},
		{Name: "Type", Value: recordType},
		{Name: "Author", Value: dto.AuthorLogin},
		{Name: "Language", Value: dto.Language},
		{Name: "Filename", Value: dto.Filename},
	}
}

// classifyUploadError translates bundling-service failures into the publish
// taxonomy. The node reports balance problems only in message text.
func classifyUploadError(err error) error {
	var netErr net.Error
	if errors.As(err, &netErr) {
		return fmt.Errorf("%w: %v", ErrNetwork, err)
	}

	msg := strings.ToLower(err.Error())
	switch {
	case strings.Contains(msg, "insufficient funds"), strings.Contains(msg, "not enough funds"):
		return fmt.Errorf("%w: %v", ErrInsufficientFunds, err)
	case strings.Contains(msg, "network"), strings.Contains(msg, "connection refused"), strings.Contains(msg, "timeout"):
		return fmt.Errorf("%w: %v", ErrNetwork, err)
	default:
		return fmt.Errorf("%w: %v", ErrUpstream, err)
	}
}

func resolvePrivateKey(cfg config.ArweaveConfig) (string, error) {
	if file := strings.TrimSpace(cfg.PrivateKeyFile); file != "" {
		raw, err := os.ReadFile(file)
		if err != nil {
			return "", fmt.Errorf("read key file %q: %w", file, err)
		}
		return strings.TrimSpace(string(raw)), nil
	}
	return strings.TrimSpace(cfg.PrivateKey), nil
}
