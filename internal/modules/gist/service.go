package gist

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"sort"
	"time"

	"github.com/gitglyph/core/internal/config"
	pkgredis "github.com/gitglyph/core/internal/pkg/redis"
	"go.uber.org/zap"
)

const (
	cacheKeyPrefix = "gg:gist:"
	userAgent      = "GitGlyph-App"
)

type Service struct {
	cfg    config.GitHubConfig
	ttl    time.Duration
	rc     *pkgredis.Client
	client *http.Client
	logger *zap.Logger
}

func NewService(cfg config.GitHubConfig, ttl time.Duration, rc *pkgredis.Client, logger *zap.Logger) *Service {
	return &Service{
		cfg:    cfg,
		ttl:    ttl,
		rc:     rc,
		client: &http.Client{Timeout: 15 * time.Second},
		logger: logger,
	}
}

// Fetch resolves the identifier and returns the gist record, read-through
// cached in Redis for the configured freshness window. Multi-file gists are
// reduced to their first file.
func (s *Service) Fetch(ctx context.Context, identifier string) (Record, error) {
	id, err := ExtractID(identifier)
	if err != nil {
		return Record{}, err
	}

	if cached, ok := s.fromCache(ctx, id); ok {
		return cached, nil
	}

	record, err := s.fetchUpstream(ctx, id)
	if err != nil {
		return Record{}, err
	}

	s.toCache(ctx, id, record)
	return record, nil
}

func (s *Service) fetchUpstream(ctx context.Context, id string) (Record, error) {
	url := s.cfg.APIURL + "/gists/" + id
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return Record{}, fmt.Errorf("%w: %v", ErrUpstream, err)
	}
	req.Header.Set("Accept", "application/vnd.github.v3+json")
	req.Header.Set("User-Agent", userAgent)
	if s.cfg.Token != "" {
		req.Header.Set("Authorization", "Bearer "+s.cfg.Token)
	}

	resp, err := s.client.Do(req)
	if err != nil {
		return Record{}, fmt.Errorf("%w: %v", ErrUpstream, err)
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusNotFound:
		return Record{}, ErrNotFound
	case resp.StatusCode == http.StatusForbidden || resp.StatusCode == http.StatusTooManyRequests:
		return Record{}, ErrRateLimited
	case resp.StatusCode < 200 || resp.StatusCode > 299:
		return Record{}, fmt.Errorf("%w: status %d", ErrUpstream, resp.StatusCode)
	}

	var upstream upstreamGist
	if err := json.NewDecoder(resp.Body).Decode(&upstream); err != nil {
		return Record{}, fmt.Errorf("%w: decode: %v", ErrUpstream, err)
	}

	return buildRecord(upstream)
}

// buildRecord picks the first file deterministically (smallest filename key)
// and applies the documented fallbacks.
func buildRecord(g upstreamGist) (Record, error) {
	if len(g.Files) == 0 {
		return Record{}, fmt.Errorf("%w: no files found in gist", ErrUpstream)
	}

	names := make([]string, 0, len(g.Files))
	for name := range g.Files {
		names = append(names, name)
	}
	sort.Strings(names)
	first := g.Files[names[0]]

	description := g.Description
	if description == "" {
		description = "Untitled"
	}
	language := first.Language
	if language == "" {
		language = "text"
	}

	return Record{
		Description:     description,
		AuthorLogin:     g.Owner.Login,
		AuthorAvatarURL: g.Owner.AvatarURL,
		Content:         first.Content,
		Filename:        first.Filename,
		Language:        language,
		CreatedAt:       g.CreatedAt,
		UpdatedAt:       g.UpdatedAt,
	}, nil
}

func (s *Service) fromCache(ctx context.Context, id string) (Record, bool) {
	if s.rc == nil || s.ttl <= 0 {
		return Record{}, false
	}
	raw, err := s.rc.GetBytes(ctx, cacheKeyPrefix+id)
	if err != nil || len(raw) == 0 {
		return Record{}, false
	}
	var record Record
	if err := json.Unmarshal(raw, &record); err != nil {
		return Record{}, false
	}
	return record, true
}

func (s *Service) toCache(ctx context.Context, id string, record Record) {
	if s.rc == nil || s.ttl <= 0 {
		return
	}
	raw, err := json.Marshal(record)
	if err != nil {
		return
	}
	if err := s.rc.Set(ctx, cacheKeyPrefix+id, raw, s.ttl); err != nil {
		s.logger.Warn("gist cache write failed", zap.String("id", id), zap.Error(err))
	}
}
