package importer

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"recipe-box/internal/core/recipe"
	"recipe-box/internal/infrastructure/config"
	"recipe-box/internal/pkg/common"

	"go.uber.org/zap"
)

// Imported identifies one recipe created by an import run.
type Imported struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// Service orchestrates the import pipeline: previewing a remote site,
// paging through its recipes, and importing the selected ones.
type Service struct {
	client   *RemoteClient
	detector *Detector
	mapper   *Mapper
	sessions *SessionManager
	messages config.MessagesConfig
}

// NewService creates the import service.
func NewService(client *RemoteClient, detector *Detector, mapper *Mapper, sessions *SessionManager, messages config.MessagesConfig) *Service {
	return &Service{
		client:   client,
		detector: detector,
		mapper:   mapper,
		sessions: sessions,
		messages: messages,
	}
}

// StartPreview fetches the first page of recipes from the submitted URL
// and opens a preview session over them. An empty URL returns ErrEmptyURL;
// an unreachable or non-JSON endpoint returns ErrFetchFailed.
func (s *Service) StartPreview(ctx context.Context, rawURL string) (*Session, error) {
	if strings.TrimSpace(rawURL) == "" {
		return nil, ErrEmptyURL
	}
	baseURL := NormalizeBaseURL(rawURL)

	items, err := s.client.FetchPage(ctx, baseURL, 1)
	if err != nil {
		return nil, err
	}
	if len(items) == 0 {
		return nil, fmt.Errorf("%w: no recipes at %s", ErrFetchFailed, baseURL)
	}

	rows := s.classifyRows(ctx, items)
	session := s.sessions.Create(baseURL, rows)

	common.LogInfo("import preview started",
		zap.String("session_id", session.ID),
		zap.String("base_url", baseURL),
		zap.Int("rows", len(rows)),
	)

	return session, nil
}

// FetchMore fetches the next remote page for a session and appends its
// rows. The page counter only advances when the fetch succeeds with at
// least one recipe; an empty or failed page returns ErrNoMorePages and
// leaves the session untouched so the action can be retried.
func (s *Service) FetchMore(ctx context.Context, sessionID string) (*Session, error) {
	session := s.sessions.Snapshot(sessionID)
	if session == nil {
		return nil, ErrUnknownSession
	}

	nextPage := session.Page + 1
	items, err := s.client.FetchPage(ctx, session.BaseURL, nextPage)
	if err != nil {
		common.LogWarn("fetch more failed",
			zap.Error(err),
			zap.String("session_id", sessionID),
			zap.Int("page", nextPage),
		)
		return nil, ErrNoMorePages
	}
	if len(items) == 0 {
		return nil, ErrNoMorePages
	}

	rows := s.classifyRows(ctx, items)
	if !s.sessions.Append(sessionID, nextPage, rows) {
		return nil, ErrUnknownSession
	}

	session = s.sessions.Snapshot(sessionID)
	if session == nil {
		return nil, ErrUnknownSession
	}
	return session, nil
}

// classifyRows runs duplicate detection over one fetched page. Lookups are
// independent, so they run concurrently; a failed lookup leaves the row
// selectable rather than failing the preview.
func (s *Service) classifyRows(ctx context.Context, items []recipe.RemoteRecipe) []Row {
	rows := make([]Row, len(items))

	var wg sync.WaitGroup
	for i := range items {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			item := &items[i]

			row := Row{
				RemoteID:   string(item.ID),
				Title:      item.Title.Rendered,
				Slug:       item.Slug,
				Status:     StatusDistinct,
				Selectable: true,
			}

			match, err := s.detector.Classify(ctx, item)
			if err != nil {
				common.LogWarn("duplicate check failed",
					zap.Error(err),
					zap.String("remote_id", row.RemoteID),
				)
				rows[i] = row
				return
			}

			row.Status = match.Status
			switch match.Status {
			case StatusDuplicate:
				row.Selectable = false
				row.Message = s.messages.Duplicate
			case StatusSimilar:
				row.Message = s.messages.Similar
			}
			rows[i] = row
		}(i)
	}
	wg.Wait()

	return rows
}

// ImportSelected imports the chosen remote recipes one at a time. A recipe
// that fails to fetch or store is logged and skipped; the run continues
// with the rest. Recipes whose title already exists locally are skipped
// silently.
func (s *Service) ImportSelected(ctx context.Context, rawURL string, ids []string) ([]Imported, error) {
	if strings.TrimSpace(rawURL) == "" {
		return nil, ErrEmptyURL
	}
	baseURL := NormalizeBaseURL(rawURL)

	imported := make([]Imported, 0, len(ids))
	for _, id := range ids {
		remote, err := s.client.FetchRecipe(ctx, baseURL, id)
		if err != nil {
			common.LogWarn("skipping recipe, remote fetch failed",
				zap.Error(err),
				zap.String("remote_id", id),
			)
			continue
		}

		localID, err := s.mapper.MapAndStore(ctx, remote)
		if err != nil {
			common.LogError("skipping recipe, import failed",
				zap.Error(err),
				zap.String("remote_id", id),
			)
			continue
		}
		if localID == "" {
			continue
		}

		imported = append(imported, Imported{
			ID:   localID,
			Name: strings.TrimSpace(remote.Title.Rendered),
		})
	}

	common.LogInfo("import run finished",
		zap.String("base_url", baseURL),
		zap.Int("requested", len(ids)),
		zap.Int("imported", len(imported)),
	)

	return imported, nil
}
