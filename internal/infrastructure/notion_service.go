package infrastructure

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/jomei/notionapi"

	"github.com/sglre6355/notion-dday/internal/domain"
)

const (
	// DefaultDateProperty is the Notion property holding the entry date.
	DefaultDateProperty = "날짜"
	// DefaultTitleProperty is the Notion property holding the entry title.
	DefaultTitleProperty = "이름"
)

type databaseQuerier interface {
	Query(
		ctx context.Context,
		id notionapi.DatabaseID,
		request *notionapi.DatabaseQueryRequest,
	) (*notionapi.DatabaseQueryResponse, error)
}

// NotionService wraps the Notion API client used to read calendar entries.
type NotionService struct {
	databases     databaseQuerier
	databaseID    notionapi.DatabaseID
	dateProperty  string
	titleProperty string
}

// NotionServiceOption customises property lookups.
type NotionServiceOption func(*NotionService)

// WithDateProperty overrides the name of the date property.
func WithDateProperty(name string) NotionServiceOption {
	return func(s *NotionService) {
		if name != "" {
			s.dateProperty = name
		}
	}
}

// WithTitleProperty overrides the name of the title property.
func WithTitleProperty(name string) NotionServiceOption {
	return func(s *NotionService) {
		if name != "" {
			s.titleProperty = name
		}
	}
}

// NewNotionService builds a client for the given integration token and database.
func NewNotionService(apiKey, databaseID string, opts ...NotionServiceOption) (*NotionService, error) {
	if apiKey == "" {
		return nil, fmt.Errorf("notion api key cannot be empty")
	}
	if databaseID == "" {
		return nil, fmt.Errorf("notion database id cannot be empty")
	}

	client := notionapi.NewClient(notionapi.Token(apiKey))
	return newNotionService(client.Database, databaseID, opts...), nil
}

func newNotionService(databases databaseQuerier, databaseID string, opts ...NotionServiceOption) *NotionService {
	service := &NotionService{
		databases:     databases,
		databaseID:    notionapi.DatabaseID(databaseID),
		dateProperty:  DefaultDateProperty,
		titleProperty: DefaultTitleProperty,
	}

	for _, opt := range opts {
		opt(service)
	}

	return service
}

// FetchAllEntries queries the database once without a filter and converts the returned pages.
// Only the first result page is read.
func (s *NotionService) FetchAllEntries(ctx context.Context) ([]domain.Entry, error) {
	resp, err := s.databases.Query(ctx, s.databaseID, &notionapi.DatabaseQueryRequest{})
	if err != nil {
		return nil, fmt.Errorf("failed to query notion database: %w", err)
	}
	if resp == nil {
		return nil, fmt.Errorf("notion database query returned no response")
	}

	if resp.HasMore {
		slog.Debug(
			"notion query has more pages, only the first is used",
			slog.String("database", string(s.databaseID)),
			slog.Int("results", len(resp.Results)),
		)
	}

	entries := make([]domain.Entry, 0, len(resp.Results))
	for _, page := range resp.Results {
		entries = append(entries, s.entryFromPage(page))
	}

	return entries, nil
}

func (s *NotionService) entryFromPage(page notionapi.Page) domain.Entry {
	return domain.Entry{
		Date:  dateOf(page.Properties[s.dateProperty]),
		Title: titleOf(page.Properties[s.titleProperty]),
	}
}

func dateOf(property notionapi.Property) *time.Time {
	p, ok := property.(*notionapi.DateProperty)
	if !ok || p == nil || p.Date == nil || p.Date.Start == nil {
		return nil
	}

	start := time.Time(*p.Date.Start)
	if start.IsZero() {
		return nil
	}
	return &start
}

func titleOf(property notionapi.Property) string {
	p, ok := property.(*notionapi.TitleProperty)
	if !ok || p == nil || len(p.Title) == 0 || p.Title[0].PlainText == "" {
		return domain.UntitledPlaceholder
	}
	return p.Title[0].PlainText
}
