package publishers

import (
	"time"

	"github.com/google/uuid"

	"github.com/samvad-hq/samvad-headline-feed/internal/domain"
)

// PageEvent describes one page of headlines appended to a feed.
type PageEvent struct {
	ID             string           `json:"id"`
	ProviderID     string           `json:"provider_id"`
	Category       string           `json:"category"`
	Country        string           `json:"country,omitempty"`
	Page           int              `json:"page"`
	Articles       []domain.Article `json:"articles"`
	TotalAvailable int              `json:"total_available"`
	Notice         string           `json:"notice,omitempty"`
	CollectedAt    time.Time        `json:"collected_at"`
}

// NewPageEvent constructs a PageEvent for the given page of articles.
func NewPageEvent(providerID string, params domain.FilterParams, page int, articles []domain.Article, total int, notice string) PageEvent {
	return PageEvent{
		ID:             uuid.NewString(),
		ProviderID:     providerID,
		Category:       params.Category,
		Country:        params.Country,
		Page:           page,
		Articles:       articles,
		TotalAvailable: total,
		Notice:         notice,
		CollectedAt:    time.Now().UTC(),
	}
}

// attributes are the routing attributes attached to queue/topic messages.
// Empty values are omitted since SQS and SNS reject them.
func (e PageEvent) attributes() map[string]string {
	attrs := make(map[string]string, 3)
	for k, v := range map[string]string{
		"provider_id": e.ProviderID,
		"category":    e.Category,
		"country":     e.Country,
	} {
		if v != "" {
			attrs[k] = v
		}
	}
	return attrs
}
