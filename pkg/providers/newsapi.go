package providers

import (
	"encoding/json"
	"fmt"
	"net/url"
	"strconv"

	"github.com/samvad-hq/samvad-headline-feed/internal/domain"
)

// NewsAPIAdapter speaks the newsapi.org top-headlines format:
// {"status": "ok", "totalResults": N, "articles": [...]}.
type NewsAPIAdapter struct{}

type newsAPIResponse struct {
	Status       string       `json:"status"`
	Code         string       `json:"code"`
	Message      string       `json:"message"`
	TotalResults *int         `json:"totalResults"`
	Articles     []RawArticle `json:"articles"`
}

func (NewsAPIAdapter) Type() string { return TypeNewsAPI }

// BuildQuery sets country, category, apiKey, page and pageSize. Top headlines
// have no language filter, so params.Language is not sent.
func (NewsAPIAdapter) BuildQuery(cfg Provider, params domain.FilterParams, page int, includeLocale bool) (string, error) {
	u, err := url.Parse(cfg.SourceURL)
	if err != nil {
		return "", fmt.Errorf("parse %s source_url: %w", cfg.ID, err)
	}

	q := u.Query()
	if includeLocale && params.HasLocale() {
		q.Set("country", params.Country)
	}
	q.Set("category", params.Category)
	q.Set("apiKey", params.APIKey)
	q.Set("page", strconv.Itoa(page))
	q.Set("pageSize", strconv.Itoa(params.PageSize))
	u.RawQuery = q.Encode()

	return u.String(), nil
}

func (NewsAPIAdapter) IsError(status int, body []byte) (string, bool) {
	var resp newsAPIResponse
	decodeErr := json.Unmarshal(body, &resp)

	if !isSuccessStatus(status) {
		if decodeErr == nil && resp.Message != "" {
			return resp.Message, true
		}
		return fmt.Sprintf("provider returned status %d: %s", status, ResponseSnippet(body)), true
	}
	if decodeErr != nil {
		return fmt.Sprintf("decode provider response: %v", decodeErr), true
	}
	if resp.Status != "ok" {
		if resp.Message != "" {
			return resp.Message, true
		}
		return defaultErrorMessage, true
	}
	return "", false
}

func (NewsAPIAdapter) ExtractItems(body []byte) ([]RawArticle, error) {
	var resp newsAPIResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return nil, fmt.Errorf("decode newsapi articles: %w", err)
	}
	return resp.Articles, nil
}

func (NewsAPIAdapter) ExtractTotal(body []byte) (int, bool) {
	var resp newsAPIResponse
	if err := json.Unmarshal(body, &resp); err != nil || resp.TotalResults == nil {
		return 0, false
	}
	return *resp.TotalResults, true
}
