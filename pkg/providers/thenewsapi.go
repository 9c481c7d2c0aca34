package providers

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/url"
	"strconv"

	"github.com/samvad-hq/samvad-headline-feed/internal/domain"
)

// TheNewsAPIAdapter speaks the thenewsapi.com format:
// {"meta": {"found": N, ...}, "data": [...]} or {"error": {...}}.
type TheNewsAPIAdapter struct{}

type theNewsAPIResponse struct {
	Meta  *theNewsAPIMeta `json:"meta"`
	Data  []RawArticle    `json:"data"`
	Error json.RawMessage `json:"error"`
}

type theNewsAPIMeta struct {
	Found    *int `json:"found"`
	Returned int  `json:"returned"`
	Limit    int  `json:"limit"`
	Page     int  `json:"page"`
}

func (TheNewsAPIAdapter) Type() string { return TypeTheNewsAPI }

func (TheNewsAPIAdapter) BuildQuery(cfg Provider, params domain.FilterParams, page int, includeLocale bool) (string, error) {
	u, err := url.Parse(cfg.SourceURL)
	if err != nil {
		return "", fmt.Errorf("parse %s source_url: %w", cfg.ID, err)
	}

	q := u.Query()
	q.Set("api_token", params.APIKey)
	q.Set("categories", params.Category)
	q.Set("limit", strconv.Itoa(params.PageSize))
	q.Set("page", strconv.Itoa(page))
	if params.Language != "" {
		q.Set("language", params.Language)
	}
	if includeLocale && params.HasLocale() {
		q.Set("locale", params.Country)
	}
	u.RawQuery = q.Encode()

	return u.String(), nil
}

func (TheNewsAPIAdapter) IsError(status int, body []byte) (string, bool) {
	var resp theNewsAPIResponse
	decodeErr := json.Unmarshal(body, &resp)

	if decodeErr == nil {
		if msg, ok := errorPayloadMessage(resp.Error); ok {
			return msg, true
		}
	}
	if !isSuccessStatus(status) {
		return fmt.Sprintf("provider returned status %d: %s", status, ResponseSnippet(body)), true
	}
	if decodeErr != nil {
		return fmt.Sprintf("decode provider response: %v", decodeErr), true
	}
	return "", false
}

// errorPayloadMessage extracts the message from an "error" field that may be
// an object with a message, a bare string, or absent.
func errorPayloadMessage(raw json.RawMessage) (string, bool) {
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 || bytes.Equal(raw, []byte("null")) {
		return "", false
	}

	var msg string
	if err := json.Unmarshal(raw, &msg); err == nil {
		if msg == "" {
			msg = defaultErrorMessage
		}
		return msg, true
	}

	var obj struct {
		Code    string `json:"code"`
		Message string `json:"message"`
	}
	if err := json.Unmarshal(raw, &obj); err == nil && obj.Message != "" {
		return obj.Message, true
	}
	return defaultErrorMessage, true
}

func (TheNewsAPIAdapter) ExtractItems(body []byte) ([]RawArticle, error) {
	var resp theNewsAPIResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return nil, fmt.Errorf("decode thenewsapi data: %w", err)
	}
	return resp.Data, nil
}

func (TheNewsAPIAdapter) ExtractTotal(body []byte) (int, bool) {
	var resp theNewsAPIResponse
	if err := json.Unmarshal(body, &resp); err != nil || resp.Meta == nil || resp.Meta.Found == nil {
		return 0, false
	}
	return *resp.Meta.Found, true
}
