package providers

import (
	"bytes"
	"encoding/json"
)

// RawArticle is the union of the supported provider article shapes. Fields a
// provider does not send stay empty.
type RawArticle struct {
	Title       string    `json:"title"`
	Description string    `json:"description"`
	Snippet     string    `json:"snippet"`
	URL         string    `json:"url"`
	URLToImage  string    `json:"urlToImage"`
	ImageURL    string    `json:"image_url"`
	Author      string    `json:"author"`
	PublishedAt string    `json:"publishedAt"`
	Published   string    `json:"published_at"`
	Source      RawSource `json:"source"`
}

// RawSource accepts both a nested {"name": "..."} object and a flat string.
type RawSource struct {
	Name string
}

func (s *RawSource) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) == 0 || bytes.Equal(data, []byte("null")) {
		s.Name = ""
		return nil
	}

	if data[0] == '"' {
		return json.Unmarshal(data, &s.Name)
	}

	var nested struct {
		Name *string `json:"name"`
	}
	if err := json.Unmarshal(data, &nested); err != nil {
		return err
	}
	if nested.Name != nil {
		s.Name = *nested.Name
	}
	return nil
}

func (s RawSource) MarshalJSON() ([]byte, error) {
	return json.Marshal(struct {
		Name string `json:"name"`
	}{Name: s.Name})
}
