package domain

// Domain contains core models shared by providers, the feed and publishers.

// FilterParams selects the headlines a feed session reads. Country and
// Language are optional; an empty string means unset.
type FilterParams struct {
	Category string `json:"category"`
	Country  string `json:"country,omitempty"`
	Language string `json:"language,omitempty"`
	PageSize int    `json:"page_size"`
	APIKey   string `json:"-"`
}

// HasLocale reports whether a regional restriction is configured.
func (p FilterParams) HasLocale() bool {
	return p.Country != ""
}

// Article is the canonical headline record. Every field is always set,
// possibly to the empty string.
type Article struct {
	Title       string `json:"title"`
	Description string `json:"description"`
	ImageURL    string `json:"image_url"`
	URL         string `json:"url"`
	Author      string `json:"author"`
	PublishedAt string `json:"published_at"`
	SourceName  string `json:"source_name"`
}
