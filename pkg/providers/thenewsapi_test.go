package providers

import (
	"net/http"
	"net/url"
	"testing"

	"github.com/samvad-hq/samvad-headline-feed/internal/domain"
)

var theNewsAPIProvider = Provider{ID: "tna", Type: TypeTheNewsAPI, SourceURL: "https://api.thenewsapi.com/v1/news/top"}

func TestTheNewsAPIBuildQuery(t *testing.T) {
	params := domain.FilterParams{Category: "tech", Country: "us", Language: "en", PageSize: 3, APIKey: "tok"}

	got, err := TheNewsAPIAdapter{}.BuildQuery(theNewsAPIProvider, params, 4, true)
	if err != nil {
		t.Fatalf("BuildQuery: %v", err)
	}
	u, err := url.Parse(got)
	if err != nil {
		t.Fatalf("parse built url: %v", err)
	}
	q := u.Query()
	want := map[string]string{
		"api_token":  "tok",
		"categories": "tech",
		"limit":      "3",
		"page":       "4",
		"language":   "en",
		"locale":     "us",
	}
	for k, v := range want {
		if q.Get(k) != v {
			t.Fatalf("query %s = %q, want %q (%s)", k, q.Get(k), v, got)
		}
	}

	global, _ := TheNewsAPIAdapter{}.BuildQuery(theNewsAPIProvider, params, 1, false)
	gu, _ := url.Parse(global)
	if gu.Query().Has("locale") {
		t.Fatalf("locale must be omitted without includeLocale: %s", global)
	}
	if gu.Query().Get("language") != "en" {
		t.Fatalf("language should be kept on global query: %s", global)
	}
}

func TestTheNewsAPIIsError(t *testing.T) {
	cases := []struct {
		name    string
		status  int
		body    string
		wantErr bool
		wantMsg string
	}{
		{"ok", http.StatusOK, `{"meta":{"found":0},"data":[]}`, false, ""},
		{"error object", http.StatusUnauthorized, `{"error":{"code":"invalid_api_token","message":"Invalid token"}}`, true, "Invalid token"},
		{"error string", http.StatusOK, `{"error":"quota exceeded"}`, true, "quota exceeded"},
		{"null error", http.StatusOK, `{"error":null,"data":[]}`, false, ""},
		{"bare 500", http.StatusInternalServerError, ``, true, ""},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			msg, isErr := TheNewsAPIAdapter{}.IsError(tc.status, []byte(tc.body))
			if isErr != tc.wantErr {
				t.Fatalf("IsError = %v, want %v (msg %q)", isErr, tc.wantErr, msg)
			}
			if tc.wantMsg != "" && msg != tc.wantMsg {
				t.Fatalf("message = %q, want %q", msg, tc.wantMsg)
			}
		})
	}
}

func TestTheNewsAPIExtract(t *testing.T) {
	body := []byte(`{"meta":{"found":120,"returned":1,"limit":3,"page":1},"data":[
		{"uuid":"1","title":"T","snippet":"S","url":"x","image_url":"u","published_at":"2024-01-01","source":"Src"}
	]}`)

	items, err := TheNewsAPIAdapter{}.ExtractItems(body)
	if err != nil {
		t.Fatalf("ExtractItems: %v", err)
	}
	if len(items) != 1 || items[0].Source.Name != "Src" || items[0].Snippet != "S" || items[0].ImageURL != "u" {
		t.Fatalf("unexpected items %+v", items)
	}

	total, ok := TheNewsAPIAdapter{}.ExtractTotal(body)
	if !ok || total != 120 {
		t.Fatalf("ExtractTotal = %d, %v", total, ok)
	}
	if _, ok := (TheNewsAPIAdapter{}).ExtractTotal([]byte(`{"data":[]}`)); ok {
		t.Fatalf("missing meta should report absent")
	}
}
