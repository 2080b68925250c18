package webauth

import (
	"encoding/json"
	"net/url"
	"time"

	"github.com/google/uuid"
)

const loginPath = "/accounts/login/"

type slipstreamEvent struct {
	Description string `json:"description"`
	EventName   string `json:"event_name"`
	Platform    string `json:"platform,omitempty"`
	Extra       string `json:"extra"`
	Hostname    string `json:"hostname"`
	Path        string `json:"path"`
	Referer     string `json:"referer"`
	URL         string `json:"url"`
}

type slipstreamPage struct {
	PageID  string  `json:"page_id"`
	Posts   [][]any `json:"posts"`
	Trigger string  `json:"trigger,omitempty"`
}

type slipstreamBatch struct {
	Q []slipstreamPage `json:"q"`
}

// probePayload renders the analytics batch a browser posts while showing the
// login page. The provider answers it with a fresh csrftoken cookie.
func probePayload(origin string, now time.Time) ([]byte, error) {
	host := origin
	if u, err := url.Parse(origin); err == nil && u.Host != "" {
		host = u.Host
	}
	loginURL := origin + loginPath
	ts := now.UnixMilli()

	pageview := slipstreamEvent{
		Description: "loginPage",
		EventName:   "pageview",
		Platform:    "web",
		Extra:       `{"gk":{"rhp":true}}`,
		Hostname:    host,
		Path:        loginPath,
		URL:         loginURL,
	}
	fallback := slipstreamEvent{
		Description: "fbLoginFallback",
		EventName:   "action",
		Extra:       `{"gk":{"rhp":true},"type":"login"}`,
		Hostname:    host,
		Path:        loginPath,
		URL:         loginURL,
	}

	batch := slipstreamBatch{Q: []slipstreamPage{
		{
			PageID: "",
			Posts: [][]any{
				{"slipstream:pageview", pageview, ts, 0},
				{"slipstream:action", fallback, ts, 0},
			},
			Trigger: "slipstream:pageview",
		},
		{
			PageID: uuid.NewString()[:6],
			Posts: [][]any{
				{"slipstream:action", fallback, ts, 1},
			},
		},
	}}
	return json.Marshal(batch)
}
