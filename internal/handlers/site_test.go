package handlers

import (
	"bytes"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"portfolio/internal/models"
	"portfolio/internal/service"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func doSite(t *testing.T, s *service.Service, method, target string, body string, mutate func(*http.Request)) *httptest.ResponseRecorder {
	t.Helper()
	r := newTestRouter(s)
	var req *http.Request
	if body != "" {
		req = httptest.NewRequest(method, target, bytes.NewBufferString(body))
		req.Header.Set("Content-Type", "application/json")
	} else {
		req = httptest.NewRequest(method, target, nil)
	}
	req.AddCookie(visitorCookie(testVisitor))
	if mutate != nil {
		mutate(req)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestHomePage_RendersAndTracksReferrerOnce(t *testing.T) {
	s, prefs, tr := newSiteService()
	prefs.rows[testVisitor] = models.Preferences{DarkMode: models.DarkModePreference{Enabled: true}}

	w := doSite(t, s, http.MethodGet, "/", "", func(r *http.Request) {
		r.Header.Set("Referer", "https://news.ycombinator.com/")
	})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	assert.True(t, strings.HasPrefix(w.Header().Get("Content-Type"), "text/html"))
	assert.Contains(t, w.Body.String(), `class="mode-dark"`)
	assert.Contains(t, w.Body.String(), "Sann-Remy Chea")

	calls := tr.all()
	require.Len(t, calls, 1)
	assert.Equal(t, service.EventReferrer, calls[0].event.EventType)
	assert.Equal(t, "https://news.ycombinator.com/", calls[0].event.EventProperties["url"])
	assert.Nil(t, calls[0].event.Href)
	assert.Equal(t, testVisitor, calls[0].visitorID)
}

func TestHomePage_NoReferrerIsNone(t *testing.T) {
	s, _, tr := newSiteService()

	w := doSite(t, s, http.MethodGet, "/", "", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.NotContains(t, w.Body.String(), `class="mode-dark"`)

	calls := tr.all()
	require.Len(t, calls, 1)
	assert.Equal(t, "none", calls[0].event.EventProperties["url"])
}

func TestHomePage_PreferenceError(t *testing.T) {
	s, prefs, tr := newSiteService()
	prefs.err = errors.New("db locked")

	w := doSite(t, s, http.MethodGet, "/", "", nil)
	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.Empty(t, tr.all())
}

func TestPreferences_GetAndToggle(t *testing.T) {
	s, prefs, _ := newSiteService()

	w := doSite(t, s, http.MethodGet, "/prefs", "", nil)
	require.Equal(t, http.StatusOK, w.Code)
	var out preferencesResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &out))
	assert.False(t, out.Preferences.DarkMode.Enabled)
	assert.Empty(t, out.RootClass)

	w = doSite(t, s, http.MethodPost, "/prefs/dark-mode/toggle", "", nil)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &out))
	assert.True(t, out.Preferences.DarkMode.Enabled)
	assert.Equal(t, "mode-dark", out.RootClass)
	assert.JSONEq(t, `{"darkModeChanged":{"enabled":true,"rootClass":"mode-dark"}}`, w.Header().Get(hxTrigger))

	w = doSite(t, s, http.MethodPost, "/prefs/ama/toggle", "", nil)
	require.Equal(t, http.StatusOK, w.Code)
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &out))
	assert.True(t, out.Preferences.AMA.IsOpened)
	assert.True(t, out.Preferences.DarkMode.Enabled, "AMA toggle leaves dark mode alone")
	assert.JSONEq(t, `{"amaChanged":{"isOpened":true}}`, w.Header().Get(hxTrigger))

	assert.Equal(t, 2, prefs.toggles)
}

func TestPreferences_ResponseUsesWireNames(t *testing.T) {
	s, _, _ := newSiteService()

	w := doSite(t, s, http.MethodPost, "/prefs/ama/toggle", "", nil)
	require.Equal(t, http.StatusOK, w.Code)

	var raw map[string]json.RawMessage
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &raw))
	assert.JSONEq(t, `""`, string(raw["root_class"]), "dark mode is off")

	var prefs map[string]any
	require.NoError(t, json.Unmarshal(raw["preferences"], &prefs))
	assert.Contains(t, prefs, "darkMode")
	assert.Contains(t, prefs, "AMA")
	assert.Equal(t, map[string]any{"isOpened": true}, prefs["AMA"])
}

func TestPreferences_ToggleError(t *testing.T) {
	s, prefs, _ := newSiteService()
	prefs.err = errors.New("disk full")

	w := doSite(t, s, http.MethodPost, "/prefs/dark-mode/toggle", "", nil)
	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.Empty(t, w.Header().Get(hxTrigger))
	assert.JSONEq(t, `{"error":"failed to update preferences"}`, w.Body.String())
}

func TestFollowLink(t *testing.T) {
	s, _, tr := newSiteService()

	w := doSite(t, s, http.MethodGet, "/go/footer-codepen-icon", "", nil)
	require.Equal(t, http.StatusFound, w.Code)
	assert.Equal(t, "https://codepen.io/srchea", w.Header().Get("Location"))

	calls := tr.all()
	require.Len(t, calls, 1)
	assert.Equal(t, service.EventClick, calls[0].event.EventType)
	assert.Equal(t, map[string]string{"label": "footer-codepen-icon"}, calls[0].event.EventProperties)
	require.NotNil(t, calls[0].event.Href)
	assert.Equal(t, "https://codepen.io/srchea", *calls[0].event.Href)
}

func TestFollowLink_Unknown(t *testing.T) {
	s, _, tr := newSiteService()

	w := doSite(t, s, http.MethodGet, "/go/footer-myspace-icon", "", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Empty(t, tr.all())
}

func TestTrackBeacon(t *testing.T) {
	s, _, tr := newSiteService()

	w := doSite(t, s, http.MethodPost, "/api/v1/track",
		`{"event_type":"click","event_properties":{"label":"footer-github-icon"},"href":"https://github.com/srchea"}`, nil)
	require.Equal(t, http.StatusAccepted, w.Code, w.Body.String())

	calls := tr.all()
	require.Len(t, calls, 1)
	assert.Equal(t, "click", calls[0].event.EventType)
	assert.Equal(t, "footer-github-icon", calls[0].event.EventProperties["label"])
	require.NotNil(t, calls[0].event.Href)
	assert.Equal(t, "https://github.com/srchea", *calls[0].event.Href)
	assert.Equal(t, testVisitor, calls[0].visitorID)
}

func TestTrackBeacon_RejectsMissingType(t *testing.T) {
	s, _, tr := newSiteService()

	w := doSite(t, s, http.MethodPost, "/api/v1/track", `{"event_properties":{}}`, nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Empty(t, tr.all())
}

func TestTrackBeacon_RejectsBlankType(t *testing.T) {
	s, _, tr := newSiteService()

	w := doSite(t, s, http.MethodPost, "/api/v1/track", `{"event_type":"   "}`, nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.JSONEq(t, `{"error":"event_type must not be blank"}`, w.Body.String())
	assert.Empty(t, tr.all())
}

func TestTrackBeacon_RejectsServerRecordedTypes(t *testing.T) {
	cases := []string{
		`{"event_type":"referrer","event_properties":{"url":"none"},"href":"https://evil.example"}`,
		`{"event_type":"Dark-Mode","event_properties":{"state":"on"}}`,
		`{"event_type":" ama ","event_properties":{"state":"off"}}`,
	}
	for _, body := range cases {
		t.Run(body, func(t *testing.T) {
			s, _, tr := newSiteService()

			w := doSite(t, s, http.MethodPost, "/api/v1/track", body, nil)
			assert.Equal(t, http.StatusBadRequest, w.Code)
			assert.Empty(t, tr.all())
		})
	}
}

func TestTrackBeacon_ClickNeedsLabel(t *testing.T) {
	s, _, tr := newSiteService()

	w := doSite(t, s, http.MethodPost, "/api/v1/track", `{"event_type":"click","href":"https://github.com/srchea"}`, nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.JSONEq(t, `{"error":"click events need a label"}`, w.Body.String())
	assert.Empty(t, tr.all())
}

func TestTrackBeacon_DropsHrefOnNonClick(t *testing.T) {
	s, _, tr := newSiteService()

	w := doSite(t, s, http.MethodPost, "/api/v1/track",
		`{"event_type":" Scroll ","event_properties":{"depth":"50"},"href":"https://evil.example"}`, nil)
	require.Equal(t, http.StatusAccepted, w.Code, w.Body.String())

	calls := tr.all()
	require.Len(t, calls, 1)
	assert.Equal(t, "scroll", calls[0].event.EventType)
	assert.Equal(t, "50", calls[0].event.EventProperties["depth"])
	assert.Nil(t, calls[0].event.Href)
}

func TestTrackBeacon_RateLimited(t *testing.T) {
	s, _, tr := newSiteService()
	r := newTestRouterWith(s, Options{RateLimit: RateLimit{RequestsPerSecond: 0.001, Burst: 2}})

	codes := make([]int, 0, 3)
	for i := 0; i < 3; i++ {
		req := httptest.NewRequest(http.MethodPost, "/api/v1/track", bytes.NewBufferString(`{"event_type":"ping"}`))
		req.Header.Set("Content-Type", "application/json")
		req.RemoteAddr = "203.0.113.7:5555"
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)
		codes = append(codes, w.Code)
		if w.Code == http.StatusTooManyRequests {
			assert.NotEmpty(t, w.Header().Get("Retry-After"))
		}
	}

	assert.Equal(t, []int{http.StatusAccepted, http.StatusAccepted, http.StatusTooManyRequests}, codes)
	assert.Len(t, tr.all(), 2)
}
