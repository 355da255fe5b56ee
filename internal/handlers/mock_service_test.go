package handlers

import (
	"context"
	"net/http"
	"sync"
	"time"

	"portfolio/internal/models"
	"portfolio/internal/service"

	"github.com/gin-gonic/gin"
)

// ---- Service Mocks ----

type mockAuth struct {
	genTokenToken string
	genTokenErr   error
	parseID       int
	parseErr      error

	lastGenUsername string
	lastGenPassword string
	lastParseToken  string
}

func (m *mockAuth) SignUp(context.Context, string, string) (int, error) { return 0, nil }
func (m *mockAuth) GenerateToken(_ context.Context, username, password string) (string, error) {
	m.lastGenUsername = username
	m.lastGenPassword = password
	return m.genTokenToken, m.genTokenErr
}
func (m *mockAuth) ParseToken(token string) (int, error) {
	m.lastParseToken = token
	return m.parseID, m.parseErr
}

// mockPreferences keeps one snapshot per visitor in memory.
type mockPreferences struct {
	mu      sync.Mutex
	rows    map[string]models.Preferences
	err     error
	toggles int
}

func newMockPreferences() *mockPreferences {
	return &mockPreferences{rows: map[string]models.Preferences{}}
}

func (m *mockPreferences) Get(_ context.Context, vid string) (models.Preferences, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return models.Preferences{}, m.err
	}
	p := m.rows[vid]
	p.VisitorID = vid
	return p, nil
}

func (m *mockPreferences) ToggleDarkMode(_ context.Context, vid string) (models.Preferences, error) {
	return m.update(vid, func(p *models.Preferences) { p.DarkMode = p.DarkMode.Toggle() })
}

func (m *mockPreferences) ToggleAMA(_ context.Context, vid string) (models.Preferences, error) {
	return m.update(vid, func(p *models.Preferences) { p.AMA = p.AMA.Toggle() })
}

func (m *mockPreferences) update(vid string, fn func(*models.Preferences)) (models.Preferences, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return models.Preferences{}, m.err
	}
	m.toggles++
	p := m.rows[vid]
	p.VisitorID = vid
	fn(&p)
	p.UpdatedAt = time.Now().UTC()
	m.rows[vid] = p
	return p, nil
}

type trackCall struct {
	ctx       context.Context
	visitorID string
	event     models.TrackingEvent
}

// mockTracking records calls instead of emitting.
type mockTracking struct {
	mu    sync.Mutex
	calls []trackCall
}

func (m *mockTracking) Track(ctx context.Context, vid string, ev models.TrackingEvent) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.calls = append(m.calls, trackCall{ctx: ctx, visitorID: vid, event: ev})
}

func (m *mockTracking) TrackReferrer(ctx context.Context, vid, referrer string) {
	if referrer == "" {
		referrer = "none"
	}
	m.Track(ctx, vid, models.TrackingEvent{EventType: service.EventReferrer, EventProperties: map[string]string{"url": referrer}})
}

func (m *mockTracking) TrackClick(ctx context.Context, vid, label, href string) {
	m.Track(ctx, vid, models.TrackingEvent{EventType: service.EventClick, EventProperties: map[string]string{"label": label}, Href: &href})
}

func (m *mockTracking) all() []trackCall {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]trackCall(nil), m.calls...)
}

type mockEventLog struct {
	resp       []models.TrackingRecord
	stats      models.TrackingStats
	err        error
	lastFilter models.TrackingFilter
}

func (m *mockEventLog) List(_ context.Context, f models.TrackingFilter) ([]models.TrackingRecord, error) {
	m.lastFilter = f
	return m.resp, m.err
}

func (m *mockEventLog) Stats(context.Context) (models.TrackingStats, error) {
	return m.stats, m.err
}

// ---- Shared Test Helpers ----

func testProfile() models.Profile {
	return models.Profile{
		Name:  "Sann-Remy Chea",
		Role:  "Software Engineer",
		Title: "Sann-Remy Chea - Software Engineer",
		Links: []models.Link{
			{Label: "footer-github-icon", Name: "GitHub", Href: "https://github.com/srchea"},
			{Label: "footer-codepen-icon", Name: "CodePen", Href: "https://codepen.io/srchea"},
			{Label: "footer-linkedin-icon", Name: "LinkedIn", Href: "https://www.linkedin.com/in/srchea"},
		},
	}
}

// newSiteService wires the visitor-facing mocks plus the real profile service.
func newSiteService() (*service.Service, *mockPreferences, *mockTracking) {
	prefs := newMockPreferences()
	tr := &mockTracking{}
	return &service.Service{
		Preferences: prefs,
		Tracking:    tr,
		Profile:     service.NewProfileService(testProfile()),
	}, prefs, tr
}

func newTestRouter(s *service.Service) *gin.Engine {
	return newTestRouterWith(s, Options{})
}

func newTestRouterWith(s *service.Service, opts Options) *gin.Engine {
	gin.SetMode(gin.TestMode)
	h := NewHandler(s, nil, opts)
	return h.InitRoutes()
}

func authHeader(token string) http.Header {
	h := http.Header{}
	if token != "" {
		h.Set("Authorization", "Bearer "+token)
	}
	return h
}

func visitorCookie(id string) *http.Cookie {
	return &http.Cookie{Name: defaultVisitorCookie, Value: id}
}

const testVisitor = "5b2f0b8e-6a3b-4c1e-9a52-1f1f5d0c9a11"
