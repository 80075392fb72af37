package testutil

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
)

// Values issued and expected by FakeAds.
const (
	FakeAccessToken     = "ya29.fake-access-token"
	RevokedRefreshToken = "1//revoked"
)

// CapturedSearch records one searchStream call received by FakeAds.
type CapturedSearch struct {
	Path            string
	Query           string
	Authorization   string
	DeveloperToken  string
	LoginCustomerID string
}

// FakeAds serves the OAuth token endpoint and googleAds:searchStream.
// Configure the search response with Respond before issuing requests.
type FakeAds struct {
	Server *httptest.Server

	mu            sync.Mutex
	status        int
	body          string
	searches      []CapturedSearch
	tokenRequests int
}

// NewFakeAds starts a fake Google Ads API. It is closed with the test.
func NewFakeAds(t testing.TB) *FakeAds {
	t.Helper()

	f := &FakeAds{status: http.StatusOK, body: "[]"}

	mux := http.NewServeMux()
	mux.HandleFunc("/token", f.handleToken)
	mux.HandleFunc("/", f.handleSearch)

	f.Server = httptest.NewServer(mux)
	t.Cleanup(f.Server.Close)

	return f
}

// TokenURL is the OAuth token endpoint of the fake.
func (f *FakeAds) TokenURL() string {
	return f.Server.URL + "/token"
}

// URL is the API base URL of the fake.
func (f *FakeAds) URL() string {
	return f.Server.URL
}

// Respond sets the status and body returned by searchStream.
func (f *FakeAds) Respond(status int, body string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.status = status
	f.body = body
}

// RespondRows returns a single searchStream batch holding rows.
func (f *FakeAds) RespondRows(rows ...string) {
	f.Respond(http.StatusOK, `[{"results":[`+strings.Join(rows, ",")+`],"requestId":"fake-request"}]`)
}

// Searches returns the searchStream calls received so far.
func (f *FakeAds) Searches() []CapturedSearch {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]CapturedSearch(nil), f.searches...)
}

// TokenRequests returns how many token exchanges were attempted.
func (f *FakeAds) TokenRequests() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.tokenRequests
}

func (f *FakeAds) handleToken(w http.ResponseWriter, r *http.Request) {
	f.mu.Lock()
	f.tokenRequests++
	f.mu.Unlock()

	if err := r.ParseForm(); err != nil {
		w.WriteHeader(http.StatusBadRequest)
		return
	}

	w.Header().Set("Content-Type", "application/json")

	if r.PostForm.Get("grant_type") != "refresh_token" || r.PostForm.Get("refresh_token") == RevokedRefreshToken {
		w.WriteHeader(http.StatusBadRequest)
		_, _ = io.WriteString(w, `{"error":"invalid_grant","error_description":"Token has been expired or revoked."}`)
		return
	}

	_ = json.NewEncoder(w).Encode(map[string]any{
		"access_token": FakeAccessToken,
		"token_type":   "Bearer",
		"expires_in":   3599,
	})
}

func (f *FakeAds) handleSearch(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost || !strings.HasSuffix(r.URL.Path, "/googleAds:searchStream") {
		http.NotFound(w, r)
		return
	}

	var payload struct {
		Query string `json:"query"`
	}
	_ = json.NewDecoder(r.Body).Decode(&payload)

	f.mu.Lock()
	f.searches = append(f.searches, CapturedSearch{
		Path:            r.URL.Path,
		Query:           payload.Query,
		Authorization:   r.Header.Get("Authorization"),
		DeveloperToken:  r.Header.Get("developer-token"),
		LoginCustomerID: r.Header.Get("login-customer-id"),
	})
	status, body := f.status, f.body
	f.mu.Unlock()

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_, _ = io.WriteString(w, body)
}
