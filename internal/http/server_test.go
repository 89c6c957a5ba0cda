package http

import (
	"context"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"net/url"
	"regexp"
	"strings"
	"testing"

	"offerplan/internal/email"
	"offerplan/internal/log"
	"offerplan/internal/plan"
	"offerplan/internal/store/memory"
)

func newTestServer(t *testing.T) *Server {
	t.Helper()

	logger := log.New(log.Config{Handler: slog.NewTextHandler(io.Discard, nil)})
	svc, err := plan.NewService(context.Background(), memory.New(), nil, logger)
	if err != nil {
		t.Fatalf("NewService: %v", err)
	}

	srv, err := NewServer(":0", svc, email.NewNoopSender(), "0123456789abcdef0123456789abcdef", logger)
	if err != nil {
		t.Fatalf("NewServer: %v", err)
	}
	t.Cleanup(func() { _ = srv.Shutdown(context.Background()) })
	return srv
}

var csrfTokenRe = regexp.MustCompile(`name="gorilla\.csrf\.Token" value="([^"]+)"`)

// fetchCSRF loads a page and returns the form token plus the session
// cookies needed to submit it.
func fetchCSRF(t *testing.T, srv *Server, path string) (string, []*http.Cookie) {
	t.Helper()

	rr := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, path, nil)
	srv.Handler.ServeHTTP(rr, req)
	if rr.Code != http.StatusOK {
		t.Fatalf("GET %s status=%d", path, rr.Code)
	}
	m := csrfTokenRe.FindStringSubmatch(rr.Body.String())
	if m == nil {
		t.Fatalf("no CSRF token in %s", path)
	}
	return m[1], rr.Result().Cookies()
}

func postForm(srv *Server, path, token string, cookies []*http.Cookie, form url.Values) *httptest.ResponseRecorder {
	form.Set("gorilla.csrf.Token", token)

	rr := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	// gorilla/csrf >= 1.7.2 enforces same-origin Referer checks on form
	// posts; send the header a browser submitting this form would send.
	req.Header.Set("Referer", "https://"+req.Host+path)
	for _, c := range cookies {
		req.AddCookie(c)
	}
	srv.Handler.ServeHTTP(rr, req)
	return rr
}

func TestPagesRender(t *testing.T) {
	srv := newTestServer(t)

	rr := httptest.NewRecorder()
	srv.Handler.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/", nil))
	if rr.Code != http.StatusOK {
		t.Fatalf("index status=%d", rr.Code)
	}
	if !strings.Contains(rr.Body.String(), "January") {
		t.Fatalf("index body missing month cards")
	}

	rr = httptest.NewRecorder()
	srv.Handler.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/overview", nil))
	if rr.Code != http.StatusOK {
		t.Fatalf("overview status=%d", rr.Code)
	}

	rr = httptest.NewRecorder()
	srv.Handler.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/months/jan", nil))
	if rr.Code != http.StatusOK {
		t.Fatalf("month status=%d", rr.Code)
	}
	if !strings.Contains(rr.Body.String(), "The Resolution Reset") {
		t.Fatalf("month page missing theme")
	}
}

func TestMonthNotFound(t *testing.T) {
	srv := newTestServer(t)

	rr := httptest.NewRecorder()
	srv.Handler.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/months/noop", nil))
	if rr.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", rr.Code)
	}
}

func TestHealthEndpoints(t *testing.T) {
	srv := newTestServer(t)

	for _, path := range []string{"/healthz", "/readyz"} {
		rr := httptest.NewRecorder()
		srv.Handler.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, path, nil))
		if rr.Code != http.StatusOK {
			t.Fatalf("%s status=%d", path, rr.Code)
		}
	}
}

func TestExportDownload(t *testing.T) {
	srv := newTestServer(t)

	rr := httptest.NewRecorder()
	srv.Handler.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/export?format=json", nil))
	if rr.Code != http.StatusOK {
		t.Fatalf("json export status=%d", rr.Code)
	}
	if ct := rr.Header().Get("Content-Type"); !strings.HasPrefix(ct, "application/json") {
		t.Fatalf("content type = %q", ct)
	}
	if cd := rr.Header().Get("Content-Disposition"); !strings.Contains(cd, "offer-plan.json") {
		t.Fatalf("content disposition = %q", cd)
	}

	rr = httptest.NewRecorder()
	srv.Handler.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/export?format=csv&month=feb", nil))
	if rr.Code != http.StatusOK {
		t.Fatalf("csv export status=%d", rr.Code)
	}
	if cd := rr.Header().Get("Content-Disposition"); !strings.Contains(cd, "offer-plan-feb.csv") {
		t.Fatalf("content disposition = %q", cd)
	}

	rr = httptest.NewRecorder()
	srv.Handler.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/export?format=xml", nil))
	if rr.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 for unknown format, got %d", rr.Code)
	}
}

func TestPostWithoutTokenRejected(t *testing.T) {
	srv := newTestServer(t)

	rr := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/reset", strings.NewReader("confirm=yes"))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	srv.Handler.ServeHTTP(rr, req)
	if rr.Code != http.StatusForbidden {
		t.Fatalf("expected 403, got %d", rr.Code)
	}
}

func TestCreateOfferRoundTrip(t *testing.T) {
	srv := newTestServer(t)
	token, cookies := fetchCSRF(t, srv, "/months/jan")

	rr := postForm(srv, "/months/jan/offers", token, cookies, url.Values{
		"title":       {"Winter Comeback Pack"},
		"type":        {"Flash"},
		"pricing":     {"₹9,999 (Inc VAT)"},
		"priceMumbai": {"9999"},
		"targetUnits": {"25"},
	})
	if rr.Code != http.StatusSeeOther {
		t.Fatalf("create status=%d body=%s", rr.Code, rr.Body.String())
	}
	if loc := rr.Header().Get("Location"); loc != "/months/jan" {
		t.Fatalf("redirect location = %q", loc)
	}

	rr = httptest.NewRecorder()
	srv.Handler.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/months/jan", nil))
	if !strings.Contains(rr.Body.String(), "Winter Comeback Pack") {
		t.Fatalf("created offer not rendered")
	}
}

func TestCreateOfferValidation(t *testing.T) {
	srv := newTestServer(t)
	token, cookies := fetchCSRF(t, srv, "/months/jan")

	rr := postForm(srv, "/months/jan/offers", token, cookies, url.Values{
		"title": {""},
		"type":  {"Flash"},
	})
	if rr.Code != http.StatusUnprocessableEntity {
		t.Fatalf("expected 422 for empty title, got %d", rr.Code)
	}

	rr = postForm(srv, "/months/jan/offers", token, cookies, url.Values{
		"title": {"Bad Type"},
		"type":  {"Mystery"},
	})
	if rr.Code != http.StatusUnprocessableEntity {
		t.Fatalf("expected 422 for invalid type, got %d", rr.Code)
	}
}

func TestToggleOffer(t *testing.T) {
	srv := newTestServer(t)
	token, cookies := fetchCSRF(t, srv, "/months/jan")

	m, err := srv.service.Month("jan")
	if err != nil {
		t.Fatalf("Month: %v", err)
	}
	offerID := m.Offers[0].ID

	rr := postForm(srv, "/months/jan/offers/"+offerID+"/toggle", token, cookies, url.Values{})
	if rr.Code != http.StatusSeeOther {
		t.Fatalf("toggle status=%d body=%s", rr.Code, rr.Body.String())
	}

	m, err = srv.service.Month("jan")
	if err != nil {
		t.Fatalf("Month: %v", err)
	}
	if !m.Offers[0].Cancelled {
		t.Fatalf("offer not cancelled after toggle")
	}
}

func TestDeleteOfferRequiresConfirmation(t *testing.T) {
	srv := newTestServer(t)
	token, cookies := fetchCSRF(t, srv, "/months/jan")

	m, err := srv.service.Month("jan")
	if err != nil {
		t.Fatalf("Month: %v", err)
	}
	offerID := m.Offers[0].ID
	before := len(m.Offers)

	rr := postForm(srv, "/months/jan/offers/"+offerID+"/delete", token, cookies, url.Values{})
	if rr.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 without confirm, got %d", rr.Code)
	}

	rr = postForm(srv, "/months/jan/offers/"+offerID+"/delete", token, cookies, url.Values{
		"confirm": {"yes"},
	})
	if rr.Code != http.StatusSeeOther {
		t.Fatalf("delete status=%d body=%s", rr.Code, rr.Body.String())
	}

	m, err = srv.service.Month("jan")
	if err != nil {
		t.Fatalf("Month: %v", err)
	}
	if len(m.Offers) != before-1 {
		t.Fatalf("offer count = %d, want %d", len(m.Offers), before-1)
	}
}

func TestEmailExport(t *testing.T) {
	srv := newTestServer(t)
	token, cookies := fetchCSRF(t, srv, "/")

	rr := postForm(srv, "/export/email", token, cookies, url.Values{
		"to": {"not-an-email"},
	})
	if rr.Code != http.StatusUnprocessableEntity {
		t.Fatalf("expected 422 for bad recipient, got %d", rr.Code)
	}

	rr = postForm(srv, "/export/email", token, cookies, url.Values{
		"to":    {"ops@example.com"},
		"month": {"jan"},
	})
	if rr.Code != http.StatusOK {
		t.Fatalf("email export status=%d body=%s", rr.Code, rr.Body.String())
	}
	if !strings.Contains(rr.Body.String(), "sent to 1 recipient(s)") {
		t.Fatalf("unexpected body: %s", rr.Body.String())
	}
}

func TestSecurityHeaders(t *testing.T) {
	srv := newTestServer(t)

	rr := httptest.NewRecorder()
	srv.Handler.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/", nil))
	if got := rr.Header().Get("X-Content-Type-Options"); got != "nosniff" {
		t.Fatalf("X-Content-Type-Options = %q", got)
	}
	if got := rr.Header().Get("X-Frame-Options"); got != "DENY" {
		t.Fatalf("X-Frame-Options = %q", got)
	}
}

func TestParseRecipients(t *testing.T) {
	got, err := parseRecipients("a@example.com, b@example.com")
	if err != nil {
		t.Fatalf("parseRecipients: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("recipients = %v", got)
	}

	if _, err := parseRecipients(""); err == nil {
		t.Fatalf("expected error for empty recipients")
	}
	if _, err := parseRecipients("nope"); err == nil {
		t.Fatalf("expected error for invalid address")
	}
}
