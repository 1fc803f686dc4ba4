package fitbit

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"github.com/fitsync/fitsync/internal/category"
	"github.com/fitsync/fitsync/internal/model"
)

func testClient(t *testing.T, handler http.Handler) *Client {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	return New(srv.URL, "23ABCD", "shhh", "https://example.test/callback", 5*time.Second, zerolog.Nop())
}

func testCred() *model.Credential {
	return &model.Credential{
		UserID:       "42ABC",
		AccessToken:  "tok-old",
		RefreshToken: "rt-old",
	}
}

func TestFetchDayData_OK(t *testing.T) {
	var gotPath, gotAuth string
	c := testClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotAuth = r.Header.Get("Authorization")
		_, _ = w.Write([]byte(`{"sleep":[],"summary":{"totalMinutesAsleep":400}}`))
	}))

	res := c.FetchDayData(context.Background(), testCred(), category.Sleep, "2024-01-10")
	if res.Outcome != OutcomeOK {
		t.Fatalf("outcome = %v, want ok (%s)", res.Outcome, res.Message)
	}
	if gotPath != "/1.2/user/42ABC/sleep/date/2024-01-10.json" {
		t.Fatalf("path = %q", gotPath)
	}
	if gotAuth != "Bearer tok-old" {
		t.Fatalf("auth header = %q", gotAuth)
	}
	if !category.Sleep.Matches(res.Payload) {
		t.Fatal("payload should match the sleep shape")
	}
}

func TestFetchDayData_MissingFields(t *testing.T) {
	called := false
	c := testClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		called = true
	}))

	cred := testCred()
	cred.AccessToken = ""
	if res := c.FetchDayData(context.Background(), cred, category.Sleep, "2024-01-10"); res.Outcome != OutcomeInvalid {
		t.Fatalf("outcome = %v, want invalid", res.Outcome)
	}
	if res := c.FetchDayData(context.Background(), testCred(), category.Sleep, ""); res.Outcome != OutcomeInvalid {
		t.Fatal("empty date must fail fast")
	}
	if called {
		t.Fatal("invalid requests must not reach the network")
	}
}

func TestFetchDayData_ExpiredToken(t *testing.T) {
	c := testClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		_, _ = w.Write([]byte(`{"success":false,"errors":[{"errorType":"expired_token","message":"Access token expired"}]}`))
	}))

	res := c.FetchDayData(context.Background(), testCred(), category.Sleep, "2024-01-10")
	if res.Outcome != OutcomeExpired {
		t.Fatalf("outcome = %v, want expired", res.Outcome)
	}
	if res.StatusCode != http.StatusUnauthorized || res.ErrorType != "expired_token" {
		t.Fatalf("detail lost: %+v", res)
	}
}

func TestFetchDayData_UpstreamError(t *testing.T) {
	c := testClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		_, _ = w.Write([]byte(`{"success":false,"errors":[{"errorType":"invalid_request","message":"bad date"}]}`))
	}))

	res := c.FetchDayData(context.Background(), testCred(), category.Activity, "2024-01-10")
	if res.Outcome != OutcomeUpstream {
		t.Fatalf("outcome = %v, want upstream", res.Outcome)
	}
	if res.ErrorType != "invalid_request" || res.Message != "bad date" {
		t.Fatalf("detail lost: %+v", res)
	}
}

func TestFetchDayData_MalformedSuccessBody(t *testing.T) {
	c := testClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`<html>not json</html>`))
	}))

	res := c.FetchDayData(context.Background(), testCred(), category.HRV, "2024-01-10")
	if res.Outcome != OutcomeTransport {
		t.Fatalf("outcome = %v, want transport", res.Outcome)
	}
}

func TestRefresh_Success(t *testing.T) {
	c := testClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost || r.URL.Path != "/oauth2/token" {
			t.Errorf("unexpected request: %s %s", r.Method, r.URL.Path)
		}
		user, pass, ok := r.BasicAuth()
		if !ok || user != "23ABCD" || pass != "shhh" {
			t.Errorf("basic auth = %q:%q ok=%v", user, pass, ok)
		}
		if err := r.ParseForm(); err != nil {
			t.Errorf("parse form: %v", err)
		}
		if r.PostForm.Get("grant_type") != "refresh_token" || r.PostForm.Get("refresh_token") != "rt-old" {
			t.Errorf("unexpected form: %v", r.PostForm)
		}
		_, _ = w.Write([]byte(`{"access_token":"tok-new","refresh_token":"rt-new","expires_in":28800,"scope":"sleep","token_type":"Bearer","user_id":"42ABC"}`))
	}))

	grant, err := c.Refresh(context.Background(), testCred())
	if err != nil {
		t.Fatalf("Refresh: %v", err)
	}
	if grant.AccessToken != "tok-new" || grant.RefreshToken != "rt-new" || grant.ExpiresIn != 28800 {
		t.Fatalf("grant = %+v", grant)
	}
}

func TestRefresh_Rejected(t *testing.T) {
	c := testClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		_, _ = w.Write([]byte(`{"errors":[{"errorType":"invalid_grant"}]}`))
	}))

	_, err := c.Refresh(context.Background(), testCred())
	refreshErr, ok := err.(*RefreshError)
	if !ok {
		t.Fatalf("error = %T (%v), want *RefreshError", err, err)
	}
	if refreshErr.StatusCode != http.StatusBadRequest || !strings.Contains(refreshErr.Body, "invalid_grant") {
		t.Fatalf("detail lost: %+v", refreshErr)
	}
}

func TestExchangeCode(t *testing.T) {
	c := testClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if err := r.ParseForm(); err != nil {
			t.Errorf("parse form: %v", err)
		}
		if r.PostForm.Get("grant_type") != "authorization_code" ||
			r.PostForm.Get("code") != "authcode" ||
			r.PostForm.Get("code_verifier") != "verifier" {
			t.Errorf("unexpected form: %v", r.PostForm)
		}
		_, _ = w.Write([]byte(`{"access_token":"tok","refresh_token":"rt","expires_in":28800,"scope":"sleep","token_type":"Bearer","user_id":"42ABC"}`))
	}))

	grant, err := c.ExchangeCode(context.Background(), "authcode", "verifier")
	if err != nil {
		t.Fatalf("ExchangeCode: %v", err)
	}
	if grant.UserID != "42ABC" {
		t.Fatalf("grant = %+v", grant)
	}
}

func TestAuthorizeURL(t *testing.T) {
	u := AuthorizeURL("https://www.fitbit.com", "23ABCD", "sleep activity", "https://example.test/callback", "chal", "state-1")
	for _, want := range []string{
		"https://www.fitbit.com/oauth2/authorize?",
		"client_id=23ABCD",
		"response_type=code",
		"code_challenge=chal",
		"code_challenge_method=S256",
		"state=state-1",
	} {
		if !strings.Contains(u, want) {
			t.Fatalf("url %q missing %q", u, want)
		}
	}
	if !strings.Contains(u, "scope=sleep+activity") && !strings.Contains(u, "scope=sleep%20activity") {
		t.Fatalf("url %q missing scope", u)
	}
}
