package wanip

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"
)

func testClient(url string) *Client {
	c := NewClient(url)
	c.RetryDelay = 5 * time.Millisecond
	return c
}

func TestCurrentIP(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("203.0.113.7\n"))
	}))
	defer srv.Close()

	ip, err := testClient(srv.URL).CurrentIP(context.Background())
	if err != nil {
		t.Fatalf("CurrentIP() error = %v", err)
	}
	if ip != "203.0.113.7" {
		t.Errorf("CurrentIP() = %q, want 203.0.113.7", ip)
	}
}

func TestCurrentIPRetriesServerErrors(t *testing.T) {
	var calls int
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
		if calls < 3 {
			w.WriteHeader(http.StatusServiceUnavailable)
			return
		}
		w.Write([]byte("198.51.100.4"))
	}))
	defer srv.Close()

	ip, err := testClient(srv.URL).CurrentIP(context.Background())
	if err != nil {
		t.Fatalf("CurrentIP() error = %v", err)
	}
	if ip != "198.51.100.4" {
		t.Errorf("CurrentIP() = %q, want 198.51.100.4", ip)
	}
	if calls != 3 {
		t.Errorf("server hit %d times, want 3", calls)
	}
}

func TestCurrentIPGivesUpAfterRetries(t *testing.T) {
	var calls int
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer srv.Close()

	c := testClient(srv.URL)
	c.MaxRetries = 2

	if _, err := c.CurrentIP(context.Background()); err == nil {
		t.Fatal("CurrentIP() expected error after exhausted retries")
	}
	if calls != 3 {
		t.Errorf("server hit %d times, want 3 (initial + 2 retries)", calls)
	}
}

func TestCurrentIPClientErrorNoRetry(t *testing.T) {
	var calls int
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
		w.WriteHeader(http.StatusForbidden)
	}))
	defer srv.Close()

	if _, err := testClient(srv.URL).CurrentIP(context.Background()); err == nil {
		t.Fatal("CurrentIP() expected error on 403")
	}
	if calls != 1 {
		t.Errorf("server hit %d times, 4xx must not be retried", calls)
	}
}

func TestCurrentIPRejectsGarbage(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("<html>definitely not an ip</html>"))
	}))
	defer srv.Close()

	if _, err := testClient(srv.URL).CurrentIP(context.Background()); err == nil {
		t.Fatal("CurrentIP() should reject a non-IP body")
	}
}

func TestCurrentIPAcceptsIPv6(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("2001:db8::1"))
	}))
	defer srv.Close()

	ip, err := testClient(srv.URL).CurrentIP(context.Background())
	if err != nil {
		t.Fatalf("CurrentIP() error = %v", err)
	}
	if ip != "2001:db8::1" {
		t.Errorf("CurrentIP() = %q", ip)
	}
}

func TestCurrentIPContextCancelled(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer srv.Close()

	c := testClient(srv.URL)
	c.RetryDelay = time.Hour // cancellation must cut the retry sleep short

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()

	start := time.Now()
	_, err := c.CurrentIP(ctx)
	if err == nil {
		t.Fatal("CurrentIP() expected error")
	}
	if time.Since(start) > time.Second {
		t.Error("CurrentIP() did not honor context cancellation during retry wait")
	}
}
