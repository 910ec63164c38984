package transport

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"
)

func TestGetJSONSuccess(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"value": 42}`))
	}))
	defer srv.Close()

	c := NewClient("test-ok", srv.Client(), 5*time.Second)

	var out struct {
		Value int `json:"value"`
	}
	if err := c.GetJSON(context.Background(), srv.URL, &out); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if out.Value != 42 {
		t.Fatalf("expected 42, got %d", out.Value)
	}
}

func TestGetJSONHTTPError(t *testing.T) {
	long := strings.Repeat("x", 500)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, long, http.StatusNotFound)
	}))
	defer srv.Close()

	c := NewClient("test-404", srv.Client(), 5*time.Second)

	err := c.GetJSON(context.Background(), srv.URL, &struct{}{})
	var httpErr *HTTPError
	if !errors.As(err, &httpErr) {
		t.Fatalf("expected *HTTPError, got %v", err)
	}
	if httpErr.Status != http.StatusNotFound {
		t.Fatalf("expected status 404, got %d", httpErr.Status)
	}
	if len(httpErr.Body) > 120 {
		t.Fatalf("body excerpt too long: %d chars", len(httpErr.Body))
	}
}

func TestGetJSONTimeout(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		time.Sleep(300 * time.Millisecond)
	}))
	defer srv.Close()

	c := NewClient("test-timeout", srv.Client(), 50*time.Millisecond)

	err := c.GetJSON(context.Background(), srv.URL, &struct{}{})
	if !errors.Is(err, ErrTimeout) {
		t.Fatalf("expected ErrTimeout, got %v", err)
	}
}

func TestGetJSONUnreachable(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	url := srv.URL
	srv.Close()

	c := NewClient("test-unreachable", nil, time.Second)

	err := c.GetJSON(context.Background(), url, &struct{}{})
	if !errors.Is(err, ErrUnreachable) {
		t.Fatalf("expected ErrUnreachable, got %v", err)
	}
}

func TestGetJSONParseFailure(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("this is not json"))
	}))
	defer srv.Close()

	c := NewClient("test-parse", srv.Client(), 5*time.Second)

	err := c.GetJSON(context.Background(), srv.URL, &struct{}{})
	if !errors.Is(err, ErrParse) {
		t.Fatalf("expected ErrParse, got %v", err)
	}
}

func TestErrorMessagesStayShort(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, strings.Repeat("y", 2000), http.StatusBadGateway)
	}))
	defer srv.Close()

	c := NewClient("test-short", srv.Client(), 5*time.Second)

	err := c.GetJSON(context.Background(), srv.URL, &struct{}{})
	if err == nil {
		t.Fatal("expected an error")
	}
	if len(err.Error()) > 140 {
		t.Fatalf("error message too long for display: %d chars", len(err.Error()))
	}
}
