package eodhd

import (
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/etnz/drip"
)

func testProvider(handler http.Handler) (*Provider, *httptest.Server) {
	srv := httptest.NewServer(handler)
	return &Provider{Client: srv.Client(), BaseURL: srv.URL, apiKey: "demo"}, srv
}

func TestFetchHistory(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/api/eod/", func(w http.ResponseWriter, r *http.Request) {
		if !strings.HasSuffix(r.URL.Path, "/SCHD.US") {
			t.Errorf("eod path = %q, want the .US suffix", r.URL.Path)
		}
		fmt.Fprint(w, `[
		  {"date": "2025-01-02", "close": 27.50, "adjusted_close": 27.1},
		  {"date": "2025-01-03", "close": 27.80, "adjusted_close": 27.4}
		]`)
	})
	mux.HandleFunc("/api/div/", func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `[
		  {"date": "2025-01-03", "value": 0.25, "currency": "EUR"}
		]`)
	})

	p, srv := testProvider(mux)
	defer srv.Close()

	md, err := p.FetchHistory("SCHD", drip.NewRange(drip.MustParse("2025-01-01"), drip.MustParse("2025-01-31")))
	if err != nil {
		t.Fatalf("FetchHistory() error = %v", err)
	}
	if md.Prices.Len() != 2 {
		t.Errorf("got %d prices, want 2", md.Prices.Len())
	}
	if md.Dividends.Len() != 1 {
		t.Errorf("got %d dividends, want 1", md.Dividends.Len())
	}
	// the dividend endpoint reported a currency, it wins over the USD default
	if md.Currency != "EUR" {
		t.Errorf("Currency = %q, want EUR", md.Currency)
	}
}

func TestFetchHistory_Errors(t *testing.T) {
	tests := []struct {
		name   string
		status int
		want   error
	}{
		{"unknown ticker", http.StatusNotFound, drip.ErrNotFound},
		{"rate limited", http.StatusTooManyRequests, drip.ErrTransient},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p, srv := testProvider(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tt.status)
			}))
			defer srv.Close()

			_, err := p.FetchHistory("NOPE", drip.NewRange(drip.MustParse("2025-01-01"), drip.MustParse("2025-01-31")))
			if !errors.Is(err, tt.want) {
				t.Errorf("FetchHistory() error = %v, want %v", err, tt.want)
			}
		})
	}
}

func TestNormalize(t *testing.T) {
	tests := []struct{ in, want string }{
		{"SCHD", "SCHD.US"},
		{"SCHD.US", "SCHD.US"},
		{"AI.PA", "AI.PA"},
	}
	for _, tt := range tests {
		if got := normalize(tt.in); got != tt.want {
			t.Errorf("normalize(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestNew_RequiresKey(t *testing.T) {
	t.Setenv(EnvAPIKey, "")
	if _, err := New(""); err == nil {
		t.Error("New(\"\") without environment succeeded, expected an error")
	}

	t.Setenv(EnvAPIKey, "from-env")
	p, err := New("")
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	if p.apiKey != "from-env" {
		t.Errorf("apiKey = %q, want from-env", p.apiKey)
	}
}
