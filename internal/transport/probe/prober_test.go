package probe

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"
)

func TestHeadOK(t *testing.T) {
	tests := []struct {
		name       string
		headStatus int
		getStatus  int
		want       bool
		wantGets   int32
	}{
		{"head ok", http.StatusOK, http.StatusOK, true, 0},
		{"head redirect range", http.StatusNotModified, http.StatusOK, true, 0},
		{"head rejected get ok", http.StatusMethodNotAllowed, http.StatusOK, true, 1},
		{"both fail", http.StatusForbidden, http.StatusNotFound, false, 1},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var gets atomic.Int32
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				if r.Method == http.MethodHead {
					w.WriteHeader(tt.headStatus)
					return
				}
				gets.Add(1)
				w.WriteHeader(tt.getStatus)
				_, _ = w.Write([]byte("<html>problem</html>"))
			}))
			defer server.Close()

			p := New(server.Client(), time.Second, nil)
			if got := p.HeadOK(context.Background(), server.URL+"/problems/two-sum/"); got != tt.want {
				t.Errorf("HeadOK = %v, want %v", got, tt.want)
			}
			if gets.Load() != tt.wantGets {
				t.Errorf("GET calls = %d, want %d", gets.Load(), tt.wantGets)
			}
		})
	}
}

func TestHeadOK_FollowsRedirects(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/old", func(w http.ResponseWriter, r *http.Request) {
		http.Redirect(w, r, "/new", http.StatusMovedPermanently)
	})
	mux.HandleFunc("/new", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
	server := httptest.NewServer(mux)
	defer server.Close()

	p := New(server.Client(), time.Second, nil)
	if !p.HeadOK(context.Background(), server.URL+"/old") {
		t.Error("expected redirect to be followed")
	}
}

func TestHeadOK_TransportErrors(t *testing.T) {
	p := New(nil, time.Second, nil)
	for _, u := range []string{"://bad", "http://127.0.0.1:1/unreachable"} {
		if p.HeadOK(context.Background(), u) {
			t.Errorf("HeadOK(%q) = true, want false", u)
		}
	}
}

func TestHeadOK_Timeout(t *testing.T) {
	release := make(chan struct{})
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-r.Context().Done():
		case <-release:
		}
	}))
	defer server.Close()
	defer close(release)

	p := New(server.Client(), 50*time.Millisecond, nil)
	start := time.Now()
	if p.HeadOK(context.Background(), server.URL) {
		t.Error("expected false on timeout")
	}
	if time.Since(start) > time.Second {
		t.Error("probe timeout not applied")
	}
}
