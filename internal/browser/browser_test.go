package browser

import (
	"context"
	"net/http"
	"net/http/httptest"
	"reflect"
	"testing"
	"time"
)

func TestIsAvailable(t *testing.T) {
	ok := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	defer ok.Close()

	broken := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "nope", http.StatusInternalServerError)
	}))
	defer broken.Close()

	ctx := context.Background()
	if !IsAvailable(ctx, ok.URL) {
		t.Error("IsAvailable(ok) = false, want true")
	}
	if IsAvailable(ctx, broken.URL) {
		t.Error("IsAvailable(broken) = true, want false")
	}
	if IsAvailable(ctx, "http://127.0.0.1:1/") {
		t.Error("IsAvailable(closed port) = true, want false")
	}
}

func TestOpenWhenReady(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	defer srv.Close()

	var opened string
	err := OpenWhenReady(context.Background(), srv.URL, func(url string) error {
		opened = url
		return nil
	})
	if err != nil {
		t.Fatalf("OpenWhenReady() error = %v", err)
	}
	if opened != srv.URL {
		t.Errorf("opened %q, want %q", opened, srv.URL)
	}
}

func TestOpenWhenReadyCanceled(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()

	called := false
	err := OpenWhenReady(ctx, "http://127.0.0.1:1/", func(string) error {
		called = true
		return nil
	})
	if err == nil {
		t.Error("OpenWhenReady() expected error for canceled context")
	}
	if called {
		t.Error("opener should not run when the server never answered")
	}
}

func TestCommand(t *testing.T) {
	tests := []struct {
		goos     string
		wantName string
		wantArgs []string
	}{
		{"darwin", "open", []string{"http://x/"}},
		{"linux", "xdg-open", []string{"http://x/"}},
		{"windows", "rundll32", []string{"url.dll,FileProtocolHandler", "http://x/"}},
	}

	for _, tt := range tests {
		t.Run(tt.goos, func(t *testing.T) {
			name, args := command(tt.goos, "http://x/")
			if name != tt.wantName || !reflect.DeepEqual(args, tt.wantArgs) {
				t.Errorf("command(%q) = %q %v", tt.goos, name, args)
			}
		})
	}
}
