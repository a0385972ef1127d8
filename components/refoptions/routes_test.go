package refoptions

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/goliatone/go-formrows/pkg/refdata"
)

func TestMountPath_JoinsBasePath(t *testing.T) {
	if got := MountPath("/admin", WithKey("platforms")); got != "/admin/api/options/platforms" {
		t.Fatalf("unexpected mount path: %q", got)
	}
	if got := MountPath("admin"); got != "/admin/api/options" {
		t.Fatalf("unexpected mount path: %q", got)
	}
	if got := MountPath("/admin/", WithRoutePath("refs/p")); got != "/admin/refs/p" {
		t.Fatalf("unexpected mount path: %q", got)
	}
}

func TestRegisterRoutes_RequiresMux(t *testing.T) {
	if _, err := RegisterRoutes(nil, "/"); err == nil {
		t.Fatalf("expected error for nil mux")
	}
}

func TestRegisterSet_MountsEveryKey(t *testing.T) {
	set := refdata.New(map[string][]refdata.Entry{
		"platforms":  {refdata.Plain("TELEGRAM"), refdata.Plain("GITHUB")},
		"eventTypes": {{Value: "CALL", Label: "Call"}},
	})

	mux := http.NewServeMux()
	patterns, err := RegisterSet(mux, "/refs", set)
	if err != nil {
		t.Fatalf("register: %v", err)
	}
	want := []string{"/refs/api/options/eventTypes", "/refs/api/options/platforms"}
	if diff := cmp.Diff(want, patterns); diff != "" {
		t.Fatalf("patterns mismatch (-want +got):\n%s", diff)
	}

	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/refs/api/options/platforms?q=git", nil))
	if rec.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d", rec.Code)
	}
	if diff := cmp.Diff([]Option{{Value: "GITHUB", Label: "GITHUB"}}, decode(t, rec)); diff != "" {
		t.Fatalf("results mismatch (-want +got):\n%s", diff)
	}
}

func TestComponent_Handler(t *testing.T) {
	c := New(WithEntries([]refdata.Entry{refdata.Plain("UTC")}))
	if got := c.Options().RoutePath; got != "/api/options" {
		t.Fatalf("unexpected route %q", got)
	}

	rec := httptest.NewRecorder()
	c.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/?q=u", nil))
	if got := decode(t, rec); len(got) != 1 {
		t.Fatalf("expected one option, got %#v", got)
	}
}
