package identity

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
)

const (
	steveID = "8667ba71b85a4004af54457a9734eed7"
	alexID  = "ec561538f3fd461daff5086b22154bce"
)

func newTestClient(t *testing.T, handler http.HandlerFunc) *Client {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)
	c := NewClient(server.URL+"/profiles", server.URL+"/session", time.Second)
	c.backoff = time.Millisecond
	return c
}

func TestClient_UUIDByName(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/profiles/Steve":
			fmt.Fprintf(w, `{"id":%q,"name":"Steve"}`, steveID)
		default:
			w.WriteHeader(http.StatusNotFound)
		}
	})

	id, err := c.UUIDByName(context.Background(), "Steve")
	if err != nil {
		t.Fatalf("uuid by name: %v", err)
	}
	if id != steveID {
		t.Fatalf("expected %s, got %s", steveID, id)
	}

	_, err = c.UUIDByName(context.Background(), "Nobody")
	if !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestClient_NameByUUIDAcceptsDashes(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/session/"+steveID {
			w.WriteHeader(http.StatusNotFound)
			return
		}
		fmt.Fprintf(w, `{"id":%q,"name":"Steve"}`, steveID)
	})

	name, err := c.NameByUUID(context.Background(), "8667ba71-b85a-4004-af54-457a9734eed7")
	if err != nil {
		t.Fatalf("name by uuid: %v", err)
	}
	if name != "Steve" {
		t.Fatalf("expected Steve, got %s", name)
	}
}

func TestClient_RetriesTooManyRequests(t *testing.T) {
	var calls atomic.Int32
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if calls.Add(1) < 3 {
			w.WriteHeader(http.StatusTooManyRequests)
			return
		}
		fmt.Fprintf(w, `{"id":%q,"name":"Steve"}`, steveID)
	})

	if _, err := c.UUIDByName(context.Background(), "Steve"); err != nil {
		t.Fatalf("expected the third attempt to succeed, got %v", err)
	}
	if calls.Load() != 3 {
		t.Fatalf("expected 3 calls, got %d", calls.Load())
	}
}

func TestClient_GivesUpAfterThreeAttempts(t *testing.T) {
	var calls atomic.Int32
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		w.WriteHeader(http.StatusServiceUnavailable)
	})

	if _, err := c.UUIDByName(context.Background(), "Steve"); err == nil {
		t.Fatalf("expected an error")
	}
	if calls.Load() != 3 {
		t.Fatalf("expected 3 calls, got %d", calls.Load())
	}
}

func TestNormalize(t *testing.T) {
	if _, err := Normalize("not-a-uuid"); err == nil {
		t.Fatalf("expected an error for an invalid uuid")
	}
	got, err := Normalize(strings.ToUpper(steveID))
	if err != nil {
		t.Fatalf("normalize: %v", err)
	}
	if got != steveID {
		t.Fatalf("expected %s, got %s", steveID, got)
	}
}

type mockProfiles struct {
	uuids map[string]string
	names map[string]string
}

func (m *mockProfiles) UUIDByName(ctx context.Context, name string) (string, error) {
	if id, ok := m.uuids[name]; ok {
		return id, nil
	}
	return "", ErrNotFound
}

func (m *mockProfiles) NameByUUID(ctx context.Context, id string) (string, error) {
	if name, ok := m.names[id]; ok {
		return name, nil
	}
	return "", ErrNotFound
}

func TestResolver_ResolveMissing(t *testing.T) {
	profiles := &mockProfiles{uuids: map[string]string{"Alex": alexID}}
	resolver := NewResolver(profiles, 4, 0, nil)
	lookup := Lookup{"Steve": steveID}

	updated, report, err := resolver.ResolveMissing(context.Background(), lookup, []string{"Steve", "Alex", "Ghost", "Alex"})
	if err != nil {
		t.Fatalf("resolve: %v", err)
	}

	want := Lookup{"Steve": steveID, "Alex": alexID}
	if diff := cmp.Diff(want, updated); diff != "" {
		t.Fatalf("unexpected lookup (-want +got):\n%s", diff)
	}
	if report.Resolved != 1 {
		t.Fatalf("expected 1 resolved, got %d", report.Resolved)
	}
	if diff := cmp.Diff([]string{"Ghost"}, report.Failed); diff != "" {
		t.Fatalf("unexpected failures (-want +got):\n%s", diff)
	}
	if len(lookup) != 1 {
		t.Fatalf("expected the input lookup to be untouched")
	}
}

func TestResolver_RefreshNames(t *testing.T) {
	profiles := &mockProfiles{names: map[string]string{steveID: "Steve2"}}
	resolver := NewResolver(profiles, 2, time.Millisecond, nil)
	lookup := Lookup{"Steve": steveID, "Alex": alexID}

	updated, changes, err := resolver.RefreshNames(context.Background(), lookup)
	if err != nil {
		t.Fatalf("refresh: %v", err)
	}

	want := Lookup{"Steve2": steveID, "Alex": alexID}
	if diff := cmp.Diff(want, updated); diff != "" {
		t.Fatalf("unexpected lookup (-want +got):\n%s", diff)
	}
	wantChanges := []NameChange{{Old: "Steve", New: "Steve2", UUID: steveID}}
	if diff := cmp.Diff(wantChanges, changes); diff != "" {
		t.Fatalf("unexpected changes (-want +got):\n%s", diff)
	}
}

func TestResolver_CancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	resolver := NewResolver(&mockProfiles{}, 1, time.Hour, nil)
	_, _, err := resolver.ResolveMissing(ctx, Lookup{}, []string{"Steve"})
	if err == nil {
		t.Fatalf("expected an error for a cancelled context")
	}
}

func TestLookupFiles(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "player_uuids.json")

	empty, err := LoadLookup(path)
	if err != nil {
		t.Fatalf("load missing: %v", err)
	}
	if len(empty) != 0 {
		t.Fatalf("expected an empty lookup, got %v", empty)
	}

	lookup := Lookup{"Steve": steveID, "Alex": alexID}
	if err := SaveLookup(path, lookup); err != nil {
		t.Fatalf("save: %v", err)
	}
	loaded, err := LoadLookup(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if diff := cmp.Diff(lookup, loaded); diff != "" {
		t.Fatalf("unexpected lookup (-want +got):\n%s", diff)
	}

	names := filepath.Join(dir, "player_names.txt")
	if err := WriteNameList(names, lookup); err != nil {
		t.Fatalf("write names: %v", err)
	}
	data, err := os.ReadFile(names)
	if err != nil {
		t.Fatalf("read names: %v", err)
	}
	if string(data) != "Alex\nSteve\n" {
		t.Fatalf("unexpected name list %q", data)
	}
}

func TestLoadLookup_Invalid(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bad.json")
	if err := os.WriteFile(path, []byte("{not json"), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
	if _, err := LoadLookup(path); err == nil {
		t.Fatalf("expected an error for invalid json")
	}
}
