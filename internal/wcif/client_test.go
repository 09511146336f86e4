package wcif_test

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"scrambleorg/internal/wcif"
)

func TestFetchPublicRequestsWCIFEndpoint(t *testing.T) {
	var gotPath, gotAgent string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotAgent = r.Header.Get("User-Agent")
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(sampleWCIF))
	}))
	defer srv.Close()

	client, err := wcif.NewClient(srv.URL+"/api/v0/", time.Second, wcif.WithUserAgent("scrambleorg/test"))
	if err != nil {
		t.Fatalf("NewClient: %v", err)
	}
	comp, err := client.FetchPublic(context.Background(), "ExampleOpen2025")
	if err != nil {
		t.Fatalf("FetchPublic: %v", err)
	}
	if gotPath != "/api/v0/competitions/ExampleOpen2025/wcif/public" {
		t.Fatalf("unexpected request path %q", gotPath)
	}
	if gotAgent != "scrambleorg/test" {
		t.Fatalf("unexpected user agent %q", gotAgent)
	}
	if comp.Name != "Example Open 2025" {
		t.Fatalf("unexpected competition name %q", comp.Name)
	}
}

func TestFetchPublicMapsNotFound(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.NotFound(w, r)
	}))
	defer srv.Close()

	client, err := wcif.NewClient(srv.URL, time.Second)
	if err != nil {
		t.Fatalf("NewClient: %v", err)
	}
	_, err = client.FetchPublic(context.Background(), "Nope2099")
	if !errors.Is(err, wcif.ErrCompetitionNotFound) {
		t.Fatalf("expected ErrCompetitionNotFound, got %v", err)
	}
}

func TestFetchPublicReportsServerErrors(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer srv.Close()

	client, err := wcif.NewClient(srv.URL, time.Second)
	if err != nil {
		t.Fatalf("NewClient: %v", err)
	}
	if _, err := client.FetchPublic(context.Background(), "ExampleOpen2025"); err == nil {
		t.Fatal("expected error for 502 response")
	}
	if _, err := client.FetchPublic(context.Background(), "  "); err == nil {
		t.Fatal("expected error for blank id")
	}
}

func TestNewClientRequiresBaseURL(t *testing.T) {
	if _, err := wcif.NewClient(" ", time.Second); err == nil {
		t.Fatal("expected error for empty base url")
	}
}
