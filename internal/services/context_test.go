package services_test

import (
	"context"
	"testing"

	"scrambleorg/internal/services"
)

func TestContextHelpers(t *testing.T) {
	ctx := context.Background()
	ctx = services.WithRunID(ctx, "run-42")
	ctx = services.WithStage(ctx, "passcodes")
	ctx = services.WithCompetition(ctx, "Example Open 2025")

	if id, ok := services.RunIDFromContext(ctx); !ok || id != "run-42" {
		t.Fatalf("unexpected run id: %v %v", id, ok)
	}
	if stage, ok := services.StageFromContext(ctx); !ok || stage != "passcodes" {
		t.Fatalf("unexpected stage: %v %v", stage, ok)
	}
	if name, ok := services.CompetitionFromContext(ctx); !ok || name != "Example Open 2025" {
		t.Fatalf("unexpected competition: %v %v", name, ok)
	}
}

func TestStageBlankPreservesContext(t *testing.T) {
	ctx := context.Background()
	ctx = services.WithStage(ctx, "")
	if _, ok := services.StageFromContext(ctx); ok {
		t.Fatal("expected no stage value")
	}
	ctx = services.WithRunID(ctx, "")
	if _, ok := services.RunIDFromContext(ctx); ok {
		t.Fatal("expected no run id value")
	}
}
