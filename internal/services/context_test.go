package services_test

import (
	"context"
	"testing"

	"vidladder/internal/services"
)

func TestContextHelpers(t *testing.T) {
	ctx := context.Background()
	ctx = services.WithStage(ctx, "ladder")
	ctx = services.WithCodec(ctx, "vp9")
	ctx = services.WithRungIndex(ctx, 0)
	ctx = services.WithRequestID(ctx, "req-123")

	if stage, ok := services.StageFromContext(ctx); !ok || stage != "ladder" {
		t.Fatalf("unexpected stage: %v %v", stage, ok)
	}
	if codec, ok := services.CodecFromContext(ctx); !ok || codec != "vp9" {
		t.Fatalf("unexpected codec: %v %v", codec, ok)
	}
	if idx, ok := services.RungIndexFromContext(ctx); !ok || idx != 0 {
		t.Fatalf("unexpected rung index: %v %v", idx, ok)
	}
	if rid, ok := services.RequestIDFromContext(ctx); !ok || rid != "req-123" {
		t.Fatalf("unexpected request id: %v %v", rid, ok)
	}
}

func TestBlankValuesPreserveContext(t *testing.T) {
	ctx := context.Background()
	ctx = services.WithStage(ctx, "")
	ctx = services.WithCodec(ctx, "")
	ctx = services.WithRequestID(ctx, "")
	if _, ok := services.StageFromContext(ctx); ok {
		t.Fatal("expected no stage value")
	}
	if _, ok := services.CodecFromContext(ctx); ok {
		t.Fatal("expected no codec value")
	}
	if _, ok := services.RequestIDFromContext(ctx); ok {
		t.Fatal("expected no request id")
	}
	if _, ok := services.RungIndexFromContext(ctx); ok {
		t.Fatal("expected no rung index")
	}
}
