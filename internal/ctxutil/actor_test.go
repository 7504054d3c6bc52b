package ctxutil

import (
	"context"
	"testing"
)

func TestActorRoundTrip(t *testing.T) {
	ctx := context.Background()
	if got := ActorFromContext(ctx); got != "" {
		t.Errorf("ActorFromContext(empty) = %q", got)
	}
	ctx = WithActorID(ctx, "keeper")
	if got := ActorFromContext(ctx); got != "keeper" {
		t.Errorf("ActorFromContext = %q", got)
	}
}

func TestPointValidationBypass(t *testing.T) {
	ctx := context.Background()
	if PointValidationBypassed(ctx) {
		t.Error("plain context must not bypass")
	}
	if !PointValidationBypassed(WithPointValidationBypass(ctx)) {
		t.Error("tagged context must bypass")
	}
}
