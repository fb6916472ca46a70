package telemetry

import (
	"context"
	"errors"
	"testing"
)

func TestSetup_NoopWhenEndpointEmpty(t *testing.T) {
	shutdown, err := Setup(context.Background(), Options{ServiceName: "test"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := shutdown(context.Background()); err != nil {
		t.Fatalf("shutdown error: %v", err)
	}
}

func TestSetup_CreatesProviderWhenEndpointSet(t *testing.T) {
	// dirección no ruteable: no se exporta nada
	shutdown, err := Setup(context.Background(), Options{ServiceName: "test", Endpoint: "http://192.0.2.1:4318"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := shutdown(context.Background()); err != nil {
		t.Fatalf("shutdown error: %v", err)
	}
}

func TestStartEnd_WithError(t *testing.T) {
	ctx, span := Start(context.Background(), "virtual-pet/test", "op")
	if ctx == nil {
		t.Fatalf("expected ctx")
	}
	End(span, errors.New("boom"))
}
