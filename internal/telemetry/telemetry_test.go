package telemetry

import (
	"context"
	"testing"
)

func TestInit_DisabledIsNoop(t *testing.T) {
	shutdown, err := Init(context.Background(), Options{Enabled: false})
	if err != nil {
		t.Fatalf("Init returned error: %v", err)
	}
	if err := shutdown(context.Background()); err != nil {
		t.Fatalf("shutdown returned error: %v", err)
	}
}

func TestInit_EnabledInstallsProvider(t *testing.T) {
	// The gRPC exporter connects lazily, so no collector is needed here.
	shutdown, err := Init(context.Background(), Options{
		Enabled:        true,
		Endpoint:       "127.0.0.1:4317",
		ServiceName:    "kanban-test",
		ServiceVersion: "test",
		Insecure:       true,
	})
	if err != nil {
		t.Fatalf("Init returned error: %v", err)
	}
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_ = shutdown(ctx)
}
