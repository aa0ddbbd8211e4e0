package logging

import (
	"context"
	"log/slog"
	"testing"
)

func TestInit(t *testing.T) {
	defer slog.SetDefault(slog.Default())

	Init(false)
	if slog.Default().Enabled(context.Background(), slog.LevelDebug) {
		t.Fatal("expected debug disabled without verbose")
	}

	Init(true)
	if !slog.Default().Enabled(context.Background(), slog.LevelDebug) {
		t.Fatal("expected debug enabled with verbose")
	}
}
