package source

import (
	"context"
	"errors"
	"testing"
	"time"

	"userstream/internal/config"
	"userstream/internal/stream"
)

func TestConnectUnreachable(t *testing.T) {
	t.Parallel()
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	cfg := config.Default()
	cfg.Host = "127.0.0.1"
	cfg.Port = 1
	db, err := Connect(ctx, cfg)
	if err == nil {
		_ = db.Close()
		t.Fatal("expected connection error")
	}
	if !errors.Is(err, stream.ErrSourceUnavailable) {
		t.Errorf("got %v, want ErrSourceUnavailable", err)
	}
	var se *stream.SourceError
	if !errors.As(err, &se) || se.Op != "connect" {
		t.Errorf("got %#v, want SourceError op connect", err)
	}
}
