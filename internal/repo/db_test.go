package repo

import (
	"path/filepath"
	"testing"

	"go.opentelemetry.io/otel"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"

	"github.com/tbourn/go-post-service/internal/domain"
)

func TestOpenSQLite_MissingParentDir(t *testing.T) {
	if _, err := OpenSQLite(filepath.Join(t.TempDir(), "no-such-dir", "posts.db")); err == nil {
		t.Fatal("expected error for missing parent directory")
	}
}

func TestOpenSQLite_QueriesProduceSpans(t *testing.T) {
	sr := tracetest.NewSpanRecorder()
	tp := sdktrace.NewTracerProvider(sdktrace.WithSpanProcessor(sr))
	prev := otel.GetTracerProvider()
	otel.SetTracerProvider(tp)
	t.Cleanup(func() { otel.SetTracerProvider(prev) })

	db, err := OpenSQLite(filepath.Join(t.TempDir(), "traced.db"))
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	if err := AutoMigrate(db); err != nil {
		t.Fatalf("migrate: %v", err)
	}

	var n int64
	if err := db.Model(&domain.Post{}).Count(&n).Error; err != nil {
		t.Fatalf("count: %v", err)
	}

	if len(sr.Ended()) == 0 {
		t.Fatal("expected store queries to be recorded as spans")
	}
}
