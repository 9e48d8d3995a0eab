package pgstore

import (
	"context"
	"io"
	"io/fs"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/B3ttiK0nf3ti/studyprogram-dashboard/internal/domain"
)

func TestMigrationsAreEmbedded(t *testing.T) {
	names, err := fs.Glob(migrationsFS, migrationsDir+"/*.sql")
	require.NoError(t, err)
	require.NotEmpty(t, names)

	b, err := fs.ReadFile(migrationsFS, names[0])
	require.NoError(t, err)
	assert.Contains(t, string(b), "-- +goose Up")
	assert.Contains(t, string(b), "study_programs")
}

func TestDecodeDoc(t *testing.T) {
	doc, err := decodeDoc([]byte(`{"name":"Informatik","regular_study_period":6}`))
	require.NoError(t, err)
	assert.Equal(t, "Informatik", doc["name"])

	_, err = decodeDoc([]byte(`null`))
	assert.Error(t, err)

	_, err = decodeDoc([]byte(`{"name":`))
	assert.Error(t, err)
}

func TestOpen_RejectsMissingDSN(t *testing.T) {
	_, err := Open(context.Background(), domain.PostgresConfig{})
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrInvalidConfig)
	assert.True(t, domain.IsKind(err, domain.KindInvalidConfig))
}

func TestOpen_RejectsUnparsableDSN(t *testing.T) {
	_, err := Open(context.Background(), domain.PostgresConfig{DSN: "postgres://%zz"})
	require.Error(t, err)
	assert.True(t, domain.IsKind(err, domain.KindInvalidConfig))
}

func TestGooseLoggerDoesNotExit(t *testing.T) {
	g := gooseLogger{l: slog.New(slog.NewTextHandler(io.Discard, nil))}
	assert.NotPanics(t, func() {
		g.Printf("OK %s\n", "00001_create_study_programs.sql")
		g.Fatalf("boom %d", 1)
	})
}
