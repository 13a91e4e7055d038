package app

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/BladMendez/asistencia-mec-nica/internal/config"
	"github.com/BladMendez/asistencia-mec-nica/internal/logger"
	"github.com/BladMendez/asistencia-mec-nica/internal/types"
)

func TestBuildMemory(t *testing.T) {
	cfg := &config.Config{
		StoreDriver:          config.DriverMemory,
		Location:             time.UTC,
		TableTTL:             time.Minute,
		TitlesTTL:            time.Minute,
		RetryMaxAttempts:     2,
		RetryInitialInterval: time.Millisecond,
		RetryMaxInterval:     time.Millisecond,
		APIKeys:              []string{"k1"},
		DefaultRateLimit:     10,
		DefaultWindow:        60,
	}

	a, err := Build(context.Background(), cfg, logger.Nop())
	require.NoError(t, err)
	defer a.Close()

	assert.Nil(t, a.Firestore)
	assert.Nil(t, a.Storage)
	require.NotNil(t, a.Memory)

	k, err := a.Memory.ValidateAPIKey(context.Background(), "k1")
	require.NoError(t, err)
	require.NotNil(t, k)

	require.NoError(t, a.Store.ReplaceWorksheet(context.Background(), "101 - Física", &types.Table{
		Headers: []string{"No de control", "Nombre"},
		Rows:    [][]string{{"1", "Ana"}},
	}))
	courses, err := a.Tracker.Courses(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []string{"101 - Física"}, courses)
}
