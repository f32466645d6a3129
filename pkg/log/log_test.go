package log_test

import (
	"bytes"
	"context"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rulectx/rulectx/pkg/log"
)

func TestGetLevel(t *testing.T) {
	t.Parallel()

	tcs := map[string]struct {
		input   string
		want    slog.Level
		wantErr bool
	}{
		"debug":            {input: "debug", want: slog.LevelDebug},
		"info":             {input: "info", want: slog.LevelInfo},
		"warn":             {input: "warn", want: slog.LevelWarn},
		"warning alias":    {input: "warning", want: slog.LevelWarn},
		"error":            {input: "error", want: slog.LevelError},
		"case insensitive": {input: "INFO", want: slog.LevelInfo},
		"unknown":          {input: "verbose", wantErr: true},
	}

	for name, tc := range tcs {
		t.Run(name, func(t *testing.T) {
			t.Parallel()

			lvl, err := log.GetLevel(tc.input)
			if tc.wantErr {
				require.ErrorIs(t, err, log.ErrUnknownLogLevel)

				return
			}

			require.NoError(t, err)
			assert.Equal(t, tc.want, lvl)
		})
	}
}

func TestGetFormat(t *testing.T) {
	t.Parallel()

	for _, f := range log.AllFormats {
		got, err := log.GetFormat(f)
		require.NoError(t, err)
		assert.Equal(t, log.Format(f), got)
	}

	_, err := log.GetFormat("xml")
	require.ErrorIs(t, err, log.ErrUnknownLogFormat)
}

func TestCreateHandlerWithStrings(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer

	handler, err := log.CreateHandlerWithStrings(&buf, "debug", "json")
	require.NoError(t, err)

	logger := slog.New(handler)
	logger.Info("hello", slog.String("key", "value"))

	assert.Contains(t, buf.String(), `"msg":"hello"`)
	assert.Contains(t, buf.String(), `"key":"value"`)

	_, err = log.CreateHandlerWithStrings(&buf, "nope", "json")
	require.ErrorIs(t, err, log.ErrInvalidArgument)
}

func TestWithContext(t *testing.T) {
	t.Parallel()

	ctx := context.Background()

	// Without an override the default logger is returned.
	assert.Same(t, slog.Default(), log.WithContext(ctx))

	var buf bytes.Buffer

	override := slog.New(slog.NewTextHandler(&buf, nil))
	ctx = log.IntoContext(ctx, override)

	assert.Same(t, override, log.WithContext(ctx))
}
