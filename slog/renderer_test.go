package slog_test

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"testing"

	"github.com/fwojciec/casescrape"
	"github.com/fwojciec/casescrape/mock"
	csslog "github.com/fwojciec/casescrape/slog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoggingRenderer_Render(t *testing.T) {
	t.Parallel()

	t.Run("logs render with bytes and duration", func(t *testing.T) {
		t.Parallel()

		var buf bytes.Buffer
		logger := slog.New(slog.NewTextHandler(&buf, nil))
		inner := &mock.Renderer{
			RenderFn: func(ctx context.Context, url string, wait casescrape.WaitCondition) (string, error) {
				return "<html>content</html>", nil
			},
		}

		renderer := csslog.NewLoggingRenderer(inner, logger)
		html, err := renderer.Render(context.Background(), "https://example.com/case/1", casescrape.WaitNetworkIdle)

		require.NoError(t, err)
		assert.Equal(t, "<html>content</html>", html)
		output := buf.String()
		assert.Contains(t, output, "render")
		assert.Contains(t, output, "url=https://example.com/case/1")
		assert.Contains(t, output, "wait=network_idle")
		assert.Contains(t, output, "bytes=20")
		assert.Contains(t, output, "duration=")
	})

	t.Run("logs error on failure", func(t *testing.T) {
		t.Parallel()

		var buf bytes.Buffer
		logger := slog.New(slog.NewTextHandler(&buf, nil))
		inner := &mock.Renderer{
			RenderFn: func(ctx context.Context, url string, wait casescrape.WaitCondition) (string, error) {
				return "", errors.New("navigation timeout")
			},
		}

		renderer := csslog.NewLoggingRenderer(inner, logger)
		_, err := renderer.Render(context.Background(), "https://example.com/case/1", casescrape.WaitLoad)

		require.Error(t, err)
		output := buf.String()
		assert.Contains(t, output, "wait=load")
		assert.Contains(t, output, "err=\"navigation timeout\"")
	})
}

func TestLoggingRenderer_Close(t *testing.T) {
	t.Parallel()

	t.Run("delegates to inner renderer", func(t *testing.T) {
		t.Parallel()

		var buf bytes.Buffer
		logger := slog.New(slog.NewTextHandler(&buf, nil))
		closeCalled := false
		inner := &mock.Renderer{
			CloseFn: func() error {
				closeCalled = true
				return nil
			},
		}

		renderer := csslog.NewLoggingRenderer(inner, logger)
		err := renderer.Close()

		require.NoError(t, err)
		assert.True(t, closeCalled)
	})
}
