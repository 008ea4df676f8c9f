package casescrape_test

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/fwojciec/casescrape"
	"github.com/stretchr/testify/assert"
)

func TestErrorf(t *testing.T) {
	t.Parallel()

	err := casescrape.Errorf(casescrape.ENOTFOUND, "case %q not found", "x")

	assert.Equal(t, casescrape.ENOTFOUND, casescrape.ErrorCode(err))
	assert.Equal(t, "case \"x\" not found", casescrape.ErrorMessage(err))
}

func TestErrorf_WrapsCause(t *testing.T) {
	t.Parallel()

	cause := errors.New("connection reset")
	err := casescrape.Errorf(casescrape.EFETCH, "fetching %s: %w", "https://example.com", cause)

	assert.ErrorIs(t, err, cause)
	assert.Equal(t, "fetching https://example.com: connection reset", casescrape.ErrorMessage(err))
}

func TestErrorCode(t *testing.T) {
	t.Parallel()

	assert.Empty(t, casescrape.ErrorCode(nil))
	assert.Equal(t, casescrape.EINTERNAL, casescrape.ErrorCode(errors.New("boom")))

	wrapped := fmt.Errorf("outer: %w", casescrape.Errorf(casescrape.EMALFORMED, "bad json"))
	assert.Equal(t, casescrape.EMALFORMED, casescrape.ErrorCode(wrapped))
}

func TestErrorMessage(t *testing.T) {
	t.Parallel()

	assert.Empty(t, casescrape.ErrorMessage(nil))
	assert.Equal(t, "Internal error.", casescrape.ErrorMessage(errors.New("boom")))
}

func TestIsFatal(t *testing.T) {
	t.Parallel()

	assert.False(t, casescrape.IsFatal(nil))
	assert.False(t, casescrape.IsFatal(casescrape.Errorf(casescrape.EFETCH, "404")))
	assert.False(t, casescrape.IsFatal(casescrape.Errorf(casescrape.EMALFORMED, "bad")))
	assert.True(t, casescrape.IsFatal(casescrape.Errorf(casescrape.ECONFIG, "unwritable")))
	assert.True(t, casescrape.IsFatal(fmt.Errorf("open sink: %w", casescrape.Errorf(casescrape.ECONFIG, "unwritable"))))
	assert.False(t, casescrape.IsFatal(casescrape.Errorf(casescrape.EFETCH, "render: %w", context.DeadlineExceeded)))
}
