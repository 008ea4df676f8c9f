//go:build integration && !windows

package rod_test

import (
	"syscall"
	"testing"
	"time"

	"github.com/fwojciec/casescrape/rod"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBrowserManager_Close_StopsChrome(t *testing.T) {
	t.Parallel()

	bm, err := rod.NewBrowserManager()
	require.NoError(t, err)

	pid := bm.LauncherPID()
	require.NotZero(t, pid)
	require.NoError(t, syscall.Kill(pid, syscall.Signal(0)))

	require.NoError(t, bm.Close())

	assert.Eventually(t, func() bool {
		return syscall.Kill(pid, syscall.Signal(0)) != nil
	}, 2*time.Second, 50*time.Millisecond)
}
