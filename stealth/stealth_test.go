package stealth_test

import (
	"strings"
	"testing"

	"github.com/fwojciec/crawlx/stealth"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestScripts(t *testing.T) {
	t.Parallel()

	t.Run("overrides detectable navigator properties", func(t *testing.T) {
		t.Parallel()

		scripts := stealth.Scripts()
		require.Len(t, scripts, 2)
		assert.NotEmpty(t, scripts[0], "bundled evasions should be first")

		last := scripts[len(scripts)-1]
		for _, want := range []string{"webdriver", "plugins", "languages", "permissions.query", "contentWindow", "chrome.runtime"} {
			assert.Contains(t, last, want)
		}
	})
}

func TestLaunchFlags(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "AutomationControlled", stealth.LaunchFlags["disable-blink-features"])
	for name := range stealth.LaunchFlags {
		assert.False(t, strings.HasPrefix(name, "-"), "flag %q should not carry dashes", name)
	}
}

func TestUserAgent(t *testing.T) {
	t.Parallel()

	t.Run("returns a desktop browser string", func(t *testing.T) {
		t.Parallel()

		for range 50 {
			ua := stealth.UserAgent()
			assert.True(t, strings.HasPrefix(ua, "Mozilla/5.0 ("), ua)
			assert.NotContains(t, ua, "Mobile")
			assert.NotContains(t, ua, "Headless")
		}
	})

	t.Run("draws from the candidate list", func(t *testing.T) {
		t.Parallel()

		candidates := stealth.UserAgents()
		for range 20 {
			assert.Contains(t, candidates, stealth.UserAgent())
		}
	})

	t.Run("candidate list is a copy", func(t *testing.T) {
		t.Parallel()

		a := stealth.UserAgents()
		a[0] = "mutated"
		assert.NotEqual(t, "mutated", stealth.UserAgents()[0])
	})
}
