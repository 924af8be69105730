package confkit_test

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"coinsignals-api/pkg/confkit"
)

func TestResolvePath(t *testing.T) {
	t.Setenv("MARKET_DIR", "/etc/coinsignals")
	t.Setenv("REL_DIR", "overrides")

	tests := []struct {
		name string
		base string
		file string
		want string
	}{
		{"absolute", "/srv/app/etc", "/opt/market.yaml", "/opt/market.yaml"},
		{"relative", "/srv/app/etc", "market.yaml", "/srv/app/etc/market.yaml"},
		{"env absolute", "/srv/app/etc", "${MARKET_DIR}/market.yaml", "/etc/coinsignals/market.yaml"},
		{"env relative", "/srv/app/etc", "$REL_DIR/market.yaml", "/srv/app/etc/overrides/market.yaml"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, confkit.ResolvePath(tt.base, tt.file))
		})
	}
}

func TestBaseDir(t *testing.T) {
	assert.Equal(t, "/srv/app/etc", confkit.BaseDir("/srv/app/etc/coinsignals.yaml"))
	assert.Equal(t, ".", confkit.BaseDir("coinsignals.yaml"))
}

type marketSection struct {
	Priority []string
}

func TestSection_Hydrate(t *testing.T) {
	t.Run("empty file is a no-op", func(t *testing.T) {
		var s confkit.Section[marketSection]
		err := s.Hydrate("/base", func(string) (*marketSection, error) {
			t.Fatal("loader must not run")
			return nil, nil
		})
		require.NoError(t, err)
		assert.False(t, s.Loaded())
	})

	t.Run("loads resolved path", func(t *testing.T) {
		s := confkit.Section[marketSection]{File: "market.yaml"}
		err := s.Hydrate("/base", func(path string) (*marketSection, error) {
			assert.Equal(t, "/base/market.yaml", path)
			return &marketSection{Priority: []string{"coingecko"}}, nil
		})
		require.NoError(t, err)
		require.True(t, s.Loaded())
		assert.Equal(t, []string{"coingecko"}, s.Value.Priority)
		assert.Equal(t, "/base/market.yaml", s.File)
	})

	t.Run("loader error", func(t *testing.T) {
		s := confkit.Section[marketSection]{File: "market.yaml"}
		err := s.Hydrate("/base", func(string) (*marketSection, error) {
			return nil, errors.New("bad yaml")
		})
		assert.EqualError(t, err, "bad yaml")
		assert.False(t, s.Loaded())
	})
}

func TestSection_HydrateDefault(t *testing.T) {
	dir := t.TempDir()
	loader := func(path string) (*marketSection, error) {
		return &marketSection{Priority: []string{filepath.Base(path)}}, nil
	}

	var missing confkit.Section[marketSection]
	require.NoError(t, missing.HydrateDefault(dir, "market.yaml", loader))
	assert.False(t, missing.Loaded(), "absent fallback is skipped")

	require.NoError(t, os.WriteFile(filepath.Join(dir, "market.yaml"), []byte("{}"), 0o600))
	var present confkit.Section[marketSection]
	require.NoError(t, present.HydrateDefault(dir, "market.yaml", loader))
	require.True(t, present.Loaded())
	assert.Equal(t, filepath.Join(dir, "market.yaml"), present.File)

	explicit := confkit.Section[marketSection]{File: "other.yaml"}
	require.NoError(t, explicit.HydrateDefault(dir, "market.yaml", loader))
	assert.Equal(t, []string{"other.yaml"}, explicit.Value.Priority)
}

func TestProjectPath(t *testing.T) {
	root := confkit.MustProjectRoot()
	_, err := os.Stat(filepath.Join(root, "go.mod"))
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(root, "etc", "market.yaml"), confkit.MustProjectPath("etc/market.yaml"))
}
