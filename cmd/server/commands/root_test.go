package commands

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestServeFlagsSharedWithRoot(t *testing.T) {
	for _, name := range []string{"addr", "redis", "migrate"} {
		serveFlag := serveCmd.Flags().Lookup(name)
		require.NotNil(t, serveFlag, name)

		rootFlag := rootCmd.Flags().Lookup(name)
		require.NotNil(t, rootFlag, name)
		assert.Same(t, serveFlag, rootFlag, name)
	}

	assert.Nil(t, migrateCmd.Flags().Lookup("addr"))
}

func TestPersistentFlags(t *testing.T) {
	assert.NotNil(t, rootCmd.PersistentFlags().Lookup("dsn"))
	assert.NotNil(t, rootCmd.PersistentFlags().Lookup("store"))
}
