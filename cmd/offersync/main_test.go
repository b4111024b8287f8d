package main

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestRootCmd(t *testing.T) {
	t.Parallel()

	root := rootCmd()

	require.Equal(t, "offersync", root.Use)
	require.True(t, root.SilenceUsage)
	require.NotNil(t, root.PersistentFlags().Lookup("verbose"))

	var names []string
	for _, cmd := range root.Commands() {
		names = append(names, cmd.Name())
	}
	require.Subset(t, names, []string{"init", "session", "show", "status", "sync"})
}
