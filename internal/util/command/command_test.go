package command_test

import (
	"context"
	"errors"
	"testing"

	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github/chapool/go-docsign/internal/api"
	"github/chapool/go-docsign/internal/data/fixtures"
	"github/chapool/go-docsign/internal/test"
	"github/chapool/go-docsign/internal/util/command"
)

func TestWithServer(t *testing.T) {
	test.WithTestServer(t, func(s *api.Server) {
		ctx := t.Context()

		var testError = errors.New("test error")

		s.Config.Logger.PrettyPrintConsole = false
		resultErr := command.WithServer(ctx, s.Config, func(ctx context.Context, s *api.Server) error {
			n, err := fixtures.Seed(ctx, s.Store, s.Clock.Now())
			require.NoError(t, err)
			assert.Equal(t, 5, n)

			sessions, err := s.Store.FindByUserID(ctx, fixtures.UserID)
			require.NoError(t, err)
			assert.NotEmpty(t, sessions)

			return testError
		})

		assert.Equal(t, testError, resultErr)
	})
}

func TestNewSubcommandGroup(t *testing.T) {
	child := &cobra.Command{Use: "child", Run: func(*cobra.Command, []string) {}}

	cmd := command.NewSubcommandGroup("group", child)

	assert.Equal(t, "group <subcommand>", cmd.Use)
	require.Len(t, cmd.Commands(), 1)
	assert.Equal(t, "child", cmd.Commands()[0].Name())
}
