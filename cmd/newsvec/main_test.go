package main

import (
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/urfave/cli/v2"
)

func newSetupApp(action cli.ActionFunc) *cli.App {
	return &cli.App{
		Name: "test",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "log-level",
				Aliases: []string{"l"},
				Value:   "info",
			},
		},
		Before: setup,
		Action: action,
	}
}

func TestSetup(t *testing.T) {
	t.Run("valid log levels", func(t *testing.T) {
		testCases := []struct {
			input    string
			expected slog.Level
		}{
			{"debug", slog.LevelDebug},
			{"info", slog.LevelInfo},
			{"warn", slog.LevelWarn},
			{"error", slog.LevelError},
		}

		for _, tc := range testCases {
			t.Run(tc.input, func(t *testing.T) {
				app := newSetupApp(func(c *cli.Context) error { return nil })
				err := app.Run([]string{"test", "--log-level", tc.input})
				require.NoError(t, err)
			})
		}
	})

	t.Run("case insensitive log levels", func(t *testing.T) {
		for _, tc := range []string{"DEBUG", "Info", "WaRn", "ERROR"} {
			t.Run(tc, func(t *testing.T) {
				app := newSetupApp(func(c *cli.Context) error { return nil })
				err := app.Run([]string{"test", "--log-level", tc})
				require.NoError(t, err)
			})
		}
	})

	t.Run("invalid log level returns error", func(t *testing.T) {
		app := newSetupApp(func(c *cli.Context) error { return nil })
		err := app.Run([]string{"test", "--log-level", "invalid"})
		require.Error(t, err)
		assert.Contains(t, err.Error(), "invalid log level")
	})

	t.Run("log-level flag has alias -l", func(t *testing.T) {
		app := newSetupApp(func(c *cli.Context) error {
			assert.Equal(t, "debug", c.String("log-level"))
			return nil
		})
		err := app.Run([]string{"test", "-l", "debug"})
		require.NoError(t, err)
	})
}

func TestQueryCommandValidation(t *testing.T) {
	app := &cli.App{
		Name: "newsvec",
		Commands: []*cli.Command{
			{
				Name:   "query",
				Action: queryCommand,
				Flags: []cli.Flag{
					&cli.StringFlag{Name: "supabase-url", Required: true},
					&cli.StringFlag{Name: "supabase-key", Required: true},
					&cli.StringFlag{Name: "embedding-host", Value: "http://localhost:11434/v1"},
					&cli.StringFlag{Name: "embedding-model", Value: "mxbai-embed-large"},
					&cli.StringFlag{Name: "start"},
					&cli.StringFlag{Name: "end"},
				},
			},
		},
	}

	t.Run("missing credentials fail", func(t *testing.T) {
		err := app.Run([]string{"newsvec", "query", "anything"})
		require.Error(t, err)
		assert.Contains(t, err.Error(), "supabase")
	})

	t.Run("missing query argument fails", func(t *testing.T) {
		err := app.Run([]string{"newsvec", "query",
			"--supabase-url", "https://proj.supabase.co",
			"--supabase-key", "key"})
		require.Error(t, err)
		assert.Contains(t, err.Error(), "query argument")
	})

	t.Run("bad start date fails", func(t *testing.T) {
		err := app.Run([]string{"newsvec", "query",
			"--supabase-url", "https://proj.supabase.co",
			"--supabase-key", "key",
			"--start", "not-a-date",
			"climate policy"})
		require.Error(t, err)
		assert.Contains(t, err.Error(), "invalid start date")
	})
}
