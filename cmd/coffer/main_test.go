package main

import (
	"log/slog"
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/urfave/cli/v2"

	"github.com/poiesic/coffer/core"
)

func TestParseValue(t *testing.T) {
	t.Run("int", func(t *testing.T) {
		val, err := parseValue("int", "-42")
		require.NoError(t, err)
		n, err := val.Int()
		require.NoError(t, err)
		assert.Equal(t, int64(-42), n)
	})

	t.Run("double", func(t *testing.T) {
		val, err := parseValue("double", "56.78")
		require.NoError(t, err)
		f, err := val.Double()
		require.NoError(t, err)
		assert.Equal(t, 56.78, f)
	})

	t.Run("string", func(t *testing.T) {
		val, err := parseValue("string", "Héllo, wőrld!")
		require.NoError(t, err)
		s, err := val.Str()
		require.NoError(t, err)
		assert.Equal(t, "Héllo, wőrld!", s)
	})

	t.Run("bool", func(t *testing.T) {
		val, err := parseValue("bool", "true")
		require.NoError(t, err)
		b, err := val.Bool()
		require.NoError(t, err)
		assert.True(t, b)
	})

	t.Run("type name is case-insensitive", func(t *testing.T) {
		val, err := parseValue("INT", "5")
		require.NoError(t, err)
		assert.Equal(t, core.KindInt, val.Kind())
	})

	t.Run("malformed int", func(t *testing.T) {
		_, err := parseValue("int", "five")
		assert.Error(t, err)
	})

	t.Run("unknown type", func(t *testing.T) {
		_, err := parseValue("blob", "x")
		assert.Error(t, err)
	})
}

func TestSetupLogger(t *testing.T) {
	original := slog.Default()
	defer slog.SetDefault(original)

	app := &cli.App{
		Name:   "coffer",
		Before: setupLogger,
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:  "log-level",
				Value: "info",
			},
		},
		Action: func(c *cli.Context) error { return nil },
	}

	t.Run("accepts valid levels", func(t *testing.T) {
		for _, level := range []string{"debug", "info", "warn", "error", "WARN"} {
			err := app.Run([]string{"coffer", "--log-level", level})
			assert.NoError(t, err, "level %s", level)
		}
	})

	t.Run("rejects invalid level", func(t *testing.T) {
		err := app.Run([]string{"coffer", "--log-level", "verbose"})
		assert.Error(t, err)
	})
}

func TestStoreCommandsEndToEnd(t *testing.T) {
	original := slog.Default()
	defer slog.SetDefault(original)

	dir := t.TempDir()
	run := func(args ...string) error {
		return appForTest().Run(append([]string{"coffer"}, args...))
	}

	require.NoError(t, run("put", "--db", dir, "--type", "int", "count", "42"))
	require.NoError(t, run("get", "--db", dir, "count"))
	require.NoError(t, run("get-int", "--db", dir, "--default", "0", "count"))
	require.NoError(t, run("has", "--db", dir, "count"))
	require.NoError(t, run("list", "--db", dir))

	// Typed retrieval always needs a default, even for a present key.
	assert.Error(t, run("get-int", "--db", dir, "count"))

	require.NoError(t, run("delete", "--db", dir, "count"))
	assert.Error(t, run("get", "--db", dir, "count"))
	require.NoError(t, run("get-int", "--db", dir, "--default", "9", "count"))
}

// appForTest rebuilds the command tree with a panic-free error
// handler, since the production app exits the process via log.Fatal.
func appForTest() *cli.App {
	storeFlags := []cli.Flag{
		&cli.StringFlag{Name: "db", Aliases: []string{"d"}, Required: true},
		&cli.StringFlag{Name: "name", Aliases: []string{"n"}},
	}
	return &cli.App{
		Name:   "coffer",
		Writer: os.Stderr,
		Commands: []*cli.Command{
			{Name: "put", Action: putCommand, Flags: append([]cli.Flag{
				&cli.StringFlag{Name: "type", Aliases: []string{"t"}, Value: "string"},
			}, storeFlags...)},
			{Name: "get", Action: getCommand, Flags: storeFlags},
			{Name: "get-int", Action: getIntCommand, Flags: append([]cli.Flag{
				&cli.Int64Flag{Name: "default"},
			}, storeFlags...)},
			{Name: "has", Action: hasCommand, Flags: storeFlags},
			{Name: "delete", Action: deleteCommand, Flags: storeFlags},
			{Name: "list", Action: listCommand, Flags: append([]cli.Flag{
				&cli.StringFlag{Name: "from"},
				&cli.StringFlag{Name: "to"},
			}, storeFlags...)},
		},
	}
}
