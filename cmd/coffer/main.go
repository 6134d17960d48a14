// Copyright 2025 Poiesic Systems
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.


package main

import (
	"context"
	"fmt"
	"log"
	"log/slog"
	"os"
	"strconv"
	"strings"

	"github.com/urfave/cli/v2"

	"github.com/poiesic/coffer"
	"github.com/poiesic/coffer/core"
	"github.com/poiesic/coffer/storage/badger"
)

func main() {
	storeFlags := []cli.Flag{
		&cli.StringFlag{
			Name:     "db",
			Aliases:  []string{"d"},
			Usage:    "Path to the store directory",
			Required: true,
		},
		&cli.StringFlag{
			Name:    "name",
			Aliases: []string{"n"},
			Usage:   "Named database within the store (empty for the default database)",
		},
	}

	app := &cli.App{
		Name:   "coffer",
		Usage:  "Ordered, typed key-value store",
		Before: setupLogger,
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "log-level",
				Aliases: []string{"l"},
				Usage:   "Set logging level (debug, info, warn, error)",
				Value:   "info",
			},
		},
		Commands: []*cli.Command{
			{
				Name:      "put",
				Usage:     "Store a value under a key",
				ArgsUsage: "<key> <value>",
				Action:    putCommand,
				Flags: append([]cli.Flag{
					&cli.StringFlag{
						Name:    "type",
						Aliases: []string{"t"},
						Usage:   "Value type (int, double, string, bool)",
						Value:   "string",
					},
				}, storeFlags...),
			},
			{
				Name:      "get",
				Usage:     "Retrieve the value stored under a key",
				ArgsUsage: "<key>",
				Action:    getCommand,
				Flags:     storeFlags,
			},
			{
				Name:      "get-int",
				Usage:     "Retrieve an integer value, or the default when absent",
				ArgsUsage: "<key>",
				Action:    getIntCommand,
				Flags: append([]cli.Flag{
					&cli.Int64Flag{
						Name:  "default",
						Usage: "Value to return when the key is absent",
					},
				}, storeFlags...),
			},
			{
				Name:      "get-double",
				Usage:     "Retrieve a floating-point value, or the default when absent",
				ArgsUsage: "<key>",
				Action:    getDoubleCommand,
				Flags: append([]cli.Flag{
					&cli.Float64Flag{
						Name:  "default",
						Usage: "Value to return when the key is absent",
					},
				}, storeFlags...),
			},
			{
				Name:      "get-string",
				Usage:     "Retrieve a string value, or the default when absent",
				ArgsUsage: "<key>",
				Action:    getStringCommand,
				Flags: append([]cli.Flag{
					&cli.StringFlag{
						Name:  "default",
						Usage: "Value to return when the key is absent",
					},
				}, storeFlags...),
			},
			{
				Name:      "get-bool",
				Usage:     "Retrieve a boolean value, or the default when absent",
				ArgsUsage: "<key>",
				Action:    getBoolCommand,
				Flags: append([]cli.Flag{
					&cli.BoolFlag{
						Name:  "default",
						Usage: "Value to return when the key is absent",
					},
				}, storeFlags...),
			},
			{
				Name:      "has",
				Usage:     "Check whether a key is present",
				ArgsUsage: "<key>",
				Action:    hasCommand,
				Flags:     storeFlags,
			},
			{
				Name:      "delete",
				Usage:     "Remove a key and its value",
				ArgsUsage: "<key>",
				Action:    deleteCommand,
				Flags:     storeFlags,
			},
			{
				Name:   "list",
				Usage:  "List key-value pairs in key order",
				Action: listCommand,
				Flags: append([]cli.Flag{
					&cli.StringFlag{
						Name:  "from",
						Usage: "Inclusive lower key bound",
					},
					&cli.StringFlag{
						Name:  "to",
						Usage: "Inclusive upper key bound",
					},
				}, storeFlags...),
			},
			{
				Name:   "databases",
				Usage:  "List the named databases registered in the store",
				Action: databasesCommand,
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:     "db",
						Aliases:  []string{"d"},
						Usage:    "Path to the store directory",
						Required: true,
					},
				},
			},
		},
	}

	if err := app.Run(os.Args); err != nil {
		log.Fatal(err)
	}
}

// withDatabase opens the store named by the command's flags, runs fn
// against it, and releases the handle.
func withDatabase(c *cli.Context, fn func(ctx context.Context, db *coffer.Database) error) error {
	registry, err := coffer.NewRegistry()
	if err != nil {
		return fmt.Errorf("failed to create registry: %w", err)
	}
	defer registry.Close()

	ctx := context.Background()
	db, err := registry.GetOrCreate(ctx, c.String("db"), c.String("name"))
	if err != nil {
		return fmt.Errorf("failed to open database: %w", err)
	}
	defer db.Close()

	return fn(ctx, db)
}

// keyArg returns the required <key> argument.
func keyArg(c *cli.Context) ([]byte, error) {
	if c.NArg() < 1 {
		return nil, fmt.Errorf("missing required <key> argument")
	}
	return []byte(c.Args().Get(0)), nil
}

func putCommand(c *cli.Context) error {
	key, err := keyArg(c)
	if err != nil {
		return err
	}
	if c.NArg() < 2 {
		return fmt.Errorf("missing required <value> argument")
	}
	val, err := parseValue(c.String("type"), c.Args().Get(1))
	if err != nil {
		return err
	}

	return withDatabase(c, func(ctx context.Context, db *coffer.Database) error {
		return db.Put(ctx, key, val)
	})
}

func getCommand(c *cli.Context) error {
	key, err := keyArg(c)
	if err != nil {
		return err
	}

	return withDatabase(c, func(ctx context.Context, db *coffer.Database) error {
		val, found, err := db.Get(ctx, key)
		if err != nil {
			return err
		}
		if !found {
			return fmt.Errorf("key %q not found", key)
		}
		fmt.Println(val.String())
		return nil
	})
}

func getIntCommand(c *cli.Context) error {
	key, err := keyArg(c)
	if err != nil {
		return err
	}

	return withDatabase(c, func(ctx context.Context, db *coffer.Database) error {
		var val int64
		var err error
		if c.IsSet("default") {
			val, err = db.GetInt(ctx, key, c.Int64("default"))
		} else {
			val, err = db.GetInt(ctx, key)
		}
		if err != nil {
			return err
		}
		fmt.Println(val)
		return nil
	})
}

func getDoubleCommand(c *cli.Context) error {
	key, err := keyArg(c)
	if err != nil {
		return err
	}

	return withDatabase(c, func(ctx context.Context, db *coffer.Database) error {
		var val float64
		var err error
		if c.IsSet("default") {
			val, err = db.GetDouble(ctx, key, c.Float64("default"))
		} else {
			val, err = db.GetDouble(ctx, key)
		}
		if err != nil {
			return err
		}
		fmt.Println(strconv.FormatFloat(val, 'g', -1, 64))
		return nil
	})
}

func getStringCommand(c *cli.Context) error {
	key, err := keyArg(c)
	if err != nil {
		return err
	}

	return withDatabase(c, func(ctx context.Context, db *coffer.Database) error {
		var val string
		var err error
		if c.IsSet("default") {
			val, err = db.GetString(ctx, key, c.String("default"))
		} else {
			val, err = db.GetString(ctx, key)
		}
		if err != nil {
			return err
		}
		fmt.Println(val)
		return nil
	})
}

func getBoolCommand(c *cli.Context) error {
	key, err := keyArg(c)
	if err != nil {
		return err
	}

	return withDatabase(c, func(ctx context.Context, db *coffer.Database) error {
		var val bool
		var err error
		if c.IsSet("default") {
			val, err = db.GetBool(ctx, key, c.Bool("default"))
		} else {
			val, err = db.GetBool(ctx, key)
		}
		if err != nil {
			return err
		}
		fmt.Println(val)
		return nil
	})
}

func hasCommand(c *cli.Context) error {
	key, err := keyArg(c)
	if err != nil {
		return err
	}

	return withDatabase(c, func(ctx context.Context, db *coffer.Database) error {
		found, err := db.Has(ctx, key)
		if err != nil {
			return err
		}
		fmt.Println(found)
		return nil
	})
}

func deleteCommand(c *cli.Context) error {
	key, err := keyArg(c)
	if err != nil {
		return err
	}

	return withDatabase(c, func(ctx context.Context, db *coffer.Database) error {
		return db.Delete(ctx, key)
	})
}

func listCommand(c *cli.Context) error {
	return withDatabase(c, func(ctx context.Context, db *coffer.Database) error {
		cursor, err := db.Enumerate(ctx, []byte(c.String("from")), []byte(c.String("to")))
		if err != nil {
			return err
		}
		defer cursor.Close()

		for cursor.HasNext() {
			pair, err := cursor.Next()
			if err != nil {
				return err
			}
			fmt.Printf("%s\t%s\n", pair.Key, pair.Value.String())
		}
		return nil
	})
}

func databasesCommand(c *cli.Context) error {
	env, err := badger.OpenEnvironment(c.String("db"), false)
	if err != nil {
		return fmt.Errorf("failed to open store: %w", err)
	}
	defer env.Close()

	names, err := env.Databases()
	if err != nil {
		return err
	}
	for _, name := range names {
		fmt.Println(name)
	}
	return nil
}

// parseValue converts a command-line value string into a typed value.
func parseValue(typeName, raw string) (core.Value, error) {
	switch strings.ToLower(typeName) {
	case "int":
		n, err := strconv.ParseInt(raw, 10, 64)
		if err != nil {
			return core.Value{}, fmt.Errorf("invalid int value %q: %w", raw, err)
		}
		return core.IntValue(n), nil
	case "double":
		f, err := strconv.ParseFloat(raw, 64)
		if err != nil {
			return core.Value{}, fmt.Errorf("invalid double value %q: %w", raw, err)
		}
		return core.DoubleValue(f), nil
	case "string":
		return core.StringValue(raw), nil
	case "bool":
		b, err := strconv.ParseBool(raw)
		if err != nil {
			return core.Value{}, fmt.Errorf("invalid bool value %q: %w", raw, err)
		}
		return core.BoolValue(b), nil
	default:
		return core.Value{}, fmt.Errorf("invalid type %q: must be one of int, double, string, bool", typeName)
	}
}

func setupLogger(c *cli.Context) error {
	levelStr := strings.ToLower(c.String("log-level"))

	var level slog.Level
	switch levelStr {
	case "debug":
		level = slog.LevelDebug
	case "info":
		level = slog.LevelInfo
	case "warn":
		level = slog.LevelWarn
	case "error":
		level = slog.LevelError
	default:
		return fmt.Errorf("invalid log level %q: must be one of debug, info, warn, error", levelStr)
	}

	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: level,
	}))
	slog.SetDefault(logger)

	return nil
}
