// Copyright (c) Elliot Nunn
// Licensed under the MIT license

// Command zunpack unpacks files made by the UNIX compress(1) and pack(1)
// commands, along with a few of their modern successors.
package main

import (
	"log/slog"
	"os"

	"github.com/alecthomas/kong"
	"github.com/joho/godotenv"

	"github.com/elliotnunn/zunpack/internal/decompressioncache"
)

const envPrefix = "ZUNPACK"

// set during build
var version = "0.0.0"

type Globals struct {
	Debug   bool             `help:"Log each file as it is handled." short:"d"`
	CacheMB int              `help:"Memory for decompressed blocks, in MiB." default:"256" name:"cache-mb"`
	SizeDB  string           `help:"Directory of the persistent size cache (empty for none)." type:"path" name:"size-db"`
	Version kong.VersionFlag `help:"Show version and exit." short:"v"`
}

type CLI struct {
	Globals `embed:""`

	Extract extractCmd `cmd:"" default:"withargs" help:"Decompress files (the default)."`
	List    listCmd    `cmd:"" aliases:"l" help:"List compressed files without extracting them."`
	Serve   serveCmd   `cmd:"" help:"Serve one decompressed file over HTTP."`
}

func main() {
	_ = godotenv.Load(".env")

	var cli CLI
	ctx := kong.Parse(&cli,
		kong.Name("zunpack"),
		kong.Description("Unpack compress(1) .Z and pack(1) .z files"),
		kong.UsageOnError(),
		kong.DefaultEnvars(envPrefix),
		kong.ConfigureHelp(kong.HelpOptions{
			Compact: true,
			Summary: true,
		}),
		kong.Vars{
			"version": version,
		})

	setupLogging(cli.Debug)

	blocks, err := cacheBlocks(cli.CacheMB)
	ctx.FatalIfErrorf(err)
	ctx.FatalIfErrorf(decompressioncache.SetCapacity(blocks))

	ctx.FatalIfErrorf(ctx.Run(&cli.Globals))
}

func setupLogging(debug bool) {
	level := slog.LevelInfo
	if debug {
		level = slog.LevelDebug
	}
	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level})))
}
