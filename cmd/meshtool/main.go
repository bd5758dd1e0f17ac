// meshtool is a CLI utility for inspecting and converting OFF/OBJ meshes and
// packed seam sequence buffers.
package main

import (
	"errors"
	"fmt"
	"io"
	"os"

	"go.uber.org/zap"

	"github.com/Faultbox/meshio/internal/config"
	"github.com/Faultbox/meshio/internal/logger"
)

var errUsage = errors.New("usage")

func main() {
	config.ParseFlags()

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	if err := logger.Init(cfg.Logging.Level, cfg.Logging.LogFile); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()

	if err := run(config.Args(), cfg, os.Stdout); err != nil {
		if !errors.Is(err, errUsage) {
			logger.Error("command failed", zap.Error(err))
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		}
		logger.Sync()
		os.Exit(1)
	}
}

// run dispatches a subcommand.
func run(args []string, cfg *config.Config, stdout io.Writer) error {
	if len(args) < 1 {
		printUsage(os.Stderr)
		return errUsage
	}

	command := args[0]
	args = args[1:]

	switch command {
	case "info":
		return cmdInfo(args, stdout)
	case "convert":
		return cmdConvert(args, cfg, stdout)
	case "seams":
		return cmdSeams(args, cfg, stdout)
	case "pack":
		return cmdPack(args, stdout)
	case "config":
		return cmdConfig(args, cfg, stdout)
	case "help", "-h", "--help":
		printUsage(stdout)
		return nil
	default:
		fmt.Fprintf(os.Stderr, "Unknown command: %s\n", command)
		printUsage(os.Stderr)
		return errUsage
	}
}

func printUsage(w io.Writer) {
	fmt.Fprintln(w, `meshtool - OFF/OBJ mesh and seam sequence utility

Usage:
  meshtool [global options] <command> [options]

Global options:
  -config <file>   Config file (.yaml or .toml)
  -debug           Enable debug logging
  -log <file>      Also write logs to file
  -out <dir>       Output directory
  -precision <n>   Decimals per coordinate (-1 = exact)

Commands:
  info <mesh.off|mesh.obj>                    Show element counts
  convert <in.off|in.obj> <out.off>           Rewrite a mesh as OFF
  seams [-c N] [-n V] <dump.bin>              Decode a packed seam buffer and save it
  pack [-loops 1,0,...] <seams.txt> <dump.bin> Encode saved seams into a packed buffer
  config [-format yaml|toml] [-save [path]]   Print or save the effective settings

Examples:
  meshtool info cube-quads-normals.obj
  meshtool convert source-mesh.obj source-mesh.off
  meshtool -out ./frags seams -c 0 -n 1024 seams-0.bin
  meshtool -precision -1 config -save`)
}
