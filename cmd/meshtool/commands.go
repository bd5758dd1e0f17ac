package main

import (
	"flag"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"go.uber.org/zap"

	"github.com/Faultbox/meshio/internal/config"
	"github.com/Faultbox/meshio/internal/logger"
	"github.com/Faultbox/meshio/pkg/formats"
	"github.com/Faultbox/meshio/pkg/mesh"
	"github.com/Faultbox/meshio/pkg/seam"
)

// loadMesh reads an OFF or OBJ file, chosen by extension.
func loadMesh(path string) (*mesh.Mesh, error) {
	logger.Info("reading mesh", zap.String("path", path))

	var (
		m   *mesh.Mesh
		err error
	)
	switch strings.ToLower(filepath.Ext(path)) {
	case ".off":
		m, err = formats.ReadOFFFile(path)
	case ".obj":
		m, err = formats.ReadOBJFile(path)
	default:
		return nil, fmt.Errorf("unsupported mesh format %q (want .off or .obj)", filepath.Ext(path))
	}
	if err != nil {
		return nil, err
	}

	logger.Debug("mesh loaded",
		zap.String("path", path),
		zap.Int("positions", m.NumVertices()),
		zap.Int("normals", m.NumNormals()),
		zap.Int("texcoords", m.NumTexCoords()),
		zap.Int("faces", m.NumFaces()),
		zap.Int("face_indices", m.NumFaceIndices()),
	)
	return m, nil
}

func writeOptions(cfg *config.Config) formats.WriteOptions {
	return formats.WriteOptions{Precision: cfg.Output.Precision}
}

func newFlagSet(name string) *flag.FlagSet {
	fs := flag.NewFlagSet(name, flag.ContinueOnError)
	fs.SetOutput(os.Stderr)
	return fs
}

func cmdInfo(args []string, stdout io.Writer) error {
	fs := newFlagSet("info")
	if err := fs.Parse(args); err != nil {
		return errUsage
	}
	if fs.NArg() < 1 {
		fmt.Fprintln(os.Stderr, "Usage: meshtool info <mesh.off|mesh.obj>")
		return errUsage
	}

	m, err := loadMesh(fs.Arg(0))
	if err != nil {
		return err
	}

	fmt.Fprintf(stdout, "Mesh:         %s\n", fs.Arg(0))
	fmt.Fprintf(stdout, "Vertices:     %d\n", m.NumVertices())
	fmt.Fprintf(stdout, "Normals:      %d\n", m.NumNormals())
	fmt.Fprintf(stdout, "Texcoords:    %d\n", m.NumTexCoords())
	fmt.Fprintf(stdout, "Faces:        %d\n", m.NumFaces())
	fmt.Fprintf(stdout, "Face indices: %d\n", m.NumFaceIndices())
	fmt.Fprintf(stdout, "Edges:        %d\n", m.NumEdges())

	// Faces by vertex count
	sizes := make(map[uint32]int)
	var maxSize uint32
	for _, n := range m.FaceSizes {
		sizes[n]++
		maxSize = max(maxSize, n)
	}
	if len(sizes) > 0 {
		fmt.Fprintln(stdout)
		fmt.Fprintln(stdout, "Faces by size:")
		for n := uint32(3); n <= maxSize; n++ {
			if sizes[n] > 0 {
				fmt.Fprintf(stdout, "  %-4d %d\n", n, sizes[n])
			}
		}
	}
	return nil
}

func cmdConvert(args []string, cfg *config.Config, stdout io.Writer) error {
	fs := newFlagSet("convert")
	if err := fs.Parse(args); err != nil {
		return errUsage
	}
	if fs.NArg() < 2 {
		fmt.Fprintln(os.Stderr, "Usage: meshtool convert <in.off|in.obj> <out.off>")
		return errUsage
	}

	m, err := loadMesh(fs.Arg(0))
	if err != nil {
		return err
	}

	outPath := fs.Arg(1)
	if err := formats.WriteOFFFile(outPath, m, writeOptions(cfg)); err != nil {
		return err
	}

	logger.Info("wrote mesh", zap.String("path", outPath), zap.Int("faces", m.NumFaces()))
	fmt.Fprintf(stdout, "Converted: %s -> %s (%d vertices, %d faces)\n", fs.Arg(0), outPath, m.NumVertices(), m.NumFaces())
	return nil
}

func cmdSeams(args []string, cfg *config.Config, stdout io.Writer) error {
	fs := newFlagSet("seams")
	component := fs.Int("c", cfg.Seams.Component, "Connected component number used in the output name")
	numVertices := fs.Int("n", cfg.Seams.NumVertices, "Vertex count of the component to bounds-check against (0 = skip)")
	if err := fs.Parse(args); err != nil {
		return errUsage
	}
	if fs.NArg() < 1 {
		fmt.Fprintln(os.Stderr, "Usage: meshtool seams [-c component] [-n vertices] <dump.bin>")
		return errUsage
	}

	seqs, err := seam.ReadFile(fs.Arg(0))
	if err != nil {
		return err
	}
	logger.Info("decoded seam sequences", zap.String("path", fs.Arg(0)), zap.Int("sequences", len(seqs)))

	if *numVertices > 0 {
		if err := seam.CheckBounds(seqs, *numVertices); err != nil {
			return mesh.WithPath(err, fs.Arg(0))
		}
	}

	if err := os.MkdirAll(cfg.Output.Dir, 0755); err != nil {
		return fmt.Errorf("creating output directory: %w", err)
	}
	outPath := filepath.Join(cfg.Output.Dir, seam.FileName(*component, seqs))
	if err := formats.WriteOFFFile(outPath, seam.ToMesh(seqs), writeOptions(cfg)); err != nil {
		return err
	}
	logger.Info("wrote seam sequences", zap.String("path", outPath))

	for i, s := range seqs {
		kind := "open"
		if s.IsLoop {
			kind = "loop"
		}
		logger.Debug("sequence", zap.Int("id", i), zap.Uint32s("indices", s.Indices), zap.Bool("loop", s.IsLoop))
		fmt.Fprintf(stdout, "sequence %d: %d vertices (%s)\n", i, len(s.Indices), kind)
	}
	fmt.Fprintf(stdout, "Saved: %s\n", outPath)
	return nil
}

func cmdPack(args []string, stdout io.Writer) error {
	fs := newFlagSet("pack")
	loopsFlag := fs.String("loops", "", "Comma-separated loop flags per sequence (1/0); default all open")
	if err := fs.Parse(args); err != nil {
		return errUsage
	}
	if fs.NArg() < 2 {
		fmt.Fprintln(os.Stderr, "Usage: meshtool pack [-loops 1,0,...] <seams.txt> <dump.bin>")
		return errUsage
	}

	m, err := formats.ReadOFFFileWithOptions(fs.Arg(0), formats.ReadOptions{Records: true})
	if err != nil {
		return err
	}

	loops, err := parseLoops(*loopsFlag)
	if err != nil {
		return err
	}
	seqs, err := seam.FromMesh(m, loops)
	if err != nil {
		return mesh.WithPath(err, fs.Arg(0))
	}

	if err := seam.WriteFile(fs.Arg(1), seqs); err != nil {
		return err
	}
	logger.Info("packed seam sequences", zap.String("path", fs.Arg(1)), zap.Int("sequences", len(seqs)))
	fmt.Fprintf(stdout, "Packed: %d sequences -> %s\n", len(seqs), fs.Arg(1))
	return nil
}

// parseLoops parses "1,0,1" into loop flags. An empty string yields nil.
func parseLoops(s string) ([]bool, error) {
	if s == "" {
		return nil, nil
	}
	parts := strings.Split(s, ",")
	loops := make([]bool, len(parts))
	for i, p := range parts {
		switch strings.TrimSpace(p) {
		case "1", "true", "loop":
			loops[i] = true
		case "0", "false", "open":
			loops[i] = false
		default:
			return nil, fmt.Errorf("invalid loop flag %q at position %d", p, i)
		}
	}
	return loops, nil
}

func cmdConfig(args []string, cfg *config.Config, stdout io.Writer) error {
	fs := newFlagSet("config")
	save := fs.Bool("save", false, "Save the effective settings instead of printing them")
	format := fs.String("format", "yaml", "Output format when printing (yaml or toml)")
	if err := fs.Parse(args); err != nil {
		return errUsage
	}
	if fs.NArg() > 1 {
		fmt.Fprintln(os.Stderr, "Usage: meshtool config [-format yaml|toml] [-save [path]]")
		return errUsage
	}

	if !*save {
		if fs.NArg() > 0 {
			fmt.Fprintln(os.Stderr, "Usage: meshtool config [-format yaml|toml] [-save [path]]")
			return errUsage
		}
		switch *format {
		case "yaml", "toml":
		default:
			return fmt.Errorf("unknown config format %q (want yaml or toml)", *format)
		}
		data, err := cfg.Marshal("config." + *format)
		if err != nil {
			return fmt.Errorf("encoding config: %w", err)
		}
		_, err = stdout.Write(data)
		return err
	}

	path := config.UserConfigPath()
	var err error
	if fs.NArg() == 1 {
		path = fs.Arg(0)
		err = cfg.SaveTo(path)
	} else {
		err = cfg.Save()
	}
	if err != nil {
		return fmt.Errorf("saving config: %w", err)
	}

	logger.Info("saved config", zap.String("path", path))
	fmt.Fprintf(stdout, "Saved: %s\n", path)
	return nil
}
