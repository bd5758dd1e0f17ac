package main

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/Faultbox/meshio/internal/config"
	"github.com/Faultbox/meshio/pkg/formats"
	"github.com/Faultbox/meshio/pkg/mesh"
	"github.com/Faultbox/meshio/pkg/seam"
)

const quadOBJ = `# two triangles sharing an edge
v 0 0 0
v 1 0 0
v 1 1 0
v 0 1 0
f 1 2 3
f 1 3 4
`

func writeTestFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("failed to write %s: %v", name, err)
	}
	return path
}

func testConfig(t *testing.T) *config.Config {
	t.Helper()
	cfg := config.Default()
	cfg.Output.Dir = t.TempDir()
	return cfg
}

func TestRunInfo(t *testing.T) {
	path := writeTestFile(t, t.TempDir(), "quad.obj", quadOBJ)

	var out bytes.Buffer
	if err := run([]string{"info", path}, testConfig(t), &out); err != nil {
		t.Fatalf("info failed: %v", err)
	}

	for _, want := range []string{"Vertices:     4", "Faces:        2", "Face indices: 6", "  3    2"} {
		if !strings.Contains(out.String(), want) {
			t.Errorf("expected %q in output:\n%s", want, out.String())
		}
	}
}

func TestRunConvert(t *testing.T) {
	dir := t.TempDir()
	in := writeTestFile(t, dir, "quad.obj", quadOBJ)
	outPath := filepath.Join(dir, "quad.off")

	cfg := testConfig(t)
	cfg.Output.Precision = 1

	var out bytes.Buffer
	if err := run([]string{"convert", in, outPath}, cfg, &out); err != nil {
		t.Fatalf("convert failed: %v", err)
	}

	data, err := os.ReadFile(outPath)
	if err != nil {
		t.Fatalf("failed to read output: %v", err)
	}
	if !strings.HasPrefix(string(data), "OFF\n4 2 0\n0.0 0.0 0.0\n") {
		t.Errorf("unexpected OFF output:\n%s", data)
	}

	m, err := formats.ReadOFFFile(outPath)
	if err != nil {
		t.Fatalf("converted file does not read back: %v", err)
	}
	if m.NumVertices() != 4 || m.NumFaces() != 2 {
		t.Errorf("got %d vertices, %d faces; want 4, 2", m.NumVertices(), m.NumFaces())
	}
}

func TestRunSeamsAndPack(t *testing.T) {
	dir := t.TempDir()
	seqs := []seam.Sequence{
		{Indices: []uint32{0, 1, 2, 3}, IsLoop: true},
		{Indices: []uint32{4, 5}},
	}
	dump := filepath.Join(dir, "seams.bin")
	if err := seam.WriteFile(dump, seqs); err != nil {
		t.Fatalf("failed to write dump: %v", err)
	}

	cfg := testConfig(t)
	var out bytes.Buffer
	if err := run([]string{"seams", "-c", "2", "-n", "6", dump}, cfg, &out); err != nil {
		t.Fatalf("seams failed: %v", err)
	}

	saved := filepath.Join(cfg.Output.Dir, "frag-2-seam-vertices-id0_isLOOP-id1_isOPEN.txt")
	if _, err := os.Stat(saved); err != nil {
		t.Fatalf("expected %s to exist: %v", saved, err)
	}
	if !strings.Contains(out.String(), "sequence 0: 4 vertices (loop)") {
		t.Errorf("unexpected seams output:\n%s", out.String())
	}

	packed := filepath.Join(dir, "repacked.bin")
	out.Reset()
	if err := run([]string{"pack", "-loops", "1,0", saved, packed}, cfg, &out); err != nil {
		t.Fatalf("pack failed: %v", err)
	}

	got, err := seam.ReadFile(packed)
	if err != nil {
		t.Fatalf("failed to read repacked dump: %v", err)
	}
	if len(got) != 2 || !got[0].IsLoop || got[1].IsLoop || len(got[0].Indices) != 4 || got[1].Indices[1] != 5 {
		t.Errorf("repacked sequences differ: %+v", got)
	}
}

func TestRunSeamsOutOfBounds(t *testing.T) {
	dir := t.TempDir()
	dump := filepath.Join(dir, "seams.bin")
	if err := seam.WriteFile(dump, []seam.Sequence{{Indices: []uint32{0, 9}}}); err != nil {
		t.Fatalf("failed to write dump: %v", err)
	}

	err := run([]string{"seams", "-n", "4", dump}, testConfig(t), &bytes.Buffer{})
	if !errors.Is(err, mesh.ErrBounds) {
		t.Errorf("expected ErrBounds, got %v", err)
	}
}

func TestRunErrors(t *testing.T) {
	dir := t.TempDir()
	bad := writeTestFile(t, dir, "bad.off", "PLY\n3 1\n")
	ply := writeTestFile(t, dir, "mesh.ply", "ply\n")
	seams := writeTestFile(t, dir, "seams.txt", "OFF\n0 1 0\n2 0 1\n")

	tests := []struct {
		name string
		args []string
		want error
	}{
		{"no command", nil, errUsage},
		{"unknown command", []string{"explode"}, errUsage},
		{"info without file", []string{"info"}, errUsage},
		{"convert without output", []string{"convert", bad}, errUsage},
		{"pack without output", []string{"pack", seams}, errUsage},
		{"missing file", []string{"info", filepath.Join(dir, "missing.off")}, mesh.ErrIO},
		{"bad header", []string{"info", bad}, mesh.ErrFormat},
		{"loop count mismatch", []string{"pack", "-loops", "1,1", seams, filepath.Join(dir, "out.bin")}, mesh.ErrFormat},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := run(tt.args, testConfig(t), &bytes.Buffer{})
			if !errors.Is(err, tt.want) {
				t.Errorf("expected %v, got %v", tt.want, err)
			}
		})
	}

	if err := run([]string{"info", ply}, testConfig(t), &bytes.Buffer{}); err == nil {
		t.Error("expected error for unsupported extension")
	}
}

func TestParseLoops(t *testing.T) {
	loops, err := parseLoops("1, 0,loop,open")
	if err != nil {
		t.Fatalf("parseLoops failed: %v", err)
	}
	want := []bool{true, false, true, false}
	for i := range want {
		if loops[i] != want[i] {
			t.Errorf("loops[%d] = %v, want %v", i, loops[i], want[i])
		}
	}

	if loops, err := parseLoops(""); err != nil || loops != nil {
		t.Errorf("empty flag: got %v, %v", loops, err)
	}
	if _, err := parseLoops("1,2"); err == nil {
		t.Error("expected error for invalid flag")
	}
}

func TestRunConfig(t *testing.T) {
	cfg := testConfig(t)
	cfg.Output.Precision = 3

	var out bytes.Buffer
	if err := run([]string{"config"}, cfg, &out); err != nil {
		t.Fatalf("config failed: %v", err)
	}
	if !strings.Contains(out.String(), "precision: 3") {
		t.Errorf("expected YAML settings, got:\n%s", out.String())
	}

	out.Reset()
	if err := run([]string{"config", "-format", "toml"}, cfg, &out); err != nil {
		t.Fatalf("config -format toml failed: %v", err)
	}
	if !strings.Contains(out.String(), "precision = 3") {
		t.Errorf("expected TOML settings, got:\n%s", out.String())
	}

	if err := run([]string{"config", "-format", "ini"}, cfg, &bytes.Buffer{}); err == nil {
		t.Error("expected error for unknown format")
	}
	if err := run([]string{"config", "extra.yaml"}, cfg, &bytes.Buffer{}); !errors.Is(err, errUsage) {
		t.Errorf("expected errUsage for path without -save, got %v", err)
	}
}

func TestRunConfigSave(t *testing.T) {
	home := t.TempDir()
	t.Setenv("XDG_CONFIG_HOME", home)
	t.Setenv("HOME", home)
	t.Setenv("APPDATA", home)

	cfg := testConfig(t)
	cfg.Seams.Component = 4

	explicit := filepath.Join(t.TempDir(), "nested", "meshtool.toml")
	var out bytes.Buffer
	if err := run([]string{"config", "-save", explicit}, cfg, &out); err != nil {
		t.Fatalf("config -save path failed: %v", err)
	}
	data, err := os.ReadFile(explicit)
	if err != nil {
		t.Fatalf("saved config missing: %v", err)
	}
	if !strings.Contains(string(data), "component = 4") {
		t.Errorf("unexpected saved TOML:\n%s", data)
	}

	out.Reset()
	if err := run([]string{"config", "-save"}, cfg, &out); err != nil {
		t.Fatalf("config -save failed: %v", err)
	}
	data, err = os.ReadFile(config.UserConfigPath())
	if err != nil {
		t.Fatalf("user config missing: %v", err)
	}
	if !strings.Contains(string(data), "component: 4") {
		t.Errorf("unexpected saved YAML:\n%s", data)
	}
	if !strings.Contains(out.String(), config.UserConfigPath()) {
		t.Errorf("expected saved path in output, got %q", out.String())
	}
}
