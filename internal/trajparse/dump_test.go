package trajparse

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

const twoFrameDump = `ITEM: TIMESTEP
0
ITEM: NUMBER OF ATOMS
2
ITEM: BOX BOUNDS pp pp pp
0.0 10.0
0.0 10.0
0.0 10.0
ITEM: ATOMS id mol type q xs ys zs
1 1 1 0.0 0.1 0.2 0.3
2 1 2 -0.5 0.4 0.5 0.6
ITEM: TIMESTEP
5000
ITEM: NUMBER OF ATOMS
2
ITEM: BOX BOUNDS pp pp pp
0.0 9.5
0.0 9.5
0.0 9.5
ITEM: ATOMS id mol type q xs ys zs
1 1 1 0.0 0.15 0.25 0.35
2 1 2 -0.5 0.45 0.55 0.65
`

func writeTemp(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestLastFrame(t *testing.T) {
	path := writeTemp(t, "traj.lammpstrj", twoFrameDump)
	frame, err := LastFrame(path)
	if err != nil {
		t.Fatalf("LastFrame: %v", err)
	}
	if frame.Header.Timestep != 5000 {
		t.Errorf("timestep = %d, want 5000", frame.Header.Timestep)
	}
	if frame.Header.AtomCount != 2 {
		t.Errorf("atom count = %d, want 2", frame.Header.AtomCount)
	}
	if len(frame.AtomRows) != 2 {
		t.Errorf("atom rows = %d, want 2", len(frame.AtomRows))
	}
	if len(frame.Header.Attributes) != 7 || frame.Header.Attributes[0] != "id" {
		t.Errorf("attributes = %v", frame.Header.Attributes)
	}
	if len(frame.Header.BoxDims) != 6 || frame.Header.BoxDims[1] != 9.5 {
		t.Errorf("box dims = %v", frame.Header.BoxDims)
	}
}

func TestLastFrameEmptyFile(t *testing.T) {
	path := writeTemp(t, "empty.lammpstrj", "")
	if _, err := LastFrame(path); err == nil {
		t.Fatal("expected error for empty file")
	}
}

func TestWriteRestartResetsTimestep(t *testing.T) {
	src := writeTemp(t, "traj.lammpstrj", twoFrameDump)
	frame, err := LastFrame(src)
	if err != nil {
		t.Fatal(err)
	}
	dst := filepath.Join(t.TempDir(), "last.lammpstrj")
	if err := frame.WriteRestart(dst); err != nil {
		t.Fatalf("WriteRestart: %v", err)
	}
	reread, err := LastFrame(dst)
	if err != nil {
		t.Fatalf("reread: %v", err)
	}
	if reread.Header.Timestep != 0 {
		t.Errorf("restart timestep = %d, want 0", reread.Header.Timestep)
	}
	if len(reread.AtomRows) != 2 {
		t.Errorf("restart atom rows = %d, want 2", len(reread.AtomRows))
	}
	data, _ := os.ReadFile(dst)
	if !strings.Contains(string(data), "0.45 0.55 0.65") {
		t.Error("last-frame coordinates not carried into the restart")
	}
}

func TestColumns(t *testing.T) {
	path := writeTemp(t, "traj.lammpstrj", twoFrameDump)
	frame, err := LastFrame(path)
	if err != nil {
		t.Fatal(err)
	}
	cols, err := frame.Columns()
	if err != nil {
		t.Fatalf("Columns: %v", err)
	}
	if got := cols["q"]; len(got) != 2 || got[1] != -0.5 {
		t.Errorf("q column = %v", got)
	}
}

const sampleFile = `# Time-averaged data
# TimeStep v_time c_thermo_temp
1000 1 298.3
2000 2 297.9
`

func TestReadSamples(t *testing.T) {
	path := writeTemp(t, "samples.out", sampleFile)
	s, err := ReadSamples(path)
	if err != nil {
		t.Fatalf("ReadSamples: %v", err)
	}
	if len(s.Headers) != 3 || s.Headers[2] != "c_thermo_temp" {
		t.Errorf("headers = %v", s.Headers)
	}
	if got := s.Columns["c_thermo_temp"]; len(got) != 2 || got[0] != 298.3 {
		t.Errorf("temperature column = %v", got)
	}
}

func TestReadSamplesRowWidthMismatch(t *testing.T) {
	path := writeTemp(t, "bad.out", "# d\n# a b\n1 2 3\n")
	if _, err := ReadSamples(path); err == nil {
		t.Fatal("expected error for row width mismatch")
	}
}
