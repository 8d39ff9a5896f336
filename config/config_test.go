package config

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"

	"orbitfield/sim"
)

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("write %s: %v", path, err)
	}
}

func TestLoad_Defaults(t *testing.T) {
	chdir(t, t.TempDir())

	app, err := Load("")
	if err != nil {
		t.Fatalf("Load() returned unexpected error: %v", err)
	}
	if diff := cmp.Diff(Default(), app); diff != "" {
		t.Errorf("defaults mismatch (-want +got):\n%s", diff)
	}
}

func TestLoad_File(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "orbit.toml")
	writeFile(t, path, `
verbose = true

[sim]
required_hits = 3
satellite_death_behavior = "reassign"
gm = 400.0
`)

	app, err := Load(path)
	if err != nil {
		t.Fatalf("Load() returned unexpected error: %v", err)
	}

	want := Default()
	want.Verbose = true
	want.Sim.RequiredHits = 3
	want.Sim.SatelliteDeathBehavior = sim.DeathReassign
	want.Sim.GM = 400
	if diff := cmp.Diff(want, app); diff != "" {
		t.Errorf("config mismatch (-want +got):\n%s", diff)
	}
}

func TestLoad_DefaultFileInWorkingDir(t *testing.T) {
	dir := t.TempDir()
	chdir(t, dir)
	writeFile(t, filepath.Join(dir, DefaultFile), "[sim]\ntail_length = 4\n")

	app, err := Load("")
	if err != nil {
		t.Fatalf("Load() returned unexpected error: %v", err)
	}
	if app.Sim.TailLength != 4 {
		t.Errorf("TailLength = %d, want 4", app.Sim.TailLength)
	}
}

func TestLoad_EnvOverrides(t *testing.T) {
	tests := []struct {
		name   string
		envKey string
		envVal string
		field  func(App) any
		want   any
	}{
		{
			name:   "required_hits",
			envKey: "ORBITSIM_SIM_REQUIRED_HITS",
			envVal: "9",
			field:  func(a App) any { return a.Sim.RequiredHits },
			want:   9,
		},
		{
			name:   "death behavior",
			envKey: "ORBITSIM_SIM_SATELLITE_DEATH_BEHAVIOR",
			envVal: "reassign",
			field:  func(a App) any { return a.Sim.SatelliteDeathBehavior },
			want:   sim.DeathReassign,
		},
		{
			name:   "seed",
			envKey: "ORBITSIM_SIM_SEED",
			envVal: "1234",
			field:  func(a App) any { return a.Sim.Seed },
			want:   int64(1234),
		},
		{
			name:   "audio",
			envKey: "ORBITSIM_AUDIO",
			envVal: "false",
			field:  func(a App) any { return a.Audio },
			want:   false,
		},
		{
			name:   "softening",
			envKey: "ORBITSIM_SIM_GRAVITY_SOFTENING",
			envVal: "12.5",
			field:  func(a App) any { return a.Sim.GravitySoftening },
			want:   12.5,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			chdir(t, t.TempDir())
			t.Setenv(tt.envKey, tt.envVal)

			app, err := Load("")
			if err != nil {
				t.Fatalf("Load() returned unexpected error: %v", err)
			}
			if got := tt.field(app); got != tt.want {
				t.Errorf("%s: got %v (%T), want %v (%T)", tt.name, got, got, tt.want, tt.want)
			}
		})
	}
}

func TestLoad_Invalid(t *testing.T) {
	tests := []struct {
		name    string
		content string
	}{
		{"zero hits", "[sim]\nrequired_hits = 0\n"},
		{"unknown behavior", "[sim]\nsatellite_death_behavior = \"vanish\"\n"},
		{"zero softening", "[sim]\ngravity_softening = 0.0\n"},
		{"screen", "screen_width = 0\n"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), "bad.toml")
			writeFile(t, path, tt.content)
			if _, err := Load(path); !errors.Is(err, sim.ErrInvalidConfig) {
				t.Errorf("Load() = %v, want ErrInvalidConfig", err)
			}
		})
	}
}

func TestLoad_MissingExplicitFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.toml"))
	if err == nil {
		t.Fatal("Load() succeeded for a missing file")
	}
	if errors.Is(err, sim.ErrInvalidConfig) {
		t.Errorf("missing file reported as invalid config: %v", err)
	}
}

func TestEncodeIsLoadable(t *testing.T) {
	app := Default()
	app.Watch = true
	app.Sim.Seed = 77
	app.Sim.SatelliteDeathBehavior = sim.DeathReassign

	var buf bytes.Buffer
	if err := Encode(&buf, app); err != nil {
		t.Fatalf("Encode() returned unexpected error: %v", err)
	}
	out := buf.String()
	for _, key := range []string{"[sim]", "required_hits = 5", "satellite_death_behavior", "reassign"} {
		if !strings.Contains(out, key) {
			t.Errorf("encoded config missing %q:\n%s", key, out)
		}
	}

	path := filepath.Join(t.TempDir(), "enc.toml")
	writeFile(t, path, out)
	got, err := Load(path)
	if err != nil {
		t.Fatalf("Load() returned unexpected error: %v", err)
	}
	if diff := cmp.Diff(app, got); diff != "" {
		t.Errorf("reloaded config mismatch (-want +got):\n%s", diff)
	}
}

func TestWatcher_DeliversReload(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "live.toml")
	writeFile(t, path, "[sim]\nrequired_hits = 5\n")

	w, err := NewWatcher(path)
	if err != nil {
		t.Fatalf("NewWatcher failed: %v", err)
	}
	if err := w.Start(); err != nil {
		t.Fatalf("Start failed: %v", err)
	}
	defer w.Stop()

	writeFile(t, path, "[sim]\nrequired_hits = 8\n")

	select {
	case app := <-w.Configs:
		if app.Sim.RequiredHits != 8 {
			t.Errorf("RequiredHits = %d, want 8", app.Sim.RequiredHits)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("timed out waiting for reload")
	}
}

func TestWatcher_SkipsInvalidAndOtherFiles(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "live.toml")
	writeFile(t, path, "[sim]\nrequired_hits = 5\n")

	w, err := NewWatcher(path)
	if err != nil {
		t.Fatalf("NewWatcher failed: %v", err)
	}
	if err := w.Start(); err != nil {
		t.Fatalf("Start failed: %v", err)
	}
	defer w.Stop()

	writeFile(t, filepath.Join(dir, "other.toml"), "[sim]\nrequired_hits = 2\n")
	writeFile(t, path, "[sim]\nrequired_hits = 0\n")

	select {
	case app := <-w.Configs:
		t.Errorf("unexpected reload: %+v", app)
	case <-time.After(400 * time.Millisecond):
	}
}

func TestWatcher_StopWithoutRunningLoop(t *testing.T) {
	tests := []struct {
		name  string
		path  string
		start bool
	}{
		{"never started", filepath.Join(t.TempDir(), "live.toml"), false},
		{"start failed", filepath.Join(t.TempDir(), "missing", "live.toml"), true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w, err := NewWatcher(tt.path)
			if err != nil {
				t.Fatalf("NewWatcher failed: %v", err)
			}
			if tt.start {
				if err := w.Start(); err == nil {
					t.Fatal("Start succeeded on a missing directory")
				}
			}

			stopped := make(chan struct{})
			go func() {
				w.Stop()
				w.Stop()
				close(stopped)
			}()
			select {
			case <-stopped:
			case <-time.After(time.Second):
				t.Fatal("Stop blocked")
			}
			if _, ok := <-w.Configs; ok {
				t.Error("Configs still open after Stop")
			}
		})
	}
}

// chdir changes the working directory for the duration of the test and
// restores it on cleanup (equivalent of testing.T.Chdir, which needs Go 1.24).
func chdir(t *testing.T, dir string) {
	t.Helper()
	old, err := os.Getwd()
	if err != nil {
		t.Fatalf("getwd: %v", err)
	}
	if err := os.Chdir(dir); err != nil {
		t.Fatalf("chdir %s: %v", dir, err)
	}
	t.Cleanup(func() {
		if err := os.Chdir(old); err != nil {
			t.Fatalf("restore working directory %s: %v", old, err)
		}
	})
}
