package game

import (
	"errors"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"runtime"
	"runtime/pprof"
	"runtime/trace"
	"strings"
	"sync"
	"time"
)

var (
	// ErrCaptureCooldown is returned when a capture was taken too recently.
	ErrCaptureCooldown = errors.New("capture on cooldown")
	// ErrCaptureRunning is returned while another capture is in progress.
	ErrCaptureRunning = errors.New("already profiling")
)

// Profiler captures CPU profiles and execution traces when the frame rate drops
type Profiler struct {
	mu              sync.Mutex
	isProfiling     bool
	lastCaptureTime time.Time
	captureCooldown time.Duration
	profilesDir     string
	captureDuration time.Duration
}

// NewProfiler creates a profiler writing into dir. The directory is created
// on the first capture.
func NewProfiler(dir string) *Profiler {
	return &Profiler{
		captureCooldown: 10 * time.Second,
		profilesDir:     dir,
		captureDuration: 5 * time.Second,
	}
}

// CaptureProfile starts a background capture of CPU profile and trace.
func (p *Profiler) CaptureProfile(reason string) error {
	baseName, err := p.begin(reason)
	if err != nil {
		return err
	}
	go func() {
		if err := p.capture(baseName, p.captureDuration); err != nil {
			log.Printf("profile capture failed: %v", err)
		}
	}()
	return nil
}

// CaptureProfileSync captures for duration and blocks until both files are written.
func (p *Profiler) CaptureProfileSync(reason string, duration time.Duration) (string, error) {
	baseName, err := p.begin(reason)
	if err != nil {
		return "", err
	}
	return filepath.Join(p.profilesDir, baseName), p.capture(baseName, duration)
}

// IsProfiling reports whether a capture is running.
func (p *Profiler) IsProfiling() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.isProfiling
}

func (p *Profiler) begin(reason string) (string, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.isProfiling {
		return "", ErrCaptureRunning
	}
	if since := time.Since(p.lastCaptureTime); since < p.captureCooldown {
		return "", fmt.Errorf("%w (last capture was %v ago)", ErrCaptureCooldown, since.Round(time.Millisecond))
	}
	if err := os.MkdirAll(p.profilesDir, 0o755); err != nil {
		return "", fmt.Errorf("create profiles dir: %w", err)
	}

	p.isProfiling = true
	p.lastCaptureTime = time.Now()

	timestamp := time.Now().Format("20060102-150405")
	return fmt.Sprintf("fps-drop-%s-%s", timestamp, sanitizeReason(reason)), nil
}

// capture records CPU profile and trace in parallel.
func (p *Profiler) capture(baseName string, duration time.Duration) error {
	defer func() {
		p.mu.Lock()
		p.isProfiling = false
		p.mu.Unlock()
	}()

	var wg sync.WaitGroup
	var cpuErr, traceErr error
	wg.Add(2)
	go func() {
		defer wg.Done()
		cpuErr = p.captureCPUProfile(baseName, duration)
	}()
	go func() {
		defer wg.Done()
		traceErr = p.captureTrace(baseName, duration)
	}()
	wg.Wait()

	if err := errors.Join(cpuErr, traceErr); err != nil {
		return err
	}
	p.analyzeProfile(baseName)
	return nil
}

func (p *Profiler) captureCPUProfile(baseName string, duration time.Duration) error {
	profilePath := filepath.Join(p.profilesDir, baseName+".cpu.prof")

	file, err := os.Create(profilePath)
	if err != nil {
		return fmt.Errorf("failed to create profile file: %w", err)
	}
	defer file.Close()

	if err := pprof.StartCPUProfile(file); err != nil {
		return fmt.Errorf("failed to start CPU profile: %w", err)
	}
	time.Sleep(duration)
	pprof.StopCPUProfile()

	log.Printf("CPU profile saved to: %s", profilePath)
	return nil
}

func (p *Profiler) captureTrace(baseName string, duration time.Duration) error {
	tracePath := filepath.Join(p.profilesDir, baseName+".trace")

	file, err := os.Create(tracePath)
	if err != nil {
		return fmt.Errorf("failed to create trace file: %w", err)
	}
	defer file.Close()

	if err := trace.Start(file); err != nil {
		return fmt.Errorf("failed to start trace: %w", err)
	}
	time.Sleep(duration)
	trace.Stop()

	log.Printf("Trace saved to: %s", tracePath)
	return nil
}

// analyzeProfile logs a short summary and how to open the profile
func (p *Profiler) analyzeProfile(baseName string) {
	profilePath := filepath.Join(p.profilesDir, baseName+".cpu.prof")

	info, err := os.Stat(profilePath)
	if err != nil {
		log.Printf("could not analyze profile: %v", err)
		return
	}

	var m runtime.MemStats
	runtime.ReadMemStats(&m)
	log.Printf("profile %s (%.2f KB); view with: go tool pprof -http=:8080 %s", baseName, float64(info.Size())/1024, profilePath)
	log.Printf("memory at capture: Alloc=%d KB TotalAlloc=%d KB Sys=%d KB NumGC=%d HeapObjects=%d",
		m.Alloc/1024, m.TotalAlloc/1024, m.Sys/1024, m.NumGC, m.HeapObjects)
}

func sanitizeReason(reason string) string {
	return strings.Map(func(r rune) rune {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9', r == '-', r == '_':
			return r
		}
		return '_'
	}, reason)
}
