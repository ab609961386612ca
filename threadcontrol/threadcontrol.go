// Package threadcontrol implements the shared coordination singleton
// used by every long-running search command: search-mode transitions,
// iteration counting against a target, a monotonic elapsed-time clock,
// and a single shared PRNG from which per-worker streams are jumped
// (C10).
//
// Grounded on original_source/src/ent/thread_control.c, translated from
// its pthread-mutex fields onto sync.Mutex/atomic and its
// "searching_mode_mutex held while searching" rendezvous onto a channel
// closed at stop, which is the idiomatic Go equivalent of blocking on a
// mutex someone else holds.
package threadcontrol

import (
	"sync"
	"sync/atomic"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/vthorsteinsson/skrafl-engine/prng"
)

// Mode is the search status (§5 "Concurrency & Resource Model").
type Mode int

const (
	ModeStopped Mode = iota
	ModeSearching
)

// ExitStatus records why a search ended.
type ExitStatus int

const (
	ExitNone ExitStatus = iota
	ExitUserInterrupt
	ExitMaxIterations
	ExitMaxTime
	ExitThreshold
	ExitError
)

// IterOutput is handed to a worker claiming the next iteration.
type IterOutput struct {
	Seed      uint64
	IterCount uint64
}

// IterCompletedOutput is returned after a worker finishes one iteration.
type IterCompletedOutput struct {
	IterCountCompleted uint64
	TimeElapsed        time.Duration
	PrintInfo          bool
}

// ThreadControl is the process-wide coordination point for one search.
type ThreadControl struct {
	numberOfThreads  int
	printInfoInterval uint64

	modeMu       sync.Mutex
	currentMode  Mode
	stoppedCh    chan struct{}

	exitStatus atomic.Int32

	iterMu            sync.Mutex
	iterCount         uint64
	maxIterCount      uint64
	iterCompletedMu   sync.Mutex
	iterCountComplete uint64

	printMu sync.Mutex

	startTime time.Time
	elapsed   time.Duration
	running   bool

	seed uint64
	prng *prng.Xoshiro256PP

	Log *logrus.Logger
}

// New returns a stopped ThreadControl seeded deterministically by seed
// (never wall-clock time, so a run can be replayed exactly -- §7).
func New(seed uint64) *ThreadControl {
	stopped := make(chan struct{})
	close(stopped)
	return &ThreadControl{
		numberOfThreads: 1,
		currentMode:     ModeStopped,
		stoppedCh:       stopped,
		seed:            seed,
		prng:            prng.New(seed),
		Log:             logrus.New(),
	}
}

// Threads / SetThreads are not safe to call concurrently with a running
// search, matching the source's "NOT THREAD SAFE" annotation.
func (tc *ThreadControl) Threads() int { return tc.numberOfThreads }

func (tc *ThreadControl) SetThreads(n int) { tc.numberOfThreads = n }

func (tc *ThreadControl) PrintInfoInterval() uint64 { return tc.printInfoInterval }

func (tc *ThreadControl) SetPrintInfoInterval(n uint64) { tc.printInfoInterval = n }

func (tc *ThreadControl) IncrementMaxIterCount(inc uint64) {
	tc.iterMu.Lock()
	tc.maxIterCount += inc
	tc.iterMu.Unlock()
}

// ExitStatus returns the recorded exit reason, or ExitNone while running.
func (tc *ThreadControl) ExitStatus() ExitStatus {
	return ExitStatus(tc.exitStatus.Load())
}

// IsExited reports whether some exit reason has been recorded.
func (tc *ThreadControl) IsExited() bool {
	return tc.ExitStatus() != ExitNone
}

// Exit records status as the reason for ending the search. Only the
// first caller wins; later calls are no-ops (§5 "first exit reason
// sticks").
func (tc *ThreadControl) Exit(status ExitStatus) bool {
	if status == ExitNone {
		return false
	}
	return tc.exitStatus.CompareAndSwap(int32(ExitNone), int32(status))
}

// SetModeSearching transitions Stopped -> Searching, opening a fresh
// rendezvous channel that WaitForStopped blocks on until
// SetModeStopped closes it.
func (tc *ThreadControl) SetModeSearching() bool {
	tc.modeMu.Lock()
	defer tc.modeMu.Unlock()
	if tc.currentMode != ModeStopped {
		return false
	}
	tc.currentMode = ModeSearching
	tc.stoppedCh = make(chan struct{})
	return true
}

// SetModeStopped transitions Searching -> Stopped, releasing every
// goroutine blocked in WaitForStopped.
func (tc *ThreadControl) SetModeStopped() bool {
	tc.modeMu.Lock()
	defer tc.modeMu.Unlock()
	if tc.currentMode != ModeSearching {
		return false
	}
	tc.currentMode = ModeStopped
	close(tc.stoppedCh)
	return true
}

// GetMode returns the current search mode.
func (tc *ThreadControl) GetMode() Mode {
	tc.modeMu.Lock()
	defer tc.modeMu.Unlock()
	return tc.currentMode
}

// WaitForModeStopped blocks until the search transitions back to Stopped.
func (tc *ThreadControl) WaitForModeStopped() {
	tc.modeMu.Lock()
	ch := tc.stoppedCh
	tc.modeMu.Unlock()
	<-ch
}

// Print writes content through the single-writer print discipline, via
// logrus so every engine message shares one structured sink (§7 "all
// process output funnels through one writer").
func (tc *ThreadControl) Print(content string) {
	tc.printMu.Lock()
	defer tc.printMu.Unlock()
	tc.Log.Info(content)
}

// NextIterOutput claims the next iteration, or reports atStopCount=true
// once iterCount has reached maxIterCount.
func (tc *ThreadControl) NextIterOutput() (out IterOutput, atStopCount bool) {
	tc.iterMu.Lock()
	defer tc.iterMu.Unlock()
	if tc.iterCount >= tc.maxIterCount {
		return IterOutput{}, true
	}
	out = IterOutput{Seed: tc.prng.Next(), IterCount: tc.iterCount}
	tc.iterCount++
	return out, false
}

// CompleteIter records one finished iteration and returns whether a
// progress line should be printed this tick.
func (tc *ThreadControl) CompleteIter() IterCompletedOutput {
	tc.iterCompletedMu.Lock()
	defer tc.iterCompletedMu.Unlock()
	tc.iterCountComplete++
	tc.elapsed = tc.elapsedLocked()
	printInfo := tc.printInfoInterval > 0 && tc.iterCountComplete%tc.printInfoInterval == 0
	return IterCompletedOutput{
		IterCountCompleted: tc.iterCountComplete,
		TimeElapsed:        tc.elapsed,
		PrintInfo:          printInfo,
	}
}

func (tc *ThreadControl) elapsedLocked() time.Duration {
	if tc.running {
		return tc.elapsed + time.Since(tc.startTime)
	}
	return tc.elapsed
}

// StartTimer / StopTimer are NOT safe to call concurrently with a
// running search, matching the source.
func (tc *ThreadControl) StartTimer() {
	tc.startTime = time.Now()
	tc.running = true
}

func (tc *ThreadControl) StopTimer() {
	if tc.running {
		tc.elapsed += time.Since(tc.startTime)
		tc.running = false
	}
}

// SecondsElapsed returns the timer's current reading.
func (tc *ThreadControl) SecondsElapsed() float64 {
	if tc.running {
		return (tc.elapsed + time.Since(tc.startTime)).Seconds()
	}
	return tc.elapsed.Seconds()
}

// SetSeed / IncrementSeed reseed the shared PRNG; NOT safe to call
// concurrently with a running search.
func (tc *ThreadControl) SetSeed(seed uint64) {
	tc.seed = seed
	tc.prng.Seed(seed)
}

func (tc *ThreadControl) IncrementSeed() {
	tc.seed++
	tc.prng.Seed(tc.seed)
}

func (tc *ThreadControl) Seed() uint64 { return tc.seed }

// CopyToAndJump copies the shared PRNG's state into dst, then advances
// the shared PRNG's own state by one jump -- the mechanism by which
// every worker thread gets a non-overlapping stream (§4.4 C4).
func (tc *ThreadControl) CopyToAndJump(dst *prng.Xoshiro256PP) {
	*dst = *tc.prng.Copy()
	tc.prng.Jump()
}

// IterCount returns the claimed-iteration count; NOT safe to call
// concurrently with a running search.
func (tc *ThreadControl) IterCount() uint64 { return tc.iterCount }

// Reset clears all iteration/timer/exit state and arms maxIterCount for
// a fresh search; NOT safe to call concurrently with a running search.
func (tc *ThreadControl) Reset(maxIterCount uint64) {
	tc.iterCount = 0
	tc.iterCountComplete = 0
	tc.elapsed = 0
	tc.running = false
	tc.maxIterCount = maxIterCount
	tc.exitStatus.Store(int32(ExitNone))
	tc.StartTimer()
}
