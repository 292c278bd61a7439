package world

import "fmt"

// Instrumentation receives diagnostic observations from a step: how
// many candidate pairs the broadphase found, how many contacts are
// active, and how many islands the graph partitioned this step into
// (§6.2). The module itself never imports a logging library;
// Instrumentation is the one seam a caller can wire to slog, zap, or a test spy.
type Instrumentation interface {
	StepStarted(dt float64)
	BroadphasePairs(count int)
	ActiveContacts(count int)
	Islands(count int)
	StepFinished(dt float64)
}

// NoopInstrumentation discards every observation; it is the default
// when a World is constructed without one.
type NoopInstrumentation struct{}

func (NoopInstrumentation) StepStarted(dt float64)     {}
func (NoopInstrumentation) BroadphasePairs(count int)  {}
func (NoopInstrumentation) ActiveContacts(count int)   {}
func (NoopInstrumentation) Islands(count int)          {}
func (NoopInstrumentation) StepFinished(dt float64)    {}

// PrintInstrumentation writes each observation as a line of text;
// mainly useful for example/stack and other small demos, mirroring the
// teacher's own fmt.Printf-based debug helper.
type PrintInstrumentation struct{}

func (PrintInstrumentation) StepStarted(dt float64) {
	fmt.Printf("step start dt=%.4f\n", dt)
}
func (PrintInstrumentation) BroadphasePairs(count int) {
	fmt.Printf("broadphase pairs=%d\n", count)
}
func (PrintInstrumentation) ActiveContacts(count int) {
	fmt.Printf("active contacts=%d\n", count)
}
func (PrintInstrumentation) Islands(count int) {
	fmt.Printf("islands=%d\n", count)
}
func (PrintInstrumentation) StepFinished(dt float64) {
	fmt.Printf("step finished dt=%.4f\n", dt)
}
