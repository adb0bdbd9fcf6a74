package telemetry

import "io"

// noOpCollector is used when no collector is stored in the context.
type noOpCollector struct{}

func (noOpCollector) Start(string) Timer { return noOpTimer{} }

func (noOpCollector) Report(io.Writer, interface{}) {}

type noOpTimer struct{}

func (noOpTimer) End() {}

func (noOpTimer) Count(int, string) {}

func (noOpTimer) Child(string) Timer { return noOpTimer{} }
