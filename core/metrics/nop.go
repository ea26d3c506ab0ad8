package metrics

// nop implements every metric interface by discarding observations.
type nop struct{}

func (nop) Inc()             {}
func (nop) Add(float64)      {}
func (nop) Observe(float64)  {}
func (nop) ObserveDuration() {}

// NopCounter returns a Counter that discards all increments.
func NopCounter() Counter { return nop{} }

// NopHistogram returns a Histogram that discards all observations.
func NopHistogram() Histogram { return nop{} }

// NopTimer returns a Timer whose ObserveDuration records nothing.
func NopTimer() Timer { return nop{} }
