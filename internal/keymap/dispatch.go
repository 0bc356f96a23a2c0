package keymap

// Result tells the dispatcher whether a stage consumed an event.
type Result int

const (
	NotHandled Result = iota
	Handled
)

func (r Result) String() string {
	if r == Handled {
		return "handled"
	}
	return "not handled"
}

// Stage is one link of the dispatch chain.
type Stage struct {
	Name   string
	Handle func(Event) Result
}

// Dispatcher offers each event to its stages in order until one handles it.
type Dispatcher struct {
	stages []Stage
}

// NewDispatcher returns a dispatcher over stages, highest priority first.
func NewDispatcher(stages ...Stage) *Dispatcher {
	return &Dispatcher{stages: stages}
}

// Dispatch runs ev through the chain. It returns Handled and the name of
// the stage that handled ev, or NotHandled and "".
func (d *Dispatcher) Dispatch(ev Event) (Result, string) {
	for _, s := range d.stages {
		if s.Handle(ev) == Handled {
			return Handled, s.Name
		}
	}
	return NotHandled, ""
}

// Stages returns the stage names in priority order.
func (d *Dispatcher) Stages() []string {
	names := make([]string, len(d.stages))
	for i, s := range d.stages {
		names[i] = s.Name
	}
	return names
}
