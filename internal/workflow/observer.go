package workflow

// RunObserver receives workflow progress events from the dispatcher.
type RunObserver interface {
	RunStarted(request RunRequest, steps []Step)
	StepStarted(step Step, position int, total int)
	StepFinished(outcome StepOutcome, position int, total int)
	RunFailed(report RunReport, failure error)
	RunSucceeded(report RunReport)
}

type noopRunObserver struct{}

func (noopRunObserver) RunStarted(RunRequest, []Step)      {}
func (noopRunObserver) StepStarted(Step, int, int)         {}
func (noopRunObserver) StepFinished(StepOutcome, int, int) {}
func (noopRunObserver) RunFailed(RunReport, error)         {}
func (noopRunObserver) RunSucceeded(RunReport)             {}

// runObservers fans events out to every registered observer.
type runObservers []RunObserver

func newRunObservers(observers []RunObserver) runObservers {
	registered := make(runObservers, 0, len(observers))
	for _, observer := range observers {
		if observer == nil {
			continue
		}
		registered = append(registered, observer)
	}
	if len(registered) == 0 {
		registered = append(registered, noopRunObserver{})
	}
	return registered
}

func (observers runObservers) RunStarted(request RunRequest, steps []Step) {
	for _, observer := range observers {
		observer.RunStarted(request, steps)
	}
}

func (observers runObservers) StepStarted(step Step, position int, total int) {
	for _, observer := range observers {
		observer.StepStarted(step, position, total)
	}
}

func (observers runObservers) StepFinished(outcome StepOutcome, position int, total int) {
	for _, observer := range observers {
		observer.StepFinished(outcome, position, total)
	}
}

func (observers runObservers) RunFailed(report RunReport, failure error) {
	for _, observer := range observers {
		observer.RunFailed(report, failure)
	}
}

func (observers runObservers) RunSucceeded(report RunReport) {
	for _, observer := range observers {
		observer.RunSucceeded(report)
	}
}
