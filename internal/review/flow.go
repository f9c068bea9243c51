package review

import (
	"context"
	"errors"
	"log/slog"
	"sync"

	"github.com/azsonic/10xdevs-flashcards/internal/api"
	"github.com/azsonic/10xdevs-flashcards/internal/service"
)

var (
	// ErrFlowClosed is returned by Flow methods after Close.
	ErrFlowClosed = errors.New("flow closed")

	// errStaleOutcome rejects the outcome of a call started before the
	// last Reset.
	errStaleOutcome = errors.New("stale outcome")
)

// API is the part of the flashcards API a Flow calls.
type API interface {
	GenerateFlashcards(ctx context.Context, sourceText string) (*service.GenerationResult, error)
	CreateFlashcards(ctx context.Context, req api.CreateFlashcardsRequest) (*service.CreateFlashcardsResult, error)
}

type event struct {
	apply func(*Machine) error
	done  chan error
}

// Flow drives a Machine from a single event loop. Public methods may be
// called from any goroutine; transitions are applied one at a time in
// arrival order.
type Flow struct {
	machine  *Machine
	api      API
	events   chan event
	onChange func(View)
	logger   *slog.Logger

	ctx    context.Context
	cancel context.CancelFunc
	wg     sync.WaitGroup

	// Owned by the event loop. round increments on every Submit and Reset
	// so outcomes of abandoned calls can be told apart.
	round            int
	cancelGeneration context.CancelFunc
}

// FlowOption configures a Flow.
type FlowOption func(*Flow)

// WithOnChange registers fn to receive the view after every applied
// transition. fn runs on the event loop and must not call back into the
// Flow.
func WithOnChange(fn func(View)) FlowOption {
	return func(f *Flow) { f.onChange = fn }
}

// WithFlowLogger sets the logger.
func WithFlowLogger(logger *slog.Logger) FlowOption {
	return func(f *Flow) { f.logger = logger }
}

// NewFlow starts the event loop for machine. Cancelling ctx or calling
// Close stops it and cancels in-flight API calls.
func NewFlow(ctx context.Context, machine *Machine, client API, opts ...FlowOption) *Flow {
	ctx, cancel := context.WithCancel(ctx)
	f := &Flow{
		machine: machine,
		api:     client,
		events:  make(chan event),
		logger:  slog.Default(),
		ctx:     ctx,
		cancel:  cancel,
	}
	for _, opt := range opts {
		opt(f)
	}
	f.logger = f.logger.With(slog.String("component", "review_flow"))

	f.wg.Add(1)
	go f.loop()
	return f
}

func (f *Flow) loop() {
	defer f.wg.Done()
	for {
		select {
		case ev := <-f.events:
			err := ev.apply(f.machine)
			if ev.done != nil {
				ev.done <- err
			}
			if f.onChange != nil {
				f.onChange(f.machine.View())
			}
		case <-f.ctx.Done():
			return
		}
	}
}

// Dispatch applies fn to the machine on the event loop and returns its
// error.
func (f *Flow) Dispatch(ctx context.Context, fn func(*Machine) error) error {
	ev := event{apply: fn, done: make(chan error, 1)}
	select {
	case f.events <- ev:
	case <-ctx.Done():
		return ctx.Err()
	case <-f.ctx.Done():
		return ErrFlowClosed
	}

	select {
	case err := <-ev.done:
		return err
	case <-ctx.Done():
		return ctx.Err()
	}
}

// post delivers the outcome of background work. Outcomes arriving after
// Close are dropped.
func (f *Flow) post(fn func(*Machine) error) {
	select {
	case f.events <- event{apply: fn}:
	case <-f.ctx.Done():
	}
}

// Generate submits text and starts the generation call in the background.
// It returns once the machine is in StateGenerating or the submit failed.
func (f *Flow) Generate(ctx context.Context, text string) error {
	var callCtx context.Context
	var round int
	err := f.Dispatch(ctx, func(m *Machine) error {
		if err := m.Submit(text); err != nil {
			return err
		}
		f.round++
		round = f.round
		callCtx, f.cancelGeneration = context.WithCancel(f.ctx)
		return nil
	})
	if err != nil {
		return err
	}

	f.wg.Add(1)
	go func() {
		defer f.wg.Done()
		res, err := f.api.GenerateFlashcards(callCtx, text)
		f.post(func(m *Machine) error {
			if round != f.round {
				return errStaleOutcome
			}
			f.clearGenerationCancel()
			if err != nil {
				f.logger.Warn("generation failed", slog.String("error", err.Error()))
				return m.GenerationFailed(err)
			}
			return m.GenerationSucceeded(res.GenerationID, res.Candidates)
		})
	}()
	return nil
}

// CancelGeneration cancels an in-flight generation call. The machine
// returns to StateInput when the call reports the cancellation.
func (f *Flow) CancelGeneration(ctx context.Context) error {
	return f.Dispatch(ctx, func(m *Machine) error {
		if m.State() != StateGenerating || f.cancelGeneration == nil {
			return ErrInvalidTransition
		}
		f.cancelGeneration()
		return nil
	})
}

func (f *Flow) clearGenerationCancel() {
	if f.cancelGeneration != nil {
		f.cancelGeneration()
		f.cancelGeneration = nil
	}
}

// Save starts saving the reviewed candidates in the background.
func (f *Flow) Save(ctx context.Context) error {
	var req api.CreateFlashcardsRequest
	var round int
	err := f.Dispatch(ctx, func(m *Machine) error {
		var err error
		req, err = m.BeginSave()
		round = f.round
		return err
	})
	if err != nil {
		return err
	}

	f.wg.Add(1)
	go func() {
		defer f.wg.Done()
		res, err := f.api.CreateFlashcards(f.ctx, req)
		f.post(func(m *Machine) error {
			if round != f.round {
				return errStaleOutcome
			}
			if err != nil {
				f.logger.Warn("save failed", slog.String("error", err.Error()))
				return m.SaveFailed(err)
			}
			return m.SaveSucceeded(res.CreatedCount)
		})
	}()
	return nil
}

// Edit applies Machine.Edit.
func (f *Flow) Edit(ctx context.Context, id, front, back string) error {
	return f.Dispatch(ctx, func(m *Machine) error { return m.Edit(id, front, back) })
}

// Reject applies Machine.Reject.
func (f *Flow) Reject(ctx context.Context, id string) error {
	return f.Dispatch(ctx, func(m *Machine) error { return m.Reject(id) })
}

// Reset abandons the round, cancelling an in-flight generation. The
// outcome of any call already running is discarded.
func (f *Flow) Reset(ctx context.Context) error {
	return f.Dispatch(ctx, func(m *Machine) error {
		f.round++
		f.clearGenerationCancel()
		m.Reset()
		return nil
	})
}

// View returns the machine's current view.
func (f *Flow) View(ctx context.Context) (View, error) {
	var v View
	err := f.Dispatch(ctx, func(m *Machine) error {
		v = m.View()
		return nil
	})
	return v, err
}

// Close stops the loop, cancels background calls and waits for them.
func (f *Flow) Close() {
	f.cancel()
	f.wg.Wait()
}
