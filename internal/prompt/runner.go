package prompt

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/mark3labs/casewiz/internal/autosave"
	"github.com/mark3labs/casewiz/internal/caseform"
	"github.com/mark3labs/casewiz/internal/logger"
	"github.com/mark3labs/casewiz/internal/submit"
)

var log = logger.Named("prompt")

// Review menu entries, in display order.
const (
	choiceSubmit      = "Submit case"
	choiceEditDetails = "Edit case details"
	choiceEditContact = "Edit contact info"
	choiceCancel      = "Save draft and quit"
)

var reviewChoices = []string{choiceSubmit, choiceEditDetails, choiceEditContact, choiceCancel}

// Options configures a line-mode session.
type Options struct {
	Machine          caseform.Machine
	State            *caseform.State // Resumed draft, nil for a blank form
	Store            autosave.Store  // nil disables autosave
	DraftKey         string
	AutosaveInterval time.Duration
	Submitter        submit.Submitter
}

// Runner walks the form one question at a time.
type Runner struct {
	driver    Driver
	submitter submit.Submitter
	machine   caseform.Machine
	saver     *autosave.Saver

	// mu guards ctrl; the saver reads state from its own goroutine.
	mu   sync.Mutex
	ctrl *caseform.Controller

	reference string
}

// New creates a runner.
func New(driver Driver, opts Options) *Runner {
	st := caseform.New()
	if opts.State != nil {
		st = *opts.State
	}
	r := &Runner{
		driver:    driver,
		submitter: opts.Submitter,
		machine:   opts.Machine,
		ctrl:      caseform.NewControllerFrom(opts.Machine, st),
	}
	if opts.Store != nil {
		key := opts.DraftKey
		if key == "" {
			key = autosave.Key("")
		}
		r.saver = autosave.NewSaver(opts.Store, key, opts.AutosaveInterval, r.snapshot)
	}
	return r
}

// State returns the current form state.
func (r *Runner) State() caseform.State {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.ctrl.State()
}

// snapshot is the saver's source.
func (r *Runner) snapshot(reason string) (caseform.Snapshot, bool) {
	st := r.State()
	if st.Status != caseform.StatusEditing {
		return caseform.Snapshot{}, false
	}
	return st.Snapshot(r.now(), reason), true
}

func (r *Runner) now() time.Time {
	if r.machine.Now != nil {
		return r.machine.Now()
	}
	return time.Now()
}

// do runs fn against the controller under the lock and drains its effects.
func (r *Runner) do(fn func(c *caseform.Controller) error) ([]caseform.Effect, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	err := fn(r.ctrl)
	return r.ctrl.Drain(), err
}

// Run asks every question until the case is submitted. An aborted session
// saves the draft and returns ErrAborted.
func (r *Runner) Run(ctx context.Context) (caseform.State, error) {
	if r.saver != nil {
		saveCtx, cancel := context.WithCancel(ctx)
		done := make(chan struct{})
		go func() {
			defer close(done)
			r.saver.Run(saveCtx)
		}()
		defer func() {
			cancel()
			<-done
		}()
	}

	for {
		st := r.State()
		if st.Status == caseform.StatusSubmitted {
			return st, nil
		}

		var err error
		switch st.Step {
		case caseform.StepContact:
			err = r.askContact(ctx)
		case caseform.StepDetails:
			err = r.askDetails(ctx)
		case caseform.StepReview:
			err = r.review(ctx)
		}

		if errors.Is(err, ErrAborted) {
			r.saveDraft(ctx)
			return r.State(), ErrAborted
		}
		if err != nil {
			return r.State(), err
		}
	}
}

func (r *Runner) saveDraft(ctx context.Context) {
	if r.saver == nil {
		return
	}
	if err := r.saver.SaveNow(context.WithoutCancel(ctx), caseform.SaveReasonManual); err != nil {
		log.Warn("Failed to save draft on abort: %v", err)
	}
}

func (r *Runner) askContact(ctx context.Context) error {
	if err := r.info(ctx, heading(caseform.StepContact)); err != nil {
		return err
	}
	for _, f := range []caseform.FieldID{caseform.FieldName, caseform.FieldEmail, caseform.FieldPhone, caseform.FieldCompany} {
		if err := r.askText(ctx, f); err != nil {
			return err
		}
	}
	return r.advance(ctx)
}

func (r *Runner) askDetails(ctx context.Context) error {
	if err := r.info(ctx, heading(caseform.StepDetails)); err != nil {
		return err
	}
	for _, f := range []caseform.FieldID{caseform.FieldRecordType, caseform.FieldRequestType, caseform.FieldReason} {
		if err := r.askSelect(ctx, f); err != nil {
			return err
		}
	}
	if err := r.askPriority(ctx); err != nil {
		return err
	}
	if err := r.askText(ctx, caseform.FieldSubject); err != nil {
		return err
	}
	if err := r.askDescription(ctx); err != nil {
		return err
	}
	return r.advance(ctx)
}

func (r *Runner) askText(ctx context.Context, f caseform.FieldID) error {
	v, err := r.driver.Input(ctx, InputConfig{
		Message:   label(f),
		Default:   r.State().Value(f),
		Help:      caseform.HelpFor(f),
		Validator: fieldValidator(f),
	})
	if err != nil {
		return err
	}
	_, err = r.do(func(c *caseform.Controller) error {
		c.SetField(f, strings.TrimSpace(v))
		return nil
	})
	return err
}

func (r *Runner) askDescription(ctx context.Context) error {
	f := caseform.FieldDescription
	v, err := r.driver.TextArea(ctx, TextAreaConfig{
		Message:   label(f),
		Default:   r.State().Value(f),
		Help:      caseform.HelpFor(f),
		Validator: fieldValidator(f),
	})
	if err != nil {
		return err
	}
	_, err = r.do(func(c *caseform.Controller) error {
		c.SetField(f, v)
		return nil
	})
	return err
}

func (r *Runner) askSelect(ctx context.Context, f caseform.FieldID) error {
	opts := caseform.OptionsFor(f)
	labels := make([]string, len(opts))
	def := -1
	current := r.State().Value(f)
	for i, o := range opts {
		labels[i] = o.Label
		if o.Value == current {
			def = i
		}
	}

	idx, err := r.driver.Select(ctx, SelectConfig{
		Message:      label(f),
		Options:      labels,
		DefaultIndex: def,
		Help:         caseform.HelpFor(f),
	})
	if err != nil {
		return err
	}
	if idx < 0 || idx >= len(opts) {
		return fmt.Errorf("no option selected for %s", f)
	}
	_, err = r.do(func(c *caseform.Controller) error {
		c.SetField(f, opts[idx].Value)
		return nil
	})
	return err
}

func (r *Runner) askPriority(ctx context.Context) error {
	labels := make([]string, len(caseform.Priorities))
	def := -1
	current := r.State().Priority
	for i, p := range caseform.Priorities {
		labels[i] = p.Label()
		if p == current {
			def = i
		}
	}

	idx, err := r.driver.Select(ctx, SelectConfig{
		Message:      label(caseform.FieldPriority),
		Options:      labels,
		DefaultIndex: def,
		Help:         caseform.HelpFor(caseform.FieldPriority),
	})
	if err != nil {
		return err
	}
	if idx < 0 || idx >= len(caseform.Priorities) {
		return fmt.Errorf("no priority selected")
	}
	_, err = r.do(func(c *caseform.Controller) error {
		return c.SelectPriority(caseform.Priorities[idx])
	})
	return err
}

// advance moves on, or prints why the step is incomplete so the loop asks
// it again.
func (r *Runner) advance(ctx context.Context) error {
	_, err := r.do(func(c *caseform.Controller) error {
		return c.Advance()
	})
	var verr *caseform.ValidationError
	if errors.As(err, &verr) {
		return r.info(ctx, "✗ "+verr.Message)
	}
	return err
}

func (r *Runner) review(ctx context.Context) error {
	st := r.State()
	review := caseform.ProjectReview(st)
	if st.Review != nil {
		review = *st.Review
	}
	if err := r.info(ctx, heading(caseform.StepReview)+"\n"+renderReview(review)); err != nil {
		return err
	}

	idx, err := r.driver.Select(ctx, SelectConfig{
		Message:      "What next?",
		Options:      reviewChoices,
		DefaultIndex: 0,
	})
	if err != nil {
		return err
	}

	switch indexChoice(idx) {
	case choiceSubmit:
		ok, err := r.driver.Confirm(ctx, ConfirmConfig{
			Message: "Submit this case?",
			Default: true,
		})
		if err != nil || !ok {
			return err
		}
		return r.submit(ctx)
	case choiceEditDetails:
		_, err = r.do(func(c *caseform.Controller) error {
			c.Retreat()
			return nil
		})
		return err
	case choiceEditContact:
		_, err = r.do(func(c *caseform.Controller) error {
			c.Retreat()
			c.Retreat()
			return nil
		})
		return err
	default:
		return ErrAborted
	}
}

func indexChoice(idx int) string {
	if idx < 0 || idx >= len(reviewChoices) {
		return ""
	}
	return reviewChoices[idx]
}

func (r *Runner) submit(ctx context.Context) error {
	effects, err := r.do(func(c *caseform.Controller) error {
		return c.Submit()
	})
	var guard *caseform.SubmissionGuardError
	if errors.As(err, &guard) {
		if err := r.info(ctx, "✗ "+guard.Error()); err != nil {
			return err
		}
		// Priority lives on the details step
		_, err = r.do(func(c *caseform.Controller) error {
			c.Retreat()
			return nil
		})
		return err
	}
	var verr *caseform.ValidationError
	if errors.As(err, &verr) {
		// The machine moved back to the failing step
		return r.info(ctx, "✗ "+verr.Message)
	}
	if err != nil {
		return err
	}

	var handoff *caseform.HandOff
	for _, e := range effects {
		if h, ok := e.(caseform.HandOff); ok {
			handoff = &h
		}
	}
	if handoff == nil {
		return nil
	}

	if r.reference == "" {
		r.reference = submit.NewReference()
	}
	cs := submit.NewCase(r.reference, handoff.Snapshot, handoff.Review, handoff.Snapshot.SavedAt)

	var receipt submit.Receipt
	if r.submitter == nil {
		err = errors.New("no submission channel configured")
	} else {
		receipt, err = r.submitter.Submit(ctx, cs)
	}
	if err != nil {
		log.Error("Submission of %s failed: %v", r.reference, err)
		if _, derr := r.do(func(c *caseform.Controller) error {
			c.Dispatch(caseform.SubmissionFailed{Err: err})
			return nil
		}); derr != nil {
			return derr
		}
		return r.info(ctx, fmt.Sprintf("✗ Submission failed: %v", err))
	}

	if _, err := r.do(func(c *caseform.Controller) error {
		c.Dispatch(caseform.SubmissionSucceeded{Reference: receipt.Reference})
		return nil
	}); err != nil {
		return err
	}
	log.Info("Case %s submitted (stream %s seq %d)", receipt.Reference, receipt.Stream, receipt.Sequence)
	return r.info(ctx, "✓ Case submitted. Reference: "+receipt.Reference)
}

func (r *Runner) info(ctx context.Context, msg string) error {
	return r.driver.Info(ctx, msg)
}

func heading(s caseform.Step) string {
	return fmt.Sprintf("\n== Step %d of %d: %s ==", s, caseform.TotalSteps, s.Title())
}

func label(f caseform.FieldID) string {
	for _, req := range caseform.RequiredFields(caseform.StepOf(f)) {
		if req == f {
			return f.Label() + " *"
		}
	}
	return f.Label()
}

func fieldValidator(f caseform.FieldID) func(string) error {
	return func(v string) error {
		if msg := caseform.CheckField(f, strings.TrimSpace(v)); msg != "" {
			return errors.New(msg)
		}
		return nil
	}
}

func renderReview(r caseform.ReviewSnapshot) string {
	var b strings.Builder
	for _, row := range r.Rows() {
		value := row.Value
		if value == "" {
			value = "-"
		}
		fmt.Fprintf(&b, "  %-14s %s\n", row.Label+":", value)
	}
	return strings.TrimSuffix(b.String(), "\n")
}
