package pipeline

import (
	"context"
	"log/slog"

	"github.com/nao1215/hitksoup/internal/browser"
	"github.com/nao1215/hitksoup/internal/model"
)

// DefaultMissingMarker is the text the portal prints when no student
// matches the submitted roll.
const DefaultMissingMarker = "No such student exists"

// Pipeline runs the fetch protocol over one session.
// A Pipeline is not safe for concurrent use; the session it drives holds a
// single page.
type Pipeline struct {
	session browser.Session

	// logger is used for structured logging during execution.
	logger *slog.Logger

	// marker is used when the profile does not set its own.
	marker string

	// observer, when set, sees every state transition.
	observer func(from, to State)
}

// Option is a function that configures a Pipeline.
type Option func(*Pipeline)

// WithLogger sets a custom logger for the pipeline.
func WithLogger(logger *slog.Logger) Option {
	return func(p *Pipeline) {
		p.logger = logger
	}
}

// WithMissingMarker sets the missing-student text for profiles that do not
// define one. An empty marker keeps the default.
func WithMissingMarker(marker string) Option {
	return func(p *Pipeline) {
		if marker != "" {
			p.marker = marker
		}
	}
}

// WithObserver registers fn to be called on every state transition.
func WithObserver(fn func(from, to State)) Option {
	return func(p *Pipeline) {
		p.observer = fn
	}
}

// New creates a Pipeline that drives session.
func New(session browser.Session, opts ...Option) *Pipeline {
	p := &Pipeline{
		session: session,
		marker:  DefaultMissingMarker,
	}
	for _, opt := range opts {
		opt(p)
	}
	if p.logger == nil {
		p.logger = slog.Default()
	}
	return p
}

// Run fetches the result of roll using profile.
//
// A missing student is not an error: Run returns a pending result with
// Success false. Every error returned is a *Failure.
func (p *Pipeline) Run(ctx context.Context, profile model.Profile, roll string) (model.StudentResult, error) {
	r := &run{p: p, roll: roll, state: StateStart}

	if err := p.session.Open(ctx, profile.SourceURL); err != nil {
		return model.StudentResult{}, r.fail(err)
	}
	r.advance(StateNavigated)

	if err := p.session.FillText(ctx, profile.RollField, roll); err != nil {
		return model.StudentResult{}, r.fail(err)
	}
	if err := p.session.SelectOption(ctx, profile.SemesterField, profile.Semester.Label()); err != nil {
		return model.StudentResult{}, r.fail(err)
	}
	r.advance(StateFormFilled)

	if err := p.session.Click(ctx, profile.SubmitField); err != nil {
		return model.StudentResult{}, r.fail(err)
	}
	r.advance(StateSubmitted)

	marker := profile.MissingMarker
	if marker == "" {
		marker = p.marker
	}
	missing, err := p.session.PageContains(ctx, marker)
	if err != nil {
		return model.StudentResult{}, r.fail(err)
	}

	result := model.NewPendingResult(roll)
	if missing {
		r.advance(StateMissingStudent)
		p.logger.Info("no result for roll", "roll", roll, "semester", profile.Semester.Number)
		r.advance(StateDone)
		return result, nil
	}

	if err := r.extract(ctx, profile, &result); err != nil {
		return model.StudentResult{}, r.fail(err)
	}
	r.advance(StateFieldsExtracted)

	result.Success = true
	r.advance(StateDone)

	p.logger.Debug("result fetched",
		"roll", result.Roll,
		"name", result.Name,
		"registration", result.RegistrationNumber,
	)
	return result, nil
}

// run tracks the state of one Pipeline.Run call.
type run struct {
	p     *Pipeline
	roll  string
	state State
}

func (r *run) advance(to State) {
	if r.p.observer != nil {
		r.p.observer(r.state, to)
	}
	r.p.logger.Debug("state transition", "roll", r.roll, "from", r.state.String(), "to", to.String())
	r.state = to
}

// fail wraps err in a Failure recording the state it happened in, then
// moves to StateFatal.
func (r *run) fail(err error) error {
	f := &Failure{
		Kind:  classify(err),
		Roll:  r.roll,
		State: r.state,
		Err:   err,
	}
	r.p.logger.Debug("fetch failed", "roll", r.roll, "state", r.state.String(), "error", err)
	r.advance(StateFatal)
	return f
}

// extract reads the configured fields into result in page order.
func (r *run) extract(ctx context.Context, profile model.Profile, result *model.StudentResult) error {
	type field struct {
		id    string
		label string
		dst   *string
	}
	fields := []field{
		{profile.NameID, profile.Labels.Name, &result.Name},
		{profile.RollID, profile.Labels.Roll, &result.Roll},
		{profile.RegID, profile.Labels.RegistrationNumber, &result.RegistrationNumber},
		{profile.OddGPAID, profile.Labels.OddGPA, &result.OddGPA},
	}
	if profile.HasEvenFields() {
		fields = append(fields,
			field{profile.EvenGPAID, profile.Labels.EvenGPA, &result.EvenGPA},
			field{profile.YearGPAID, profile.Labels.YearGPA, &result.YearGPA},
		)
	}

	for _, f := range fields {
		raw, err := r.p.session.ReadText(ctx, f.id)
		if err != nil {
			return err
		}
		*f.dst = Normalize(raw, f.label)
	}
	return nil
}
