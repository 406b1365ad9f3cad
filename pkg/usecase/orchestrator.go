package usecase

import (
	"context"
	"time"

	"github.com/m-mizutani/goerr/v2"
	"github.com/secmon-lab/testgenie/pkg/domain/interfaces"
	"github.com/secmon-lab/testgenie/pkg/domain/model"
	"github.com/secmon-lab/testgenie/pkg/domain/types"
	"github.com/secmon-lab/testgenie/pkg/prompt"
	"github.com/secmon-lab/testgenie/pkg/reply"
	"github.com/secmon-lab/testgenie/pkg/utils/logging"
)

// Orchestrator drives a session through the generation pipeline
//
//	Empty --upload--> DocumentLoaded --generateTestCases--> TestCasesGenerated
//	TestCasesGenerated --select--> TestCasesGenerated --generateSteps--> StepsGenerated
//
// Every transition takes the prior session and returns the next one. The
// prior session is never modified, so a caller can keep or discard either.
type Orchestrator struct {
	completer interfaces.Completer
	prompts   *prompt.Builder
	timeout   time.Duration
	now       func() time.Time
}

// NewOrchestrator creates an Orchestrator. A nil prompt builder selects the
// default prompts.
func NewOrchestrator(completer interfaces.Completer, prompts *prompt.Builder, timeout time.Duration, now func() time.Time) *Orchestrator {
	if prompts == nil {
		prompts = prompt.New(prompt.Profile{})
	}
	if now == nil {
		now = time.Now
	}
	return &Orchestrator{
		completer: completer,
		prompts:   prompts,
		timeout:   timeout,
		now:       now,
	}
}

// Upload loads doc into a session and prepares the conversation with the
// system prompt and the test case request. A nil prior starts a new session;
// an existing one is reset except for its identity.
func (o *Orchestrator) Upload(prior *model.Session, doc *model.Document) (*model.Session, error) {
	if doc == nil {
		return nil, goerr.Wrap(model.ErrIngestion, "document is required")
	}

	system, err := o.prompts.System(doc.Text)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to build system prompt", goerr.V(model.FilenameKey, doc.Filename))
	}
	conv, err := model.NewConversation(system, o.prompts.TestCaseRequest())
	if err != nil {
		return nil, goerr.Wrap(err, "failed to start conversation")
	}

	now := o.now()
	next := model.NewSession(now)
	if prior != nil {
		next.ID = prior.ID
		next.CreatedAt = prior.CreatedAt
	}
	next.State = types.SessionStateDocumentLoaded
	next.Document = doc
	next.Conversation = conv

	return next, nil
}

// GenerateTestCases asks for the test case list and replaces any previous
// list. The selection and step plan are cleared because they refer to the
// old list.
//
// On a completion failure the returned session carries the appended request
// without a reply; on a parse failure it carries the reply but keeps its
// state. Both are returned together with the error.
func (o *Orchestrator) GenerateTestCases(ctx context.Context, s *model.Session) (*model.Session, error) {
	if s == nil || !s.State.HasDocument() || s.Conversation.IsZero() {
		return nil, invalidState(s, "test case generation requires a loaded document")
	}

	next := s.Clone()
	text, err := o.exchange(ctx, next, o.prompts.TestCaseRequest())
	if err != nil {
		return next, goerr.Wrap(err, "failed to generate test cases", goerr.V(model.SessionIDKey, s.ID))
	}

	cases, err := reply.ParseTestCases(text)
	if err != nil {
		return next, goerr.Wrap(err, "failed to parse test cases", goerr.V(model.SessionIDKey, s.ID))
	}

	next.TestCases = cases
	next.Selection = nil
	next.StepPlan = nil
	next.State = types.SessionStateTestCasesGenerated

	logging.From(ctx).Info("test cases generated",
		"session_id", s.ID,
		"count", len(cases),
		"conversation_length", next.Conversation.Len())

	return next, nil
}

// Select records the chosen test cases. IDs are kept in test case list order
// without duplicates. An empty selection is recorded too; it only blocks step
// generation.
func (o *Orchestrator) Select(s *model.Session, ids []string) (*model.Session, error) {
	if s == nil || !s.State.HasTestCases() {
		return nil, invalidState(s, "selection requires generated test cases")
	}

	wanted := make(map[string]struct{}, len(ids))
	for _, id := range ids {
		if _, ok := model.FindTestCase(s.TestCases, id); !ok {
			return nil, goerr.Wrap(model.ErrUnknownTestCase, "selected test case does not exist",
				goerr.V(model.SessionIDKey, s.ID),
				goerr.V(model.TestCaseIDKey, id))
		}
		wanted[id] = struct{}{}
	}

	selection := make([]string, 0, len(wanted))
	for _, tc := range s.TestCases {
		if _, ok := wanted[tc.ID]; ok {
			selection = append(selection, tc.ID)
		}
	}

	next := s.Clone()
	next.Selection = selection
	next.UpdatedAt = o.now()
	return next, nil
}

// GenerateSteps asks for the step table of the selection and replaces any
// previous plan. With an empty selection the completion service is not called
// and model.ErrSelection is returned.
func (o *Orchestrator) GenerateSteps(ctx context.Context, s *model.Session) (*model.Session, error) {
	if s == nil || !s.State.HasTestCases() {
		return nil, invalidState(s, "step generation requires generated test cases")
	}
	if len(s.Selection) == 0 {
		return nil, goerr.Wrap(model.ErrSelection, "select at least one test case to generate steps",
			goerr.V(model.SessionIDKey, s.ID))
	}

	next := s.Clone()
	text, err := o.exchange(ctx, next, o.prompts.TestStepRequest(s.Selection))
	if err != nil {
		return next, goerr.Wrap(err, "failed to generate test steps", goerr.V(model.SessionIDKey, s.ID))
	}

	plan, err := reply.ParseStepPlan(text)
	if err != nil {
		return next, goerr.Wrap(err, "failed to parse test steps", goerr.V(model.SessionIDKey, s.ID))
	}

	next.StepPlan = plan
	next.State = types.SessionStateStepsGenerated

	logging.From(ctx).Info("test steps generated",
		"session_id", s.ID,
		"selection", s.Selection,
		"steps", len(plan.Steps),
		"conversation_length", next.Conversation.Len())

	return next, nil
}

// GenerateScenario produces a single test case from a free-text scenario.
// Every call uses a fresh two-message conversation.
func (o *Orchestrator) GenerateScenario(ctx context.Context, scenario string) (*model.TestCaseDetail, error) {
	conv, err := model.NewConversation(o.prompts.ScenarioSystem(), o.prompts.ScenarioRequest(scenario))
	if err != nil {
		return nil, goerr.Wrap(err, "failed to start scenario conversation")
	}

	text, err := o.complete(ctx, conv)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to generate scenario test case")
	}

	detail, err := reply.ParseTestCaseDetail(text)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to parse scenario test case")
	}
	return detail, nil
}

// exchange appends request unless it is already waiting for a reply, calls
// the completion service and appends the reply. next is updated in place; it
// must be a clone owned by the caller.
func (o *Orchestrator) exchange(ctx context.Context, next *model.Session, request model.Message) (string, error) {
	if last, ok := next.Conversation.Last(); !ok || last != request {
		conv, err := next.Conversation.Append(request)
		if err != nil {
			return "", goerr.Wrap(err, "failed to append request")
		}
		next.Conversation = conv
	}
	next.UpdatedAt = o.now()

	text, err := o.complete(ctx, next.Conversation)
	if err != nil {
		return "", err
	}

	conv, err := next.Conversation.Append(model.AssistantMessage(text))
	if err != nil {
		return "", goerr.Wrap(err, "failed to append reply")
	}
	next.Conversation = conv
	next.UpdatedAt = o.now()

	return text, nil
}

func (o *Orchestrator) complete(ctx context.Context, conv model.Conversation) (string, error) {
	if o.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, o.timeout)
		defer cancel()
	}

	return o.completer.Complete(ctx, conv.Snapshot())
}

func invalidState(s *model.Session, msg string) error {
	if s == nil {
		return goerr.Wrap(model.ErrInvalidState, msg)
	}
	return goerr.Wrap(model.ErrInvalidState, msg,
		goerr.V(model.SessionIDKey, s.ID),
		goerr.V(model.StateKey, s.State))
}
