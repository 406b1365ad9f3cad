// Package prompt builds the messages sent to the completion service. Every
// builder is a pure function of its inputs: the same document and selection
// always produce byte-identical prompts.
package prompt

import (
	"bytes"
	_ "embed"
	"encoding/json"
	"strings"
	"text/template"

	"github.com/m-mizutani/goerr/v2"
	"github.com/secmon-lab/testgenie/pkg/domain/model"
)

const (
	// OpenMarker and CloseMarker enclose the document inside the system prompt
	OpenMarker  = "<document>"
	CloseMarker = "</document>"

	// QueryDelimiter encloses every user query
	QueryDelimiter = "---"
)

var (
	//go:embed templates/system.md
	systemTmplText string
	//go:embed templates/test_cases.md
	testCasesTmplText string
	//go:embed templates/test_steps.md
	testStepsTmplText string
	//go:embed templates/scenario_system.md
	scenarioSystemText string
	//go:embed templates/scenario.md
	scenarioTmplText string

	systemTmpl    = template.Must(template.New("system").Parse(systemTmplText))
	testCasesTmpl = template.Must(template.New("test_cases").Parse(testCasesTmplText))
	testStepsTmpl = template.Must(template.New("test_steps").Parse(testStepsTmplText))
	scenarioTmpl  = template.Must(template.New("scenario").Parse(scenarioTmplText))
)

// Profile customizes the fixed templates for a product domain
type Profile struct {
	// Persona is appended to the opening line of the system prompt, e.g. what
	// kind of application the team builds
	Persona string
	// TestCaseHints are extra instruction lines for the test case request
	TestCaseHints []string
	// TestStepHints are extra instruction lines for the test step request
	TestStepHints []string
}

// Builder renders prompts from a profile
type Builder struct {
	profile Profile
}

// New creates a Builder. The zero profile gives the generic prompts.
func New(profile Profile) *Builder {
	p := Profile{Persona: strings.TrimSpace(profile.Persona)}
	p.TestCaseHints = append(p.TestCaseHints, profile.TestCaseHints...)
	p.TestStepHints = append(p.TestStepHints, profile.TestStepHints...)
	return &Builder{profile: p}
}

var defaultBuilder = New(Profile{})

// System embeds the document verbatim in the persona instruction. A document
// containing a boundary marker is rejected since the model could not tell
// where it ends.
func (b *Builder) System(document string) (model.Message, error) {
	if strings.Contains(document, OpenMarker) || strings.Contains(document, CloseMarker) {
		return model.Message{}, goerr.Wrap(model.ErrDocumentMarker, "document cannot be embedded in system prompt",
			goerr.V("open_marker", OpenMarker), goerr.V("close_marker", CloseMarker))
	}

	content := render(systemTmpl, struct {
		Persona        string
		QueryDelimiter string
		OpenMarker     string
		CloseMarker    string
		Document       string
	}{
		Persona:        b.profile.Persona,
		QueryDelimiter: QueryDelimiter,
		OpenMarker:     OpenMarker,
		CloseMarker:    CloseMarker,
		Document:       document,
	})
	return model.SystemMessage(content), nil
}

// TestCaseRequest asks for the list of test cases as a JSON array of
// {test_no, test}
func (b *Builder) TestCaseRequest() model.Message {
	body := render(testCasesTmpl, struct{ Hints []string }{Hints: b.profile.TestCaseHints})
	return model.UserMessage(query(body))
}

// TestStepRequest asks for the step table of the selected test cases
func (b *Builder) TestStepRequest(selectedIDs []string) model.Message {
	ids := selectedIDs
	if ids == nil {
		ids = []string{}
	}
	// json.Marshal of a []string cannot fail
	encoded, _ := json.Marshal(ids)

	body := render(testStepsTmpl, struct {
		Selection string
		Hints     []string
	}{
		Selection: string(encoded),
		Hints:     b.profile.TestStepHints,
	})
	return model.UserMessage(query(body))
}

// ScenarioSystem is the persona for free-text scenario generation
func (b *Builder) ScenarioSystem() model.Message {
	return model.SystemMessage(scenarioSystemText)
}

// ScenarioRequest asks for one fully described test case of the scenario
func (b *Builder) ScenarioRequest(scenario string) model.Message {
	return model.UserMessage(render(scenarioTmpl, struct{ Scenario string }{Scenario: scenario}))
}

// System renders the system prompt with the default profile
func System(document string) (model.Message, error) {
	return defaultBuilder.System(document)
}

// TestCaseRequest renders the test case request with the default profile
func TestCaseRequest() model.Message {
	return defaultBuilder.TestCaseRequest()
}

// TestStepRequest renders the test step request with the default profile
func TestStepRequest(selectedIDs []string) model.Message {
	return defaultBuilder.TestStepRequest(selectedIDs)
}

func query(body string) string {
	return QueryDelimiter + body + QueryDelimiter
}

// render executes one of the package templates. They are parsed at init and
// only reference fields of the data structs above, so execution cannot fail
// short of a programming error.
func render(tmpl *template.Template, data any) string {
	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, data); err != nil {
		panic(goerr.Wrap(err, "failed to render prompt template", goerr.V("template", tmpl.Name())))
	}
	return buf.String()
}
