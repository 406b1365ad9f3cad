package reply

import (
	"encoding/json"
	"errors"
	"io"
	"strings"

	"github.com/m-mizutani/goerr/v2"
	"github.com/secmon-lab/testgenie/pkg/domain/model"
	"github.com/secmon-lab/testgenie/pkg/domain/types"
)

// record is a decoded JSON object with helpers that report shape violations
// as ErrSchema instead of failing on field access
type record map[string]any

// Decode normalizes text and decodes it as a single JSON value. Numbers are
// kept as json.Number.
func Decode(text string) (any, error) {
	normalized := Normalize(text)

	dec := json.NewDecoder(strings.NewReader(normalized))
	dec.UseNumber()

	var v any
	if err := dec.Decode(&v); err != nil {
		return nil, goerr.Wrap(model.ErrParse, "failed to decode reply",
			goerr.V("error", err.Error()), goerr.V(model.ReplyKey, normalized))
	}
	if _, err := dec.Token(); !errors.Is(err, io.EOF) {
		return nil, goerr.Wrap(model.ErrParse, "unexpected data after JSON value",
			goerr.V("offset", dec.InputOffset()), goerr.V(model.ReplyKey, normalized))
	}
	return v, nil
}

// ParseTestCases parses a reply to the test case request. The reply must be a
// non-empty array of {"test_no", "test"} records with unique test_no values.
func ParseTestCases(text string) ([]model.TestCase, error) {
	v, err := Decode(text)
	if err != nil {
		return nil, err
	}

	items, err := unwrapArray(v)
	if err != nil {
		return nil, err
	}
	if len(items) == 0 {
		return nil, schemaError("test case list is empty")
	}

	cases := make([]model.TestCase, 0, len(items))
	seen := make(map[string]struct{}, len(items))
	for i, item := range items {
		rec, ok := item.(map[string]any)
		if !ok {
			return nil, schemaError("test case is not an object", goerr.V("index", i))
		}
		r := record(rec)

		id, err := r.text("test_no", "test_number", "id")
		if err != nil {
			return nil, goerr.Wrap(err, "invalid test case", goerr.V("index", i))
		}
		desc, err := r.text("test", "tests", "description")
		if err != nil {
			return nil, goerr.Wrap(err, "invalid test case", goerr.V("index", i))
		}
		if _, dup := seen[id]; dup {
			return nil, schemaError("duplicated test_no", goerr.V(model.TestCaseIDKey, id))
		}
		seen[id] = struct{}{}

		cases = append(cases, model.TestCase{ID: id, Description: desc})
	}

	return cases, nil
}

// ParseStepPlan parses a reply to the step request. Preconditions become the
// first steps of the merged table with type precondition; the table steps
// follow with their own type. All steps are renumbered from 1.
func ParseStepPlan(text string) (*model.StepPlan, error) {
	v, err := Decode(text)
	if err != nil {
		return nil, err
	}

	root, ok := v.(map[string]any)
	if !ok {
		return nil, schemaError("step reply is not an object")
	}
	r := record(root)

	desc, err := r.text("description")
	if err != nil {
		return nil, err
	}

	rawPre, err := r.array("preconditions", "precondtions", "precondition")
	if err != nil {
		return nil, err
	}
	preSteps := make([]model.TestStep, 0, len(rawPre))
	preconditions := make([]string, 0, len(rawPre))
	for i, p := range rawPre {
		step, err := parsePrecondition(p)
		if err != nil {
			return nil, goerr.Wrap(err, "invalid precondition", goerr.V("index", i))
		}
		preSteps = append(preSteps, step)
		preconditions = append(preconditions, step.Description)
	}

	rawSteps, err := r.array("table_dict", "table", "steps", "test_steps")
	if err != nil {
		return nil, err
	}

	steps := make([]model.TestStep, 0, len(preSteps)+len(rawSteps))
	for _, p := range preSteps {
		p.Number = len(steps) + 1
		steps = append(steps, p)
	}

	for i, item := range rawSteps {
		rec, ok := item.(map[string]any)
		if !ok {
			return nil, schemaError("step is not an object", goerr.V("index", i))
		}
		step, err := parseStep(record(rec))
		if err != nil {
			return nil, goerr.Wrap(err, "invalid step", goerr.V("index", i))
		}
		step.Number = len(steps) + 1
		steps = append(steps, step)
	}

	return &model.StepPlan{
		Description:   desc,
		Preconditions: preconditions,
		Steps:         steps,
	}, nil
}

// ParseTestCaseDetail parses a reply to a scenario request
func ParseTestCaseDetail(text string) (*model.TestCaseDetail, error) {
	v, err := Decode(text)
	if err != nil {
		return nil, err
	}

	root, ok := v.(map[string]any)
	if !ok {
		// a single test case wrapped in an array is accepted
		items, isArray := v.([]any)
		if !isArray || len(items) != 1 {
			return nil, schemaError("scenario reply is not an object")
		}
		if root, ok = items[0].(map[string]any); !ok {
			return nil, schemaError("scenario reply is not an object")
		}
	}
	r := record(root)

	name, err := r.text("Test_Case", "test_case", "name")
	if err != nil {
		return nil, err
	}
	objective, err := r.optionalText("Objective", "objective")
	if err != nil {
		return nil, err
	}
	pre, err := r.optionalStrings("Preconditions", "preconditions")
	if err != nil {
		return nil, err
	}
	post, err := r.optionalStrings("Postconditions", "postconditions")
	if err != nil {
		return nil, err
	}

	rawSteps, err := r.array("Test_Steps", "test_steps", "steps")
	if err != nil {
		return nil, err
	}
	steps := make([]model.ScenarioStep, 0, len(rawSteps))
	for i, item := range rawSteps {
		rec, ok := item.(map[string]any)
		if !ok {
			return nil, schemaError("scenario step is not an object", goerr.V("index", i))
		}
		sr := record(rec)
		action, err := sr.text("Action", "action")
		if err != nil {
			return nil, goerr.Wrap(err, "invalid scenario step", goerr.V("index", i))
		}
		expected, err := sr.optionalText("Expected_Result", "expected_result")
		if err != nil {
			return nil, goerr.Wrap(err, "invalid scenario step", goerr.V("index", i))
		}
		steps = append(steps, model.ScenarioStep{
			Number:         i + 1,
			Action:         action,
			ExpectedResult: expected,
		})
	}

	return &model.TestCaseDetail{
		Name:           name,
		Objective:      objective,
		Preconditions:  pre,
		Steps:          steps,
		Postconditions: post,
	}, nil
}

func parseStep(r record) (model.TestStep, error) {
	// steps are renumbered after the merge, so any label is accepted here
	if err := r.scalar("step_number", "step_no", "step"); err != nil {
		return model.TestStep{}, err
	}

	rawType, err := r.text("step_type", "type")
	if err != nil {
		return model.TestStep{}, err
	}
	stepType, err := types.ParseStepType(rawType)
	if err != nil {
		return model.TestStep{}, schemaError("unknown step_type", goerr.V("step_type", rawType))
	}

	desc, err := r.text("step_description", "description")
	if err != nil {
		return model.TestStep{}, err
	}
	expected, err := r.text("expected_result", "expected")
	if err != nil {
		return model.TestStep{}, err
	}

	return model.TestStep{
		Type:           stepType,
		Description:    desc,
		ExpectedResult: expected,
	}, nil
}

// parsePrecondition accepts a plain string or a step-shaped object. The
// expected result of an object is kept; its number and type are not.
func parsePrecondition(v any) (model.TestStep, error) {
	step := model.TestStep{Type: types.StepTypePrecondition}

	switch p := v.(type) {
	case string:
		if strings.TrimSpace(p) == "" {
			return model.TestStep{}, schemaError("precondition is empty")
		}
		step.Description = strings.TrimSpace(p)
	case map[string]any:
		r := record(p)
		desc, err := r.text("step_description", "description", "precondition")
		if err != nil {
			return model.TestStep{}, err
		}
		expected, err := r.optionalText("expected_result", "expected")
		if err != nil {
			return model.TestStep{}, err
		}
		step.Description = desc
		step.ExpectedResult = expected
	default:
		return model.TestStep{}, schemaError("precondition is neither a string nor an object")
	}

	return step, nil
}

// unwrapArray returns v as an array. An object holding exactly one array
// value, like {"test_cases": [...]}, is unwrapped.
func unwrapArray(v any) ([]any, error) {
	switch x := v.(type) {
	case []any:
		return x, nil
	case map[string]any:
		if len(x) == 1 {
			for _, inner := range x {
				if items, ok := inner.([]any); ok {
					return items, nil
				}
			}
		}
	}
	return nil, schemaError("test case reply is not an array")
}

func (r record) lookup(keys ...string) (string, any, bool) {
	for _, k := range keys {
		if v, ok := r[k]; ok && v != nil {
			return k, v, true
		}
	}
	return "", nil, false
}

// text returns a non-empty string field. Numbers are accepted and formatted,
// since models emit "test_no": 1 as often as "test_no": "Test 1".
func (r record) text(keys ...string) (string, error) {
	k, v, ok := r.lookup(keys...)
	if !ok {
		return "", schemaError("missing field", goerr.V("field", keys[0]))
	}
	var s string
	switch x := v.(type) {
	case string:
		s = strings.TrimSpace(x)
	case json.Number:
		s = x.String()
	default:
		return "", schemaError("field is not a string", goerr.V("field", k))
	}
	if s == "" {
		return "", schemaError("field is empty", goerr.V("field", k))
	}
	return s, nil
}

// optionalText is text that may be missing or blank
func (r record) optionalText(keys ...string) (string, error) {
	_, v, ok := r.lookup(keys...)
	if !ok {
		return "", nil
	}
	if s, isString := v.(string); isString && strings.TrimSpace(s) == "" {
		return "", nil
	}
	return r.text(keys...)
}

// scalar checks that the field is present and holds a string or a number
func (r record) scalar(keys ...string) error {
	k, v, ok := r.lookup(keys...)
	if !ok {
		return schemaError("missing field", goerr.V("field", keys[0]))
	}
	switch v.(type) {
	case string, json.Number:
		return nil
	default:
		return schemaError("field is not a scalar", goerr.V("field", k))
	}
}

func (r record) array(keys ...string) ([]any, error) {
	k, v, ok := r.lookup(keys...)
	if !ok {
		return nil, schemaError("missing field", goerr.V("field", keys[0]))
	}
	items, ok := v.([]any)
	if !ok {
		return nil, schemaError("field is not an array", goerr.V("field", k))
	}
	return items, nil
}

func (r record) optionalStrings(keys ...string) ([]string, error) {
	k, v, ok := r.lookup(keys...)
	if !ok {
		return nil, nil
	}
	var items []any
	switch x := v.(type) {
	case []any:
		items = x
	case string:
		items = []any{x}
	default:
		return nil, schemaError("field is not an array", goerr.V("field", k))
	}

	out := make([]string, 0, len(items))
	for _, item := range items {
		s, ok := item.(string)
		if !ok {
			return nil, schemaError("array item is not a string", goerr.V("field", k))
		}
		out = append(out, s)
	}
	return out, nil
}

func schemaError(msg string, values ...goerr.Option) error {
	return goerr.Wrap(model.ErrSchema, msg, values...)
}
