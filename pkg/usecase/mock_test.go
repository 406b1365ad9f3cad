package usecase_test

import (
	"context"
	"errors"
	"sync"

	"github.com/secmon-lab/testgenie/pkg/domain/model"
)

type completion struct {
	text string
	err  error
}

// mockCompleter replays scripted completions and records every conversation
// it receives
type mockCompleter struct {
	mu      sync.Mutex
	script  []completion
	calls   [][]model.Message
	lastCtx context.Context
}

func newMockCompleter(script ...completion) *mockCompleter {
	return &mockCompleter{script: script}
}

func (m *mockCompleter) Complete(ctx context.Context, messages []model.Message) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.lastCtx = ctx
	m.calls = append(m.calls, messages)
	if len(m.script) == 0 {
		return "", errors.New("unexpected completion call")
	}
	next := m.script[0]
	m.script = m.script[1:]
	return next.text, next.err
}

func (m *mockCompleter) callCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.calls)
}

func reply(text string) completion {
	return completion{text: text}
}

func failure(err error) completion {
	return completion{err: err}
}

const (
	testCaseReply = `[{"test_no":"Test 1","test":"Login works"},{"test_no":"Test 2","test":"Login fails with bad password"},{"test_no":"Test 3","test":"Account locks after retries"}]`

	stepReply = `{
	"description": "Login with valid and invalid credentials",
	"preconditions": ["App installed"],
	"table_dict": [
		{"step_number": 2, "step_type": "test-step", "step_description": "Enter valid credentials", "expected_result": "Home screen is shown"},
		{"step_number": 3, "step_type": "verification-point", "step_description": "Verify the user name", "expected_result": "User name is displayed"}
	]
}`

	scenarioReply = `{
	"Test_Case": "Expired password",
	"Objective": "User is forced to reset an expired password",
	"Preconditions": ["Password is expired"],
	"Test_Steps": [
		{"Step": 1, "Action": "Log in", "Expected_Result": "Reset form is shown"},
		{"Step": 2, "Action": "Set a new password", "Expected_Result": "Home screen is shown"}
	],
	"Postconditions": ["Password is updated"]
}`
)
