package types_test

import (
	"testing"

	"github.com/m-mizutani/gt"
	"github.com/secmon-lab/testgenie/pkg/domain/types"
)

func TestStepType_IsValid(t *testing.T) {
	for _, st := range types.AllStepTypes() {
		gt.B(t, st.IsValid()).True()
	}
	gt.B(t, types.StepType("teardown").IsValid()).False()
	gt.B(t, types.StepType("").IsValid()).False()
}

func TestParseStepType(t *testing.T) {
	tests := []struct {
		input   string
		want    types.StepType
		wantErr bool
	}{
		{input: "precondition", want: types.StepTypePrecondition},
		{input: "precondtion", want: types.StepTypePrecondition},
		{input: "test-step", want: types.StepTypeTestStep},
		{input: "Test Step", want: types.StepTypeTestStep},
		{input: "test", want: types.StepTypeTestStep},
		{input: "verification point", want: types.StepTypeVerificationPoint},
		{input: " Verification_Point ", want: types.StepTypeVerificationPoint},
		{input: "verification", want: types.StepTypeVerificationPoint},
		{input: "cleanup", wantErr: true},
		{input: "", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, err := types.ParseStepType(tt.input)
			if tt.wantErr {
				gt.Error(t, err)
				return
			}
			gt.NoError(t, err).Required()
			gt.Value(t, got).Equal(tt.want)
		})
	}
}

func TestParseRole(t *testing.T) {
	role, err := types.ParseRole("assistant")
	gt.NoError(t, err).Required()
	gt.Value(t, role).Equal(types.RoleAssistant)

	_, err = types.ParseRole("tool")
	gt.Error(t, err)
}

func TestSessionState(t *testing.T) {
	gt.Value(t, types.SessionState("").Normalize()).Equal(types.SessionStateEmpty)
	gt.B(t, types.SessionStateEmpty.HasDocument()).False()
	gt.B(t, types.SessionStateDocumentLoaded.HasDocument()).True()
	gt.B(t, types.SessionStateDocumentLoaded.HasTestCases()).False()
	gt.B(t, types.SessionStateTestCasesGenerated.HasTestCases()).True()
	gt.B(t, types.SessionStateStepsGenerated.HasTestCases()).True()
	gt.B(t, types.SessionState("DONE").IsValid()).False()
}

func TestDetectDocumentFormat(t *testing.T) {
	tests := []struct {
		filename string
		want     types.DocumentFormat
	}{
		{"spec.pdf", types.DocumentFormatPDF},
		{"SPEC.PDF", types.DocumentFormatPDF},
		{"story.docx", types.DocumentFormatDOCX},
		{"page.htm", types.DocumentFormatHTML},
		{"notes.md", types.DocumentFormatMarkdown},
		{"notes.txt", types.DocumentFormatText},
		{"image.png", types.DocumentFormatUnknown},
		{"noext", types.DocumentFormatUnknown},
	}

	for _, tt := range tests {
		t.Run(tt.filename, func(t *testing.T) {
			gt.Value(t, types.DetectDocumentFormat(tt.filename)).Equal(tt.want)
		})
	}

	gt.Value(t, types.DocumentFormatPDF.ContentType()).Equal("application/pdf")
	gt.Value(t, types.DocumentFormatUnknown.ContentType()).Equal("application/octet-stream")
}
