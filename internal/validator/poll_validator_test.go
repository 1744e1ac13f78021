package validator

import (
	"strings"
	"testing"

	"github.com/yourorg/poll-service/internal/model"
)

func floatPtr(f float64) *float64 { return &f }

func twoOptions() []model.OptionCreate {
	return []model.OptionCreate{{Text: "yes"}, {Text: "no"}}
}

func TestValidatePollCreate(t *testing.T) {
	tests := []struct {
		name    string
		create  model.PollCreate
		wantErr bool
	}{
		{
			name:   "valid",
			create: model.PollCreate{Question: "q?", Options: twoOptions(), Tags: []string{"go"}},
		},
		{
			name:    "blank question",
			create:  model.PollCreate{Question: "   ", Options: twoOptions()},
			wantErr: true,
		},
		{
			name:    "question too long",
			create:  model.PollCreate{Question: strings.Repeat("x", maxQuestionLength+1), Options: twoOptions()},
			wantErr: true,
		},
		{
			name:    "single option",
			create:  model.PollCreate{Question: "q?", Options: []model.OptionCreate{{Text: "only"}}},
			wantErr: true,
		},
		{
			name: "too many options",
			create: model.PollCreate{Question: "q?", Options: func() []model.OptionCreate {
				opts := make([]model.OptionCreate, maxOptions+1)
				for i := range opts {
					opts[i] = model.OptionCreate{Text: "o"}
				}
				return opts
			}()},
			wantErr: true,
		},
		{
			name:    "option text too long",
			create:  model.PollCreate{Question: "q?", Options: []model.OptionCreate{{Text: "a"}, {Text: strings.Repeat("x", maxOptionTextLength+1)}}},
			wantErr: true,
		},
		{
			name:    "confidence out of range",
			create:  model.PollCreate{Question: "q?", Options: []model.OptionCreate{{Text: "a", Confidence: floatPtr(1.5)}, {Text: "b"}}},
			wantErr: true,
		},
		{
			name:   "confidence at bounds",
			create: model.PollCreate{Question: "q?", Options: []model.OptionCreate{{Text: "a", Confidence: floatPtr(0)}, {Text: "b", Confidence: floatPtr(1)}}},
		},
		{
			name:    "blank tag name",
			create:  model.PollCreate{Question: "q?", Options: twoOptions(), Tags: []string{"go", "  "}},
			wantErr: true,
		},
		{
			name:    "tag name too long",
			create:  model.PollCreate{Question: "q?", Options: twoOptions(), Tags: []string{strings.Repeat("t", maxTagNameLength+1)}},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidatePollCreate(&tt.create)
			if (err != nil) != tt.wantErr {
				t.Errorf("ValidatePollCreate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestValidatePollUpdateSkipsNilFields(t *testing.T) {
	if err := ValidatePollUpdate(&model.PollUpdate{}); err != nil {
		t.Errorf("empty update must be valid, got %v", err)
	}

	blank := "  "
	if err := ValidatePollUpdate(&model.PollUpdate{Question: &blank}); err == nil {
		t.Error("blank question in update must be rejected")
	}

	if err := ValidatePollUpdate(&model.PollUpdate{Options: []model.OptionCreate{{Text: "only"}}}); err == nil {
		t.Error("single-option replacement must be rejected")
	}
}

func TestNormalizeTagNames(t *testing.T) {
	got, err := NormalizeTagNames([]string{" go ", "go", "backend", " go"})
	if err != nil {
		t.Fatalf("NormalizeTagNames returned error: %v", err)
	}
	if len(got) != 2 || got[0] != "go" || got[1] != "backend" {
		t.Errorf("expected [go backend], got %v", got)
	}

	if _, err := NormalizeTagNames([]string{"go", "   "}); err == nil {
		t.Error("whitespace-only name must be rejected")
	}

	got, err = NormalizeTagNames(nil)
	if err != nil {
		t.Fatalf("NormalizeTagNames(nil) returned error: %v", err)
	}
	if len(got) != 0 {
		t.Errorf("expected empty result for nil input, got %v", got)
	}
}
