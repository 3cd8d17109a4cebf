package question

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAnswer_CountLabel(t *testing.T) {
	tests := []struct {
		name    string
		answers []AnswerText
		want    string
	}{
		{
			name:    "single answer",
			answers: []AnswerText{{Text: "a"}},
			want:    ", 1 answer",
		},
		{
			name:    "multiple answers",
			answers: []AnswerText{{Text: "a"}, {Text: "b"}},
			want:    ", 2 answers",
		},
		{
			name: "required answers",
			answers: []AnswerText{
				{Text: "a", Required: true},
				{Text: "b", Required: true},
				{Text: "c"},
			},
			want: ", 2/3 required",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			answer := Answer{Type: AnswerTypeRomaji, Answers: tt.answers}
			assert.Equal(t, tt.want, answer.CountLabel())
		})
	}
}

func TestQuestion_Validate(t *testing.T) {
	valid := NewQuestion("card-1", "header", "prompt", "", []AnswerGroup{
		NewAnswerGroup([]Answer{
			NewAnswer(AnswerTypeRomaji, "meanings", []AnswerText{{Text: "a"}}),
		}),
	})
	require.NoError(t, valid.Validate())

	tests := []struct {
		name     string
		question Question
	}{
		{
			name:     "no answer groups",
			question: NewQuestion("card-1", "h", "prompt", "", nil),
		},
		{
			name: "empty answer group",
			question: NewQuestion("card-1", "h", "prompt", "", []AnswerGroup{
				NewAnswerGroup(nil),
			}),
		},
		{
			name: "answer without texts",
			question: NewQuestion("card-1", "h", "prompt", "", []AnswerGroup{
				NewAnswerGroup([]Answer{
					NewAnswer(AnswerTypeRomaji, "meanings", nil),
				}),
			}),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Error(t, tt.question.Validate())
		})
	}
}

func TestQuestion_AnswerIDs(t *testing.T) {
	q := Question{
		Groups: []AnswerGroup{
			{Answers: []Answer{{ID: "a"}, {ID: "b"}}},
			{Answers: []Answer{{ID: "c"}}},
		},
	}
	assert.Equal(t, []string{"a", "b", "c"}, q.AnswerIDs())
}
