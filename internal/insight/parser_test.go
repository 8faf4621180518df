package insight

import (
	"encoding/json"
	"errors"
	"testing"

	"paperinsight/internal/models"
	"paperinsight/internal/util"

	"github.com/stretchr/testify/require"
)

func TestParseDefinitionsPlainJSON(t *testing.T) {
	raw := `{"definitions":[{"term":"attention","definition":"A weighting mechanism over inputs."},{"term":"  ","definition":"dropped"}]}`
	defs, err := ParseDefinitions(raw)
	require.NoError(t, err)
	require.Len(t, defs, 1)
	require.Equal(t, "attention", defs[0].Term)
}

func TestParseDefinitionsCodeFenceAndProse(t *testing.T) {
	raw := "Sure, here you go:\n```json\n{\"definitions\":[{\"term\":\"BLEU\",\"definition\":\"A machine translation quality metric.\"}]}\n```"
	// Prose before the fence is tolerated because extraction keys off braces.
	defs, err := ParseDefinitions(raw)
	require.NoError(t, err)
	require.Len(t, defs, 1)
	require.Equal(t, "BLEU", defs[0].Term)
}

func TestParseDefinitionsNoJSON(t *testing.T) {
	_, err := ParseDefinitions("I could not find any definitions, sorry.")
	require.Error(t, err)
	require.True(t, errors.Is(err, util.ErrParse))
}

func TestParseQuestionsNormalizesTypeAndAnswer(t *testing.T) {
	raw := `{"questions":[
 {"question":"Which metric is used?","type":"Multiple-Choice","options":["BLEU","ROUGE","F1"],"correct_answer":"bleu"},
 {"question":"Name the base architecture.","type":"short_answer","options":null,"correct_answer":"Transformer"},
 {"question":"Broken one","type":"multiple_choice","options":["only option"],"correct_answer":"only option"},
 {"question":"Unknown kind","type":"essay","options":[],"correct_answer":"n/a"}
]}`
	qs, err := ParseQuestions(raw)
	require.NoError(t, err)
	require.Len(t, qs, 2)

	require.Equal(t, models.QuestionMultipleChoice, qs[0].Type)
	require.Equal(t, "BLEU", qs[0].CorrectAnswer)
	require.Equal(t, []string{"BLEU", "ROUGE", "F1"}, qs[0].Options)

	require.Equal(t, models.QuestionShortAnswer, qs[1].Type)
	require.Equal(t, []string{}, qs[1].Options)
}

func TestParseQuestionsAllInvalid(t *testing.T) {
	_, err := ParseQuestions(`{"questions":[{"question":"","type":"short_answer","options":[],"correct_answer":"x"}]}`)
	require.Error(t, err)
	require.True(t, errors.Is(err, util.ErrParse))
}

func TestQuestionRoundTrip(t *testing.T) {
	raw := `{"questions":[{"question":"Which metric is used?","type":"multiple_choice","options":["BLEU","ROUGE"],"correct_answer":"BLEU"}]}`
	qs, err := ParseQuestions(raw)
	require.NoError(t, err)

	b, err := json.Marshal(qs[0])
	require.NoError(t, err)
	var back models.Question
	require.NoError(t, json.Unmarshal(b, &back))
	require.Equal(t, qs[0], back)
}

func TestDefinitionRoundTrip(t *testing.T) {
	d := models.Definition{Term: "ablation", Definition: "Removing a component to measure its contribution."}
	b, err := json.Marshal(d)
	require.NoError(t, err)
	var back models.Definition
	require.NoError(t, json.Unmarshal(b, &back))
	require.Equal(t, d, back)
}
