package scan

import (
	"LabelWise-Backend/domain"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseAnalysisAcceptsPlainJSON(t *testing.T) {
	raw := `{"beneficial":[{"ingredient":"Almonds","reason":"Good source of healthy fats."}],"harmful":[],"neutral":[],"summary":"Mostly fine."}`

	analysis, err := ParseAnalysis(raw)
	require.NoError(t, err)

	require.Len(t, analysis.Beneficial, 1)
	assert.Equal(t, "Almonds", analysis.Beneficial[0].Ingredient)
	assert.Equal(t, "Good source of healthy fats.", analysis.Beneficial[0].Reason)
	assert.Empty(t, analysis.Harmful)
	assert.Empty(t, analysis.Neutral)
	assert.Equal(t, "Mostly fine.", analysis.Summary)
}

func TestParseAnalysisTrimsSurroundingProse(t *testing.T) {
	raw := `Sure! Here's the JSON: {"beneficial":[],"harmful":[{"ingredient":"Sugar","reason":"high glycemic index"}],"neutral":[],"summary":"One harmful ingredient."} Hope that helps!`

	analysis, err := ParseAnalysis(raw)
	require.NoError(t, err)

	require.Len(t, analysis.Harmful, 1)
	assert.Equal(t, "Sugar", analysis.Harmful[0].Ingredient)
}

func TestParseAnalysisTrimsCodeFences(t *testing.T) {
	raw := "```json\n{\"beneficial\":[],\"harmful\":[],\"neutral\":[],\"summary\":\"Nothing notable.\"}\n```"

	analysis, err := ParseAnalysis(raw)
	require.NoError(t, err)
	assert.Equal(t, "Nothing notable.", analysis.Summary)
}

func TestParseAnalysisConcreteScenario(t *testing.T) {
	raw := `{"beneficial":[],"harmful":[{"ingredient":"Sugar","reason":"high glycemic index"}],"neutral":[{"ingredient":"Water","reason":"hydration"},{"ingredient":"Citric Acid","reason":"common preservative"}],"summary":"Mostly neutral with one harmful ingredient."}`

	analysis, err := ParseAnalysis(raw)
	require.NoError(t, err)

	assert.Len(t, analysis.Beneficial, 0)
	assert.Len(t, analysis.Harmful, 1)
	assert.Len(t, analysis.Neutral, 2)
	assert.Equal(t, "Mostly neutral with one harmful ingredient.", analysis.Summary)
}

func TestParseAnalysisRejectsMissingReasonKey(t *testing.T) {
	// A known failure mode of weaker models: ingredient and reason collapsed
	// into one string under a single key.
	raw := `{"beneficial":[],"harmful":[{"ingredient":"Sugar: harmful due to high glycemic index"}],"neutral":[],"summary":""}`

	_, err := ParseAnalysis(raw)
	assert.ErrorIs(t, err, domain.ErrInvalidAnalysis)
}

func TestParseAnalysisRejectsStringEntries(t *testing.T) {
	raw := `{"beneficial":["Almonds are great"],"harmful":[],"neutral":[],"summary":""}`

	_, err := ParseAnalysis(raw)
	assert.ErrorIs(t, err, domain.ErrInvalidAnalysis)
}

func TestParseAnalysisRejectsMissingTopLevelKey(t *testing.T) {
	raw := `{"beneficial":[],"harmful":[],"summary":"missing neutral"}`

	_, err := ParseAnalysis(raw)
	assert.ErrorIs(t, err, domain.ErrInvalidAnalysis)
}

func TestParseAnalysisRejectsNonStringSummary(t *testing.T) {
	raw := `{"beneficial":[],"harmful":[],"neutral":[],"summary":42}`

	_, err := ParseAnalysis(raw)
	assert.ErrorIs(t, err, domain.ErrInvalidAnalysis)
}

func TestParseAnalysisRejectsNonStringFindingValues(t *testing.T) {
	raw := `{"beneficial":[{"ingredient":1,"reason":"numeric"}],"harmful":[],"neutral":[],"summary":""}`

	_, err := ParseAnalysis(raw)
	assert.ErrorIs(t, err, domain.ErrInvalidAnalysis)
}

func TestParseAnalysisRejectsResponseWithoutBraces(t *testing.T) {
	_, err := ParseAnalysis("I could not analyze the ingredients, sorry.")
	assert.ErrorIs(t, err, domain.ErrMalformedLLMJSON)
}

func TestParseAnalysisRejectsBrokenJSON(t *testing.T) {
	_, err := ParseAnalysis(`{"beneficial": [}`)
	assert.ErrorIs(t, err, domain.ErrMalformedLLMJSON)
}

func TestMarshalFindingsNeverNull(t *testing.T) {
	assert.Equal(t, "[]", marshalFindings(nil))
	assert.Equal(t, `[{"ingredient":"Water","reason":"hydration"}]`,
		marshalFindings([]domain.IngredientFinding{{Ingredient: "Water", Reason: "hydration"}}))
}

func TestUnmarshalFindingsTolerantOfEmptyColumn(t *testing.T) {
	assert.Empty(t, unmarshalFindings(""))
	assert.Empty(t, unmarshalFindings("null"))

	findings := unmarshalFindings(`[{"ingredient":"Water","reason":"hydration"}]`)
	require.Len(t, findings, 1)
	assert.Equal(t, "Water", findings[0].Ingredient)
}
