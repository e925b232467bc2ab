package reactkit

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSystemPrompt(t *testing.T) {
	catalog := Render(&minTool{name: "Current Date"})
	got := SystemPrompt(catalog)
	assert.Equal(t,
		"### Tools ###\n\n"+
			"You have access to the following tools:\n"+catalog+"\n\n"+
			"### Instructions ###\n\n"+
			"Your goal is to solve the problem you will be provided with\n\n"+
			ToolAndFinalAnswerInstructions,
		got)
}

func TestSystemPrompt_NoTools(t *testing.T) {
	for _, catalog := range []string{"", "  \n"} {
		got := SystemPrompt(catalog)
		assert.Equal(t,
			"### Instructions ###\n\nYour goal is to solve the problem you will be provided with\n\n"+FinalAnswerInstructions,
			got)
		assert.NotContains(t, got, "Tool:")
	}
}

func TestObservation(t *testing.T) {
	assert.Equal(t, "Tool Output: 4", Observation(int64(4)))
	assert.Equal(t, "Tool Output: None", Observation(nil))
	assert.Equal(t, "Tool Output: 2024-03-15T09:30:00Z", Observation(testNow))
}

func TestFieldsTemplate(t *testing.T) {
	s := MustSchema(
		String("name", "Full name"),
		Integer("age", "Age in years"),
		Number("height", "Height"),
		Boolean("active", "Is active"),
		String("born", "Birth date").WithFormat("date"),
		String("seen", "Last seen").WithFormat("date-time"),
		String("mail", "Email").WithFormat("email"),
		Array("tags", TypeString, "Tags"),
		Array("days", TypeString, "Days").WithFormat("date"),
		Array("scores", TypeNumber, "Scores"),
		Array("ids", TypeInteger, "Ids"),
		Object("meta", "Metadata"),
	)
	want := "{\n" +
		"    \"name\": <string>, # Full name\n" +
		"    \"age\": <integer>, # Age in years\n" +
		"    \"height\": <float>, # Height\n" +
		"    \"active\": <boolean>, # Is active\n" +
		"    \"born\": <date>, # Birth date\n" +
		"    \"seen\": <timestamp>, # Last seen\n" +
		"    \"mail\": <email>, # Email\n" +
		"    \"tags\": <array of strings>, # Tags\n" +
		"    \"days\": <array of dates>, # Days\n" +
		"    \"scores\": <array of floats>, # Scores\n" +
		"    \"ids\": <array of integers>, # Ids\n" +
		"    \"meta\": <object>, # Metadata\n" +
		"}"
	assert.Equal(t, want, FieldsTemplate(s))
	assert.Equal(t, "{\n}", FieldsTemplate(nil))
}
