package model

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDisplayItem_UnmarshalJSON_Digit(t *testing.T) {
	var it DisplayItem
	err := json.Unmarshal([]byte(`{"type":"digit","value":34,"display":"34","position":0}`), &it)
	require.NoError(t, err)

	assert.Equal(t, ItemDigit, it.Type)
	assert.Equal(t, int64(34), it.Digit)
	assert.Equal(t, "34", it.Display)
	assert.Equal(t, 0, it.Position)
}

func TestDisplayItem_UnmarshalJSON_Operator(t *testing.T) {
	var it DisplayItem
	err := json.Unmarshal([]byte(`{"type":"operator","value":"+","position":1}`), &it)
	require.NoError(t, err)

	assert.Equal(t, ItemOperator, it.Type)
	assert.Equal(t, "+", it.Operator)
	assert.Equal(t, 1, it.Position)
}

func TestDisplayItem_UnmarshalJSON_Equals(t *testing.T) {
	var it DisplayItem
	err := json.Unmarshal([]byte(`{"type":"equals","position":4}`), &it)
	require.NoError(t, err)

	assert.Equal(t, ItemEquals, it.Type)
	assert.Equal(t, 4, it.Position)
}

func TestDisplayItem_UnmarshalJSON_Errors(t *testing.T) {
	tests := []struct {
		name string
		in   string
	}{
		{"unknown type", `{"type":"emoji","value":1}`},
		{"digit with string value", `{"type":"digit","value":"three"}`},
		{"operator with numeric value", `{"type":"operator","value":7}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var it DisplayItem
			assert.Error(t, json.Unmarshal([]byte(tt.in), &it))
		})
	}
}

func TestDisplayItem_String(t *testing.T) {
	assert.Equal(t, "7", DisplayItem{Type: ItemDigit, Digit: 7}.String())
	assert.Equal(t, "007", DisplayItem{Type: ItemDigit, Digit: 7, Display: "007"}.String())
	assert.Equal(t, "×", DisplayItem{Type: ItemOperator, Operator: "*"}.String())
	assert.Equal(t, "=", DisplayItem{Type: ItemEquals}.String())
}

func TestQuestion_EffectiveTimeLimit(t *testing.T) {
	assert.Equal(t, 9*time.Second, Question{TimeLimitSeconds: 9}.EffectiveTimeLimit())
	assert.Equal(t, 10*time.Second, Question{}.EffectiveTimeLimit(), "unset limit falls back to default")
	assert.Equal(t, 10*time.Second, Question{TimeLimitSeconds: -3}.EffectiveTimeLimit())
}

func makeQuestions(setID int64, n int) []Question {
	qs := make([]Question, n)
	for i := range qs {
		qs[i] = Question{ID: setID*100 + int64(i), QuestionNumber: i + 1, SetID: setID}
	}
	return qs
}

func TestFlatten_AssignsContiguousIndexes(t *testing.T) {
	sets := []QuestionSet{{ID: 5, Name: "Set 1"}, {ID: 7, Name: "Set 2"}}
	bySet := map[int64][]Question{
		5: makeQuestions(5, 3),
		7: makeQuestions(7, 2),
	}

	flat := Flatten(sets, bySet)
	require.Len(t, flat, 5)

	for i, q := range flat {
		assert.Equal(t, i, q.GlobalIndex, "GlobalIndex must equal position")
	}

	// SetIndex is non-decreasing in load order.
	prev := 0
	for _, q := range flat {
		assert.GreaterOrEqual(t, q.SetIndex, prev)
		prev = q.SetIndex
	}

	assert.Equal(t, 0, flat[0].SetIndex)
	assert.Equal(t, 1, flat[3].SetIndex)
	assert.Equal(t, 0, flat[3].QuestionInSetIndex)
	assert.Equal(t, 1, flat[4].QuestionInSetIndex)

	// OriginalOrder follows the given set order.
	assert.Equal(t, 0, sets[0].OriginalOrder)
	assert.Equal(t, 1, sets[1].OriginalOrder)
}

func TestFlatten_ReorderRoundTrip(t *testing.T) {
	setA := QuestionSet{ID: 1, Name: "A"}
	setB := QuestionSet{ID: 2, Name: "B"}
	bySet := map[int64][]Question{
		1: makeQuestions(1, 2),
		2: makeQuestions(2, 3),
	}

	original := Flatten([]QuestionSet{setA, setB}, bySet)
	_ = Flatten([]QuestionSet{setB, setA}, bySet)
	restored := Flatten([]QuestionSet{setA, setB}, bySet)

	assert.Equal(t, original, restored, "reordering to [B,A] then back must restore all indexes")
}

func TestGroupBySet_PreservesOrder(t *testing.T) {
	sets := []QuestionSet{{ID: 1}, {ID: 2}}
	bySet := map[int64][]Question{1: makeQuestions(1, 2), 2: makeQuestions(2, 2)}
	flat := Flatten(sets, bySet)

	grouped := GroupBySet(flat)
	require.Len(t, grouped, 2)
	assert.Equal(t, int64(100), grouped[1][0].ID)
	assert.Equal(t, int64(101), grouped[1][1].ID)
	assert.Equal(t, int64(200), grouped[2][0].ID)
}
