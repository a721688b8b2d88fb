package model

import (
	"encoding/json"
	"fmt"
	"time"
)

// DefaultTimeLimitSeconds is used when the backend leaves a question's time
// limit unset (nullable column upstream).
const DefaultTimeLimitSeconds = 10

// DisplayItemType discriminates the display-sequence tagged union.
type DisplayItemType string

const (
	// ItemDigit is a number to reveal and speak.
	ItemDigit DisplayItemType = "digit"
	// ItemOperator is an arithmetic operator between digits.
	ItemOperator DisplayItemType = "operator"
	// ItemEquals marks the end of the sequence ("time to calculate").
	ItemEquals DisplayItemType = "equals"
)

// DisplayItem is one element of a question's reveal timeline.
//
// Exactly one of Digit/Operator carries the value, selected by Type. Digit
// items may carry an optional pre-formatted Display string; when present it
// takes precedence over the numeric value for rendering.
type DisplayItem struct {
	Type     DisplayItemType
	Digit    int64  // valid when Type == ItemDigit
	Operator string // valid when Type == ItemOperator
	Display  string // optional formatted form, digits only
	Position int
}

// displayItemWire is the backend JSON shape. Value is heterogeneous: a number
// for digits, a string for operators, absent for equals.
type displayItemWire struct {
	Type     DisplayItemType `json:"type"`
	Value    json.RawMessage `json:"value,omitempty"`
	Display  string          `json:"display,omitempty"`
	Position int             `json:"position"`
}

// UnmarshalJSON decodes the tagged union, validating the tag and the value
// shape it implies.
func (it *DisplayItem) UnmarshalJSON(b []byte) error {
	var w displayItemWire
	if err := json.Unmarshal(b, &w); err != nil {
		return err
	}

	switch w.Type {
	case ItemDigit:
		if err := json.Unmarshal(w.Value, &it.Digit); err != nil {
			return fmt.Errorf("digit item value: %w", err)
		}
	case ItemOperator:
		if err := json.Unmarshal(w.Value, &it.Operator); err != nil {
			return fmt.Errorf("operator item value: %w", err)
		}
	case ItemEquals:
		// No value.
	default:
		return fmt.Errorf("unknown display item type %q", w.Type)
	}

	it.Type = w.Type
	it.Display = w.Display
	it.Position = w.Position
	return nil
}

// MarshalJSON re-encodes the item in the backend wire shape, so results
// payloads round-trip through the same format the API produces.
func (it DisplayItem) MarshalJSON() ([]byte, error) {
	w := displayItemWire{Type: it.Type, Display: it.Display, Position: it.Position}

	switch it.Type {
	case ItemDigit:
		v, err := json.Marshal(it.Digit)
		if err != nil {
			return nil, err
		}
		w.Value = v
	case ItemOperator:
		v, err := json.Marshal(it.Operator)
		if err != nil {
			return nil, err
		}
		w.Value = v
	case ItemEquals:
		// No value.
	default:
		return nil, fmt.Errorf("unknown display item type %q", it.Type)
	}

	return json.Marshal(w)
}

// String renders the item the way the on-screen display does: the formatted
// digit (or its value), the visual operator symbol, or "=".
func (it DisplayItem) String() string {
	switch it.Type {
	case ItemDigit:
		if it.Display != "" {
			return it.Display
		}
		return fmt.Sprintf("%d", it.Digit)
	case ItemOperator:
		return OperatorSymbol(it.Operator)
	case ItemEquals:
		return "="
	}
	return string(it.Type)
}

// QuestionSet is a named, ordered collection of questions of one arithmetic
// type. OriginalOrder tracks its position in the current playback ordering
// and is the only field mutated after load (during manual reordering).
type QuestionSet struct {
	ID             int64  `json:"id"`
	Name           string `json:"name"`
	TotalQuestions int    `json:"totalQuestions"`
	Type           string `json:"type"`
	OriginalOrder  int    `json:"originalOrder"`
}

// Question is one drill with its reveal timeline.
//
// The snake_case fields come from the backend; the camelCase annotations are
// assigned by Flatten and recomputed on every reorder. Nothing else is
// mutated after load.
type Question struct {
	ID                int64         `json:"id"`
	QuestionNumber    int           `json:"question_number"`
	DisplaySequence   []DisplayItem `json:"display_sequence"`
	TimeLimitSeconds  int           `json:"time_limit"`
	Answer            float64       `json:"answer"`
	FormattedQuestion string        `json:"formatted_question"`

	SetID              int64 `json:"setId"`
	SetIndex           int   `json:"setIndex"`
	QuestionInSetIndex int   `json:"questionInSetIndex"`
	GlobalIndex        int   `json:"globalIndex"`
}

// EffectiveTimeLimit returns the question's time budget, falling back to the
// default when the backend left it unset.
func (q Question) EffectiveTimeLimit() time.Duration {
	secs := q.TimeLimitSeconds
	if secs <= 0 {
		secs = DefaultTimeLimitSeconds
	}
	return time.Duration(secs) * time.Second
}

// Flatten concatenates per-set question lists following the order of sets,
// assigning every index annotation: the set's OriginalOrder, each question's
// SetIndex, GlobalIndex and QuestionInSetIndex.
//
// The sets slice is updated in place; the returned questions are copies of
// the entries in bySet, so repeated flattens (reorders) never corrupt the
// per-set source lists.
func Flatten(sets []QuestionSet, bySet map[int64][]Question) []Question {
	var flat []Question
	for si := range sets {
		sets[si].OriginalOrder = si
		for qi, q := range bySet[sets[si].ID] {
			q.SetID = sets[si].ID
			q.SetIndex = si
			q.QuestionInSetIndex = qi
			q.GlobalIndex = len(flat)
			flat = append(flat, q)
		}
	}
	return flat
}

// GroupBySet splits a flattened question list back into per-set lists,
// preserving question order within each set.
func GroupBySet(questions []Question) map[int64][]Question {
	bySet := make(map[int64][]Question)
	for _, q := range questions {
		bySet[q.SetID] = append(bySet[q.SetID], q)
	}
	return bySet
}
