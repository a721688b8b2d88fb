package model

// OperatorWord maps an operator to the word the narrator speaks for it.
//
// The vocabulary is deliberately not the standard arithmetic one ("less",
// "into" instead of "minus", "times") and does not mirror the visual symbol
// mapping. Both mappings are preserved exactly as the curriculum uses them.
func OperatorWord(op string) string {
	switch op {
	case "+":
		return "add"
	case "-":
		return "less"
	case "*":
		return "into"
	case "/":
		return "divide by"
	}
	return op
}

// OperatorSymbol maps an operator to the glyph the display renders.
func OperatorSymbol(op string) string {
	switch op {
	case "+":
		return "+"
	case "-":
		return "-"
	case "*":
		return "×"
	case "/":
		return "÷"
	}
	return op
}

// CountByType reports how many items of the given type appear in the first
// n items of a sequence. Used to check the visible-list invariant: after
// step k, exactly CountByType(seq[:k+1], ItemDigit) digits are visible.
func CountByType(seq []DisplayItem, t DisplayItemType) int {
	n := 0
	for _, it := range seq {
		if it.Type == t {
			n++
		}
	}
	return n
}
