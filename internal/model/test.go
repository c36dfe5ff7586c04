package model

// TestDefinition is one complete exam paper as served by the test source.
// It is treated as immutable once a session has started against it.
type TestDefinition struct {
	ID        string     `json:"id"`
	Name      string     `json:"name"`
	Subject   string     `json:"subject"`
	Lesson    string     `json:"lesson"`
	Duration  int        `json:"duration"` // seconds allotted for the whole test
	Questions []Question `json:"questions"`
}

type Question struct {
	ID             string           `json:"id"`
	Content        string           `json:"content"` // rich text, may embed media references
	Options        []QuestionOption `json:"options"`
	CorrectOptions []string         `json:"correct_options"` // option letters, one or more
	PositiveMark   float64          `json:"positive_mark"`
	NegativeMark   float64          `json:"negative_mark"`
	Explanation    string           `json:"explanation"`
}

type QuestionOption struct {
	ID      string `json:"id"`
	Content string `json:"content"`
}

// OptionLetter maps an option position to its letter: 0→A, 1→B, ...
// Positions beyond Z wrap into double letters (26→AA) so the mapping stays total.
func OptionLetter(index int) string {
	if index < 0 {
		return ""
	}
	letter := string(rune('A' + index%26))
	for index >= 26 {
		index = index/26 - 1
		letter = string(rune('A'+index%26)) + letter
	}
	return letter
}

// HasCorrectOption reports whether the given letter is in the question's
// correct-option set.
func (q Question) HasCorrectOption(letter string) bool {
	for _, c := range q.CorrectOptions {
		if c == letter {
			return true
		}
	}
	return false
}

// MaxMarks is the sum of positive marks over all questions, the denominator
// of the percentage computation.
func (t *TestDefinition) MaxMarks() float64 {
	var sum float64
	for _, q := range t.Questions {
		sum += q.PositiveMark
	}
	return sum
}
