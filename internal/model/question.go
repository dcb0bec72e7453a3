package model

// QuestionPair is a question and its honest answer. The guesser sees only
// the question; everyone else sees only the answer.
type QuestionPair struct {
	Question string
	Answer   string
}
