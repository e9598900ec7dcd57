package game

import "math/rand/v2"

// WordPicker chooses the secret word for a new turn.
type WordPicker interface {
	Pick(words []string, previous string) string
}

type randomWordPicker struct{}

func NewRandomWordPicker() WordPicker {
	return randomWordPicker{}
}

// Pick draws uniformly among the words that differ from previous, so the
// same word never comes up twice in a row unless it is the only one.
func (randomWordPicker) Pick(words []string, previous string) string {
	candidates := make([]string, 0, len(words))
	for _, w := range words {
		if w != previous {
			candidates = append(candidates, w)
		}
	}
	if len(candidates) == 0 {
		if len(words) == 0 {
			return ""
		}
		return words[0]
	}
	return candidates[rand.IntN(len(candidates))]
}
