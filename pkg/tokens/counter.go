package tokens

import (
	"github.com/pkoukk/tiktoken-go"
)

// Counter estimates token usage for text. It prefers the cl100k_base
// tokenizer; when the encoding cannot be loaded (offline environments) it
// falls back to the rough 4-characters-per-token heuristic.
type Counter struct {
	encoder *tiktoken.Tiktoken
}

func NewCounter() *Counter {
	enc, err := tiktoken.GetEncoding("cl100k_base")
	if err != nil {
		return &Counter{}
	}
	return &Counter{encoder: enc}
}

func (c *Counter) Count(text string) int {
	if text == "" {
		return 0
	}
	if c.encoder == nil {
		return (len(text) + 3) / 4
	}
	return len(c.encoder.Encode(text, nil, nil))
}

func (c *Counter) CountAll(texts ...string) int {
	total := 0
	for _, t := range texts {
		total += c.Count(t)
	}
	return total
}
