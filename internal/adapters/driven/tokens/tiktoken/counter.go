// Package tiktoken provides a TokenCounter backed by the cl100k_base BPE.
//
// Token counts are estimates for logging: local models use their own
// tokenisers, so the count only indicates prompt size.
package tiktoken

import (
	"sync"

	"github.com/pkoukk/tiktoken-go"

	"github.com/custodia-labs/finqa/internal/core/ports/driven"
	"github.com/custodia-labs/finqa/internal/logger"
)

// Ensure Counter implements the interface.
var _ driven.TokenCounter = (*Counter)(nil)

// DefaultEncoding is the BPE used for estimates.
const DefaultEncoding = "cl100k_base"

// runesPerToken is the fallback ratio when the encoding cannot be loaded.
const runesPerToken = 4

// encoder is the subset of *tiktoken.Tiktoken the counter uses.
type encoder interface {
	Encode(text string, allowedSpecial, disallowedSpecial []string) []int
}

// Counter counts tokens with a lazily loaded encoding. Loading may
// download the BPE ranks on first use; when that fails the counter falls
// back to a character-based estimate.
type Counter struct {
	encoding string
	load     func(name string) (encoder, error)

	once sync.Once
	enc  encoder
}

// New creates a counter for the default encoding.
func New() *Counter {
	return NewWithEncoding(DefaultEncoding)
}

// NewWithEncoding creates a counter for a named encoding.
func NewWithEncoding(encoding string) *Counter {
	return &Counter{
		encoding: encoding,
		load: func(name string) (encoder, error) {
			return tiktoken.GetEncoding(name)
		},
	}
}

// Count returns the number of tokens in text.
func (c *Counter) Count(text string) int {
	c.once.Do(func() {
		enc, err := c.load(c.encoding)
		if err != nil {
			logger.Debug("tiktoken: load %s: %v, estimating from characters", c.encoding, err)
			return
		}
		c.enc = enc
	})

	if c.enc == nil {
		return estimate(text)
	}
	return len(c.enc.Encode(text, nil, nil))
}

func estimate(text string) int {
	n := len([]rune(text))
	return (n + runesPerToken - 1) / runesPerToken
}
