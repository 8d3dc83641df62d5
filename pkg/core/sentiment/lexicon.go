// Package sentiment scores news text with a polarity in [-1, 1]:
// negative below zero, positive above, 0 for neutral or empty text.
package sentiment

import (
	"context"
	"strings"
	"unicode"
)

// Scorer returns the polarity of a text.
type Scorer interface {
	Score(ctx context.Context, text string) (float64, error)
}

// negationFactor flips and dampens a negated word ("not good" is mildly bad).
const negationFactor = -0.5

var negations = map[string]bool{
	"not": true, "no": true, "never": true, "neither": true, "nor": true,
	"without": true, "hardly": true, "barely": true, "cannot": true,
	"isn't": true, "aren't": true, "wasn't": true, "weren't": true,
	"don't": true, "doesn't": true, "didn't": true, "won't": true,
	"can't": true, "couldn't": true, "shouldn't": true,
}

var intensifiers = map[string]float64{
	"very": 1.3, "extremely": 1.5, "highly": 1.3, "hugely": 1.4, "really": 1.2,
	"sharply": 1.4, "significantly": 1.3, "most": 1.3,
	"slightly": 0.5, "somewhat": 0.7,
}

// wordPolarity is a small finance-leaning polarity lexicon.
var wordPolarity = map[string]float64{
	// positive
	"good": 0.7, "great": 0.8, "excellent": 1.0, "best": 1.0, "better": 0.5,
	"strong": 0.43, "stronger": 0.5, "robust": 0.4, "solid": 0.3,
	"gain": 0.4, "gains": 0.4, "gained": 0.4, "rise": 0.3, "rises": 0.3, "rose": 0.3,
	"surge": 0.6, "surges": 0.6, "surged": 0.6, "soar": 0.7, "soars": 0.7, "soared": 0.7,
	"jump": 0.4, "jumps": 0.4, "jumped": 0.4, "rally": 0.5, "rallies": 0.5,
	"beat": 0.5, "beats": 0.5, "record": 0.4, "growth": 0.4, "grow": 0.3, "grows": 0.3,
	"profit": 0.4, "profitable": 0.5, "upgrade": 0.6, "upgraded": 0.6, "upgrades": 0.6,
	"bullish": 0.7, "outperform": 0.6, "optimistic": 0.6, "positive": 0.5,
	"boost": 0.5, "boosts": 0.5, "win": 0.6, "wins": 0.6, "success": 0.6, "successful": 0.7,
	"happy": 0.8, "love": 0.5, "buy": 0.2, "high": 0.16, "higher": 0.25, "up": 0.1,
	"innovative": 0.5, "impressive": 0.8, "recover": 0.3, "recovery": 0.3,
	// negative
	"bad": -0.7, "poor": -0.4, "worse": -0.6, "worst": -1.0, "terrible": -1.0,
	"weak": -0.4, "weaker": -0.5, "loss": -0.4, "losses": -0.4, "lose": -0.4, "lost": -0.3,
	"fall": -0.3, "falls": -0.3, "fell": -0.3, "drop": -0.3, "drops": -0.3, "dropped": -0.3,
	"decline": -0.4, "declines": -0.4, "declined": -0.4, "slip": -0.2, "slips": -0.2,
	"plunge": -0.7, "plunges": -0.7, "plunged": -0.7, "crash": -0.8, "crashes": -0.8,
	"slump": -0.6, "slumps": -0.6, "tumble": -0.6, "tumbles": -0.6, "sink": -0.4, "sinks": -0.4,
	"miss": -0.4, "misses": -0.4, "missed": -0.4, "downgrade": -0.6, "downgraded": -0.6,
	"bearish": -0.7, "underperform": -0.6, "pessimistic": -0.6, "negative": -0.3,
	"risk": -0.2, "risks": -0.2, "fear": -0.6, "fears": -0.6, "worry": -0.5, "worries": -0.5,
	"concern": -0.3, "concerns": -0.3, "lawsuit": -0.5, "probe": -0.4, "fine": -0.2,
	"warning": -0.4, "warns": -0.4, "cut": -0.3, "cuts": -0.3, "layoffs": -0.6,
	"sell": -0.2, "selloff": -0.6, "low": -0.16, "lower": -0.25, "down": -0.16,
	"volatile": -0.3, "uncertain": -0.4, "uncertainty": -0.4, "recession": -0.7,
	"bankruptcy": -0.9, "fraud": -0.9, "scandal": -0.8,
}

// LexiconScorer averages the polarity of known words. A negation within the
// two preceding words flips a word's polarity; an intensifier directly before
// it scales it.
type LexiconScorer struct{}

func (LexiconScorer) Score(_ context.Context, text string) (float64, error) {
	return Polarity(text), nil
}

// Polarity is the lexicon score of text.
func Polarity(text string) float64 {
	words := tokenize(text)
	var sum float64
	var n int
	for i, w := range words {
		p, ok := wordPolarity[w]
		if !ok {
			continue
		}
		if i > 0 {
			if m, ok := intensifiers[words[i-1]]; ok {
				p = clamp(p * m)
			}
		}
		for back := 1; back <= 2 && i-back >= 0; back++ {
			if negations[words[i-back]] {
				p *= negationFactor
				break
			}
		}
		sum += p
		n++
	}
	if n == 0 {
		return 0
	}
	return clamp(sum / float64(n))
}

func tokenize(text string) []string {
	text = strings.ReplaceAll(strings.ToLower(text), "’", "'")
	return strings.FieldsFunc(text, func(r rune) bool {
		return !unicode.IsLetter(r) && r != '\''
	})
}

func clamp(v float64) float64 {
	if v > 1 {
		return 1
	}
	if v < -1 {
		return -1
	}
	return v
}
