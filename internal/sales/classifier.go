package sales

import (
	"errors"
	"regexp"
	"strings"
	"unicode/utf8"
)

// Rejection reasons returned by Classify.
var (
	ErrEmptyMessage     = errors.New("message is empty")
	ErrMessageTooShort  = errors.New("invalid message length")
	ErrNoProductKeyword = errors.New("message does not mention a known product")
)

// IsRejected reports whether err is one of the classifier rejection reasons.
func IsRejected(err error) bool {
	return errors.Is(err, ErrEmptyMessage) ||
		errors.Is(err, ErrMessageTooShort) ||
		errors.Is(err, ErrNoProductKeyword)
}

// RejectReason is a short label for err, used in logs and metrics.
func RejectReason(err error) string {
	switch {
	case errors.Is(err, ErrEmptyMessage):
		return "empty"
	case errors.Is(err, ErrMessageTooShort):
		return "too_short"
	case errors.Is(err, ErrNoProductKeyword):
		return "no_keyword"
	default:
		return "other"
	}
}

// Operation keywords a line must start with to be read as an adjustment.
// Checked in this order.
var adjustmentPrefixes = []struct {
	prefix string
	kind   Kind
}{
	{"Add", KindAdd},
	{"Multiply", KindMultiply},
	{"Subtract", KindSubtract},
}

// ClassifierOptions configures a Classifier.
type ClassifierOptions struct {
	// MinLength is the minimum number of runes in an accepted line.
	MinLength int
	// Keywords is the case-sensitive set of product tokens.
	Keywords []string
	// CurrencySymbols lists runes that may prefix a numeric token, e.g. "£$".
	CurrencySymbols string
}

// Classifier turns raw lines into SaleRecords. It holds no mutable state and is
// safe for concurrent use.
type Classifier struct {
	minLength  int
	keywords   map[string]struct{}
	keywordRe  *regexp.Regexp
	currencies string
}

// NewClassifier compiles the keyword matcher for opts.
func NewClassifier(opts ClassifierOptions) *Classifier {
	set := make(map[string]struct{}, len(opts.Keywords))
	quoted := make([]string, 0, len(opts.Keywords))
	for _, k := range opts.Keywords {
		if k == "" {
			continue
		}
		if _, dup := set[k]; dup {
			continue
		}
		set[k] = struct{}{}
		quoted = append(quoted, regexp.QuoteMeta(k))
	}

	var re *regexp.Regexp
	if len(quoted) > 0 {
		re = regexp.MustCompile(`\b(?:` + strings.Join(quoted, "|") + `)\b`)
	}
	return &Classifier{
		minLength:  opts.MinLength,
		keywords:   set,
		keywordRe:  re,
		currencies: opts.CurrencySymbols,
	}
}

// Validate checks line against the acceptance rules without building a record.
func (c *Classifier) Validate(line string) error {
	if line == "" {
		return ErrEmptyMessage
	}
	if utf8.RuneCountInString(line) < c.minLength {
		return ErrMessageTooShort
	}
	if c.keywordRe == nil || !c.keywordRe.MatchString(line) {
		return ErrNoProductKeyword
	}
	return nil
}

// Classify validates line and extracts its fields. The returned record has no
// ID or timestamp; the Service assigns those when it records it.
func (c *Classifier) Classify(line string) (SaleRecord, error) {
	if err := c.Validate(line); err != nil {
		return SaleRecord{}, err
	}

	rec := SaleRecord{Kind: c.kindOf(line), Raw: line}
	switch {
	case rec.Kind.IsAdjustment():
		c.extractAdjustment(&rec, line)
	case rec.Kind == KindRecord:
		c.extractSale(&rec, line)
	}
	return rec, nil
}

func (c *Classifier) kindOf(line string) Kind {
	for _, p := range adjustmentPrefixes {
		if strings.HasPrefix(line, p.prefix) {
			return p.kind
		}
	}
	if isDigit(line[0]) {
		return KindRecord
	}
	// Validate already guaranteed a keyword match, so KindProcess cannot be reached.
	return KindLog
}

func (c *Classifier) isKeyword(token string) bool {
	_, ok := c.keywords[token]
	return ok
}

func isDigit(b byte) bool {
	return b >= '0' && b <= '9'
}
