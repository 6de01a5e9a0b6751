package ocr

import (
	"regexp"
	"sort"
	"strings"

	"github.com/SscSPs/splitledger/internal/core/domain"
	"github.com/SscSPs/splitledger/internal/utils"
)

const (
	defaultDescription = "Receipt"
	maxDescriptionLen  = 60
)

const number = `(\d{1,3}(?:,\d{2,3})+(?:\.\d{1,2})?|\d+(?:\.\d{1,2})?)`

// amountPattern is a labelled amount with the weight its match carries (0-1).
type amountPattern struct {
	re     *regexp.Regexp
	weight float64
}

// Ordered strongest first. A receipt usually repeats its total; the strongest label wins.
var amountPatterns = []amountPattern{
	{regexp.MustCompile(`(?i)rupees?\s+[^\n]*?` + number + `\s*only`), 1.0},
	{regexp.MustCompile(`(?i)(?:grand\s+total|net\s+amount|amount\s+payable|total\s+payable|amount\s+due)[^\d\n]{0,12}` + number), 1.0},
	{regexp.MustCompile(`(?i)\btotal\b[^\d\n]{0,12}` + number), 0.9},
	{regexp.MustCompile(`(?i)(?:₹|rs\.?|inr|\$|€|£)\s*` + number), 0.6},
	{regexp.MustCompile(number + `\s*(?:₹|rs\.?|inr)`), 0.5},
}

var digitsOnly = regexp.MustCompile(`^[\d\s.,:/\-₹$€£]+$`)

// ExtractCandidates scans OCR text for likely totals. ocrConfidence is the engine's
// 0-100 confidence in the text itself; each candidate scales it by how strongly its
// label suggests a total. Candidates come back strongest first, one per distinct amount.
func ExtractCandidates(text string, ocrConfidence float64) []domain.ReceiptCandidate {
	if strings.TrimSpace(text) == "" {
		return nil
	}
	description := guessDescription(text)

	best := map[int64]domain.ReceiptCandidate{}
	for _, p := range amountPatterns {
		for _, m := range p.re.FindAllStringSubmatch(text, -1) {
			amount, err := utils.ParseMajorAmount(m[1])
			if err != nil {
				continue
			}
			conf := clampConfidence(ocrConfidence * p.weight)
			if prev, ok := best[amount]; ok && prev.Confidence >= conf {
				continue
			}
			best[amount] = domain.ReceiptCandidate{
				Amount:      amount,
				Description: description,
				Confidence:  conf,
			}
		}
	}

	out := make([]domain.ReceiptCandidate, 0, len(best))
	for _, c := range best {
		out = append(out, c)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Confidence != out[j].Confidence {
			return out[i].Confidence > out[j].Confidence
		}
		return out[i].Amount > out[j].Amount
	})
	return out
}

// guessDescription picks the first line that reads like a merchant name.
func guessDescription(text string) string {
	for _, line := range strings.Split(text, "\n") {
		line = strings.TrimSpace(line)
		if len(line) < 3 || digitsOnly.MatchString(line) {
			continue
		}
		if len(line) > maxDescriptionLen {
			line = strings.TrimSpace(line[:maxDescriptionLen])
		}
		return line
	}
	return defaultDescription
}

func clampConfidence(c float64) float64 {
	switch {
	case c < 0:
		return 0
	case c > 100:
		return 100
	}
	return c
}
