package states

import (
	"cmp"
	"slices"
	"strconv"
	"strings"
	"unicode"

	"github.com/aretw0/spire/pkg/domain"
)

// maxCardCost bounds the numbers accepted as a card cost.
const maxCardCost = 10

// ScanHand rebuilds the hand from the tokens recognized over it, read left to right.
// A token with Han characters names a card; a following number from 0 to maxCardCost is that
// card's cost. A name followed by another name, or left pending at the end, costs 0. Other
// tokens are ignored.
func ScanHand(items []domain.RecognizedItem) []domain.HandCard {
	ordered := slices.Clone(items)
	slices.SortStableFunc(ordered, func(a, b domain.RecognizedItem) int {
		return cmp.Compare(a.Box.Left, b.Box.Left)
	})

	var (
		hand    []domain.HandCard
		pending string
	)
	flush := func(cost int) {
		hand = append(hand, domain.HandCard{Name: pending, Cost: cost, Index: len(hand)})
		pending = ""
	}

	for _, item := range ordered {
		text := strings.TrimSpace(item.Text)
		switch {
		case text == "":
		case hasHan(text):
			if pending != "" {
				flush(0)
			}
			pending = text
		case isDigits(text) && pending != "":
			cost, err := strconv.Atoi(text)
			if err != nil || cost > maxCardCost {
				continue
			}
			flush(cost)
		}
	}
	if pending != "" {
		flush(0)
	}
	return hand
}

// FindCard resolves a card named by the reasoner against the hand: exact name first, then a
// name containing the answer, then an answer containing the name, then the same checks ignoring
// case and spaces.
func FindCard(target string, hand []domain.HandCard) (domain.HandCard, bool) {
	target = strings.TrimSpace(target)
	if target == "" {
		return domain.HandCard{}, false
	}
	checks := []func(name string) bool{
		func(name string) bool { return name == target },
		func(name string) bool { return strings.Contains(name, target) },
		func(name string) bool { return strings.Contains(target, name) },
		func(name string) bool {
			a, b := squashLower(name), squashLower(target)
			return a != "" && (strings.Contains(a, b) || strings.Contains(b, a))
		},
	}
	for _, check := range checks {
		for _, card := range hand {
			if check(card.Name) {
				return card, true
			}
		}
	}
	return domain.HandCard{}, false
}

func hasHan(text string) bool {
	for _, r := range text {
		if unicode.Is(unicode.Han, r) {
			return true
		}
	}
	return false
}

func isDigits(text string) bool {
	for _, r := range text {
		if r < '0' || r > '9' {
			return false
		}
	}
	return text != ""
}

func squashLower(text string) string {
	return strings.ToLower(squashSpaces(text))
}
