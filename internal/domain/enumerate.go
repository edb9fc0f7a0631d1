package domain

// Play is a candidate set of cards together with its classification.
type Play struct {
	Cards []Card
	Class Classification
}

// Enumerate produces every play legal to place on the table right now.
// With an empty lead every structurally valid single, pair, triple, and
// 5-card hand drawable from the hand is a candidate; when firstPlay is
// set, candidates are restricted to those containing the opening
// constraint card. Against a non-empty lead only plays that beat it are
// returned. The result is complete: a play absent from it is illegal.
func Enumerate(hand []Card, lead []Card, firstPlay bool, openingValue int32) []Play {
	sorted := make([]Card, len(hand))
	copy(sorted, hand)
	SortHand(sorted)

	var plays []Play
	if len(lead) == 0 {
		plays = enumerateOpen(sorted)
	} else {
		leadClass, err := Classify(lead)
		if err != nil {
			return nil
		}
		plays = enumerateBeating(sorted, lead, leadClass)
	}

	if firstPlay {
		plays = filterContainingValue(plays, openingValue)
	}
	return plays
}

func enumerateOpen(sorted []Card) []Play {
	var plays []Play
	plays = append(plays, findSingles(sorted, nil)...)
	plays = append(plays, findGroups(sorted, 2, nil)...)
	plays = append(plays, findGroups(sorted, 3, nil)...)
	plays = append(plays, findFiveCardHands(sorted, nil)...)
	return plays
}

func enumerateBeating(sorted, lead []Card, leadClass Classification) []Play {
	switch leadClass.Type {
	case Single:
		return findSingles(sorted, &leadClass)
	case Pair:
		return findGroups(sorted, 2, &leadClass)
	case Triple:
		return findGroups(sorted, 3, &leadClass)
	}
	return findFiveCardHands(sorted, &leadClass)
}

func findSingles(sorted []Card, lead *Classification) []Play {
	var plays []Play
	for _, c := range sorted {
		class := Classification{Type: Single, Value: CardValue(c)}
		if lead != nil && !CanBeat(*lead, class) {
			continue
		}
		plays = append(plays, Play{Cards: []Card{c}, Class: class})
	}
	return plays
}

// findGroups enumerates every same-rank subset of the given size. Ranks
// holding more than size cards contribute one play per suit combination.
func findGroups(sorted []Card, size int, lead *Classification) []Play {
	var plays []Play
	byRank := make(map[int32][]Card)
	for _, c := range sorted {
		byRank[c.Rank] = append(byRank[c.Rank], c)
	}

	for r := int32(0); r <= 12; r++ {
		group := byRank[r]
		if len(group) < size {
			continue
		}
		it := NewSubsetIterator(len(group), size)
		for it.Next() {
			cards := pick(group, it.Indices())
			class, err := Classify(cards)
			if err != nil {
				continue
			}
			if lead != nil && !CanBeat(*lead, class) {
				continue
			}
			plays = append(plays, Play{Cards: cards, Class: class})
		}
	}
	return plays
}

// findFiveCardHands walks every 5-card subset lazily and keeps the ones
// the classifier accepts (and that beat the lead, when responding).
func findFiveCardHands(sorted []Card, lead *Classification) []Play {
	if len(sorted) < 5 {
		return nil
	}
	var plays []Play
	it := NewSubsetIterator(len(sorted), 5)
	for it.Next() {
		cards := pick(sorted, it.Indices())
		class, err := Classify(cards)
		if err != nil {
			continue
		}
		if lead != nil && !CanBeat(*lead, class) {
			continue
		}
		plays = append(plays, Play{Cards: cards, Class: class})
	}
	return plays
}

func filterContainingValue(plays []Play, value int32) []Play {
	kept := plays[:0]
	for _, p := range plays {
		for _, c := range p.Cards {
			if CardValue(c) == value {
				kept = append(kept, p)
				break
			}
		}
	}
	return kept
}

func pick(cards []Card, indices []int) []Card {
	out := make([]Card, len(indices))
	for i, idx := range indices {
		out[i] = cards[idx]
	}
	return out
}

// SubsetIterator yields the k-element index subsets of {0..n-1} in
// lexicographic order without materializing them all at once.
type SubsetIterator struct {
	n, k    int
	indices []int
	started bool
	done    bool
}

// NewSubsetIterator prepares an iterator over k-subsets of n elements.
func NewSubsetIterator(n, k int) *SubsetIterator {
	return &SubsetIterator{n: n, k: k, done: k > n || k <= 0}
}

// Next advances to the following subset, returning false once exhausted.
func (it *SubsetIterator) Next() bool {
	if it.done {
		return false
	}
	if !it.started {
		it.started = true
		it.indices = make([]int, it.k)
		for i := range it.indices {
			it.indices[i] = i
		}
		return true
	}
	// Find the rightmost index that can still move up.
	i := it.k - 1
	for i >= 0 && it.indices[i] == it.n-it.k+i {
		i--
	}
	if i < 0 {
		it.done = true
		return false
	}
	it.indices[i]++
	for j := i + 1; j < it.k; j++ {
		it.indices[j] = it.indices[j-1] + 1
	}
	return true
}

// Indices returns the current subset. The slice is reused between calls.
func (it *SubsetIterator) Indices() []int {
	return it.indices
}

// Reset rewinds the iterator so the sequence can be replayed.
func (it *SubsetIterator) Reset() {
	it.started = false
	it.done = it.k > it.n || it.k <= 0
}
