package textmatch

// Ratio returns the Ratcliff/Obershelp similarity of a and b: twice the
// number of matched runes divided by the total rune count. Matches are found
// by taking the longest common block and recursing on both sides of it.
// Two empty strings are identical and score 1.0.
func Ratio(a, b string) float64 {
	ra, rb := []rune(a), []rune(b)
	total := len(ra) + len(rb)
	if total == 0 {
		return 1.0
	}

	m := newBlockMatcher(ra, rb)
	return 2.0 * float64(m.matched(0, len(ra), 0, len(rb))) / float64(total)
}

type blockMatcher struct {
	a, b []rune
	b2j  map[rune][]int
}

func newBlockMatcher(a, b []rune) *blockMatcher {
	b2j := make(map[rune][]int, len(b))
	for j, r := range b {
		b2j[r] = append(b2j[r], j)
	}
	return &blockMatcher{a: a, b: b, b2j: b2j}
}

// longest finds the longest block a[i:i+k] == b[j:j+k] inside the given
// ranges. Of equally long blocks the one ending first in a wins, then the
// one starting first in b.
func (m *blockMatcher) longest(alo, ahi, blo, bhi int) (besti, bestj, bestk int) {
	besti, bestj = alo, blo
	j2len := map[int]int{}
	for i := alo; i < ahi; i++ {
		next := map[int]int{}
		for _, j := range m.b2j[m.a[i]] {
			if j < blo {
				continue
			}
			if j >= bhi {
				break
			}
			k := j2len[j-1] + 1
			next[j] = k
			if k > bestk {
				besti, bestj, bestk = i-k+1, j-k+1, k
			}
		}
		j2len = next
	}
	return besti, bestj, bestk
}

func (m *blockMatcher) matched(alo, ahi, blo, bhi int) int {
	i, j, k := m.longest(alo, ahi, blo, bhi)
	if k == 0 {
		return 0
	}
	total := k
	if alo < i && blo < j {
		total += m.matched(alo, i, blo, j)
	}
	if i+k < ahi && j+k < bhi {
		total += m.matched(i+k, ahi, j+k, bhi)
	}
	return total
}
