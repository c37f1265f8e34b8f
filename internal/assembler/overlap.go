package assembler

import (
	"math/bits"
	"strings"

	"github.com/go-dedup/simhash"
)

// trimOverlap removes from next the text already present at the end of
// prev. It first looks for the longest exact suffix/prefix match within
// the window; when recognition noise defeats exact matching, it falls
// back to comparing simhash fingerprints of the boundary windows and
// drops next's head window if they are near-duplicates.
func trimOverlap(prev, next string, opts Options) string {
	p := []rune(prev)
	n := []rune(next)

	window := opts.Window
	if window > len(p) {
		window = len(p)
	}
	if window > len(n) {
		window = len(n)
	}

	for l := window; l >= opts.MinMatch && l > 0; l-- {
		if string(p[len(p)-l:]) == string(n[:l]) {
			return strings.TrimSpace(string(n[l:]))
		}
	}

	if opts.SimhashThreshold >= 0 && window >= opts.MinMatch {
		tail := string(p[len(p)-window:])
		head := string(n[:window])
		if hammingDistance(fingerprint(tail), fingerprint(head)) <= opts.SimhashThreshold {
			return strings.TrimSpace(string(n[window:]))
		}
	}

	return next
}

// boundaryFeatureSet feeds word bigrams to simhash. Bigrams keep enough
// word order for short boundary windows to fingerprint distinctly.
type boundaryFeatureSet struct {
	text string
}

func (b boundaryFeatureSet) GetFeatures() []simhash.Feature {
	words := strings.Fields(strings.ToLower(b.text))

	features := make([]simhash.Feature, 0, 2*len(words))
	for i, w := range words {
		features = append(features, simhash.NewFeature([]byte(w)))
		if i+1 < len(words) {
			features = append(features, simhash.NewFeature([]byte(w+" "+words[i+1])))
		}
	}

	return features
}

// fingerprint computes the 64-bit simhash of a boundary window.
func fingerprint(text string) uint64 {
	sh := simhash.NewSimhash()
	return sh.GetSimhash(boundaryFeatureSet{text: text})
}

func hammingDistance(a, b uint64) int {
	return bits.OnesCount64(a ^ b)
}
