package ddi

type labelState int

const (
	noLabel labelState = iota
	falseProvisional
	trueFinal
)

// SentenceLabel collapses the pairs of a sentence into a single label.
//
// Pairs are scanned in order. The first non-interacting pair sets a provisional
// "false" label. The first interacting pair sets its type as the label and ends
// the scan, so later pairs are never looked at. ok is false when no pair matched
// either branch.
func SentenceLabel(pairs []Pair) (label string, ok bool) {
	state := noLabel
scan:
	for _, p := range pairs {
		switch p.DDI {
		case ddiFalse:
			if state == noLabel {
				state = falseProvisional
				label = ddiFalse
			}
		case ddiTrue:
			state = trueFinal
			label = p.Type
			break scan
		}
	}
	return label, state != noLabel
}
