package demix

// DownMixParams are the five weights the demixing lattice consults:
// alpha/beta (S5<->S7), gamma (T2<->T4), delta (S3<->S5), and w (Tf2<->T2,
// and folded into the S3<->S5 step for the *tf3* channels). They are read
// from the active Demixing-Info parameter subblock at a temporal unit's
// timestamp; DefaultDownMixParams supplies the fallback when no subblock
// covers it yet.
type DownMixParams struct {
	Alpha float64
	Beta  float64
	Gamma float64
	Delta float64
	W     float64
}

// defaultModeParams tabulates alpha/beta/gamma/delta per dmixp_mode
// (values 1..6 per spec.md §4.6); the literal constants match the worked
// examples in the corpus's demixing module tests (alpha=1 or 0.866,
// beta=0.866, gamma=0.707 or 0.866, delta=0.707 or 0.866).
var defaultModeParams = map[uint8]DownMixParams{
	1: {Alpha: 1, Beta: 0.866, Gamma: 0.866, Delta: 0.866},
	2: {Alpha: 1, Beta: 0.866, Gamma: 0.866, Delta: 0.707},
	3: {Alpha: 1, Beta: 0.866, Gamma: 0.707, Delta: 0.866},
	4: {Alpha: 1, Beta: 0.866, Gamma: 0.707, Delta: 0.707},
	5: {Alpha: 0.866, Beta: 0.866, Gamma: 0.866, Delta: 0.866},
	6: {Alpha: 0.866, Beta: 0.866, Gamma: 0.866, Delta: 0.707},
}

// defaultWValues tabulates the default_w lattice (spec.md §4.6:
// "default_w selects a w value"), indexed 0..3 as carried in the
// Demixing-Info subblock.
var defaultWValues = [4]float64{0, 0.25, 0.5, 0.75}

// DefaultDownMixParams returns the weights for dmixp_mode/default_w when no
// Demixing-Info parameter subblock is active yet for this temporal unit.
func DefaultDownMixParams(mode uint8, defaultW uint8) DownMixParams {
	p := defaultModeParams[mode]
	if int(defaultW) < len(defaultWValues) {
		p.W = defaultWValues[defaultW]
	}
	return p
}
