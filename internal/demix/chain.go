package demix

// Demixer appends newly-synthesized demixed labels to a copy of its input
// LabelMap, using params for whichever weights its lattice step needs.
// Implementations never mutate the map they are handed.
type Demixer func(in LabelMap, params DownMixParams) LabelMap

// S1ToS2 recovers the stereo pair from a transmitted mono downmix:
// DemixedR2 = 2*Mono - L2.
func S1ToS2(in LabelMap, _ DownMixParams) LabelMap {
	mono, haveMono := in[LabelMono]
	l2, haveL2 := in[LabelL2]
	if !haveMono || !haveL2 {
		return in
	}
	out := in.Clone()
	out[LabelDemixedR2] = combine(l2, mono, func(l, m float64) float64 { return 2*m - l })
	return out
}

// S2ToS3 recovers the 3.1.2 front pair from the stereo pair: DemixedL3 =
// L2 - C*2^(-1/2), symmetric for R. When R2 was not transmitted, the
// DemixedR2 that S1ToS2 recovers stands in for it.
func S2ToS3(in LabelMap, _ DownMixParams) LabelMap {
	const invSqrt2 = 0.70710678118654752440
	l2, haveL2 := in[LabelL2]
	r2, haveR2 := in[LabelR2]
	if !haveR2 {
		r2, haveR2 = in[LabelDemixedR2]
	}
	c, haveC := in[LabelCentre]
	if !haveL2 || !haveR2 || !haveC {
		return in
	}
	out := in.Clone()
	out[LabelDemixedL3] = combine(l2, c, func(l, c float64) float64 { return l - c*invSqrt2 })
	out[LabelDemixedR3] = combine(r2, c, func(r, c float64) float64 { return r - c*invSqrt2 })
	return out
}

// S3ToS5 recovers the 5.x side pair from the front pair: DemixedLs5 =
// (L3 - L5) / delta, symmetric for R.
func S3ToS5(in LabelMap, p DownMixParams) LabelMap {
	l3, haveL3 := in[LabelL3]
	r3, haveR3 := in[LabelR3]
	l5, haveL5 := in[LabelL5]
	r5, haveR5 := in[LabelR5]
	if !haveL3 || !haveR3 || !haveL5 || !haveR5 || p.Delta == 0 {
		return in
	}
	out := in.Clone()
	out[LabelDemixedLs5] = combine(l3, l5, func(l3, l5 float64) float64 { return (l3 - l5) / p.Delta })
	out[LabelDemixedRs5] = combine(r3, r5, func(r3, r5 float64) float64 { return (r3 - r5) / p.Delta })
	return out
}

// Tf2ToT2 recovers the height pair shared by 5.1.2/7.1.2 from the 3.1.2
// height pair: DemixedLtf2 = Ltf3 - w*(L3-L5), symmetric for R.
func Tf2ToT2(in LabelMap, p DownMixParams) LabelMap {
	ltf3, haveLtf3 := in[LabelLtf3]
	rtf3, haveRtf3 := in[LabelRtf3]
	l3, haveL3 := in[LabelL3]
	r3, haveR3 := in[LabelR3]
	l5, haveL5 := in[LabelL5]
	r5, haveR5 := in[LabelR5]
	if !haveLtf3 || !haveRtf3 || !haveL3 || !haveR3 || !haveL5 || !haveR5 {
		return in
	}
	out := in.Clone()
	out[LabelDemixedLtf2] = combine3(ltf3, l3, l5, func(ltf3, l3, l5 float64) float64 { return ltf3 - p.W*(l3-l5) })
	out[LabelDemixedRtf2] = combine3(rtf3, r3, r5, func(rtf3, r3, r5 float64) float64 { return rtf3 - p.W*(r3-r5) })
	return out
}

// S5ToS7 recovers the 7.x side pairs from the 5.x side pair: DemixedL7 =
// L5 (a pass-through relabel); DemixedLrs7 = (Ls5 - alpha*Lss7) / beta,
// symmetric for R.
func S5ToS7(in LabelMap, p DownMixParams) LabelMap {
	l5, haveL5 := in[LabelL5]
	r5, haveR5 := in[LabelR5]
	ls5, haveLs5 := in[LabelLs5]
	rs5, haveRs5 := in[LabelRs5]
	lss7, haveLss7 := in[LabelLss7]
	rss7, haveRss7 := in[LabelRss7]
	if !haveL5 || !haveR5 || !haveLs5 || !haveRs5 || !haveLss7 || !haveRss7 || p.Beta == 0 {
		return in
	}
	out := in.Clone()
	out[LabelDemixedL7] = l5
	out[LabelDemixedR7] = r5
	out[LabelDemixedLrs7] = combine(ls5, lss7, func(ls5, lss7 float64) float64 { return (ls5 - p.Alpha*lss7) / p.Beta })
	out[LabelDemixedRrs7] = combine(rs5, rss7, func(rs5, rss7 float64) float64 { return (rs5 - p.Alpha*rss7) / p.Beta })
	return out
}

// T2ToT4 recovers the back-height pair from the front-height pair:
// DemixedLtb4 = (Ltf2 - Ltf4) / gamma, symmetric for R.
func T2ToT4(in LabelMap, p DownMixParams) LabelMap {
	ltf2, haveLtf2 := in[LabelLtf2]
	rtf2, haveRtf2 := in[LabelRtf2]
	ltf4, haveLtf4 := in[LabelLtf4]
	rtf4, haveRtf4 := in[LabelRtf4]
	if !haveLtf2 || !haveRtf2 || !haveLtf4 || !haveRtf4 || p.Gamma == 0 {
		return in
	}
	out := in.Clone()
	out[LabelDemixedLtb4] = combine(ltf2, ltf4, func(ltf2, ltf4 float64) float64 { return (ltf2 - ltf4) / p.Gamma })
	out[LabelDemixedRtb4] = combine(rtf2, rtf4, func(rtf2, rtf4 float64) float64 { return (rtf2 - rtf4) / p.Gamma })
	return out
}

// DefaultChain is the ordered sequence of demixers the Demix Graph Builder
// runs for a channel-based audio element, per spec.md §4.6. Lattice steps
// whose prerequisite labels aren't present are no-ops, so running the full
// chain against an arbitrary layer subset is always safe.
var DefaultChain = []Demixer{
	S1ToS2,
	S2ToS3,
	S3ToS5,
	Tf2ToT2,
	S5ToS7,
	T2ToT4,
}

// RunChain applies every demixer in chain in order, threading the
// accumulated LabelMap through each.
func RunChain(chain []Demixer, in LabelMap, params DownMixParams) LabelMap {
	out := in
	for _, d := range chain {
		out = d(out, params)
	}
	return out
}

func combine(a, b Samples, f func(a, b float64) float64) Samples {
	n := len(a)
	if len(b) < n {
		n = len(b)
	}
	out := make(Samples, n)
	for i := 0; i < n; i++ {
		out[i] = f(a[i], b[i])
	}
	return out
}

func combine3(a, b, c Samples, f func(a, b, c float64) float64) Samples {
	n := len(a)
	if len(b) < n {
		n = len(b)
	}
	if len(c) < n {
		n = len(c)
	}
	out := make(Samples, n)
	for i := 0; i < n; i++ {
		out[i] = f(a[i], b[i], c[i])
	}
	return out
}
