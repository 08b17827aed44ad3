// Package viterbi implements the log-domain HMM decoder that finds the
// globally most likely path across a trellis: an emission model over GPS
// noise and a transition model over the discrepancy between network and
// great-circle distance (spec.md §4.F).
package viterbi

import "math"

// DefaultSigma is σ_z, the default GPS noise standard deviation in meters.
const DefaultSigma = 4.07

// DefaultBeta is β, the default route/great-circle discrepancy scale.
const DefaultBeta = 20

// EmissionProb is p_e(d) for a candidate at great-circle distance d from
// its observation: (1/(sigma·√(2π)))·exp(-(d/sigma)²), a zero-mean
// Gaussian-shaped kernel whose exponent has no factor of 1/2.
func EmissionProb(d, sigma float64) float64 {
	return (1 / (sigma * math.Sqrt(2*math.Pi))) * math.Exp(-math.Pow(d/sigma, 2))
}

// TransitionProb is p_t(u,v) given the network route length and the
// great-circle distance between u and v's coordinates. The reference model
// scales this by 1e5 "for numerical separation in the linear domain"; in
// log-domain decoding that factor becomes a shared additive constant that
// never affects argmax, so it is never materialised here (spec.md §9).
func TransitionProb(routeLength, greatCircleDist, beta float64) float64 {
	return (1 / beta) * math.Exp(-math.Abs(routeLength-greatCircleDist)/beta)
}
