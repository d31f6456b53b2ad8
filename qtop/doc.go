// Package qtop measures the topological charge of a frozen ensemble at
// the half-lattice flow time: the charge history mean, the naive
// topological susceptibility, the exponential autocorrelation time and a
// Gaussian fit of the binned charge distribution.
//
// The Gaussian fit deliberately starts from the raw sample mean, sample
// standard deviation and peak bin count: charge distributions centered
// far from zero make an uninitialized fit fail to converge.
package qtop
