package track

// Chain is a contiguous run of samples (by index into the owning slice)
// sharing one user/device. See internal/chain for why only the id change
// splits it, despite the Data Model calling out time/speed discontinuities
// as inclusion criteria too.
type Chain struct {
	UserID  string
	Indices []int
}
