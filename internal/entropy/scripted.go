package entropy

// Scripted replays fixed draws, cycling when exhausted. It is used to force
// specific branches in tests and to replay recorded rolls.
type Scripted struct {
	Floats []float64
	Ints   []int

	fi, ii int
}

// Float64 returns the next scripted float, or 0.5 if none are scripted.
func (s *Scripted) Float64() float64 {
	if len(s.Floats) == 0 {
		return 0.5
	}
	v := s.Floats[s.fi%len(s.Floats)]
	s.fi++
	return v
}

// IntN returns the next scripted int reduced into [0, n).
func (s *Scripted) IntN(n int) int {
	if n <= 0 {
		panic("entropy: IntN with non-positive n")
	}
	if len(s.Ints) == 0 {
		return 0
	}
	v := s.Ints[s.ii%len(s.Ints)]
	s.ii++
	if v < 0 {
		v = -v
	}
	return v % n
}
