package core

import "strings"

// Render creates an ASCII view of the board for debugging and tests.
//
// Format:
//   - tiles: '#'
//   - empty cells: '.'
//   - jelly cells: color letter (R/G/B/Y), lowercase when the jelly is
//     anchored
//   - block cells: 'X'
func (s *State) Render() string {
	var sb strings.Builder
	sb.Grow(s.W*s.H + s.H)
	for y := 0; y < s.H; y++ {
		if y > 0 {
			sb.WriteByte('\n')
		}
		for x := 0; x < s.W; x++ {
			c := C(x, y)
			switch {
			case s.LookupTile(c):
				sb.WriteByte('#')
			default:
				idx := s.LookupMovable(c)
				if idx < 0 {
					sb.WriteByte('.')
					continue
				}
				m := s.Movables[idx]
				ch := m.Color.Char()
				if m.Anchored {
					ch = ch - 'A' + 'a'
				}
				sb.WriteRune(ch)
			}
		}
	}
	return sb.String()
}

// RenderIndices creates an ASCII view showing which movable index occupies
// each cell, modulo ten. Useful alongside a move list, whose entries name
// movables by index.
func (s *State) RenderIndices() string {
	var sb strings.Builder
	sb.Grow(s.W*s.H + s.H)
	for y := 0; y < s.H; y++ {
		if y > 0 {
			sb.WriteByte('\n')
		}
		for x := 0; x < s.W; x++ {
			c := C(x, y)
			switch {
			case s.LookupTile(c):
				sb.WriteByte('#')
			default:
				idx := s.LookupMovable(c)
				if idx < 0 {
					sb.WriteByte('.')
					continue
				}
				sb.WriteByte(byte('0' + idx%10))
			}
		}
	}
	return sb.String()
}
