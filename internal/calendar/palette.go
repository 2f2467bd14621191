package calendar

import "sync"

// defaultTokens is the fixed color palette the dashboard renders group
// events with. Order matters: assignment is groupID mod len.
var defaultTokens = []string{
	"blue", "green", "purple", "orange",
	"teal", "pink", "indigo", "amber",
}

// Palette deterministically assigns a color token per group. The memo
// is a pure cache owned by whoever constructs the palette; clearing or
// recreating it never changes which color a group gets.
type Palette struct {
	tokens []string

	mu   sync.Mutex
	memo map[int64]string
}

// NewPalette creates a palette over the default tokens.
func NewPalette() *Palette {
	return NewPaletteWith(defaultTokens)
}

// NewPaletteWith creates a palette over the given tokens. Panics on an
// empty token list, which is a programming error.
func NewPaletteWith(tokens []string) *Palette {
	if len(tokens) == 0 {
		panic("calendar: palette needs at least one token")
	}
	return &Palette{
		tokens: tokens,
		memo:   make(map[int64]string),
	}
}

// ColorOf returns the token for a group: tokens[groupID mod N]. The
// same group always gets the same token within a palette's lifetime.
func (p *Palette) ColorOf(groupID int64) string {
	p.mu.Lock()
	defer p.mu.Unlock()

	if c, ok := p.memo[groupID]; ok {
		return c
	}

	n := int64(len(p.tokens))
	idx := groupID % n
	if idx < 0 {
		idx += n
	}
	c := p.tokens[idx]
	p.memo[groupID] = c
	return c
}
