package analysis

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCanonicalSignal_NFC(t *testing.T) {
	composed := "top.café.q"          // é as one code point
	decomposed := "top.café.q"       // e + combining accent
	assert.Equal(t, composed, CanonicalSignal(composed))
	assert.Equal(t, composed, CanonicalSignal(decomposed), "decomposed paths must unify with composed ones")
}

func TestCanonicalSignal_ASCIIUntouched(t *testing.T) {
	assert.Equal(t, "cpu.regs.r0", CanonicalSignal("cpu.regs.r0"))
}

func TestCanonicalSet(t *testing.T) {
	got := canonicalSet([]string{"b.q", "a.q", "b.q", "café", "café"})
	assert.Equal(t, []string{"a.q", "b.q", "café"}, got, "normalized, deduped, sorted")
}
