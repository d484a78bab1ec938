package token

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestKindNames(t *testing.T) {
	assert.Equal(t, "PROGRAMA", Programa.String())
	assert.Equal(t, "COLOCA_COAXIAL", ColocaCoaxial.String())
	assert.Equal(t, "IDENTIFIER", Identifier.String())
	assert.Equal(t, "EOF", EOF.String())
	assert.Equal(t, "UNKNOWN", Kind(-1).String())
}

func TestKindByName(t *testing.T) {
	k, ok := KindByName("UNE_MAQUINA_PUERTO")
	assert.True(t, ok)
	assert.Equal(t, UneMaquinaPuerto, k)

	_, ok = KindByName("NO_SUCH_KIND")
	assert.False(t, ok)
}

func TestKindByNameRoundTrip(t *testing.T) {
	for k, name := range kindNames {
		got, ok := KindByName(name)
		assert.True(t, ok)
		assert.Equal(t, k, got)
	}
}

func TestIsIgnored(t *testing.T) {
	assert.True(t, Whitespace.IsIgnored())
	assert.True(t, Comment.IsIgnored())
	assert.False(t, Identifier.IsIgnored())
	assert.False(t, EOF.IsIgnored())
}

func TestNewEOF(t *testing.T) {
	tok := NewEOF(10, 3)
	assert.Equal(t, EOF, tok.Kind)
	assert.Equal(t, "", tok.Lexeme)
	assert.Equal(t, 10, tok.Line)
	assert.Equal(t, 3, tok.Column)
}

func TestTokenString(t *testing.T) {
	tok := New(Identifier, "uno", 2, 5)
	assert.Equal(t, "IDENTIFIER 'uno' at 2:5", tok.String())
}
