package queryroute

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadLexicon(t *testing.T) {
	data := `
known_brands: [글로벌브랜드]
common_terms: [흔한말]
business_suffixes: [공방]
context_words: [입점]
`
	path := filepath.Join(t.TempDir(), "lexicon.yaml")
	require.NoError(t, os.WriteFile(path, []byte(data), 0o644))

	lex, err := LoadLexicon(path)
	require.NoError(t, err)

	assert.Equal(t, []string{"글로벌브랜드"}, lex.KnownBrands)
	assert.True(t, lex.isKnownBrand("글로벌브랜드"))
	assert.True(t, lex.isCommonTerm("흔한말"))
	assert.True(t, lex.hasBusinessSuffix("가죽공방"))
	assert.False(t, lex.hasBusinessSuffix("공방"), "suffix alone is not a name")
	assert.True(t, lex.isContextWord("입점"))

	// Loaded lists replace the defaults wholesale.
	assert.False(t, lex.isKnownBrand("나이키"))
}

func TestLoadLexicon_MissingFile(t *testing.T) {
	_, err := LoadLexicon(filepath.Join(t.TempDir(), "absent.yaml"))
	assert.Error(t, err)
}

func TestDefaultLexicon(t *testing.T) {
	lex := DefaultLexicon()

	assert.True(t, lex.isKnownBrand("나이키"))
	assert.True(t, lex.isKnownBrand("NIKE"), "brand match is case-insensitive")
	assert.True(t, lex.isCommonTerm("매장"))
	assert.True(t, lex.hasBusinessSuffix("매너스골프"))
	assert.True(t, lex.isContextWord("팝업"))
}
