package taxonomy

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefault(t *testing.T) {
	tx := Default()

	assert.Equal(t, "store_operations", tx.DefaultTopicID())
	assert.GreaterOrEqual(t, tx.Len(), 5)

	for _, topic := range tx.Topics() {
		assert.NotEmpty(t, topic.ID)
		assert.NotEmpty(t, topic.PassageContent, "topic %s needs a fallback passage", topic.ID)
		assert.NotEmpty(t, topic.SearchHint, "topic %s needs a search hint", topic.ID)
		for _, rel := range topic.RelatedTopicIDs {
			_, ok := tx.ByID(rel)
			assert.True(t, ok, "topic %s references unknown related topic %s", topic.ID, rel)
		}
	}
}

func TestTaxonomy_ByID(t *testing.T) {
	tx := Default()

	topic, ok := tx.ByID("vmd")
	require.True(t, ok)
	assert.Equal(t, "vmd", topic.ID)

	_, ok = tx.ByID("nonexistent")
	assert.False(t, ok)
}

func TestTaxonomy_HasKeyword(t *testing.T) {
	tx := Default()

	assert.True(t, tx.HasKeyword("vmd"))
	assert.True(t, tx.HasKeyword("VMD"), "latin keywords match case-insensitively")
	assert.True(t, tx.HasKeyword("레이아웃"))
	assert.False(t, tx.HasKeyword("매너스골프"))
}

func TestNew_Validation(t *testing.T) {
	t.Run("empty topic list", func(t *testing.T) {
		_, err := New(nil, "")
		assert.Error(t, err)
	})

	t.Run("duplicate topic id", func(t *testing.T) {
		_, err := New([]Topic{{ID: "a"}, {ID: "a"}}, "a")
		assert.ErrorContains(t, err, "duplicate")
	})

	t.Run("missing id", func(t *testing.T) {
		_, err := New([]Topic{{}}, "")
		assert.Error(t, err)
	})

	t.Run("unknown default topic", func(t *testing.T) {
		_, err := New([]Topic{{ID: "a"}}, "b")
		assert.Error(t, err)
	})

	t.Run("empty default falls back to first topic", func(t *testing.T) {
		tx, err := New([]Topic{{ID: "a"}, {ID: "b"}}, "")
		require.NoError(t, err)
		assert.Equal(t, "a", tx.DefaultTopicID())
	})
}

func TestLoad(t *testing.T) {
	data := `
default_topic: cafe
topics:
  - id: cafe
    keywords: [coffee, espresso]
    localized_keywords: [커피, 원두]
    search_hint: 카페 운영 사례
    passage: 원두는 로스팅 후 2주 이내 소진이 원칙입니다.
  - id: bakery
    keywords: [bread]
    localized_keywords: [빵]
    passage: 당일 생산 당일 판매가 기본입니다.
    related: [cafe]
`
	path := filepath.Join(t.TempDir(), "taxonomy.yaml")
	require.NoError(t, os.WriteFile(path, []byte(data), 0o644))

	tx, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "cafe", tx.DefaultTopicID())
	assert.Equal(t, 2, tx.Len())
	assert.True(t, tx.HasKeyword("커피"))
	assert.True(t, tx.HasKeyword("Espresso"))

	bakery, ok := tx.ByID("bakery")
	require.True(t, ok)
	assert.Equal(t, []string{"cafe"}, bakery.RelatedTopicIDs)
}

func TestLoad_MissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "absent.yaml"))
	assert.Error(t, err)
}
