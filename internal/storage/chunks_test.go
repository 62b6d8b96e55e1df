package storage

import (
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestVectorLiteral(t *testing.T) {
	tests := []struct {
		in  []float32
		out string
	}{
		{[]float32{0.25, -1, 3.5}, "[0.25,-1,3.5]"},
		{[]float32{1}, "[1]"},
		{nil, "[]"},
	}

	for _, tc := range tests {
		assert.Equal(t, tc.out, VectorLiteral(tc.in))
	}
}

type fakeRows struct {
	rows [][]interface{}
	pos  int
	err  error
}

func (f *fakeRows) Next() bool {
	if f.pos >= len(f.rows) {
		return false
	}
	f.pos++
	return true
}

func (f *fakeRows) Scan(dest ...interface{}) error {
	row := f.rows[f.pos-1]
	*dest[0].(*uuid.UUID) = row[0].(uuid.UUID)
	*dest[1].(*string) = row[1].(string)
	*dest[2].(*string) = row[2].(string)
	*dest[3].(*string) = row[3].(string)
	*dest[4].(*string) = row[4].(string)
	*dest[5].(*string) = row[5].(string)
	*dest[6].(*float64) = row[6].(float64)
	return nil
}

func (f *fakeRows) Err() error {
	return f.err
}

func TestScanChunks(t *testing.T) {
	id1, id2 := uuid.New(), uuid.New()
	rows := &fakeRows{rows: [][]interface{}{
		{id1, "vmd", "passage", "진열 기준", "골든존 우선 배치", "", 0.91},
		{id2, "sales", "passage", "매출 분해", "방문객 × 전환율 × 객단가", "주간 비교 기준", 0.77},
	}}

	chunks, err := scanChunks(rows)
	require.NoError(t, err)
	require.Len(t, chunks, 2)

	assert.Equal(t, id1, chunks[0].ID)
	assert.Equal(t, "vmd", chunks[0].TopicID)
	assert.Equal(t, 0.91, chunks[0].Similarity)
	assert.Equal(t, "주간 비교 기준", chunks[1].Conditions)
}

func TestScanChunks_IterationError(t *testing.T) {
	rows := &fakeRows{err: errors.New("connection reset")}

	_, err := scanChunks(rows)
	assert.ErrorContains(t, err, "connection reset")
}
