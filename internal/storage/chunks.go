package storage

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/google/uuid"
)

// KnowledgeChunk is one row of the knowledge store.
type KnowledgeChunk struct {
	ID         uuid.UUID
	TopicID    string
	ChunkType  string
	Title      string
	Content    string
	Conditions string
	Similarity float64
}

// ChunkRepository runs the two remote retrieval queries against Postgres.
type ChunkRepository struct {
	db DB
}

// NewChunkRepository creates a chunk repository.
func NewChunkRepository(db DB) *ChunkRepository {
	return &ChunkRepository{db: db}
}

// SimilaritySearch runs pgvector cosine search. topicID narrows the scope;
// pass "" to search the whole store.
func (r *ChunkRepository) SimilaritySearch(ctx context.Context, embedding []float32, threshold float64, limit int, topicID string) ([]KnowledgeChunk, error) {
	query := `
		SELECT id, topic_id, chunk_type, title, content, conditions,
			1 - (embedding <=> $1::vector) AS similarity
		FROM knowledge_chunks
		WHERE ($2 = '' OR topic_id = $2)
			AND 1 - (embedding <=> $1::vector) >= $3
		ORDER BY embedding <=> $1::vector
		LIMIT $4
	`
	rows, err := r.db.QueryContext(ctx, query, VectorLiteral(embedding), topicID, threshold, limit)
	if err != nil {
		return nil, fmt.Errorf("similarity search: %w", err)
	}
	defer rows.Close()

	return scanChunks(rows)
}

// TrigramSearch runs pg_trgm fuzzy matching over chunk content.
func (r *ChunkRepository) TrigramSearch(ctx context.Context, text string, threshold float64, limit int, topicID string) ([]KnowledgeChunk, error) {
	query := `
		SELECT id, topic_id, chunk_type, title, content, conditions,
			similarity(content, $1) AS sim
		FROM knowledge_chunks
		WHERE ($2 = '' OR topic_id = $2)
			AND similarity(content, $1) > $3
		ORDER BY sim DESC
		LIMIT $4
	`
	rows, err := r.db.QueryContext(ctx, query, text, topicID, threshold, limit)
	if err != nil {
		return nil, fmt.Errorf("trigram search: %w", err)
	}
	defer rows.Close()

	return scanChunks(rows)
}

type rowScanner interface {
	Next() bool
	Scan(dest ...interface{}) error
	Err() error
}

func scanChunks(rows rowScanner) ([]KnowledgeChunk, error) {
	var chunks []KnowledgeChunk
	for rows.Next() {
		var c KnowledgeChunk
		if err := rows.Scan(&c.ID, &c.TopicID, &c.ChunkType, &c.Title, &c.Content, &c.Conditions, &c.Similarity); err != nil {
			return nil, fmt.Errorf("scan chunk: %w", err)
		}
		chunks = append(chunks, c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate chunks: %w", err)
	}
	return chunks, nil
}

// VectorLiteral renders an embedding as a pgvector input literal.
func VectorLiteral(v []float32) string {
	var b strings.Builder
	b.WriteByte('[')
	for i, f := range v {
		if i > 0 {
			b.WriteByte(',')
		}
		b.WriteString(strconv.FormatFloat(float64(f), 'f', -1, 32))
	}
	b.WriteByte(']')
	return b.String()
}
