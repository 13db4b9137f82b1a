package main

import (
	"fmt"
	"log"

	"github.com/fatih/color"

	"rag-chatbot-be/internal/config"
	"rag-chatbot-be/pkg/database"
)

// Sets up the chunks table with the vector dimensionality taken from config,
// so switching embedding models only needs a re-migrate and re-ingest.
func main() {
	cfg := config.Load()

	db, err := database.NewGormDBFromDSN(cfg.Database.Connection)
	if err != nil {
		log.Fatalf("Unable to connect to GORM DB: %v", err)
	}

	dims := cfg.Search.EmbeddingDimensions

	statements := []struct {
		label string
		sql   string
	}{
		{
			label: "pgvector extension",
			sql:   `CREATE EXTENSION IF NOT EXISTS vector`,
		},
		{
			label: "chunks table",
			sql: fmt.Sprintf(`
				CREATE TABLE IF NOT EXISTS chunks (
					id          text PRIMARY KEY,
					parent_id   text NOT NULL,
					title       text,
					content     text,
					metadata    jsonb,
					embedding   vector(%d),
					chunk_index integer DEFAULT 0,
					created_at  timestamptz DEFAULT now()
				)`, dims),
		},
		{
			label: "parent_id index",
			sql:   `CREATE INDEX IF NOT EXISTS idx_chunks_parent_id ON chunks (parent_id)`,
		},
		{
			label: "full-text search index",
			sql:   `CREATE INDEX IF NOT EXISTS idx_chunks_content_fts ON chunks USING GIN (to_tsvector('english', content))`,
		},
		{
			label: "vector similarity index",
			sql:   `CREATE INDEX IF NOT EXISTS idx_chunks_embedding ON chunks USING hnsw (embedding vector_cosine_ops)`,
		},
	}

	for _, stmt := range statements {
		if err := db.Exec(stmt.sql).Error; err != nil {
			color.Red("FAIL  %s: %v", stmt.label, err)
			log.Fatalf("migration aborted")
		}
		color.Green("OK    %s", stmt.label)
	}

	color.Cyan("Migration complete (embedding dimensions: %d)", dims)
}
