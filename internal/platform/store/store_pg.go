package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// PG is a Store backed by a single documents table with a JSONB payload.
type PG struct {
	pool *pgxpool.Pool
}

func NewPG(pool *pgxpool.Pool) *PG {
	return &PG{pool: pool}
}

func (s *PG) GetByID(ctx context.Context, collection, id string) (Document, error) {
	var raw []byte
	err := s.pool.QueryRow(ctx,
		`SELECT data FROM documents WHERE collection = $1 AND id = $2`,
		collection, id).Scan(&raw)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get %s/%s: %w", collection, id, err)
	}
	return decodeDocument(id, raw)
}

func (s *PG) QueryAll(ctx context.Context, collection, orderKey string) ([]Document, error) {
	query := `SELECT id, data FROM documents WHERE collection = $1`
	args := []interface{}{collection}
	if orderKey != "" {
		query += ` ORDER BY data->>$2 ASC`
		args = append(args, orderKey)
	}
	rows, err := s.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query %s: %w", collection, err)
	}
	defer rows.Close()
	return collectDocuments(rows)
}

func (s *PG) QueryWhere(ctx context.Context, collection, field string, value interface{}) ([]Document, error) {
	cond, err := json.Marshal(Document{field: value})
	if err != nil {
		return nil, fmt.Errorf("encode condition: %w", err)
	}
	rows, err := s.pool.Query(ctx,
		`SELECT id, data FROM documents WHERE collection = $1 AND data @> $2::jsonb`,
		collection, cond)
	if err != nil {
		return nil, fmt.Errorf("query %s where %s: %w", collection, field, err)
	}
	defer rows.Close()
	return collectDocuments(rows)
}

func (s *PG) Create(ctx context.Context, collection, id string, data Document) (string, error) {
	if id == "" {
		id = uuid.New().String()
	}
	payload, err := encodeDocument(data)
	if err != nil {
		return "", err
	}
	_, err = s.pool.Exec(ctx, `
		INSERT INTO documents (collection, id, data)
		VALUES ($1, $2, $3)
		ON CONFLICT (collection, id) DO UPDATE SET data = EXCLUDED.data, updated_at = NOW()`,
		collection, id, payload)
	if err != nil {
		return "", fmt.Errorf("create %s/%s: %w", collection, id, err)
	}
	return id, nil
}

func (s *PG) Update(ctx context.Context, collection, id string, partial Document) error {
	payload, err := encodeDocument(partial)
	if err != nil {
		return err
	}
	tag, err := s.pool.Exec(ctx, `
		UPDATE documents SET data = data || $3::jsonb, updated_at = NOW()
		WHERE collection = $1 AND id = $2`,
		collection, id, payload)
	if err != nil {
		return fmt.Errorf("update %s/%s: %w", collection, id, err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (s *PG) Delete(ctx context.Context, collection, id string) error {
	tag, err := s.pool.Exec(ctx,
		`DELETE FROM documents WHERE collection = $1 AND id = $2`, collection, id)
	if err != nil {
		return fmt.Errorf("delete %s/%s: %w", collection, id, err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func encodeDocument(data Document) ([]byte, error) {
	// The id lives in its own column; never persist it inside the payload.
	clean := make(Document, len(data))
	for k, v := range data {
		if k == "id" {
			continue
		}
		clean[k] = v
	}
	payload, err := json.Marshal(clean)
	if err != nil {
		return nil, fmt.Errorf("encode document: %w", err)
	}
	return payload, nil
}

func decodeDocument(id string, raw []byte) (Document, error) {
	doc := Document{}
	if err := json.Unmarshal(raw, &doc); err != nil {
		return nil, fmt.Errorf("decode document %s: %w", id, err)
	}
	doc["id"] = id
	return doc, nil
}

func collectDocuments(rows pgx.Rows) ([]Document, error) {
	var docs []Document
	for rows.Next() {
		var id string
		var raw []byte
		if err := rows.Scan(&id, &raw); err != nil {
			return nil, err
		}
		doc, err := decodeDocument(id, raw)
		if err != nil {
			return nil, err
		}
		docs = append(docs, doc)
	}
	return docs, rows.Err()
}
