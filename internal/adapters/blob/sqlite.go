package blob

// Blob store en un único fichero SQLite.
//
// Útil para correr el pipeline completo sin S3: el histórico y los resultados
// viven en la misma tabla `blobs`, indexada por key (PRIMARY KEY → List por
// prefijo usa el índice).

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/ianfmc/livewell-nadex/internal/ports"
	_ "modernc.org/sqlite"
)

const schema = `
CREATE TABLE IF NOT EXISTS blobs (
    key          TEXT PRIMARY KEY,
    content_type TEXT     NOT NULL DEFAULT '',
    body         BLOB     NOT NULL,
    size         INTEGER  NOT NULL DEFAULT 0,
    updated_at   DATETIME NOT NULL
);
`

var _ ports.BlobStore = (*SQLiteStore)(nil)

// SQLiteStore implementa ports.BlobStore usando SQLite (pure Go, sin CGo).
type SQLiteStore struct {
	db *sql.DB
}

// NewSQLiteStore abre (o crea) la base de datos en la ruta dada y aplica el schema.
func NewSQLiteStore(path string) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("blob.NewSQLiteStore: open %q: %w", path, err)
	}
	db.SetMaxOpenConns(1) // SQLite es single-writer; además ":memory:" es por conexión
	db.SetMaxIdleConns(1)

	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("blob.NewSQLiteStore: apply schema: %w", err)
	}
	return &SQLiteStore{db: db}, nil
}

// List implementa ports.BlobStore.
func (s *SQLiteStore) List(ctx context.Context, prefix string) ([]string, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT key FROM blobs WHERE key LIKE ? ESCAPE '\' ORDER BY key`,
		escapeLike(prefix)+"%",
	)
	if err != nil {
		return nil, fmt.Errorf("blob.SQLiteStore.List: query: %w", err)
	}
	defer rows.Close()

	var keys []string
	for rows.Next() {
		var k string
		if err := rows.Scan(&k); err != nil {
			return nil, fmt.Errorf("blob.SQLiteStore.List: scan row: %w", err)
		}
		keys = append(keys, k)
	}
	return keys, rows.Err()
}

// Get implementa ports.BlobStore.
func (s *SQLiteStore) Get(ctx context.Context, key string) ([]byte, error) {
	var body []byte
	err := s.db.QueryRowContext(ctx, `SELECT body FROM blobs WHERE key = ?`, key).Scan(&body)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("blob.SQLiteStore.Get %q: %w", key, ports.ErrObjectNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("blob.SQLiteStore.Get %q: %w", key, err)
	}
	return body, nil
}

// Put implementa ports.BlobStore (upsert por key).
func (s *SQLiteStore) Put(ctx context.Context, key string, body []byte, contentType string) error {
	if body == nil {
		body = []byte{}
	}
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO blobs (key, content_type, body, size, updated_at)
		VALUES (?, ?, ?, ?, ?)
		ON CONFLICT(key) DO UPDATE SET
			content_type = excluded.content_type,
			body         = excluded.body,
			size         = excluded.size,
			updated_at   = excluded.updated_at
	`, key, contentType, body, len(body), time.Now().UTC())
	if err != nil {
		return fmt.Errorf("blob.SQLiteStore.Put %q: %w", key, err)
	}
	return nil
}

// ContentType devuelve el content type guardado para la key.
func (s *SQLiteStore) ContentType(ctx context.Context, key string) (string, error) {
	var ct string
	err := s.db.QueryRowContext(ctx, `SELECT content_type FROM blobs WHERE key = ?`, key).Scan(&ct)
	if errors.Is(err, sql.ErrNoRows) {
		return "", fmt.Errorf("blob.SQLiteStore.ContentType %q: %w", key, ports.ErrObjectNotFound)
	}
	if err != nil {
		return "", fmt.Errorf("blob.SQLiteStore.ContentType %q: %w", key, err)
	}
	return ct, nil
}

// Close cierra la conexión a la base de datos.
func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

// escapeLike escapa los comodines de LIKE para buscar un prefijo literal.
func escapeLike(s string) string {
	r := strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)
	return r.Replace(s)
}
