package ports

import (
	"context"
	"errors"
)

// ErrObjectNotFound lo devuelven los BlobStore cuando la key no existe.
var ErrObjectNotFound = errors.New("object not found")

// BlobStore es un almacén clave/valor de objetos (S3, disco local, SQLite).
// Las keys usan "/" como separador, igual que S3.
type BlobStore interface {
	// List devuelve las keys que empiezan por prefix, ordenadas.
	List(ctx context.Context, prefix string) ([]string, error)

	// Get devuelve el cuerpo del objeto. Devuelve ErrObjectNotFound (envuelto)
	// si la key no existe.
	Get(ctx context.Context, key string) ([]byte, error)

	// Put escribe el objeto, reemplazándolo si ya existía.
	Put(ctx context.Context, key string, body []byte, contentType string) error
}
