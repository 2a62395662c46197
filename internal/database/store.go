package database

import (
	"context"
	"errors"
)

var (
	// ErrRecordNotFound indica que no existe un registro con ese ID
	ErrRecordNotFound = errors.New("record not found")
	// ErrDuplicateID indica que ya existe un registro con ese ID en la colección
	ErrDuplicateID = errors.New("duplicate record id")
	// ErrIndexNotEnsured indica una consulta por índice sin EnsureIndex previo
	ErrIndexNotEnsured = errors.New("index not ensured")
)

// Record es un documento serializado dentro de una colección.
// Indexes contiene los valores de los campos secundarios indexables.
type Record struct {
	ID      string
	Data    []byte
	Indexes map[string]string
}

// ModifyFunc recibe el documento almacenado y retorna su nueva versión
type ModifyFunc func(data []byte) (Record, error)

// RecordStore es un almacén de documentos por colección, indexado por ID y
// opcionalmente por campos secundarios.
type RecordStore interface {
	// EnsureIndex crea (si no existe) el índice secundario field de la colección.
	// Debe llamarse antes de FindByIndex.
	EnsureIndex(ctx context.Context, collection, field string) error
	Insert(ctx context.Context, collection string, records ...Record) error
	FindByID(ctx context.Context, collection, id string) ([]byte, error)
	FindAll(ctx context.Context, collection string) ([][]byte, error)
	FindByIndex(ctx context.Context, collection, field, value string) ([][]byte, error)
	// Modify lee, transforma y escribe un registro en una sola transacción
	Modify(ctx context.Context, collection, id string, fn ModifyFunc) error
	// ReplaceAll elimina todos los registros de la colección e inserta record
	// de forma atómica.
	ReplaceAll(ctx context.Context, collection string, record Record) error
	DeleteAll(ctx context.Context, collection string) error
	Count(ctx context.Context, collection string) (int, error)
	HealthCheck(ctx context.Context) error
	Close() error
}
