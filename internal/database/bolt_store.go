package database

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"sync"
	"time"

	"github.com/sirupsen/logrus"
	bolt "go.etcd.io/bbolt"
)

const (
	metaBucket    = "__indexes"
	keysSuffix    = ".__keys"
	indexInfix    = ".__idx."
	keySeparator  = "\x00"
	fileMode      = 0600
	defaultOpenTO = 2 * time.Second
)

// BoltStore implementa RecordStore sobre un archivo bbolt. El archivo se abre
// y se cierra en cada operación; el mutex serializa los accesos del proceso.
type BoltStore struct {
	path    string
	timeout time.Duration
	mu      sync.Mutex
	logger  *logrus.Logger
}

// OpenBoltStore verifica que el archivo pueda abrirse y retorna el almacén
func OpenBoltStore(path string, timeout time.Duration, logger *logrus.Logger) (*BoltStore, error) {
	if timeout <= 0 {
		timeout = defaultOpenTO
	}
	s := &BoltStore{path: path, timeout: timeout, logger: logger}

	err := s.update(context.Background(), func(tx *bolt.Tx) error {
		_, err := tx.CreateBucketIfNotExists([]byte(metaBucket))
		return err
	})
	if err != nil {
		return nil, fmt.Errorf("error initializing store %s: %w", path, err)
	}

	return s, nil
}

// Path retorna la ruta del archivo de datos
func (s *BoltStore) Path() string {
	return s.path
}

func (s *BoltStore) withDB(ctx context.Context, fn func(db *bolt.DB) error) (err error) {
	if err := ctx.Err(); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	db, err := bolt.Open(s.path, fileMode, &bolt.Options{Timeout: s.timeout})
	if err != nil {
		return fmt.Errorf("error opening store: %w", err)
	}
	defer func() {
		if cerr := db.Close(); cerr != nil && err == nil {
			err = fmt.Errorf("error closing store: %w", cerr)
		}
	}()

	return fn(db)
}

func (s *BoltStore) view(ctx context.Context, fn func(tx *bolt.Tx) error) error {
	return s.withDB(ctx, func(db *bolt.DB) error { return db.View(fn) })
}

func (s *BoltStore) update(ctx context.Context, fn func(tx *bolt.Tx) error) error {
	return s.withDB(ctx, func(db *bolt.DB) error { return db.Update(fn) })
}

// EnsureIndex crea el índice secundario y lo llena con los registros existentes
func (s *BoltStore) EnsureIndex(ctx context.Context, collection, field string) error {
	return s.update(ctx, func(tx *bolt.Tx) error {
		meta, err := tx.CreateBucketIfNotExists([]byte(metaBucket))
		if err != nil {
			return err
		}
		metaKey := []byte(collection + keySeparator + field)
		if meta.Get(metaKey) != nil {
			return nil
		}

		idx, err := tx.CreateBucketIfNotExists(indexBucketName(collection, field))
		if err != nil {
			return err
		}

		if keys := tx.Bucket(keysBucketName(collection)); keys != nil {
			err := keys.ForEach(func(id, raw []byte) error {
				indexes, err := decodeIndexes(raw)
				if err != nil {
					return err
				}
				if value, ok := indexes[field]; ok {
					return idx.Put(indexKey(value, string(id)), []byte{})
				}
				return nil
			})
			if err != nil {
				return err
			}
		}

		s.logger.WithFields(logrus.Fields{
			"collection": collection,
			"field":      field,
		}).Debug("Index ensured")

		return meta.Put(metaKey, []byte("1"))
	})
}

// Insert agrega registros nuevos; falla si algún ID ya existe
func (s *BoltStore) Insert(ctx context.Context, collection string, records ...Record) error {
	return s.update(ctx, func(tx *bolt.Tx) error {
		b, err := tx.CreateBucketIfNotExists([]byte(collection))
		if err != nil {
			return err
		}
		for _, record := range records {
			if b.Get([]byte(record.ID)) != nil {
				return fmt.Errorf("%w: %s", ErrDuplicateID, record.ID)
			}
			if err := b.Put([]byte(record.ID), record.Data); err != nil {
				return err
			}
			if err := writeIndexes(tx, collection, record.ID, record.Indexes); err != nil {
				return err
			}
		}
		return nil
	})
}

// FindByID obtiene un registro por ID
func (s *BoltStore) FindByID(ctx context.Context, collection, id string) ([]byte, error) {
	var data []byte
	err := s.view(ctx, func(tx *bolt.Tx) error {
		b := tx.Bucket([]byte(collection))
		if b == nil {
			return ErrRecordNotFound
		}
		value := b.Get([]byte(id))
		if value == nil {
			return ErrRecordNotFound
		}
		data = bytes.Clone(value)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return data, nil
}

// FindAll obtiene todos los registros de la colección en orden de ID
func (s *BoltStore) FindAll(ctx context.Context, collection string) ([][]byte, error) {
	var result [][]byte
	err := s.view(ctx, func(tx *bolt.Tx) error {
		b := tx.Bucket([]byte(collection))
		if b == nil {
			return nil
		}
		return b.ForEach(func(_, value []byte) error {
			result = append(result, bytes.Clone(value))
			return nil
		})
	})
	return result, err
}

// FindByIndex obtiene los registros cuyo campo indexado es igual a value
func (s *BoltStore) FindByIndex(ctx context.Context, collection, field, value string) ([][]byte, error) {
	var result [][]byte
	err := s.view(ctx, func(tx *bolt.Tx) error {
		meta := tx.Bucket([]byte(metaBucket))
		if meta == nil || meta.Get([]byte(collection+keySeparator+field)) == nil {
			return fmt.Errorf("%w: %s.%s", ErrIndexNotEnsured, collection, field)
		}

		idx := tx.Bucket(indexBucketName(collection, field))
		data := tx.Bucket([]byte(collection))
		if idx == nil || data == nil {
			return nil
		}

		prefix := []byte(value + keySeparator)
		c := idx.Cursor()
		for k, _ := c.Seek(prefix); k != nil && bytes.HasPrefix(k, prefix); k, _ = c.Next() {
			id := k[len(prefix):]
			if doc := data.Get(id); doc != nil {
				result = append(result, bytes.Clone(doc))
			}
		}
		return nil
	})
	return result, err
}

// Modify aplica fn al registro dentro de una única transacción de escritura
func (s *BoltStore) Modify(ctx context.Context, collection, id string, fn ModifyFunc) error {
	return s.update(ctx, func(tx *bolt.Tx) error {
		b := tx.Bucket([]byte(collection))
		if b == nil {
			return ErrRecordNotFound
		}
		current := b.Get([]byte(id))
		if current == nil {
			return ErrRecordNotFound
		}

		record, err := fn(bytes.Clone(current))
		if err != nil {
			return err
		}

		if err := b.Put([]byte(id), record.Data); err != nil {
			return err
		}
		return writeIndexes(tx, collection, id, record.Indexes)
	})
}

// ReplaceAll vacía la colección e inserta record en la misma transacción
func (s *BoltStore) ReplaceAll(ctx context.Context, collection string, record Record) error {
	return s.update(ctx, func(tx *bolt.Tx) error {
		if err := dropCollection(tx, collection); err != nil {
			return err
		}
		b, err := tx.CreateBucketIfNotExists([]byte(collection))
		if err != nil {
			return err
		}
		if err := b.Put([]byte(record.ID), record.Data); err != nil {
			return err
		}
		return writeIndexes(tx, collection, record.ID, record.Indexes)
	})
}

// DeleteAll elimina todos los registros de la colección
func (s *BoltStore) DeleteAll(ctx context.Context, collection string) error {
	return s.update(ctx, func(tx *bolt.Tx) error {
		return dropCollection(tx, collection)
	})
}

// Count retorna la cantidad de registros de la colección
func (s *BoltStore) Count(ctx context.Context, collection string) (int, error) {
	count := 0
	err := s.view(ctx, func(tx *bolt.Tx) error {
		b := tx.Bucket([]byte(collection))
		if b == nil {
			return nil
		}
		return b.ForEach(func(_, _ []byte) error {
			count++
			return nil
		})
	})
	return count, err
}

// Snapshot escribe una copia consistente del archivo de datos en w
func (s *BoltStore) Snapshot(ctx context.Context, w io.Writer) (int64, error) {
	var written int64
	err := s.view(ctx, func(tx *bolt.Tx) error {
		n, err := tx.WriteTo(w)
		written = n
		return err
	})
	return written, err
}

// HealthCheck verifica que el archivo pueda abrirse
func (s *BoltStore) HealthCheck(ctx context.Context) error {
	return s.view(ctx, func(tx *bolt.Tx) error { return nil })
}

// Close no libera nada: el archivo no queda abierto entre operaciones
func (s *BoltStore) Close() error {
	return nil
}

func keysBucketName(collection string) []byte {
	return []byte(collection + keysSuffix)
}

func indexBucketName(collection, field string) []byte {
	return []byte(collection + indexInfix + field)
}

func indexKey(value, id string) []byte {
	return []byte(value + keySeparator + id)
}

func decodeIndexes(raw []byte) (map[string]string, error) {
	indexes := map[string]string{}
	if len(raw) == 0 {
		return indexes, nil
	}
	if err := json.Unmarshal(raw, &indexes); err != nil {
		return nil, fmt.Errorf("error decoding index values: %w", err)
	}
	return indexes, nil
}

func ensuredFields(tx *bolt.Tx, collection string) []string {
	meta := tx.Bucket([]byte(metaBucket))
	if meta == nil {
		return nil
	}
	var fields []string
	prefix := []byte(collection + keySeparator)
	c := meta.Cursor()
	for k, _ := c.Seek(prefix); k != nil && bytes.HasPrefix(k, prefix); k, _ = c.Next() {
		fields = append(fields, string(k[len(prefix):]))
	}
	return fields
}

// writeIndexes reemplaza los valores indexados de id por indexes
func writeIndexes(tx *bolt.Tx, collection, id string, indexes map[string]string) error {
	keys, err := tx.CreateBucketIfNotExists(keysBucketName(collection))
	if err != nil {
		return err
	}
	previous, err := decodeIndexes(keys.Get([]byte(id)))
	if err != nil {
		return err
	}

	for _, field := range ensuredFields(tx, collection) {
		idx, err := tx.CreateBucketIfNotExists(indexBucketName(collection, field))
		if err != nil {
			return err
		}
		if old, ok := previous[field]; ok {
			if err := idx.Delete(indexKey(old, id)); err != nil {
				return err
			}
		}
		if value, ok := indexes[field]; ok {
			if err := idx.Put(indexKey(value, id), []byte{}); err != nil {
				return err
			}
		}
	}

	if indexes == nil {
		indexes = map[string]string{}
	}
	raw, err := json.Marshal(indexes)
	if err != nil {
		return fmt.Errorf("error encoding index values: %w", err)
	}
	return keys.Put([]byte(id), raw)
}

func dropCollection(tx *bolt.Tx, collection string) error {
	names := [][]byte{[]byte(collection), keysBucketName(collection)}
	for _, field := range ensuredFields(tx, collection) {
		names = append(names, indexBucketName(collection, field))
	}
	for _, name := range names {
		if err := tx.DeleteBucket(name); err != nil && !errors.Is(err, bolt.ErrBucketNotFound) {
			return err
		}
	}
	return nil
}
