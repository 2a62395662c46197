package database

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"regexp"
	"strings"
	"time"

	"github.com/hypernova-labs/cashier-service/internal/config"
	"github.com/lib/pq"
	"github.com/sirupsen/logrus"
)

const schema = `
CREATE TABLE IF NOT EXISTS records (
	collection TEXT NOT NULL,
	id         TEXT NOT NULL,
	data       JSONB NOT NULL,
	indexes    JSONB NOT NULL DEFAULT '{}'::jsonb,
	updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
	PRIMARY KEY (collection, id)
);
CREATE TABLE IF NOT EXISTS record_indexes (
	collection TEXT NOT NULL,
	field      TEXT NOT NULL,
	PRIMARY KEY (collection, field)
);`

var identifierSanitizer = regexp.MustCompile(`[^a-z0-9_]+`)

// DB representa la conexión a la base de datos
type DB struct {
	*sql.DB
	logger *logrus.Logger
}

// Connect establece la conexión a PostgreSQL y crea el esquema de registros
func Connect(cfg *config.Config, logger *logrus.Logger) (*DB, error) {
	db, err := sql.Open("postgres", cfg.GetDSN())
	if err != nil {
		return nil, fmt.Errorf("error opening database: %w", err)
	}

	db.SetMaxOpenConns(10)
	db.SetMaxIdleConns(5)
	db.SetConnMaxLifetime(10 * time.Minute)
	db.SetConnMaxIdleTime(5 * time.Minute)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("error pinging database: %w", err)
	}

	if _, err := db.ExecContext(ctx, schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("error creating schema: %w", err)
	}

	return &DB{DB: db, logger: logger}, nil
}

// Close cierra la conexión a la base de datos
func (db *DB) Close() error {
	return db.DB.Close()
}

// HealthCheck verifica la salud de la base de datos
func (db *DB) HealthCheck(ctx context.Context) error {
	if err := db.PingContext(ctx); err != nil {
		return fmt.Errorf("database ping failed: %w", err)
	}

	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	if _, err := db.ExecContext(ctx, "SELECT 1"); err != nil {
		return fmt.Errorf("database query test failed: %w", err)
	}

	return nil
}

// GetStats retorna estadísticas del pool de conexiones
func (db *DB) GetStats() map[string]interface{} {
	stats := db.Stats()
	return map[string]interface{}{
		"max_open_connections": stats.MaxOpenConnections,
		"open_connections":     stats.OpenConnections,
		"in_use":               stats.InUse,
		"idle":                 stats.Idle,
		"wait_count":           stats.WaitCount,
		"wait_duration":        stats.WaitDuration,
	}
}

// LogStats registra las estadísticas de la base de datos
func (db *DB) LogStats() {
	db.logger.WithFields(logrus.Fields(db.GetStats())).Info("Database pool statistics")
}

// WithTransaction ejecuta una función dentro de una transacción
func (db *DB) WithTransaction(ctx context.Context, fn func(*sql.Tx) error) error {
	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("error beginning transaction: %w", err)
	}

	defer func() {
		if p := recover(); p != nil {
			tx.Rollback()
			panic(p)
		}
	}()

	if err := fn(tx); err != nil {
		if rbErr := tx.Rollback(); rbErr != nil {
			return fmt.Errorf("error rolling back transaction: %w, original error: %w", rbErr, err)
		}
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("error committing transaction: %w", err)
	}

	return nil
}

// EnsureIndex registra el campo y crea un índice de expresión sobre él
func (db *DB) EnsureIndex(ctx context.Context, collection, field string) error {
	name := indexName(collection, field)
	return db.WithTransaction(ctx, func(tx *sql.Tx) error {
		_, err := tx.ExecContext(ctx,
			`INSERT INTO record_indexes (collection, field) VALUES ($1, $2) ON CONFLICT DO NOTHING`,
			collection, field)
		if err != nil {
			return fmt.Errorf("error registering index: %w", err)
		}

		stmt := fmt.Sprintf(
			`CREATE INDEX IF NOT EXISTS %s ON records ((indexes->>%s)) WHERE collection = %s`,
			pq.QuoteIdentifier(name), pq.QuoteLiteral(field), pq.QuoteLiteral(collection))
		if _, err := tx.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("error creating index %s: %w", name, err)
		}
		return nil
	})
}

// Insert agrega registros nuevos; falla si algún ID ya existe
func (db *DB) Insert(ctx context.Context, collection string, records ...Record) error {
	return db.WithTransaction(ctx, func(tx *sql.Tx) error {
		for _, record := range records {
			if err := insertRecord(ctx, tx, collection, record); err != nil {
				return err
			}
		}
		return nil
	})
}

// FindByID obtiene un registro por ID
func (db *DB) FindByID(ctx context.Context, collection, id string) ([]byte, error) {
	var data []byte
	err := db.QueryRowContext(ctx,
		`SELECT data FROM records WHERE collection = $1 AND id = $2`,
		collection, id).Scan(&data)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrRecordNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("error getting record: %w", err)
	}
	return data, nil
}

// FindAll obtiene todos los registros de la colección en orden de ID
func (db *DB) FindAll(ctx context.Context, collection string) ([][]byte, error) {
	return db.queryData(ctx,
		`SELECT data FROM records WHERE collection = $1 ORDER BY id`,
		collection)
}

// FindByIndex obtiene los registros cuyo campo indexado es igual a value
func (db *DB) FindByIndex(ctx context.Context, collection, field, value string) ([][]byte, error) {
	var exists bool
	err := db.QueryRowContext(ctx,
		`SELECT EXISTS (SELECT 1 FROM record_indexes WHERE collection = $1 AND field = $2)`,
		collection, field).Scan(&exists)
	if err != nil {
		return nil, fmt.Errorf("error checking index: %w", err)
	}
	if !exists {
		return nil, fmt.Errorf("%w: %s.%s", ErrIndexNotEnsured, collection, field)
	}

	return db.queryData(ctx, findByIndexQuery(collection, field), value)
}

// Modify bloquea la fila, aplica fn y guarda el resultado en una transacción
func (db *DB) Modify(ctx context.Context, collection, id string, fn ModifyFunc) error {
	return db.WithTransaction(ctx, func(tx *sql.Tx) error {
		var current []byte
		err := tx.QueryRowContext(ctx,
			`SELECT data FROM records WHERE collection = $1 AND id = $2 FOR UPDATE`,
			collection, id).Scan(&current)
		if errors.Is(err, sql.ErrNoRows) {
			return ErrRecordNotFound
		}
		if err != nil {
			return fmt.Errorf("error locking record: %w", err)
		}

		record, err := fn(current)
		if err != nil {
			return err
		}

		indexes, err := encodeIndexes(record.Indexes)
		if err != nil {
			return err
		}
		_, err = tx.ExecContext(ctx,
			`UPDATE records SET data = $3, indexes = $4, updated_at = NOW() WHERE collection = $1 AND id = $2`,
			collection, id, record.Data, indexes)
		if err != nil {
			return fmt.Errorf("error updating record: %w", err)
		}
		return nil
	})
}

// ReplaceAll vacía la colección e inserta record en la misma transacción
func (db *DB) ReplaceAll(ctx context.Context, collection string, record Record) error {
	return db.WithTransaction(ctx, func(tx *sql.Tx) error {
		if _, err := tx.ExecContext(ctx, `DELETE FROM records WHERE collection = $1`, collection); err != nil {
			return fmt.Errorf("error clearing collection: %w", err)
		}
		return insertRecord(ctx, tx, collection, record)
	})
}

// DeleteAll elimina todos los registros de la colección
func (db *DB) DeleteAll(ctx context.Context, collection string) error {
	if _, err := db.ExecContext(ctx, `DELETE FROM records WHERE collection = $1`, collection); err != nil {
		return fmt.Errorf("error clearing collection: %w", err)
	}
	return nil
}

// Count retorna la cantidad de registros de la colección
func (db *DB) Count(ctx context.Context, collection string) (int, error) {
	var count int
	err := db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM records WHERE collection = $1`, collection).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("error counting records: %w", err)
	}
	return count, nil
}

func (db *DB) queryData(ctx context.Context, query string, args ...interface{}) ([][]byte, error) {
	rows, err := db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("error querying records: %w", err)
	}
	defer rows.Close()

	var result [][]byte
	for rows.Next() {
		var data []byte
		if err := rows.Scan(&data); err != nil {
			return nil, fmt.Errorf("error scanning record: %w", err)
		}
		result = append(result, data)
	}

	return result, rows.Err()
}

func insertRecord(ctx context.Context, tx *sql.Tx, collection string, record Record) error {
	indexes, err := encodeIndexes(record.Indexes)
	if err != nil {
		return err
	}
	_, err = tx.ExecContext(ctx,
		`INSERT INTO records (collection, id, data, indexes) VALUES ($1, $2, $3, $4)`,
		collection, record.ID, record.Data, indexes)

	var pqErr *pq.Error
	if errors.As(err, &pqErr) && pqErr.Code == "23505" {
		return fmt.Errorf("%w: %s", ErrDuplicateID, record.ID)
	}
	if err != nil {
		return fmt.Errorf("error inserting record: %w", err)
	}
	return nil
}

func encodeIndexes(indexes map[string]string) ([]byte, error) {
	if indexes == nil {
		indexes = map[string]string{}
	}
	raw, err := json.Marshal(indexes)
	if err != nil {
		return nil, fmt.Errorf("error encoding index values: %w", err)
	}
	return raw, nil
}

// findByIndexQuery arma la consulta con colección y campo como literales, igual
// que el índice parcial creado en EnsureIndex, para que el planificador lo use
func findByIndexQuery(collection, field string) string {
	return fmt.Sprintf(
		`SELECT data FROM records WHERE collection = %s AND indexes->>%s = $1 ORDER BY id`,
		pq.QuoteLiteral(collection), pq.QuoteLiteral(field))
}

// indexName genera un identificador válido para el índice de expresión
func indexName(collection, field string) string {
	name := "idx_" + strings.ToLower(collection) + "_" + strings.ToLower(field)
	name = identifierSanitizer.ReplaceAllString(name, "_")
	if len(name) > 63 {
		name = name[:63]
	}
	return name
}
