package postgres

import (
	"errors"
	"strings"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"
)

// isUniqueViolation verifica si un error es una violación de constraint único (23505).
func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code == "23505" // unique_violation
	}
	return strings.Contains(err.Error(), "23505")
}

// isConstraint indica si el error viene del constraint con ese nombre.
func isConstraint(err error, name string) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.ConstraintName == name
}

// limitOrAll convierte limit 0 en NULL para que LIMIT no recorte.
func limitOrAll(limit int) any {
	if limit <= 0 {
		return nil
	}
	return limit
}

// nullIfEmpty mapea "" a NULL para columnas opcionales.
func nullIfEmpty(s string) any {
	if s == "" {
		return nil
	}
	return s
}

// isUUID indica si s es un UUID válido. Las columnas uuid rechazan cualquier otro texto.
func isUUID(s string) bool {
	_, err := uuid.Parse(s)
	return err == nil
}
