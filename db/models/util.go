package models

import (
	"database/sql"
	"fmt"

	"go.hackfix.me/courseapi/db/types"
)

func lastInsertID(result sql.Result) (uint64, error) {
	id, err := result.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("failed to get last insert ID: %w", err)
	}

	if id < 0 {
		return 0, fmt.Errorf("invalid negative ID from database: %d", id)
	}

	return uint64(id), nil
}

// affectedOne checks that exactly one row was changed by a statement.
func affectedOne(res sql.Result, modelName, filterStr string) error {
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed getting affected rows: %w", err)
	}
	if n == 0 {
		return types.NoResultError{ModelName: modelName, ID: filterStr}
	}
	if n > 1 {
		return types.IntegrityError{Msg: fmt.Sprintf("changed %d %ss", n, modelName)}
	}
	return nil
}
