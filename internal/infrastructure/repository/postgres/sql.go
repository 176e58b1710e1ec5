package postgres

import (
	"database/sql"
	"errors"

	"github.com/bytedance/sonic"
)

func isNotFound(err error) bool {
	return errors.Is(err, sql.ErrNoRows)
}

// jsonDocument encodes v for a JSONB column. A nil slice is stored as [].
func jsonDocument(v any) (string, error) {
	payload, err := sonic.Marshal(v)
	if err != nil {
		return "", err
	}
	if string(payload) == "null" {
		return "[]", nil
	}
	return string(payload), nil
}

func decodeDocument(raw []byte, out any) error {
	if len(raw) == 0 {
		return nil
	}
	return sonic.Unmarshal(raw, out)
}

func nullableJSON(raw []byte) sql.NullString {
	if len(raw) == 0 {
		return sql.NullString{}
	}
	return sql.NullString{String: string(raw), Valid: true}
}
