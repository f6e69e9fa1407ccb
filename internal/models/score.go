package models

import (
	"database/sql/driver"
	"fmt"

	"github.com/lk16/patzer/internal/uci"
)

// Score is a uci.Score that is stored by name in the database.
type Score uci.Score

// Scan implements the sql.Scanner interface for Score.
func (s *Score) Scan(value interface{}) error {
	var name string

	switch v := value.(type) {
	case []byte:
		name = string(v)
	case string:
		name = v
	default:
		return fmt.Errorf("cannot scan %T into Score", value)
	}

	score, err := uci.ParseScoreName(name)
	if err != nil {
		return err
	}

	*s = Score(score)
	return nil
}

// Value implements the driver.Valuer interface for Score.
func (s Score) Value() (driver.Value, error) {
	return uci.Score(s).String(), nil
}

func (s Score) MarshalJSON() ([]byte, error) {
	return uci.Score(s).MarshalJSON()
}

func (s *Score) UnmarshalJSON(data []byte) error {
	return (*uci.Score)(s).UnmarshalJSON(data)
}
