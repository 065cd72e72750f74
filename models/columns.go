package models

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"strings"
)

// StringArray for PostgreSQL text[] support
type StringArray []string

func (s StringArray) Value() (driver.Value, error) {
	if len(s) == 0 {
		return "{}", nil
	}
	return fmt.Sprintf("{%s}", strings.Join(s, ",")), nil
}

func (s *StringArray) Scan(value interface{}) error {
	if value == nil {
		*s = StringArray{}
		return nil
	}

	switch v := value.(type) {
	case string:
		if v == "{}" {
			*s = StringArray{}
			return nil
		}
		v = strings.Trim(v, "{}")
		if v == "" {
			*s = StringArray{}
			return nil
		}
		*s = StringArray(strings.Split(v, ","))
	case []byte:
		return s.Scan(string(v))
	default:
		return fmt.Errorf("cannot scan %T into StringArray", value)
	}
	return nil
}

// ContentBlocks is the ordered sequence of text blocks that make up a
// knowledge base entry body, stored as a JSONB column. Workflow-published
// entries carry a single block; directly authored entries may carry many.
type ContentBlocks []string

func (c ContentBlocks) Value() (driver.Value, error) {
	if c == nil {
		c = ContentBlocks{}
	}
	return json.Marshal(c)
}

func (c *ContentBlocks) Scan(value interface{}) error {
	if value == nil {
		*c = ContentBlocks{}
		return nil
	}

	switch v := value.(type) {
	case []byte:
		return json.Unmarshal(v, c)
	case string:
		return json.Unmarshal([]byte(v), c)
	default:
		return fmt.Errorf("cannot scan %T into ContentBlocks", value)
	}
}

// AnswerSnapshot is the immutable audit copy of an answer taken on the
// first admin review.
type AnswerSnapshot struct {
	Content    string `json:"content"`
	ProvidedBy uint   `json:"provided_by"`
}

// AnswerSnapshots is stored as a JSONB column.
type AnswerSnapshots []AnswerSnapshot

func (a AnswerSnapshots) Value() (driver.Value, error) {
	if a == nil {
		a = AnswerSnapshots{}
	}
	return json.Marshal(a)
}

func (a *AnswerSnapshots) Scan(value interface{}) error {
	if value == nil {
		*a = AnswerSnapshots{}
		return nil
	}

	switch v := value.(type) {
	case []byte:
		return json.Unmarshal(v, a)
	case string:
		return json.Unmarshal([]byte(v), a)
	default:
		return fmt.Errorf("cannot scan %T into AnswerSnapshots", value)
	}
}
