package models

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
	"time"
)

// FlexTime normalizes the mixed date representations stored by older
// clients: RFC3339 strings, bare dates, epoch milliseconds or native
// timestamps all scan into a single time value. Output is always RFC3339 UTC.
type FlexTime struct {
	time.Time
}

func NewFlexTime(t time.Time) FlexTime { return FlexTime{Time: t.UTC()} }

var flexLayouts = []string{
	time.RFC3339Nano,
	time.RFC3339,
	"2006-01-02 15:04:05",
	"2006-01-02",
}

func parseFlex(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	for _, layout := range flexLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("unrecognized date value %q", s)
}

func (t FlexTime) MarshalJSON() ([]byte, error) {
	if t.IsZero() {
		return []byte("null"), nil
	}
	return json.Marshal(t.UTC().Format(time.RFC3339))
}

func (t *FlexTime) UnmarshalJSON(b []byte) error {
	s := strings.TrimSpace(string(b))
	if s == "null" || s == `""` {
		t.Time = time.Time{}
		return nil
	}
	if !strings.HasPrefix(s, `"`) {
		// numeric: epoch milliseconds, as written by older data exports
		ms, err := strconv.ParseInt(s, 10, 64)
		if err != nil {
			return fmt.Errorf("unrecognized date value %s", s)
		}
		t.Time = time.UnixMilli(ms).UTC()
		return nil
	}
	var raw string
	if err := json.Unmarshal(b, &raw); err != nil {
		return err
	}
	parsed, err := parseFlex(raw)
	if err != nil {
		return err
	}
	t.Time = parsed.UTC()
	return nil
}

func (t FlexTime) Value() (driver.Value, error) {
	if t.IsZero() {
		return nil, nil
	}
	return t.UTC(), nil
}

func (t *FlexTime) Scan(v any) error {
	switch vv := v.(type) {
	case nil:
		t.Time = time.Time{}
		return nil
	case time.Time:
		t.Time = vv.UTC()
		return nil
	case string:
		parsed, err := parseFlex(vv)
		if err != nil {
			return err
		}
		t.Time = parsed.UTC()
		return nil
	case []byte:
		parsed, err := parseFlex(string(vv))
		if err != nil {
			return err
		}
		t.Time = parsed.UTC()
		return nil
	case int64:
		t.Time = time.UnixMilli(vv).UTC()
		return nil
	default:
		return fmt.Errorf("cannot scan %T into FlexTime", v)
	}
}

// GormDataType maps FlexTime onto the dialect's native timestamp column.
func (FlexTime) GormDataType() string { return "time" }
