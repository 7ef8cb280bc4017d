// Package transform normalises snake_case wire records, as returned by the
// station API or scanned from SQL rows, into domain entities.
package transform

import (
	"bytes"
	"encoding/json"
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// Number is a lenient numeric wire value. It accepts JSON numbers, numeric
// strings ("1,250.50" included), null and "", and any SQL numeric type.
// Anything missing or unparseable reads as 0.
type Number struct {
	d decimal.Decimal
}

func NewNumber(f float64) Number {
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return Number{}
	}
	return Number{d: decimal.NewFromFloat(f)}
}

func (n Number) Decimal() decimal.Decimal {
	return n.d
}

func (n Number) Float64() float64 {
	f, _ := n.d.Float64()
	return f
}

func (n Number) Int() int {
	return int(n.d.IntPart())
}

func (n Number) MarshalJSON() ([]byte, error) {
	return []byte(n.d.String()), nil
}

func (n *Number) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) > 0 && data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		n.d = parseDecimal(s)
		return nil
	}
	n.d = parseDecimal(string(data))
	return nil
}

// Scan implements sql.Scanner.
func (n *Number) Scan(src any) error {
	switch v := src.(type) {
	case nil:
		n.d = decimal.Zero
	case float64:
		*n = NewNumber(v)
	case float32:
		*n = NewNumber(float64(v))
	case int64:
		n.d = decimal.NewFromInt(v)
	case int32:
		n.d = decimal.NewFromInt(int64(v))
	case int:
		n.d = decimal.NewFromInt(int64(v))
	case []byte:
		n.d = parseDecimal(string(v))
	case string:
		n.d = parseDecimal(v)
	default:
		return fmt.Errorf("transform: cannot scan %T into Number", src)
	}
	return nil
}

func parseDecimal(s string) decimal.Decimal {
	s = strings.ReplaceAll(strings.TrimSpace(s), ",", "")
	if s == "" || s == "null" {
		return decimal.Zero
	}
	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Zero
	}
	return d
}

// Text is a lenient string wire value: JSON strings, numbers (numeric ids)
// and null, or SQL text, bytes, integers and dates.
type Text string

func (t Text) String() string {
	return strings.TrimSpace(string(t))
}

func (t *Text) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	switch {
	case len(data) == 0 || string(data) == "null":
		*t = ""
	case data[0] == '"':
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*t = Text(s)
	default:
		*t = Text(data)
	}
	return nil
}

// Scan implements sql.Scanner.
func (t *Text) Scan(src any) error {
	switch v := src.(type) {
	case nil:
		*t = ""
	case string:
		*t = Text(v)
	case []byte:
		*t = Text(v)
	case int64:
		*t = Text(strconv.FormatInt(v, 10))
	case time.Time:
		*t = Text(v.Format(dateLayout))
	default:
		return fmt.Errorf("transform: cannot scan %T into Text", src)
	}
	return nil
}

const dateLayout = "2006-01-02"

var timeLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05Z07:00",
	"2006-01-02 15:04:05",
	dateLayout,
}

// Time is a lenient timestamp wire value. It accepts RFC 3339, plain dates,
// space-separated timestamps, null and "". Unparseable values are the zero time.
type Time struct {
	time.Time
}

func (t *Time) UnmarshalJSON(data []byte) error {
	var s *string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}
	if s == nil {
		t.Time = time.Time{}
		return nil
	}
	t.Time = parseTime(*s)
	return nil
}

// Scan implements sql.Scanner.
func (t *Time) Scan(src any) error {
	switch v := src.(type) {
	case nil:
		t.Time = time.Time{}
	case time.Time:
		t.Time = v
	case string:
		t.Time = parseTime(v)
	case []byte:
		t.Time = parseTime(string(v))
	default:
		return fmt.Errorf("transform: cannot scan %T into Time", src)
	}
	return nil
}

// Ptr returns nil for the zero time.
func (t Time) Ptr() *time.Time {
	if t.IsZero() {
		return nil
	}
	v := t.Time
	return &v
}

func parseTime(s string) time.Time {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}
	}
	for _, layout := range timeLayouts {
		if parsed, err := time.Parse(layout, s); err == nil {
			return parsed
		}
	}
	return time.Time{}
}
