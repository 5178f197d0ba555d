package normalize

import (
	"encoding/json"
	"regexp"
	"strconv"
	"strings"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Rule is one row of the decision table. Key limits the rule to matching
// field names (nil matches every field). Convert returns the retyped value
// and true when the rule applies to the value. When Claims is set, a field
// whose name matches Key is settled by this rule even if Convert declines,
// and no later rule sees it.
type Rule struct {
	Name    string
	Key     func(key string) bool
	Convert func(value interface{}) (interface{}, bool)
	Claims  bool
}

const (
	RuleIdentifier = "identifier"
	RuleDateWrap   = "date_wrapper"
	RuleISODate    = "iso_date"
	RuleNumber     = "number"
)

// DefaultRules is the table used by Normalize, in precedence order.
var DefaultRules = []Rule{
	{Name: RuleIdentifier, Key: IsIdentifierKey, Convert: toObjectID, Claims: true},
	{Name: RuleDateWrap, Convert: fromDateWrapper},
	{Name: RuleISODate, Convert: fromISOString},
	{Name: RuleNumber, Convert: fromNumber},
}

// IsIdentifierKey reports whether a field name denotes a primary key or a
// reference to one.
func IsIdentifierKey(key string) bool {
	return key == "_id" || key == "id" ||
		strings.HasSuffix(key, "_id") || strings.HasSuffix(key, "_by")
}

func toObjectID(value interface{}) (interface{}, bool) {
	switch v := value.(type) {
	case string:
		if oid, err := primitive.ObjectIDFromHex(v); err == nil {
			return oid, true
		}
	case map[string]interface{}:
		return oidWrapper(v)
	case bson.M:
		return oidWrapper(v)
	}
	return nil, false
}

func oidWrapper(m map[string]interface{}) (interface{}, bool) {
	if len(m) != 1 {
		return nil, false
	}
	hex, ok := m["$oid"].(string)
	if !ok {
		return nil, false
	}
	oid, err := primitive.ObjectIDFromHex(hex)
	if err != nil {
		return nil, false
	}
	return oid, true
}

func fromDateWrapper(value interface{}) (interface{}, bool) {
	var m map[string]interface{}
	switch v := value.(type) {
	case map[string]interface{}:
		m = v
	case bson.M:
		m = v
	default:
		return nil, false
	}
	if len(m) != 1 {
		return nil, false
	}

	switch d := m["$date"].(type) {
	case string:
		if t, ok := parseISO(d); ok {
			return t, true
		}
	case map[string]interface{}:
		return fromNumberLong(d)
	case bson.M:
		return fromNumberLong(d)
	}
	return nil, false
}

func fromNumberLong(m map[string]interface{}) (interface{}, bool) {
	if len(m) != 1 {
		return nil, false
	}
	var raw string
	switch n := m["$numberLong"].(type) {
	case string:
		raw = n
	case json.Number:
		raw = n.String()
	default:
		return nil, false
	}
	ms, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		return nil, false
	}
	return time.UnixMilli(ms).UTC(), true
}

var isoPrefix = regexp.MustCompile(`^\d{4}-\d{2}-\d{2}T\d{2}:\d{2}:\d{2}`)

var isoLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05.999999999Z0700",
	"2006-01-02T15:04:05.999999999",
}

func fromISOString(value interface{}) (interface{}, bool) {
	s, ok := value.(string)
	if !ok {
		return nil, false
	}
	return parseISO(s)
}

func parseISO(s string) (interface{}, bool) {
	if !isoPrefix.MatchString(s) {
		return nil, false
	}
	for _, layout := range isoLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t.UTC(), true
		}
	}
	return nil, false
}

func fromNumber(value interface{}) (interface{}, bool) {
	n, ok := value.(json.Number)
	if !ok {
		return nil, false
	}
	if i, err := n.Int64(); err == nil {
		return i, true
	}
	if f, err := n.Float64(); err == nil {
		return f, true
	}
	return nil, false
}
