// Package normalize retypes loosely-typed document trees read from JSON so
// identifiers and timestamps reach the store as native values. It has no
// schema; the type of a field is inferred from the shape of its name and
// its value.
package normalize

import (
	"go.mongodb.org/mongo-driver/bson"
)

// Normalizer walks a document tree and applies its rules to every object
// field. It never modifies its input.
type Normalizer struct {
	rules []Rule
}

func New(rules []Rule) *Normalizer {
	return &Normalizer{rules: rules}
}

var defaultNormalizer = New(DefaultRules)

// Normalize applies DefaultRules to value.
func Normalize(value interface{}) interface{} {
	return defaultNormalizer.Value(value)
}

// Document applies DefaultRules to a single document.
func Document(doc map[string]interface{}) map[string]interface{} {
	return defaultNormalizer.Document(doc)
}

// Value normalizes a top-level value: objects are walked, arrays have their
// object elements walked, and scalars are returned as they are.
func (n *Normalizer) Value(value interface{}) interface{} {
	switch v := value.(type) {
	case map[string]interface{}:
		return n.Document(v)
	case bson.M:
		return n.Document(v)
	case []interface{}:
		return n.array(v)
	case bson.A:
		return n.array(v)
	default:
		return value
	}
}

func (n *Normalizer) Document(doc map[string]interface{}) map[string]interface{} {
	if doc == nil {
		return nil
	}
	out := make(map[string]interface{}, len(doc))
	for key, value := range doc {
		out[key] = n.Field(key, value)
	}
	return out
}

func (n *Normalizer) array(items []interface{}) []interface{} {
	out := make([]interface{}, len(items))
	for i, item := range items {
		switch v := item.(type) {
		case map[string]interface{}:
			out[i] = n.Document(v)
		case bson.M:
			out[i] = n.Document(v)
		default:
			out[i] = item
		}
	}
	return out
}

// Field resolves one object field against the rule table and, when no rule
// settles it, descends into containers.
func (n *Normalizer) Field(key string, value interface{}) interface{} {
	out, _ := n.Match(key, value)
	return out
}

// Match returns the normalized value together with the name of the rule
// that settled it, or "" when the value fell through to the walk.
func (n *Normalizer) Match(key string, value interface{}) (interface{}, string) {
	for _, r := range n.rules {
		if r.Key != nil && !r.Key(key) {
			continue
		}
		if converted, ok := r.Convert(value); ok {
			return converted, r.Name
		}
		if r.Claims {
			return value, r.Name
		}
	}
	return n.Value(value), ""
}
