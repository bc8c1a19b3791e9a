package vectorstore

import (
	"fmt"

	"github.com/mpetrun5/rag-docs/internal/domain"
	"github.com/qdrant/go-client/qdrant"
)

// buildFilter translates a domain filter plus the namespace tag into Qdrant
// must-conditions. Returns nil when nothing constrains the query.
func buildFilter(filter *domain.Filter, namespace string) *qdrant.Filter {
	var must []*qdrant.Condition

	if namespace != "" {
		must = append(must, qdrant.NewMatch("namespace", namespace))
	}

	if filter != nil {
		for _, c := range filter.Conditions {
			must = append(must, buildCondition(c))
		}
	}

	if len(must) == 0 {
		return nil
	}
	return &qdrant.Filter{Must: must}
}

func buildCondition(c domain.Condition) *qdrant.Condition {
	if len(c.AnyOf) > 0 {
		return qdrant.NewMatchKeywords(c.Field, c.AnyOf...)
	}

	switch v := c.Equals.(type) {
	case string:
		return qdrant.NewMatch(c.Field, v)
	case bool:
		return qdrant.NewMatchBool(c.Field, v)
	case int:
		return qdrant.NewMatchInt(c.Field, int64(v))
	case int64:
		return qdrant.NewMatchInt(c.Field, v)
	default:
		return qdrant.NewMatch(c.Field, fmt.Sprint(v))
	}
}
