package usecase

import (
	"github.com/merchbridge/payment-service/internal/domain/model"
	"github.com/merchbridge/payment-service/internal/domain/provider"
)

// remoteBlob folds a remote response into the jsonb audit blob stored on the
// payment record.
func remoteBlob(op *provider.RemoteResponse) model.JSONB {
	blob := model.JSONB{"status": op.StatusCode}
	if op.JSON != nil {
		blob["body"] = map[string]interface{}(op.JSON)
	} else if op.Body != "" {
		blob["raw"] = op.Body
	}
	if op.Err != "" {
		blob["error"] = op.Err
	}
	return blob
}

// nestedString walks a decoded JSON object along path and returns the string
// leaf, empty when any step is missing or of the wrong shape.
func nestedString(m map[string]interface{}, path ...string) string {
	current := m
	for i, key := range path {
		if current == nil {
			return ""
		}
		if i == len(path)-1 {
			s, _ := current[key].(string)
			return s
		}
		next, ok := current[key].(map[string]interface{})
		if !ok {
			return ""
		}
		current = next
	}
	return ""
}
