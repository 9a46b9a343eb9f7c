// SPDX-License-Identifier: MPL-2.0

package evaluator

import (
	"encoding/base64"
	"encoding/hex"
	"strings"

	"github.com/google/uuid"
)

var base64Encodings = []*base64.Encoding{
	base64.StdEncoding,
	base64.RawStdEncoding,
	base64.URLEncoding,
	base64.RawURLEncoding,
}

func coerceHash(r Hash, v any) (any, bool) {
	if r.Bits <= 0 || r.Bits%8 != 0 {
		return nil, false
	}
	size := r.Bits / 8

	switch h := v.(type) {
	case []byte:
		if len(h) != size {
			return nil, false
		}
		return hex.EncodeToString(h), true
	case string:
		h = strings.TrimSpace(h)
		if len(h) == size*2 {
			if raw, err := hex.DecodeString(h); err == nil {
				return hex.EncodeToString(raw), true
			}
		}
		for _, enc := range base64Encodings {
			raw, err := enc.DecodeString(h)
			if err == nil && len(raw) == size {
				return hex.EncodeToString(raw), true
			}
		}
	}
	return nil, false
}

func coerceUUID(v any) (any, bool) {
	switch id := v.(type) {
	case uuid.UUID:
		return id.String(), true
	case [16]byte:
		return uuid.UUID(id).String(), true
	case []byte:
		parsed, err := uuid.FromBytes(id)
		if err != nil {
			parsed, err = uuid.ParseBytes(id)
			if err != nil {
				return nil, false
			}
		}
		return parsed.String(), true
	case string:
		parsed, err := uuid.Parse(strings.TrimSpace(id))
		if err != nil {
			return nil, false
		}
		return parsed.String(), true
	}
	return nil, false
}
