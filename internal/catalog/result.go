// Catalogsync - Game Catalog Synchronization Client
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/catalogsync

package catalog

import (
	"bytes"
	"fmt"

	"github.com/goccy/go-json"

	"github.com/tomtom215/catalogsync/internal/transport"
)

// queryResult is a decoded card data answer.
type queryResult struct {
	Code    int
	Message string
	Records []Record
}

// cardDataEnvelope is the object form of a card data answer. The service
// reports the rejection signal here as well as in the response envelope, and
// cardData may be a JSON string holding the record array.
type cardDataEnvelope struct {
	Error    int             `json:"error"`
	Message  string          `json:"message"`
	CardData json.RawMessage `json:"cardData"`
}

// decodeQueryResult interprets a card data response. A non-zero code in the
// response envelope wins over one in the result body. The result may be a
// bare record array or a cardDataEnvelope.
func decodeQueryResult(resp *transport.Response) (*queryResult, error) {
	out := &queryResult{Code: resp.Error, Message: resp.Message}

	body := bytes.TrimSpace(resp.Result)
	if out.Code != 0 || len(body) == 0 || bytes.Equal(body, []byte("null")) {
		return out, nil
	}

	switch body[0] {
	case '[':
		if err := json.Unmarshal(body, &out.Records); err != nil {
			return nil, fmt.Errorf("decode records: %w", err)
		}
	case '{':
		var env cardDataEnvelope
		if err := json.Unmarshal(body, &env); err != nil {
			return nil, fmt.Errorf("decode result: %w", err)
		}
		out.Code, out.Message = env.Error, env.Message
		if out.Code != 0 {
			return out, nil
		}
		records, err := decodeCardData(env.CardData)
		if err != nil {
			return nil, err
		}
		out.Records = records
	default:
		return nil, fmt.Errorf("decode result: unexpected %q", body[0])
	}
	return out, nil
}

func decodeCardData(raw json.RawMessage) ([]Record, error) {
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 || bytes.Equal(raw, []byte("null")) {
		return nil, nil
	}
	if raw[0] == '"' {
		var s string
		if err := json.Unmarshal(raw, &s); err != nil {
			return nil, fmt.Errorf("decode cardData: %w", err)
		}
		if s == "" {
			return nil, nil
		}
		raw = json.RawMessage(s)
	}

	var records []Record
	if err := json.Unmarshal(raw, &records); err != nil {
		return nil, fmt.Errorf("decode cardData: %w", err)
	}
	return records, nil
}
