package openrouter

import (
	"bytes"
	"encoding/json"
	"math"
	"strings"
	"unicode/utf8"
)

// Payload keys owned by the client; Params may not override them.
var reservedParams = map[string]struct{}{
	"model":           {},
	"messages":        {},
	"stream":          {},
	"response_format": {},
}

// validateRequest checks req and returns the model to use.
func (c *Client) validateRequest(req ChatRequest) (string, *Error) {
	if len(req.Messages) == 0 {
		return "", validationError("messages must not be empty")
	}

	total := 0
	for i, m := range req.Messages {
		switch m.Role {
		case RoleSystem, RoleUser, RoleAssistant, RoleTool:
		default:
			return "", validationError("message %d has invalid role %q", i, m.Role)
		}
		if strings.TrimSpace(m.Content) == "" {
			return "", validationError("message %d content must not be empty", i)
		}
		total += utf8.RuneCountInString(m.Content)
	}
	if c.maxInputCharacters > 0 && total > c.maxInputCharacters {
		return "", validationError("input is %d characters, limit is %d", total, c.maxInputCharacters)
	}

	model := strings.TrimSpace(req.Model)
	if model == "" {
		model = c.defaultModel
	}
	if model == "" {
		return "", validationError("model is required")
	}
	if len(c.allowedModels) > 0 {
		if _, ok := c.allowedModels[model]; !ok {
			return "", validationError("model %q is not allowed", model)
		}
	}

	for name, v := range req.Params {
		if _, ok := reservedParams[name]; ok {
			return "", validationError("param %q is reserved", name)
		}
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return "", validationError("param %q must be a finite number", name)
		}
	}

	if rf := req.ResponseFormat; rf != nil {
		if rf.Type != "json_schema" {
			return "", validationError("response_format type must be json_schema, got %q", rf.Type)
		}
		if rf.JSONSchema == nil || strings.TrimSpace(rf.JSONSchema.Name) == "" {
			return "", validationError("response_format json_schema name is required")
		}
		if !isJSONObject(rf.JSONSchema.Schema) {
			return "", validationError("response_format json_schema schema must be a JSON object")
		}
	}

	return model, nil
}

func isJSONObject(raw json.RawMessage) bool {
	trimmed := bytes.TrimSpace(raw)
	if len(trimmed) == 0 || trimmed[0] != '{' {
		return false
	}
	var obj map[string]json.RawMessage
	return json.Unmarshal(trimmed, &obj) == nil
}
