package service

import (
	"encoding/json"
	"fmt"
	"regexp"
	"strings"
)

var (
	fenceStartRe = regexp.MustCompile("(?is)^\\s*```(?:json)?\\s*")
	fenceEndRe   = regexp.MustCompile("(?is)\\s*```\\s*$")
)

// ParseError describe una salida del oraculo que no respeta el esquema esperado.
type ParseError struct {
	Stage string
	Raw   string
	Err   error
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("parse %s response: %v (raw=%q)", e.Stage, e.Err, truncateForLog(e.Raw, 200))
}

func (e *ParseError) Unwrap() error {
	return e.Err
}

func newParseError(stage, raw string, err error) *ParseError {
	return &ParseError{Stage: stage, Raw: raw, Err: err}
}

// CleanLLMJSONResponse quita fences ```json ... ``` y BOM, dejando el contenido usable.
func CleanLLMJSONResponse(raw string) string {
	s := strings.TrimSpace(raw)
	if s == "" {
		return ""
	}

	s = strings.TrimPrefix(s, "\uFEFF")
	s = fenceStartRe.ReplaceAllString(s, "")
	s = fenceEndRe.ReplaceAllString(s, "")
	return strings.TrimSpace(s)
}

// decodeLLMObject intenta el texto limpio completo y despues el primer objeto balanceado.
func decodeLLMObject(stage, raw string, out any) error {
	return decodeLLMJSON(stage, raw, out, extractFirstJSONObject)
}

// decodeLLMArray es como decodeLLMObject pero para respuestas que son un array JSON.
func decodeLLMArray(stage, raw string, out any) error {
	return decodeLLMJSON(stage, raw, out, extractFirstJSONArray)
}

func decodeLLMJSON(stage, raw string, out any, extract func(string) string) error {
	cleaned := CleanLLMJSONResponse(raw)
	if cleaned == "" {
		return newParseError(stage, raw, fmt.Errorf("empty response"))
	}

	firstErr := json.Unmarshal([]byte(cleaned), out)
	if firstErr == nil {
		return nil
	}

	block := extract(cleaned)
	if block == "" {
		return newParseError(stage, raw, firstErr)
	}
	if err := json.Unmarshal([]byte(block), out); err != nil {
		return newParseError(stage, raw, err)
	}
	return nil
}

// cleanStringList recorta espacios y descarta entradas vacias; nunca devuelve nil.
func cleanStringList(in []string) []string {
	out := make([]string, 0, len(in))
	for _, s := range in {
		s = strings.TrimSpace(s)
		if s == "" {
			continue
		}
		out = append(out, s)
	}
	return out
}

func truncateForLog(s string, max int) string {
	if len(s) <= max {
		return s
	}
	return s[:max] + "..."
}
