package usecase

import (
	"github.com/loghog/loghog/internal/domain"
)

// Extract pulls the indexable metadata out of a validated submission. It is a
// pure function: a top-level override wins over the same-named key inside the
// body; otherwise the body value is used; otherwise the field is absent.
// Category alone falls back to domain.DefaultCategory.
func Extract(sub *Submission) domain.IndexFields {
	fields := domain.IndexFields{
		Category: pickString(sub.Overrides.Category, sub.Body, "category"),
		TraceID:  pickString(sub.Overrides.TraceID, sub.Body, "trace_id"),
		SpanID:   pickString(sub.Overrides.SpanID, sub.Body, "span_id"),
	}
	if fields.Category == "" {
		fields.Category = domain.DefaultCategory
	}

	if sub.Overrides.Tags != nil {
		fields.Tags = sub.Overrides.Tags
	} else {
		fields.Tags = tagsFromBody(sub.Body)
	}

	if sub.Overrides.Template != nil {
		fields.Template = sub.Overrides.Template
	} else {
		fields.Template = templateFromBody(sub.Body)
	}

	return fields
}

func pickString(override *string, body map[string]any, key string) string {
	if override != nil {
		return *override
	}
	if v, ok := body[key].(string); ok {
		return v
	}
	return ""
}

// tagsFromBody reads a flat string-to-string mapping from body["tags"].
// Non-string values are skipped rather than coerced; a body whose tags key is
// not an object yields no tags.
func tagsFromBody(body map[string]any) map[string]string {
	raw, ok := body["tags"].(map[string]any)
	if !ok {
		return nil
	}
	tags := make(map[string]string, len(raw))
	for k, v := range raw {
		if s, ok := v.(string); ok {
			tags[k] = s
		}
	}
	if len(tags) == 0 {
		return nil
	}
	return tags
}

// templateFromBody reads a {name, params} pair from body["template"]. Params
// are stored as-is; they are not checked against the template's placeholders
// at ingestion time.
func templateFromBody(body map[string]any) *domain.Template {
	raw, ok := body["template"].(map[string]any)
	if !ok {
		return nil
	}
	name, ok := raw["name"].(string)
	if !ok || name == "" {
		return nil
	}
	tpl := &domain.Template{Name: name}
	if params, ok := raw["params"].(map[string]any); ok {
		tpl.Params = params
	}
	return tpl
}
