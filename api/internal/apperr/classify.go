package apperr

import (
	"errors"
	"log"
	"strings"
)

// keyword groups in precedence order: first match wins.
type rule struct {
	kind     Kind
	keywords []string
}

// Generic precedence: auth, rate-limit, content-policy, not-found, timeout,
// network, storage-permission, storage-full.
var genericRules = []rule{
	{KindAuth, []string{"api key", "unauthorized", "authentication", "401"}},
	{KindRateLimit, []string{"rate limit", "quota", "too many requests", "429"}},
	{KindContentPolicy, []string{"content policy", "safety", "inappropriate"}},
	{KindNotFound, []string{"not found", "404"}},
	{KindTimeout, []string{"timeout", "timed out", "time out", "deadline exceeded"}},
	{KindNetwork, []string{"connection", "network", "unreachable"}},
	{KindStoragePermission, []string{"access denied", "permission"}},
	{KindStorageFull, []string{"storage full", "insufficient storage", "no space"}},
	{KindForbidden, []string{"forbidden"}},
}

// Provider-specific sets run before the generic table when the provider is
// named in the service label or in the error text itself.
var falRules = []rule{
	{KindAuth, []string{"api key", "unauthorized", "401"}},
	{KindRateLimit, []string{"rate limit", "429", "quota", "too many requests"}},
	{KindContentPolicy, []string{"safety", "content policy", "inappropriate"}},
	{KindUnavailable, []string{"model unavailable", "model not found"}},
	{KindTimeout, []string{"timeout", "time out"}},
	{KindValidation, []string{"invalid", "parameter", "argument"}},
	{KindEmptyResult, []string{"no images", "no videos", "empty result"}},
}

var openaiRules = []rule{
	{KindAuth, []string{"api key", "unauthorized"}},
	{KindRateLimit, []string{"rate limit", "quota", "429", "too many requests"}},
	{KindContentPolicy, []string{"content policy", "safety"}},
}

var googleRules = []rule{
	{KindAuth, []string{"api key", "unauthorized"}},
	{KindRateLimit, []string{"quota", "rate limit", "429", "resource exhausted", "too many requests"}},
	{KindContentPolicy, []string{"safety", "content policy", "blocked"}},
}

var storageRules = []rule{
	{KindStoragePermission, []string{"permission", "access denied", "forbidden", "403"}},
	{KindStorageFull, []string{"quota", "storage full", "no space"}},
	{KindStorage, nil}, // catch-all for storage-labeled errors
}

// Classify maps a raw error from a provider or storage call to the response
// the route returns. It never panics; anything unexpected comes back as a
// generic 500 Service Error.
func Classify(err error, service, operation string) (resp *Response) {
	defer func() {
		if r := recover(); r != nil {
			log.Printf("classifier panic for %s/%s: %v", service, operation, r)
			resp = newResponse(500, "Service Error", KindUnknown.message(service, operation), details(service, operation))
		}
	}()

	if err == nil {
		return newResponse(500, "Service Error", KindUnknown.message(service, operation), details(service, operation))
	}
	log.Printf("error during %s (%s): %v", operation, service, err)

	// Typed errors from adapters short-circuit text matching.
	var e *E
	if errors.As(err, &e) && e.Kind != KindUnknown {
		return fromKind(e.Kind, service, operation)
	}

	msg := strings.ToLower(err.Error())
	svc := strings.ToLower(service)

	switch {
	case strings.Contains(svc, "fal") || strings.Contains(msg, "fal.ai"):
		if k, ok := match(falRules, msg); ok {
			return fromKind(k, service, operation)
		}
		return fromKind(KindService, service, operation)
	case strings.Contains(msg, "openai") || strings.Contains(msg, "gpt") || strings.Contains(svc, "openai"):
		if k, ok := match(openaiRules, msg); ok {
			return fromKind(k, service, operation)
		}
		return fromKind(KindService, service, operation)
	// storage before google: "Google Cloud Storage" names both
	case strings.Contains(svc, "storage") || strings.Contains(msg, "gcs") || strings.Contains(msg, "bucket"):
		if k, ok := match(storageRules, msg); ok {
			return fromKind(k, service, operation)
		}
		return fromKind(KindStorage, service, operation)
	case strings.Contains(msg, "gemini") || strings.Contains(msg, "google") || strings.Contains(msg, "imagen") ||
		strings.Contains(svc, "gemini") || strings.Contains(svc, "google") || strings.Contains(svc, "imagen") || strings.Contains(svc, "veo"):
		if k, ok := match(googleRules, msg); ok {
			return fromKind(k, service, operation)
		}
		return fromKind(KindService, service, operation)
	}

	if k, ok := match(genericRules, msg); ok {
		return fromKind(k, service, operation)
	}
	return newResponse(500, "Service Error", KindUnknown.message(service, operation), details(service, operation))
}

func match(rules []rule, msg string) (Kind, bool) {
	for _, r := range rules {
		if len(r.keywords) == 0 {
			return r.kind, true
		}
		for _, kw := range r.keywords {
			if strings.Contains(msg, kw) {
				return r.kind, true
			}
		}
	}
	return KindUnknown, false
}

func fromKind(k Kind, service, operation string) *Response {
	return newResponse(k.status(), k.category(), k.message(service, operation), details(service, operation))
}

func details(service, operation string) map[string]any {
	return map[string]any{"service": service, "operation": operation}
}
