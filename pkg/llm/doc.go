// Package llm abstracts the hosted text-generation APIs the blueprint
// driver delegates to. Providers are stateless and reentrant; callers
// bound each call with a context deadline.
package llm
