// Package resolver turns user requests into ordered router instructions.
//
// Two resolvers exist. Lines parses instructions written directly in the
// "domain command(args)" form, one per line. LLM sends the request to an
// OpenRouter chat model whose system prompt lists the six domains and every
// command signature from the router table, and decodes the JSON plan it
// returns. Auto tries Lines first and falls back to LLM for free text.
//
// Requests unrelated to editing yield an empty plan whose reply is
// "I don't know.".
//
// # Retry Behaviour
//
// The chat client retries on HTTP 408/429/5xx errors and network timeouts with
// exponential backoff (base 1s, max 10s, up to 5 attempts by default), honours
// Retry-After, and stops immediately when the context is cancelled.
package resolver
