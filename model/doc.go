// Package model defines the provider-agnostic abstraction for the language
// model service the pipeline depends on.
//
// Core goals:
//   - Keep request/response shapes minimal and transport independent
//   - Treat the model as an opaque completion service: prompt in, text out
//   - Facilitate lightweight mocking for tests (MockModel)
//
// Providers (e.g. OpenAI, Anthropic) implement the Model interface from this
// package so higher layers (extraction, strategies, narration) remain
// decoupled from vendor SDKs.
package model
