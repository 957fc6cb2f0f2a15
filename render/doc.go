// Package render assembles a completed pipeline run into a single
// self-contained HTML artifact: the scene layout as embedded JSON, narration
// text per concept, and synthesized audio inlined as base64 data URIs so the
// file needs no companion assets beyond the CDN-hosted renderer.
package render
