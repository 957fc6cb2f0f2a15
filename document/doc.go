// Package document defines the text extraction boundary of the pipeline.
//
// A Document carries raw uploaded bytes plus MIME metadata; an Extractor
// turns those bytes into plain text suitable for concept extraction. The
// package ships a plain-text extractor; parsers for binary formats (PDF,
// slide decks) plug in behind the same interface.
package document
