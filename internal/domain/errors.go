package domain

import "errors"

var (
	// ErrUnsupportedFormat signals a file extension no extractor handles.
	ErrUnsupportedFormat = errors.New("unsupported document format")
	// ErrEmptyDocument signals extraction produced no text.
	ErrEmptyDocument = errors.New("no text extracted from document")
	// ErrDocumentNotFound signals a missing document record.
	ErrDocumentNotFound = errors.New("document not found")
	// ErrSessionNotFound signals an unknown chat session.
	ErrSessionNotFound = errors.New("chat session not found")
	// ErrEmbeddingProviderError signals an embedding provider failure.
	ErrEmbeddingProviderError = errors.New("embedding provider error")
	// ErrLLMProviderError signals a generative model failure.
	ErrLLMProviderError = errors.New("llm provider error")
)
