package llm

import "context"

// Provider defines the interface for generative-language providers.
type Provider interface {
	// Complete sends a completion request and returns the response.
	Complete(ctx context.Context, req CompletionRequest) (*CompletionResponse, error)
	// Name returns the name of this provider.
	Name() string
}

// ImageProvider is implemented by providers that can render images.
type ImageProvider interface {
	GenerateImage(ctx context.Context, req ImageRequest) (*ImageResponse, error)
	Name() string
}

// AsImageProvider returns p as an ImageProvider when it supports images.
func AsImageProvider(p Provider) (ImageProvider, bool) {
	ip, ok := p.(ImageProvider)
	return ip, ok
}
