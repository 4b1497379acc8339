package handler

import "log/slog"

// Pipeline defines the processing stages for HTTP requests and responses.
// It provides a fluent interface for configuring authentication and processors.
type Pipeline struct {
	auth               Authenticator
	serializer         Serializer
	requestProcessors  []RequestProcessor
	responseProcessors []ResponseProcessor
	logger             *slog.Logger
}

// NewPipeline creates a new empty pipeline for configuring request/response
// processing.
func NewPipeline() *Pipeline {
	return &Pipeline{logger: slog.Default()}
}

// Clone returns a copy of the pipeline, so that a base pipeline can be
// extended for specific endpoints without modifying it.
func (p *Pipeline) Clone() *Pipeline {
	np := *p
	np.requestProcessors = append([]RequestProcessor(nil), p.requestProcessors...)
	np.responseProcessors = append([]ResponseProcessor(nil), p.responseProcessors...)
	return &np
}

// Auth sets the authenticator for this pipeline.
func (p *Pipeline) Auth(auth Authenticator) *Pipeline {
	p.auth = auth
	return p
}

// Serialize sets the request and response serializer for this pipeline.
func (p *Pipeline) Serialize(s Serializer) *Pipeline {
	p.serializer = s
	return p
}

// Logger sets the logger used to report server errors.
func (p *Pipeline) Logger(logger *slog.Logger) *Pipeline {
	p.logger = logger
	return p
}

// ProcessRequest adds one or more request processors to the pipeline.
func (p *Pipeline) ProcessRequest(processor ...RequestProcessor) *Pipeline {
	p.requestProcessors = append(p.requestProcessors, processor...)
	return p
}

// ProcessResponse adds one or more response processors to the pipeline.
func (p *Pipeline) ProcessResponse(processor ...ResponseProcessor) *Pipeline {
	p.responseProcessors = append(p.responseProcessors, processor...)
	return p
}
