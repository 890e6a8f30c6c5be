package outbound

import "context"

type PublishVideoRequest struct {
	VideoFileName string
	RunID         string
	Topic         string
}

type PublishVideoResponse struct {
	Location string
}

type VideoPublisherPort interface {
	Publish(ctx context.Context, req PublishVideoRequest) (*PublishVideoResponse, error)
}
