package adapters

import (
	"context"
	"fmt"
	"os"

	"generate-video-pipeline/application/ports/outbound"
	"generate-video-pipeline/config"
	"github.com/aws/aws-sdk-go/aws"
	"github.com/aws/aws-sdk-go/service/s3"
)

// s3VideoPublisher uploads the final video to S3. The local copy stays in
// the run directory.
type s3VideoPublisher struct {
	logger   outbound.LoggerPort
	s3Svc    *s3.S3
	s3Config *config.S3Config
}

func NewS3VideoPublisher(logger outbound.LoggerPort, s3Svc *s3.S3, s3Config *config.S3Config) outbound.VideoPublisherPort {
	return &s3VideoPublisher{
		logger:   logger,
		s3Svc:    s3Svc,
		s3Config: s3Config,
	}
}

func (p *s3VideoPublisher) Publish(ctx context.Context, req outbound.PublishVideoRequest) (*outbound.PublishVideoResponse, error) {
	file, err := os.Open(req.VideoFileName)
	if err != nil {
		p.logger.Error(err, "Failed to open video file")
		return nil, err
	}
	defer func(file *os.File) {
		err := file.Close()
		if err != nil {
			p.logger.Error(err, "Failed to close video file")
		}
	}(file)

	itemPath := fmt.Sprintf("runs/%s/final_video.mp4", req.RunID)

	putInput := &s3.PutObjectInput{
		Bucket: aws.String(p.s3Config.BucketName),
		Key:    aws.String(itemPath),
		Body:   file,
	}

	_, err = p.s3Svc.PutObjectWithContext(ctx, putInput)
	if err != nil {
		p.logger.ErrorWithFields(err, "Failed to upload video to S3", map[string]interface{}{
			"bucket": p.s3Config.BucketName,
			"key":    itemPath,
		})
		return nil, err
	}

	location := objectLocation(p.s3Config.BucketName, p.s3Config.Region, itemPath)
	p.logger.InfoWithFields("Video uploaded to S3", map[string]interface{}{
		"location": location,
	})

	return &outbound.PublishVideoResponse{Location: location}, nil
}

func objectLocation(bucket, region, key string) string {
	return fmt.Sprintf("https://%s.s3.%s.amazonaws.com/%s", bucket, region, key)
}
