package adapters

import (
	"context"
	"time"

	"generate-video-pipeline/application/ports/outbound"
	"generate-video-pipeline/config"
	"generate-video-pipeline/domain"
	"github.com/aws/aws-sdk-go/aws"
	"github.com/aws/aws-sdk-go/service/dynamodb"
	"github.com/aws/aws-sdk-go/service/dynamodb/dynamodbattribute"
)

type dynamoRunItem struct {
	RunID     string   `dynamodbav:"run_id"`
	Topic     string   `dynamodbav:"topic"`
	Script    string   `dynamodbav:"script"`
	Scenes    []string `dynamodbav:"scenes"`
	CreatedAt int64    `dynamodbav:"created_at"`
	TTL       int64    `dynamodbav:"ttl"`
}

type dynamoRunStore struct {
	logger       outbound.LoggerPort
	dynamoSvc    *dynamodb.DynamoDB
	dynamoConfig *config.DynamoConfig
}

func NewDynamoRunStore(logger outbound.LoggerPort, dynamoSvc *dynamodb.DynamoDB, dynamoConfig *config.DynamoConfig) outbound.RunStorePort {
	return &dynamoRunStore{
		logger:       logger,
		dynamoSvc:    dynamoSvc,
		dynamoConfig: dynamoConfig,
	}
}

func (s *dynamoRunStore) Save(ctx context.Context, record domain.RunRecord) error {
	scenes := make([]string, 0, len(record.Scenes))
	for _, scene := range record.Scenes {
		scenes = append(scenes, scene.Text)
	}

	item := dynamoRunItem{
		RunID:     record.RunID,
		Topic:     record.Topic,
		Script:    record.Script,
		Scenes:    scenes,
		CreatedAt: record.CreatedAt.Unix(),
		TTL:       record.CreatedAt.Add(time.Duration(s.dynamoConfig.TtlMinutes) * time.Minute).Unix(),
	}

	av, err := dynamodbattribute.MarshalMap(item)
	if err != nil {
		s.logger.ErrorWithFields(err, "Failed to marshal run item", map[string]interface{}{
			"run_id": record.RunID,
		})
		return err
	}

	input := &dynamodb.PutItemInput{
		Item:      av,
		TableName: aws.String(s.dynamoConfig.TableName),
	}

	_, err = s.dynamoSvc.PutItemWithContext(ctx, input)
	if err != nil {
		s.logger.ErrorWithFields(err, "Failed to save run item", map[string]interface{}{
			"run_id": record.RunID,
			"table":  s.dynamoConfig.TableName,
		})
		return err
	}

	return nil
}
