package main

import (
	"context"
	"encoding/json"
	"os"
	"time"

	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/sqs"
	sqstypes "github.com/aws/aws-sdk-go-v2/service/sqs/types"
	"github.com/rs/zerolog/log"

	"github.com/deformed-cactus/chessOpenings/app"
	"github.com/deformed-cactus/chessOpenings/app/config"
	"github.com/deformed-cactus/chessOpenings/app/models"
)

func main() {
	baseCtx := context.Background()

	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load config")
	}
	config.SetupLogger(cfg.Logs)

	app.MustInitDB()

	queueURL := os.Getenv("QUEUE_URL")
	if queueURL == "" {
		log.Fatal().Msg("QUEUE_URL environment variable is required")
	}

	pool, err := app.NewEnginePool(app.PoolConfig{
		EnginePath: cfg.Engine.Path,
		Size:       cfg.Engine.PoolSize,
	})
	if err != nil {
		log.Fatal().Err(err).Msg("failed to start engine pool")
	}
	defer pool.Close()

	awsCfg, err := awsconfig.LoadDefaultConfig(baseCtx)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load AWS config")
	}
	sqsClient := sqs.NewFromConfig(awsCfg)

	log.Info().Str("queue", queueURL).Msg("worker started, listening on SQS queue")

	for {
		// Long-poll SQS
		recvCtx, cancel := context.WithTimeout(baseCtx, 30*time.Second)
		resp, err := sqsClient.ReceiveMessage(recvCtx, &sqs.ReceiveMessageInput{
			QueueUrl:            &queueURL,
			MaxNumberOfMessages: 5,
			WaitTimeSeconds:     20,  // enable long polling
			VisibilityTimeout:   600, // seconds; must exceed the longest walk
		})
		cancel()

		if err != nil {
			log.Error().Err(err).Msg("ReceiveMessage error")
			time.Sleep(5 * time.Second)
			continue
		}

		if len(resp.Messages) == 0 {
			// No work; small sleep to avoid a hot loop
			time.Sleep(2 * time.Second)
			continue
		}

		for _, m := range resp.Messages {
			if m.Body == nil {
				log.Warn().Msg("received message with empty body, skipping")
				continue
			}

			var job models.JobMessage
			if err := json.Unmarshal([]byte(*m.Body), &job); err != nil {
				log.Error().Err(err).Str("body", *m.Body).Msg("failed to unmarshal job message")
				// Delete poison pills rather than retrying forever
				deleteMessage(sqsClient, queueURL, m)
				continue
			}

			log.Info().
				Str("opening", job.Opening).
				Str("job_id", job.JobID).
				Msg("received job")

			// An exhaustive criticality walk can run a long time
			jobCtx, jobCancel := context.WithTimeout(baseCtx, 10*time.Minute)
			err := app.ProcessJob(jobCtx, cfg, pool, job)
			jobCancel()

			if err != nil {
				log.Error().Err(err).
					Str("job_id", job.JobID).
					Str("opening", job.Opening).
					Msg("error processing job")
				// Not deleted: the message becomes visible again after
				// VisibilityTimeout and gets retried.
				continue
			}

			deleteMessage(sqsClient, queueURL, m)
		}
	}
}

func deleteMessage(sqsClient *sqs.Client, queueURL string, m sqstypes.Message) {
	if m.ReceiptHandle == nil {
		return
	}
	_, err := sqsClient.DeleteMessage(context.Background(), &sqs.DeleteMessageInput{
		QueueUrl:      &queueURL,
		ReceiptHandle: m.ReceiptHandle,
	})
	if err != nil {
		log.Error().Err(err).Msg("failed to delete SQS message")
	}
}
