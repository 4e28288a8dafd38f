package app

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	aws "github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/sqs"
	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"

	"github.com/deformed-cactus/chessOpenings/app/config"
	"github.com/deformed-cactus/chessOpenings/app/models"
)

func Health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

// StartOpeningAnalysis resolves the opening, records a job row, and
// enqueues one analysis job for the worker fleet.
func StartOpeningAnalysis(c *gin.Context) {
	name := strings.ToLower(c.Param("name"))
	if name == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "missing opening name"})
		return
	}
	if _, err := ResolveOpening(name); err != nil {
		c.JSON(http.StatusNotFound, gin.H{
			"error":    "opening not found",
			"openings": OpeningNames(),
		})
		return
	}

	cfg, err := config.LoadConfig()
	if err != nil {
		log.Error().Err(err).Msg("LoadConfig failed")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to load config"})
		return
	}

	// Optional overrides: ?candidates=3&depth=5&threshold=50
	candidates := 0
	if q := c.Query("candidates"); q != "" {
		if v, err := parsePositiveInt(q); err == nil && v > 0 && v <= 10 {
			candidates = v
		}
	}
	depth := 0
	if q := c.Query("depth"); q != "" {
		if v, err := parsePositiveInt(q); err == nil && v > 0 && v <= 30 {
			depth = v
		}
	}
	threshold := 0
	if q := c.Query("threshold"); q != "" {
		if v, err := parsePositiveInt(q); err == nil && v > 0 {
			threshold = v
		}
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), 10*time.Second)
	defer cancel()

	// Record that a job has begun
	jobID, err := CreateJob(ctx, name)
	if err != nil {
		log.Error().Err(err).Str("opening", name).Msg("failed to create job")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to create job"})
		return
	}

	if cfg.QueueURL == "" {
		log.Warn().Str("opening", name).Msg("QUEUE_URL missing in config; skipping enqueue")
	} else {
		awsCfg, err := awsconfig.LoadDefaultConfig(ctx)
		if err != nil {
			log.Error().Err(err).Msg("failed to load AWS config for SQS")
		} else {
			sqsClient := sqs.NewFromConfig(awsCfg)

			jobMsg := models.JobMessage{
				Opening:        name,
				CandidateCount: candidates,
				VariationDepth: depth,
				ThresholdCP:    threshold,
				JobID:          jobID,
			}

			body, err := json.Marshal(jobMsg)
			if err != nil {
				log.Error().Err(err).Str("opening", name).Msg("failed to marshal JobMessage")
			} else if _, err = sqsClient.SendMessage(ctx, &sqs.SendMessageInput{
				QueueUrl:    &cfg.QueueURL,
				MessageBody: aws.String(string(body)),
			}); err != nil {
				log.Error().Err(err).Str("opening", name).Msg("failed to send SQS message")
			}
		}
	}

	c.IndentedJSON(http.StatusAccepted, gin.H{
		"opening": name,
		"job_id":  jobID,
	})
}

// GetOpeningReports returns the stored variation reports for an opening.
func GetOpeningReports(c *gin.Context) {
	name := strings.ToLower(c.Param("name"))
	if name == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "missing opening name"})
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), 10*time.Second)
	defer cancel()

	reports, err := LoadReports(ctx, name)
	if err != nil {
		log.Error().Err(err).Str("opening", name).Msg("LoadReports failed")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to load reports"})
		return
	}

	c.IndentedJSON(http.StatusOK, gin.H{
		"opening": name,
		"count":   len(reports),
		"reports": reports,
	})
}

// GetJobStatus returns the status of one analysis job.
func GetJobStatus(c *gin.Context) {
	jobID := c.Param("jobid")
	if jobID == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "missing job id"})
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
	defer cancel()

	status, err := GetJob(ctx, jobID)
	if errors.Is(err, sql.ErrNoRows) {
		c.JSON(http.StatusNotFound, gin.H{"error": "job not found"})
		return
	}
	if err != nil {
		log.Error().Err(err).Str("job_id", jobID).Msg("GetJob failed")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to load job"})
		return
	}

	c.JSON(http.StatusOK, status)
}

func parsePositiveInt(s string) (int, error) {
	var n int
	_, err := fmt.Sscanf(s, "%d", &n)
	if err != nil {
		return 0, err
	}
	return n, nil
}
