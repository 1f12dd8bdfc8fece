// Package artifact archives step transcripts of finished jobs to an
// S3-compatible bucket so diagnostics survive process restarts.
package artifact

import (
	"bytes"
	"context"
	"fmt"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/rs/zerolog"

	"github.com/edvin/siteprovision/internal/model"
)

type Store struct {
	logger zerolog.Logger
	client *s3.Client
	bucket string
}

// NewStore creates a Store for an S3-compatible endpoint with static
// credentials, e.g. a local Ceph RGW.
func NewStore(logger zerolog.Logger, endpoint, accessKey, secretKey, bucket string) *Store {
	client := s3.New(s3.Options{
		BaseEndpoint: aws.String(endpoint),
		Region:       "us-east-1",
		Credentials:  credentials.NewStaticCredentialsProvider(accessKey, secretKey, ""),
		UsePathStyle: true,
	})
	return &Store{
		logger: logger.With().Str("component", "artifact-store").Logger(),
		client: client,
		bucket: bucket,
	}
}

// PutTranscript uploads the full step transcript of a finished job under
// jobs/{subdomain}/{id}.log.
func (s *Store) PutTranscript(ctx context.Context, job *model.Job) error {
	key := fmt.Sprintf("jobs/%s/%s.log", job.Subdomain, job.ID)

	_, err := s.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(s.bucket),
		Key:         aws.String(key),
		Body:        bytes.NewReader([]byte(Transcript(job))),
		ContentType: aws.String("text/plain; charset=utf-8"),
	})
	if err != nil {
		return fmt.Errorf("put transcript %s: %w", key, err)
	}

	s.logger.Info().Str("job_id", job.ID).Str("key", key).Msg("archived job transcript")
	return nil
}

// Transcript renders a job's steps as a plain-text log.
func Transcript(job *model.Job) string {
	var b strings.Builder
	fmt.Fprintf(&b, "job %s (%s) %s\n", job.ID, job.SiteURL, job.Status)
	if job.Error != "" {
		fmt.Fprintf(&b, "error: %s\n", job.Error)
	}
	for _, step := range job.Steps {
		fmt.Fprintf(&b, "\n--- step %s [%s]\n", step.Name, step.Status)
		if step.SpawnError != "" {
			fmt.Fprintf(&b, "spawn error: %s\n", step.SpawnError)
			continue
		}
		if step.Status == model.StatusSkipped {
			continue
		}
		fmt.Fprintf(&b, "exit code: %d\n", step.ExitCode)
		if step.Stdout != "" {
			fmt.Fprintf(&b, "stdout:\n%s", ensureNewline(step.Stdout))
		}
		if step.Stderr != "" {
			fmt.Fprintf(&b, "stderr:\n%s", ensureNewline(step.Stderr))
		}
	}
	return b.String()
}

func ensureNewline(s string) string {
	if strings.HasSuffix(s, "\n") {
		return s
	}
	return s + "\n"
}
