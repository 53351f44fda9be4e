/*
Copyright 2026 Chainguard, Inc.
SPDX-License-Identifier: Apache-2.0
*/

package review

import (
	"context"
	"fmt"
	"io"
	"path"
	"strings"

	"cloud.google.com/go/storage"
	"github.com/chainguard-dev/clog"
	"google.golang.org/api/option"

	"chainguard.dev/intakeevals/intake"
	"chainguard.dev/intakeevals/runner"
)

const gcsScheme = "gs://"

// GCSSink writes review files to a Cloud Storage bucket.
type GCSSink struct {
	bucket string
	prefix string

	// open returns a writer for an object in bucket.
	open func(ctx context.Context, object string) io.WriteCloser
}

var _ runner.ReviewSink = (*GCSSink)(nil)

// NewGCSSink returns a sink for a gs://bucket/prefix location. Without opts
// the client uses application default credentials.
func NewGCSSink(ctx context.Context, location string, opts ...option.ClientOption) (*GCSSink, error) {
	bucket, prefix, err := parseGCS(location)
	if err != nil {
		return nil, err
	}
	client, err := storage.NewClient(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to create storage client: %w", err)
	}
	return &GCSSink{
		bucket: bucket,
		prefix: prefix,
		open: func(ctx context.Context, object string) io.WriteCloser {
			w := client.Bucket(bucket).Object(object).NewWriter(ctx)
			w.ContentType = "application/json"
			return w
		},
	}, nil
}

func parseGCS(location string) (bucket, prefix string, err error) {
	rest, ok := strings.CutPrefix(location, gcsScheme)
	if !ok {
		return "", "", fmt.Errorf("location %q is not a %s URL", location, gcsScheme)
	}
	bucket, prefix, _ = strings.Cut(rest, "/")
	if bucket == "" {
		return "", "", fmt.Errorf("location %q has no bucket", location)
	}
	return bucket, strings.Trim(prefix, "/"), nil
}

// Generate implements runner.ReviewSink
func (s *GCSSink) Generate(ctx context.Context, scenario *intake.Scenario, output *intake.AgentOutput, result *runner.ScenarioResult) (string, error) {
	b, err := encode(Build(scenario, output, result))
	if err != nil {
		return "", err
	}

	object := path.Join(s.prefix, FileName(scenario.ID))
	w := s.open(ctx, object)
	if _, err := w.Write(b); err != nil {
		_ = w.Close()
		return "", fmt.Errorf("failed to upload review: %w", err)
	}
	// The upload is committed on Close.
	if err := w.Close(); err != nil {
		return "", fmt.Errorf("failed to upload review: %w", err)
	}

	location := gcsScheme + s.bucket + "/" + object
	clog.FromContext(ctx).With("location", location).Debug("Uploaded review")
	return location, nil
}
