// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package storage provides an S3-compatible object storage client for
// article cover images. It wraps the AWS SDK v2 and is configured for
// path-style access so it works against MinIO, CEPH and Hetzner as well
// as AWS.
package storage

import (
	"context"
	"fmt"
	"io"
	"path"
	"strings"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	s3types "github.com/aws/aws-sdk-go-v2/service/s3/types"
	"github.com/google/uuid"
	"github.com/gosimple/slug"
)

// Client wraps an S3 client bound to the public covers bucket.
type Client struct {
	s3        *s3.Client
	bucket    string
	endpoint  string
	publicURL string // optional CDN/direct URL for public files
}

// New creates an S3 storage client with path-style addressing. Returns
// (nil, nil) if endpoint or credentials are empty, allowing the app to
// start without storage.
func New(endpoint, region, accessKey, secretKey, bucket, publicURL string) (*Client, error) {
	if endpoint == "" || accessKey == "" || secretKey == "" {
		return nil, nil
	}
	if bucket == "" {
		return nil, fmt.Errorf("s3 bucket is required")
	}

	endpoint = strings.TrimRight(endpoint, "/")

	s3Client := s3.New(s3.Options{
		Region:       region,
		BaseEndpoint: aws.String(endpoint),
		Credentials:  credentials.NewStaticCredentialsProvider(accessKey, secretKey, ""),
		UsePathStyle: true,
	})

	return &Client{
		s3:        s3Client,
		bucket:    bucket,
		endpoint:  endpoint,
		publicURL: strings.TrimRight(publicURL, "/"),
	}, nil
}

// Put stores a public-read object and returns its URL.
func (c *Client) Put(ctx context.Context, key, contentType string, body io.Reader, size int64) (string, error) {
	_, err := c.s3.PutObject(ctx, &s3.PutObjectInput{
		Bucket:        aws.String(c.bucket),
		Key:           aws.String(key),
		Body:          body,
		ContentLength: aws.Int64(size),
		ContentType:   aws.String(contentType),
		ACL:           s3types.ObjectCannedACLPublicRead,
		CacheControl:  aws.String("public, max-age=31536000, immutable"),
	})
	if err != nil {
		return "", fmt.Errorf("s3 upload %s/%s: %w", c.bucket, key, err)
	}
	return c.FileURL(key), nil
}

// FileURL returns the public URL for key. Uses the configured public URL if
// set, otherwise builds a path-style URL.
func (c *Client) FileURL(key string) string {
	if c.publicURL != "" {
		return c.publicURL + "/" + key
	}
	return c.endpoint + "/" + c.bucket + "/" + key
}

// CoverKey builds the object key for an uploaded cover:
// covers/<yyyy>/<mm>/<uuid>-<name-slug><ext>. The slug part is dropped when
// the original file name has nothing usable in it.
func CoverKey(now time.Time, filename, ext string) string {
	base := strings.TrimSuffix(path.Base(filename), path.Ext(filename))
	name := uuid.NewString()
	if s := slug.Make(base); s != "" {
		if len(s) > 60 {
			s = strings.Trim(s[:60], "-")
		}
		name += "-" + s
	}
	return fmt.Sprintf("covers/%04d/%02d/%s%s", now.Year(), int(now.Month()), name, ext)
}

// ThumbKey derives the thumbnail key stored next to a cover.
func ThumbKey(coverKey string) string {
	ext := path.Ext(coverKey)
	return strings.TrimSuffix(coverKey, ext) + "_thumb.jpg"
}
