// Package transport gets an assembled report to its destination: a collector
// reached over HTTPS with a bearer token, a local file, or an S3-compatible
// object store addressed as s3://bucket/key.
package transport
