// Package aws loads the storage credentials handed to the Scanner pods and
// probes the storage bucket they read from.
//
// Scanner reads its input from S3, so the cluster only needs an access key
// pair; the bucket check is a diagnostic used by doctor.
package aws
