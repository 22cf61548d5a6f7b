// Package storage wraps the Minio S3 client behind a small interface so
// publishing code can be tested against mocks. See the mocks subpackage.
package storage
