package s3archive

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"testing"
	"time"

	"huckster/config"
	"huckster/internal/arbitrage"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/google/uuid"
)

type fakePutter struct {
	input *s3.PutObjectInput
	body  []byte
	err   error
}

func (f *fakePutter) PutObject(_ context.Context, in *s3.PutObjectInput, _ ...func(*s3.Options)) (*s3.PutObjectOutput, error) {
	f.input = in
	f.body, _ = io.ReadAll(in.Body)
	return &s3.PutObjectOutput{}, f.err
}

// go test -v --run TestArchiveSave
func TestArchiveSave(t *testing.T) {
	fake := &fakePutter{}
	archive := NewWithClient(fake, "bucket", "arbitrages")

	id := uuid.MustParse("6f1c1b8e-0a64-4b1c-9f55-2a3c1f0e9d11")
	a := arbitrage.Arbitrage{ID: id, Timestamp: time.Date(2024, 3, 9, 23, 59, 0, 0, time.UTC), Profit: 1.02}

	if err := archive.Save(context.Background(), a); err != nil {
		t.Fatalf("save: %v", err)
	}

	wantKey := "arbitrages/2024/03/09/6f1c1b8e-0a64-4b1c-9f55-2a3c1f0e9d11.json"
	if got := aws.ToString(fake.input.Key); got != wantKey {
		t.Errorf("key = %s, want %s", got, wantKey)
	}
	if aws.ToString(fake.input.Bucket) != "bucket" {
		t.Errorf("bucket = %s", aws.ToString(fake.input.Bucket))
	}

	var got arbitrage.Arbitrage
	if err := json.Unmarshal(fake.body, &got); err != nil {
		t.Fatalf("body is not JSON: %v", err)
	}
	if got.ID != id || got.Profit != 1.02 {
		t.Errorf("archived = %+v", got)
	}
}

// go test -v --run TestArchiveSaveError
func TestArchiveSaveError(t *testing.T) {
	boom := errors.New("access denied")
	archive := NewWithClient(&fakePutter{err: boom}, "bucket", "")

	err := archive.Save(context.Background(), arbitrage.Arbitrage{ID: uuid.New()})
	if !errors.Is(err, boom) {
		t.Fatalf("error = %v, want wrapped access denied", err)
	}
}

// go test -v --run TestNewRequiresBucket
func TestNewRequiresBucket(t *testing.T) {
	if _, err := New(context.Background(), configWith("", "us-east-1")); err == nil {
		t.Fatal("expected error without bucket")
	}
	if _, err := New(context.Background(), configWith("b", "")); err == nil {
		t.Fatal("expected error without region")
	}
}

func configWith(bucket, region string) config.S3Config {
	return config.S3Config{Enabled: true, Bucket: bucket, Region: region}
}
