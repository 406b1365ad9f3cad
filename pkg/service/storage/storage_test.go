package storage_test

import (
	"context"
	"os"
	"strings"
	"testing"
	"time"

	"github.com/m-mizutani/gt"
	"github.com/secmon-lab/testgenie/pkg/service/storage"
)

func TestObjectName(t *testing.T) {
	gt.Value(t, storage.ObjectNameForTest("", "a/b.csv")).Equal("a/b.csv")
	gt.Value(t, storage.ObjectNameForTest("exports", "/a/b.csv")).Equal("exports/a/b.csv")
	gt.Value(t, storage.ObjectNameForTest("exports/v1", "b.csv")).Equal("exports/v1/b.csv")
}

func TestNewRequiresBucket(t *testing.T) {
	_, err := storage.New(context.Background(), "")
	gt.Value(t, err).NotNil()
}

func TestIntegration(t *testing.T) {
	bucket := os.Getenv("TEST_STORAGE_BUCKET")
	if bucket == "" {
		t.Skip("TEST_STORAGE_BUCKET is not set")
	}

	ctx := context.Background()
	a, err := storage.New(ctx, bucket, storage.WithPrefix("test"))
	gt.NoError(t, err).Required()
	t.Cleanup(func() { gt.NoError(t, a.Close()) })

	name := time.Now().UTC().Format("20060102T150405") + "/testcase_steps.csv"
	url, err := a.Store(ctx, name, "text/csv", []byte("step_number,step_type\n1,precondition\n"))
	gt.NoError(t, err).Required()
	gt.Bool(t, strings.HasPrefix(url, "gs://"+bucket+"/test/")).True()
}
