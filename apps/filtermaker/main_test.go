package main

import (
	"bytes"
	"context"
	"errors"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/urfave/cli/v2"

	"github.com/SteeveDroz/filters/pkg/raster"
	"github.com/SteeveDroz/filters/pkg/storage"
)

func writeSource(t *testing.T, dir string) string {
	t.Helper()
	path := filepath.Join(dir, "photo.jpg")
	require.NoError(t, raster.Encode(raster.Fill(8, 8, raster.Pixel{R: 10, G: 20, B: 30}), path, 100))
	return path
}

func runApp(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var stdout, stderr bytes.Buffer
	app := newApp(&stdout, &stderr)
	app.ExitErrHandler = func(*cli.Context, error) {}
	err := app.Run(append([]string{"filtermaker"}, args...))
	return stdout.String(), err
}

func exitCode(t *testing.T, err error) int {
	t.Helper()
	var coder cli.ExitCoder
	require.True(t, errors.As(err, &coder), "expected exit error, got %v", err)
	return coder.ExitCode()
}

func TestUsageError(t *testing.T) {
	_, err := runApp(t)
	require.Error(t, err)
	assert.Equal(t, 2, exitCode(t, err))
	assert.Contains(t, err.Error(), synopsis)
}

func TestMissingSource(t *testing.T) {
	_, err := runApp(t, filepath.Join(t.TempDir(), "missing.jpg"), "invert")
	require.Error(t, err)
	assert.Equal(t, 1, exitCode(t, err))
	assert.Contains(t, err.Error(), "The image can't be found")
}

func TestUndecodableSource(t *testing.T) {
	junk := filepath.Join(t.TempDir(), "junk.jpg")
	require.NoError(t, os.WriteFile(junk, []byte("junk"), 0o644))
	_, err := runApp(t, junk)
	require.Error(t, err)
	assert.Equal(t, 1, exitCode(t, err))
}

func TestFiltersAndNaming(t *testing.T) {
	dir := t.TempDir()
	src := writeSource(t, dir)

	stdout, err := runApp(t, "--workers", "2", src, "invert", "sparkle", "grayscale")
	require.NoError(t, err)
	assert.Contains(t, stdout, "Unknown filter: sparkle, the list of filters are: color,")

	out, err := raster.Decode(filepath.Join(dir, "photo_invert_grayscale.jpg"))
	require.NoError(t, err)
	p := out.At(4, 4)
	assert.InDelta(t, 245, int(p.R), 4)
	assert.Equal(t, p.R, p.G)
	assert.Equal(t, p.G, p.B)
}

func TestEmptyChainKeepsName(t *testing.T) {
	dir := t.TempDir()
	src := writeSource(t, dir)

	dest, err := process(context.Background(), options{}, nil, src, nil, io.Discard)
	require.NoError(t, err)
	assert.Equal(t, src, dest)
}

func TestFetchRequiresBucket(t *testing.T) {
	_, err := process(context.Background(), options{fetch: true}, nil, "photo.jpg", nil, io.Discard)
	require.Error(t, err)
	assert.Equal(t, 2, exitCode(t, err))
}

type memoryS3 struct {
	objects map[string][]byte
}

func (m *memoryS3) HeadBucket(context.Context, *s3.HeadBucketInput, ...func(*s3.Options)) (*s3.HeadBucketOutput, error) {
	return &s3.HeadBucketOutput{}, nil
}

func (m *memoryS3) CreateBucket(context.Context, *s3.CreateBucketInput, ...func(*s3.Options)) (*s3.CreateBucketOutput, error) {
	return &s3.CreateBucketOutput{}, nil
}

func (m *memoryS3) PutObject(_ context.Context, in *s3.PutObjectInput, _ ...func(*s3.Options)) (*s3.PutObjectOutput, error) {
	data, err := io.ReadAll(in.Body)
	if err != nil {
		return nil, err
	}
	m.objects[aws.ToString(in.Key)] = data
	return &s3.PutObjectOutput{}, nil
}

func (m *memoryS3) GetObject(_ context.Context, in *s3.GetObjectInput, _ ...func(*s3.Options)) (*s3.GetObjectOutput, error) {
	data, ok := m.objects[aws.ToString(in.Key)]
	if !ok {
		return nil, errors.New("no such key")
	}
	return &s3.GetObjectOutput{Body: io.NopCloser(bytes.NewReader(data))}, nil
}

func TestFetchAndPublish(t *testing.T) {
	data, err := os.ReadFile(writeSource(t, t.TempDir()))
	require.NoError(t, err)

	work := t.TempDir()
	t.Chdir(work)

	api := &memoryS3{objects: map[string][]byte{"job1/photo.jpg": data}}
	opts := options{fetch: true, storage: storage.Config{Bucket: "images", Prefix: "job1"}}
	dest, err := process(context.Background(), opts, api, "job1/photo.jpg", []string{"RED", "invert"}, io.Discard)
	require.NoError(t, err)
	assert.Equal(t, "photo_red_invert.jpg", dest)
	assert.FileExists(t, filepath.Join(work, "photo_red_invert.jpg"))

	published, ok := api.objects["job1/photo_red_invert.jpg"]
	require.True(t, ok)
	assert.True(t, strings.HasPrefix(string(published), "\xff\xd8"), "result must be a JPEG")
}

func TestFetchLeavesLocalFileAlone(t *testing.T) {
	data, err := os.ReadFile(writeSource(t, t.TempDir()))
	require.NoError(t, err)

	work := t.TempDir()
	t.Chdir(work)
	local := filepath.Join(work, "photo.jpg")
	require.NoError(t, os.WriteFile(local, []byte("keep me"), 0o644))

	api := &memoryS3{objects: map[string][]byte{"job1/photo.jpg": data}}
	opts := options{fetch: true, storage: storage.Config{Bucket: "images", Prefix: "job1"}}
	dest, err := process(context.Background(), opts, api, "job1/photo.jpg", []string{"invert"}, io.Discard)
	require.NoError(t, err)
	assert.Equal(t, "photo_invert.jpg", dest)

	kept, err := os.ReadFile(local)
	require.NoError(t, err)
	assert.Equal(t, "keep me", string(kept))
	assert.FileExists(t, filepath.Join(work, "photo_invert.jpg"))
}
