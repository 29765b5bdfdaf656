package aws_test

import (
	"context"
	"errors"
	"io"
	"testing"

	awssdk "github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/ssm"
	ssmtypes "github.com/aws/aws-sdk-go-v2/service/ssm/types"
	"github.com/isometry/wp-trigger-app/internal/controllers/aws"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeS3 struct {
	bucket, key, contentType string
	body                     []byte
	err                      error
}

func (f *fakeS3) PutObject(_ context.Context, in *s3.PutObjectInput, _ ...func(*s3.Options)) (*s3.PutObjectOutput, error) {
	if f.err != nil {
		return nil, f.err
	}
	f.bucket = awssdk.ToString(in.Bucket)
	f.key = awssdk.ToString(in.Key)
	f.contentType = awssdk.ToString(in.ContentType)
	f.body, _ = io.ReadAll(in.Body)
	return &s3.PutObjectOutput{}, nil
}

type fakeSSM struct {
	values map[string]string
}

func (f *fakeSSM) GetParameter(_ context.Context, in *ssm.GetParameterInput, _ ...func(*ssm.Options)) (*ssm.GetParameterOutput, error) {
	v, found := f.values[awssdk.ToString(in.Name)]
	if !found {
		return nil, errors.New("ParameterNotFound")
	}
	return &ssm.GetParameterOutput{Parameter: &ssmtypes.Parameter{Value: awssdk.String(v)}}, nil
}

func newController(t *testing.T, s3c *fakeS3, ssmc *fakeSSM) *aws.Controller {
	t.Helper()
	ctl, err := aws.NewController(aws.WithS3Client(s3c), aws.WithSSMClient(ssmc))
	require.NoError(t, err)
	return ctl
}

func TestController_PutS3Object(t *testing.T) {
	s3c := &fakeS3{}
	ctl := newController(t, s3c, &fakeSSM{})

	require.NoError(t, ctl.PutS3Object(context.Background(), "events", "wp/1.json", []byte(`{"event":"post_published"}`)))
	assert.Equal(t, "events", s3c.bucket)
	assert.Equal(t, "wp/1.json", s3c.key)
	assert.Equal(t, "application/json", s3c.contentType)
	assert.JSONEq(t, `{"event":"post_published"}`, string(s3c.body))

	assert.Error(t, ctl.PutS3Object(context.Background(), "", "k", nil))

	failing := newController(t, &fakeS3{err: errors.New("AccessDenied")}, &fakeSSM{})
	assert.ErrorContains(t, failing.PutS3Object(context.Background(), "events", "k", nil), "AccessDenied")
}

func TestController_GetSecret(t *testing.T) {
	ctl := newController(t, &fakeS3{}, &fakeSSM{values: map[string]string{"/wp/token": "s3cr3t"}})

	v, err := ctl.GetSecret(context.Background(), "/wp/token", true)
	require.NoError(t, err)
	assert.Equal(t, "s3cr3t", v)

	_, err = ctl.GetSecret(context.Background(), "/wp/missing", true)
	assert.Error(t, err)
}
