package cmd

import (
	"context"
	"net/http"
	"net/http/httptest"
	"slices"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/isometry/wp-trigger-app/internal/config"
	"github.com/isometry/wp-trigger-app/internal/helpers"
	"github.com/isometry/wp-trigger-app/internal/metrics"
	"github.com/pkg/errors"
	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeSecrets map[string]string

func (f fakeSecrets) GetSecret(_ context.Context, key string, _ bool) (string, error) {
	v, found := f[key]
	if !found {
		return "", errors.Errorf("parameter %s not found", key)
	}
	return v, nil
}

type fakeStore struct {
	mu   sync.Mutex
	keys []string
}

func (f *fakeStore) PutS3Object(_ context.Context, _, key string, _ []byte) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.keys = append(f.keys, key)
	return nil
}

func withForward(t *testing.T) {
	saved := config.Forward
	t.Cleanup(func() { config.Forward = saved })
	config.Forward.Log.Enabled = false
	config.Forward.S3.Bucket = "deliveries"
	config.Forward.S3.Prefix = "wp/"
}

func newTestBuilder(store *fakeStore, m *metrics.Metrics) *builder {
	return &builder{
		ctx:     context.Background(),
		logger:  helpers.NewNoopLogger(),
		metrics: m,
		secrets: fakeSecrets{"/wp/token": "from-ssm"},
		store:   store,
	}
}

func spec(name, path, event string) config.TriggerSpec {
	return config.TriggerSpec{Name: name, Path: path, Event: event, AuthFailureStatusCode: http.StatusUnauthorized}
}

func TestBuilder_Mounts(t *testing.T) {
	withForward(t)

	ssm := spec("secured", "/secured", "any")
	ssm.SecretTokenSSMKey = "/wp/token"
	missing := spec("missing", "/missing", "any")
	missing.SecretTokenSSMKey = "/wp/absent"
	badStatus := spec("bad", "/bad", "any")
	badStatus.PostStatus = []string{"trash"}

	testCases := []struct {
		Name        string
		Specs       []config.TriggerSpec
		ExpectPaths []string
		ExpectError bool
	}{
		{
			Name:        "two_triggers",
			Specs:       []config.TriggerSpec{spec("posts", "/posts", "post_published"), spec("comments", "/comments", "comment_created")},
			ExpectPaths: []string{"/posts", "/comments"},
		},
		{Name: "ssm_token", Specs: []config.TriggerSpec{ssm}, ExpectPaths: []string{"/secured"}},
		{Name: "ssm_token_missing", Specs: []config.TriggerSpec{missing}, ExpectError: true},
		{Name: "invalid_event", Specs: []config.TriggerSpec{spec("x", "/x", "post_exploded")}, ExpectError: true},
		{Name: "invalid_status", Specs: []config.TriggerSpec{badStatus}, ExpectError: true},
		{Name: "duplicate_name", Specs: []config.TriggerSpec{spec("a", "/a", "any"), spec("a", "/b", "any")}, ExpectError: true},
		{Name: "duplicate_path", Specs: []config.TriggerSpec{spec("a", "/a", "any"), spec("b", "/a", "any")}, ExpectError: true},
	}

	for _, tc := range testCases {
		t.Run(tc.Name, func(t *testing.T) {
			mounts, err := newTestBuilder(&fakeStore{}, nil).mounts(tc.Specs)
			if tc.ExpectError {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			paths := make([]string, len(mounts))
			for i, m := range mounts {
				paths[i] = m.Path
			}
			assert.Equal(t, tc.ExpectPaths, paths)
		})
	}
}

func withTriggers(t *testing.T, flagTrigger config.TriggerSpec, declared bool, fileTriggers ...config.TriggerSpec) {
	trig, triggers, wasDeclared := config.Trigger, config.Triggers, config.TriggerDeclared
	t.Cleanup(func() { config.Trigger, config.Triggers, config.TriggerDeclared = trig, triggers, wasDeclared })
	config.Trigger, config.Triggers, config.TriggerDeclared = flagTrigger, fileTriggers, declared
}

func newTestServer(t *testing.T, store *fakeStore, m *metrics.Metrics) (*httptest.Server, []mount) {
	t.Helper()
	mounts, err := newTestBuilder(store, m).mounts(config.AllTriggers())
	require.NoError(t, err)
	t.Cleanup(func() { assert.NoError(t, closeMounts(context.Background(), mounts)) })

	savedPath, savedMetrics := config.Service.Path, config.Service.Metrics.Path
	t.Cleanup(func() { config.Service.Path, config.Service.Metrics.Path = savedPath, savedMetrics })
	config.Service.Path, config.Service.Metrics.Path = "/", "/metrics"

	server := httptest.NewServer(newServeMux(mounts, m))
	t.Cleanup(server.Close)
	return server, mounts
}

func post(t *testing.T, url, body string, headers map[string]string) *http.Response {
	t.Helper()
	req, err := http.NewRequest(http.MethodPost, url, strings.NewReader(body))
	require.NoError(t, err)
	req.Header.Set("Content-Type", "application/json")
	for k, v := range headers {
		req.Header.Set(k, v)
	}
	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	t.Cleanup(func() { _ = resp.Body.Close() })
	return resp
}

func flush(t *testing.T, mounts []mount) {
	t.Helper()
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	for _, mt := range mounts {
		require.NoError(t, mt.Runtime.Flush(ctx))
	}
}

func (f *fakeStore) Keys() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return slices.Clone(f.keys)
}

func TestServeMux(t *testing.T) {
	withForward(t)

	// The flag trigger keeps its defaults and is not served alongside file-declared triggers.
	secured := spec("secured", "/secured", "any")
	secured.SecretTokenSSMKey = "/wp/token"
	withTriggers(t, spec("default", "/", "any"), false, spec("posts", "/posts", "post_published"), secured)

	store := &fakeStore{}
	m := metrics.New()
	server, mounts := newTestServer(t, store, m)
	require.Len(t, mounts, 2)

	testCases := []struct {
		Name           string
		Path           string
		Body           string
		Headers        map[string]string
		ExpectedStatus int
	}{
		{Name: "accepted", Path: "/posts", Body: `{"event":"post_published","post_type":"post"}`, ExpectedStatus: http.StatusOK},
		{Name: "ignored", Path: "/posts", Body: `{"event":"post_updated"}`, ExpectedStatus: http.StatusOK},
		{Name: "ssm_token_rejected", Path: "/secured", Body: `{}`, Headers: map[string]string{"X-WP-Webhook-Token": "wrong"}, ExpectedStatus: http.StatusUnauthorized},
		{Name: "ssm_token_accepted", Path: "/secured", Body: `{}`, Headers: map[string]string{"X-WP-Webhook-Token": "from-ssm"}, ExpectedStatus: http.StatusOK},
		{Name: "unmounted_path", Path: "/nowhere", Body: `{"event":"post_published"}`, ExpectedStatus: http.StatusNotFound},
		{Name: "unmounted_subpath", Path: "/secured/typo", Body: `{"event":"post_published"}`, ExpectedStatus: http.StatusNotFound},
		{Name: "undeclared_root", Path: "/", Body: `{"event":"post_published"}`, ExpectedStatus: http.StatusNotFound},
	}

	for _, tc := range testCases {
		t.Run(tc.Name, func(t *testing.T) {
			resp := post(t, server.URL+tc.Path, tc.Body, tc.Headers)
			assert.Equal(t, tc.ExpectedStatus, resp.StatusCode)
		})
	}

	// Only the two accepted calls reach the object store.
	flush(t, mounts)
	assert.Len(t, store.Keys(), 2)

	resp, err := http.Get(server.URL + "/healthz")
	require.NoError(t, err)
	_ = resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	resp, err = http.Get(server.URL + "/metrics")
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)
}

func TestServeMux_RootTrigger(t *testing.T) {
	withForward(t)
	withTriggers(t, spec("default", "/", "any"), false)

	store := &fakeStore{}
	server, mounts := newTestServer(t, store, nil)
	require.Len(t, mounts, 1)

	testCases := []struct {
		Name           string
		Path           string
		ExpectedStatus int
	}{
		{Name: "root", Path: "/", ExpectedStatus: http.StatusOK},
		{Name: "subpath_not_served", Path: "/anything", ExpectedStatus: http.StatusNotFound},
		{Name: "metrics_disabled", Path: "/metrics", ExpectedStatus: http.StatusNotFound},
	}

	for _, tc := range testCases {
		t.Run(tc.Name, func(t *testing.T) {
			resp := post(t, server.URL+tc.Path, `{"event":"post_published"}`, nil)
			assert.Equal(t, tc.ExpectedStatus, resp.StatusCode)
		})
	}

	flush(t, mounts)
	assert.Len(t, store.Keys(), 1)
}

func TestMountPattern(t *testing.T) {
	assert.Equal(t, "POST /{$}", mountPattern(http.MethodPost, "/"))
	assert.Equal(t, "POST /hooks/{$}", mountPattern(http.MethodPost, "/hooks/"))
	assert.Equal(t, "GET /healthz", mountPattern(http.MethodGet, "/healthz"))
}

func TestFlagsSet(t *testing.T) {
	var name, bucket string
	newCmd := func(args ...string) *cobra.Command {
		cmd := &cobra.Command{Use: "test", RunE: func(*cobra.Command, []string) error { return nil }}
		bindEnvMap(cmd, map[*string]boundEnvVar[string]{
			&name:   {Name: "trigger-name", Env: helpers.Ptr("TEST_WP_TRIGGER_NAME")},
			&bucket: {Name: "forward-s3-bucket", Env: helpers.Ptr("TEST_WP_FORWARD_S3_BUCKET")},
		})
		cmd.SetArgs(append([]string{}, args...))
		require.NoError(t, cmd.Execute())
		return cmd
	}

	assert.False(t, flagsSet(newCmd(), "trigger-"))
	assert.False(t, flagsSet(newCmd("--forward-s3-bucket", "b"), "trigger-"))
	assert.True(t, flagsSet(newCmd("--trigger-name", "posts"), "trigger-"))

	t.Setenv("TEST_WP_TRIGGER_NAME", "posts")
	assert.True(t, flagsSet(newCmd(), "trigger-"))
}
