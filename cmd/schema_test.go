package cmd

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/isometry/wp-trigger-app/internal/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSchema(t *testing.T) {
	type printed struct {
		Events []struct {
			Value string `json:"value"`
		} `json:"events"`
		PostStatuses []struct {
			Value string `json:"value"`
		} `json:"postStatuses"`
		Resources []struct {
			Name       string `json:"name"`
			Operations []struct {
				Name string `json:"name"`
			} `json:"operations"`
		} `json:"resources"`
	}

	testCases := []struct {
		Name              string
		Args              []string
		ExpectedResources []string
		ExpectError       bool
	}{
		{Name: "all_resources", Args: []string{}, ExpectedResources: []string{"category", "tag"}},
		{Name: "one_resource", Args: []string{"tag"}, ExpectedResources: []string{"tag"}},
		{Name: "unknown_resource", Args: []string{"page"}, ExpectError: true},
		{Name: "too_many_args", Args: []string{"tag", "category"}, ExpectError: true},
	}

	for _, tc := range testCases {
		t.Run(tc.Name, func(t *testing.T) {
			var out bytes.Buffer
			cmd := cmdSchema()
			cmd.SetOut(&out)
			cmd.SetErr(&bytes.Buffer{})
			cmd.SetArgs(tc.Args)

			err := cmd.Execute()
			if tc.ExpectError {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)

			var got printed
			require.NoError(t, json.Unmarshal(out.Bytes(), &got))

			events := make([]string, len(got.Events))
			for i, e := range got.Events {
				events[i] = e.Value
			}
			assert.Equal(t, []string{"any", "comment_created", "post_deleted", "post_published", "post_updated", "user_registered"}, events)
			assert.Len(t, got.PostStatuses, 5)

			names := make([]string, len(got.Resources))
			for i, r := range got.Resources {
				names[i] = r.Name
				assert.NotEmpty(t, r.Operations)
			}
			assert.Equal(t, tc.ExpectedResources, names)
		})
	}
}

func TestPossibleValues(t *testing.T) {
	desc := envMapString[&config.Trigger.Event].Description
	assert.Contains(t, desc, "'any', 'comment_created', 'post_deleted', 'post_published', 'post_updated' and 'user_registered'")
}
