package core

import (
	"context"
	"errors"
	"path/filepath"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"voltron/internal/types"
)

func TestInstallPlannerSkipsBlacklistedAndSatisfied(t *testing.T) {
	base := "/host"
	descriptors := fakeDescriptors{
		filepath.Join(base, "voltron-a"): {
			Name: "voltron-a",
			DevDependencies: []types.Dependency{
				{Name: "webpack", Range: "^5.0.0"},
				{Name: "mocha", Range: "^10.0.0"},
				{Name: "rollup", Range: "^4.1.0"},
				{Name: "esbuild", Range: "~0.19.0"},
				{Name: "local-tool", Range: "file:../tool"},
			},
		},
		filepath.Join(base, "webpack"): {Name: "webpack", Version: "5.88.2"},
		filepath.Join(base, "rollup"):  {Name: "rollup", Version: "4.0.2"},
		filepath.Join(base, "esbuild"): {Name: "esbuild", Version: "not-a-version"},
	}

	plans, err := NewInstallPlanner(descriptors, flatLayout{}).Plan(context.Background(), []string{"voltron-a"}, base)
	require.NoError(t, err)
	require.Len(t, plans, 1)
	plan := plans[0]
	assert.Equal(t, "voltron-a", plan.Extension)
	assert.Equal(t, filepath.Join(base, "voltron-a"), plan.Dir)
	if diff := cmp.Diff([]types.Dependency{
		{Name: "rollup", Range: "^4.1.0"},
		{Name: "esbuild", Range: "~0.19.0"},
		{Name: "local-tool", Range: "file:../tool"},
	}, plan.Install); diff != "" {
		t.Fatalf("install mismatch (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff([]SkippedDependency{
		{Dependency: types.Dependency{Name: "mocha", Range: "^10.0.0"}, Reason: SkipBlacklisted},
		{Dependency: types.Dependency{Name: "webpack", Range: "^5.0.0"}, Reason: SkipAlreadyInstalled, Installed: "5.88.2"},
	}, plan.Skipped); diff != "" {
		t.Fatalf("skipped mismatch (-want +got):\n%s", diff)
	}
}

func TestInstallPlannerExtensionWithoutDescriptor(t *testing.T) {
	plans, err := NewInstallPlanner(fakeDescriptors{}, flatLayout{}).Plan(context.Background(), []string{"voltron-a", "voltron-b"}, "/host")
	require.NoError(t, err)
	require.Len(t, plans, 2)
	assert.Empty(t, plans[0].Install)
	assert.Equal(t, "voltron-b", plans[1].Extension)
}

func TestInstallPlannerDescriptorError(t *testing.T) {
	boom := errors.New("bad descriptor")
	_, err := NewInstallPlanner(failingDescriptors{err: boom}, flatLayout{}).Plan(context.Background(), []string{"voltron-a"}, "/host")
	require.ErrorIs(t, err, types.ErrInvalidExtensionConfig)
	require.ErrorIs(t, err, boom)
}
