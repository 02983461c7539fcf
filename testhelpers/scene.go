package testhelpers

import (
	"os/exec"
	"path/filepath"
	"strconv"
	"testing"
)

// Scene is a test fixture holding a temporary directory with a Git repository.
type Scene struct {
	Dir  string
	Repo *GitRepo
}

// SceneSetup is a function type for setting up a scene.
type SceneSetup func(*Scene) error

// NewScene creates a new test scene with a temporary directory and Git repository.
// Tests are skipped when git is not installed. Cleanup is handled by t.TempDir.
func NewScene(t *testing.T, setup SceneSetup) *Scene {
	t.Helper()
	SkipIfNoGit(t)

	dir := filepath.Join(t.TempDir(), "repo")
	repo, err := NewGitRepo(dir)
	if err != nil {
		t.Fatalf("Failed to create Git repo: %v", err)
	}

	scene := &Scene{Dir: dir, Repo: repo}

	if setup != nil {
		if err := setup(scene); err != nil {
			t.Fatalf("Setup failed: %v", err)
		}
	}

	return scene
}

// SkipIfNoGit skips the test when the git binary is not on PATH
func SkipIfNoGit(t *testing.T) {
	t.Helper()
	if _, err := exec.LookPath("git"); err != nil {
		t.Skip("git not installed")
	}
}

// BasicSceneSetup is a setup function that creates a basic scene with a single commit.
func BasicSceneSetup(scene *Scene) error {
	return scene.Repo.CreateChangeAndCommit("1", "1")
}

// LinearHistorySetup returns a setup creating n commits on main, messages "commit 1".."commit n"
func LinearHistorySetup(n int) SceneSetup {
	return func(scene *Scene) error {
		for i := 1; i <= n; i++ {
			msg := "commit " + strconv.Itoa(i)
			if err := scene.Repo.CommitFile("history.txt", msg+"\n", msg); err != nil {
				return err
			}
		}
		return nil
	}
}
