package preview

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/plumbing/object"
)

// Publisher writes project files into a local git repository and commits
// them, one commit per publish.
type Publisher struct {
	author string
	email  string
}

func NewPublisher() *Publisher {
	return &Publisher{author: "sitesmith", email: "sitesmith@localhost"}
}

// Publish writes the standalone documents into dir, initializing a git
// repository on first use, and commits the result. Returns the commit hash.
func (p *Publisher) Publish(dir string, files map[string]string, message string) (string, error) {
	if dir == "" {
		return "", fmt.Errorf("publish directory is required")
	}
	if len(files) == 0 {
		return "", fmt.Errorf("no files to publish")
	}
	if err := os.MkdirAll(dir, 0755); err != nil {
		return "", fmt.Errorf("creating publish directory: %w", err)
	}

	repo, err := git.PlainInit(dir, false)
	if errors.Is(err, git.ErrRepositoryAlreadyExists) {
		repo, err = git.PlainOpen(dir)
	}
	if err != nil {
		return "", fmt.Errorf("opening publish repository: %w", err)
	}

	for name, content := range files {
		path := filepath.Join(dir, name)
		if err := os.WriteFile(path, []byte(StandaloneDocument(content)), 0644); err != nil {
			return "", fmt.Errorf("writing %s: %w", name, err)
		}
	}

	wt, err := repo.Worktree()
	if err != nil {
		return "", fmt.Errorf("getting worktree: %w", err)
	}
	for name := range files {
		if _, err := wt.Add(name); err != nil {
			return "", fmt.Errorf("staging %s: %w", name, err)
		}
	}

	if message == "" {
		message = "publish site"
	}
	hash, err := wt.Commit(message, &git.CommitOptions{
		Author: &object.Signature{
			Name:  p.author,
			Email: p.email,
			When:  time.Now(),
		},
	})
	if err != nil {
		return "", fmt.Errorf("committing publish: %w", err)
	}
	return hash.String(), nil
}
