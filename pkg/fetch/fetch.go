// Package fetch acquires remote repositories for dumping.
package fetch

import (
	"fmt"
	"os"

	git "github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/plumbing"
	"github.com/go-git/go-git/v5/plumbing/transport/http"
	"go.uber.org/zap"
)

// Clone downloads the repository at url into a temporary directory and
// returns its path plus a cleanup function the caller must run when done.
// A non-empty token authenticates HTTPS clones of private repositories.
func Clone(url, token string, logger *zap.Logger) (string, func(), error) {
	tempDir, err := os.MkdirTemp("", "catrepo-")
	if err != nil {
		return "", nil, fmt.Errorf("failed to create temporary directory: %w", err)
	}

	options := &git.CloneOptions{
		URL:           url,
		ReferenceName: plumbing.HEAD,
		SingleBranch:  true,
		Depth:         1,
	}
	if token != "" {
		options.Auth = &http.BasicAuth{Username: "token", Password: token}
	}

	logger.Info("Cloning repository", zap.String("url", url), zap.String("dir", tempDir))
	if _, err := git.PlainClone(tempDir, false, options); err != nil {
		_ = os.RemoveAll(tempDir)
		return "", nil, fmt.Errorf("failed to clone repository %s: %w", url, err)
	}

	cleanup := func() {
		if err := os.RemoveAll(tempDir); err != nil {
			logger.Warn("Failed to remove temporary clone", zap.String("dir", tempDir), zap.Error(err))
		}
	}
	return tempDir, cleanup, nil
}
