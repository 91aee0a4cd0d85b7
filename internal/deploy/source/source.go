// Package source resolves the application source to deploy, either a
// local checkout or a freshly cloned remote repository, and packs it
// into the archive format the build service ingests.
package source

import (
	"archive/tar"
	"compress/gzip"
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/go-git/go-git/v5"
	"go.uber.org/zap"

	"github.com/danielawaser/devops-project/internal/pkg/logger"
)

type WorkspaceReq struct {
	Logger *zap.Logger

	// Path is the local source directory; ignored when URL is set.
	Path string

	// URL is an optional remote repository to clone instead.
	URL string
}

type Workspace struct {
	logger *zap.Logger
	path   string
	url    string
}

// Info describes the resolved source tree.
type Info struct {
	Dir    string
	Commit string
}

func NewWorkspace(req *WorkspaceReq) *Workspace {
	return &Workspace{
		logger: req.Logger.Named(logger.ComponentNameSource),
		path:   req.Path,
		url:    req.URL,
	}
}

// Resolve locates the source tree, cloning the remote repository when
// one is configured. The returned commit is empty for plain
// directories that are not version controlled.
func (w *Workspace) Resolve(ctx context.Context) (*Info, error) {

	if w.url != "" {
		return w.clone(ctx)
	}

	absPath, err := filepath.Abs(w.path)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve source path: %w", err)
	}

	stat, err := os.Stat(absPath)
	if err != nil {
		return nil, fmt.Errorf("failed to stat source path: %w", err)
	}
	if !stat.IsDir() {
		return nil, fmt.Errorf("source path %q is not a directory", absPath)
	}

	info := Info{Dir: absPath}

	// A missing repository is not an error; the tree is deployed as-is
	// without commit provenance.
	repo, err := git.PlainOpenWithOptions(absPath, &git.PlainOpenOptions{DetectDotGit: true})
	if err != nil {
		if errors.Is(err, git.ErrRepositoryNotExists) {
			w.logger.Debug("source path is not a git repository", zap.String("path", absPath))
			return &info, nil
		}
		return nil, fmt.Errorf("failed to open source repository: %w", err)
	}

	head, err := repo.Head()
	if err != nil {
		w.logger.Debug("source repository has no HEAD", zap.Error(err))
		return &info, nil
	}
	info.Commit = head.Hash().String()

	w.logger.Info("resolved local source",
		zap.String("path", absPath), zap.String("commit", info.Commit))

	return &info, nil
}

func (w *Workspace) clone(ctx context.Context) (*Info, error) {

	dir, err := os.MkdirTemp("", "game-deploy-source-*")
	if err != nil {
		return nil, fmt.Errorf("failed to create clone directory: %w", err)
	}

	w.logger.Info("cloning source repository",
		zap.String("url", w.url), zap.String("dir", dir))

	repo, err := git.PlainCloneContext(ctx, dir, false, &git.CloneOptions{
		URL:   w.url,
		Depth: 1,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to clone source repository: %w", err)
	}

	info := Info{Dir: dir}

	if head, err := repo.Head(); err == nil {
		info.Commit = head.Hash().String()
	}

	return &info, nil
}

// Archive writes the resolved source tree to w as a gzipped tarball,
// skipping repository metadata.
func (w *Workspace) Archive(info *Info, out io.Writer) error {

	gzWriter := gzip.NewWriter(out)
	tarWriter := tar.NewWriter(gzWriter)

	walkErr := filepath.WalkDir(info.Dir, func(path string, entry fs.DirEntry, err error) error {
		if err != nil {
			return err
		}

		rel, err := filepath.Rel(info.Dir, path)
		if err != nil {
			return err
		}
		if rel == "." {
			return nil
		}
		if entry.IsDir() && entry.Name() == ".git" {
			return filepath.SkipDir
		}

		fileInfo, err := entry.Info()
		if err != nil {
			return err
		}

		// The build service only needs regular files and directories;
		// sockets and devices have no place in a source upload.
		if !fileInfo.Mode().IsRegular() && !fileInfo.IsDir() && fileInfo.Mode()&fs.ModeSymlink == 0 {
			return nil
		}

		var link string
		if fileInfo.Mode()&fs.ModeSymlink != 0 {
			if link, err = os.Readlink(path); err != nil {
				return err
			}
		}

		header, err := tar.FileInfoHeader(fileInfo, link)
		if err != nil {
			return err
		}
		header.Name = filepath.ToSlash(rel)
		if fileInfo.IsDir() {
			header.Name += "/"
		}

		if err := tarWriter.WriteHeader(header); err != nil {
			return err
		}

		if !fileInfo.Mode().IsRegular() {
			return nil
		}

		file, err := os.Open(path)
		if err != nil {
			return err
		}
		defer func() { _ = file.Close() }()

		_, err = io.Copy(tarWriter, file)
		return err
	})
	if walkErr != nil {
		return fmt.Errorf("failed to archive source: %w", walkErr)
	}

	if err := tarWriter.Close(); err != nil {
		return fmt.Errorf("failed to finalize source archive: %w", err)
	}
	return gzWriter.Close()
}
