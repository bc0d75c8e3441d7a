package github

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	gh "github.com/google/go-github/v80/github"
	"github.com/rs/zerolog"
	"golang.org/x/oauth2"

	"github.com/nativz/cortex-sync/internal/core/domain"
	"github.com/nativz/cortex-sync/internal/core/ports/driven"
	"github.com/nativz/cortex-sync/internal/retry"
)

// DefaultTimeout is the default HTTP request timeout.
const DefaultTimeout = 30 * time.Second

// Vault implements the vault store on a single GitHub repository
// branch.
type Vault struct {
	gh      *gh.Client
	owner   string
	repo    string
	branch  string
	limiter *RateLimiter
	log     zerolog.Logger
}

var _ driven.VaultStore = (*Vault)(nil)

// Option configures a Vault.
type Option func(*Vault)

// WithLogger sets the adapter logger.
func WithLogger(log zerolog.Logger) Option {
	return func(v *Vault) {
		v.log = log
	}
}

// WithBaseURL points the client at a different API endpoint. Used by
// tests and GitHub Enterprise installs. The URL must end in a slash.
func WithBaseURL(raw string) Option {
	return func(v *Vault) {
		if u, err := url.Parse(raw); err == nil {
			v.gh.BaseURL = u
		}
	}
}

// NewVault builds a vault on owner/repo at the given branch, using a
// static token. Works for both PATs and app installation tokens.
func NewVault(ctx context.Context, token, owner, repo, branch string, opts ...Option) *Vault {
	ts := oauth2.StaticTokenSource(&oauth2.Token{AccessToken: token})
	tc := oauth2.NewClient(ctx, ts)
	tc.Timeout = DefaultTimeout

	v := &Vault{
		gh:      gh.NewClient(tc),
		owner:   owner,
		repo:    repo,
		branch:  branch,
		limiter: NewRateLimiter(),
		log:     zerolog.Nop(),
	}
	for _, opt := range opts {
		opt(v)
	}
	return v
}

// NewVaultWithHTTPClient builds a vault with a caller-supplied
// http.Client, for custom auth transports.
func NewVaultWithHTTPClient(httpClient *http.Client, owner, repo, branch string, opts ...Option) *Vault {
	v := &Vault{
		gh:      gh.NewClient(httpClient),
		owner:   owner,
		repo:    repo,
		branch:  branch,
		limiter: NewRateLimiter(),
		log:     zerolog.Nop(),
	}
	for _, opt := range opts {
		opt(v)
	}
	return v
}

// ReadFile fetches a file's decoded content and blob SHA.
func (v *Vault) ReadFile(ctx context.Context, path string) (*domain.VaultFile, error) {
	var file *domain.VaultFile

	err := retry.Do(ctx, func() error {
		if err := v.limiter.Wait(ctx); err != nil {
			return err
		}

		opts := &gh.RepositoryContentGetOptions{Ref: v.branch}
		content, _, resp, err := v.gh.Repositories.GetContents(ctx, v.owner, v.repo, path, opts)
		v.updateLimiter(resp)
		if err != nil {
			return v.mapError(err, "read "+path)
		}
		if content == nil {
			return fmt.Errorf("read %s: %w: path is a directory", path, domain.ErrValidation)
		}

		decoded, err := content.GetContent()
		if err != nil {
			return fmt.Errorf("read %s: decode: %w", path, err)
		}
		file = &domain.VaultFile{Path: path, Content: decoded, SHA: content.GetSHA()}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return file, nil
}

// WriteFile creates or updates a file on the branch and returns the
// new blob SHA. Writes are not retried here: a stale-hash conflict
// cannot succeed on retry, it needs the caller to re-read first.
func (v *Vault) WriteFile(ctx context.Context, path, content, message, sha string) (string, error) {
	if err := v.limiter.Wait(ctx); err != nil {
		return "", err
	}

	opts := &gh.RepositoryContentFileOptions{
		Message: gh.Ptr(message),
		Content: []byte(content),
		Branch:  gh.Ptr(v.branch),
	}

	var (
		result *gh.RepositoryContentResponse
		resp   *gh.Response
		err    error
	)
	if sha == "" {
		result, resp, err = v.gh.Repositories.CreateFile(ctx, v.owner, v.repo, path, opts)
	} else {
		opts.SHA = gh.Ptr(sha)
		result, resp, err = v.gh.Repositories.UpdateFile(ctx, v.owner, v.repo, path, opts)
	}
	v.updateLimiter(resp)
	if err != nil {
		return "", v.mapError(err, "write "+path)
	}

	v.log.Debug().Str("path", path).Str("commit", result.GetSHA()).Msg("vault file written")
	return result.Content.GetSHA(), nil
}

// DeleteFile removes a file in a single commit. A missing file is a
// no-op, not an error.
func (v *Vault) DeleteFile(ctx context.Context, path, message string) error {
	file, err := v.ReadFile(ctx, path)
	if errors.Is(err, domain.ErrNotFound) {
		return nil
	}
	if err != nil {
		return err
	}

	if err := v.limiter.Wait(ctx); err != nil {
		return err
	}

	opts := &gh.RepositoryContentFileOptions{
		Message: gh.Ptr(message),
		SHA:     gh.Ptr(file.SHA),
		Branch:  gh.Ptr(v.branch),
	}
	_, resp, err := v.gh.Repositories.DeleteFile(ctx, v.owner, v.repo, path, opts)
	v.updateLimiter(resp)
	if err != nil {
		return v.mapError(err, "delete "+path)
	}
	return nil
}

// ListFiles lists one directory level. A missing directory yields an
// empty listing.
func (v *Vault) ListFiles(ctx context.Context, dir string) ([]domain.VaultEntry, error) {
	var entries []domain.VaultEntry

	err := retry.Do(ctx, func() error {
		if err := v.limiter.Wait(ctx); err != nil {
			return err
		}

		opts := &gh.RepositoryContentGetOptions{Ref: v.branch}
		file, listing, resp, err := v.gh.Repositories.GetContents(ctx, v.owner, v.repo, dir, opts)
		v.updateLimiter(resp)
		if err != nil {
			return v.mapError(err, "list "+dir)
		}
		if file != nil {
			return fmt.Errorf("list %s: %w: path is a file", dir, domain.ErrValidation)
		}

		entries = entries[:0]
		for _, item := range listing {
			entry := domain.VaultEntry{
				Name: item.GetName(),
				Path: item.GetPath(),
			}
			switch item.GetType() {
			case "dir":
				entry.Type = domain.EntryDir
			case "file":
				entry.Type = domain.EntryFile
			default:
				continue
			}
			entries = append(entries, entry)
		}
		return nil
	})
	if errors.Is(err, domain.ErrNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return entries, nil
}

// FileExists reports whether a file exists on the branch.
func (v *Vault) FileExists(ctx context.Context, path string) (bool, error) {
	_, err := v.ReadFile(ctx, path)
	if errors.Is(err, domain.ErrNotFound) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}

// Repo returns the owner/repo the vault is bound to.
func (v *Vault) Repo() string {
	return strings.Join([]string{v.owner, v.repo}, "/")
}

func (v *Vault) updateLimiter(resp *gh.Response) {
	if resp == nil || resp.Response == nil {
		return
	}
	v.limiter.UpdateFromResponse(resp.Response)
}
