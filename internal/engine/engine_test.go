package engine

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/thoreinstein/lspinstall/internal/client"
	"github.com/thoreinstein/lspinstall/internal/docs"
	"github.com/thoreinstein/lspinstall/internal/errors"
	"github.com/thoreinstein/lspinstall/internal/install"
	"github.com/thoreinstein/lspinstall/internal/install/mocks"
	"github.com/thoreinstein/lspinstall/internal/library"
	"github.com/thoreinstein/lspinstall/internal/logging"
	"github.com/thoreinstein/lspinstall/internal/resolve"
)

const clientModule = `;;; lsp-x.el --- test clients -*- lexical-binding: t; -*-

(defgroup lsp-x nil
  "LSP support for X."
  :group 'lsp-mode)

(lsp-register-client
 (make-lsp-client :new-connection (lsp-stdio-connection "xls")
                  :server-id 'X))

(defcustom lsp-rust-server-command '("rls")
  "Command to start RLS."
  :group 'lsp-x)

(lsp-register-client
 (make-lsp-client :new-connection (lsp-stdio-connection
                                   (lambda () lsp-rust-server-command))
                  :server-id 'rls))

(lsp-register-client
 (make-lsp-client :new-connection (lsp-stdio-connection "unlisted-ls")
                  :server-id 'unlisted))

(defgroup lsp-zed nil
  "LSP support for Zed."
  :group 'lsp-mode
  :link '(url-link "https://example.com/zed"))

(lsp-register-client
 (make-lsp-client :new-connection (lsp-stdio-connection
                                   (lambda () (zed-locate-server)))
                  :server-id 'zed))

(defgroup lsp-local nil
  "LSP support for a locally built server."
  :group 'lsp-mode)

(lsp-register-client
 (make-lsp-client :new-connection (lsp-stdio-connection "~/.local/bin/xls")
                  :server-id 'local-xls))

(provide 'lsp-x)
`

const readme = `* Supported languages

| Language | Server | Installation command      |
|----------+--------+---------------------------|
| X        | xls    | npm install -g xls-server |
| Rust     | rls    | cargo install rls         |
`

type fixture struct {
	index   *library.Index
	opts    Options
	status  *bytes.Buffer
	onPath  map[string]string
	baseDir string
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	base := t.TempDir()
	module := filepath.Join(base, "clients", "lsp-x.el")
	require.NoError(t, os.MkdirAll(filepath.Dir(module), 0o755))
	require.NoError(t, os.WriteFile(module, []byte(clientModule), 0o644))
	doc := filepath.Join(base, "README.org")
	require.NoError(t, os.WriteFile(doc, []byte(readme), 0o644))

	logger := logging.ForTest(t)
	f := &fixture{
		status:  &bytes.Buffer{},
		onPath:  map[string]string{},
		baseDir: base,
	}
	f.index = library.NewIndex(library.Options{BaseDir: base, Logger: logger})
	f.opts = Options{
		Index:     f.index,
		Extractor: client.NewExtractorWithLogger(f.index, "", logger),
		Resolver:  resolve.NewResolverWithLogger(nil, logger),
		Locator:   docs.NewLocatorWithLogger(doc, logger),
		LookPath: func(file string) (string, error) {
			if p, ok := f.onPath[file]; ok {
				return p, nil
			}
			return "", errors.Newf("%s: executable file not found in $PATH", file)
		},
		Status: f.status,
		Logger: logger,
	}
	return f
}

func (f *fixture) engine(t *testing.T, installer install.Installer) *Engine {
	t.Helper()
	opts := f.opts
	opts.Installer = installer
	return New(opts)
}

type answer struct {
	yes       bool
	questions []string
}

func (a *answer) Confirm(q string) (bool, error) {
	a.questions = append(a.questions, q)
	return a.yes, nil
}

func TestInstall_DocumentedNpmCommand(t *testing.T) {
	f := newFixture(t)
	m := mocks.NewMockInstaller(t)
	m.EXPECT().InstallNpmPackages(mock.Anything, []string{"xls-server"}).Return(nil)

	confirm := &answer{yes: true}
	f.opts.Confirmer = confirm

	out, err := f.engine(t, m).Install(context.Background(), "X")
	require.NoError(t, err)
	assert.Equal(t, OutcomeInstalled, out.Kind)
	assert.Equal(t, SourceDocs, out.Source)
	assert.Equal(t, "xls", out.Executable)
	assert.Equal(t, install.Npm{Packages: []string{"xls-server"}}, out.Instruction)
	assert.Equal(t, []string{"Install npm packages xls-server?"}, confirm.questions)
}

func TestInstall_DocumentedShellCommand(t *testing.T) {
	f := newFixture(t)
	m := mocks.NewMockInstaller(t)
	m.EXPECT().RunShellCommand(mock.Anything, "cargo install rls").Return(nil)

	out, err := f.engine(t, m).Install(context.Background(), "rls")
	require.NoError(t, err)
	assert.Equal(t, install.Shell{Command: "cargo install rls"}, out.Instruction)
}

func TestInstall_NoInformation(t *testing.T) {
	f := newFixture(t)
	e := f.engine(t, mocks.NewMockInstaller(t))

	_, err := e.Install(context.Background(), "Y")
	require.Error(t, err)
	assert.Equal(t, "no information on Y", err.Error())
	assert.True(t, errors.Is(err, errors.ErrNoInformation))
}

func TestInstall_NoInformationAfterFailedLookup(t *testing.T) {
	f := newFixture(t)
	e := f.engine(t, mocks.NewMockInstaller(t))

	_, err := e.Install(context.Background(), "unlisted")
	require.Error(t, err)
	assert.True(t, errors.Is(err, errors.ErrNoInformation))
	assert.True(t, errors.Is(err, errors.ErrNotFound))
	assert.True(t, strings.HasPrefix(err.Error(), "no information on unlisted"))
}

func TestInstall_SuggestsClosestServerID(t *testing.T) {
	f := newFixture(t)
	e := f.engine(t, mocks.NewMockInstaller(t))

	_, err := e.Install(context.Background(), "rlss")
	require.Error(t, err)

	var exitErr *errors.ExitError
	require.True(t, errors.As(err, &exitErr))
	assert.Equal(t, "Did you mean rls?", exitErr.Suggestion)
	assert.True(t, errors.Is(err, errors.ErrNoInformation))
}

func TestInstall_StaticSpecBypassesDiscovery(t *testing.T) {
	m := mocks.NewMockInstaller(t)
	m.EXPECT().InstallNpmPackages(mock.Anything, []string{"foo-language-server"}).Return(nil)

	e := New(Options{
		Index:     untouched{t},
		Extractor: untouched{t},
		Resolver:  untouched{t},
		Locator:   untouched{t},
		Specs:     install.Specs{"foo": `(npm "foo-language-server")`},
		Installer: m,
		LookPath: func(string) (string, error) {
			t.Fatal("LookPath must not be called for a static spec")
			return "", nil
		},
		Logger: logging.ForTest(t),
	})

	for range 3 {
		out, err := e.Install(context.Background(), "foo")
		require.NoError(t, err)
		assert.Equal(t, SourceSpec, out.Source)
		assert.Equal(t, install.Npm{Packages: []string{"foo-language-server"}}, out.Instruction)
	}
}

func TestInstall_StaticSpecKinds(t *testing.T) {
	ctx := context.Background()

	t.Run("function", func(t *testing.T) {
		m := mocks.NewMockInstaller(t)
		m.EXPECT().RunShellCommand(mock.Anything, "go install golang.org/x/tools/gopls@latest").Return(nil)
		e := New(Options{
			Specs:     install.Specs{"gopls": `(function go-install "golang.org/x/tools/gopls")`},
			Installer: m,
			Logger:    logging.ForTest(t),
		})
		_, err := e.Install(ctx, "gopls")
		require.NoError(t, err)
	})

	t.Run("shell", func(t *testing.T) {
		m := mocks.NewMockInstaller(t)
		m.EXPECT().RunShellCommand(mock.Anything, "brew install ccls").Return(nil)
		e := New(Options{
			Specs:     install.Specs{"ccls": map[string]any{"shell": "brew install ccls"}},
			Installer: m,
			Logger:    logging.ForTest(t),
		})
		_, err := e.Install(ctx, "ccls")
		require.NoError(t, err)
	})

	t.Run("error", func(t *testing.T) {
		e := New(Options{
			Specs:     install.Specs{"omnisharp": `(error "Install OmniSharp from its release page")`},
			Installer: mocks.NewMockInstaller(t),
			Logger:    logging.ForTest(t),
		})
		_, err := e.Install(ctx, "omnisharp")
		require.Error(t, err)
		assert.Contains(t, err.Error(), "Install OmniSharp from its release page")
	})

	t.Run("unsupported", func(t *testing.T) {
		e := New(Options{
			Specs:     install.Specs{"ccls": `(brew "ccls")`},
			Installer: mocks.NewMockInstaller(t),
			Logger:    logging.ForTest(t),
		})
		_, err := e.Install(ctx, "ccls")
		require.Error(t, err)
		assert.True(t, errors.Is(err, errors.ErrUnsupportedSpec))
	})

	t.Run("unknown function", func(t *testing.T) {
		e := New(Options{
			Specs:     install.Specs{"x": `(function brew-install "x")`},
			Installer: mocks.NewMockInstaller(t),
			Logger:    logging.ForTest(t),
		})
		_, err := e.Install(ctx, "x")
		require.Error(t, err)
		assert.True(t, errors.Is(err, errors.ErrUnsupportedSpec))
	})
}

func TestInstall_AlreadyInstalled(t *testing.T) {
	f := newFixture(t)
	f.onPath["xls"] = "/usr/local/bin/xls"

	out, err := f.engine(t, mocks.NewMockInstaller(t)).Install(context.Background(), "X")
	require.NoError(t, err)
	assert.Equal(t, OutcomeAlreadyInstalled, out.Kind)
	assert.Equal(t, "/usr/local/bin/xls", out.Path)
	assert.Equal(t, "xls is already installed at /usr/local/bin/xls\n", f.status.String())
}

func TestInstall_ExecutablePath(t *testing.T) {
	f := newFixture(t)
	m := mocks.NewMockInstaller(t)
	m.EXPECT().InstallNpmPackages(mock.Anything, []string{"xls-server"}).Return(nil)

	var looked []string
	f.opts.LookPath = func(file string) (string, error) {
		looked = append(looked, file)
		return "", errors.New("not found")
	}

	out, err := f.engine(t, m).Install(context.Background(), "local-xls")
	require.NoError(t, err)
	assert.Equal(t, "~/.local/bin/xls", out.Executable)
	require.Len(t, looked, 1)
	assert.False(t, strings.HasPrefix(looked[0], "~"), "home directory must be expanded")
}

func TestInstall_BrowsesSingleGroupLink(t *testing.T) {
	f := newFixture(t)
	m := mocks.NewMockInstaller(t)
	m.EXPECT().BrowseURL(mock.Anything, "https://example.com/zed").Return(nil)

	confirm := &answer{yes: true}
	f.opts.Confirmer = confirm

	out, err := f.engine(t, m).Install(context.Background(), "zed")
	require.NoError(t, err)
	assert.Equal(t, OutcomeBrowsed, out.Kind)
	assert.Equal(t, SourceLink, out.Source)
	assert.Equal(t, []string{"No install command is known for zed. Open https://example.com/zed?"}, confirm.questions)
}

func TestInstall_SkipList(t *testing.T) {
	f := newFixture(t)
	f.opts.SkipList = []string{"X"}
	f.opts.Resolver = untouched{t}

	_, err := f.engine(t, mocks.NewMockInstaller(t)).Install(context.Background(), "X")
	require.Error(t, err)
	assert.True(t, errors.Is(err, errors.ErrNoInformation))
}

func TestInstall_Declined(t *testing.T) {
	f := newFixture(t)
	f.opts.Confirmer = &answer{yes: false}

	out, err := f.engine(t, mocks.NewMockInstaller(t)).Install(context.Background(), "X")
	require.NoError(t, err)
	assert.Equal(t, OutcomeDeclined, out.Kind)
}

func TestInstall_InstallerFailure(t *testing.T) {
	f := newFixture(t)
	m := mocks.NewMockInstaller(t)
	m.EXPECT().RunShellCommand(mock.Anything, "cargo install rls").Return(errors.New("exit status 101"))

	_, err := f.engine(t, m).Install(context.Background(), "rls")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "installing rls")
}

func TestInstall_FailedResolutionKeepsIndex(t *testing.T) {
	f := newFixture(t)
	e := f.engine(t, mocks.NewMockInstaller(t))

	before, err := f.index.Get()
	require.NoError(t, err)

	_, err = e.Install(context.Background(), "unlisted")
	require.Error(t, err)

	after, err := f.index.Get()
	require.NoError(t, err)
	assert.Equal(t, before, after)
}

func TestInspect(t *testing.T) {
	f := newFixture(t)
	e := f.engine(t, mocks.NewMockInstaller(t))

	r, err := e.Inspect("X")
	require.NoError(t, err)
	assert.Equal(t, "stdio", r.Connection)
	assert.Equal(t, `"xls"`, r.Command)
	assert.Equal(t, "lsp-x", r.Group)
	assert.Equal(t, "xls", r.Executable)
	assert.Equal(t, "npm install -g xls-server", r.InstallCommand)
	assert.Equal(t, "install", r.Action)
	assert.Equal(t, filepath.Join(f.baseDir, "clients", "lsp-x.el"), r.File)

	r, err = e.Inspect("zed")
	require.NoError(t, err)
	assert.NotEmpty(t, r.ResolveError)
	assert.Equal(t, "browse", r.Action)
	assert.Equal(t, []string{"https://example.com/zed"}, r.Links)

	r, err = e.Inspect("rlss")
	require.NoError(t, err)
	assert.Equal(t, "none", r.Action)
	assert.Equal(t, "rls", r.Suggestion)
	assert.Equal(t, "no information on rlss", r.Error)
}

func TestInspect_Specs(t *testing.T) {
	e := New(Options{
		Specs: install.Specs{
			"foo":       `(npm "foo-language-server")`,
			"omnisharp": `(error "see the release page")`,
			"bad":       `(brew "x")`,
		},
		Logger: logging.ForTest(t),
	})

	r, err := e.Inspect("foo")
	require.NoError(t, err)
	assert.Equal(t, `(npm "foo-language-server")`, r.Spec)
	assert.Equal(t, "install", r.Action)

	r, err = e.Inspect("omnisharp")
	require.NoError(t, err)
	assert.Equal(t, "error", r.Action)
	assert.Equal(t, "see the release page", r.Error)

	_, err = e.Inspect("bad")
	assert.True(t, errors.Is(err, errors.ErrUnsupportedSpec))
}

func TestServerIDsAndRescan(t *testing.T) {
	f := newFixture(t)
	f.opts.Specs = install.Specs{"gopls": `(function go-install "golang.org/x/tools/gopls")`, "X": `(npm "x")`}
	e := f.engine(t, mocks.NewMockInstaller(t))

	ids, err := e.ServerIDs()
	require.NoError(t, err)
	assert.Equal(t, []string{"X", "gopls", "local-xls", "rls", "unlisted", "zed"}, ids)

	extra := filepath.Join(f.baseDir, "lsp-extra.el")
	require.NoError(t, os.WriteFile(extra, []byte(`(make-lsp-client :new-connection (lsp-stdio-connection "e") :server-id 'extra)`), 0o644))

	entries, err := e.Rescan()
	require.NoError(t, err)
	assert.Equal(t, extra, entries["extra"])
}

// untouched fails the test when any part of the discovery chain is used.
type untouched struct{ t *testing.T }

func (u untouched) IDs() ([]string, error) {
	u.t.Fatal("index used")
	return nil, nil
}

func (u untouched) Build() (map[string]string, error) {
	u.t.Fatal("index built")
	return nil, nil
}

func (u untouched) Invalidate() { u.t.Fatal("index invalidated") }

func (u untouched) Extract(string) (*client.Descriptor, *client.Group, error) {
	u.t.Fatal("extractor used")
	return nil, nil, nil
}

func (u untouched) Resolve(*client.Descriptor) (string, error) {
	u.t.Fatal("resolver used")
	return "", nil
}

func (u untouched) FindInstallCommand(string) (string, error) {
	u.t.Fatal("locator used")
	return "", nil
}
