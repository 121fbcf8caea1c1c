package link_test

import (
	"os"
	"path/filepath"
	"syscall"
	"testing"

	"github.com/arthur-debert/dotlink/pkg/errors"
	"github.com/arthur-debert/dotlink/pkg/link"
	"github.com/arthur-debert/dotlink/pkg/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"
)

func vimrc(src link.Source) link.Links {
	return link.Links{{Destination: "~/.vimrc", Source: src}}
}

func TestApply_CreatesMissingLink(t *testing.T) {
	env := testutil.NewEnv(t)
	source := env.WriteSource("vimrc", "set number")

	ok := newHandler(env, link.Defaults{}).Apply(vimrc(link.Source{Path: "vimrc"}))

	assert.True(t, ok)
	assert.Equal(t, source, env.Readlink(env.HomePath(".vimrc")))
	assert.True(t, env.HasLog("info", "All links have been set up"))
}

func TestApply_ExistingFileWithoutForce(t *testing.T) {
	env := testutil.NewEnv(t)
	env.WriteSource("vimrc", "set number")
	dest := env.WriteHome(".vimrc", "precious")

	ok := newHandler(env, link.Defaults{Force: false}).Apply(vimrc(link.Source{Path: "vimrc"}))

	assert.False(t, ok)
	content, err := os.ReadFile(dest)
	require.NoError(t, err)
	assert.Equal(t, "precious", string(content))

	warnings := env.LogsAt("warn")
	require.Len(t, warnings, 1)
	assert.Equal(t, "~/.vimrc", warnings[0].Destination)
	assert.True(t, env.HasLog("error", "Some links were not successfully set up"))
}

func TestApply_ForceOverrideReplacesFile(t *testing.T) {
	env := testutil.NewEnv(t)
	source := env.WriteSource("vimrc", "set number")
	env.WriteHome(".vimrc", "precious")

	ok := newHandler(env, link.Defaults{}).Apply(vimrc(link.Source{Path: "vimrc", Force: link.Bool(true)}))

	assert.True(t, ok)
	assert.Equal(t, source, env.Readlink(env.HomePath(".vimrc")))
	assert.Empty(t, env.LogsAt("warn"))
}

func TestApply_RelinkFixesWrongLink(t *testing.T) {
	for _, defaults := range []link.Defaults{{Relink: true}, {Force: true}} {
		env := testutil.NewEnv(t)
		source := env.WriteSource("vimrc", "")
		env.SymlinkHome(".vimrc", env.WriteSource("old/vimrc", ""))

		ok := newHandler(env, defaults).Apply(vimrc(link.Source{Path: "vimrc"}))

		assert.True(t, ok, "defaults %+v", defaults)
		assert.Equal(t, source, env.Readlink(env.HomePath(".vimrc")))
	}
}

func TestApply_RelinkFixesDanglingLink(t *testing.T) {
	env := testutil.NewEnv(t)
	source := env.WriteSource("vimrc", "")
	env.SymlinkHome(".vimrc", "/nonexistent/vimrc")

	ok := newHandler(env, link.Defaults{Relink: true}).Apply(vimrc(link.Source{Path: "vimrc"}))

	assert.True(t, ok)
	assert.Equal(t, source, env.Readlink(env.HomePath(".vimrc")))
}

func TestApply_RelinkLeavesRealFiles(t *testing.T) {
	env := testutil.NewEnv(t)
	env.WriteSource("vimrc", "")
	dest := env.WriteHome(".vimrc", "precious")

	ok := newHandler(env, link.Defaults{Relink: true}).Apply(vimrc(link.Source{Path: "vimrc"}))

	assert.False(t, ok)
	assert.FileExists(t, dest)
	assert.True(t, env.HasLog("warn", "Already exists but is a regular file or directory"))
}

func TestApply_WrongLinkWithoutFlags(t *testing.T) {
	env := testutil.NewEnv(t)
	env.WriteSource("vimrc", "")
	old := env.WriteSource("old/vimrc", "")
	env.SymlinkHome(".vimrc", old)

	ok := newHandler(env, link.Defaults{}).Apply(vimrc(link.Source{Path: "vimrc"}))

	assert.False(t, ok)
	assert.Equal(t, old, env.Readlink(env.HomePath(".vimrc")))
	assert.True(t, env.HasLog("warn", "Incorrect link"))
}

func TestApply_Idempotent(t *testing.T) {
	env := testutil.NewEnv(t)
	env.WriteSource("vimrc", "")
	env.WriteSource("zsh/zshrc", "")
	env.MkdirSource("nvim")
	env.WriteHome(".gitconfig", "precious")
	env.WriteSource("gitconfig", "")

	links := link.Links{
		{Destination: "~/.vimrc", Source: link.Source{Path: "vimrc"}},
		{Destination: "~/.zshrc", Source: link.Source{Path: "zsh/zshrc", Relative: link.Bool(true)}},
		{Destination: "~/.config/nvim", Source: link.Source{Path: "nvim", Create: link.Bool(true)}},
		{Destination: "~/.gitconfig", Source: link.Source{Path: "gitconfig", Force: link.Bool(true)}},
	}
	h := newHandler(env, link.Defaults{Relink: true})

	require.True(t, h.Apply(links))
	require.NotEmpty(t, env.FS.Mutations())

	env.FS.ResetMutations()
	env.ResetLogs()

	assert.True(t, h.Apply(links))
	assert.Empty(t, env.FS.Mutations(), "second run must not touch the filesystem")

	var exists []string
	for _, line := range env.LogsAt("info") {
		if line.Message == "Link exists" {
			exists = append(exists, line.Destination)
		}
	}
	assert.Equal(t, []string{"~/.vimrc", "~/.zshrc", "~/.config/nvim", "~/.gitconfig"}, exists)
	assert.Empty(t, env.LogsAt("warn"))
}

func TestApply_IdempotentFailure(t *testing.T) {
	env := testutil.NewEnv(t)
	env.WriteSource("vimrc", "")
	env.WriteHome(".vimrc", "precious")

	h := newHandler(env, link.Defaults{})
	assert.False(t, h.Apply(vimrc(link.Source{Path: "vimrc"})))
	assert.False(t, h.Apply(vimrc(link.Source{Path: "vimrc"})))
	assert.Empty(t, env.FS.Mutations())
}

func TestApply_CreateParent(t *testing.T) {
	env := testutil.NewEnv(t)
	source := env.WriteSource("nvim/init.lua", "")

	ok := newHandler(env, link.Defaults{Create: true}).Apply(link.Links{
		{Destination: "~/.config/nvim/init.lua", Source: link.Source{Path: "nvim/init.lua"}},
	})

	assert.True(t, ok)
	assert.DirExists(t, env.HomePath(".config/nvim"))
	assert.Equal(t, source, env.Readlink(env.HomePath(".config/nvim/init.lua")))

	// The directory is made before the link
	mutations := env.FS.Mutations()
	require.Len(t, mutations, 2)
	assert.Equal(t, "mkdirall "+env.HomePath(".config/nvim"), mutations[0])
	assert.Equal(t, "symlink "+env.HomePath(".config/nvim/init.lua"), mutations[1])
}

func TestApply_LaterEntriesSeeEarlierDirectories(t *testing.T) {
	env := testutil.NewEnv(t)
	env.WriteSource("nvim", "")
	env.WriteSource("git", "")

	ok := newHandler(env, link.Defaults{}).Apply(link.Links{
		{Destination: "~/.config/a/nvim", Source: link.Source{Path: "nvim", Create: link.Bool(true)}},
		{Destination: "~/.config/a/git", Source: link.Source{Path: "git"}},
	})

	assert.True(t, ok)
	assert.Equal(t, env.SourcePath("git"), env.Readlink(env.HomePath(".config/a/git")))
}

func TestApply_FailureDoesNotStopOrRollBack(t *testing.T) {
	env := testutil.NewEnv(t)
	env.WriteSource("vimrc", "")
	env.WriteSource("zshrc", "")
	env.WriteSource("bashrc", "")
	blocked := env.WriteHome(".zshrc", "precious")
	env.FS.WithError(testutil.OpRemove, blocked, syscall.EBUSY)

	ok := newHandler(env, link.Defaults{Force: true}).Apply(link.Links{
		{Destination: "~/.vimrc", Source: link.Source{Path: "vimrc"}},
		{Destination: "~/.zshrc", Source: link.Source{Path: "zshrc"}},
		{Destination: "~/.bashrc", Source: link.Source{Path: "bashrc"}},
	})

	assert.False(t, ok)
	assert.Equal(t, env.SourcePath("vimrc"), env.Readlink(env.HomePath(".vimrc")))
	assert.Equal(t, env.SourcePath("bashrc"), env.Readlink(env.HomePath(".bashrc")))
	assert.FileExists(t, blocked)

	// The failed removal is reported, then Ensure refuses the leftover file
	var messages []string
	for _, line := range env.LogsAt("warn") {
		assert.Equal(t, "~/.zshrc", line.Destination)
		messages = append(messages, line.Message)
	}
	assert.Equal(t, []string{"Failed to remove", "Already exists but is a regular file or directory"}, messages)
}

func TestApply_EnvironmentInDestination(t *testing.T) {
	env := testutil.NewEnv(t)
	t.Setenv("DOTLINK_TEST_HOME", env.HomeDir)
	source := env.WriteSource("zshrc", "")

	ok := newHandler(env, link.Defaults{}).Apply(link.Links{
		{Destination: "$DOTLINK_TEST_HOME/.zshrc", Source: link.Source{Path: "zshrc"}},
	})

	assert.True(t, ok)
	assert.Equal(t, source, env.Readlink(env.HomePath(".zshrc")))
	assert.True(t, env.HasLog("info", "Creating link"))
	assert.Equal(t, env.HomePath(".zshrc"), env.LogsAt("info")[0].Destination)
}

func TestApply_Empty(t *testing.T) {
	env := testutil.NewEnv(t)

	assert.True(t, newHandler(env, link.Defaults{}).Apply(nil))
	assert.Empty(t, env.FS.Mutations())
}

func TestHandle(t *testing.T) {
	env := testutil.NewEnv(t)
	env.WriteSource("vimrc", "")
	env.WriteSource("zsh/zshrc", "")
	env.WriteHome(".zshrc", "old")

	config := `
- defaults:
    link:
      relink: true
- link:
    ~/.vimrc: vimrc
    ~/.zshrc:
      path: zsh/zshrc
      force: true
`
	var doc yaml.Node
	require.NoError(t, yaml.Unmarshal([]byte(config), &doc))
	// document -> sequence -> second mapping -> value of "link"
	data := doc.Content[0].Content[1].Content[1]

	h := newHandler(env, link.Defaults{})
	require.True(t, h.CanHandle("link"))

	ok, err := h.Handle("link", data)
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, env.SourcePath("vimrc"), env.Readlink(env.HomePath(".vimrc")))
	assert.Equal(t, env.SourcePath("zsh/zshrc"), env.Readlink(env.HomePath(".zshrc")))
}

func TestHandle_UnknownDirective(t *testing.T) {
	env := testutil.NewEnv(t)
	env.WriteSource("vimrc", "")

	var data yaml.Node
	require.NoError(t, yaml.Unmarshal([]byte("~/.vimrc: vimrc\n"), &data))

	h := newHandler(env, link.Defaults{})
	assert.False(t, h.CanHandle("shell"))

	ok, err := h.Handle("shell", &data)
	require.Error(t, err)
	assert.False(t, ok)
	assert.True(t, errors.IsErrorCode(err, errors.ErrUnknownDirective))
	assert.Empty(t, env.FS.Mutations())
}

func TestHandle_InvalidData(t *testing.T) {
	env := testutil.NewEnv(t)

	var data yaml.Node
	require.NoError(t, yaml.Unmarshal([]byte("- ~/.vimrc\n"), &data))

	ok, err := newHandler(env, link.Defaults{}).Handle("link", &data)
	require.Error(t, err)
	assert.False(t, ok)
	assert.True(t, errors.IsErrorCode(err, errors.ErrInvalidInput))
	assert.Empty(t, env.Logs())
}

func TestNewHandler_Defaults(t *testing.T) {
	cwd, err := os.Getwd()
	require.NoError(t, err)

	h := link.NewHandler(link.Context{})
	assert.Equal(t, cwd, h.BaseDirectory())

	h = link.NewHandler(link.Context{BaseDirectory: "dotfiles/../dotfiles"})
	assert.Equal(t, filepath.Join(cwd, "dotfiles"), h.BaseDirectory())
}
