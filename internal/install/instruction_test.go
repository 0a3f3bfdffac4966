package install_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"github.com/thoreinstein/lspinstall/internal/install"
	"github.com/thoreinstein/lspinstall/internal/install/mocks"
)

func TestClassify(t *testing.T) {
	tests := []struct {
		name string
		text string
		want install.Instruction
	}{
		{
			name: "npm install -g",
			text: "npm install -g pyright",
			want: install.Npm{Packages: []string{"pyright"}},
		},
		{
			name: "npm i --global with several packages",
			text: "npm i --global a b",
			want: install.Npm{Packages: []string{"a", "b"}},
		},
		{
			name: "extra whitespace",
			text: "npm  install\t--global   typescript   typescript-language-server",
			want: install.Npm{Packages: []string{"typescript", "typescript-language-server"}},
		},
		{
			name: "cargo",
			text: "cargo install rls",
			want: install.Shell{Command: "cargo install rls"},
		},
		{
			name: "local npm install",
			text: "npm install pyright",
			want: install.Shell{Command: "npm install pyright"},
		},
		{
			name: "npm with a trailing shell command",
			text: "pip install x && npm i -g y",
			want: install.Shell{Command: "pip install x && npm i -g y"},
		},
		{
			name: "empty",
			text: "",
			want: install.Shell{Command: ""},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, install.Classify(tt.text))
		})
	}
}

func TestExecute(t *testing.T) {
	ctx := context.Background()

	t.Run("npm", func(t *testing.T) {
		m := mocks.NewMockInstaller(t)
		m.EXPECT().InstallNpmPackages(mock.Anything, []string{"xls-server"}).Return(nil)

		assert.NoError(t, install.Execute(ctx, install.Npm{Packages: []string{"xls-server"}}, m))
	})

	t.Run("shell", func(t *testing.T) {
		m := mocks.NewMockInstaller(t)
		m.EXPECT().RunShellCommand(mock.Anything, "cargo install rls").Return(nil)

		assert.NoError(t, install.Execute(ctx, install.Shell{Command: "cargo install rls"}, m))
	})
}
