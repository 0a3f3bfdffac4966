// Package paths resolves the directories lspinstall reads from.
//
// Configuration lives below the XDG config home (github.com/adrg/xdg):
//
//	paths.ConfigDir() // ~/.config/lspinstall on Linux
//
// The lsp-mode checkout whose client modules and README.org are indexed is
// discovered with [DiscoverLSPDir], which searches the package.el and
// straight.el locations of a stock Emacs, Doom and XDG-style init
// directory. The newest package.el install wins.
package paths
