// Package tui provides the interactive terminal pieces of the gitscope CLI:
// TTY detection and confirmation or secret prompts (using survey).
package tui
