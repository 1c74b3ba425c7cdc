// Package input holds prompt helpers for the TUI command line.
package input

import "strings"

// PromptCommand describes a command suggestion entry.
type PromptCommand struct {
	Name        string
	Description string
}

// PromptMatchingCommands returns the commands whose verb starts with input.
// Nothing matches once an argument has been typed.
func PromptMatchingCommands(input string, commands []PromptCommand) []PromptCommand {
	verb := strings.ToLower(strings.TrimLeft(input, " "))
	if verb == "" || strings.Contains(verb, " ") {
		return nil
	}

	var matches []PromptCommand
	for _, cmd := range commands {
		if strings.HasPrefix(cmd.Name, verb) {
			matches = append(matches, cmd)
		}
	}
	return matches
}

// PromptAutocomplete completes the verb being typed. A single match is
// completed with a trailing space; several matches are completed to their
// longest shared prefix. It reports false when nothing would change.
func PromptAutocomplete(input string, commands []PromptCommand) (string, bool) {
	matches := PromptMatchingCommands(input, commands)
	if len(matches) == 0 {
		return "", false
	}
	if len(matches) == 1 {
		return matches[0].Name + " ", true
	}

	prefix := matches[0].Name
	for _, m := range matches[1:] {
		for !strings.HasPrefix(m.Name, prefix) {
			prefix = prefix[:len(prefix)-1]
		}
	}
	if prefix == strings.ToLower(strings.TrimLeft(input, " ")) {
		return "", false
	}
	return prefix, true
}
