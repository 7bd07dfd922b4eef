// Package agent implements the conversational surface: it routes incoming
// chat messages to actions and runs them against the user's session.
package agent

import (
	"strconv"
	"strings"
)

// Action is the closed set of things the agent can do with a message.
type Action int

const (
	// ActionUnknown is an unrecognized slash command.
	ActionUnknown Action = iota
	ActionStart
	ActionHelp
	ActionSearch
	ActionCustomize
	ActionCompose
	ActionExport
	ActionMore
	ActionResume
	ActionChat
)

func (a Action) String() string {
	switch a {
	case ActionStart:
		return "start"
	case ActionHelp:
		return "help"
	case ActionSearch:
		return "search"
	case ActionCustomize:
		return "customize"
	case ActionCompose:
		return "compose"
	case ActionExport:
		return "export"
	case ActionMore:
		return "more"
	case ActionResume:
		return "resume"
	case ActionChat:
		return "chat"
	default:
		return "unknown"
	}
}

// Command is the parsed form of one chat message.
type Command struct {
	Action   Action
	Query    string // search keywords
	Location string // search location
	Number   int    // 1-based listing number for customize
	Message  string // free text for chat
	Usage    string // non-empty when arguments were malformed
}

// locationWords are the single tokens treated as a location when they close a
// search command, so "/search python developer remote" splits as expected.
var locationWords = map[string]bool{
	"remote": true,
	"hybrid": true,
	"onsite": true,
}

// Route parses one message into a command. Slash commands map onto their
// actions; a bare number is a customize shortcut; any other text is a chat
// question. Malformed arguments come back as the intended action with Usage
// set so the caller can show how to use it.
func Route(text string) Command {
	trimmed := strings.TrimSpace(text)
	if trimmed == "" {
		return Command{Action: ActionHelp}
	}

	if !strings.HasPrefix(trimmed, "/") {
		if n, err := strconv.Atoi(trimmed); err == nil {
			return Command{Action: ActionCustomize, Number: n}
		}
		return Command{Action: ActionChat, Message: trimmed}
	}

	verb, rest, _ := strings.Cut(trimmed, " ")
	rest = strings.TrimSpace(rest)

	switch strings.ToLower(verb) {
	case "/start":
		return Command{Action: ActionStart}
	case "/help":
		return Command{Action: ActionHelp}
	case "/search":
		return routeSearch(rest)
	case "/customize":
		return routeCustomize(rest)
	case "/compose":
		return Command{Action: ActionCompose}
	case "/export":
		return Command{Action: ActionExport}
	case "/more":
		return Command{Action: ActionMore}
	case "/resume":
		return Command{Action: ActionResume}
	case "/chat":
		if rest == "" {
			return Command{Action: ActionChat, Usage: "Usage: /chat <message>\nExample: /chat which of these jobs fits me best?"}
		}
		return Command{Action: ActionChat, Message: rest}
	default:
		return Command{Action: ActionUnknown}
	}
}

func routeSearch(rest string) Command {
	parts := strings.Fields(rest)
	if len(parts) == 0 {
		return Command{
			Action: ActionSearch,
			Usage:  "Usage: /search <keywords> [location]\nExample: /search python developer remote",
		}
	}

	// The last token is a location when it is a known work mode or when the
	// query is long enough that a trailing city name is likely. An empty
	// location means the caller's configured default applies.
	location := ""
	keywords := parts
	last := strings.ToLower(parts[len(parts)-1])
	if len(parts) > 1 && (locationWords[last] || len(parts) > 2) {
		location = parts[len(parts)-1]
		keywords = parts[:len(parts)-1]
	}

	return Command{
		Action:   ActionSearch,
		Query:    strings.Join(keywords, " "),
		Location: location,
	}
}

func routeCustomize(rest string) Command {
	usage := "Usage: /customize <job number>\nExample: /customize 1"
	parts := strings.Fields(rest)
	if len(parts) == 0 {
		return Command{Action: ActionCustomize, Usage: usage}
	}
	n, err := strconv.Atoi(parts[0])
	if err != nil {
		return Command{Action: ActionCustomize, Usage: usage}
	}
	return Command{Action: ActionCustomize, Number: n}
}
