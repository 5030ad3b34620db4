package api

import (
	"fmt"
	"net/http"
)

// Command is the kind of operation a request performs against a backend.
type Command string

const (
	CommandQuery    Command = "query"
	CommandCreate   Command = "create"
	CommandUpdate   Command = "update"
	CommandDelete   Command = "delete"
	CommandUpload   Command = "upload"
	CommandDownload Command = "download"
)

var defaultMethods = map[Command]string{
	CommandQuery:    http.MethodGet,
	CommandCreate:   http.MethodPut,
	CommandUpdate:   http.MethodPost,
	CommandDelete:   http.MethodDelete,
	CommandUpload:   http.MethodPost,
	CommandDownload: http.MethodGet,
}

// Commands lists every command kind.
func Commands() []Command {
	return []Command{
		CommandQuery, CommandCreate, CommandUpdate,
		CommandDelete, CommandUpload, CommandDownload,
	}
}

// DefaultMethod returns the HTTP method used when a request does not set one.
// It returns an empty string for unknown commands.
func (c Command) DefaultMethod() string {
	return defaultMethods[c]
}

// Valid reports whether c is one of the known command kinds.
func (c Command) Valid() bool {
	_, ok := defaultMethods[c]
	return ok
}

// ParseCommand converts a command name into a Command.
func ParseCommand(s string) (Command, error) {
	c := Command(s)
	if !c.Valid() {
		return "", fmt.Errorf("unknown command %q", s)
	}
	return c, nil
}
